// Package batch runs the parse, rewrite and prune pipeline over many
// documents at once. A failed document is skipped with an attributable
// reason; nothing a single document contains can abort the run.
package batch

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/curalab/curatree/internal/ast"
	"github.com/curalab/curatree/internal/criterion"
	"github.com/curalab/curatree/internal/lookup"
	"github.com/curalab/curatree/internal/rewrite"
)

// Input is one document to process: an identifier for attribution and
// its criterion-DSL source text.
type Input struct {
	ID   string
	Text string
}

// MoveSpec configures the move-to pass: leaves of LeafType whose Field
// value resolves in Table's Move_to map are replaced by a fresh leaf
// of the resolved type.
type MoveSpec struct {
	Table    *lookup.Table
	LeafType string
	Field    string
}

// Options configures a run. Zero value means parse-only.
type Options struct {
	// Targets prunes each document to subtrees containing these leaf
	// types. Empty disables pruning.
	Targets []string

	// ScrubFields are dropped from every leaf before pruning.
	ScrubFields []string

	// Move, when set, applies the move-to pass before pruning.
	Move *MoveSpec
}

// Skip records why a document produced no output.
type Skip struct {
	ID     string
	Reason string
	Err    error
}

// Report is the outcome of one run.
type Report struct {
	// RunID tags every document of one invocation.
	RunID string

	// Documents are the surviving, rewritten documents in input order.
	Documents []rewrite.Document

	// Skipped lists documents that produced no output, with reasons.
	Skipped []Skip
}

// Run processes every input through parse, scrub, move-to and prune.
// It never returns an error: per-document failures land in the
// report's Skipped list and are logged with the run ID.
func Run(inputs []Input, opts Options) Report {
	report := Report{RunID: uuid.NewString()}
	slog.Info("batch run starting", "run_id", report.RunID, "documents", len(inputs))

	for _, input := range inputs {
		doc, skip := runOne(input, opts)
		if skip != nil {
			slog.Warn("document skipped",
				"run_id", report.RunID, "document", skip.ID, "reason", skip.Reason, "error", skip.Err)
			report.Skipped = append(report.Skipped, *skip)
			continue
		}
		report.Documents = append(report.Documents, *doc)
	}

	slog.Info("batch run finished",
		"run_id", report.RunID, "processed", len(report.Documents), "skipped", len(report.Skipped))
	return report
}

func runOne(input Input, opts Options) (*rewrite.Document, *Skip) {
	root, err := criterion.Parse(input.Text)
	if err != nil {
		return nil, &Skip{ID: input.ID, Reason: "parse failed", Err: err}
	}
	doc := &rewrite.Document{ID: input.ID, Text: input.Text, Trees: []ast.Node{root}}

	for _, field := range opts.ScrubFields {
		rewrite.ScrubField(doc.Trees, field)
	}

	if opts.Move != nil {
		if err := applyMove(doc, opts.Move); err != nil {
			return nil, &Skip{ID: input.ID, Reason: "move-to failed", Err: err}
		}
	}

	if len(opts.Targets) > 0 && !rewrite.PruneDocument(doc, opts.Targets) {
		return nil, &Skip{ID: input.ID, Reason: "no target content after pruning"}
	}
	return doc, nil
}

// applyMove replaces every matching leaf whose lookup value has a
// Move_to destination. The tabulation is taken once up front; replaced
// leaves cannot appear twice because replacement is by identity.
func applyMove(doc *rewrite.Document, spec *MoveSpec) error {
	for _, rec := range rewrite.Tabulate(doc.Trees) {
		leaf, ok := rec.Node.(*ast.Leaf)
		if !ok || leaf.TypeName != spec.LeafType {
			continue
		}
		value, ok := leaf.Fields.Get(spec.Field).(ast.String)
		if !ok {
			continue
		}
		target, ok := spec.Table.MoveTarget(string(value))
		if !ok {
			continue
		}
		if _, err := rewrite.MoveTo(doc, rec.Parent, leaf, target); err != nil {
			return fmt.Errorf("move %s to %s: %w", leaf.TypeName, target, err)
		}
	}
	return nil
}
