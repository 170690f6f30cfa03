package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/curalab/curatree/internal/batch"
	"github.com/curalab/curatree/internal/criterion"
	"github.com/curalab/curatree/internal/lookup"
)

// NewPruneCommand creates the prune command.
func NewPruneCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		targets   []string
		scrub     []string
		moveTable string
		moveLeaf  string
		moveField string
	)

	cmd := &cobra.Command{
		Use:   "prune --target <leaf-type> <file>...",
		Short: "Prune criterion documents to target leaf types",
		Long: `Run the batch pipeline over one document per file: parse, scrub,
and prune to subtrees containing the target leaf types. Failed or
emptied documents are reported and skipped; the run never aborts.

With --move-table, leaves of --move-leaf type whose --move-field value
has a move_to entry in the lookup CSV are rewritten to the mapped
type before pruning.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(rootOpts, cmd, args, pruneFlags{
				targets:   targets,
				scrub:     scrub,
				moveTable: moveTable,
				moveLeaf:  moveLeaf,
				moveField: moveField,
			})
		},
	}

	cmd.Flags().StringSliceVar(&targets, "target", nil, "leaf type to keep (repeatable)")
	cmd.Flags().StringSliceVar(&scrub, "scrub", nil, "leaf field to drop (repeatable)")
	cmd.Flags().StringVar(&moveTable, "move-table", "", "lookup CSV with move_to entries")
	cmd.Flags().StringVar(&moveLeaf, "move-leaf", "", "leaf type the move table applies to")
	cmd.Flags().StringVar(&moveField, "move-field", "", "leaf field holding the lookup value")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

type pruneFlags struct {
	targets   []string
	scrub     []string
	moveTable string
	moveLeaf  string
	moveField string
}

func runPrune(opts *RootOptions, cmd *cobra.Command, args []string, flags pruneFlags) error {
	formatter := newFormatter(opts, cmd)

	inputs := make([]batch.Input, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return formatter.Fail(ExitCommandError, "failed to read document", err)
		}
		inputs = append(inputs, batch.Input{ID: filepath.Base(path), Text: string(data)})
	}

	batchOpts := batch.Options{Targets: flags.targets, ScrubFields: flags.scrub}
	if flags.moveTable != "" {
		if flags.moveLeaf == "" || flags.moveField == "" {
			return formatter.Fail(ExitCommandError,
				"--move-table requires --move-leaf and --move-field", nil)
		}
		f, err := os.Open(flags.moveTable)
		if err != nil {
			return formatter.Fail(ExitCommandError, "failed to open move table", err)
		}
		table, err := lookup.FromCSV(f)
		f.Close()
		if err != nil {
			return formatter.Fail(ExitFailure, "failed to load move table", err)
		}
		batchOpts.Move = &batch.MoveSpec{
			Table:    table,
			LeafType: flags.moveLeaf,
			Field:    flags.moveField,
		}
	}

	report := batch.Run(inputs, batchOpts)
	formatter.VerboseLog("run %s: %d processed, %d skipped",
		report.RunID, len(report.Documents), len(report.Skipped))

	if opts.Format == "json" {
		return formatter.SuccessJSON(pruneReportJSON(report))
	}

	var b strings.Builder
	for _, doc := range report.Documents {
		fmt.Fprintf(&b, "== %s\n", doc.ID)
		for _, tree := range doc.Trees {
			b.WriteString(criterion.Format(tree))
			b.WriteString("\n")
		}
	}
	for _, skip := range report.Skipped {
		fmt.Fprintf(&b, "== %s skipped: %s\n", skip.ID, skip.Reason)
	}
	return formatter.SuccessText(strings.TrimRight(b.String(), "\n"))
}

func pruneReportJSON(report batch.Report) map[string]any {
	docs := make([]map[string]any, len(report.Documents))
	for i, doc := range report.Documents {
		trees := make([]any, len(doc.Trees))
		for j, tree := range doc.Trees {
			trees[j] = nodeJSON(tree)
		}
		docs[i] = map[string]any{"id": doc.ID, "trees": trees}
	}
	skipped := make([]map[string]any, len(report.Skipped))
	for i, skip := range report.Skipped {
		entry := map[string]any{"id": skip.ID, "reason": skip.Reason}
		if skip.Err != nil {
			entry["error"] = skip.Err.Error()
		}
		skipped[i] = entry
	}
	return map[string]any{
		"run_id":    report.RunID,
		"documents": docs,
		"skipped":   skipped,
	}
}
