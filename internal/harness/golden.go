package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/curalab/curatree/internal/batch"
	"github.com/curalab/curatree/internal/criterion"
)

// RunWithGolden executes a scenario and compares the rendered outcome
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) {
	t.Helper()

	inputs := make([]batch.Input, len(scenario.Documents))
	for i, doc := range scenario.Documents {
		inputs[i] = batch.Input{ID: doc.ID, Text: doc.Text}
	}

	report := batch.Run(inputs, batch.Options{
		Targets:     scenario.Targets,
		ScrubFields: scenario.ScrubFields,
	})

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, renderSnapshot(scenario.Name, report))
}

// renderSnapshot renders a report as stable text. The run ID is
// deliberately left out: it changes every invocation.
func renderSnapshot(name string, report batch.Report) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", name)

	for _, doc := range report.Documents {
		fmt.Fprintf(&b, "\n== document %s\n", doc.ID)
		for _, tree := range doc.Trees {
			b.WriteString(criterion.Format(tree))
			b.WriteString("\n")
		}
	}
	for _, skip := range report.Skipped {
		fmt.Fprintf(&b, "\n== skipped %s: %s\n", skip.ID, skip.Reason)
	}
	return []byte(b.String())
}
