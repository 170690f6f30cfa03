package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/curalab/curatree/internal/rulexpr"
)

// NewRuleCommand creates the rule command.
func NewRuleCommand(rootOpts *RootOptions) *cobra.Command {
	var knownRules []string

	cmd := &cobra.Command{
		Use:   "rule [file]",
		Short: "Parse rule-DSL text and print the tree",
		Long: `Parse rule-DSL text (NAME[args], AND/OR/NOT composites) from a file
or stdin and print the canonical rendering.

With --known, rule names absent from the known set are listed on
stderr so new vocabulary shows up during curation.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRule(rootOpts, cmd, args, knownRules)
		},
	}

	cmd.Flags().StringSliceVar(&knownRules, "known", nil, "known rule names; new names are reported")
	return cmd
}

func runRule(opts *RootOptions, cmd *cobra.Command, args []string, knownRules []string) error {
	formatter := newFormatter(opts, cmd)

	text, err := readInput(cmd, args)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to read input", err)
	}

	node, err := rulexpr.Parse(text)
	if err != nil {
		return formatter.Fail(ExitFailure, "parse failed", err)
	}

	if len(knownRules) > 0 {
		known := make(map[string]struct{}, len(knownRules))
		for _, name := range knownRules {
			known[name] = struct{}{}
		}
		if fresh := rulexpr.NewRules(node, known); len(fresh) > 0 {
			fmt.Fprintf(formatter.GetErrWriter(), "new rules: %s\n", strings.Join(fresh, ", "))
		}
	}

	if opts.Format == "json" {
		return formatter.SuccessJSON(nodeJSON(node))
	}
	return formatter.SuccessText(rulexpr.Format(node))
}
