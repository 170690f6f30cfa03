package cli

import (
	"github.com/spf13/cobra"

	"github.com/curalab/curatree/internal/criterion"
)

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse criterion-DSL text and print the tree",
		Long: `Parse criterion-DSL text from a file or stdin.

Text output is the canonical re-formatted DSL (a parse/format round
trip); JSON output is the tree structure.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, cmd, args)
		},
	}
	return cmd
}

func runParse(opts *RootOptions, cmd *cobra.Command, args []string) error {
	formatter := newFormatter(opts, cmd)

	text, err := readInput(cmd, args)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to read input", err)
	}

	node, err := criterion.Parse(text)
	if err != nil {
		return formatter.Fail(ExitFailure, "parse failed", err)
	}

	if opts.Format == "json" {
		return formatter.SuccessJSON(nodeJSON(node))
	}
	return formatter.SuccessText(criterion.Format(node))
}
