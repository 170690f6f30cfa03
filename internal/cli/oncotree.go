package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/curalab/curatree/internal/oncotree"
)

// NewOncotreeCommand creates the oncotree command.
func NewOncotreeCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		csvPath string
		level   int
	)

	cmd := &cobra.Command{
		Use:   "oncotree --csv <file> <code>",
		Short: "Look up a tumor-type code in an OncoTree path table",
		Long: `Load an OncoTree path-table CSV and print the ancestor chain of
the given tumor-type code, root first.

With --level, print only the ancestor at that level (lifting the code
to a coarser granularity).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOncotree(rootOpts, cmd, args[0], csvPath, level)
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "OncoTree path-table CSV file")
	cmd.Flags().IntVar(&level, "level", 0, "lift the code to this level (1 is coarsest)")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}

func runOncotree(opts *RootOptions, cmd *cobra.Command, code, csvPath string, level int) error {
	formatter := newFormatter(opts, cmd)

	f, err := os.Open(csvPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to open path table", err)
	}
	defer f.Close()

	tree, err := oncotree.FromCSV(f)
	if err != nil {
		return formatter.Fail(ExitFailure, "failed to build tree", err)
	}

	node := tree.Get(code)
	if node == nil {
		return formatter.Fail(ExitFailure, fmt.Sprintf("unknown code %q", code), nil)
	}

	if level > 0 {
		lifted := tree.Lift(code, level)
		if lifted == nil {
			return formatter.Fail(ExitFailure,
				fmt.Sprintf("%s sits above level %d", code, level), nil)
		}
		if opts.Format == "json" {
			return formatter.SuccessJSON(oncotreeNodeJSON(lifted))
		}
		return formatter.SuccessText(lifted.Term())
	}

	ancestors := tree.Ancestors(code)
	if opts.Format == "json" {
		chain := make([]any, len(ancestors))
		for i, a := range ancestors {
			chain[i] = oncotreeNodeJSON(a)
		}
		return formatter.SuccessJSON(map[string]any{"code": node.Code, "ancestors": chain})
	}
	terms := make([]string, len(ancestors))
	for i, a := range ancestors {
		terms[i] = a.Term()
	}
	return formatter.SuccessText(strings.Join(terms, " > "))
}

func oncotreeNodeJSON(n *oncotree.Node) map[string]any {
	return map[string]any{
		"code":  n.Code,
		"name":  n.Name,
		"level": n.Level,
	}
}
