package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/curalab/curatree/internal/smartjson"
)

// NewRepairCommand creates the repair command.
func NewRepairCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		fenceLang string
		unescape  bool
	)

	cmd := &cobra.Command{
		Use:   "repair [file]",
		Short: "Parse JSON-ish text through the fault-tolerant pipeline",
		Long: `Parse JSON-shaped text from a file or stdin, degrading through
strict decoding, textual repair and the tolerant parser. The recovered
value is printed as valid JSON.

--fence extracts fenced code blocks of the given language first;
--unescape strips stray backslash escapes before parsing.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepair(rootOpts, cmd, args, fenceLang, unescape)
		},
	}

	cmd.Flags().StringVar(&fenceLang, "fence", "", "extract fenced code blocks of this language first")
	cmd.Flags().BoolVar(&unescape, "unescape", false, "strip stray backslash escapes before parsing")
	return cmd
}

func runRepair(opts *RootOptions, cmd *cobra.Command, args []string, fenceLang string, unescape bool) error {
	formatter := newFormatter(opts, cmd)

	text, err := readInput(cmd, args)
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to read input", err)
	}

	if fenceLang != "" {
		text = smartjson.ExtractCodeBlock(text, fenceLang)
	}
	if unescape {
		text = smartjson.UnescapeString(text)
	}

	value, err := smartjson.ParseDocument(text)
	if err != nil {
		return formatter.Fail(ExitFailure, "all repair stages failed", err)
	}

	if opts.Format == "json" {
		return formatter.SuccessJSON(value)
	}
	rendered, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return formatter.Fail(ExitFailure, "encode recovered value", err)
	}
	return formatter.SuccessText(string(rendered))
}
