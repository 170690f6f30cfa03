// Curatree parses eligibility-criterion DSL text, repairs JSON-ish
// model output, and prunes criterion trees to target leaf types.
//
// Usage:
//
//	# Parse criterion-DSL text and print the canonical rendering
//	curatree parse criteria.txt
//
//	# Parse rule-DSL text, reporting names outside the known set
//	curatree rule --known IS_MALE,IS_FEMALE rules.txt
//
//	# Recover a JSON value from malformed model output
//	curatree repair --fence json completion.txt
//
//	# Prune documents to histology subtrees
//	curatree prune --target histology trial1.txt trial2.txt
//
//	# Lift a tumor-type code to its level-2 ancestor
//	curatree oncotree --csv oncotree.csv --level 2 MEL
package main

import (
	"os"

	"github.com/curalab/curatree/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
