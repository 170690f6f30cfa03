// Package rewrite mutates criterion trees: bottom-up pruning to a
// target leaf-type set, identity-based node replacement and removal,
// and read-mode tabulation. Every mutation works on the same child
// slots the walker resolves (criteria list, criterion slot, condition
// slot), so a pruned or rewritten tree is still a valid input to every
// other component.
package rewrite

import (
	"github.com/curalab/curatree/internal/ast"
)

// Document is one curated unit: the source text it was parsed from and
// the forest of criterion trees that came out. A document whose forest
// is empty after pruning carries no usable content and is discardable.
type Document struct {
	// ID attributes log lines and batch reports to a document.
	ID string

	// Text is the source the forest was parsed from, kept for
	// reporting.
	Text string

	// Trees is the forest of root nodes.
	Trees []ast.Node
}

// Record is one row of a read-mode tabulation.
type Record struct {
	Node   ast.Node
	Parent ast.Node
	Depth  int
}

// Tabulate walks the forest in read mode and records every visit. No
// mutation happens; the records are safe to hold across later
// rewrites, but their Parent pointers go stale if the tree changes.
func Tabulate(forest []ast.Node) []Record {
	var records []Record
	ast.WalkForest(forest, func(node, parent ast.Node, depth int) {
		records = append(records, Record{Node: node, Parent: parent, Depth: depth})
	})
	return records
}

// ContainsTarget reports whether any node in the forest has a type
// name in targets.
func ContainsTarget(forest []ast.Node, targets []string) bool {
	set := targetSet(targets)
	found := false
	ast.WalkForest(forest, func(node, _ ast.Node, _ int) {
		if _, ok := set[ast.TypeNameOf(node)]; ok {
			found = true
		}
	})
	return found
}

// FilterDocuments keeps only documents whose forest contains at least
// one target node. Input order is preserved.
func FilterDocuments(docs []Document, targets []string) []Document {
	var kept []Document
	for _, doc := range docs {
		if ContainsTarget(doc.Trees, targets) {
			kept = append(kept, doc)
		}
	}
	return kept
}

// ScrubField deletes the named field from every leaf in the forest.
func ScrubField(forest []ast.Node, key string) {
	ast.WalkForest(forest, func(node, _ ast.Node, _ int) {
		if leaf, ok := node.(*ast.Leaf); ok {
			leaf.Fields.Delete(key)
		}
	})
}

func targetSet(targets []string) map[string]struct{} {
	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		set[t] = struct{}{}
	}
	return set
}
