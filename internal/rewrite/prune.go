package rewrite

import (
	"github.com/curalab/curatree/internal/ast"
)

// Prune removes, bottom-up, every subtree that contains no node whose
// type name is in targets. Composites survive through their surviving
// children; a composite left childless is dropped unless its own type
// name is a target. Roots with no surviving content are removed from
// the returned forest. Pruning is idempotent.
func Prune(forest []ast.Node, targets []string) []ast.Node {
	set := targetSet(targets)
	kept := make([]ast.Node, 0, len(forest))
	for _, root := range forest {
		if pruneNode(root, set) {
			kept = append(kept, root)
		}
	}
	return kept
}

// PruneDocument prunes a document's forest in place and reports
// whether any content survived. A false return marks the document
// discardable.
func PruneDocument(doc *Document, targets []string) bool {
	doc.Trees = Prune(doc.Trees, targets)
	return len(doc.Trees) > 0
}

// pruneNode prunes the subtree rooted at n and reports whether the
// subtree still contains a target.
func pruneNode(n ast.Node, targets map[string]struct{}) bool {
	_, isTarget := targets[ast.TypeNameOf(n)]

	switch node := n.(type) {
	case *ast.Leaf:
		return isTarget

	case *ast.And:
		node.Children = pruneChildren(node.Children, targets)
		return isTarget || len(node.Children) > 0

	case *ast.Or:
		node.Children = pruneChildren(node.Children, targets)
		return isTarget || len(node.Children) > 0

	case *ast.Not:
		// The child either survives intact or takes the Not with it;
		// a Not is never left childless.
		if node.Child == nil {
			return isTarget
		}
		return isTarget || pruneNode(node.Child, targets)

	case *ast.If:
		// Only the condition slot participates in traversal, so only
		// it decides survival. Then/Else ride along with the If.
		if node.Condition == nil {
			return isTarget
		}
		return isTarget || pruneNode(node.Condition, targets)

	default:
		return false
	}
}

func pruneChildren(children []ast.Node, targets map[string]struct{}) []ast.Node {
	kept := children[:0]
	for _, child := range children {
		if pruneNode(child, targets) {
			kept = append(kept, child)
		}
	}
	return kept
}
