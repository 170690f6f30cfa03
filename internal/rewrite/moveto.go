package rewrite

import (
	"log/slog"

	"github.com/curalab/curatree/internal/ast"
)

// Replace swaps old for new in its slot under parent. A nil parent
// means old is a forest root of doc. Lookup is by identity, not value,
// because sibling leaves can be field-for-field identical. A parent
// that does not actually hold old is an InvariantError.
func Replace(doc *Document, parent, old, repl ast.Node) error {
	if parent == nil {
		for i, root := range doc.Trees {
			if root == old {
				doc.Trees[i] = repl
				return nil
			}
		}
		return newNodeNotFoundError(ast.TypeNameOf(old), "")
	}

	switch p := parent.(type) {
	case *ast.And:
		if replaceInSlice(p.Children, old, repl) {
			return nil
		}
	case *ast.Or:
		if replaceInSlice(p.Children, old, repl) {
			return nil
		}
	case *ast.Not:
		if p.Child == old {
			p.Child = repl
			return nil
		}
	case *ast.If:
		if p.Condition == old {
			p.Condition = repl
			return nil
		}
	case *ast.Leaf:
		return newLeafParentError(ast.TypeNameOf(old), ast.TypeNameOf(parent))
	}
	return newNodeNotFoundError(ast.TypeNameOf(old), ast.TypeNameOf(parent))
}

// Remove deletes node from its slot under parent. A nil parent removes
// a forest root. Removal from a Not or If empties the slot; a later
// prune pass drops the childless wrapper.
func Remove(doc *Document, parent, node ast.Node) error {
	if parent == nil {
		for i, root := range doc.Trees {
			if root == node {
				doc.Trees = append(doc.Trees[:i], doc.Trees[i+1:]...)
				return nil
			}
		}
		return newNodeNotFoundError(ast.TypeNameOf(node), "")
	}

	switch p := parent.(type) {
	case *ast.And:
		if i := indexOf(p.Children, node); i >= 0 {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			return nil
		}
	case *ast.Or:
		if i := indexOf(p.Children, node); i >= 0 {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			return nil
		}
	case *ast.Not:
		if p.Child == node {
			p.Child = nil
			return nil
		}
	case *ast.If:
		if p.Condition == node {
			p.Condition = nil
			return nil
		}
	case *ast.Leaf:
		return newLeafParentError(ast.TypeNameOf(node), ast.TypeNameOf(parent))
	}
	return newNodeNotFoundError(ast.TypeNameOf(node), ast.TypeNameOf(parent))
}

// MoveTo replaces the leaf old with a freshly constructed empty leaf of
// targetType, in the same slot. An empty targetType means "no
// destination": old is removed instead. Returns the new leaf, or nil
// when old was removed.
func MoveTo(doc *Document, parent ast.Node, old *ast.Leaf, targetType string) (*ast.Leaf, error) {
	if targetType == "" {
		slog.Warn("move-to has no destination type, removing node",
			"node", old.TypeName)
		if err := Remove(doc, parent, old); err != nil {
			return nil, err
		}
		return nil, nil
	}

	fresh := &ast.Leaf{TypeName: targetType}
	if err := Replace(doc, parent, old, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

func replaceInSlice(children []ast.Node, old, repl ast.Node) bool {
	if i := indexOf(children, old); i >= 0 {
		children[i] = repl
		return true
	}
	return false
}

func indexOf(children []ast.Node, node ast.Node) int {
	for i, child := range children {
		if child == node {
			return i
		}
	}
	return -1
}
