package ast

// Children returns a node's children in the fixed resolution order the
// rest of the pipeline depends on: the homogeneous criteria list first,
// then the single criterion slot, then the single condition slot.
//
// Note that If contributes only its condition: the Then/Else branches
// are reachable through the If node itself but are not traversal
// children. Pruning and move-to operate on the same slots.
func Children(n Node) []Node {
	switch node := n.(type) {
	case *And:
		return node.Children
	case *Or:
		return node.Children
	case *Not:
		if node.Child == nil {
			return nil
		}
		return []Node{node.Child}
	case *If:
		if node.Condition == nil {
			return nil
		}
		return []Node{node.Condition}
	default:
		return nil
	}
}

// Visit is called once per node during a read-mode walk. parent is nil
// for roots; depth is 0 for roots.
type Visit func(node Node, parent Node, depth int)

// Walk traverses the tree rooted at node depth-first, calling visit for
// every node. Construction cannot produce cycles, but Walk guards
// against them anyway: a node already seen is not visited twice.
func Walk(node Node, visit Visit) {
	walk(node, nil, 0, visit, map[Node]struct{}{})
}

func walk(node Node, parent Node, depth int, visit Visit, seen map[Node]struct{}) {
	if node == nil {
		return
	}
	if _, ok := seen[node]; ok {
		return
	}
	seen[node] = struct{}{}

	visit(node, parent, depth)
	for _, child := range Children(node) {
		walk(child, node, depth+1, visit, seen)
	}
}

// WalkForest traverses a list of root nodes, sharing one seen-set so a
// node referenced from two roots is still visited once.
func WalkForest(forest []Node, visit Visit) {
	seen := map[Node]struct{}{}
	for _, root := range forest {
		walk(root, nil, 0, visit, seen)
	}
}
