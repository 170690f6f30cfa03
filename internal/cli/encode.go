package cli

import (
	"github.com/curalab/curatree/internal/ast"
)

// nodeJSON renders a criterion tree as plain maps for JSON output.
// Leaf fields stay in source order as a key/value list.
func nodeJSON(n ast.Node) any {
	switch node := n.(type) {
	case *ast.Leaf:
		fields := make([]map[string]any, len(node.Fields))
		for i, f := range node.Fields {
			fields[i] = map[string]any{"key": f.Key, "value": valueJSON(f.Value)}
		}
		return map[string]any{"type": node.TypeName, "fields": fields}
	case *ast.And:
		return map[string]any{"type": "and", "children": childrenJSON(node.Children)}
	case *ast.Or:
		return map[string]any{"type": "or", "children": childrenJSON(node.Children)}
	case *ast.Not:
		return map[string]any{"type": "not", "child": nodeJSON(node.Child)}
	case *ast.If:
		out := map[string]any{
			"type":      "if",
			"condition": nodeJSON(node.Condition),
			"then":      nodeJSON(node.Then),
		}
		if node.Else != nil {
			out["else"] = nodeJSON(node.Else)
		}
		return out
	default:
		return nil
	}
}

func childrenJSON(children []ast.Node) []any {
	out := make([]any, len(children))
	for i, child := range children {
		out[i] = nodeJSON(child)
	}
	return out
}

func valueJSON(v ast.Value) any {
	switch val := v.(type) {
	case ast.String:
		return string(val)
	case ast.Int:
		return int64(val)
	case ast.Float:
		return float64(val)
	case ast.Bool:
		return bool(val)
	case ast.Null:
		return nil
	case ast.List:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = valueJSON(item)
		}
		return out
	case ast.Nested:
		return nodeJSON(val.Leaf)
	default:
		return nil
	}
}
