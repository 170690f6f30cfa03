package rulexpr

import (
	"slices"
	"strconv"
	"strings"

	"github.com/curalab/curatree/internal/ast"
)

const indentUnit = "    "

// Format renders a rule tree back into rule-expression text. AND/OR
// blocks put each child on its own line; NOT stays inline; rules with
// no parameters render as a bare name.
func Format(node ast.Node) string {
	var b strings.Builder
	formatNode(&b, node, 0)
	return b.String()
}

func formatNode(b *strings.Builder, node ast.Node, depth int) {
	indent := strings.Repeat(indentUnit, depth)

	switch n := node.(type) {
	case *ast.And:
		writeComposite(b, "AND", n.Children, depth)
	case *ast.Or:
		writeComposite(b, "OR", n.Children, depth)
	case *ast.Not:
		b.WriteString(indent)
		b.WriteString("NOT(")
		trimmed := Format(n.Child)
		b.WriteString(strings.TrimLeft(trimmed, " "))
		b.WriteString(")")
	case *ast.Leaf:
		b.WriteString(indent)
		b.WriteString(n.TypeName)
		writeArgs(b, n)
	}
}

func writeComposite(b *strings.Builder, keyword string, children []ast.Node, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	b.WriteString(indent)
	b.WriteString(keyword)
	b.WriteString("\n")
	b.WriteString(indent)
	b.WriteString("(")
	if len(children) > 0 {
		b.WriteString("\n")
		for i, child := range children {
			formatNode(b, child, depth+1)
			if i < len(children)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString(indent)
	}
	b.WriteString(")")
}

func writeArgs(b *strings.Builder, leaf *ast.Leaf) {
	args, ok := leaf.Fields.Get(ArgsField).(ast.List)
	if !ok || len(args) == 0 {
		return
	}
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = valueString(arg)
	}
	b.WriteString("[")
	b.WriteString(strings.Join(parts, ", "))
	b.WriteString("]")
}

// valueString renders parameters in rule-DSL surface syntax; strings
// are single-quoted, unlike the criterion DSL.
func valueString(v ast.Value) string {
	switch val := v.(type) {
	case ast.String:
		return "'" + strings.ReplaceAll(string(val), "'", `\'`) + "'"
	case ast.Float:
		s := strconv.FormatFloat(float64(val), 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case ast.List:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = valueString(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return ast.ValueString(v)
	}
}

// NewRules returns the rule names present in the tree but absent from
// the known set, sorted and de-duplicated. Composite keywords are not
// rule names.
func NewRules(node ast.Node, known map[string]struct{}) []string {
	found := map[string]struct{}{}
	ast.Walk(node, func(n, _ ast.Node, _ int) {
		leaf, ok := n.(*ast.Leaf)
		if !ok {
			return
		}
		if _, defined := known[leaf.TypeName]; !defined {
			found[leaf.TypeName] = struct{}{}
		}
	})

	out := make([]string, 0, len(found))
	for name := range found {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
