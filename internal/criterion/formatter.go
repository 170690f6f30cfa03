package criterion

import (
	"strings"

	"github.com/curalab/curatree/internal/ast"
)

const indentUnit = "    "

// Format renders a criterion tree back into DSL text. The output is the
// inverse of Parse: Parse(Format(node)) reproduces node exactly.
//
// Leaves render on one line; composites indent their children one level.
func Format(node ast.Node) string {
	var b strings.Builder
	formatNode(&b, node, 0)
	return b.String()
}

func formatNode(b *strings.Builder, node ast.Node, depth int) {
	indent := strings.Repeat(indentUnit, depth)

	switch n := node.(type) {
	case *ast.Leaf:
		b.WriteString(indent)
		writeCall(b, n)

	case *ast.And:
		writeComposite(b, "and", n.Children, depth)

	case *ast.Or:
		writeComposite(b, "or", n.Children, depth)

	case *ast.Not:
		writeComposite(b, "not", []ast.Node{n.Child}, depth)

	case *ast.If:
		writeComposite(b, "if", []ast.Node{n.Condition}, depth)
		b.WriteString(" then")
		writeBlock(b, []ast.Node{n.Then}, depth)
		if n.Else != nil {
			b.WriteString(" else")
			writeBlock(b, []ast.Node{n.Else}, depth)
		}
	}
}

func writeComposite(b *strings.Builder, keyword string, children []ast.Node, depth int) {
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteString(keyword)
	writeBlock(b, children, depth)
}

// writeBlock renders "{...}" with one child per line, or "{}" when empty.
func writeBlock(b *strings.Builder, children []ast.Node, depth int) {
	if len(children) == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteString("{\n")
	for i, child := range children {
		formatNode(b, child, depth+1)
		if i < len(children)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteString("}")
}

func writeCall(b *strings.Builder, leaf *ast.Leaf) {
	b.WriteString(leaf.TypeName)
	b.WriteString("(")
	for i, f := range leaf.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		if nested, ok := f.Value.(ast.Nested); ok {
			writeCall(b, nested.Leaf)
			continue
		}
		b.WriteString(f.Key)
		b.WriteString("=")
		b.WriteString(ast.ValueString(f.Value))
	}
	b.WriteString(")")
}
