package ast

import "strings"

// Node is the sealed interface over tree nodes. Only *Leaf, *And, *Or,
// *Not and *If implement it. Nodes are always handled by pointer so
// that the rewriter can locate "this exact node" by identity even when
// sibling leaves are field-for-field identical.
type Node interface {
	node() // sealed
}

// Field is one entry in a leaf's ordered field bag.
type Field struct {
	Key   string
	Value Value
}

// Fields is an ordered map of field name to value. Order is the order
// the fields appeared in the source text and is preserved through a
// format/parse round trip.
type Fields []Field

// Get returns the value for key, or nil if absent.
func (f Fields) Get(key string) Value {
	for _, field := range f {
		if field.Key == key {
			return field.Value
		}
	}
	return nil
}

// Set replaces the value for key in place, or appends it.
func (f *Fields) Set(key string, v Value) {
	for i, field := range *f {
		if field.Key == key {
			(*f)[i].Value = v
			return
		}
	}
	*f = append(*f, Field{Key: key, Value: v})
}

// Delete removes key from the field bag. Reports whether it was present.
func (f *Fields) Delete(key string) bool {
	for i, field := range *f {
		if field.Key == key {
			*f = append((*f)[:i], (*f)[i+1:]...)
			return true
		}
	}
	return false
}

// Leaf is a criterion call: a type name with an arbitrary field bag.
// Unknown leaf types are representable without any per-type code.
type Leaf struct {
	TypeName string
	Fields   Fields
}

func (*Leaf) node() {}

// callString renders the leaf in call syntax, single line.
func (l *Leaf) callString() string {
	parts := make([]string, len(l.Fields))
	for i, f := range l.Fields {
		parts[i] = f.Key + "=" + ValueString(f.Value)
	}
	return l.TypeName + "(" + strings.Join(parts, ", ") + ")"
}

// And is a conjunction of zero or more children. Empty is legal but
// semantically vacuous; the pruner removes it.
type And struct {
	Children []Node
}

func (*And) node() {}

// Or is a disjunction of zero or more children.
type Or struct {
	Children []Node
}

func (*Or) node() {}

// Not negates exactly one child. The child is never nil; both parsers
// enforce the arity at parse time.
type Not struct {
	Child Node
}

func (*Not) node() {}

// If is a conditional criterion. Else may be nil.
type If struct {
	Condition Node
	Then      Node
	Else      Node
}

func (*If) node() {}

// TypeNameOf returns the leaf type name for leaves and the composite
// keyword for composites. Used by pruning target checks and logging.
func TypeNameOf(n Node) string {
	switch node := n.(type) {
	case *Leaf:
		return node.TypeName
	case *And:
		return "and"
	case *Or:
		return "or"
	case *Not:
		return "not"
	case *If:
		return "if"
	default:
		return ""
	}
}

// Equal compares two trees structurally (by value, not identity).
func Equal(a, b Node) bool {
	switch an := a.(type) {
	case *Leaf:
		bn, ok := b.(*Leaf)
		if !ok || an.TypeName != bn.TypeName || len(an.Fields) != len(bn.Fields) {
			return false
		}
		for i := range an.Fields {
			if an.Fields[i].Key != bn.Fields[i].Key ||
				!ValueEqual(an.Fields[i].Value, bn.Fields[i].Value) {
				return false
			}
		}
		return true
	case *And:
		bn, ok := b.(*And)
		return ok && equalSlices(an.Children, bn.Children)
	case *Or:
		bn, ok := b.(*Or)
		return ok && equalSlices(an.Children, bn.Children)
	case *Not:
		bn, ok := b.(*Not)
		return ok && Equal(an.Child, bn.Child)
	case *If:
		bn, ok := b.(*If)
		if !ok || !Equal(an.Condition, bn.Condition) || !Equal(an.Then, bn.Then) {
			return false
		}
		if (an.Else == nil) != (bn.Else == nil) {
			return false
		}
		return an.Else == nil || Equal(an.Else, bn.Else)
	default:
		return a == nil && b == nil
	}
}

func equalSlices(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
