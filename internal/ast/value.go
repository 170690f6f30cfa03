// Package ast defines the tree produced by the criterion-DSL and
// rule-DSL parsers: a sealed Value union for leaf field values and a
// sealed Node union for the tree itself.
//
// Both unions are closed on purpose. Consumers switch exhaustively over
// the variants instead of probing attributes, which removes the whole
// class of "attribute missing" bugs the dynamically-typed original
// lived with.
package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a sealed interface over the types a leaf field may hold.
// Only String, Int, Float, Bool, Null, List and Nested implement it.
type Value interface {
	value() // sealed
}

// String is a string field value.
type String string

func (String) value() {}

// Int is an integer field value. Numbers parse as Int first, Float second.
type Int int64

func (Int) value() {}

// Float is a floating-point field value.
type Float float64

func (Float) value() {}

// Bool is a boolean field value.
type Bool bool

func (Bool) value() {}

// Null is an explicit null field value.
type Null struct{}

func (Null) value() {}

// List is an ordered list of field values.
type List []Value

func (List) value() {}

// Nested wraps a leaf used as a field value, produced by a nested call
// in argument position: key(k="v") becomes Nested{Leaf} under key.
type Nested struct {
	Leaf *Leaf
}

func (Nested) value() {}

// ValueString renders a Value in the surface syntax of the criterion
// DSL. Strings are double-quoted with escapes, lists bracketed.
func ValueString(v Value) string {
	switch val := v.(type) {
	case String:
		return strconv.Quote(string(val))
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		s := strconv.FormatFloat(float64(val), 'g', -1, 64)
		// A whole float must not re-parse as an Int.
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case Bool:
		return strconv.FormatBool(bool(val))
	case Null:
		return "null"
	case List:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = ValueString(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Nested:
		return val.Leaf.callString()
	default:
		return fmt.Sprintf("<invalid value %T>", v)
	}
}

// ValueEqual compares two Values structurally.
func ValueEqual(a, b Value) bool {
	switch av := a.(type) {
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case Float:
		bv, ok := b.(Float)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Null:
		_, ok := b.(Null)
		return ok
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !ValueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Nested:
		bv, ok := b.(Nested)
		return ok && Equal(av.Leaf, bv.Leaf)
	default:
		return false
	}
}
