package smartjson

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/curalab/curatree/internal/scan"
)

// IsArithmetic reports whether s looks like an unquoted arithmetic
// expression: digits, dot, whitespace and the operators + - * / ( ) %.
// At least one digit is required.
func IsArithmetic(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	hasDigit := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			hasDigit = true
		case c == '.' || c == ' ' || c == '\t' || c == '\n' || c == '\r':
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '(' || c == ')' || c == '%':
		default:
			return false
		}
	}
	return hasDigit
}

// EvalArithmetic evaluates an arithmetic expression over integers and
// floats. Semantics follow the expressions the upstream model tends to
// emit: `/` is true division and always yields a float, `//` is floor
// division, integer results stay integers. Returns int64 or float64.
func EvalArithmetic(expr string) (any, error) {
	e := &arithEval{s: scan.New(expr)}
	v, err := e.expr()
	if err != nil {
		return nil, err
	}
	e.s.ConsumeWhitespace()
	if !e.s.EOF() {
		return nil, fmt.Errorf("trailing input in arithmetic expression %q", expr)
	}
	return v, nil
}

type arithEval struct {
	s *scan.Scanner
}

func (e *arithEval) expr() (any, error) {
	left, err := e.term()
	if err != nil {
		return nil, err
	}
	for {
		e.s.ConsumeWhitespace()
		op := e.s.Peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		e.s.Consume()
		right, err := e.term()
		if err != nil {
			return nil, err
		}
		left = apply2(left, right, func(a, b int64) int64 {
			if op == '+' {
				return a + b
			}
			return a - b
		}, func(a, b float64) float64 {
			if op == '+' {
				return a + b
			}
			return a - b
		})
	}
}

func (e *arithEval) term() (any, error) {
	left, err := e.unary()
	if err != nil {
		return nil, err
	}
	for {
		e.s.ConsumeWhitespace()
		var op string
		switch {
		case e.s.HasPrefix("//"):
			op = "//"
		case e.s.Peek() == '*':
			op = "*"
		case e.s.Peek() == '/':
			op = "/"
		case e.s.Peek() == '%':
			op = "%"
		default:
			return left, nil
		}
		for i := 0; i < len(op); i++ {
			e.s.Consume()
		}
		right, err := e.unary()
		if err != nil {
			return nil, err
		}
		left, err = applyMul(op, left, right)
		if err != nil {
			return nil, err
		}
	}
}

func (e *arithEval) unary() (any, error) {
	e.s.ConsumeWhitespace()
	switch e.s.Peek() {
	case '-':
		e.s.Consume()
		v, err := e.unary()
		if err != nil {
			return nil, err
		}
		if i, ok := v.(int64); ok {
			return -i, nil
		}
		return -v.(float64), nil
	case '+':
		e.s.Consume()
		return e.unary()
	case '(':
		e.s.Consume()
		v, err := e.expr()
		if err != nil {
			return nil, err
		}
		e.s.ConsumeWhitespace()
		if e.s.Consume() != ')' {
			return nil, fmt.Errorf("missing ')' in arithmetic expression")
		}
		return v, nil
	}
	return e.number()
}

func (e *arithEval) number() (any, error) {
	word := e.s.ConsumeWhile(func(c byte) bool {
		return (c >= '0' && c <= '9') || c == '.'
	})
	if word == "" {
		return nil, fmt.Errorf("expected number, got %q", string(e.s.Peek()))
	}
	if i, err := strconv.ParseInt(word, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(word, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", word)
	}
	return f, nil
}

// apply2 applies the int op when both operands are ints, the float op
// otherwise.
func apply2(a, b any, iop func(int64, int64) int64, fop func(float64, float64) float64) any {
	ai, aok := a.(int64)
	bi, bok := b.(int64)
	if aok && bok {
		return iop(ai, bi)
	}
	return fop(toFloat(a), toFloat(b))
}

func applyMul(op string, a, b any) (any, error) {
	switch op {
	case "*":
		return apply2(a, b, func(x, y int64) int64 { return x * y },
			func(x, y float64) float64 { return x * y }), nil
	case "/":
		// True division: always a float.
		if toFloat(b) == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return toFloat(a) / toFloat(b), nil
	case "//":
		if toFloat(b) == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		if ai, ok := a.(int64); ok {
			if bi, ok := b.(int64); ok {
				return int64(math.Floor(float64(ai) / float64(bi))), nil
			}
		}
		return math.Floor(toFloat(a) / toFloat(b)), nil
	case "%":
		if toFloat(b) == 0 {
			return nil, fmt.Errorf("modulo by zero")
		}
		if ai, ok := a.(int64); ok {
			if bi, ok := b.(int64); ok {
				return ai % bi, nil
			}
		}
		return math.Mod(toFloat(a), toFloat(b)), nil
	default:
		return nil, fmt.Errorf("unknown operator %q", op)
	}
}

func toFloat(v any) float64 {
	if i, ok := v.(int64); ok {
		return float64(i)
	}
	return v.(float64)
}
