// Package smartjson parses JSON-shaped text that a language model
// produced. It accepts anything strict JSON accepts, plus a specific
// set of recoverable malformations:
//
//  1. a lone key ({ "X" }) collapses to the bare string "X"
//  2. collapsed key chains ("k1": "k2": v) re-nest to "k1": {"k2": v}
//  3. unquoted arithmetic expressions evaluate to their numeric result
//  4. a missing closing brace/bracket is detected by lookahead and the
//     container is closed implicitly with a logged warning
//
// The output is a plain Go value tree (map[string]any, []any, string,
// int64, float64, bool, nil) indistinguishable from the strict parser's
// output once recovery succeeds.
package smartjson

import (
	"regexp"
	"strings"

	"github.com/curalab/curatree/internal/scan"
)

// missingCloseProbe matches input that indicates a sibling element of
// an enclosing container: ",{" (next object in an outer list) or a bare
// "]" while we are still inside an object. Seeing either before the
// container's own close means the close was dropped.
var missingCloseProbe = regexp.MustCompile(`^(,\s*\{)|^(\s*])`)

// Parse parses JSON-ish text into a plain value tree, applying the
// package's recovery rules. Syntax that no rule covers is a
// scan.ParseError.
func Parse(text string) (any, error) {
	p := &parser{s: scan.New(text)}
	return p.consumeValue()
}

type parser struct {
	s *scan.Scanner
}

func (p *parser) consumeValue() (any, error) {
	p.s.ConsumeWhitespace()
	switch p.s.Peek() {
	case '"':
		return p.s.ConsumeQuotedString('"')
	case '[':
		return p.consumeList()
	case '{':
		return p.consumeObject()
	}

	// Bareword: a literal or an arithmetic expression. The character
	// class intentionally includes spaces so "5 + 5" is one word.
	word := p.s.ConsumeWhile(func(c byte) bool {
		return c == '_' || c == '.' || c == ' ' ||
			c == '+' || c == '-' || c == '*' || c == '/' || c == '(' || c == ')' || c == '%' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
	})
	word = strings.TrimSpace(word)

	switch word {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	}
	if IsArithmetic(word) {
		result, err := EvalArithmetic(word)
		if err != nil {
			return nil, p.s.Errorf("invalid arithmetic expression %q", word)
		}
		return result, nil
	}
	return nil, p.s.Errorf("invalid expression %q", word)
}

func (p *parser) consumeList() ([]any, error) {
	items := []any{}
	err := p.s.ConsumeDelimited('[', ']', func() error {
		item, err := p.consumeValue()
		if err != nil {
			return err
		}
		items = append(items, item)
		return nil
	}, nil)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// consumeObject parses an object body. It returns a map, except for the
// lone-key form { "X" }, which collapses to the string "X".
func (p *parser) consumeObject() (any, error) {
	obj := map[string]any{}
	var loneValue *string

	consumeKeyVal := func() error {
		key, err := p.s.ConsumeQuotedString('"')
		if err != nil {
			return err
		}
		p.s.ConsumeWhitespace()

		if p.s.Peek() != ':' {
			// Lone key: { "X" } means the scalar "X".
			if loneValue == nil && len(obj) == 0 {
				loneValue = &key
				return nil
			}
			return p.s.Errorf("expected ':' after key %q, got %q", key, string(p.s.Peek()))
		}
		p.s.Consume()

		val, err := p.consumeValue()
		if err != nil {
			return err
		}

		// Collapsed key chain: "k1": "k2": v re-nests to "k1": {"k2": v},
		// repeatedly for longer chains.
		var chain []string
		for {
			p.s.ConsumeWhitespace()
			if p.s.Peek() != ':' {
				break
			}
			innerKey, ok := val.(string)
			if !ok {
				return p.s.Errorf("expected string key before ':', got %T", val)
			}
			p.s.Consume()
			chain = append(chain, innerKey)
			val, err = p.consumeValue()
			if err != nil {
				return err
			}
		}
		for i := len(chain) - 1; i >= 0; i-- {
			val = map[string]any{chain[i]: val}
		}

		obj[key] = val
		return nil
	}

	err := p.s.ConsumeDelimited('{', '}', consumeKeyVal, func(rest string) bool {
		return missingCloseProbe.MatchString(rest)
	})
	if err != nil {
		return nil, err
	}

	if loneValue != nil && len(obj) == 0 {
		return *loneValue, nil
	}
	return obj, nil
}
