// Package rulexpr parses and formats the bracket/paren rule-expression
// language used for rule vocabularies:
//
//	AND(IS_MALE, NOT(HAS_ASAT_ULN_OF_AT_MOST_X[1.5]), OR(...))
//
// A bare identifier is a zero-argument rule; NAME[...] carries
// positional parameters. The output is the same Node union the
// criterion DSL produces: composites map to And/Or/Not, and a rule
// becomes a Leaf whose positional parameters live in a single "args"
// list field.
package rulexpr

import (
	"strconv"

	"github.com/curalab/curatree/internal/ast"
	"github.com/curalab/curatree/internal/scan"
)

// ArgsField is the leaf field holding a rule's positional parameters.
const ArgsField = "args"

// Parse parses a single rule expression from text.
func Parse(text string) (ast.Node, error) {
	p := &parser{s: scan.New(text)}
	return p.consumeRule()
}

type parser struct {
	s *scan.Scanner
}

func (p *parser) consumeIdentifier() (string, error) {
	p.s.ConsumeWhitespace()
	ident := p.s.ConsumeWhile(func(c byte) bool {
		return c == '_' ||
			(c >= 'a' && c <= 'z') ||
			(c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9')
	})
	if ident == "" {
		return "", p.s.Errorf("expected rule name, got %q", string(p.s.Peek()))
	}
	return ident, nil
}

func (p *parser) consumeRule() (ast.Node, error) {
	name, err := p.consumeIdentifier()
	if err != nil {
		return nil, err
	}
	p.s.ConsumeWhitespace()

	switch name {
	case "AND", "OR", "NOT":
		children, err := p.consumeSubrules()
		if err != nil {
			return nil, err
		}
		switch name {
		case "NOT":
			if len(children) != 1 {
				return nil, p.s.Errorf("expected 1 child in NOT, got %d", len(children))
			}
			return &ast.Not{Child: children[0]}, nil
		case "AND":
			return &ast.And{Children: children}, nil
		default:
			return &ast.Or{Children: children}, nil
		}
	}

	// A plain rule, with or without a parameter list. A bare name with
	// no trailing brackets is a legal zero-argument rule.
	args := ast.List{}
	if p.s.Peek() == '[' {
		args, err = p.consumeList()
		if err != nil {
			return nil, err
		}
	}
	return &ast.Leaf{
		TypeName: name,
		Fields:   ast.Fields{{Key: ArgsField, Value: args}},
	}, nil
}

func (p *parser) consumeSubrules() ([]ast.Node, error) {
	var children []ast.Node
	err := p.s.ConsumeDelimited('(', ')', func() error {
		child, err := p.consumeRule()
		if err != nil {
			return err
		}
		children = append(children, child)
		return nil
	}, nil)
	if err != nil {
		return nil, err
	}
	return children, nil
}

func (p *parser) consumeList() (ast.List, error) {
	items := ast.List{}
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

func (p *parser) consumeValue() (ast.Value, error) {
	p.s.ConsumeWhitespace()
	if p.s.Peek() == '\'' {
		str, err := p.s.ConsumeQuotedString('\'')
		if err != nil {
			return nil, err
		}
		return ast.String(str), nil
	}
	if p.s.Peek() == '[' {
		return p.consumeList()
	}

	word := p.s.ConsumeWhile(func(c byte) bool {
		return c == '_' || c == '.' || c == '-' ||
			(c >= 'a' && c <= 'z') ||
			(c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9')
	})
	switch word {
	case "true":
		return ast.Bool(true), nil
	case "false":
		return ast.Bool(false), nil
	case "null":
		return ast.Null{}, nil
	case "":
		return nil, p.s.Errorf("expected value, got %q", string(p.s.Peek()))
	}
	if i, err := strconv.ParseInt(word, 10, 64); err == nil {
		return ast.Int(i), nil
	}
	if f, err := strconv.ParseFloat(word, 64); err == nil {
		return ast.Float(f), nil
	}
	return nil, p.s.Errorf("invalid value %q", word)
}
