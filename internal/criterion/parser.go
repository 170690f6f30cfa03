// Package criterion parses and formats the curly-brace, call-style DSL
// used for eligibility-criterion trees:
//
//	not{or{histology(histology_type="sarcomatoid"), histology(histology_type="spindle cell")}}
//
// Composites are and{...}, or{...}, not{...} and if{...} then{...}
// else{...}; leaves are identifier calls with key=value arguments. A
// nested call in argument position (key(k="v")) becomes a nested leaf
// assigned under key.
package criterion

import (
	"strconv"

	"github.com/curalab/curatree/internal/ast"
	"github.com/curalab/curatree/internal/scan"
)

// Parse parses a single criterion tree from text.
func Parse(text string) (ast.Node, error) {
	p := &parser{s: scan.New(text)}
	return p.consumeCriterion()
}

type parser struct {
	s *scan.Scanner
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func (p *parser) consumeIdentifier() (string, error) {
	p.s.ConsumeWhitespace()
	ident := p.s.ConsumeWhile(isIdentByte)
	if ident == "" {
		return "", p.s.Errorf("expected identifier, got %q", string(p.s.Peek()))
	}
	if ident[0] >= '0' && ident[0] <= '9' {
		return "", p.s.Errorf("identifier cannot start with a digit: %q", ident)
	}
	return ident, nil
}

func (p *parser) consumeCriterion() (ast.Node, error) {
	name, err := p.consumeIdentifier()
	if err != nil {
		return nil, err
	}

	switch name {
	case "and":
		children, err := p.consumeBracedCriteria()
		if err != nil {
			return nil, err
		}
		return &ast.And{Children: children}, nil

	case "or":
		children, err := p.consumeBracedCriteria()
		if err != nil {
			return nil, err
		}
		return &ast.Or{Children: children}, nil

	case "not":
		children, err := p.consumeBracedCriteria()
		if err != nil {
			return nil, err
		}
		if len(children) != 1 {
			return nil, p.s.Errorf("expected 1 child in not, got %d", len(children))
		}
		return &ast.Not{Child: children[0]}, nil

	case "if":
		return p.consumeIf()

	default:
		p.s.ConsumeWhitespace()
		if p.s.Peek() != '(' {
			return nil, p.s.Errorf("expected '(' after criterion type %q", name)
		}
		fields, err := p.consumeArgs()
		if err != nil {
			return nil, err
		}
		return &ast.Leaf{TypeName: name, Fields: fields}, nil
	}
}

func (p *parser) consumeIf() (ast.Node, error) {
	cond, err := p.consumeBracedCriterion()
	if err != nil {
		return nil, err
	}

	key, err := p.consumeIdentifier()
	if err != nil {
		return nil, err
	}
	if key != "then" {
		return nil, p.s.Errorf("expected 'then' after if condition, got %q", key)
	}
	then, err := p.consumeBracedCriterion()
	if err != nil {
		return nil, err
	}

	node := &ast.If{Condition: cond, Then: then}

	// Optional else clause. Backtrack if the next identifier is the
	// start of something else entirely.
	p.s.ConsumeWhitespace()
	if p.s.HasPrefix("else") {
		mark := p.s.Pos()
		key, err := p.consumeIdentifier()
		if err != nil {
			return nil, err
		}
		if key != "else" {
			p.s.SetPos(mark)
			return node, nil
		}
		elseNode, err := p.consumeBracedCriterion()
		if err != nil {
			return nil, err
		}
		node.Else = elseNode
	}
	return node, nil
}

// consumeBracedCriteria consumes "{" criterion {"," criterion} "}",
// allowing the empty form "{}".
func (p *parser) consumeBracedCriteria() ([]ast.Node, error) {
	var children []ast.Node
	err := p.s.ConsumeDelimited('{', '}', func() error {
		child, err := p.consumeCriterion()
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

func (p *parser) consumeBracedCriterion() (ast.Node, error) {
	children, err := p.consumeBracedCriteria()
	if err != nil {
		return nil, err
	}
	if len(children) != 1 {
		return nil, p.s.Errorf("expected 1 criterion, got %d", len(children))
	}
	return children[0], nil
}

// consumeArgs consumes "(" [arg {"," arg}] ")" into an ordered field bag.
func (p *parser) consumeArgs() (ast.Fields, error) {
	var fields ast.Fields
	err := p.s.ConsumeDelimited('(', ')', func() error {
		key, err := p.consumeIdentifier()
		if err != nil {
			return err
		}
		p.s.ConsumeWhitespace()

		switch p.s.Peek() {
		case '=':
			p.s.Consume()
			val, err := p.consumeValue()
			if err != nil {
				return err
			}
			fields.Set(key, val)
			return nil
		case '(':
			nested, err := p.consumeArgs()
			if err != nil {
				return err
			}
			fields.Set(key, ast.Nested{Leaf: &ast.Leaf{TypeName: key, Fields: nested}})
			return nil
		default:
			return p.s.Errorf("expected '=' or '(' after argument %q, got %q", key, string(p.s.Peek()))
		}
	}, nil)
	if err != nil {
		return nil, err
	}
	return fields, nil
}

func (p *parser) consumeValue() (ast.Value, error) {
	p.s.ConsumeWhitespace()
	if p.s.Peek() == '"' {
		str, err := p.s.ConsumeQuotedString('"')
		if err != nil {
			return nil, err
		}
		return ast.String(str), nil
	}
	if p.s.Peek() == '[' {
		return p.consumeList()
	}

	word := p.s.ConsumeWhile(func(c byte) bool {
		return isIdentByte(c) || c == '.' || c == '-' || c == '+'
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

func (p *parser) consumeList() (ast.Value, error) {
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
