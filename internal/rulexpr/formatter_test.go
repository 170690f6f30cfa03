package rulexpr

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curalab/curatree/internal/ast"
)

func rule(name string, args ...ast.Value) *ast.Leaf {
	return &ast.Leaf{
		TypeName: name,
		Fields:   ast.Fields{{Key: ArgsField, Value: ast.List(args)}},
	}
}

func TestFormatBareRule(t *testing.T) {
	assert.Equal(t, "IS_MALE", Format(rule("IS_MALE")))
}

func TestFormatRuleWithParams(t *testing.T) {
	assert.Equal(t, "HAS_ANY_X_AND_Y['LEFT', 'RIGHT']",
		Format(rule("HAS_ANY_X_AND_Y", ast.String("LEFT"), ast.String("RIGHT"))))
}

func TestFormatNotInline(t *testing.T) {
	assert.Equal(t, "NOT(HAS_ASAT_ULN_OF_AT_MOST_X[1.0])",
		Format(&ast.Not{Child: rule("HAS_ASAT_ULN_OF_AT_MOST_X", ast.Float(1))}))
}

func TestFormatGolden(t *testing.T) {
	tree := &ast.And{Children: []ast.Node{
		rule("IS_MALE"),
		&ast.Or{Children: []ast.Node{
			&ast.Not{Child: rule("HAS_TOTAL_BILIRUBIN_ULN_OF_AT_MOST_X", ast.Float(1.5))},
			rule("HAS_ANY_X_AND_Y", ast.String("LEFT"), ast.String("RIGHT")),
		}},
		rule("HAS_ALP_ULN_OF_AT_MOST_X", ast.Float(2.5)),
	}}

	g := goldie.New(t)
	g.Assert(t, "rule_format", []byte(Format(tree)))
}

func TestRoundTrip(t *testing.T) {
	trees := map[string]ast.Node{
		"bare":          rule("IS_MALE"),
		"params":        rule("HAS_X", ast.Float(1.5), ast.Int(3), ast.String("LEFT"), ast.Bool(true), ast.Null{}),
		"whole float":   rule("HAS_Y", ast.Float(3)),
		"empty and":     &ast.And{},
		"not composite": &ast.Not{Child: &ast.Or{Children: []ast.Node{rule("A"), rule("B", ast.Int(1))}}},
		"deep": &ast.And{Children: []ast.Node{
			&ast.Or{Children: []ast.Node{
				&ast.Not{Child: rule("X", ast.Float(1))},
				&ast.And{Children: []ast.Node{rule("Y"), rule("Z", ast.String("it's quoted"))}},
			}},
		}},
	}

	for name, tree := range trees {
		t.Run(name, func(t *testing.T) {
			reparsed, err := Parse(Format(tree))
			require.NoError(t, err)
			assert.True(t, ast.Equal(tree, reparsed), "round trip changed tree:\n%s", Format(tree))
		})
	}
}
