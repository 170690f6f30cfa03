package criterion

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curalab/curatree/internal/ast"
)

func TestFormatLeaf(t *testing.T) {
	leaf := &ast.Leaf{TypeName: "age", Fields: ast.Fields{
		{Key: "min_age", Value: ast.Int(18)},
		{Key: "stages", Value: ast.List{ast.String("III"), ast.String("IV")}},
	}}
	assert.Equal(t, `age(min_age=18, stages=["III", "IV"])`, Format(leaf))
}

func TestFormatEmptyComposite(t *testing.T) {
	assert.Equal(t, "and{}", Format(&ast.And{}))
}

func TestFormatGolden(t *testing.T) {
	tree := &ast.And{Children: []ast.Node{
		&ast.Leaf{TypeName: "diagnostic_finding", Fields: ast.Fields{
			{Key: "finding", Value: ast.String("histological documentation of cancer")},
		}},
		&ast.Or{Children: []ast.Node{
			&ast.Leaf{TypeName: "metastases", Fields: ast.Fields{
				{Key: "location", Value: ast.String("≥ 2 different organs")},
				{Key: "additional_details", Value: ast.List{ast.String(">1 extra-hepatic metastases")}},
			}},
			&ast.Not{Child: &ast.Leaf{TypeName: "histology", Fields: ast.Fields{
				{Key: "histology_type", Value: ast.String("sarcomatoid")},
			}}},
		}},
		&ast.If{
			Condition: &ast.Leaf{TypeName: "sex", Fields: ast.Fields{{Key: "sex", Value: ast.String("female")}}},
			Then:      &ast.Leaf{TypeName: "reproductive_status", Fields: ast.Fields{{Key: "pregnant", Value: ast.Bool(false)}}},
			Else:      &ast.Leaf{TypeName: "age", Fields: ast.Fields{{Key: "min_age", Value: ast.Int(18)}}},
		},
		&ast.Leaf{TypeName: "prior_treatment", Fields: ast.Fields{
			{Key: "treatment", Value: ast.Nested{Leaf: &ast.Leaf{
				TypeName: "treatment",
				Fields:   ast.Fields{{Key: "name", Value: ast.String("radiotherapy")}},
			}}},
		}},
	}}

	g := goldie.New(t)
	g.Assert(t, "criterion_format", []byte(Format(tree)))
}

// Parse(Format(node)) == node for representative trees.
func TestRoundTrip(t *testing.T) {
	trees := map[string]ast.Node{
		"leaf": &ast.Leaf{TypeName: "lab_value", Fields: ast.Fields{
			{Key: "name", Value: ast.String("bilirubin")},
			{Key: "max_uln", Value: ast.Float(1.5)},
			{Key: "whole_float", Value: ast.Float(3)},
			{Key: "required", Value: ast.Bool(true)},
			{Key: "comment", Value: ast.Null{}},
		}},
		"empty and": &ast.And{},
		"nested composites": &ast.Not{Child: &ast.Or{Children: []ast.Node{
			&ast.Leaf{TypeName: "histology", Fields: ast.Fields{{Key: "histology_type", Value: ast.String("sarcomatoid")}}},
			&ast.And{Children: []ast.Node{
				&ast.Leaf{TypeName: "age", Fields: ast.Fields{{Key: "min_age", Value: ast.Int(18)}}},
			}},
		}}},
		"if then else": &ast.If{
			Condition: &ast.Leaf{TypeName: "sex", Fields: ast.Fields{{Key: "sex", Value: ast.String("female")}}},
			Then:      &ast.Leaf{TypeName: "reproductive_status", Fields: ast.Fields{{Key: "pregnant", Value: ast.Bool(false)}}},
		},
		"nested call": &ast.Leaf{TypeName: "prior_treatment", Fields: ast.Fields{
			{Key: "chemotherapy", Value: ast.Nested{Leaf: &ast.Leaf{
				TypeName: "chemotherapy",
				Fields:   ast.Fields{{Key: "cycles", Value: ast.Int(6)}},
			}}},
		}},
		"escapes": &ast.Leaf{TypeName: "other", Fields: ast.Fields{
			{Key: "text", Value: ast.String("line1\nline2\t\"quoted\"")},
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
