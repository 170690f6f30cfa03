package criterion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curalab/curatree/internal/ast"
	"github.com/curalab/curatree/internal/scan"
)

func mustParse(t *testing.T, text string) ast.Node {
	t.Helper()
	node, err := Parse(text)
	require.NoError(t, err)
	return node
}

func TestParseLeaf(t *testing.T) {
	node := mustParse(t, `age(min_age=18, max_age=75.5, approved=true, notes=null, stages=["III", "IV"])`)

	leaf, ok := node.(*ast.Leaf)
	require.True(t, ok)
	assert.Equal(t, "age", leaf.TypeName)
	assert.Equal(t, ast.Fields{
		{Key: "min_age", Value: ast.Int(18)},
		{Key: "max_age", Value: ast.Float(75.5)},
		{Key: "approved", Value: ast.Bool(true)},
		{Key: "notes", Value: ast.Null{}},
		{Key: "stages", Value: ast.List{ast.String("III"), ast.String("IV")}},
	}, leaf.Fields)
}

func TestParseZeroArgLeaf(t *testing.T) {
	node := mustParse(t, "tissue_availability()")
	leaf := node.(*ast.Leaf)
	assert.Equal(t, "tissue_availability", leaf.TypeName)
	assert.Empty(t, leaf.Fields)
}

func TestParseNestedCallArgument(t *testing.T) {
	node := mustParse(t, `prior_treatment(treatment(name="radiotherapy", dose=30))`)

	leaf := node.(*ast.Leaf)
	nested, ok := leaf.Fields.Get("treatment").(ast.Nested)
	require.True(t, ok)
	assert.Equal(t, "treatment", nested.Leaf.TypeName)
	assert.Equal(t, ast.String("radiotherapy"), nested.Leaf.Fields.Get("name"))
	assert.Equal(t, ast.Int(30), nested.Leaf.Fields.Get("dose"))
}

func TestParseComposites(t *testing.T) {
	node := mustParse(t, `and{sex(sex="male"), or{age(min_age=18), age(min_age=21)}}`)

	and, ok := node.(*ast.And)
	require.True(t, ok)
	require.Len(t, and.Children, 2)

	or, ok := and.Children[1].(*ast.Or)
	require.True(t, ok)
	assert.Len(t, or.Children, 2)
}

func TestParseEmptyComposite(t *testing.T) {
	node := mustParse(t, "and{}")
	assert.Empty(t, node.(*ast.And).Children)
}

// The end-to-end scenario from the acceptance checklist.
func TestParseNotOrHistology(t *testing.T) {
	node := mustParse(t, `not{or{histology(histology_type="sarcomatoid"), histology(histology_type="spindle cell")}}`)

	want := &ast.Not{Child: &ast.Or{Children: []ast.Node{
		&ast.Leaf{TypeName: "histology", Fields: ast.Fields{{Key: "histology_type", Value: ast.String("sarcomatoid")}}},
		&ast.Leaf{TypeName: "histology", Fields: ast.Fields{{Key: "histology_type", Value: ast.String("spindle cell")}}},
	}}}
	assert.True(t, ast.Equal(want, node))
}

func TestParseIfThenElse(t *testing.T) {
	node := mustParse(t, `if{sex(sex="female")} then{reproductive_status(pregnant=false)} else{age(min_age=18)}`)

	ifNode, ok := node.(*ast.If)
	require.True(t, ok)
	assert.Equal(t, "sex", ifNode.Condition.(*ast.Leaf).TypeName)
	assert.Equal(t, "reproductive_status", ifNode.Then.(*ast.Leaf).TypeName)
	require.NotNil(t, ifNode.Else)
	assert.Equal(t, "age", ifNode.Else.(*ast.Leaf).TypeName)
}

func TestParseIfWithoutElse(t *testing.T) {
	node := mustParse(t, `if{sex(sex="female")} then{age(min_age=18)}`)
	assert.Nil(t, node.(*ast.If).Else)
}

func TestParseNotArity(t *testing.T) {
	_, err := Parse(`not{age(min_age=18), sex(sex="male")}`)
	var perr *scan.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "expected 1 child")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantMsg string
	}{
		{"unknown leading token", "@garbage", "expected identifier"},
		{"identifier without call", "age 18", "expected '('"},
		{"missing then", `if{sex(sex="f")} later{age(min_age=1)}`, "expected 'then'"},
		{"bad value", "age(min_age=@)", "expected value"},
		{"garbage bareword value", "age(min_age=1.2.3)", "invalid value"},
		{"arg without equals", "age(min_age 18)", "expected '=' or '('"},
		{"digit-leading identifier", "9lives()", "cannot start with a digit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			var perr *scan.ParseError
			require.ErrorAs(t, err, &perr)
			assert.Contains(t, perr.Message, tt.wantMsg)
		})
	}
}

func TestParseErrorCarriesPosition(t *testing.T) {
	_, err := Parse("and{\n    age(min_age=oops)\n}")
	var perr *scan.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.NotEmpty(t, perr.Snippet)
}

func TestParseWhitespaceInsensitive(t *testing.T) {
	compact := mustParse(t, `and{age(min_age=18),not{sex(sex="male")}}`)
	spaced := mustParse(t, "and {\n  age( min_age = 18 ) ,\n  not {\n    sex( sex = \"male\" )\n  }\n}")
	assert.True(t, ast.Equal(compact, spaced))
}
