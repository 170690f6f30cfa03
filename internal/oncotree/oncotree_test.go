package oncotree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `level_1,level_2,level_3,level_4,level_5,level_6,level_7,meta_main_type
Tissue (TISSUE),Skin Cancer (SKCM),Melanoma (MEL),,,,,skin
Tissue (TISSUE),Skin Cancer (SKCM),Basal Cell Carcinoma (BCC),,,,,skin
Tissue (TISSUE),Soft Tissue (SOFT),Sarcoma (SARC),Spindle Cell Sarcoma (SCS),,,,soft tissue
Tissue (TISSUE),Soft Tissue (SOFT),Sarcoma (SARC),Sarcomatoid Carcinoma (SARCA),,,,soft tissue
`

func buildSample(t *testing.T) *Tree {
	t.Helper()
	tree, err := FromCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	return tree
}

func TestParseNameCode(t *testing.T) {
	tests := []struct {
		cell     string
		wantName string
		wantCode string
		wantOK   bool
	}{
		{"Melanoma (MEL)", "Melanoma", "MEL", true},
		{"  Melanoma (MEL)  ", "Melanoma", "MEL", true},
		{"Mixed (A) Tumor (MT)", "Mixed (A) Tumor", "MT", true},
		{"Melanoma", "", "", false},
		{"(MEL)", "", "", false},
		{"", "", "", false},
		{"NA", "", "", false},
		{"unknown", "", "", false},
	}
	for _, tt := range tests {
		name, code, ok := ParseNameCode(tt.cell)
		assert.Equal(t, tt.wantOK, ok, tt.cell)
		assert.Equal(t, tt.wantName, name, tt.cell)
		assert.Equal(t, tt.wantCode, code, tt.cell)
	}
}

func TestFromCSVBuildsTree(t *testing.T) {
	tree := buildSample(t)

	root := tree.Get("TISSUE")
	require.NotNil(t, root)
	assert.Equal(t, 1, root.Level)
	assert.Equal(t, "Tissue (TISSUE)", root.Term())
	assert.Nil(t, root.Parent)

	mel := tree.Get("MEL")
	require.NotNil(t, mel)
	assert.Equal(t, 3, mel.Level)
	assert.Same(t, tree.Get("SKCM"), mel.Parent)

	require.Len(t, tree.Roots(), 1)
	assert.Same(t, root, tree.Roots()[0])

	assert.Nil(t, tree.Get("NOPE"))
}

func TestLift(t *testing.T) {
	tree := buildSample(t)

	assert.Same(t, tree.Get("SOFT"), tree.Lift("SCS", 2))
	assert.Same(t, tree.Get("TISSUE"), tree.Lift("SCS", 1))

	// Lifting to a node's own level returns the node itself.
	assert.Same(t, tree.Get("MEL"), tree.Lift("MEL", 3))

	// Overshoot and unknown codes resolve to nothing.
	assert.Nil(t, tree.Lift("TISSUE", 0))
	assert.Nil(t, tree.Lift("NOPE", 1))
	assert.Nil(t, tree.Lift("SKCM", 3))
}

func TestAncestors(t *testing.T) {
	tree := buildSample(t)

	path := tree.Ancestors("SCS")
	require.Len(t, path, 4)
	assert.Equal(t, "TISSUE", path[0].Code)
	assert.Equal(t, "SOFT", path[1].Code)
	assert.Equal(t, "SARC", path[2].Code)
	assert.Equal(t, "SCS", path[3].Code)

	byLevel := tree.AncestorsByLevel("SCS")
	require.Len(t, byLevel, 4)
	assert.Equal(t, "SOFT", byLevel[2].Code)
	assert.Equal(t, "SCS", byLevel[4].Code)

	assert.Nil(t, tree.Ancestors("NOPE"))
}

func TestDescendants(t *testing.T) {
	tree := buildSample(t)

	codes := func(nodes []*Node) []string {
		out := make([]string, len(nodes))
		for i, n := range nodes {
			out[i] = n.Code
		}
		return out
	}

	assert.Equal(t, []string{"SARC", "SCS", "SARCA"}, codes(tree.Descendants("SOFT")))
	assert.Equal(t, []string{"SCS", "SARCA"}, codes(tree.LeafDescendants("SOFT")))
	assert.Empty(t, tree.Descendants("MEL"))
	assert.Nil(t, tree.Descendants("NOPE"))
}

func TestFromCSVLevelConflict(t *testing.T) {
	src := `level_1,level_2,level_3,level_4,level_5,level_6,level_7
Tissue (TISSUE),Melanoma (MEL),,,,,
Tissue (TISSUE),Skin Cancer (SKCM),Melanoma (MEL),,,,
`
	_, err := FromCSV(strings.NewReader(src))
	require.Error(t, err)
	assert.True(t, IsConstructError(err))

	var ce *ConstructError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeLevelConflict, ce.Code)
	assert.Equal(t, "MEL", ce.Term)
}

func TestFromCSVParentConflict(t *testing.T) {
	src := `level_1,level_2,level_3,level_4,level_5,level_6,level_7
Tissue (TISSUE),Skin Cancer (SKCM),Melanoma (MEL),,,,
Tissue (TISSUE),Soft Tissue (SOFT),Melanoma (MEL),,,,
`
	_, err := FromCSV(strings.NewReader(src))
	var ce *ConstructError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeParentConflict, ce.Code)
}

func TestFromCSVNameConflict(t *testing.T) {
	src := `level_1,level_2,level_3,level_4,level_5,level_6,level_7
Tissue (TISSUE),Skin Cancer (SKCM),,,,,
Tissue (TISSUE),Cutaneous Cancer (SKCM),,,,,
`
	_, err := FromCSV(strings.NewReader(src))
	var ce *ConstructError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeNameConflict, ce.Code)
}

func TestFromCSVMissingColumns(t *testing.T) {
	src := `level_1,level_2,level_3
Tissue (TISSUE),Skin Cancer (SKCM),Melanoma (MEL)
`
	_, err := FromCSV(strings.NewReader(src))
	var ce *ConstructError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeMissingColumns, ce.Code)
	assert.Contains(t, ce.Error(), "level_4")
}

func TestSplitOrTerms(t *testing.T) {
	assert.Equal(t, []string{"Melanoma (MEL)", "Sarcoma (SARC)"},
		SplitOrTerms("Melanoma (MEL) | Sarcoma (SARC)"))
	assert.Equal(t, []string{"one, and two"}, SplitOrTerms("one, and two"))
	assert.Nil(t, SplitOrTerms(""))
	assert.Nil(t, SplitOrTerms("n/a"))
	assert.Nil(t, SplitOrTerms(" | "))
}

func TestBuildTermIndex(t *testing.T) {
	index, err := BuildTermIndex(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	level, ok := index.LevelOf("Melanoma (MEL)")
	require.True(t, ok)
	assert.Equal(t, 3, level)

	// Queries are normalized like the build side.
	level, ok = index.LevelOf("  MELANOMA (mel) ")
	require.True(t, ok)
	assert.Equal(t, 3, level)

	_, ok = index.LevelOf("Unlisted (UNL)")
	assert.False(t, ok)

	levels, ok := index.LevelsForTerms([]string{"Tissue (TISSUE)", "Sarcoma (SARC)"})
	require.True(t, ok)
	assert.Equal(t, []int{1, 3}, levels)

	_, ok = index.LevelsForTerms([]string{"Tissue (TISSUE)", "Unlisted (UNL)"})
	assert.False(t, ok)
}

func TestBuildTermIndexLevelConflict(t *testing.T) {
	src := `level_1,level_2,level_3,level_4,level_5,level_6,level_7
Tissue (TISSUE),Melanoma (MEL),,,,,
Tissue (TISSUE),Skin Cancer (SKCM),Melanoma (MEL),,,,
`
	_, err := BuildTermIndex(strings.NewReader(src))
	var ce *ConstructError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeLevelConflict, ce.Code)
}
