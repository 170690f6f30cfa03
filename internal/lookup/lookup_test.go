package lookup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverColumns(t *testing.T) {
	header := []string{
		"Histology_lookup", "Subtype_Lookup", "Histology_curation",
		"Move_to", "notes", "Level_curation",
	}
	cols := DiscoverColumns(header)
	assert.Equal(t, []string{"Histology_lookup", "Subtype_Lookup"}, cols.Lookup)
	assert.Equal(t, []string{"Histology_curation", "Level_curation"}, cols.Curation)
	assert.Equal(t, "Move_to", cols.MoveTo)

	cols = DiscoverColumns([]string{"name", "value"})
	assert.Empty(t, cols.Lookup)
	assert.Empty(t, cols.Curation)
	assert.Empty(t, cols.MoveTo)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "Histology", BaseName("Histology_lookup", "_lookup"))
	assert.Equal(t, "Histology", BaseName("Histology_Curation", "_curation"))
	assert.Equal(t, "plain", BaseName("plain", "_lookup"))
}

func TestBuildKeyDegradation(t *testing.T) {
	key, ok := BuildKey([]string{"X", "Y"})
	require.True(t, ok)
	assert.Equal(t, NewKey("x", "y"), key)

	// A blank secondary degrades to the primary alone.
	key, ok = BuildKey([]string{"X", ""})
	require.True(t, ok)
	assert.Equal(t, NewKey("x"), key)

	key, ok = BuildKey([]string{"X", "n/a"})
	require.True(t, ok)
	assert.Equal(t, NewKey("x"), key)

	// The degraded key and a tuple key can never collide.
	assert.NotEqual(t, NewKey("x"), NewKey("x", "y"))

	_, ok = BuildKey([]string{"", "y"})
	assert.False(t, ok)
	_, ok = BuildKey([]string{"unknown"})
	assert.False(t, ok)
	_, ok = BuildKey(nil)
	assert.False(t, ok)
}

const resourceCSV = `Histology_lookup,Subtype_lookup,Histology_curation,Move_to
x,,curated-primary,
x,y,curated-tuple,
Sarcoma,,Soft Tissue Sarcoma (SOFT),
melanoma,,Melanoma (MEL),CancerTypeCriterion
NA,,ignored-row,
`

func TestFromCSVKeyDegradation(t *testing.T) {
	table, err := FromCSV(strings.NewReader(resourceCSV))
	require.NoError(t, err)

	// Two distinct entries: "x" and ("x","y").
	got, ok := table.Curated("Histology_curation", "x")
	require.True(t, ok)
	assert.Equal(t, "curated-primary", got)

	got, ok = table.Curated("Histology_curation", "x", "y")
	require.True(t, ok)
	assert.Equal(t, "curated-tuple", got)

	// Querying with only the primary never resolves the tuple entry.
	got, _ = table.Curated("Histology_curation", "x", "")
	assert.Equal(t, "curated-primary", got)
}

func TestFromCSVNormalizesKeys(t *testing.T) {
	table, err := FromCSV(strings.NewReader(resourceCSV))
	require.NoError(t, err)

	got, ok := table.Curated("Histology_curation", "  SARCOMA ")
	require.True(t, ok)
	assert.Equal(t, "Soft Tissue Sarcoma (SOFT)", got)

	_, ok = table.Curated("Histology_curation", "na")
	assert.False(t, ok)
}

func TestFromCSVMoveTarget(t *testing.T) {
	table, err := FromCSV(strings.NewReader(resourceCSV))
	require.NoError(t, err)

	target, ok := table.MoveTarget("Melanoma")
	require.True(t, ok)
	assert.Equal(t, "CancerTypeCriterion", target)

	_, ok = table.MoveTarget("x")
	assert.False(t, ok)
}

func TestFromCSVLastWriteWins(t *testing.T) {
	src := `Histology_lookup,Histology_curation
dup,first
dup,second
`
	table, err := FromCSV(strings.NewReader(src))
	require.NoError(t, err)

	got, ok := table.Curated("Histology_curation", "dup")
	require.True(t, ok)
	assert.Equal(t, "second", got)
}

func TestFromCSVRepairsMojibake(t *testing.T) {
	src := "Histology_lookup,Histology_curation\n" +
		"â‰¥ 10,kept\n"
	table, err := FromCSV(strings.NewReader(src))
	require.NoError(t, err)

	got, ok := table.Curated("Histology_curation", "≥ 10")
	require.True(t, ok)
	assert.Equal(t, "kept", got)
}

func TestFromCSVRequiresLookupColumns(t *testing.T) {
	_, err := FromCSV(strings.NewReader("name,value\na,b\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "_lookup")
}
