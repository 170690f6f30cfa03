// Package lookup builds curated-replacement tables from resource CSVs.
// Columns follow a suffix convention: `<X>_lookup` columns form the
// key, `<X>_curation` columns carry replacement values, and a single
// `Move_to` column names the leaf type a matched node moves to.
package lookup

import "strings"

const (
	lookupSuffix   = "_lookup"
	curationSuffix = "_curation"
	moveToColumn   = "move_to"
)

// Columns is the result of discovering the suffix-style columns in a
// resource header. Source order is preserved.
type Columns struct {
	Lookup   []string
	Curation []string
	MoveTo   string
}

// DiscoverColumns scans a header row for lookup, curation and Move_to
// columns. Matching is case-insensitive; other columns are ignored.
func DiscoverColumns(header []string) Columns {
	var cols Columns
	for _, raw := range header {
		col := strings.TrimSpace(raw)
		lower := strings.ToLower(col)
		switch {
		case strings.HasSuffix(lower, lookupSuffix):
			cols.Lookup = append(cols.Lookup, col)
		case strings.HasSuffix(lower, curationSuffix):
			cols.Curation = append(cols.Curation, col)
		case lower == moveToColumn && cols.MoveTo == "":
			cols.MoveTo = col
		}
	}
	return cols
}

// BaseName strips a case-insensitive suffix from a column name, so
// "Histology_lookup" and "Histology_curation" share the base
// "Histology".
func BaseName(col, suffix string) string {
	if strings.HasSuffix(strings.ToLower(col), strings.ToLower(suffix)) {
		return col[:len(col)-len(suffix)]
	}
	return col
}
