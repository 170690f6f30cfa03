package lookup

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/curalab/curatree/internal/textnorm"
)

// Key identifies a table entry. A single-column key is the normalized
// primary value; a tuple key joins every normalized lookup value with
// an unprintable separator, so "x" and ("x", "y") can never collide.
type Key string

const keySep = "\x1f"

// NewKey builds a key from already-normalized parts.
func NewKey(parts ...string) Key {
	return Key(strings.Join(parts, keySep))
}

// BuildKey applies the degradation rule to raw lookup values: the key
// is the full tuple iff every part is non-empty after normalization,
// otherwise it degrades to the primary (first) part alone. An empty
// primary yields ok=false and the row or query is skipped.
func BuildKey(parts []string) (Key, bool) {
	if len(parts) == 0 {
		return "", false
	}
	normed := make([]string, len(parts))
	full := true
	for i, part := range parts {
		normed[i] = textnorm.Norm(textnorm.CleanCell(part))
		if normed[i] == "" {
			full = false
		}
	}
	if normed[0] == "" {
		return "", false
	}
	if full {
		return NewKey(normed...), true
	}
	return NewKey(normed[0]), true
}

// Table maps lookup keys to curated values, one map per curation
// column, plus the Move_to map. Built once per run and read-only
// afterwards.
type Table struct {
	Columns   Columns
	Curations map[string]map[Key]string
	MoveTo    map[Key]string
}

// FromCSV loads a resource table. Blank cells stay blank (no implicit
// NA), cell text gets mojibake repair, and duplicate keys warn and
// keep the later row.
func FromCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read resource header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	cols := DiscoverColumns(header)
	if len(cols.Lookup) == 0 {
		return nil, fmt.Errorf("resource table has no %s columns", lookupSuffix)
	}

	byName := make(map[string]int, len(header))
	for i, col := range header {
		byName[strings.TrimSpace(col)] = i
	}

	table := &Table{
		Columns:   cols,
		Curations: make(map[string]map[Key]string, len(cols.Curation)),
		MoveTo:    map[Key]string{},
	}
	for _, col := range cols.Curation {
		table.Curations[col] = map[Key]string{}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read resource rows: %w", err)
	}

	for _, row := range rows {
		parts := make([]string, len(cols.Lookup))
		for i, col := range cols.Lookup {
			parts[i] = cellAt(row, byName[col])
		}
		key, ok := BuildKey(parts)
		if !ok {
			continue
		}

		for _, col := range cols.Curation {
			raw := cellAt(row, byName[col])
			if textnorm.IsEffectivelyEmpty(raw) {
				continue
			}
			value := strings.TrimSpace(textnorm.CleanCell(raw))
			if prev, dup := table.Curations[col][key]; dup {
				slog.Warn("duplicate lookup key, last write wins",
					"column", col, "key", string(key), "previous", prev, "value", value)
			}
			table.Curations[col][key] = value
		}

		if cols.MoveTo != "" {
			raw := cellAt(row, byName[cols.MoveTo])
			if !textnorm.IsEffectivelyEmpty(raw) {
				value := strings.TrimSpace(textnorm.CleanCell(raw))
				if prev, dup := table.MoveTo[key]; dup {
					slog.Warn("duplicate move-to key, last write wins",
						"key", string(key), "previous", prev, "value", value)
				}
				table.MoveTo[key] = value
			}
		}
	}
	return table, nil
}

// Curated resolves the curation value in col for the raw lookup
// values. The query key degrades exactly like construction keys, so a
// query with only the primary value can never hit a tuple-keyed entry.
func (t *Table) Curated(col string, parts ...string) (string, bool) {
	key, ok := BuildKey(parts)
	if !ok {
		return "", false
	}
	value, ok := t.Curations[col][key]
	return value, ok
}

// MoveTarget resolves the Move_to destination for the raw lookup
// values.
func (t *Table) MoveTarget(parts ...string) (string, bool) {
	key, ok := BuildKey(parts)
	if !ok {
		return "", false
	}
	value, ok := t.MoveTo[key]
	return value, ok
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
