package oncotree

import (
	"fmt"
	"io"
	"strings"

	"github.com/curalab/curatree/internal/textnorm"
)

// SplitOrTerms splits a mapping cell into OR-alternative terms on '|'.
// Commas are literal. Blank or effectively empty input yields nil.
func SplitOrTerms(value string) []string {
	if textnorm.IsEffectivelyEmpty(value) {
		return nil
	}
	var terms []string
	for _, part := range strings.Split(textnorm.FixMojibake(value), "|") {
		part = strings.TrimSpace(part)
		if part != "" {
			terms = append(terms, part)
		}
	}
	return terms
}

// TermIndex maps normalized "Name (CODE)" terms to their level.
type TermIndex map[string]int

// BuildTermIndex scans every non-empty cell of the level columns and
// records its level under the normalized term. A term recurring at a
// different level is a ConstructError.
func BuildTermIndex(r io.Reader) (TermIndex, error) {
	rows, colIdx, err := readPathTable(r)
	if err != nil {
		return nil, err
	}

	index := TermIndex{}
	for _, row := range rows {
		for level := 1; level <= LevelCount; level++ {
			cell := cellAt(row, colIdx[level-1])
			if textnorm.IsEffectivelyEmpty(cell) {
				continue
			}
			term := strings.TrimSpace(textnorm.FixMojibake(cell))
			key := textnorm.Norm(term)
			if key == "" {
				continue
			}
			if prev, ok := index[key]; ok && prev != level {
				return nil, &ConstructError{
					Code:    ErrCodeLevelConflict,
					Message: fmt.Sprintf("term appears at levels %d and %d", prev, level),
					Term:    term,
				}
			}
			index[key] = level
		}
	}
	return index, nil
}

// LevelOf returns the level for a term, normalizing the query the same
// way the index was built.
func (idx TermIndex) LevelOf(term string) (int, bool) {
	level, ok := idx[textnorm.Norm(term)]
	return level, ok
}

// LevelsForTerms resolves a list of terms to a parallel list of
// levels. Any unknown term makes the whole resolution fail; the caller
// decides removal semantics.
func (idx TermIndex) LevelsForTerms(terms []string) ([]int, bool) {
	levels := make([]int, 0, len(terms))
	for _, term := range terms {
		level, ok := idx.LevelOf(term)
		if !ok {
			return nil, false
		}
		levels = append(levels, level)
	}
	return levels, true
}
