// Package textnorm normalizes free-text cells before they are used as
// lookup keys or ontology terms.
//
// Normalization is deliberately strict and lossless where possible:
// mojibake repair replaces known bad byte sequences only, and Norm
// collapses the usual spreadsheet junk ("NaN", "n/a", "unknown") to the
// empty string so that callers have a single notion of "empty".
package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// emptyTokens are cell values that mean "no value" after normalization.
var emptyTokens = map[string]struct{}{
	"":        {},
	"na":      {},
	"n/a":     {},
	"nan":     {},
	"unknown": {},
}

var folder = cases.Fold()

// Norm trims, NFC-normalizes and casefolds a cell value. Values that
// normalize to one of the empty tokens collapse to "".
func Norm(s string) string {
	cleaned := folder.String(norm.NFC.String(strings.TrimSpace(s)))
	if _, empty := emptyTokens[cleaned]; empty {
		return ""
	}
	return cleaned
}

// IsEffectivelyEmpty reports whether a cell carries no usable value.
func IsEffectivelyEmpty(s string) bool {
	return Norm(s) == ""
}

// mojibakeReplacements maps UTF-8-read-as-latin1 byte sequences seen in
// real source tables to the characters they were meant to be.
var mojibakeReplacements = [][2]string{
	// comparisons
	{"‚â•", "≥"},
	{"â‰¥", "≥"},
	{"â‰¤", "≤"},
	// bullets / dots
	{"â€¢", "•"},
	{"â—", "•"},
	// dashes
	{"â€“", "-"},
	{"â€”", "-"},
	// quotes
	{"â€˜", "'"},
	{"â€™", "'"},
	{"â€œ", `"`},
	{"â€", `"`},
	// misc symbols
	{"Ã—", "×"},
	{"Ã·", "÷"},
	{"Â±", "±"},
	{"Â°", "°"},
	// stray non-breaking-space marker
	{"Â ", " "},
}

// FixMojibake repairs known mojibake sequences in place of guessing
// encodings. Unknown sequences pass through untouched.
func FixMojibake(s string) string {
	result := s
	for _, r := range mojibakeReplacements {
		if strings.Contains(result, r[0]) {
			result = strings.ReplaceAll(result, r[0], r[1])
		}
	}
	return result
}

// CleanCell applies mojibake repair and trimming without casefolding.
// Used for values that are stored, not matched.
func CleanCell(s string) string {
	return strings.TrimSpace(FixMojibake(s))
}
