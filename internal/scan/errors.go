package scan

import (
	"fmt"
	"strings"
)

// ParseError is a syntax error with enough position context to point a
// human at the offending character. It is always fatal for the document
// being parsed.
//
// ParseError is deliberately distinct from rewrite.InvariantError: a
// ParseError means the input text is bad, not that a caller broke an
// internal contract.
type ParseError struct {
	// Message describes what the parser expected.
	Message string

	// Offset is the byte offset into the input where parsing failed.
	Offset int

	// Line is the 1-based line number of the failure.
	Line int

	// Column is the 1-based column of the failure on that line.
	Column int

	// Snippet holds up to two input lines ending at the failing line.
	Snippet []string
}

// Error renders the message, the context snippet and a caret aligned to
// the failing column.
func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (line %d)", e.Message, e.Line)
	for _, line := range e.Snippet {
		b.WriteByte('\n')
		b.WriteString(line)
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", e.Column-1))
	b.WriteByte('^')
	return b.String()
}
