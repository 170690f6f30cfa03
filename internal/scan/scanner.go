// Package scan provides the character-cursor primitives shared by the
// criterion-DSL, rule-DSL and fault-tolerant JSON parsers.
//
// A Scanner is a plain cursor over an input string. All higher-level
// parsers are recursive-descent consumers built on Peek/Consume/
// ConsumeWhile plus two structured helpers: ConsumeQuotedString and
// ConsumeDelimited. ConsumeDelimited carries the single most important
// recovery mechanism in this module: a caller-supplied probe that can
// close a delimited region implicitly when the input looks like a
// delimiter was dropped (typically by an LLM truncating its output).
package scan

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Probe inspects the unconsumed remainder of the input and reports
// whether the current delimited region should be closed implicitly.
// Probes never consume input.
type Probe func(rest string) bool

// Scanner is a cursor over an input string. Positions are byte offsets;
// multi-byte runes are copied through verbatim, so only ASCII characters
// may be structural.
type Scanner struct {
	text string
	pos  int
	line int // 0-based index of the line containing pos
}

// New returns a Scanner positioned at the start of text.
func New(text string) *Scanner {
	return &Scanner{text: text}
}

// Peek returns the byte at the cursor, or 0 at end of input.
func (s *Scanner) Peek() byte {
	if s.pos >= len(s.text) {
		return 0
	}
	return s.text[s.pos]
}

// Consume returns the byte at the cursor and advances past it.
// At end of input it returns 0.
func (s *Scanner) Consume() byte {
	if s.pos >= len(s.text) {
		return 0
	}
	c := s.text[s.pos]
	s.pos++
	if c == '\n' {
		s.line++
	}
	return c
}

// ConsumeWhile consumes bytes while pred holds and returns them.
func (s *Scanner) ConsumeWhile(pred func(byte) bool) string {
	start := s.pos
	for s.pos < len(s.text) && pred(s.text[s.pos]) {
		if s.text[s.pos] == '\n' {
			s.line++
		}
		s.pos++
	}
	return s.text[start:s.pos]
}

// ConsumeWhitespace skips over ASCII whitespace.
func (s *Scanner) ConsumeWhitespace() {
	s.ConsumeWhile(func(c byte) bool {
		return c == ' ' || c == '\t' || c == '\n' || c == '\r'
	})
}

// EOF reports whether the cursor is at end of input.
func (s *Scanner) EOF() bool {
	return s.pos >= len(s.text)
}

// HasPrefix reports whether the unconsumed input starts with prefix.
func (s *Scanner) HasPrefix(prefix string) bool {
	return strings.HasPrefix(s.text[s.pos:], prefix)
}

// Rest returns the unconsumed remainder of the input.
func (s *Scanner) Rest() string {
	return s.text[s.pos:]
}

// Pos returns the current byte offset. Together with SetPos it supports
// the one backtracking point in the criterion parser (argument values
// that turn out to be nested calls).
func (s *Scanner) Pos() int {
	return s.pos
}

// SetPos rewinds the cursor to a position previously obtained from Pos.
func (s *Scanner) SetPos(pos int) {
	if pos < s.pos {
		s.line -= strings.Count(s.text[pos:s.pos], "\n")
	} else {
		s.line += strings.Count(s.text[s.pos:pos], "\n")
	}
	s.pos = pos
}

// ConsumeQuotedString consumes a string delimited by quote, decoding
// backslash escapes (\n, \t, \r, \", \', \\ and \uXXXX). Leading
// whitespace is skipped. An unterminated string is a ParseError.
func (s *Scanner) ConsumeQuotedString(quote byte) (string, error) {
	s.ConsumeWhitespace()
	if s.Peek() != quote {
		return "", s.Errorf("expected opening %q for string, got %q", string(quote), string(s.Peek()))
	}
	s.Consume()

	var b strings.Builder
	for !s.EOF() {
		c := s.Consume()
		switch c {
		case quote:
			return b.String(), nil
		case '\\':
			if s.EOF() {
				return "", s.Errorf("unterminated escape sequence")
			}
			esc := s.Consume()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'u':
				r, err := s.consumeUnicodeEscape()
				if err != nil {
					return "", err
				}
				b.WriteRune(r)
			default:
				// Lenient: \" \' \\ \/ and anything else keep the
				// escaped character itself.
				b.WriteByte(esc)
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", s.Errorf("unterminated string: closing %q not found", string(quote))
}

func (s *Scanner) consumeUnicodeEscape() (rune, error) {
	if s.pos+4 > len(s.text) {
		return 0, s.Errorf("truncated \\u escape")
	}
	hex := s.text[s.pos : s.pos+4]
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, s.Errorf("invalid \\u escape %q", hex)
	}
	s.pos += 4
	return rune(n), nil
}

// ConsumeDelimited consumes open, then repeatedly: skip whitespace,
// invoke element, skip whitespace, and expect ',' or close.
//
// Before raising a missing-delimiter error, probe (when non-nil) is
// tested against the unconsumed input. If it matches, the region is
// closed implicitly with a logged warning instead of a hard failure:
// neither the probe's match nor the preceding comma is consumed, so the
// enclosing parser sees them. This converts a large class of truncation
// mistakes into recoverable parses.
func (s *Scanner) ConsumeDelimited(open, close byte, element func() error, probe Probe) error {
	s.ConsumeWhitespace()
	if c := s.Consume(); c != open {
		return s.Errorf("expected %q, got %q", string(open), string(c))
	}
	s.ConsumeWhitespace()
	if s.Peek() == close {
		s.Consume()
		return nil
	}

	for {
		s.ConsumeWhitespace()
		if err := element(); err != nil {
			return err
		}
		s.ConsumeWhitespace()
		if probe != nil && probe(s.Rest()) {
			slog.Warn("missing closing delimiter, closing region implicitly",
				"expected", string(close),
				"line", s.line+1)
			return nil
		}
		c := s.Consume()
		if c == close {
			return nil
		}
		if c != ',' {
			return s.Errorf("expected ',' or %q, got %q", string(close), string(c))
		}
	}
}

// Errorf builds a ParseError at the current cursor position with a
// two-line context snippet and caret column.
func (s *Scanner) Errorf(format string, args ...any) *ParseError {
	return s.errorAt(s.pos, format, args...)
}

func (s *Scanner) errorAt(pos int, format string, args ...any) *ParseError {
	lines := strings.Split(s.text, "\n")
	lineIdx := strings.Count(s.text[:min(pos, len(s.text))], "\n")
	start := max(0, lineIdx-1)
	end := min(len(lines), lineIdx+1)

	lineStart := strings.LastIndexByte(s.text[:min(pos, len(s.text))], '\n') + 1
	col := pos - lineStart + 1

	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Offset:  pos,
		Line:    lineIdx + 1,
		Column:  col,
		Snippet: lines[start:end],
	}
}
