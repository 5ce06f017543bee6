// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides a Unicode-aware lexer for ua source text.
package scanner

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"nickandperla.net/ua/internal/prim"
	"nickandperla.net/ua/internal/token"
)

// Item represents a scanned token with its value.
type Item struct {
	Token token.Token
	Num   float64        // for NUMBER
	Rune  rune           // for CHAR
	Str   string         // for STRING and NAME
	Prim  prim.Primitive // for GLYPH
	Line  int            // line number where this token started (1-based)
}

// Scanner tokenizes ua input rune-by-rune.
type Scanner struct {
	src       []rune
	pos       int
	line      int
	lineStart bool // no non-space token seen yet on this line
}

// New creates a new Scanner over the given source.
func New(src string) *Scanner {
	return &Scanner{src: []rune(src), line: 1, lineStart: true}
}

// Line returns the current line number (1-based).
func (s *Scanner) Line() int { return s.line }

func (s *Scanner) peek() rune {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func (s *Scanner) peekAt(off int) rune {
	if s.pos+off >= len(s.src) {
		return 0
	}
	return s.src[s.pos+off]
}

func (s *Scanner) next() rune {
	r := s.peek()
	s.pos++
	return r
}

// Next returns the next token from the input.
func (s *Scanner) Next() (*Item, error) {
	for {
		r := s.peek()
		switch {
		case r == 0:
			return &Item{Token: token.EOF, Line: s.line}, nil
		case r == '\n':
			s.pos++
			item := &Item{Token: token.NEWLINE, Line: s.line}
			s.line++
			s.lineStart = true
			return item, nil
		case r == ' ' || r == '\t' || r == '\r':
			s.pos++
			continue
		case r == token.RuneComment:
			for s.peek() != 0 && s.peek() != '\n' {
				s.pos++
			}
			continue
		}
		break
	}

	start := s.line
	r := s.peek()

	// Scope delimiter, only at the start of a line.
	if s.lineStart && r == '-' && s.peekAt(1) == '-' && s.peekAt(2) == '-' {
		s.pos += 3
		s.lineStart = false
		return &Item{Token: token.SCOPE, Line: start}, nil
	}
	s.lineStart = false

	switch {
	case isDigit(r):
		return s.scanNumber(false)
	case r == token.RuneNegative || r == token.RuneBacktick:
		if isDigit(s.peekAt(1)) {
			s.pos++
			return s.scanNumber(true)
		}
		if r == token.RuneNegative {
			s.pos++
			return &Item{Token: token.GLYPH, Prim: prim.Negate, Line: start}, nil
		}
		s.pos++
		return nil, fmt.Errorf("line %d: stray ` (expected a digit)", start)
	case r == '\'':
		return s.scanChar()
	case r == '"':
		return s.scanString()
	case r == token.RuneStrand:
		s.pos++
		return &Item{Token: token.STRAND, Line: start}, nil
	case r == token.RuneBind:
		s.pos++
		return &Item{Token: token.BIND, Line: start}, nil
	case r == '[':
		s.pos++
		return &Item{Token: token.LBRACKET, Line: start}, nil
	case r == ']':
		s.pos++
		return &Item{Token: token.RBRACKET, Line: start}, nil
	case r == '(':
		s.pos++
		return &Item{Token: token.LPAREN, Line: start}, nil
	case r == ')':
		s.pos++
		return &Item{Token: token.RPAREN, Line: start}, nil
	case r == '{':
		s.pos++
		return &Item{Token: token.LBRACE, Line: start}, nil
	case r == '}':
		s.pos++
		return &Item{Token: token.RBRACE, Line: start}, nil
	}

	// Two-rune ASCII digraphs (!=, <=, >=) before single-rune glyphs.
	if second := s.peekAt(1); second == '=' {
		if p, ok := prim.FromAscii(string([]rune{r, second})); ok {
			s.pos += 2
			return &Item{Token: token.GLYPH, Prim: p, Line: start}, nil
		}
	}
	if p, ok := prim.FromAscii(string(r)); ok {
		s.pos++
		return &Item{Token: token.GLYPH, Prim: p, Line: start}, nil
	}
	if p, ok := prim.FromGlyph(r); ok {
		s.pos++
		return &Item{Token: token.GLYPH, Prim: p, Line: start}, nil
	}

	if unicode.IsLetter(r) {
		var sb strings.Builder
		for unicode.IsLetter(s.peek()) {
			sb.WriteRune(s.next())
		}
		return &Item{Token: token.NAME, Str: sb.String(), Line: start}, nil
	}

	// Any other single non-alphanumeric rune is usable as a binding name.
	s.pos++
	return &Item{Token: token.NAME, Str: string(r), Line: start}, nil
}

// scanNumber scans digits with an optional interior decimal point. A
// trailing '.' is not part of the number: "2." is 2 followed by dup.
func (s *Scanner) scanNumber(neg bool) (*Item, error) {
	start := s.line
	var sb strings.Builder
	for isDigit(s.peek()) {
		sb.WriteRune(s.next())
	}
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		sb.WriteRune(s.next())
		for isDigit(s.peek()) {
			sb.WriteRune(s.next())
		}
	}
	v, err := strconv.ParseFloat(sb.String(), 64)
	if err != nil {
		return nil, fmt.Errorf("line %d: bad number %q: %w", start, sb.String(), err)
	}
	if neg {
		v = -v
	}
	return &Item{Token: token.NUMBER, Num: v, Line: start}, nil
}

func (s *Scanner) scanChar() (*Item, error) {
	start := s.line
	s.pos++ // opening quote
	r := s.next()
	if r == 0 || r == '\n' {
		return nil, &IncompleteError{Line: start, What: "character literal"}
	}
	if r == '\\' {
		esc, err := unescape(s.next(), start)
		if err != nil {
			return nil, err
		}
		r = esc
	}
	if s.next() != '\'' {
		return nil, &IncompleteError{Line: start, What: "character literal"}
	}
	return &Item{Token: token.CHAR, Rune: r, Line: start}, nil
}

func (s *Scanner) scanString() (*Item, error) {
	start := s.line
	s.pos++ // opening quote
	var sb strings.Builder
	for {
		r := s.next()
		switch r {
		case 0, '\n':
			return nil, &IncompleteError{Line: start, What: "string literal"}
		case '"':
			return &Item{Token: token.STRING, Str: sb.String(), Line: start}, nil
		case '\\':
			esc, err := unescape(s.next(), start)
			if err != nil {
				return nil, err
			}
			sb.WriteRune(esc)
		default:
			sb.WriteRune(r)
		}
	}
}

func unescape(r rune, line int) (rune, error) {
	switch r {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case '0':
		return 0, nil
	case '\\', '\'', '"':
		return r, nil
	}
	return 0, fmt.Errorf("line %d: unknown escape \\%c", line, r)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// IncompleteError reports source that ends mid-construct, such as an
// unterminated string. Interactive callers treat it as retryable.
type IncompleteError struct {
	Line int
	What string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("line %d: unterminated %s", e.Line, e.What)
}
