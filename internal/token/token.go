// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines ua token types and special syntax runes.
package token

// Token represents a ua token type.
type Token int

const (
	EOF Token = iota
	NEWLINE
	NUMBER // numeric literal, possibly ¯-negated
	CHAR   // character literal 'c'
	STRING // string literal "..."
	NAME   // identifier: letters, or a single non-alphanumeric glyph
	GLYPH  // a primitive glyph
	STRAND // _ between literals
	BIND   // ←
	SCOPE  // --- at the start of a line
	LBRACKET
	RBRACKET
	LPAREN
	RPAREN
	LBRACE
	RBRACE
)

// Special syntax runes.
const (
	RuneBind     = '←' // U+2190 - binding operator, formatted from =
	RuneNegative = '¯' // U+00AF - negative number prefix
	RuneBacktick = '`' // ASCII surface form of ¯
	RuneStrand   = '_' // strand notation separator
	RuneComment  = '#' // comment to end of line
)

// ScopeDelim is the triple-character scope delimiter.
const ScopeDelim = "---"

// String returns the string representation of a token.
func (t Token) String() string {
	switch t {
	case EOF:
		return "EOF"
	case NEWLINE:
		return "NEWLINE"
	case NUMBER:
		return "NUMBER"
	case CHAR:
		return "CHAR"
	case STRING:
		return "STRING"
	case NAME:
		return "NAME"
	case GLYPH:
		return "GLYPH"
	case STRAND:
		return "STRAND"
	case BIND:
		return "BIND"
	case SCOPE:
		return "SCOPE"
	case LBRACKET:
		return "LBRACKET"
	case RBRACKET:
		return "RBRACKET"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case LBRACE:
		return "LBRACE"
	case RBRACE:
		return "RBRACE"
	}
	return "UNKNOWN"
}
