// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package word defines the parsed form of ua source: files of lines,
// lines of words. Lines evaluate right to left; the structures here
// capture everything that is decided before evaluation (strands,
// groups, dfns, modifier operand binding, bindings, scope delimiters).
package word

import (
	"strconv"
	"strings"

	"nickandperla.net/ua/internal/prim"
	"nickandperla.net/ua/internal/token"
)

// Word is one evaluatable unit within a line.
type Word interface {
	// String returns the canonical source form of the word.
	String() string
}

// Number is a numeric literal.
type Number struct {
	Value float64
}

func (n Number) String() string {
	s := strconv.FormatFloat(n.Value, 'g', -1, 64)
	return strings.ReplaceAll(s, "-", string(token.RuneNegative))
}

// Char is a character literal.
type Char struct {
	Value rune
}

func (c Char) String() string { return "'" + escapeRune(c.Value, '\'') + "'" }

// String is a string literal (a rank-1 character array).
type String struct {
	Value string
}

func (s String) String() string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s.Value {
		sb.WriteString(escapeRune(r, '"'))
	}
	sb.WriteByte('"')
	return sb.String()
}

// Prim is a primitive reference.
type Prim struct {
	P prim.Primitive
}

func (p Prim) String() string { return p.P.String() }

// Name is a reference to a binding (or a named primitive).
type Name struct {
	Value string
}

func (n Name) String() string { return n.Value }

// Strand is underscore notation: a 1-D array of literal items.
type Strand struct {
	Items []Word
}

func (s Strand) String() string {
	parts := make([]string, len(s.Items))
	for i, it := range s.Items {
		parts[i] = it.String()
	}
	return strings.Join(parts, string(token.RuneStrand))
}

// Group is a parenthesized function literal. It pushes a function
// value; it is not invoked on construction.
type Group struct {
	Words []Word
}

func (g Group) String() string { return "(" + Join(g.Words) + ")" }

// Dfn is a brace-delimited block, invoked immediately; its arity is
// inferred from the single-letter names its body references.
type Dfn struct {
	Words []Word
}

func (d Dfn) String() string { return "{" + Join(d.Words) + "}" }

// Array is stack notation: sub-evaluation collapsed into one array.
type Array struct {
	Words []Word
}

func (a Array) String() string { return "[" + Join(a.Words) + "]" }

// Modified is a modifier with its bound function operand.
type Modified struct {
	Mod     prim.Primitive
	Operand Word
}

func (m Modified) String() string { return m.Mod.String() + m.Operand.String() }

// Join renders words separated by single spaces, except that a
// modifier and glyph run stays tight to its neighbors the way the
// formatter writes it.
func Join(words []Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.String()
	}
	return strings.Join(parts, " ")
}

func escapeRune(r rune, quote rune) string {
	switch r {
	case '\n':
		return "\\n"
	case '\t':
		return "\\t"
	case '\r':
		return "\\r"
	case '\\':
		return "\\\\"
	case quote:
		return "\\" + string(quote)
	}
	return string(r)
}

// Line is one source line.
type Line struct {
	Num     int    // 1-based source line number
	Scope   bool   // a --- delimiter line
	Test    bool   // a ---test delimiter line
	Binding string // binding name, if this is a binding line
	IsBind  bool
	Words   []Word // right side for bindings, whole line otherwise
}

// File is a parsed source file.
type File struct {
	Lines []Line
}
