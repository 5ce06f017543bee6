// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package value

import (
	"math"
	"strconv"
	"strings"
)

// Show renders the value for output: numbers with the high minus and
// the infinity glyph, character arrays as string literals, arrays in
// bracket notation with rows nested per axis.
func (v Value) Show() string {
	switch {
	case v.IsScalar():
		return v.showScalar()
	case v.typ == Char && v.Rank() == 1:
		return quoteString(string(v.chars))
	default:
		cells := v.Cells()
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = c.Show()
		}
		return "[" + strings.Join(parts, " ") + "]"
	}
}

func (v Value) showScalar() string {
	switch v.typ {
	case Num:
		return FormatNum(v.nums[0])
	case Char:
		return "'" + escapeShown(v.chars[0], '\'') + "'"
	default:
		return v.fns[0].String()
	}
}

// FormatNum renders a number in source form: shortest decimal, high
// minus for negatives, the infinity glyph for infinities.
func FormatNum(f float64) string {
	if math.IsInf(f, 1) {
		return "∞"
	}
	if math.IsInf(f, -1) {
		return "¯∞"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	return strings.ReplaceAll(s, "-", "¯")
}

func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		sb.WriteString(escapeShown(r, '"'))
	}
	sb.WriteByte('"')
	return sb.String()
}

func escapeShown(r rune, quote rune) string {
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
