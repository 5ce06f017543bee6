// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package format rewrites ua source into its canonical glyph form:
// ASCII digraphs become glyphs, backtick negatives become the high
// minus, and names resolve to primitives by unambiguous prefix.
package format

import (
	"fmt"
	"strings"
	"unicode"

	"nickandperla.net/ua/internal/prim"
	"nickandperla.net/ua/internal/token"
)

// Error reports source the formatter cannot canonicalize.
type Error struct {
	Line       int
	Name       string   // ambiguous name, if any
	Candidates []string // what the name could have meant
	Incomplete bool     // source ended mid-literal
	What       string   // which literal, when Incomplete
}

func (e *Error) Error() string {
	if e.Incomplete {
		return fmt.Sprintf("line %d: unterminated %s", e.Line, e.What)
	}
	return fmt.Sprintf("line %d: %q is ambiguous: could be %s",
		e.Line, e.Name, strings.Join(e.Candidates, ", "))
}

// Format canonicalizes source with the default configuration.
func Format(source string) (string, error) {
	return FormatWith(source, DefaultConfig())
}

// FormatWith canonicalizes source. Formatting is idempotent: feeding
// the output back in reproduces it.
func FormatWith(source string, cfg Config) (string, error) {
	var out strings.Builder
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		if i > 0 {
			out.WriteByte('\n')
		}
		formatted, err := formatLine(line, i+1, cfg)
		if err != nil {
			return "", err
		}
		out.WriteString(formatted)
	}
	s := out.String()
	if cfg.TrailingNewline && s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s, nil
}

func formatLine(line string, num int, cfg Config) (string, error) {
	src := []rune(line)
	var out strings.Builder
	i := 0
	firstToken := true   // no non-space token emitted yet on this line
	pendingBind := false // first token was a user name; a = may follow

	for i < len(src) {
		r := src[i]

		switch {
		case r == ' ' || r == '\t':
			out.WriteRune(r)
			i++
			continue

		case r == token.RuneComment:
			out.WriteRune(r)
			i++
			if cfg.CommentSpace && i < len(src) && src[i] != ' ' && src[i] != token.RuneComment {
				out.WriteByte(' ')
			}
			out.WriteString(string(src[i:]))
			i = len(src)
			continue

		case r == '"':
			lit, n, err := copyLiteral(src[i:], '"', num, "string literal")
			if err != nil {
				return "", err
			}
			out.WriteString(lit)
			i += n

		case r == '\'':
			lit, n, err := copyLiteral(src[i:], '\'', num, "character literal")
			if err != nil {
				return "", err
			}
			out.WriteString(lit)
			i += n

		case r == token.RuneBacktick:
			out.WriteRune(token.RuneNegative)
			i++

		case r == '=' && pendingBind:
			if cfg.ConvertBindings {
				out.WriteRune(token.RuneBind)
			} else {
				out.WriteRune(r)
			}
			pendingBind = false
			i++

		case unicode.IsLetter(r):
			j := i
			for j < len(src) && unicode.IsLetter(src[j]) {
				j++
			}
			name := string(src[i:j])
			bindPos := firstToken && bindFollows(src, j)
			emitted, resolved, err := resolveName(name, bindPos, num)
			if err != nil {
				return "", err
			}
			out.WriteString(emitted)
			if bindPos && !resolved {
				pendingBind = true
				firstToken = false
				i = j
				continue
			}
			i = j

		default:
			// Two-rune digraphs before single-rune surface forms.
			if i+1 < len(src) {
				if p, ok := prim.FromAscii(string(src[i : i+2])); ok {
					out.WriteRune(p.Glyph())
					i += 2
					pendingBind = false
					firstToken = false
					continue
				}
			}
			if p, ok := prim.FromAscii(string(r)); ok {
				out.WriteRune(p.Glyph())
			} else {
				out.WriteRune(r)
			}
			i++
		}

		pendingBind = false
		firstToken = false
	}
	return out.String(), nil
}

// resolveName maps a typed name to its canonical form. The second
// result reports whether the name resolved to a primitive; a fresh
// name passes through unchanged. In binding position an ambiguous name
// stays a user name; anywhere else ambiguity is an error.
func resolveName(name string, bindPos bool, num int) (string, bool, error) {
	p, ok, err := prim.Disambiguate(name)
	if err != nil {
		if bindPos {
			return name, false, nil
		}
		amb := err.(*prim.AmbiguityError)
		return "", false, &Error{Line: num, Name: name, Candidates: amb.Candidates}
	}
	if !ok {
		return name, false, nil
	}
	if g := p.Glyph(); g != 0 {
		return string(g), true, nil
	}
	return p.Name(), true, nil
}

// bindFollows reports whether the next significant rune begins a
// binding arrow.
func bindFollows(src []rune, j int) bool {
	for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
		j++
	}
	if j >= len(src) {
		return false
	}
	if src[j] == token.RuneBind {
		return true
	}
	// An = here is a bind only if it is not a digraph like ==.
	return src[j] == '=' && (j+1 >= len(src) || src[j+1] != '=')
}

// copyLiteral copies a quoted literal verbatim, including escapes.
func copyLiteral(src []rune, quote rune, num int, what string) (string, int, error) {
	var out strings.Builder
	out.WriteRune(src[0])
	i := 1
	for i < len(src) {
		r := src[i]
		out.WriteRune(r)
		i++
		if r == '\\' && i < len(src) {
			out.WriteRune(src[i])
			i++
			continue
		}
		if r == quote {
			return out.String(), i, nil
		}
	}
	return "", 0, &Error{Line: num, Incomplete: true, What: what}
}
