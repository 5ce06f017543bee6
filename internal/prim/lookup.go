// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package prim

import (
	"fmt"
	"sort"
	"strings"
)

// AmbiguityError reports a typed name that is a prefix of more than
// one built-in name.
type AmbiguityError struct {
	Typed      string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("%q is ambiguous: could be %s", e.Typed, strings.Join(e.Candidates, ", "))
}

// Disambiguate resolves a typed name against the built-in table using
// longest-unambiguous-prefix lookup. An exact name match always wins.
// Case-sensitive prefix matches are preferred over case-insensitive
// ones; a tie at either tier is an *AmbiguityError. Names of length 1
// never resolve: they are dfn arguments or short user bindings.
//
// The second return is false when the name matches nothing, meaning it
// is an ordinary user name.
func Disambiguate(typed string) (Primitive, bool, error) {
	if len([]rune(typed)) <= 1 {
		return Invalid, false, nil
	}
	if p, ok := byName[strings.ToLower(typed)]; ok {
		return p, true, nil
	}

	var exact, folded []Primitive
	lower := strings.ToLower(typed)
	for _, p := range all {
		name := table[p].name
		if strings.HasPrefix(name, typed) {
			exact = append(exact, p)
		}
		if strings.HasPrefix(strings.ToLower(name), lower) {
			folded = append(folded, p)
		}
	}

	matches := exact
	if len(matches) == 0 {
		matches = folded
	}
	switch len(matches) {
	case 0:
		return Invalid, false, nil
	case 1:
		return matches[0], true, nil
	}

	names := make([]string, len(matches))
	for i, p := range matches {
		names[i] = table[p].name
	}
	sort.Strings(names)
	return Invalid, false, &AmbiguityError{Typed: typed, Candidates: names}
}

// FromAscii returns the primitive for a multi-rune ASCII surface form
// such as "!=" or "<=".
func FromAscii(s string) (Primitive, bool) {
	for _, p := range all {
		if a := table[p].ascii; a != "" && a == s {
			return p, true
		}
	}
	return Invalid, false
}
