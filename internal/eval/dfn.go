// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import "nickandperla.net/ua/internal/word"

// DfnArity infers a dfn's argument count from its body: the highest
// single lowercase letter referenced, with a as 1. A body referencing
// no letters has arity 0. Nested dfns bind their own letters and do
// not contribute; groups, strands, arrays, and modifier operands do.
func DfnArity(words []word.Word) int {
	arity := 0
	var walk func(ws []word.Word)
	walk = func(ws []word.Word) {
		for _, w := range ws {
			switch w := w.(type) {
			case word.Name:
				r := []rune(w.Value)
				if len(r) == 1 && r[0] >= 'a' && r[0] <= 'z' {
					if n := int(r[0]-'a') + 1; n > arity {
						arity = n
					}
				}
			case word.Group:
				walk(w.Words)
			case word.Array:
				walk(w.Words)
			case word.Strand:
				walk(w.Items)
			case word.Modified:
				walk([]word.Word{w.Operand})
			}
		}
	}
	walk(words)
	return arity
}
