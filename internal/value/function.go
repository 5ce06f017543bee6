// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package value

import (
	"nickandperla.net/ua/internal/prim"
	"nickandperla.net/ua/internal/word"
)

// Function is a first-class function element. Exactly one of Prim or
// Words is meaningful: a primitive reference, or a body of words to
// evaluate. Dfn bodies additionally carry an inferred arity.
type Function struct {
	Prim  prim.Primitive
	Words []word.Word
	IsDfn bool
	Arity int    // inferred argument count for dfns
	Name  string // binding name, if the function came from one
	Frame uint64 // id of the dfn call frame the body was built in, if any
}

// PrimFunction wraps a primitive as a function value.
func PrimFunction(p prim.Primitive) Function {
	return Function{Prim: p, Arity: p.Args()}
}

// String renders the function in source form.
func (f Function) String() string {
	switch {
	case f.Prim != prim.Invalid:
		return f.Prim.String()
	case f.IsDfn:
		return "{" + word.Join(f.Words) + "}"
	default:
		return "(" + word.Join(f.Words) + ")"
	}
}

// SameAs reports whether two functions have the same source form.
// Functions have no extensional equality; this is the identity the
// array model needs for Equal and fills.
func (f Function) SameAs(o Function) bool {
	if f.Prim != prim.Invalid || o.Prim != prim.Invalid {
		return f.Prim == o.Prim
	}
	return f.IsDfn == o.IsDfn && word.Join(f.Words) == word.Join(o.Words)
}

// Identity is the function fill value.
func Identity() Function {
	return Function{Words: nil}
}

// IsIdentity reports whether the function is the empty-body identity.
func (f Function) IsIdentity() bool {
	return f.Prim == prim.Invalid && len(f.Words) == 0
}
