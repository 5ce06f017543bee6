// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package value

import (
	"fmt"
	"strings"
)

// TypeError reports an operation applied to values it cannot accept:
// wrong element type, incompatible shapes, or a non-integral number
// where an index is required.
type TypeError struct {
	Op          string
	Expected    string
	Got         Type
	Shape       []int
	Other       Type
	OtherShape  []int
	Dyadic      bool
	NonIntegral bool
}

func (e *TypeError) Error() string {
	if e.NonIntegral {
		return fmt.Sprintf("%s requires %s, but the number is not integral", e.Op, e.Expected)
	}
	if e.Dyadic {
		return fmt.Sprintf("%s is not valid between %s %s and %s %s",
			e.Op, shapeString(e.Shape), e.Got, shapeString(e.OtherShape), e.Other)
	}
	if e.Expected != "" {
		return fmt.Sprintf("%s requires %s, got %s %s", e.Op, e.Expected, shapeString(e.Shape), e.Got)
	}
	return fmt.Sprintf("%s is not valid on %s %s", e.Op, shapeString(e.Shape), e.Got)
}

func shapeString(shape []int) string {
	if len(shape) == 0 {
		return "scalar"
	}
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = fmt.Sprint(d)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func dyadicError(op string, a, b Value) *TypeError {
	return &TypeError{Op: op, Dyadic: true,
		Got: a.typ, Shape: a.Shape(),
		Other: b.typ, OtherShape: b.Shape()}
}

func monadicError(op string, v Value) *TypeError {
	return &TypeError{Op: op, Got: v.typ, Shape: v.Shape()}
}
