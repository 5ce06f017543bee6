// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package value implements the ua flat-array value model: dynamically
// typed, rigidly flat arrays of numbers, characters, or functions.
// Arrays never nest; jagged structure is reconciled with fill values.
package value

import "math"

// Type is the element type of an array.
type Type int

const (
	Num Type = iota
	Char
	Fn
)

func (t Type) String() string {
	switch t {
	case Num:
		return "number"
	case Char:
		return "character"
	case Fn:
		return "function"
	}
	return "unknown"
}

// Value is a multi-dimensional array. Every element shares one type.
// The number of elements always equals the product of the shape; an
// empty shape means a scalar. Values are immutable once constructed.
type Value struct {
	typ   Type
	shape []int
	nums  []float64
	chars []rune
	fns   []Function
}

// NewNum creates a numeric scalar.
func NewNum(v float64) Value {
	return Value{typ: Num, nums: []float64{v}}
}

// NewNums creates a numeric array with the given shape.
func NewNums(elems []float64, shape ...int) Value {
	return Value{typ: Num, nums: elems, shape: shape}
}

// NewChar creates a character scalar.
func NewChar(r rune) Value {
	return Value{typ: Char, chars: []rune{r}}
}

// NewString creates a rank-1 character array.
func NewString(s string) Value {
	rs := []rune(s)
	return Value{typ: Char, chars: rs, shape: []int{len(rs)}}
}

// NewChars creates a character array with the given shape.
func NewChars(elems []rune, shape ...int) Value {
	return Value{typ: Char, chars: elems, shape: shape}
}

// NewFn creates a function scalar.
func NewFn(f Function) Value {
	return Value{typ: Fn, fns: []Function{f}}
}

// NewFns creates a function array with the given shape.
func NewFns(elems []Function, shape ...int) Value {
	return Value{typ: Fn, fns: elems, shape: shape}
}

// Type returns the element type.
func (v Value) Type() Type { return v.typ }

// Shape returns a copy of the shape.
func (v Value) Shape() []int {
	out := make([]int, len(v.shape))
	copy(out, v.shape)
	return out
}

// Rank is the number of axes.
func (v Value) Rank() int { return len(v.shape) }

// Length is the leading axis size, or 1 for a scalar.
func (v Value) Length() int {
	if len(v.shape) == 0 {
		return 1
	}
	return v.shape[0]
}

// IsScalar reports whether the value has an empty shape.
func (v Value) IsScalar() bool { return len(v.shape) == 0 }

// Count is the number of elements (the product of the shape).
func (v Value) Count() int {
	n := 1
	for _, d := range v.shape {
		n *= d
	}
	return n
}

// Nums returns the numeric backing storage. Valid only for Num values.
func (v Value) Nums() []float64 { return v.nums }

// Chars returns the character backing storage. Valid only for Char
// values.
func (v Value) Chars() []rune { return v.chars }

// Fns returns the function backing storage. Valid only for Fn values.
func (v Value) Fns() []Function { return v.fns }

// AsFunction returns the function if v is a function scalar.
func (v Value) AsFunction() (Function, bool) {
	if v.typ == Fn && v.IsScalar() {
		return v.fns[0], true
	}
	return Function{}, false
}

// AsString renders a rank<=1 character array as a Go string.
func (v Value) AsString() (string, bool) {
	if v.typ != Char || v.Rank() > 1 {
		return "", false
	}
	return string(v.chars), true
}

// AsInt returns the value as a non-array integer, failing with a
// *TypeError for anything but an integral numeric scalar.
func (v Value) AsInt(op string) (int, error) {
	if v.typ != Num || !v.IsScalar() {
		return 0, &TypeError{Op: op, Expected: "an integer", Got: v.typ, Shape: v.Shape()}
	}
	f := v.nums[0]
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, &TypeError{Op: op, Expected: "an integer", Got: Num, NonIntegral: true}
	}
	return int(f), nil
}

// cellShape is the shape of one major cell.
func (v Value) cellShape() []int {
	if len(v.shape) == 0 {
		return nil
	}
	return v.shape[1:]
}

func (v Value) cellSize() int {
	n := 1
	for _, d := range v.cellShape() {
		n *= d
	}
	return n
}

// Cell returns the i-th major cell. A scalar is its own single cell.
func (v Value) Cell(i int) Value {
	if len(v.shape) == 0 {
		return v
	}
	size := v.cellSize()
	lo, hi := i*size, (i+1)*size
	shape := append([]int{}, v.shape[1:]...)
	switch v.typ {
	case Num:
		return Value{typ: Num, shape: shape, nums: v.nums[lo:hi]}
	case Char:
		return Value{typ: Char, shape: shape, chars: v.chars[lo:hi]}
	default:
		return Value{typ: Fn, shape: shape, fns: v.fns[lo:hi]}
	}
}

// Element returns the scalar at flat index i.
func (v Value) Element(i int) Value {
	switch v.typ {
	case Num:
		return NewNum(v.nums[i])
	case Char:
		return NewChar(v.chars[i])
	default:
		return NewFn(v.fns[i])
	}
}

// Reshape returns the value with a new shape. The element count must
// equal the product of the new shape.
func (v Value) Reshape(shape []int) Value {
	out := v
	out.shape = append([]int{}, shape...)
	return out
}

// Cells returns the major cells. A scalar yields itself.
func (v Value) Cells() []Value {
	if len(v.shape) == 0 {
		return []Value{v}
	}
	out := make([]Value, v.shape[0])
	for i := range out {
		out[i] = v.Cell(i)
	}
	return out
}

// Equal reports deep equality of type, shape, and elements.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ || len(v.shape) != len(o.shape) {
		return false
	}
	for i, d := range v.shape {
		if o.shape[i] != d {
			return false
		}
	}
	switch v.typ {
	case Num:
		for i, n := range v.nums {
			if o.nums[i] != n && !(math.IsNaN(n) && math.IsNaN(o.nums[i])) {
				return false
			}
		}
	case Char:
		for i, r := range v.chars {
			if o.chars[i] != r {
				return false
			}
		}
	case Fn:
		for i, f := range v.fns {
			if !f.SameAs(o.fns[i]) {
				return false
			}
		}
	}
	return true
}
