// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package value

import "math"

// Dyadic math pervades elementwise with prefix broadcasting: the
// lower-rank operand's shape must match the leading axes of the
// higher-rank operand's shape, and each of its elements is repeated
// across the remaining axes. Equal ranks require equal shapes.

// typeRule decides the element type an operation produces from its
// operand types, or rejects the pairing.
type typeRule func(a, b Type) (Type, bool)

func numOnly(a, b Type) (Type, bool) {
	if a == Num && b == Num {
		return Num, true
	}
	return 0, false
}

func addRule(a, b Type) (Type, bool) {
	switch {
	case a == Num && b == Num:
		return Num, true
	case a == Char && b == Num, a == Num && b == Char:
		return Char, true
	}
	return 0, false
}

func subRule(a, b Type) (Type, bool) {
	switch {
	case a == Num && b == Num:
		return Num, true
	case a == Char && b == Num:
		return Char, true
	case a == Char && b == Char:
		return Num, true
	}
	return 0, false
}

func minMaxRule(a, b Type) (Type, bool) {
	switch {
	case a == Num && b == Num:
		return Num, true
	case a == Char && b == Char:
		return Char, true
	}
	return 0, false
}

func cmpRule(a, b Type) (Type, bool) {
	if a == b && a != Fn {
		return Num, true
	}
	return 0, false
}

// Add is pervasive addition. Adding a number to a character shifts its
// code point.
func Add(a, b Value) (Value, error) { return pervade2("add", a, b, addRule, fadd) }

// Sub is pervasive subtraction. Character minus number shifts the code
// point; character minus character is their code point distance.
func Sub(a, b Value) (Value, error) { return pervade2("subtract", a, b, subRule, fsub) }

// Mul is pervasive multiplication.
func Mul(a, b Value) (Value, error) { return pervade2("multiply", a, b, numOnly, fmul) }

// Div is pervasive division.
func Div(a, b Value) (Value, error) { return pervade2("divide", a, b, numOnly, fdiv) }

// Mod is pervasive floored modulus: the result takes the sign of the
// divisor.
func Mod(a, b Value) (Value, error) { return pervade2("mod", a, b, numOnly, fmod) }

// Pow is pervasive exponentiation.
func Pow(a, b Value) (Value, error) { return pervade2("power", a, b, numOnly, math.Pow) }

// Min is the pervasive minimum.
func Min(a, b Value) (Value, error) { return pervade2("minimum", a, b, minMaxRule, math.Min) }

// Max is the pervasive maximum.
func Max(a, b Value) (Value, error) { return pervade2("maximum", a, b, minMaxRule, math.Max) }

// Less is the pervasive < comparison, yielding 0 or 1.
func Less(a, b Value) (Value, error) { return pervade2("less", a, b, cmpRule, fless) }

// LessEq is the pervasive <= comparison.
func LessEq(a, b Value) (Value, error) { return pervade2("lesseq", a, b, cmpRule, flesseq) }

// Greater is the pervasive > comparison.
func Greater(a, b Value) (Value, error) { return pervade2("greater", a, b, cmpRule, fgreater) }

// GreaterEq is the pervasive >= comparison.
func GreaterEq(a, b Value) (Value, error) { return pervade2("greatereq", a, b, cmpRule, fgreatereq) }

func fadd(a, b float64) float64 { return a + b }
func fsub(a, b float64) float64 { return a - b }
func fmul(a, b float64) float64 { return a * b }
func fdiv(a, b float64) float64 { return a / b }

func fmod(a, b float64) float64 {
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

func fless(a, b float64) float64      { return bool01(a < b) }
func flesseq(a, b float64) float64    { return bool01(a <= b) }
func fgreater(a, b float64) float64   { return bool01(a > b) }
func fgreatereq(a, b float64) float64 { return bool01(a >= b) }

func bool01(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Equals is pervasive equality. Unlike the ordered comparisons it
// accepts mismatched element types, which simply compare unequal.
func Equals(a, b Value) (Value, error) { return equality("equals", a, b, 1, 0) }

// NotEquals is pervasive inequality.
func NotEquals(a, b Value) (Value, error) { return equality("notequals", a, b, 0, 1) }

func equality(op string, a, b Value, same, diff float64) (Value, error) {
	big, small, repeat, aBig, err := broadcast(op, a, b)
	if err != nil {
		return Value{}, err
	}
	out := make([]float64, big.Count())
	for i := range out {
		x, y := big.elemAt(i), small.elemAt(i/repeat)
		if !aBig {
			x, y = y, x
		}
		if x == y && a.typ == b.typ {
			out[i] = same
		} else {
			out[i] = diff
		}
	}
	if a.typ == Fn || b.typ == Fn {
		if a.typ != b.typ {
			for i := range out {
				out[i] = diff
			}
		} else {
			for i := range out {
				x, y := big.fns[i], small.fns[i/repeat]
				if x.SameAs(y) {
					out[i] = same
				} else {
					out[i] = diff
				}
			}
		}
	}
	return Value{typ: Num, shape: big.Shape(), nums: out}, nil
}

func pervade2(op string, a, b Value, rule typeRule, f func(a, b float64) float64) (Value, error) {
	resType, ok := rule(a.typ, b.typ)
	if !ok {
		return Value{}, dyadicError(op, a, b)
	}
	big, small, repeat, aBig, err := broadcast(op, a, b)
	if err != nil {
		return Value{}, err
	}

	n := big.Count()
	nums := make([]float64, n)
	for i := 0; i < n; i++ {
		x, y := big.elemAt(i), small.elemAt(i/repeat)
		if !aBig {
			x, y = y, x
		}
		nums[i] = f(x, y)
	}

	if resType == Char {
		chars := make([]rune, n)
		for i, v := range nums {
			chars[i] = rune(v)
		}
		return Value{typ: Char, shape: big.Shape(), chars: chars}, nil
	}
	return Value{typ: Num, shape: big.Shape(), nums: nums}, nil
}

// broadcast validates prefix agreement and orients the operands. The
// returned repeat count maps a flat index in big to its element in
// small.
func broadcast(op string, a, b Value) (big, small Value, repeat int, aBig bool, err error) {
	big, small, aBig = a, b, true
	if b.Rank() > a.Rank() {
		big, small, aBig = b, a, false
	}
	for i, d := range small.shape {
		if big.shape[i] != d {
			return Value{}, Value{}, 0, false, dyadicError(op, a, b)
		}
	}
	repeat = 1
	for _, d := range big.shape[small.Rank():] {
		repeat *= d
	}
	return big, small, repeat, aBig, nil
}

// elemAt returns the i-th element as a float64, using code points for
// characters. Callers have already excluded function elements.
func (v Value) elemAt(i int) float64 {
	if v.typ == Char {
		return float64(v.chars[i])
	}
	if v.typ == Fn {
		return math.NaN()
	}
	return v.nums[i]
}

// Monadic math pervades over every element.

// Neg is pervasive negation.
func Neg(v Value) (Value, error) { return pervade1("negate", v, func(x float64) float64 { return -x }) }

// Abs is the pervasive absolute value.
func Abs(v Value) (Value, error) { return pervade1("absolute", v, math.Abs) }

// Sqrt is the pervasive square root.
func Sqrt(v Value) (Value, error) { return pervade1("sqrt", v, math.Sqrt) }

// Sign is the pervasive sign: ¯1, 0, or 1.
func Sign(v Value) (Value, error) {
	return pervade1("sign", v, func(x float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		}
		return 0
	})
}

// Floor is the pervasive floor.
func Floor(v Value) (Value, error) { return pervade1("floor", v, math.Floor) }

// Ceil is the pervasive ceiling.
func Ceil(v Value) (Value, error) { return pervade1("ceiling", v, math.Ceil) }

// Round is the pervasive round-half-away-from-zero.
func Round(v Value) (Value, error) { return pervade1("round", v, math.Round) }

func pervade1(op string, v Value, f func(float64) float64) (Value, error) {
	if v.typ != Num {
		return Value{}, monadicError(op, v)
	}
	out := make([]float64, len(v.nums))
	for i, x := range v.nums {
		out[i] = f(x)
	}
	return Value{typ: Num, shape: v.Shape(), nums: out}, nil
}
