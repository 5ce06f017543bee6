// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package prim defines the ua primitive table: canonical names, ASCII
// surface forms, glyphs, argument counts, and prefix disambiguation.
package prim

import "strings"

// Primitive identifies a built-in function, modifier, or constant.
type Primitive int

const (
	Invalid Primitive = iota

	// Stack operations
	Dup  // .
	Flip // ~
	Pop  // ;
	Call // :

	// Pervasive dyadic math
	Add      // +
	Subtract // -
	Multiply // ×
	Divide   // ÷
	Mod      // ◿
	Power    // ⁿ
	Minimum  // ↧
	Maximum  // ↥

	// Pervasive monadic math
	Negate  // ¯
	Abs     // ⌵
	Sqrt    // √
	Sign    // ±
	Floor   // ⌊
	Ceiling // ⌈
	Round   // ⁅

	// Pervasive comparison
	Equals    // =
	NotEquals // ≠
	Less      // <
	LessEq    // ≤
	Greater   // >
	GreaterEq // ≥

	// Structure
	Couple    // ⊟
	Join      // ⊂
	Shape     // △
	Length    // ≢
	Rank      // ∴
	First     // ⊢
	Reverse   // ⇌
	Pick      // ⊡
	Windows   // ◫
	Partition // ⊜

	// Modifiers
	Reduce // /
	Scan   // \
	Each   // ∵
	Rows   // ≡
	Repeat // ⍥

	// Dfn recursion
	Recur // ↬

	// Constants
	Pi       // π
	Infinity // ∞

	// Named operations (no glyph)
	Use
	Import
	Print
	Rand
	Assert
	FWriteAll
)

// Class groups primitives by dispatch behavior.
type Class int

const (
	ClassStack Class = iota
	ClassMathDyadic
	ClassMathMonadic
	ClassComparison
	ClassStructure
	ClassModifier
	ClassConstant
	ClassSys
)

type info struct {
	name  string
	ascii string // multi-rune ASCII surface form, if any
	glyph rune   // 0 if the primitive has no glyph
	args  int
	outs  int
	class Class
}

var table = map[Primitive]info{
	Dup:  {"dup", "", '.', 1, 2, ClassStack},
	Flip: {"flip", "", '~', 2, 2, ClassStack},
	Pop:  {"pop", "", ';', 1, 0, ClassStack},
	Call: {"call", "", ':', 1, 1, ClassStack},

	Add:      {"add", "", '+', 2, 1, ClassMathDyadic},
	Subtract: {"subtract", "", '-', 2, 1, ClassMathDyadic},
	Multiply: {"multiply", "*", '×', 2, 1, ClassMathDyadic},
	Divide:   {"divide", "%", '÷', 2, 1, ClassMathDyadic},
	Mod:      {"mod", "", '◿', 2, 1, ClassMathDyadic},
	Power:    {"power", "", 'ⁿ', 2, 1, ClassMathDyadic},
	Minimum:  {"minimum", "", '↧', 2, 1, ClassMathDyadic},
	Maximum:  {"maximum", "", '↥', 2, 1, ClassMathDyadic},

	Negate:  {"negate", "", '¯', 1, 1, ClassMathMonadic},
	Abs:     {"abs", "", '⌵', 1, 1, ClassMathMonadic},
	Sqrt:    {"sqrt", "", '√', 1, 1, ClassMathMonadic},
	Sign:    {"sign", "", '±', 1, 1, ClassMathMonadic},
	Floor:   {"floor", "", '⌊', 1, 1, ClassMathMonadic},
	Ceiling: {"ceiling", "", '⌈', 1, 1, ClassMathMonadic},
	Round:   {"round", "", '⁅', 1, 1, ClassMathMonadic},

	Equals:    {"equals", "", '=', 2, 1, ClassComparison},
	NotEquals: {"notequals", "!=", '≠', 2, 1, ClassComparison},
	Less:      {"less", "", '<', 2, 1, ClassComparison},
	LessEq:    {"lesseq", "<=", '≤', 2, 1, ClassComparison},
	Greater:   {"greater", "", '>', 2, 1, ClassComparison},
	GreaterEq: {"greatereq", ">=", '≥', 2, 1, ClassComparison},

	Couple:    {"couple", "", '⊟', 2, 1, ClassStructure},
	Join:      {"join", "", '⊂', 2, 1, ClassStructure},
	Shape:     {"shape", "", '△', 1, 1, ClassStructure},
	Length:    {"length", "", '≢', 1, 1, ClassStructure},
	Rank:      {"rank", "", '∴', 1, 1, ClassStructure},
	First:     {"first", "", '⊢', 1, 1, ClassStructure},
	Reverse:   {"reverse", "", '⇌', 1, 1, ClassStructure},
	Pick:      {"pick", "", '⊡', 2, 1, ClassStructure},
	Windows:   {"windows", "", '◫', 2, 1, ClassStructure},
	Partition: {"partition", "", '⊜', 2, 1, ClassStructure},

	Reduce: {"reduce", "", '/', 1, 1, ClassModifier},
	Scan:   {"scan", "", '\\', 1, 1, ClassModifier},
	Each:   {"each", "", '∵', 1, 1, ClassModifier},
	Rows:   {"rows", "", '≡', 1, 1, ClassModifier},
	Repeat: {"repeat", "", '⍥', 1, 0, ClassModifier},

	Recur: {"recur", "", '↬', 0, 0, ClassSys},

	Pi:       {"pi", "", 'π', 0, 1, ClassConstant},
	Infinity: {"infinity", "", '∞', 0, 1, ClassConstant},

	Use:       {"use", "", 0, 2, 1, ClassSys},
	Import:    {"import", "", 0, 1, 0, ClassSys},
	Print:     {"print", "", 0, 1, 0, ClassSys},
	Rand:      {"rand", "", 0, 0, 1, ClassSys},
	Assert:    {"assert", "", 0, 1, 0, ClassSys},
	FWriteAll: {"FWriteAll", "", 0, 2, 0, ClassSys},
}

var (
	byGlyph = map[rune]Primitive{}
	byName  = map[string]Primitive{} // keyed by lower-cased canonical name
	all     []Primitive
)

func init() {
	for p, inf := range table {
		if inf.glyph != 0 {
			byGlyph[inf.glyph] = p
		}
		byName[strings.ToLower(inf.name)] = p
	}
	for p := Dup; p <= FWriteAll; p++ {
		if _, ok := table[p]; ok {
			all = append(all, p)
		}
	}
}

// All returns every primitive in declaration order.
func All() []Primitive {
	out := make([]Primitive, len(all))
	copy(out, all)
	return out
}

// Name returns the canonical name.
func (p Primitive) Name() string { return table[p].name }

// Ascii returns the multi-rune ASCII surface form, or "".
func (p Primitive) Ascii() string { return table[p].ascii }

// Glyph returns the glyph rune, or 0 if the primitive is name-only.
func (p Primitive) Glyph() rune { return table[p].glyph }

// Args returns how many values the primitive pops.
func (p Primitive) Args() int { return table[p].args }

// Outputs returns how many values the primitive pushes.
func (p Primitive) Outputs() int { return table[p].outs }

// Class returns the primitive's dispatch class.
func (p Primitive) Class() Class { return table[p].class }

// IsModifier reports whether the primitive takes a function operand.
func (p Primitive) IsModifier() bool { return table[p].class == ClassModifier }

// String returns the glyph if the primitive has one, else the name.
func (p Primitive) String() string {
	inf, ok := table[p]
	if !ok {
		return "invalid"
	}
	if inf.glyph != 0 {
		return string(inf.glyph)
	}
	return inf.name
}

// FromGlyph returns the primitive for a glyph rune.
func FromGlyph(r rune) (Primitive, bool) {
	p, ok := byGlyph[r]
	return p, ok
}

// IsGlyph reports whether the rune is a primitive glyph.
func IsGlyph(r rune) bool {
	_, ok := byGlyph[r]
	return ok
}

// ByName returns the primitive whose canonical name matches exactly
// (case-insensitively).
func ByName(name string) (Primitive, bool) {
	p, ok := byName[strings.ToLower(name)]
	return p, ok
}
