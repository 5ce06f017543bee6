// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"nickandperla.net/ua/internal/prim"
	"nickandperla.net/ua/internal/value"
)

const piValue = math.Pi

var infValue = math.Inf(1)

// applyPrim executes one primitive against the stack. Dyadic math
// follows the backwards convention: the second value popped is the
// left operand, so `- 2 5` is 5 minus 2.
func (e *Evaluator) applyPrim(p prim.Primitive) error {
	op := p.Name()
	switch p {
	case prim.Dup:
		v, err := e.pop(op)
		if err != nil {
			return err
		}
		e.push(v)
		e.push(v)
		return nil
	case prim.Flip:
		x, y, err := e.pop2(op)
		if err != nil {
			return err
		}
		e.push(x)
		e.push(y)
		return nil
	case prim.Pop:
		_, err := e.pop(op)
		return err
	case prim.Call:
		v, err := e.pop(op)
		if err != nil {
			return err
		}
		if fn, ok := v.AsFunction(); ok {
			return e.callFunction(fn)
		}
		e.push(v)
		return nil

	case prim.Add:
		return e.dyad(op, value.Add)
	case prim.Subtract:
		return e.dyad(op, value.Sub)
	case prim.Multiply:
		return e.dyad(op, value.Mul)
	case prim.Divide:
		return e.dyad(op, value.Div)
	case prim.Mod:
		return e.dyad(op, value.Mod)
	case prim.Power:
		return e.dyad(op, value.Pow)
	case prim.Minimum:
		return e.dyad(op, value.Min)
	case prim.Maximum:
		return e.dyad(op, value.Max)

	case prim.Negate:
		return e.monad(op, value.Neg)
	case prim.Abs:
		return e.monad(op, value.Abs)
	case prim.Sqrt:
		return e.monad(op, value.Sqrt)
	case prim.Sign:
		return e.monad(op, value.Sign)
	case prim.Floor:
		return e.monad(op, value.Floor)
	case prim.Ceiling:
		return e.monad(op, value.Ceil)
	case prim.Round:
		return e.monad(op, value.Round)

	case prim.Equals:
		return e.dyad(op, value.Equals)
	case prim.NotEquals:
		return e.dyad(op, value.NotEquals)
	case prim.Less:
		return e.dyad(op, value.Less)
	case prim.LessEq:
		return e.dyad(op, value.LessEq)
	case prim.Greater:
		return e.dyad(op, value.Greater)
	case prim.GreaterEq:
		return e.dyad(op, value.GreaterEq)

	case prim.Couple:
		x, y, err := e.pop2(op)
		if err != nil {
			return err
		}
		return e.pushResult(value.Couple(x, y))
	case prim.Join:
		x, y, err := e.pop2(op)
		if err != nil {
			return err
		}
		return e.pushResult(value.Join(x, y))
	case prim.Shape:
		v, err := e.pop(op)
		if err != nil {
			return err
		}
		e.push(value.ShapeOf(v))
		return nil
	case prim.Length:
		v, err := e.pop(op)
		if err != nil {
			return err
		}
		e.push(value.LengthOf(v))
		return nil
	case prim.Rank:
		v, err := e.pop(op)
		if err != nil {
			return err
		}
		e.push(value.RankOf(v))
		return nil
	case prim.First:
		v, err := e.pop(op)
		if err != nil {
			return err
		}
		return e.pushResult(value.First(v))
	case prim.Reverse:
		v, err := e.pop(op)
		if err != nil {
			return err
		}
		return e.pushResult(value.Reverse(v))
	case prim.Pick:
		idx, from, err := e.pop2(op)
		if err != nil {
			return err
		}
		return e.pushResult(value.Pick(idx, from))
	case prim.Windows:
		size, from, err := e.pop2(op)
		if err != nil {
			return err
		}
		return e.pushResult(value.Windows(size, from))
	case prim.Partition:
		markers, from, err := e.pop2(op)
		if err != nil {
			return err
		}
		return e.pushResult(value.Partition(markers, from))

	case prim.Recur:
		if len(e.frames) == 0 {
			return fmt.Errorf("recur outside a dfn")
		}
		return e.callDfn(e.frames[len(e.frames)-1].fn)

	case prim.Pi:
		e.push(value.NewNum(piValue))
		return nil
	case prim.Infinity:
		e.push(value.NewNum(infValue))
		return nil

	case prim.Use:
		return e.primUse()
	case prim.Import:
		return e.primImport()
	case prim.Print:
		return e.primPrint()
	case prim.Rand:
		e.push(value.NewNum(e.rng.Float64()))
		return nil
	case prim.Assert:
		return e.primAssert()
	case prim.FWriteAll:
		return e.primFWriteAll()
	}
	return fmt.Errorf("unimplemented primitive %s", p.Name())
}

// pop2 pops the top two values. The first return is the value that was
// on top.
func (e *Evaluator) pop2(op string) (x, y value.Value, err error) {
	x, err = e.pop(op)
	if err != nil {
		return
	}
	y, err = e.pop(op)
	return
}

// dyad applies a two-argument value operation with the second-popped
// value as the left operand.
func (e *Evaluator) dyad(op string, f func(a, b value.Value) (value.Value, error)) error {
	x, y, err := e.pop2(op)
	if err != nil {
		return err
	}
	return e.pushResult(f(y, x))
}

func (e *Evaluator) monad(op string, f func(value.Value) (value.Value, error)) error {
	v, err := e.pop(op)
	if err != nil {
		return err
	}
	return e.pushResult(f(v))
}

func (e *Evaluator) pushResult(v value.Value, err error) error {
	if err != nil {
		return err
	}
	e.push(v)
	return nil
}

func (e *Evaluator) primPrint() error {
	v, err := e.pop("print")
	if err != nil {
		return err
	}
	if s, ok := v.AsString(); ok {
		fmt.Fprintln(e.out, s)
		return nil
	}
	fmt.Fprintln(e.out, v.Show())
	return nil
}

func (e *Evaluator) primAssert() error {
	v, err := e.pop("assert")
	if err != nil {
		return err
	}
	if v.Type() != value.Num || v.Count() == 0 {
		return &AssertError{Got: v}
	}
	for _, n := range v.Nums() {
		if n == 0 {
			return &AssertError{Got: v}
		}
	}
	return nil
}

func (e *Evaluator) primFWriteAll() error {
	pathV, err := e.pop("FWriteAll")
	if err != nil {
		return err
	}
	path, ok := pathV.AsString()
	if !ok {
		return &value.TypeError{Op: "FWriteAll", Expected: "a path string", Got: pathV.Type(), Shape: pathV.Shape()}
	}
	content, err := e.pop("FWriteAll")
	if err != nil {
		return err
	}
	text, ok := content.AsString()
	if !ok {
		return &value.TypeError{Op: "FWriteAll", Expected: "a character array", Got: content.Type(), Shape: content.Shape()}
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.dir, path)
	}
	return os.WriteFile(path, []byte(text), 0o644)
}
