// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"fmt"

	"nickandperla.net/ua/internal/prim"
	"nickandperla.net/ua/internal/value"
	"nickandperla.net/ua/internal/word"
)

// applyModifier binds the modifier's function operand and transfers
// control inside the modifier's own iteration semantics.
func (e *Evaluator) applyModifier(mod prim.Primitive, operand word.Word) error {
	f, err := e.operandFunction(operand)
	if err != nil {
		return err
	}
	switch mod {
	case prim.Reduce:
		return e.reduce(f)
	case prim.Scan:
		return e.scan(f)
	case prim.Each:
		return e.each(f)
	case prim.Rows:
		return e.rows(f)
	case prim.Repeat:
		return e.repeat(f)
	}
	return fmt.Errorf("unimplemented modifier %s", mod.Name())
}

// operandFunction turns the word following a modifier into a callable
// function without evaluating it.
func (e *Evaluator) operandFunction(w word.Word) (value.Function, error) {
	switch w := w.(type) {
	case word.Prim:
		return value.PrimFunction(w.P), nil
	case word.Group:
		return value.Function{Words: w.Words, Frame: e.ownerID()}, nil
	case word.Dfn:
		return value.Function{Words: w.Words, IsDfn: true, Arity: DfnArity(w.Words)}, nil
	case word.Name:
		v, err := e.lookupValue(w.Value)
		if err != nil {
			return value.Function{}, err
		}
		if fn, ok := v.AsFunction(); ok {
			return fn, nil
		}
		return value.Function{}, &value.TypeError{Op: "modifier", Expected: "a function operand", Got: v.Type(), Shape: v.Shape()}
	}
	// Anything else, such as a nested modifier, evaluates as a
	// one-word body.
	return value.Function{Words: []word.Word{w}, Frame: e.ownerID()}, nil
}

// fnArgs infers how many values a function pops: declared arity for
// primitives and dfns, a right-to-left stack-effect simulation for
// group bodies.
func (e *Evaluator) fnArgs(f value.Function) int {
	if f.Prim != prim.Invalid {
		return f.Prim.Args()
	}
	if f.IsDfn {
		return f.Arity
	}
	need, _ := e.simulate(f.Words)
	return need
}

// simulate walks words right to left tracking stack effect. Names that
// do not resolve to primitives count as pushing one value.
func (e *Evaluator) simulate(words []word.Word) (need, have int) {
	consume := func(args, outs int) {
		if have < args {
			need += args - have
			have = 0
		} else {
			have -= args
		}
		have += outs
	}
	for i := len(words) - 1; i >= 0; i-- {
		switch w := words[i].(type) {
		case word.Number, word.Char, word.String, word.Strand, word.Array, word.Group:
			have++
		case word.Prim:
			consume(w.P.Args(), w.P.Outputs())
		case word.Dfn:
			consume(DfnArity(w.Words), 1)
		case word.Name:
			if v, err := e.lookupValue(w.Value); err == nil {
				if fn, ok := v.AsFunction(); ok {
					consume(e.fnArgs(fn), 1)
					continue
				}
			}
			have++
		case word.Modified:
			inner := 1
			if f, err := e.operandFunction(w.Operand); err == nil {
				inner = e.fnArgs(f)
			}
			switch w.Mod {
			case prim.Reduce, prim.Scan:
				consume(1, 1)
			case prim.Each, prim.Rows:
				consume(inner, 1)
			case prim.Repeat:
				consume(1, 0)
			}
		}
	}
	return need, have
}

// reduce folds the function through the major cells starting from the
// last, so `/- [1 2 3 4 5]` is 1-(2-(3-(4-5))).
func (e *Evaluator) reduce(f value.Function) error {
	v, err := e.pop("reduce")
	if err != nil {
		return err
	}
	rows := v.Cells()
	if len(rows) == 0 {
		return &value.TypeError{Op: "reduce", Expected: "a non-empty array", Got: v.Type(), Shape: v.Shape()}
	}
	acc := rows[len(rows)-1]
	for i := len(rows) - 2; i >= 0; i-- {
		e.push(rows[i])
		e.push(acc)
		if err := e.callFunction(f); err != nil {
			return err
		}
		acc, err = e.pop("reduce")
		if err != nil {
			return err
		}
	}
	e.push(acc)
	return nil
}

// scan folds forward from the first cell, keeping every intermediate.
func (e *Evaluator) scan(f value.Function) error {
	v, err := e.pop("scan")
	if err != nil {
		return err
	}
	if v.Length() == 0 {
		e.push(v)
		return nil
	}
	rows := v.Cells()
	acc := rows[0]
	out := make([]value.Value, 1, len(rows))
	out[0] = acc
	for _, row := range rows[1:] {
		e.push(row)
		e.push(acc)
		if err := e.callFunction(f); err != nil {
			return err
		}
		acc, err = e.pop("scan")
		if err != nil {
			return err
		}
		out = append(out, acc)
	}
	return e.pushResult(value.FromCells("scan", out))
}

// each applies the function to every element, or zips the elements of
// two arrays when the function is dyadic.
func (e *Evaluator) each(f value.Function) error {
	switch n := e.fnArgs(f); n {
	case 1:
		v, err := e.pop("each")
		if err != nil {
			return err
		}
		out := make([]value.Value, v.Count())
		for i := range out {
			e.push(v.Element(i))
			if err := e.callFunction(f); err != nil {
				return err
			}
			if out[i], err = e.pop("each"); err != nil {
				return err
			}
		}
		if v.IsScalar() {
			e.push(out[0])
			return nil
		}
		res, err := value.FromCells("each", out)
		if err != nil {
			return err
		}
		e.push(res.Reshape(append(v.Shape(), res.Shape()[1:]...)))
		return nil
	case 2:
		x, y, err := e.pop2("each")
		if err != nil {
			return err
		}
		return e.zipElements(f, x, y)
	default:
		return &value.TypeError{Op: "each", Expected: "a function of 1 or 2 arguments", Got: value.Fn}
	}
}

func (e *Evaluator) zipElements(f value.Function, x, y value.Value) error {
	shaped := x
	if x.IsScalar() {
		shaped = y
	}
	if !x.IsScalar() && !y.IsScalar() && !sameShape(x.Shape(), y.Shape()) {
		return &value.TypeError{Op: "each", Dyadic: true,
			Got: x.Type(), Shape: x.Shape(), Other: y.Type(), OtherShape: y.Shape()}
	}
	n := shaped.Count()
	out := make([]value.Value, n)
	for i := 0; i < n; i++ {
		e.push(elementOrScalar(y, i))
		e.push(elementOrScalar(x, i))
		if err := e.callFunction(f); err != nil {
			return err
		}
		var err error
		if out[i], err = e.pop("each"); err != nil {
			return err
		}
	}
	if shaped.IsScalar() {
		e.push(out[0])
		return nil
	}
	res, err := value.FromCells("each", out)
	if err != nil {
		return err
	}
	e.push(res.Reshape(append(shaped.Shape(), res.Shape()[1:]...)))
	return nil
}

func elementOrScalar(v value.Value, i int) value.Value {
	if v.IsScalar() {
		return v
	}
	return v.Element(i)
}

// rows applies the function to every major cell, or zips the cells of
// two arrays when the function is dyadic.
func (e *Evaluator) rows(f value.Function) error {
	switch n := e.fnArgs(f); n {
	case 1:
		v, err := e.pop("rows")
		if err != nil {
			return err
		}
		cells := v.Cells()
		out := make([]value.Value, len(cells))
		for i, c := range cells {
			e.push(c)
			if err := e.callFunction(f); err != nil {
				return err
			}
			if out[i], err = e.pop("rows"); err != nil {
				return err
			}
		}
		if v.IsScalar() {
			e.push(out[0])
			return nil
		}
		return e.pushResult(value.FromCells("rows", out))
	case 2:
		x, y, err := e.pop2("rows")
		if err != nil {
			return err
		}
		xs, ys := x.Cells(), y.Cells()
		count := len(xs)
		if x.IsScalar() || (len(ys) > count && !y.IsScalar()) {
			count = len(ys)
		}
		if !x.IsScalar() && !y.IsScalar() && len(xs) != len(ys) {
			return &value.TypeError{Op: "rows", Dyadic: true,
				Got: x.Type(), Shape: x.Shape(), Other: y.Type(), OtherShape: y.Shape()}
		}
		out := make([]value.Value, count)
		for i := 0; i < count; i++ {
			e.push(cellOrScalar(y, ys, i))
			e.push(cellOrScalar(x, xs, i))
			if err := e.callFunction(f); err != nil {
				return err
			}
			if out[i], err = e.pop("rows"); err != nil {
				return err
			}
		}
		return e.pushResult(value.FromCells("rows", out))
	default:
		return &value.TypeError{Op: "rows", Expected: "a function of 1 or 2 arguments", Got: value.Fn}
	}
}

func cellOrScalar(v value.Value, cells []value.Value, i int) value.Value {
	if v.IsScalar() {
		return v
	}
	return cells[i]
}

// repeat pops a count and applies the function that many times.
func (e *Evaluator) repeat(f value.Function) error {
	countV, err := e.pop("repeat")
	if err != nil {
		return err
	}
	n, err := countV.AsInt("repeat")
	if err != nil {
		return err
	}
	if n < 0 {
		return &value.TypeError{Op: "repeat", Expected: "a non-negative count", Got: value.Num}
	}
	for i := 0; i < n; i++ {
		if err := e.callFunction(f); err != nil {
			return err
		}
	}
	return nil
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i, d := range a {
		if b[i] != d {
			return false
		}
	}
	return true
}
