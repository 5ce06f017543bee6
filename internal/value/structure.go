// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package value

// Fill values reconcile jagged structure: 0 for numbers, space for
// characters, the empty identity function for functions.

func fillNum() float64 { return 0 }
func fillChar() rune   { return ' ' }
func fillFn() Function { return Identity() }

// promote prepends length-1 axes until the value has the given rank.
func (v Value) promote(rank int) Value {
	if v.Rank() >= rank {
		return v
	}
	shape := make([]int, rank)
	for i := range shape {
		shape[i] = 1
	}
	copy(shape[rank-v.Rank():], v.shape)
	out := v
	out.shape = shape
	return out
}

// padTo grows each axis of v to the target shape, filling new slots.
// The target must have the same rank as v and be at least as large on
// every axis.
func padTo(v Value, target []int) Value {
	same := true
	for i, d := range target {
		if v.shape[i] != d {
			same = false
			break
		}
	}
	if same {
		return v
	}
	out := newEmpty(v.typ, target)
	copyInto(out, v, 0, 0)
	return out
}

func newEmpty(t Type, shape []int) Value {
	n := 1
	for _, d := range shape {
		n *= d
	}
	sh := append([]int{}, shape...)
	switch t {
	case Num:
		nums := make([]float64, n)
		for i := range nums {
			nums[i] = fillNum()
		}
		return Value{typ: Num, shape: sh, nums: nums}
	case Char:
		chars := make([]rune, n)
		for i := range chars {
			chars[i] = fillChar()
		}
		return Value{typ: Char, shape: sh, chars: chars}
	default:
		fns := make([]Function, n)
		for i := range fns {
			fns[i] = fillFn()
		}
		return Value{typ: Fn, shape: sh, fns: fns}
	}
}

// copyInto writes v's elements into dst at the origin of each axis.
// dst and v have the same rank; dst's axes are at least as large.
func copyInto(dst, v Value, dstOff, srcOff int) {
	if len(v.shape) == 0 {
		copyElems(dst, v, dstOff, srcOff, 1)
		return
	}
	if len(v.shape) == 1 {
		copyElems(dst, v, dstOff, srcOff, v.shape[0])
		return
	}
	dstCell := 1
	for _, d := range dst.shape[len(dst.shape)-len(v.shape)+1:] {
		dstCell *= d
	}
	srcCell := 1
	for _, d := range v.shape[1:] {
		srcCell *= d
	}
	sub := v
	sub.shape = v.shape[1:]
	for i := 0; i < v.shape[0]; i++ {
		copyInto(dst, sub, dstOff+i*dstCell, srcOff+i*srcCell)
	}
}

func copyElems(dst, v Value, dstOff, srcOff, n int) {
	switch v.typ {
	case Num:
		copy(dst.nums[dstOff:dstOff+n], v.nums[srcOff:srcOff+n])
	case Char:
		copy(dst.chars[dstOff:dstOff+n], v.chars[srcOff:srcOff+n])
	default:
		copy(dst.fns[dstOff:dstOff+n], v.fns[srcOff:srcOff+n])
	}
}

// FromCells stacks values along a new leading axis. Ranks are unified
// by prepending length-1 axes, then every axis grows to the largest
// cell's size with fill elements. No cells make an empty numeric list.
func FromCells(op string, cells []Value) (Value, error) {
	if len(cells) == 0 {
		return NewNums(nil, 0), nil
	}
	t := cells[0].typ
	rank := 0
	for _, c := range cells {
		if c.typ != t {
			return Value{}, dyadicError(op, cells[0], c)
		}
		if c.Rank() > rank {
			rank = c.Rank()
		}
	}

	target := make([]int, rank)
	promoted := make([]Value, len(cells))
	for i, c := range cells {
		promoted[i] = c.promote(rank)
		for ax, d := range promoted[i].shape {
			if d > target[ax] {
				target[ax] = d
			}
		}
	}

	shape := append([]int{len(cells)}, target...)
	out := newEmpty(t, shape)
	for i, c := range promoted {
		copyInto(out.Cell(i), padTo(c, target), 0, 0)
	}
	return out, nil
}

// Couple stacks two values into an array with a leading axis of 2; a
// becomes row 0.
func Couple(a, b Value) (Value, error) {
	return FromCells("couple", []Value{a, b})
}

// Join concatenates along the leading axis. Operand ranks may differ
// by at most one; the lower-rank operand contributes a single cell.
// a's cells come first.
func Join(a, b Value) (Value, error) {
	ra, rb := a.Rank(), b.Rank()
	diff := ra - rb
	if diff < -1 || diff > 1 {
		return Value{}, dyadicError("join", a, b)
	}
	rank := ra
	if rb > rank {
		rank = rb
	}
	if rank == 0 {
		rank = 1
	}

	var cells []Value
	appendCells := func(v Value) {
		if v.Rank() == rank {
			cells = append(cells, v.Cells()...)
		} else {
			cells = append(cells, v)
		}
	}
	appendCells(a)
	appendCells(b)
	return FromCells("join", cells)
}

// First returns the first major cell.
func First(v Value) (Value, error) {
	if v.IsScalar() {
		return v, nil
	}
	if v.shape[0] == 0 {
		return Value{}, &TypeError{Op: "first", Expected: "a non-empty array", Got: v.typ, Shape: v.Shape()}
	}
	return v.Cell(0).clone(), nil
}

// Reverse reverses the major cells. Scalars pass through.
func Reverse(v Value) (Value, error) {
	if v.Rank() == 0 {
		return v, nil
	}
	cells := v.Cells()
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return FromCells("reverse", cells)
}

// Pick indexes major cells by an integer index array: a scalar index
// picks one cell, an index list picks a cell per index (stacked).
// Negative indices count from the end.
func Pick(idx, from Value) (Value, error) {
	if from.IsScalar() {
		return Value{}, &TypeError{Op: "pick", Expected: "an array to pick from", Got: from.typ}
	}
	if idx.typ != Num {
		return Value{}, &TypeError{Op: "pick", Expected: "numeric indices", Got: idx.typ, Shape: idx.Shape()}
	}
	pickOne := func(i int) (Value, error) {
		n := from.shape[0]
		if i < 0 {
			i += n
		}
		if i < 0 || i >= n {
			return Value{}, &TypeError{Op: "pick", Expected: "an index in bounds", Got: Num, Shape: from.Shape()}
		}
		return from.Cell(i).clone(), nil
	}

	if idx.IsScalar() {
		i, err := idx.AsInt("pick")
		if err != nil {
			return Value{}, err
		}
		return pickOne(i)
	}

	cells := make([]Value, 0, idx.Count())
	for _, f := range idx.nums {
		iv := NewNum(f)
		i, err := iv.AsInt("pick")
		if err != nil {
			return Value{}, err
		}
		c, err := pickOne(i)
		if err != nil {
			return Value{}, err
		}
		cells = append(cells, c)
	}
	picked, err := FromCells("pick", cells)
	if err != nil {
		return Value{}, err
	}
	if idx.Rank() > 1 {
		shape := append(idx.Shape(), picked.shape[1:]...)
		picked.shape = shape
	}
	return picked, nil
}

// Windows yields the overlapping windows of the given size along the
// leading axis.
func Windows(size, from Value) (Value, error) {
	n, err := size.AsInt("windows")
	if err != nil {
		return Value{}, err
	}
	if from.Rank() == 0 {
		return Value{}, &TypeError{Op: "windows", Expected: "an array", Got: from.typ}
	}
	if n <= 0 || n > from.shape[0] {
		return Value{}, &TypeError{Op: "windows", Expected: "a window size within the array", Got: Num, Shape: from.Shape()}
	}
	count := from.shape[0] - n + 1
	cells := make([]Value, count)
	for i := 0; i < count; i++ {
		group := make([]Value, n)
		for j := 0; j < n; j++ {
			group[j] = from.Cell(i + j)
		}
		w, err := FromCells("windows", group)
		if err != nil {
			return Value{}, err
		}
		cells[i] = w
	}
	return FromCells("windows", cells)
}

// Partition groups consecutive cells with equal nonzero markers into
// rows, dropping cells marked 0. Shorter groups pad with fills.
func Partition(markers, from Value) (Value, error) {
	if markers.typ != Num || markers.Rank() != 1 {
		return Value{}, &TypeError{Op: "partition", Expected: "a marker list", Got: markers.typ, Shape: markers.Shape()}
	}
	if from.Rank() == 0 || from.shape[0] != markers.shape[0] {
		return Value{}, dyadicError("partition", markers, from)
	}

	var groups []Value
	var current []Value
	last := 0.0
	flush := func() error {
		if len(current) == 0 {
			return nil
		}
		g, err := FromCells("partition", current)
		if err != nil {
			return err
		}
		groups = append(groups, g)
		current = nil
		return nil
	}
	for i, m := range markers.nums {
		if m == 0 {
			if err := flush(); err != nil {
				return Value{}, err
			}
			last = 0
			continue
		}
		if m != last {
			if err := flush(); err != nil {
				return Value{}, err
			}
		}
		current = append(current, from.Cell(i))
		last = m
	}
	if err := flush(); err != nil {
		return Value{}, err
	}
	return FromCells("partition", groups)
}

// ShapeOf returns the shape as a numeric list.
func ShapeOf(v Value) Value {
	nums := make([]float64, v.Rank())
	for i, d := range v.shape {
		nums[i] = float64(d)
	}
	return NewNums(nums, len(nums))
}

// LengthOf returns the leading axis size (1 for scalars).
func LengthOf(v Value) Value { return NewNum(float64(v.Length())) }

// RankOf returns the number of axes.
func RankOf(v Value) Value { return NewNum(float64(v.Rank())) }

// clone copies the value so cells sliced out of a parent do not alias
// its storage.
func (v Value) clone() Value {
	out := v
	out.shape = append([]int{}, v.shape...)
	switch v.typ {
	case Num:
		out.nums = append([]float64{}, v.nums...)
	case Char:
		out.chars = append([]rune{}, v.chars...)
	default:
		out.fns = append([]Function{}, v.fns...)
	}
	return out
}
