// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package eval implements the ua stack machine: a single global value
// stack, right-to-left line evaluation, scopes, bindings, dfn call
// frames, and the import cache.
package eval

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/tliron/commonlog"

	"nickandperla.net/ua/internal/prim"
	"nickandperla.net/ua/internal/value"
	"nickandperla.net/ua/internal/word"
)

// Mode selects which lines of a file execute.
type Mode int

const (
	// ModeNormal runs everything outside test scopes.
	ModeNormal Mode = iota
	// ModeTest runs test scopes plus binding lines.
	ModeTest
	// ModeAll runs every line.
	ModeAll
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeTest:
		return "test"
	case ModeAll:
		return "all"
	}
	return "unknown"
}

// ParseMode maps a mode name to its Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "normal":
		return ModeNormal, nil
	case "test":
		return ModeTest, nil
	case "all":
		return ModeAll, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

const maxCallDepth = 8192

type binding struct {
	name string // original case, for classification and display
	val  value.Value
}

type frame struct {
	id   uint64
	fn   value.Function
	args []value.Value
}

type importEntry struct {
	values []value.Value
}

// Evaluator owns one interpreter session: the stack, the bindings, the
// dfn call frames, and the import cache. Evaluators are independent;
// nothing is shared between instances.
type Evaluator struct {
	stack       []value.Value
	bindings    map[string]*binding
	frames      []*frame
	letters     []*frame // letter-resolution context; nil means expired
	frameSeq    uint64
	imports     map[string]*importEntry
	importing   map[string]bool
	captureBase int

	mode Mode
	dir  string
	out  io.Writer
	rng  *rand.Rand
	log  commonlog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMode sets the run mode.
func WithMode(m Mode) Option {
	return func(e *Evaluator) { e.mode = m }
}

// WithOutput redirects print output.
func WithOutput(w io.Writer) Option {
	return func(e *Evaluator) { e.out = w }
}

// WithRandSeed makes rand deterministic.
func WithRandSeed(seed int64) Option {
	return func(e *Evaluator) { e.rng = rand.New(rand.NewSource(seed)) }
}

// WithDir sets the directory imports and file writes resolve against.
func WithDir(dir string) Option {
	return func(e *Evaluator) { e.dir = dir }
}

// WithLogger replaces the evaluator's logger.
func WithLogger(log commonlog.Logger) Option {
	return func(e *Evaluator) { e.log = log }
}

// New creates an Evaluator with an empty stack and import cache.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		bindings:  map[string]*binding{},
		imports:   map[string]*importEntry{},
		importing: map[string]bool{},
		mode:      ModeNormal,
		dir:       ".",
		out:       os.Stdout,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		log:       commonlog.GetLogger("ua.eval"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Stack returns a copy of the current stack, bottom first.
func (e *Evaluator) Stack() []value.Value {
	out := make([]value.Value, len(e.stack))
	copy(out, e.stack)
	return out
}

// TakeStack returns the stack contents and empties the stack.
func (e *Evaluator) TakeStack() []value.Value {
	out := e.stack
	e.stack = nil
	e.captureBase = 0
	return out
}

// Run parses and evaluates source. The stack persists across calls so
// a session can be driven line by line.
func (e *Evaluator) Run(source string) error {
	file, err := word.Parse(source)
	if err != nil {
		return err
	}
	return e.runFile(file)
}

// RunFile reads, parses, and evaluates the file at path.
func (e *Evaluator) RunFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return e.Run(string(src))
}

func (e *Evaluator) runFile(f *word.File) error {
	inScope, testScope := false, false
	var snapshot map[string]*binding
	entryDepth := 0

	closeScope := func() {
		e.bindings = snapshot
		e.captureBase = entryDepth
		inScope, testScope = false, false
		e.log.Debug("scope closed")
	}

	for _, line := range f.Lines {
		if line.Scope {
			wasIn := inScope
			if inScope {
				closeScope()
			}
			if line.Test || !wasIn {
				snapshot = e.snapshotBindings()
				entryDepth = len(e.stack)
				inScope, testScope = true, line.Test
				e.log.Debugf("scope opened (test=%v)", line.Test)
			}
			continue
		}
		if !e.lineEnabled(line, inScope && testScope) {
			continue
		}
		if err := e.runLine(line); err != nil {
			return fmt.Errorf("line %d: %w", line.Num, err)
		}
	}
	if inScope {
		closeScope()
	}
	return nil
}

// lineEnabled applies the run mode: test-scope lines run in test and
// all modes; everything else runs in normal and all modes, except that
// binding lines always run so tests can see the file's definitions.
func (e *Evaluator) lineEnabled(line word.Line, inTest bool) bool {
	if e.mode == ModeAll {
		return true
	}
	if inTest {
		return e.mode == ModeTest
	}
	return e.mode == ModeNormal || line.IsBind
}

func (e *Evaluator) snapshotBindings() map[string]*binding {
	snap := make(map[string]*binding, len(e.bindings))
	for k, v := range e.bindings {
		snap[k] = v
	}
	return snap
}

func (e *Evaluator) runLine(line word.Line) error {
	if line.IsBind {
		return e.bind(line.Binding, line.Words)
	}
	return e.evalWords(line.Words)
}

// bind creates a binding. A name starting with an uppercase letter or
// a non-alphanumeric rune defers its words as a function; a lowercase
// name evaluates them now and binds the top result. An empty right
// side captures leftover stack values oldest first.
func (e *Evaluator) bind(name string, words []word.Word) error {
	key := strings.ToLower(name)

	if len(words) == 0 {
		if e.captureBase >= len(e.stack) {
			return &StackUnderflowError{Op: "binding " + name}
		}
		v := e.stack[e.captureBase]
		e.stack = append(e.stack[:e.captureBase], e.stack[e.captureBase+1:]...)
		e.bindings[key] = &binding{name: name, val: v}
		return nil
	}

	if functionName(name) {
		fn := value.Function{Words: words, Name: name}
		e.bindings[key] = &binding{name: name, val: value.NewFn(fn)}
		return nil
	}

	depth := len(e.stack)
	if err := e.evalWords(words); err != nil {
		return err
	}
	if len(e.stack) <= depth {
		return &StackUnderflowError{Op: "binding " + name}
	}
	v := e.popUnchecked()
	e.bindings[key] = &binding{name: name, val: v}
	return nil
}

func functionName(name string) bool {
	r := []rune(name)[0]
	if unicode.IsUpper(r) {
		return true
	}
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func (e *Evaluator) evalWords(words []word.Word) error {
	for i := len(words) - 1; i >= 0; i-- {
		if err := e.evalWord(words[i]); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) evalWord(w word.Word) error {
	switch w := w.(type) {
	case word.Number:
		e.push(value.NewNum(w.Value))
	case word.Char:
		e.push(value.NewChar(w.Value))
	case word.String:
		e.push(value.NewString(w.Value))
	case word.Prim:
		return e.applyPrim(w.P)
	case word.Name:
		return e.evalName(w.Value)
	case word.Strand:
		return e.evalStrand(w)
	case word.Group:
		e.push(value.NewFn(value.Function{Words: w.Words, Frame: e.ownerID()}))
	case word.Dfn:
		fn := value.Function{Words: w.Words, IsDfn: true, Arity: DfnArity(w.Words)}
		return e.callDfn(fn)
	case word.Array:
		return e.evalArray(w)
	case word.Modified:
		return e.applyModifier(w.Mod, w.Operand)
	default:
		return fmt.Errorf("cannot evaluate %s", w.String())
	}
	return nil
}

// evalArray is stack notation: the enclosed words evaluate against the
// global stack, then everything they left above the marker collapses
// into one array, top of stack first.
func (e *Evaluator) evalArray(a word.Array) error {
	mark := len(e.stack)
	if err := e.evalWords(a.Words); err != nil {
		return err
	}
	if len(e.stack) < mark {
		mark = len(e.stack)
	}
	cells := make([]value.Value, 0, len(e.stack)-mark)
	for i := len(e.stack) - 1; i >= mark; i-- {
		cells = append(cells, e.stack[i])
	}
	e.stack = e.stack[:mark]
	v, err := value.FromCells("array", cells)
	if err != nil {
		return err
	}
	e.push(v)
	return nil
}

// evalStrand builds a 1-D array from literal items without
// sub-evaluation: names contribute their bound values uncalled, which
// is how modules collect function bindings.
func (e *Evaluator) evalStrand(s word.Strand) error {
	cells := make([]value.Value, len(s.Items))
	for i, item := range s.Items {
		v, err := e.strandValue(item)
		if err != nil {
			return err
		}
		cells[i] = v
	}
	v, err := value.FromCells("strand", cells)
	if err != nil {
		return err
	}
	e.push(v)
	return nil
}

func (e *Evaluator) strandValue(w word.Word) (value.Value, error) {
	switch w := w.(type) {
	case word.Number:
		return value.NewNum(w.Value), nil
	case word.Char:
		return value.NewChar(w.Value), nil
	case word.String:
		return value.NewString(w.Value), nil
	case word.Group:
		return value.NewFn(value.Function{Words: w.Words, Frame: e.ownerID()}), nil
	case word.Dfn:
		return value.NewFn(value.Function{Words: w.Words, IsDfn: true, Arity: DfnArity(w.Words)}), nil
	case word.Prim:
		switch w.P {
		case prim.Pi:
			return value.NewNum(piValue), nil
		case prim.Infinity:
			return value.NewNum(infValue), nil
		}
		return value.NewFn(value.PrimFunction(w.P)), nil
	case word.Name:
		return e.lookupValue(w.Value)
	}
	return value.Value{}, fmt.Errorf("cannot strand %s", w.String())
}

// lookupValue resolves a name to its raw value without calling it.
func (e *Evaluator) lookupValue(name string) (value.Value, error) {
	if v, ok := e.dfnArg(name); ok {
		return v, nil
	}
	if b, ok := e.bindings[strings.ToLower(name)]; ok {
		return b.val, nil
	}
	if p, ok := prim.ByName(name); ok {
		switch p {
		case prim.Pi:
			return value.NewNum(piValue), nil
		case prim.Infinity:
			return value.NewNum(infValue), nil
		}
		return value.NewFn(value.PrimFunction(p)), nil
	}
	return value.Value{}, &BindingError{Name: name}
}

// evalName resolves a name reference: dfn argument letters first, then
// bindings (a bound scalar function is called, not pushed), then
// primitive names.
func (e *Evaluator) evalName(name string) error {
	if v, ok := e.dfnArg(name); ok {
		e.push(v)
		return nil
	}
	if b, ok := e.bindings[strings.ToLower(name)]; ok {
		if fn, ok := b.val.AsFunction(); ok {
			return e.callFunction(fn)
		}
		e.push(b.val)
		return nil
	}
	if p, ok := prim.ByName(name); ok {
		return e.applyPrim(p)
	}
	return &BindingError{Name: name}
}

// dfnArg resolves single lowercase letters against the current letter
// context: the frame whose body is evaluating, not merely the
// innermost active frame. A letter beyond the frame's argument count,
// a letter in an expired context, or any letter with no context falls
// through to normal resolution.
func (e *Evaluator) dfnArg(name string) (value.Value, bool) {
	if len(e.letters) == 0 {
		return value.Value{}, false
	}
	f := e.letters[len(e.letters)-1]
	if f == nil {
		return value.Value{}, false
	}
	r := []rune(name)
	if len(r) != 1 || r[0] < 'a' || r[0] > 'z' {
		return value.Value{}, false
	}
	idx := int(r[0] - 'a')
	if idx >= len(f.args) {
		return value.Value{}, false
	}
	return f.args[idx], true
}

// ownerID identifies the frame whose letters are in scope, for tagging
// function values built during its body.
func (e *Evaluator) ownerID() uint64 {
	if len(e.letters) == 0 {
		return 0
	}
	if f := e.letters[len(e.letters)-1]; f != nil {
		return f.id
	}
	return 0
}

// liveFrame finds the active call frame with the given id.
func (e *Evaluator) liveFrame(id uint64) *frame {
	if id == 0 {
		return nil
	}
	for i := len(e.frames) - 1; i >= 0; i-- {
		if e.frames[i].id == id {
			return e.frames[i]
		}
	}
	return nil
}

// callFunction transfers control into a function value. A body built
// inside a dfn evaluates its letters against that dfn's frame while it
// is still on the call stack; once the frame has returned, the letters
// are expired and resolve to nothing.
func (e *Evaluator) callFunction(f value.Function) error {
	if f.Prim != prim.Invalid {
		return e.applyPrim(f.Prim)
	}
	if f.IsDfn {
		return e.callDfn(f)
	}
	e.letters = append(e.letters, e.liveFrame(f.Frame))
	err := e.evalWords(f.Words)
	e.letters = e.letters[:len(e.letters)-1]
	return err
}

// callDfn pops the dfn's arguments (argument a is the first popped)
// and evaluates the body under a new call frame.
func (e *Evaluator) callDfn(f value.Function) error {
	if len(e.frames) >= maxCallDepth {
		return fmt.Errorf("recursion limit reached in %s", f.String())
	}
	args := make([]value.Value, f.Arity)
	for i := range args {
		v, err := e.pop(f.String())
		if err != nil {
			return err
		}
		args[i] = v
	}
	e.frameSeq++
	fr := &frame{id: e.frameSeq, fn: f, args: args}
	e.frames = append(e.frames, fr)
	e.letters = append(e.letters, fr)
	err := e.evalWords(f.Words)
	e.frames = e.frames[:len(e.frames)-1]
	e.letters = e.letters[:len(e.letters)-1]
	return err
}

func (e *Evaluator) push(v value.Value) {
	e.stack = append(e.stack, v)
}

func (e *Evaluator) pop(op string) (value.Value, error) {
	if len(e.stack) == 0 {
		return value.Value{}, &StackUnderflowError{Op: op}
	}
	return e.popUnchecked(), nil
}

func (e *Evaluator) popUnchecked() value.Value {
	v := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return v
}
