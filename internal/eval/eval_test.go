package eval

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nickandperla.net/ua/internal/value"
	"nickandperla.net/ua/internal/word"
)

func run(t *testing.T, source string, opts ...Option) *Evaluator {
	t.Helper()
	e := New(opts...)
	if err := e.Run(source); err != nil {
		t.Fatalf("running %q: %v", source, err)
	}
	return e
}

func top(t *testing.T, e *Evaluator) value.Value {
	t.Helper()
	stack := e.Stack()
	if len(stack) == 0 {
		t.Fatal("stack is empty")
	}
	return stack[len(stack)-1]
}

func nums(elems ...float64) value.Value { return value.NewNums(elems, len(elems)) }

func TestArithmetic(t *testing.T) {
	scenarios := []struct {
		source string
		want   value.Value
	}{
		{"+ 1 2", value.NewNum(3)},
		{"- 2 5", value.NewNum(3)},
		{"÷ 2 5", value.NewNum(2.5)},
		{"ⁿ2 5", value.NewNum(25)},
		{"◿ 5 7", value.NewNum(2)},
		{"< 2 5", value.NewNum(0)},
		{"> 2 5", value.NewNum(1)},
		{"↥ 3 7", value.NewNum(7)},
		{"¯ 3", value.NewNum(-3)},
		{"⌵ ¯4", value.NewNum(4)},
		{"√ 16", value.NewNum(4)},
		{"+ 1 '`'", value.NewChar('a')},
		{"× 2 + 1 2", value.NewNum(6)},
	}
	for _, sc := range scenarios {
		e := run(t, sc.source)
		if got := top(t, e); !got.Equal(sc.want) {
			t.Errorf("%q: got %s, want %s", sc.source, got.Show(), sc.want.Show())
		}
	}
}

func TestStackPrimitives(t *testing.T) {
	e := run(t, ". 5")
	if got := e.Stack(); len(got) != 2 || !got[0].Equal(value.NewNum(5)) || !got[1].Equal(value.NewNum(5)) {
		t.Errorf("dup: got %d values", len(got))
	}

	e = run(t, "- ~ 2 5")
	if got := top(t, e); !got.Equal(value.NewNum(-3)) {
		t.Errorf("flip then subtract: got %s", got.Show())
	}

	e = run(t, "; 1 2")
	if got := e.Stack(); len(got) != 1 || !got[0].Equal(value.NewNum(2)) {
		t.Errorf("pop: got %v", got)
	}
}

func TestArrayNotation(t *testing.T) {
	e := run(t, "[1 2 3]")
	got := top(t, e)
	if !got.Equal(nums(1, 2, 3)) {
		t.Fatalf("got %s", got.Show())
	}
	if got.Rank() != 1 || got.Length() != 3 {
		t.Errorf("rank %d length %d", got.Rank(), got.Length())
	}

	e = run(t, "[+1 2 +3 4]")
	if got := top(t, e); !got.Equal(nums(3, 7)) {
		t.Errorf("sub-evaluation: got %s, want [3 7]", got.Show())
	}

	e = run(t, "[]")
	if got := top(t, e); !got.Equal(value.NewNums(nil, 0)) {
		t.Errorf("empty: got %s", got.Show())
	}

	e = run(t, "[5]")
	if got := top(t, e); !sameShape(got.Shape(), []int{1}) {
		t.Errorf("one element: shape %v", got.Shape())
	}
}

func TestStrandNotation(t *testing.T) {
	e := run(t, "1_2_3")
	if got := top(t, e); !got.Equal(nums(1, 2, 3)) {
		t.Errorf("got %s", got.Show())
	}

	e = run(t, "+ 1_2 3_4")
	if got := top(t, e); !got.Equal(nums(4, 6)) {
		t.Errorf("got %s", got.Show())
	}
}

func TestPervasiveShapeError(t *testing.T) {
	e := New()
	err := e.Run("+[1 2] [3 4 5]")
	var te *value.TypeError
	if !errors.As(err, &te) {
		t.Fatalf("expected a TypeError, got %v", err)
	}
}

func TestUnderflowIsFatal(t *testing.T) {
	e := New()
	err := e.Run("+ 1")
	var ue *StackUnderflowError
	if !errors.As(err, &ue) {
		t.Fatalf("expected a StackUnderflowError, got %v", err)
	}
}

func TestBindingsCaseInsensitive(t *testing.T) {
	e := run(t, "foo ← 5\n+ FOO fOo")
	if got := top(t, e); !got.Equal(value.NewNum(10)) {
		t.Errorf("got %s", got.Show())
	}
}

func TestFunctionBindingDeferred(t *testing.T) {
	// An uppercase binding defers its words; referencing it runs them.
	e := run(t, "Square ← ×.\nSquare 4")
	if got := top(t, e); !got.Equal(value.NewNum(16)) {
		t.Errorf("got %s", got.Show())
	}

	// A lowercase binding evaluates eagerly.
	e = run(t, "x ← + 1 2\nx")
	if got := top(t, e); !got.Equal(value.NewNum(3)) {
		t.Errorf("got %s", got.Show())
	}
}

func TestBoundFunctionValueIsCalled(t *testing.T) {
	e := run(t, "f ← (+1)\nf 5")
	if got := top(t, e); !got.Equal(value.NewNum(6)) {
		t.Errorf("got %s", got.Show())
	}
}

func TestDfnArity(t *testing.T) {
	scenarios := []struct {
		source string
		arity  int
	}{
		{"{a}", 1},
		{"{c b a}", 3},
		{"{b (a c)}", 3},
		{"{+ 1 2}", 0},
		{"{a {b}}", 1}, // nested dfns bind their own letters
	}
	for _, sc := range scenarios {
		file, err := word.Parse(sc.source)
		if err != nil {
			t.Fatalf("%q: %v", sc.source, err)
		}
		dfn, ok := file.Lines[0].Words[0].(word.Dfn)
		if !ok {
			t.Fatalf("%q did not parse as a dfn", sc.source)
		}
		if got := DfnArity(dfn.Words); got != sc.arity {
			t.Errorf("%q: arity %d, want %d", sc.source, got, sc.arity)
		}
	}

	// Arity observed through evaluation: {b a} swaps.
	e := run(t, "{b a} 1 2")
	stack := e.Stack()
	if len(stack) != 2 || !stack[0].Equal(value.NewNum(1)) || !stack[1].Equal(value.NewNum(2)) {
		t.Errorf("swap dfn: got %v", stack)
	}
}

func TestDfnQuadratic(t *testing.T) {
	e := run(t, "{÷ ×2a -b ⊟¯. √- ××4a c ⁿ2 b} 1 2 0")
	want := nums(-2, 0)
	if got := top(t, e); !got.Equal(want) {
		t.Errorf("got %s, want %s", got.Show(), want.Show())
	}
}

func TestDfnRecursion(t *testing.T) {
	e := run(t, "Fib ← {: ⊡ <2a (+ Fib -1a Fib -2a)_(a)}\nFib 10")
	if got := top(t, e); !got.Equal(value.NewNum(55)) {
		t.Errorf("fib 10: got %s", got.Show())
	}
}

func TestRecurPrimitive(t *testing.T) {
	// Factorial with recur: 5! = 120.
	e := run(t, "{: ⊡ <2a (× a ↬ -1a)_(1)} 5")
	if got := top(t, e); !got.Equal(value.NewNum(120)) {
		t.Errorf("factorial: got %s", got.Show())
	}
}

func TestEscapedDfnArgument(t *testing.T) {
	e := New()
	err := e.Run(": {(a)} 5")
	var be *BindingError
	if !errors.As(err, &be) {
		t.Fatalf("expected a BindingError, got %v", err)
	}
	if be.Name != "a" {
		t.Errorf("offending name: got %q", be.Name)
	}

	// An escaped letter must not resolve against whatever frame happens
	// to be active when the function is finally called.
	e = New()
	err = e.Run("{: {(a)} a} 7")
	if !errors.As(err, &be) {
		t.Fatalf("expired letter in a live frame: got %v", err)
	}
	if be.Name != "a" {
		t.Errorf("offending name: got %q", be.Name)
	}
}

func TestModifiers(t *testing.T) {
	scenarios := []struct {
		source string
		want   value.Value
	}{
		{"/+ [1 2 3 4 5]", value.NewNum(15)},
		{"/- [1 2 3 4 5]", value.NewNum(3)},
		{"/↥ [3 1 4 1 5]", value.NewNum(5)},
		{"\\+ 1_2_3_4", nums(1, 3, 6, 10)},
		{"∵(×2) 1_2_3", nums(2, 4, 6)},
		{"∵{×a a} 1_2_3", nums(1, 4, 9)},
		{"≡/+ [1_2_3 4_5_6]", nums(6, 15)},
		{"⍥(+2)5 0", value.NewNum(10)},
	}
	for _, sc := range scenarios {
		e := run(t, sc.source)
		if got := top(t, e); !got.Equal(sc.want) {
			t.Errorf("%q: got %s, want %s", sc.source, got.Show(), sc.want.Show())
		}
	}
}

func TestStructurePrimitives(t *testing.T) {
	scenarios := []struct {
		source string
		want   value.Value
	}{
		{"⊟ 1_2 3_4", value.NewNums([]float64{1, 2, 3, 4}, 2, 2)},
		{"⊂ 1_2 3", nums(1, 2, 3)},
		{"△ [1_2 3_4]", nums(2, 2)},
		{"≢ [1 2 3]", value.NewNum(3)},
		{"∴ [1_2 3_4]", value.NewNum(2)},
		{"⊢ \"hi\"", value.NewChar('h')},
		{"⇌ [1 2 3]", nums(3, 2, 1)},
		{"⊡ 1 [10 20 30]", value.NewNum(20)},
		{"◫ 2 [1 2 3]", value.NewNums([]float64{1, 2, 2, 3}, 2, 2)},
	}
	for _, sc := range scenarios {
		e := run(t, sc.source)
		if got := top(t, e); !got.Equal(sc.want) {
			t.Errorf("%q: got %s, want %s", sc.source, got.Show(), sc.want.Show())
		}
	}
}

func TestScopesHideBindings(t *testing.T) {
	e := New()
	err := e.Run("---\nx ← 5\n---\nx")
	var be *BindingError
	if !errors.As(err, &be) {
		t.Fatalf("expected a BindingError for x, got %v", err)
	}
}

func TestScopeStackPersists(t *testing.T) {
	e := run(t, "---\n+ 3 5\n---")
	if got := top(t, e); !got.Equal(value.NewNum(8)) {
		t.Errorf("got %s", got.Show())
	}
}

func TestScopeCaptureOrder(t *testing.T) {
	e := run(t, "---\n+ 3 5\n+ 7 8\n---\nc ←\nd ←\nc_d")
	if got := top(t, e); !got.Equal(nums(8, 15)) {
		t.Errorf("capture order: got %s, want [8 15]", got.Show())
	}
}

func TestModuleUse(t *testing.T) {
	source := strings.Join([]string{
		"---",
		"Square ← ×.",
		"Double ← ×2",
		"Square_Double",
		"---",
		"m ←",
		"use \"double\" m",
		"d ←",
		"d 7",
	}, "\n")
	e := run(t, source)
	if got := top(t, e); !got.Equal(value.NewNum(14)) {
		t.Errorf("got %s", got.Show())
	}

	e = New()
	err := e.Run("use \"missing\" (+1)_(+2)")
	var be *BindingError
	if !errors.As(err, &be) {
		t.Fatalf("unknown module name: got %v", err)
	}
}

func TestRunModes(t *testing.T) {
	source := "x ← 5\n+ 1 2\n---test\nassert = 5 x\n+ 10 20\n---\n"

	e := run(t, source) // normal
	stack := e.Stack()
	if len(stack) != 1 || !stack[0].Equal(value.NewNum(3)) {
		t.Errorf("normal mode: got %v", stack)
	}

	e = run(t, source, WithMode(ModeTest))
	stack = e.Stack()
	if len(stack) != 1 || !stack[0].Equal(value.NewNum(30)) {
		t.Errorf("test mode: got %v", stack)
	}

	e = run(t, source, WithMode(ModeAll))
	stack = e.Stack()
	if len(stack) != 2 {
		t.Errorf("all mode: got %d values", len(stack))
	}
}

func TestAssertFailure(t *testing.T) {
	e := New(WithMode(ModeAll))
	err := e.Run("assert = 1 2")
	var ae *AssertError
	if !errors.As(err, &ae) {
		t.Fatalf("expected an AssertError, got %v", err)
	}
}

func TestImportOnceOnly(t *testing.T) {
	dir := t.TempDir()
	lib := "print \"loading\"\n+ 1 2\n"
	if err := os.WriteFile(filepath.Join(dir, "lib.ua"), []byte(lib), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	e := New(WithDir(dir), WithOutput(&out))
	if err := e.Run("import \"lib.ua\"\nimport \"lib.ua\""); err != nil {
		t.Fatal(err)
	}

	if got := strings.Count(out.String(), "loading"); got != 1 {
		t.Errorf("side effects ran %d times, want 1", got)
	}
	stack := e.Stack()
	if len(stack) != 2 {
		t.Fatalf("got %d values, want 2", len(stack))
	}
	for _, v := range stack {
		if !v.Equal(value.NewNum(3)) {
			t.Errorf("replayed value: got %s", v.Show())
		}
	}
}

func TestImportMissingFile(t *testing.T) {
	e := New(WithDir(t.TempDir()))
	err := e.Run("import \"absent.ua\"")
	var ie *ImportError
	if !errors.As(err, &ie) {
		t.Fatalf("expected an ImportError, got %v", err)
	}
}

func TestImportBindingsIsolated(t *testing.T) {
	dir := t.TempDir()
	lib := "hidden ← 42\nhidden\n"
	if err := os.WriteFile(filepath.Join(dir, "lib.ua"), []byte(lib), 0o644); err != nil {
		t.Fatal(err)
	}

	e := New(WithDir(dir))
	err := e.Run("import \"lib.ua\"\nhidden")
	var be *BindingError
	if !errors.As(err, &be) {
		t.Fatalf("imported bindings should not leak, got %v", err)
	}
}

func TestRandDeterministic(t *testing.T) {
	a := run(t, "rand", WithRandSeed(1))
	b := run(t, "rand", WithRandSeed(1))
	if !top(t, a).Equal(top(t, b)) {
		t.Error("same seed should give the same value")
	}
	v := top(t, a).Nums()[0]
	if v < 0 || v >= 1 {
		t.Errorf("rand out of range: %v", v)
	}
}

func TestFWriteAll(t *testing.T) {
	dir := t.TempDir()
	run(t, "FWriteAll \"out.txt\" \"hello\"", WithDir(dir))
	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Errorf("got %q", data)
	}
}

func TestPrint(t *testing.T) {
	var out bytes.Buffer
	run(t, "print \"hi\"\nprint [1 2 3]", WithOutput(&out))
	if got := out.String(); got != "hi\n[1 2 3]\n" {
		t.Errorf("got %q", got)
	}
}

func TestPiAndInfinity(t *testing.T) {
	e := run(t, "× 2 pi")
	if got := top(t, e).Nums()[0]; got < 6.28 || got > 6.29 {
		t.Errorf("2 pi: got %v", got)
	}
	e = run(t, "∞")
	if got := top(t, e).Nums()[0]; got <= 0 {
		t.Errorf("infinity: got %v", got)
	}
}

func TestStackPersistsAcrossRuns(t *testing.T) {
	e := New()
	if err := e.Run("+ 1 2"); err != nil {
		t.Fatal(err)
	}
	if err := e.Run("× 2"); err != nil {
		t.Fatal(err)
	}
	if got := top(t, e); !got.Equal(value.NewNum(6)) {
		t.Errorf("got %s", got.Show())
	}

	taken := e.TakeStack()
	if len(taken) != 1 || len(e.Stack()) != 0 {
		t.Error("TakeStack should empty the stack")
	}
}
