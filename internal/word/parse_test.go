package word

import (
	"errors"
	"testing"

	"nickandperla.net/ua/internal/prim"
)

func parseLine(t *testing.T, source string) Line {
	t.Helper()
	file, err := Parse(source)
	if err != nil {
		t.Fatalf("parsing %q: %v", source, err)
	}
	if len(file.Lines) != 1 {
		t.Fatalf("parsing %q: got %d lines", source, len(file.Lines))
	}
	return file.Lines[0]
}

func TestParseWords(t *testing.T) {
	line := parseLine(t, "+ 1 2")
	if len(line.Words) != 3 {
		t.Fatalf("got %d words", len(line.Words))
	}
	p, ok := line.Words[0].(Prim)
	if !ok || p.P != prim.Add {
		t.Errorf("first word: got %s", line.Words[0].String())
	}
	n, ok := line.Words[1].(Number)
	if !ok || n.Value != 1 {
		t.Errorf("second word: got %s", line.Words[1].String())
	}
}

func TestParseLiterals(t *testing.T) {
	line := parseLine(t, "\"hi\" 'a' ¯3.5")
	if s, ok := line.Words[0].(String); !ok || s.Value != "hi" {
		t.Errorf("string: got %s", line.Words[0].String())
	}
	if c, ok := line.Words[1].(Char); !ok || c.Value != 'a' {
		t.Errorf("char: got %s", line.Words[1].String())
	}
	if n, ok := line.Words[2].(Number); !ok || n.Value != -3.5 {
		t.Errorf("number: got %s", line.Words[2].String())
	}
}

func TestParseBinding(t *testing.T) {
	line := parseLine(t, "x ← + 1 2")
	if !line.IsBind || line.Binding != "x" {
		t.Fatalf("got %+v", line)
	}
	if len(line.Words) != 3 {
		t.Errorf("right side: got %d words", len(line.Words))
	}

	// An empty right side is a capture binding.
	line = parseLine(t, "x ←")
	if !line.IsBind || len(line.Words) != 0 {
		t.Errorf("empty right side: got %+v", line)
	}
}

func TestParseScopeLines(t *testing.T) {
	file, err := Parse("---\n---test")
	if err != nil {
		t.Fatal(err)
	}
	if len(file.Lines) != 2 {
		t.Fatalf("got %d lines", len(file.Lines))
	}
	if !file.Lines[0].Scope || file.Lines[0].Test {
		t.Errorf("plain delimiter: got %+v", file.Lines[0])
	}
	if !file.Lines[1].Scope || !file.Lines[1].Test {
		t.Errorf("test delimiter: got %+v", file.Lines[1])
	}
}

func TestParseStrand(t *testing.T) {
	line := parseLine(t, "1_2_3")
	s, ok := line.Words[0].(Strand)
	if !ok || len(s.Items) != 3 {
		t.Fatalf("got %s", line.Words[0].String())
	}
	if s.String() != "1_2_3" {
		t.Errorf("source form: got %q", s.String())
	}
}

func TestParseModifierOperand(t *testing.T) {
	line := parseLine(t, "/+ [1 2]")
	m, ok := line.Words[0].(Modified)
	if !ok || m.Mod != prim.Reduce {
		t.Fatalf("got %s", line.Words[0].String())
	}
	if op, ok := m.Operand.(Prim); !ok || op.P != prim.Add {
		t.Errorf("operand: got %s", m.Operand.String())
	}
	if _, ok := line.Words[1].(Array); !ok {
		t.Errorf("second word: got %s", line.Words[1].String())
	}
}

func TestParseUnclosedBracket(t *testing.T) {
	_, err := Parse("[1 2")
	var ue *UnclosedError
	if !errors.As(err, &ue) {
		t.Fatalf("expected an UnclosedError, got %v", err)
	}
}

func TestParseBracketsSpanLines(t *testing.T) {
	line := parseLine(t, "[1 2\n 3]")
	a, ok := line.Words[0].(Array)
	if !ok || len(a.Words) != 3 {
		t.Fatalf("got %s", line.Words[0].String())
	}
}
