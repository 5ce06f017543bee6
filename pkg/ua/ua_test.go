package ua

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatAndRun(t *testing.T) {
	r := New()
	defer r.Close()

	formatted, err := r.Format("* 2 max 3 5")
	if err != nil {
		t.Fatal(err)
	}
	if formatted != "× 2 ↥ 3 5\n" {
		t.Errorf("got %q", formatted)
	}

	if err := r.Run("* 2 max 3 5"); err != nil {
		t.Fatal(err)
	}
	stack := r.Stack()
	if len(stack) != 1 || stack[0].Show() != "10" {
		t.Errorf("got %v", stack)
	}
}

func TestStackPersistsAcrossRuns(t *testing.T) {
	r := New()
	defer r.Close()

	if err := r.Run("1 2 3"); err != nil {
		t.Fatal(err)
	}
	if err := r.Run("+"); err != nil {
		t.Fatal(err)
	}
	stack := r.Stack()
	if len(stack) != 2 || stack[1].Show() != "3" {
		t.Fatalf("got %v", stack)
	}
}

func TestRunFileAndModes(t *testing.T) {
	dir := t.TempDir()
	src := "x ← 5\n+ 1 2\n---test\nassert = 5 x\n---\n"
	path := filepath.Join(dir, "main.ua")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	r := New(WithDir(dir), WithMode(ModeTest))
	defer r.Close()
	if err := r.RunFile(path); err != nil {
		t.Fatal(err)
	}
	if got := r.Stack(); len(got) != 0 {
		t.Errorf("test mode: got %v", got)
	}
}

func TestImportReplay(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	if err := os.WriteFile(filepath.Join(dir, "lib.ua"), []byte("print \"once\"\n42\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := New(WithDir(dir), WithOutput(&out))
	defer r.Close()

	first, err := r.Import("lib.ua")
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Import("lib.ua")
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 1 || len(second) != 1 || first[0].Show() != "42" || second[0].Show() != "42" {
		t.Errorf("imports: %v %v", first, second)
	}
	if got := strings.Count(out.String(), "once"); got != 1 {
		t.Errorf("file ran %d times", got)
	}
}

func TestHistory(t *testing.T) {
	r := New(WithMemoryHistory())
	defer r.Close()

	if err := r.Run("+ 1 2"); err != nil {
		t.Fatal(err)
	}
	entries, err := r.History(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Source != "+ 1 2" || entries[0].Result != "3" {
		t.Errorf("got %v", entries)
	}
}

func TestFormatFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.ua")
	if err := os.WriteFile(path, []byte("sqrt * 2 2"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := New(WithDir(dir))
	defer r.Close()
	if err := r.FormatFile(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "√ × 2 2\n" {
		t.Errorf("got %q", data)
	}
}

func TestFormatRespectsConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := "[format]\ntrailing_newline = false\n"
	if err := os.WriteFile(filepath.Join(dir, "ua.toml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	r := New(WithDir(dir))
	defer r.Close()
	got, err := r.Format("+ 1 2")
	if err != nil {
		t.Fatal(err)
	}
	if got != "+ 1 2" {
		t.Errorf("got %q", got)
	}
}
