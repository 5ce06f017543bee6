package format

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFormatScenarios(t *testing.T) {
	scenarios := []struct {
		name string
		in   string
		want string
	}{
		{"ascii math", "* 2 %10 5", "× 2 ÷10 5"},
		{"digraphs", "!=1 2 <=1 2 >=1 2", "≠1 2 ≤1 2 ≥1 2"},
		{"backtick negative", "`3 `1.5", "¯3 ¯1.5"},
		{"name to glyph", "sqrt 4", "√ 4"},
		{"prefix to glyph", "cei 1.5", "⌈ 1.5"},
		{"max prefix", "max 1 2", "↥ 1 2"},
		{"pick vs pi exact", "pi", "π"},
		{"pick prefix", "pic 1 [2 3]", "⊡ 1 [2 3]"},
		{"named only expands", "imp \"lib.ua\"", "import \"lib.ua\""},
		{"binding converts", "a = 3", "a ← 3"},
		{"binding keeps case", "Fn = + 1", "Fn ← + 1"},
		{"resolved lhs keeps equals", "part = 5", "⊜ = 5"},
		{"named lhs keeps equals", "assert = 5 5", "assert = 5 5"},
		{"ambiguous binding stays", "po = 3", "po ← 3"},
		{"single letters untouched", "{+ a b}", "{+ a b}"},
		{"strings untouched", "\"max * 2\"", "\"max * 2\""},
		{"comment space", "#hello", "# hello"},
		{"glyphs pass through", "/+ ⇌ [1 2 3]", "/+ ⇌ [1 2 3]"},
		{"scope delimiter", "---", "---"},
	}
	for _, sc := range scenarios {
		cfg := DefaultConfig()
		cfg.TrailingNewline = false
		got, err := FormatWith(sc.in, cfg)
		if err != nil {
			t.Fatalf("%s: %v", sc.name, err)
		}
		if got != sc.want {
			t.Errorf("%s: got %q, want %q", sc.name, got, sc.want)
		}

		again, err := FormatWith(got, cfg)
		if err != nil {
			t.Fatalf("%s: reformat: %v", sc.name, err)
		}
		if again != got {
			t.Errorf("%s: not idempotent: %q became %q", sc.name, got, again)
		}
	}
}

func TestFormatAmbiguous(t *testing.T) {
	// po is a prefix of both pop and power.
	_, err := Format("po 1 2")
	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected a format error, got %v", err)
	}
	if len(fe.Candidates) < 2 {
		t.Errorf("expected candidates, got %v", fe.Candidates)
	}
}

func TestFormatIncomplete(t *testing.T) {
	_, err := Format("\"unterminated")
	var fe *Error
	if !errors.As(err, &fe) || !fe.Incomplete {
		t.Fatalf("expected an incomplete error, got %v", err)
	}
}

func TestFormatTrailingNewline(t *testing.T) {
	got, err := Format("+ 1 2")
	if err != nil {
		t.Fatal(err)
	}
	if got != "+ 1 2\n" {
		t.Errorf("got %q", got)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("missing file should give defaults, got %+v", cfg)
	}

	content := "[format]\ntrailing_newline = false\ncomment_space = false\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TrailingNewline || cfg.CommentSpace || !cfg.ConvertBindings {
		t.Errorf("got %+v", cfg)
	}
}
