package store

import (
	"path/filepath"
	"testing"
)

func testStore(t *testing.T, s Store) {
	t.Helper()

	if err := s.Append("+ 1 2", "3"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := s.Append("× 2 3", "6"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	entries, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Source != "× 2 3" || entries[1].Source != "+ 1 2" {
		t.Errorf("wrong order: %v", entries)
	}
	if entries[0].Result != "6" {
		t.Errorf("expected result '6', got %q", entries[0].Result)
	}

	entries, err = s.Recent(1)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Source != "× 2 3" {
		t.Errorf("limit: got %v", entries)
	}

	if err := s.SetMetadata("k", "v"); err != nil {
		t.Fatalf("SetMetadata failed: %v", err)
	}
	got, err := s.GetMetadata("k")
	if err != nil {
		t.Fatalf("GetMetadata failed: %v", err)
	}
	if got != "v" {
		t.Errorf("expected 'v', got %q", got)
	}
	got, err = s.GetMetadata("absent")
	if err != nil || got != "" {
		t.Errorf("absent key: got %q, %v", got, err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	testStore(t, s)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	testStore(t, s)
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopen: schema version already set, history persisted.
	s, err = NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()
	entries, err := s.Recent(0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 persisted entries, got %d", len(entries))
	}
}
