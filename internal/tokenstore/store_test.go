package tokenstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	root := t.TempDir()

	s := New(root)
	if err := s.Save("TOK"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !s.IsAuthenticated() {
		t.Fatalf("expected authenticated after Save")
	}
	if s.BearerHeader() != "Bearer TOK" {
		t.Errorf("BearerHeader = %q; want %q", s.BearerHeader(), "Bearer TOK")
	}

	// A fresh Store (simulating a dropped process) should recover the
	// same token from disk.
	s2 := New(root)
	if err := s2.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !s2.IsAuthenticated() || s2.Token() != "TOK" {
		t.Errorf("s2 token = %q, authenticated=%v; want TOK, true", s2.Token(), s2.IsAuthenticated())
	}
}

func TestStoreLoadMissingFileIsNotAnError(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Load(); err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if s.IsAuthenticated() {
		t.Errorf("expected unauthenticated with no token file")
	}
}

func TestStoreClear(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	_ = s.Save("TOK")

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.IsAuthenticated() {
		t.Errorf("expected unauthenticated after Clear")
	}
	if _, err := os.Stat(filepath.Join(root, fileName)); !os.IsNotExist(err) {
		t.Errorf("token file should be removed after Clear")
	}

	// Clearing an already-clear store must not error.
	if err := s.Clear(); err != nil {
		t.Errorf("Clear on already-cleared store: %v", err)
	}
}

func TestStoreSaveNoTrailingContent(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	_ = s.Save("TOK")

	data, err := os.ReadFile(filepath.Join(root, fileName))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "TOK" {
		t.Errorf("file contents = %q; want exactly %q with no terminator", data, "TOK")
	}
}
