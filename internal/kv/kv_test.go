package kv

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := s.Set(ctx, KeyDerivToken, "abc123"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := s.Get(ctx, KeyDerivToken)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != "abc123" {
		t.Errorf("value = %q, want abc123", v)
	}

	if err := s.Delete(ctx, KeyDerivToken); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, KeyDerivToken); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFileStorePersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	s1, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s1.Set(ctx, KeyProfile, `{"full_name":"Trader"}`); err != nil {
		t.Fatalf("set: %v", err)
	}

	s2, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, err := s2.Get(ctx, KeyProfile)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if v != `{"full_name":"Trader"}` {
		t.Errorf("value = %q", v)
	}
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "nope", "store.json"))
	if err != nil {
		t.Fatalf("open nonexistent: %v", err)
	}
	if _, err := s.Get(context.Background(), KeyProfile); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
