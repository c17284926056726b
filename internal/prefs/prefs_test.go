package prefs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_MissingFileStartsEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := OpenFile("")
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	if s.Path() != filepath.Join(home, ".config", "routewatch", "prefs.toml") {
		t.Fatalf("Path = %q, want default under HOME", s.Path())
	}
	if _, err := s.Get(context.Background(), "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get error = %v, want ErrNotFound", err)
	}
}

func TestFileStore_PutCreatesFileAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "prefs.toml")
	ctx := context.Background()

	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	if err := s.Put(ctx, "routes.filter.products", []byte(`["express"]`)); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("prefs file not written: %v", err)
	}

	reloaded, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	got, err := reloaded.Get(ctx, "routes.filter.products")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(got) != `["express"]` {
		t.Fatalf("Get = %q, want %q", got, `["express"]`)
	}
}

func TestFileStore_InvalidTOMLStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	if _, err := s.Get(context.Background(), "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get error = %v, want ErrNotFound", err)
	}
}

func TestBoltStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.db")
	ctx := context.Background()

	s, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt returned error: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get error = %v, want ErrNotFound", err)
	}
	if err := s.Put(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	s, err = OpenBolt(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(got) != "v1" {
		t.Fatalf("Get = %q, want v1", got)
	}
}

func TestMemory_CopiesValues(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	value := []byte("abc")
	_ = m.Put(ctx, "k", value)
	value[0] = 'z'

	got, _ := m.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("Get = %q, want abc", got)
	}
	if m.Puts() != 1 {
		t.Fatalf("Puts = %d, want 1", m.Puts())
	}
}

func TestOpen_Backends(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	ctx := context.Background()

	for _, backend := range []string{"", "file", "FILE", "memory", "bolt"} {
		s, err := Open(ctx, Options{Backend: backend})
		if err != nil {
			t.Fatalf("Open(%q) returned error: %v", backend, err)
		}
		_ = s.Close()
	}

	if _, err := Open(ctx, Options{Backend: "etcd"}); err == nil {
		t.Fatalf("Open(etcd) returned nil error, want error")
	}
	s, err := Open(ctx, Options{Backend: "redis"})
	if err == nil || s != nil {
		t.Fatalf("Open(redis) without addr = %v, %v; want nil store and error", s, err)
	}
}
