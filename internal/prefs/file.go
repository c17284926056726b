package prefs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// FileStore keeps all values in one TOML file. Every Put rewrites the file.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

type fileDocument struct {
	Values map[string]string `toml:"values"`
}

// OpenFile loads the TOML file at path, or the default path when empty. A
// missing or unreadable file starts empty rather than failing.
func OpenFile(path string) (*FileStore, error) {
	resolved, err := resolvePath(path, defaultFilePath)
	if err != nil {
		return nil, fmt.Errorf("resolve prefs path: %w", err)
	}
	s := &FileStore{path: resolved, values: map[string]string{}}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return s, nil // Graceful degradation
	}

	var doc fileDocument
	if err := toml.Unmarshal(bytes, &doc); err != nil {
		return s, nil // Graceful degradation
	}
	for k, v := range doc.Values {
		s.values[k] = v
	}
	return s, nil
}

// Path returns the resolved file location.
func (s *FileStore) Path() string { return s.path }

// Get returns the value stored under key.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

// Put stores value under key and writes the file, creating directories as
// needed.
func (s *FileStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = string(value)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	bytes, err := toml.Marshal(fileDocument{Values: s.values})
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(s.path, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// Close is a no-op; writes are flushed by Put.
func (s *FileStore) Close() error { return nil }
