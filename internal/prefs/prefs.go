// Package prefs persists small console preferences (currently the product
// filter) in a durable key-value store.
//
// Backends: a TOML file (default, ~/.config/routewatch/prefs.toml), a bbolt
// database, redis, and an in-memory store for tests.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("prefs: key not found")

// Store is a durable byte-valued key-value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

const (
	defaultFilePath = "~/.config/routewatch/prefs.toml"
	defaultBoltPath = "~/.local/share/routewatch/prefs.db"
)

// Options selects and configures a backend.
type Options struct {
	Backend       string
	Path          string
	RedisAddr     string
	RedisPassword string
}

// Open returns the backend named by opts.Backend. An empty backend means file.
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		store Store
		err   error
	)
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		store, err = asStore(OpenFile(opts.Path))
	case BackendBolt:
		store, err = asStore(OpenBolt(opts.Path))
	case BackendRedis:
		store, err = asStore(OpenRedis(ctx, opts.RedisAddr, opts.RedisPassword))
	case BackendMemory:
		store = NewMemory()
	default:
		err = fmt.Errorf("unknown prefs backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// asStore keeps a typed nil from becoming a non-nil Store.
func asStore[S Store](s S, err error) (Store, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

func resolvePath(path, fallback string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(fallback)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
