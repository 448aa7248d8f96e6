// Package store persists the budget snapshot as one blob in a key-value backend.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/theirongolddev/cbudget/internal/config"
)

var (
	// ErrNotFound is returned when a key has never been written.
	ErrNotFound = errors.New("key not found")

	// ErrCorrupt is returned when a stored blob cannot be decoded.
	ErrCorrupt = errors.New("stored data is corrupt")

	// ErrUnknownBackend is returned by Open for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown store backend")
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// KV is a string-keyed blob store.
type KV interface {
	// Get returns ErrNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open opens the backend named by cfg.
func Open(ctx context.Context, cfg config.StoreConfig) (KV, error) {
	switch cfg.Backend {
	case BackendSQLite, "":
		return OpenSQLite(cfg.StorePath())
	case BackendBolt:
		return OpenBolt(cfg.StorePath())
	case BackendRedis:
		return OpenRedis(ctx, cfg.RedisURL)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
