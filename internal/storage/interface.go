package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("key not found")

// Backend is a string-keyed store of opaque values. Implementations move
// bytes only; decoding and corruption handling belong to the caller.
type Backend interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the whole value under key atomically.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
	// Describe returns a location safe to print (no credentials).
	Describe() string
}

// Pinger is implemented by backends that can check their connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Migrator is implemented by backends with a versioned schema.
type Migrator interface {
	// Migrate applies pending schema migrations, reporting progress to logFn.
	Migrate(ctx context.Context, logFn func(string)) (int, error)
	// SchemaVersion returns the applied and the latest known version.
	SchemaVersion(ctx context.Context) (current, latest int, err error)
}

// Initializer is implemented by backends that must create their schema
// before first use.
type Initializer interface {
	Init(ctx context.Context) error
}
