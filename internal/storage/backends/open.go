// Package backends turns a store location string into a storage.Backend.
package backends

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/streakone/internal/logger"
	"github.com/julianstephens/streakone/internal/storage"
	"github.com/julianstephens/streakone/internal/storage/postgres"
	"github.com/julianstephens/streakone/internal/storage/redis"
	"github.com/julianstephens/streakone/internal/storage/sqlite"
)

// Open selects and opens the backend for location (see storage.KindOf).
// File paths may start with "~/".
func Open(ctx context.Context, location string) (storage.Backend, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("store location is empty")
	}

	kind := storage.KindOf(location)
	logger.Debug("Opening store", "kind", kind, "location", storage.Redact(location))

	switch kind {
	case storage.KindMemory:
		return storage.NewMemory(), nil
	case storage.KindPostgres:
		return postgres.Open(ctx, location)
	case storage.KindRedis:
		return redis.Open(ctx, location)
	}

	path, err := expand(location)
	if err != nil {
		return nil, err
	}
	if kind == storage.KindFile {
		return storage.NewFileStore(path), nil
	}
	return sqlite.Open(ctx, path)
}

// Unchecked returns the backend for location without verifying its schema
// version. Database backends are not connected until first used, so init and
// migrate can work on stores that Open would reject.
func Unchecked(ctx context.Context, location string) (storage.Backend, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("store location is empty")
	}

	switch storage.KindOf(location) {
	case storage.KindPostgres:
		if err := postgres.ValidateConnString(location); err != nil {
			return nil, err
		}
		return postgres.New(location), nil
	case storage.KindSQLite:
		path, err := expand(location)
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(path), nil
	}
	return Open(ctx, location)
}

// Path returns the local file a location refers to, or "" for network and
// in-memory stores.
func Path(location string) (string, error) {
	switch storage.KindOf(location) {
	case storage.KindSQLite, storage.KindFile:
		return expand(strings.TrimSpace(location))
	}
	return "", nil
}

func expand(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return storage.ExpandPath(path, home), nil
}
