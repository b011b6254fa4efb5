package storage

import (
	"net/url"
	"path/filepath"
	"strings"
)

const (
	MemoryScheme = "memory://"
)

// Kind identifies the backend a location string selects.
type Kind string

const (
	KindSQLite   Kind = "sqlite"
	KindFile     Kind = "file"
	KindMemory   Kind = "memory"
	KindPostgres Kind = "postgres"
	KindRedis    Kind = "redis"
)

// KindOf classifies a store location: URL schemes first, then the file
// extension. Anything else is treated as a SQLite database path.
func KindOf(location string) Kind {
	lower := strings.ToLower(strings.TrimSpace(location))
	switch {
	case strings.HasPrefix(lower, MemoryScheme):
		return KindMemory
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return KindPostgres
	case strings.HasPrefix(lower, "redis://"), strings.HasPrefix(lower, "rediss://"):
		return KindRedis
	case strings.HasSuffix(lower, ".json"):
		return KindFile
	default:
		return KindSQLite
	}
}

// IsRemote reports whether the location names a network service.
func IsRemote(location string) bool {
	k := KindOf(location)
	return k == KindPostgres || k == KindRedis
}

// Redact strips any password from a URL-style location.
func Redact(location string) string {
	if !IsRemote(location) {
		return location
	}
	u, err := url.Parse(location)
	if err != nil {
		return string(KindOf(location))
	}
	return u.Redacted()
}

// ExpandPath resolves a leading "~/" against home.
func ExpandPath(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
