// Package migrations embeds the schema of the SQL-backed key-value stores.
package migrations

import (
	"embed"
	"io/fs"
)

const (
	SQLiteDir   = "sqlite"
	PostgresDir = "postgres"
)

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// Sub returns the migrations for one dialect, rooted at its directory.
func Sub(dir string) (fs.FS, error) {
	return fs.Sub(FS, dir)
}
