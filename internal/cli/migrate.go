package cli

import (
	"context"
	"fmt"

	"github.com/julianstephens/streakone/internal/storage"
	"github.com/julianstephens/streakone/internal/storage/backends"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	bg := context.Background()

	backend, err := backends.Unchecked(bg, ctx.Config.Store)
	if err != nil {
		return err
	}
	defer backend.Close()

	m, ok := backend.(storage.Migrator)
	if !ok {
		ctx.printf("%s has no schema to migrate.\n", backend.Describe())
		return nil
	}

	count, err := m.Migrate(bg, func(msg string) {
		ctx.println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.println("No migrations to apply. Database is up to date.")
	} else {
		ctx.printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
