package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/streakone/internal/storage"
	"github.com/julianstephens/streakone/internal/storage/backends"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting the existing database before initialization."`
}

func (c *InitCmd) Run(ctx *Context) error {
	bg := context.Background()
	location := ctx.Config.Store

	path, err := backends.Path(location)
	if err != nil {
		return err
	}
	if c.Force && path != "" {
		if err := ctx.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if _, err := os.Stat(path); err == nil {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.printf("Deleted existing database at: %s\n", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	backend, err := backends.Unchecked(bg, location)
	if err != nil {
		return err
	}
	if in, ok := backend.(storage.Initializer); ok {
		if err := in.Init(bg); err != nil {
			backend.Close()
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
	}
	ctx.Attach(backend)

	if c.Force && path == "" {
		// Network stores keep their schema; reset the data instead.
		if err := ctx.Repo.Clear(bg); err != nil {
			return err
		}
		if err := ctx.Reminders.CancelAll(bg); err != nil {
			return err
		}
	}

	ctx.printf("Initialized streakone storage at: %s\n", backend.Describe())
	return nil
}
