package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/streakone/internal/logger"
	"github.com/julianstephens/streakone/internal/storage"
)

type DebugCmd struct {
	StorePath  DebugStorePathCmd  `cmd:"" help:"Show the store location and config paths."`
	DumpStreak DebugDumpStreakCmd `cmd:"" help:"Dump one streak as JSON."`
	DumpBlob   DebugDumpBlobCmd   `cmd:"" help:"Print the raw stored value of a key."`
}

type DebugStorePathCmd struct{}

func (cmd *DebugStorePathCmd) Run(ctx *Context) error {
	output := map[string]string{}
	if ctx.Backend != nil {
		output["store"] = ctx.Backend.Describe()
	}
	if ctx.Config != nil {
		output["source"] = string(ctx.Config.StoreSource)
		output["config_file"] = ctx.Config.File
		output["backups"] = ctx.Config.BackupDir()
		output["log_file"] = logger.LogFile(ctx.Config.Dir)
	}
	return printJSON(ctx, output)
}

type DebugDumpStreakCmd struct {
	Streak string `arg:"" help:"Streak id, name or list number."`
}

func (cmd *DebugDumpStreakCmd) Run(ctx *Context) error {
	if err := ctx.requireStore(); err != nil {
		return err
	}
	s, err := ctx.resolveStreak(context.Background(), cmd.Streak)
	if err != nil {
		return err
	}
	return printJSON(ctx, s)
}

type DebugDumpBlobCmd struct {
	Key string `arg:"" optional:"" help:"Storage key." default:"@streak_data"`
}

func (cmd *DebugDumpBlobCmd) Run(ctx *Context) error {
	if ctx.Backend == nil {
		return errors.New("storage is not open")
	}
	raw, err := ctx.Backend.Get(context.Background(), cmd.Key)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("nothing stored under %s", cmd.Key)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.Key, err)
	}
	ctx.println(string(raw))
	return nil
}

func printJSON(ctx *Context, v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.println(string(jsonBytes))
	return nil
}
