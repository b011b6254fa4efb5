package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/streakone/internal/cli"
	"github.com/julianstephens/streakone/internal/config"
	"github.com/julianstephens/streakone/internal/constants"
	"github.com/julianstephens/streakone/internal/errors"
	"github.com/julianstephens/streakone/internal/logger"
	"github.com/julianstephens/streakone/internal/metrics"
	"github.com/julianstephens/streakone/internal/storage/backends"
)

var CLI struct {
	Version    kong.VersionFlag
	Store      string `help:"Storage location: a SQLite file path, a postgres:// URL, a redis:// URL, file://<path> or memory://. Credentials must NOT be embedded; use the OS keyring (streakone keyring set) instead." type:"string"`
	Timezone   string `help:"IANA timezone used to decide calendar days (defaults to the system zone)."`
	Debug      bool   `help:"Enable debug logging."`
	ConfigFile string `help:"Config file path." name:"config-file" type:"path"`

	Init       cli.InitCmd       `cmd:"" help:"Initialize streakone storage."`
	Add        cli.AddCmd        `cmd:"" help:"Add a new streak."`
	List       cli.ListCmd       `cmd:"" help:"List all streaks."`
	Show       cli.ShowCmd       `cmd:"" help:"Show a streak in detail."`
	Done       cli.DoneCmd       `cmd:"" help:"Mark a streak done for today."`
	Edit       cli.EditCmd       `cmd:"" help:"Edit a streak."`
	Delete     cli.DeleteCmd     `cmd:"" help:"Delete a streak."`
	Clear      cli.ClearCmd      `cmd:"" help:"Delete every streak."`
	Stats      cli.StatsCmd      `cmd:"" help:"Show streak statistics."`
	Milestones cli.MilestonesCmd `cmd:"" help:"Show milestone progress."`
	Tui        cli.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Doctor     cli.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Validate   cli.ValidateCmd   `cmd:"" help:"Validate stored streaks for conflicts."`
	Migrate    cli.MigrateCmd    `cmd:"" help:"Run storage migrations."`
	DebugCmd   cli.DebugCmd      `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Backup     struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage backups."`
	Keyring cli.KeyringCmd `cmd:"" help:"Manage the connection string stored in the OS keyring."`
	Notify  cli.NotifyCmd  `cmd:"" hidden:"" help:"Deliver due reminders (used internally)."`
}

// unopened lists the commands that open storage themselves, or not at all.
var unopened = map[string]bool{
	"init":    true,
	"migrate": true,
	"keyring": true,
	"doctor":  true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit streak tracker with daily reminders"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(config.Options{
		Store:      CLI.Store,
		Timezone:   CLI.Timezone,
		Debug:      CLI.Debug,
		ConfigFile: CLI.ConfigFile,
	})
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.Dir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	logger.Debug("Configuration loaded", "store_source", cfg.StoreSource, "timezone", cfg.Location.String())

	appCtx := cli.NewContext(cfg, metrics.New())

	// Open the store before running the command (init and friends handle their own)
	if command := strings.Fields(ctx.Command()); len(command) > 0 && !unopened[command[0]] {
		backend, err := backends.Open(context.Background(), cfg.Store)
		if err != nil {
			errors.Fatal(err)
		}
		appCtx.Attach(backend)
	}

	err = ctx.Run(appCtx)
	if cerr := appCtx.Close(); cerr != nil {
		logger.Warn("Failed to close storage", "error", cerr)
	}
	if err != nil {
		errors.Fatal(err)
	}
}
