package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/streakone/internal/models"
	"github.com/julianstephens/streakone/internal/scheduler"
	"github.com/julianstephens/streakone/internal/storage"
	"github.com/julianstephens/streakone/internal/storage/backends"
	"github.com/julianstephens/streakone/internal/validation"
)

type DoctorCmd struct {
	Fix bool `help:"Repair data conflicts and resynchronize reminders."`
}

// errWarning marks a check result that is reported but does not fail the run.
type errWarning struct{ msg string }

func (w errWarning) Error() string { return w.msg }

func warning(format string, args ...interface{}) error {
	return errWarning{msg: fmt.Sprintf(format, args...)}
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	bg := context.Background()
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	report := func(name string, err error) {
		var w errWarning
		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", name)
		case errors.As(err, &w):
			ctx.printf("⚠ %s: WARNING\n", name)
			ctx.printf("   %v\n", err)
		default:
			ctx.printf("❌ %s: FAIL\n", name)
			ctx.printf("   Error: %v\n", err)
			hasError = true
		}
	}

	reachErr := checkStoreReachable(bg, ctx)
	report("Store reachable", reachErr)
	reachable := reachErr == nil

	if reachable {
		report("Schema version", checkSchemaVersion(bg, ctx))
	} else {
		ctx.println("⊘ Schema version: SKIPPED (store not reachable)")
	}

	report("Backups present", checkBackupsPresent(ctx))

	if reachable {
		report("Data validation", checkValidation(bg, ctx, cmd.Fix))
		report("Reminders", checkReminders(bg, ctx, cmd.Fix))
	} else {
		ctx.println("⊘ Data validation: SKIPPED (store not reachable)")
		ctx.println("⊘ Reminders: SKIPPED (store not reachable)")
	}

	report("Clock/timezone", checkClockTimezone(ctx.Now()))

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(bg context.Context, ctx *Context) error {
	if ctx.Backend == nil {
		if ctx.Config == nil {
			return errors.New("no store configured")
		}
		b, err := backends.Open(bg, ctx.Config.Store)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		ctx.Attach(b)
	}

	if p, ok := ctx.Backend.(storage.Pinger); ok {
		if err := p.Ping(bg); err != nil {
			return fmt.Errorf("failed to ping %s: %w", ctx.Backend.Describe(), err)
		}
	}
	return nil
}

func checkSchemaVersion(bg context.Context, ctx *Context) error {
	m, ok := ctx.Backend.(storage.Migrator)
	if !ok {
		return nil
	}
	current, latest, err := m.SchemaVersion(bg)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	switch {
	case current > latest:
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	case current < latest:
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	if ctx.Config == nil {
		return warning("no config directory, backups unavailable")
	}
	backups, err := ctx.BackupManager().ListBackups()
	if err != nil {
		return warning("failed to list backups: %v", err)
	}
	if len(backups) == 0 {
		return warning("no backups found - consider creating one with 'streakone backup create'")
	}
	return nil
}

// checkValidation fails on structural problems. Stale streak counts are only
// a warning: they appear whenever a day passes without the streak being done.
func checkValidation(bg context.Context, ctx *Context, fix bool) error {
	result, err := ctx.Repo.Check(bg)
	if err != nil {
		return err
	}
	if !result.HasConflicts() {
		return nil
	}

	if fix {
		actions, err := ctx.Repo.Fix(bg)
		if err != nil {
			return fmt.Errorf("failed to apply fixes: %w", err)
		}
		for _, a := range actions {
			ctx.printf("   Fixed: %s\n", a.Action)
		}
		if result, err = ctx.Repo.Check(bg); err != nil {
			return err
		}
		if !result.HasConflicts() {
			return nil
		}
	}

	var hard, stale []string
	for _, c := range result.Conflicts {
		if c.Type == validation.ConflictStaleStreak {
			stale = append(stale, c.Description)
		} else {
			hard = append(hard, c.Description)
		}
	}
	if len(hard) > 0 {
		return errors.New(strings.Join(hard, "\n   "))
	}
	return warning("%s (run with --fix to refresh)", strings.Join(stale, "\n   "))
}

// checkReminders compares the stored schedule with the streaks' settings.
func checkReminders(bg context.Context, ctx *Context, fix bool) error {
	streaks := ctx.Repo.Load(bg)
	scheduled, err := ctx.Reminders.List(bg)
	if err != nil {
		return fmt.Errorf("failed to read reminders: %w", err)
	}

	problems := reminderDrift(streaks, scheduled)
	if len(problems) == 0 {
		return nil
	}
	if !fix {
		return errors.New(strings.Join(problems, "\n   "))
	}

	known := make(map[string]bool, len(streaks))
	for _, s := range streaks {
		known[s.ID] = true
	}
	for _, r := range scheduled {
		if !known[r.StreakID] {
			if err := ctx.Reminders.Cancel(bg, r.StreakID); err != nil {
				return err
			}
		}
	}
	if err := scheduler.SyncAll(bg, ctx.Reminders, streaks); err != nil {
		return fmt.Errorf("failed to resynchronize reminders: %w", err)
	}
	ctx.printf("   Fixed: resynchronized %d reminder problem(s)\n", len(problems))
	return nil
}

func reminderDrift(streaks []models.Streak, scheduled []models.Reminder) []string {
	byID := make(map[string]models.Reminder, len(scheduled))
	for _, r := range scheduled {
		byID[r.StreakID] = r
	}

	var problems []string
	for _, s := range streaks {
		want, on, err := scheduler.ReminderFor(s)
		got, has := byID[s.ID]
		delete(byID, s.ID)
		switch {
		case err != nil:
			problems = append(problems, err.Error())
		case on && !has:
			problems = append(problems, fmt.Sprintf("%q has a reminder at %s that is not scheduled", s.Name, want.Time))
		case on && got.Time != want.Time:
			problems = append(problems, fmt.Sprintf("%q is scheduled at %s instead of %s", s.Name, got.Time, want.Time))
		case !on && has:
			problems = append(problems, fmt.Sprintf("%q has reminders off but one is scheduled", s.Name))
		}
	}
	for id := range byID {
		problems = append(problems, fmt.Sprintf("reminder scheduled for unknown streak %s", id))
	}
	return problems
}

func checkClockTimezone(now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if now.Location() == time.UTC {
		return warning("timezone is UTC, days roll over at UTC midnight")
	}
	return nil
}
