package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/streakone/internal/logger"
	"github.com/julianstephens/streakone/internal/models"
	"github.com/julianstephens/streakone/internal/notifier"
	"github.com/julianstephens/streakone/internal/scheduler"
	"github.com/julianstephens/streakone/internal/streakcalc"
)

var newNotifier = func() notifier.Notifier { return notifier.New() }

// NotifyCmd delivers the reminders that came due in the last interval. It is
// meant to run once a minute from cron or a systemd timer.
type NotifyCmd struct {
	DryRun bool          `help:"Print notifications to stdout instead of sending them."`
	Since  time.Duration `help:"How far back to look for due reminders." default:"1m"`
}

func (c *NotifyCmd) Run(ctx *Context) error {
	if err := ctx.requireStore(); err != nil {
		return err
	}
	if c.Since <= 0 {
		return fmt.Errorf("--since must be positive, got %s", c.Since)
	}
	bg := context.Background()

	reminders, err := ctx.Reminders.List(bg)
	if err != nil {
		return fmt.Errorf("failed to read reminders: %w", err)
	}

	now := ctx.Now()
	due := scheduler.DueAt(reminders, now, now.Add(-c.Since))
	if len(due) == 0 {
		if c.DryRun {
			ctx.println("No reminders due.")
		}
		return nil
	}

	var n notifier.Notifier = notifier.DryRun{W: ctx.Out}
	if !c.DryRun {
		n = newNotifier()
	}

	streaks := make(map[string]models.Streak)
	for _, s := range ctx.Repo.Load(bg) {
		streaks[s.ID] = s
	}

	var errs []error
	for _, r := range due {
		s, ok := streaks[r.StreakID]
		if !ok {
			logger.Warn("Dropping reminder for missing streak", "streak", r.StreakID)
			if err := ctx.Reminders.Cancel(bg, r.StreakID); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		// The stored count is from when the reminder was scheduled.
		r.Name = s.Name
		r.Streak = streakcalc.RunningStreakAt(s.DoneDates, now)

		if err := n.Notify(bg, scheduler.Title(r), scheduler.Body(r)); err != nil {
			logger.Warn("Failed to deliver reminder", "streak", r.StreakID, "error", err)
			ctx.Metrics.ReminderDelivered(deliveryOutcome(err))
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
			continue
		}
		ctx.Metrics.ReminderDelivered("ok")
		logger.Debug("Delivered reminder", "streak", r.StreakID)
	}

	if len(errs) > 0 {
		ctx.printf("Failed to send %d notification(s)\n", len(errs))
		return errors.Join(errs...)
	}
	return nil
}

func deliveryOutcome(err error) string {
	if errors.Is(err, notifier.ErrTrayNotRunning) {
		return "tray_not_running"
	}
	return "error"
}
