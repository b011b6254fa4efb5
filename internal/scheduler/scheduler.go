package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/streakone/internal/logger"
	"github.com/julianstephens/streakone/internal/models"
	"github.com/julianstephens/streakone/internal/validation"
)

// ErrInvalidTime is returned when a streak's reminder time is not HH:MM.
var ErrInvalidTime = errors.New("invalid reminder time")

// ReminderScheduler keeps at most one daily reminder per streak.
type ReminderScheduler interface {
	// Schedule replaces any reminder registered for r.StreakID.
	Schedule(ctx context.Context, r models.Reminder) error
	// Cancel removes every reminder for streakID. Cancelling a streak
	// without reminders succeeds.
	Cancel(ctx context.Context, streakID string) error
}

// ReminderFor derives the reminder of s. The bool is false when s has
// reminders switched off or no time set.
func ReminderFor(s models.Streak) (models.Reminder, bool, error) {
	if !s.RemindersOn() {
		return models.Reminder{}, false, nil
	}
	at, err := validation.NormalizeTime(*s.NotificationTime)
	if err != nil {
		return models.Reminder{}, false, fmt.Errorf("%w: %q for streak %s", ErrInvalidTime, *s.NotificationTime, s.ID)
	}
	return models.Reminder{
		StreakID: s.ID,
		Name:     s.Name,
		Streak:   s.Streak,
		Time:     at,
	}, true, nil
}

// Title is the notification headline for r.
func Title(r models.Reminder) string {
	return "🔥 " + r.Name
}

// Body is the notification text for r.
func Body(r models.Reminder) string {
	return fmt.Sprintf("Don't forget to complete your %d day streak today!", r.Streak)
}

// Apply brings the schedule for s in line with its settings: an enabled
// reminder with a valid time is (re)scheduled, anything else is cancelled.
// An invalid time cancels the old reminder and returns ErrInvalidTime.
func Apply(ctx context.Context, sched ReminderScheduler, s models.Streak) error {
	r, on, err := ReminderFor(s)
	if err != nil || !on {
		if cerr := sched.Cancel(ctx, s.ID); cerr != nil {
			logger.Warn("Failed to cancel reminder", "streak", s.ID, "error", cerr)
			return errors.Join(err, cerr)
		}
		return err
	}
	if err := sched.Schedule(ctx, r); err != nil {
		logger.Warn("Failed to schedule reminder", "streak", s.ID, "error", err)
		return err
	}
	logger.Debug("Scheduled reminder", "streak", s.ID, "at", r.Time)
	return nil
}

// SyncAll applies every streak in turn and joins the failures; one bad
// streak does not stop the others.
func SyncAll(ctx context.Context, sched ReminderScheduler, streaks []models.Streak) error {
	var errs []error
	for _, s := range streaks {
		if err := Apply(ctx, sched, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// fireOn returns when r fires on the calendar day of day, in day's zone.
func fireOn(r models.Reminder, day time.Time) (time.Time, bool) {
	h, m, err := validation.ParseTime(r.Time)
	if err != nil {
		return time.Time{}, false
	}
	y, mo, d := day.Date()
	return time.Date(y, mo, d, h, m, 0, 0, day.Location()), true
}

// NextFire returns the first time after now that r goes off.
func NextFire(r models.Reminder, now time.Time) (time.Time, bool) {
	t, ok := fireOn(r, now)
	if !ok {
		return time.Time{}, false
	}
	if !t.After(now) {
		t, _ = fireOn(r, now.AddDate(0, 0, 1))
	}
	return t, true
}

// DueAt returns the reminders whose time of day falls in (since, now],
// each at most once. Times are read in now's zone.
func DueAt(reminders []models.Reminder, now, since time.Time) []models.Reminder {
	if !since.Before(now) {
		return nil
	}
	since = since.In(now.Location())
	// Look back at most one day; older misses are not replayed.
	if floor := now.AddDate(0, 0, -1); since.Before(floor) {
		since = floor
	}

	var due []models.Reminder
	for _, r := range reminders {
		for _, day := range []time.Time{since, now} {
			t, ok := fireOn(r, day)
			if ok && t.After(since) && !t.After(now) {
				due = append(due, r)
				break
			}
		}
	}
	return due
}
