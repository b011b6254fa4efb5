package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/streakone/internal/models"
	"github.com/julianstephens/streakone/internal/validation"
)

type EditCmd struct {
	Streak      string `arg:"" help:"Streak id, name or list number."`
	Name        string `help:"New name."`
	Color       string `help:"New color (#rrggbb)."`
	Target      int    `help:"New goal in days."`
	ClearTarget bool   `help:"Remove the goal."`
	Remind      bool   `help:"Enable the daily reminder."`
	NoRemind    bool   `help:"Disable the daily reminder."`
	At          string `help:"Reminder time (HH:MM)."`
}

func (c *EditCmd) Validate() error {
	if c.Remind && c.NoRemind {
		return errors.New("--remind and --no-remind are mutually exclusive")
	}
	if c.Target != 0 && c.ClearTarget {
		return errors.New("--target and --clear-target are mutually exclusive")
	}
	if c.Target < 0 {
		return errors.New("target must be a positive number of days")
	}
	return nil
}

// patch translates the flags into a partial update. Flags left at their zero
// value keep the stored field.
func (c *EditCmd) patch(current models.Streak, defaultTime string) (models.StreakPatch, error) {
	var p models.StreakPatch
	if c.Name != "" {
		p.Name = models.Set(c.Name)
	}
	if c.Color != "" {
		p.Color = models.Set(c.Color)
	}
	if c.Target > 0 {
		p.TargetDays = models.Set(c.Target)
	}
	if c.ClearTarget {
		p.TargetDays = models.Clear[int]()
	}
	if c.At != "" {
		at, err := validation.NormalizeTime(c.At)
		if err != nil {
			return p, err
		}
		p.NotificationTime = models.Set(at)
	}
	if c.Remind {
		p.NotificationEnabled = models.Set(true)
		if c.At == "" && (current.NotificationTime == nil || *current.NotificationTime == "") {
			p.NotificationTime = models.Set(defaultTime)
		}
	}
	if c.NoRemind {
		p.NotificationEnabled = models.Set(false)
	}
	return p, nil
}

func (c *EditCmd) Run(ctx *Context) error {
	if err := ctx.requireStore(); err != nil {
		return err
	}
	bg := context.Background()

	s, err := ctx.resolveStreak(bg, c.Streak)
	if err != nil {
		return err
	}
	p, err := c.patch(s, ctx.reminderTime())
	if err != nil {
		return err
	}
	if p.IsEmpty() {
		ctx.println("Nothing to change")
		return nil
	}

	updated, err := ctx.Repo.UpdateStreak(bg, s.ID, p)
	if err != nil {
		return fmt.Errorf("failed to update streak: %w", err)
	}
	if p.TouchesReminder() {
		ctx.syncReminder(bg, updated)
	}

	ctx.printf("Updated streak: %s\n", updated.Name)
	return nil
}

type DeleteCmd struct {
	Streak string `arg:"" help:"Streak id, name or list number."`
}

func (c *DeleteCmd) Run(ctx *Context) error {
	if err := ctx.requireStore(); err != nil {
		return err
	}
	bg := context.Background()

	s, err := ctx.resolveStreak(bg, c.Streak)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Repo.DeleteStreak(bg, s.ID); err != nil {
		return fmt.Errorf("failed to delete streak: %w", err)
	}
	if err := ctx.Reminders.Cancel(bg, s.ID); err != nil {
		ctx.printf("⚠ Reminder not cancelled: %v\n", err)
	}

	ctx.printf("Deleted streak: %s\n", s.Name)
	return nil
}

type ClearCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ClearCmd) Run(ctx *Context) error {
	if err := ctx.requireStore(); err != nil {
		return err
	}
	bg := context.Background()

	if !c.Yes {
		ctx.println("⚠️  WARNING: This will delete every streak and reminder.")
		ctx.println("A backup of your current data will be created first.")
		ok, err := ctx.confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Clear cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Repo.Clear(bg); err != nil {
		return fmt.Errorf("failed to clear streaks: %w", err)
	}
	if err := ctx.Reminders.CancelAll(bg); err != nil {
		ctx.printf("⚠ Reminders not cancelled: %v\n", err)
	}

	ctx.println("✓ All streaks cleared")
	return nil
}
