package cli

import (
	"context"
	"fmt"

	"github.com/julianstephens/streakone/internal/models"
	"github.com/julianstephens/streakone/internal/streakcalc"
	"github.com/julianstephens/streakone/internal/validation"
)

type AddCmd struct {
	Name   string `arg:"" help:"Streak name."`
	Target int    `short:"t" help:"Goal in days (0 for none)."`
	Color  string `short:"c" help:"Color as #rrggbb (defaults to the palette)."`
	Remind bool   `short:"r" help:"Enable a daily reminder."`
	At     string `help:"Reminder time (HH:MM). Defaults to the configured reminder time."`
}

func (c *AddCmd) Validate() error {
	if err := validation.ValidateName(c.Name); err != nil {
		return err
	}
	if c.Target < 0 {
		return fmt.Errorf("target must be a positive number of days")
	}
	if c.Color != "" {
		if err := validation.ValidateColor(c.Color); err != nil {
			return err
		}
	}
	if c.At != "" {
		if err := validation.ValidateTime(c.At); err != nil {
			return err
		}
	}
	return nil
}

func (c *AddCmd) Run(ctx *Context) error {
	if err := ctx.requireStore(); err != nil {
		return err
	}
	bg := context.Background()

	existing := ctx.Repo.Load(bg)
	s := streakcalc.NewStreak(c.Name, len(existing), ctx.Now())
	if c.Color != "" {
		s.Color = models.Ptr(c.Color)
	}
	if c.Target > 0 {
		s.TargetDays = models.Ptr(c.Target)
	}
	if c.Remind || c.At != "" {
		at := c.At
		if at == "" {
			at = ctx.reminderTime()
		}
		normalized, err := validation.NormalizeTime(at)
		if err != nil {
			return err
		}
		s.NotificationEnabled = models.Ptr(true)
		s.NotificationTime = models.Ptr(normalized)
	}

	if err := ctx.Repo.AddStreak(bg, s); err != nil {
		return fmt.Errorf("failed to add streak: %w", err)
	}
	ctx.syncReminder(bg, s)

	ctx.printf("Added streak: %s (%s)\n", s.Name, s.ID)
	if s.RemindersOn() {
		ctx.printf("  Reminder: daily at %s\n", *s.NotificationTime)
	}
	return nil
}
