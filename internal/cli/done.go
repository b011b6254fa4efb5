package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/streakone/internal/repository"
	"github.com/julianstephens/streakone/internal/streakcalc"
)

type DoneCmd struct {
	Streak string `arg:"" help:"Streak id, name or list number."`
}

func (c *DoneCmd) Run(ctx *Context) error {
	if err := ctx.requireStore(); err != nil {
		return err
	}
	bg := context.Background()

	s, err := ctx.resolveStreak(bg, c.Streak)
	if err != nil {
		return err
	}

	updated, milestone, err := ctx.Repo.MarkDone(bg, s.ID, ctx.Now())
	if errors.Is(err, repository.ErrAlreadyDone) {
		ctx.printf("%s is already done today (🔥 %d)\n", s.Name, ctx.Repo.Refresh(s).Streak)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to mark %s done: %w", s.Name, err)
	}

	ctx.printf("✓ %s done - 🔥 %d %s\n", updated.Name, updated.Streak, dayWord(updated.Streak))
	if milestone != nil {
		ctx.println(streakcalc.MilestoneMessage(*milestone))
	}
	if t := updated.Target(); t > 0 {
		progress := streakcalc.CalculateProgress(updated.Streak, t)
		ctx.println(streakcalc.MotivationMessage(progress, streakcalc.DaysLeft(updated.Streak, t)))
	}

	// Keep the streak count in the reminder text current.
	if updated.RemindersOn() {
		ctx.syncReminder(bg, updated)
	}
	return nil
}
