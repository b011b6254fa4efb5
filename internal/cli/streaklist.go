package cli

import (
	"context"

	"github.com/julianstephens/streakone/internal/models"
	"github.com/julianstephens/streakone/internal/streakcalc"
)

type ListCmd struct {
	Pending bool `help:"Show only streaks not yet done today."`
}

func (c *ListCmd) Run(ctx *Context) error {
	if err := ctx.requireStore(); err != nil {
		return err
	}

	streaks := ctx.Repo.Load(context.Background())
	if len(streaks) == 0 {
		ctx.println("No streaks found")
		return nil
	}

	now := ctx.Now()
	ctx.println("Streaks:")
	for i, s := range streaks {
		s = ctx.Repo.Refresh(s)
		done := streakcalc.ContainsDay(s.DoneDates, now)
		if c.Pending && done {
			continue
		}

		mark := " "
		if done {
			mark = "✓"
		}
		ctx.printf("  %d. [%s] %s - 🔥 %d %s\n", i+1, mark, s.Name, s.Streak, dayWord(s.Streak))
		if t := s.Target(); t > 0 {
			ctx.printf("      Goal: %d/%d days (%d%%)\n", s.Streak, t, streakcalc.CalculateProgress(s.Streak, t))
		}
	}
	return nil
}

type ShowCmd struct {
	Streak string `arg:"" help:"Streak id, name or list number."`
}

func (c *ShowCmd) Run(ctx *Context) error {
	if err := ctx.requireStore(); err != nil {
		return err
	}
	s, err := ctx.resolveStreak(context.Background(), c.Streak)
	if err != nil {
		return err
	}
	s = ctx.Repo.Refresh(s)
	now := ctx.Now()

	ctx.printf("%s\n", s.Name)
	ctx.printf("  ID:       %s\n", s.ID)
	ctx.printf("  Created:  %s\n", s.CreatedAt)
	if s.Color != nil {
		ctx.printf("  Color:    %s\n", *s.Color)
	}
	ctx.printf("  Streak:   %d %s\n", s.Streak, dayWord(s.Streak))
	if streakcalc.ContainsDay(s.DoneDates, now) {
		ctx.println("  Today:    done")
	} else {
		ctx.println("  Today:    not done yet")
	}

	if t := s.Target(); t > 0 {
		progress := streakcalc.CalculateProgress(s.Streak, t)
		ctx.printf("  Goal:     %d/%d days (%d%%)\n", s.Streak, t, progress)
		ctx.printf("            %s\n", streakcalc.MotivationMessage(progress, streakcalc.DaysLeft(s.Streak, t)))
	}

	if m, ok := streakcalc.GetCurrentMilestone(s.Streak); ok {
		ctx.printf("  Badge:    %s %s\n", m.Emoji, m.Name)
	}
	if m, ok := streakcalc.GetNextMilestone(s.Streak); ok {
		ctx.printf("  Next:     %s %s in %d %s\n", m.Emoji, m.Name, m.Days-s.Streak, dayWord(m.Days-s.Streak))
	}

	if s.RemindersOn() {
		ctx.printf("  Reminder: daily at %s\n", *s.NotificationTime)
	} else {
		ctx.println("  Reminder: off")
	}
	return nil
}

type StatsCmd struct {
	Streak string `arg:"" optional:"" help:"Streak id, name or list number. Shows all streaks when omitted."`
}

func (c *StatsCmd) Run(ctx *Context) error {
	if err := ctx.requireStore(); err != nil {
		return err
	}
	bg := context.Background()

	var streaks []models.Streak
	if c.Streak != "" {
		s, err := ctx.resolveStreak(bg, c.Streak)
		if err != nil {
			return err
		}
		streaks = []models.Streak{s}
	} else {
		streaks = ctx.Repo.Load(bg)
	}
	if len(streaks) == 0 {
		ctx.println("No streaks found")
		return nil
	}

	now := ctx.Now()
	for _, s := range streaks {
		st := streakcalc.StatsAt(s.DoneDates, now)
		ctx.printf("%s\n", s.Name)
		ctx.printf("  Current streak:  %d\n", st.CurrentStreak)
		ctx.printf("  Longest streak:  %d\n", st.LongestStreak)
		ctx.printf("  Total days:      %d\n", st.TotalDays)
		ctx.printf("  Last 30 days:    %d%%\n", st.CompletionRate)
	}
	return nil
}

type MilestonesCmd struct {
	Streak string `arg:"" optional:"" help:"Mark the milestones reached by this streak."`
}

func (c *MilestonesCmd) Run(ctx *Context) error {
	current := -1
	if c.Streak != "" {
		if err := ctx.requireStore(); err != nil {
			return err
		}
		s, err := ctx.resolveStreak(context.Background(), c.Streak)
		if err != nil {
			return err
		}
		current = ctx.Repo.Refresh(s).Streak
		ctx.printf("Milestones for %s (%d %s):\n", s.Name, current, dayWord(current))
	} else {
		ctx.println("Milestones:")
	}

	for _, m := range streakcalc.DefaultMilestones {
		mark := " "
		if current >= m.Days {
			mark = "✓"
		}
		ctx.printf("  [%s] %s %-8s %d days\n", mark, m.Emoji, m.Name, m.Days)
	}
	return nil
}

func dayWord(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}
