package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streakone/internal/constants"
	"github.com/julianstephens/streakone/internal/models"
	"github.com/julianstephens/streakone/internal/streakcalc"
	"github.com/julianstephens/streakone/internal/validation"
)

// validateTarget accepts an empty value, meaning no goal.
func validateTarget(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("goal must be a number of days")
	}
	return validation.ValidateTarget(n)
}

func colorOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(constants.StreakColors))
	for i, c := range constants.StreakColors {
		opts[i] = huh.NewOption(c, c)
	}
	return opts
}

// NewAddForm creates the form for a new streak
func NewAddForm(fm *StreakFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Streak Name").
				Value(&fm.Name).
				Validate(validation.ValidateName),
			huh.NewInput().
				Title("Goal (days)").
				Description("Leave empty for no goal").
				Value(&fm.Target).
				Validate(validateTarget),
			huh.NewSelect[string]().
				Title("Color").
				Options(colorOptions()...).
				Value(&fm.Color),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewRenameForm(fm *StreakFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(validation.ValidateName),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewTargetForm(fm *StreakFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Goal (days)").
				Description("Leave empty to remove the goal").
				Value(&fm.Target).
				Validate(validateTarget),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewReminderForm(fm *StreakFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Daily reminder").
				Affirmative("On").
				Negative("Off").
				Value(&fm.Remind),
			huh.NewInput().
				Title("Time (HH:MM)").
				Value(&fm.Time).
				Validate(validation.ValidateTime),
		),
	).WithTheme(huh.ThemeDracula())
}

// targetField turns the goal input into a patch field; empty clears it.
func targetField(s string) models.Field[int] {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.Clear[int]()
	}
	n, _ := strconv.Atoi(s)
	return models.Set(n)
}

// applyForm saves the completed form. It reports whether it succeeded; on
// failure the status line carries the error.
func (m *Model) applyForm() bool {
	ctx := context.Background()
	fm := m.streakForm
	m.setStatus("")

	switch m.formKind {
	case formAdd:
		s := streakcalc.NewStreak(fm.Name, len(m.streaks), m.now())
		if fm.Color != "" {
			s.Color = models.Ptr(fm.Color)
		}
		if v, ok := targetField(fm.Target).Value(); ok {
			s.TargetDays = models.Ptr(v)
		}
		if err := m.repo.AddStreak(ctx, s); err != nil {
			m.setError("add streak", err)
			return false
		}
		m.setStatus("Added " + s.Name)
		return true
	}

	var p models.StreakPatch
	switch m.formKind {
	case formRename:
		p.Name = models.Set(strings.TrimSpace(fm.Name))
	case formTarget:
		p.TargetDays = targetField(fm.Target)
	case formReminder:
		at, err := validation.NormalizeTime(fm.Time)
		if err != nil {
			m.setError("set reminder", err)
			return false
		}
		p.NotificationEnabled = models.Set(fm.Remind)
		p.NotificationTime = models.Set(at)
	}

	updated, err := m.repo.UpdateStreak(ctx, m.editingID, p)
	if err != nil {
		m.setError("update streak", err)
		return false
	}
	if p.TouchesReminder() {
		m.syncReminder(updated)
	}
	if !m.statusIsError {
		m.setStatus("Updated " + updated.Name)
	}
	return true
}
