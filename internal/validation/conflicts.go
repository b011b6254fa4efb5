package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/streakone/internal/models"
	"github.com/julianstephens/streakone/internal/streakcalc"
)

type ConflictType string

const (
	ConflictDuplicateID  ConflictType = "duplicate_id"
	ConflictEmptyName    ConflictType = "empty_name"
	ConflictStaleStreak  ConflictType = "stale_streak"
	ConflictDuplicateDay ConflictType = "duplicate_day"
	ConflictInvalidDate  ConflictType = "invalid_date"
	ConflictInvalidField ConflictType = "invalid_field"
)

// Conflict is one problem found in a stored collection.
type Conflict struct {
	Type        ConflictType
	Description string
	StreakID    string
	Fixable     bool
}

type Result struct {
	Conflicts []Conflict
}

func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

func (r *Result) add(c Conflict) {
	r.Conflicts = append(r.Conflicts, c)
}

// FormatReport returns a human-readable list of all conflicts.
func (r *Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts detected."
	}
	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// CheckCollection inspects a loaded collection for problems that the
// repository would not create itself but older releases or hand edits can.
func CheckCollection(streaks []models.Streak, now time.Time) Result {
	result := Result{Conflicts: []Conflict{}}
	loc := now.Location()

	ids := make(map[string]int)
	for _, s := range streaks {
		ids[s.ID]++
	}
	reported := make(map[string]bool)
	for _, s := range streaks {
		if ids[s.ID] > 1 && !reported[s.ID] {
			reported[s.ID] = true
			result.add(Conflict{
				Type:        ConflictDuplicateID,
				Description: fmt.Sprintf("Streak id %q is used by %d records", s.ID, ids[s.ID]),
				StreakID:    s.ID,
				Fixable:     true,
			})
		}
	}

	for _, s := range streaks {
		label := s.Name
		if strings.TrimSpace(label) == "" {
			label = s.ID
			result.add(Conflict{
				Type:        ConflictEmptyName,
				Description: fmt.Sprintf("Streak %q has an empty name", s.ID),
				StreakID:    s.ID,
			})
		}

		seen := make(map[time.Time]bool)
		for _, d := range s.DoneDates {
			day, err := streakcalc.ParseDay(d, loc)
			if err != nil {
				result.add(Conflict{
					Type:        ConflictInvalidDate,
					Description: fmt.Sprintf("Streak %q has an unreadable done date %q", label, d),
					StreakID:    s.ID,
				})
				continue
			}
			if seen[day] {
				result.add(Conflict{
					Type:        ConflictDuplicateDay,
					Description: fmt.Sprintf("Streak %q marks %s more than once", label, streakcalc.FormatDay(day)),
					StreakID:    s.ID,
					Fixable:     true,
				})
			}
			seen[day] = true
		}

		if want := streakcalc.CalculateStreakAt(s.DoneDates, now); s.Streak != want {
			result.add(Conflict{
				Type:        ConflictStaleStreak,
				Description: fmt.Sprintf("Streak %q caches %d days but its history gives %d", label, s.Streak, want),
				StreakID:    s.ID,
				Fixable:     true,
			})
		}

		if s.Color != nil && ValidateColor(*s.Color) != nil {
			result.add(Conflict{
				Type:        ConflictInvalidField,
				Description: fmt.Sprintf("Streak %q has an invalid color %q", label, *s.Color),
				StreakID:    s.ID,
			})
		}
		if s.TargetDays != nil && ValidateTarget(*s.TargetDays) != nil {
			result.add(Conflict{
				Type:        ConflictInvalidField,
				Description: fmt.Sprintf("Streak %q has a non-positive target %d", label, *s.TargetDays),
				StreakID:    s.ID,
			})
		}
		if s.NotificationTime != nil && ValidateTime(*s.NotificationTime) != nil {
			result.add(Conflict{
				Type:        ConflictInvalidField,
				Description: fmt.Sprintf("Streak %q has an invalid reminder time %q", label, *s.NotificationTime),
				StreakID:    s.ID,
			})
		}
	}

	return result
}

// FixAction describes one change made by AutoFix.
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

// AutoFix repairs the fixable conflicts: later records with a repeated id
// are dropped, repeated days are collapsed and cached streaks recomputed.
// It returns the repaired collection and what was done.
func AutoFix(streaks []models.Streak, conflicts []Conflict, now time.Time) ([]models.Streak, []FixAction) {
	byType := make(map[ConflictType]map[string]Conflict)
	for _, c := range conflicts {
		if !c.Fixable {
			continue
		}
		if byType[c.Type] == nil {
			byType[c.Type] = make(map[string]Conflict)
		}
		byType[c.Type][c.StreakID] = c
	}

	actions := []FixAction{}
	out := make([]models.Streak, 0, len(streaks))
	kept := make(map[string]bool)

	for _, s := range streaks {
		if c, ok := byType[ConflictDuplicateID][s.ID]; ok && kept[s.ID] {
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Removed duplicate record %q (%s)", s.ID, s.Name),
				SourceConflict: c,
			})
			continue
		}
		kept[s.ID] = true

		fixed := s.Clone()
		if c, ok := byType[ConflictDuplicateDay][s.ID]; ok {
			before := len(fixed.DoneDates)
			fixed.DoneDates = streakcalc.DedupeDays(fixed.DoneDates, now.Location())
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Removed %d repeated day(s) from %q", before-len(fixed.DoneDates), s.Name),
				SourceConflict: c,
			})
		}
		if want := streakcalc.CalculateStreakAt(fixed.DoneDates, now); fixed.Streak != want {
			fixed.Streak = want
			if c, ok := byType[ConflictStaleStreak][s.ID]; ok {
				actions = append(actions, FixAction{
					Action:         fmt.Sprintf("Recomputed streak of %q to %d", s.Name, want),
					SourceConflict: c,
				})
			}
		}
		out = append(out, fixed)
	}

	return out, actions
}
