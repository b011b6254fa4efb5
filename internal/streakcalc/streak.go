package streakcalc

import (
	"errors"
	"math"
	"time"

	"github.com/julianstephens/streakone/internal/constants"
	"github.com/julianstephens/streakone/internal/models"
)

// ErrAlreadyDone is returned when today is already marked for a streak.
var ErrAlreadyDone = errors.New("already marked done today")

// CalculateStreak returns the number of consecutive days ending today that
// have a done marker.
func CalculateStreak(doneDates []string) int {
	return CalculateStreakAt(doneDates, time.Now())
}

// CalculateStreakAt counts consecutive marked days backwards from the
// calendar day of now. A missing marker for that day yields 0; callers that
// want "what would my streak become" append today's marker first.
func CalculateStreakAt(doneDates []string, now time.Time) int {
	if len(doneDates) == 0 {
		return 0
	}

	today := civil(now)
	count := 0
	for i, d := range uniqueDays(doneDates, now.Location()) {
		if !d.Equal(today.AddDate(0, 0, -i)) {
			break
		}
		count++
	}
	return count
}

// RunningStreakAt is the run a reminder should report: the streak ending
// today when today is marked, otherwise the one ending yesterday, which is
// still alive until the day is over.
func RunningStreakAt(doneDates []string, now time.Time) int {
	if ContainsDay(doneDates, now) {
		return CalculateStreakAt(doneDates, now)
	}
	return CalculateStreakAt(doneDates, now.AddDate(0, 0, -1))
}

// LongestStreak returns the longest run of consecutive days anywhere in the
// history.
func LongestStreak(doneDates []string, loc *time.Location) int {
	days := uniqueDays(doneDates, loc)
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, -1).Equal(days[i]) {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// CompletionRateAt returns the percentage of the last window days (today
// included) that carry a marker.
func CompletionRateAt(doneDates []string, now time.Time, window int) int {
	if window <= 0 {
		return 0
	}

	today := civil(now)
	earliest := today.AddDate(0, 0, -(window - 1))
	hits := 0
	for _, d := range uniqueDays(doneDates, now.Location()) {
		if d.After(today) || d.Before(earliest) {
			continue
		}
		hits++
	}
	return clampPercent(int(math.Round(float64(hits) / float64(window) * 100)))
}

// StatsAt summarizes a history for the statistics view.
func StatsAt(doneDates []string, now time.Time) models.Stats {
	return models.Stats{
		TotalDays:      len(uniqueDays(doneDates, now.Location())),
		CurrentStreak:  CalculateStreakAt(doneDates, now),
		LongestStreak:  LongestStreak(doneDates, now.Location()),
		CompletionRate: CompletionRateAt(doneDates, now, constants.CompletionWindowDays),
	}
}

// Refresh returns s with its cached streak recomputed for now.
func Refresh(s models.Streak, now time.Time) models.Streak {
	out := s.Clone()
	out.Streak = CalculateStreakAt(s.DoneDates, now)
	return out
}

// MarkResult describes the effect of marking a streak done.
type MarkResult struct {
	Streak    models.Streak
	Previous  int
	Milestone *models.Milestone // newly reached, nil if none
}

// MarkDone appends the calendar day of now to s, recomputes the cached
// streak and reports a milestone crossed by the change. Marking the same
// day twice returns ErrAlreadyDone and leaves s unchanged.
func MarkDone(s models.Streak, now time.Time) (MarkResult, error) {
	return DefaultMilestones.MarkDone(s, now)
}

// MarkDone is the table-aware form of the package-level MarkDone.
func (ms Milestones) MarkDone(s models.Streak, now time.Time) (MarkResult, error) {
	if ContainsDay(s.DoneDates, now) {
		return MarkResult{Streak: s}, ErrAlreadyDone
	}

	// The streak as it stood at the end of yesterday; the cached value may
	// be stale when the record was not refreshed.
	previous := CalculateStreakAt(s.DoneDates, now.AddDate(0, 0, -1))

	out := s.Clone()
	out.DoneDates = append(out.DoneDates, FormatDay(now))
	out.Streak = CalculateStreakAt(out.DoneDates, now)

	res := MarkResult{Streak: out, Previous: previous}
	if m, ok := ms.Reached(out.Streak, previous); ok {
		res.Milestone = &m
	}
	return res, nil
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
