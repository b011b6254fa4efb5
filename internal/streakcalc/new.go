package streakcalc

import (
	"strings"
	"time"

	"github.com/julianstephens/streakone/internal/models"
)

// NewStreak builds a fresh record named name. position is the index the
// record will take in the collection and picks its palette color.
func NewStreak(name string, position int, now time.Time) models.Streak {
	return models.Streak{
		ID:        GenerateStreakIDAt(now),
		Name:      strings.TrimSpace(name),
		DoneDates: []string{},
		Streak:    0,
		CreatedAt: CreatedAt(now),
		Color:     models.Ptr(ColorFor(position)),
	}
}
