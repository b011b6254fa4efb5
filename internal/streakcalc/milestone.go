package streakcalc

import (
	"fmt"

	"github.com/julianstephens/streakone/internal/models"
)

// Milestones is a milestone table in ascending order of Days.
type Milestones []models.Milestone

// DefaultMilestones are the built-in badges.
var DefaultMilestones = Milestones{
	{Days: 7, Name: "Bronze", Emoji: "🌟", Color: "#cd7f32"},
	{Days: 30, Name: "Silver", Emoji: "🥈", Color: "#c0c0c0"},
	{Days: 100, Name: "Gold", Emoji: "🥇", Color: "#ffd700"},
	{Days: 365, Name: "Diamond", Emoji: "💎", Color: "#b9f2ff"},
}

// Current returns the highest milestone with Days <= streak.
func (ms Milestones) Current(streak int) (models.Milestone, bool) {
	for i := len(ms) - 1; i >= 0; i-- {
		if streak >= ms[i].Days {
			return ms[i], true
		}
	}
	return models.Milestone{}, false
}

// Next returns the lowest milestone with Days > streak, or false once every
// milestone is achieved.
func (ms Milestones) Next(streak int) (models.Milestone, bool) {
	for _, m := range ms {
		if streak < m.Days {
			return m, true
		}
	}
	return models.Milestone{}, false
}

// Achieved returns every milestone with Days <= streak, ascending.
func (ms Milestones) Achieved(streak int) []models.Milestone {
	out := []models.Milestone{}
	for _, m := range ms {
		if streak >= m.Days {
			out = append(out, m)
		}
	}
	return out
}

// Reached returns the milestone with previous < Days <= current. When a
// jump crosses several thresholds the lowest one is returned; callers show
// one celebration at a time.
func (ms Milestones) Reached(current, previous int) (models.Milestone, bool) {
	for _, m := range ms {
		if previous < m.Days && m.Days <= current {
			return m, true
		}
	}
	return models.Milestone{}, false
}

func GetCurrentMilestone(streak int) (models.Milestone, bool) {
	return DefaultMilestones.Current(streak)
}

func GetNextMilestone(streak int) (models.Milestone, bool) {
	return DefaultMilestones.Next(streak)
}

func GetAchievedMilestones(streak int) []models.Milestone {
	return DefaultMilestones.Achieved(streak)
}

func CheckMilestoneReached(newStreak, previousStreak int) (models.Milestone, bool) {
	return DefaultMilestones.Reached(newStreak, previousStreak)
}

// MilestoneMessage is the celebration text shown when m is reached.
func MilestoneMessage(m models.Milestone) string {
	return fmt.Sprintf("🎉 %s Congratulations! You've reached %d days - %s milestone!", m.Emoji, m.Days, m.Name)
}
