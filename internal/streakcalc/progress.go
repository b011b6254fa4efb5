package streakcalc

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/streakone/internal/constants"
)

// CalculateProgress returns current/target as a rounded percentage in
// [0, 100]. A target <= 0 means "no goal" and yields 0.
func CalculateProgress(current, target int) int {
	if target <= 0 {
		return 0
	}
	return clampPercent(int(math.Round(float64(current) / float64(target) * 100)))
}

// DaysLeft returns how many more days are needed to reach target.
func DaysLeft(current, target int) int {
	if target <= current {
		return 0
	}
	return target - current
}

type motivationBand struct {
	min    int
	format string // may reference days left with %d
}

// motivationBands are checked top-down; the first band whose minimum the
// progress meets wins.
var motivationBands = []motivationBand{
	{100, "🎉 You reached your goal! Great job!"},
	{90, "🔥 Almost there! Only %d days left!"},
	{75, "💪 You're doing great! %d days left."},
	{50, "✨ Halfway there! Keep going!"},
	{25, "🌱 Good start! Keep it up!"},
	{math.MinInt, "🚀 You've started! Every day matters!"},
}

// MotivationMessage picks an encouragement line for a progress percentage.
func MotivationMessage(progress, daysLeft int) string {
	for _, b := range motivationBands {
		if progress < b.min {
			continue
		}
		if strings.Contains(b.format, "%d") {
			return fmt.Sprintf(b.format, daysLeft)
		}
		return b.format
	}
	return ""
}

// GenerateStreakID returns a new streak identifier.
func GenerateStreakID() string {
	return GenerateStreakIDAt(time.Now())
}

// GenerateStreakIDAt builds an identifier of the form
// "streak-<unix millis>-<9 random chars>".
func GenerateStreakIDAt(t time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("streak-%d-%s", t.UnixMilli(), suffix)
}

// ColorFor returns the palette color for the streak at position index.
func ColorFor(index int) string {
	n := len(constants.StreakColors)
	if index < 0 {
		index = -index
	}
	return constants.StreakColors[index%n]
}

// CreatedAt formats t the way createdAt timestamps are persisted.
func CreatedAt(t time.Time) string {
	return t.UTC().Format(constants.CreatedAtFormat)
}
