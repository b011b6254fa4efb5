package detail

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/streakone/internal/models"
)

func TestContent(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	s := models.Streak{
		Name:                "Read",
		DoneDates:           []string{"Sat Jan 13 2024", "Sun Jan 14 2024", "Mon Jan 15 2024"},
		Streak:              3,
		TargetDays:          models.Ptr(10),
		NotificationEnabled: models.Ptr(true),
		NotificationTime:    models.Ptr("08:15"),
	}

	got := Content(s, now)
	for _, want := range []string{
		"Read",
		"Current streak",
		"🔥 3",
		"3/10 days",
		"30%",
		"Bronze",
		"4 more to Bronze",
		"Daily reminder at 08:15",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Content() missing %q:\n%s", want, got)
		}
	}
}

func TestContent_NoGoal(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	got := Content(models.Streak{Name: "Run"}, now)
	if strings.Contains(got, "Goal") {
		t.Errorf("streak without a goal should not render one:\n%s", got)
	}
	if strings.Contains(got, "Daily reminder") {
		t.Errorf("streak without reminders should not render one:\n%s", got)
	}
}

func TestView_NoStreak(t *testing.T) {
	m := New(40, 10)
	m.SetStreak(nil, time.Now())
	if got := m.View(); got != "No streak selected." {
		t.Errorf("View() = %q", got)
	}
}
