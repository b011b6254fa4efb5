package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/streakone/internal/models"
)

var checkNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func hasConflict(r Result, typ ConflictType, id string) bool {
	for _, c := range r.Conflicts {
		if c.Type == typ && c.StreakID == id {
			return true
		}
	}
	return false
}

func TestCheckCollection_Clean(t *testing.T) {
	streaks := []models.Streak{
		{ID: "a", Name: "Read", DoneDates: []string{"Mon Jan 15 2024", "Sun Jan 14 2024"}, Streak: 2},
		{ID: "b", Name: "Run", DoneDates: []string{}, Streak: 0, Color: models.Ptr("#22c55e")},
	}

	r := CheckCollection(streaks, checkNow)
	if r.HasConflicts() {
		t.Errorf("expected no conflicts, got:\n%s", r.FormatReport())
	}
	if r.FormatReport() != "No conflicts detected." {
		t.Errorf("unexpected report %q", r.FormatReport())
	}
}

func TestCheckCollection_DetectsProblems(t *testing.T) {
	streaks := []models.Streak{
		{ID: "a", Name: "Read", DoneDates: []string{"Mon Jan 15 2024", "2024-01-15"}, Streak: 1},
		{ID: "a", Name: "Read again", DoneDates: []string{}, Streak: 0},
		{ID: "b", Name: " ", DoneDates: []string{"whenever"}, Streak: 5},
		{ID: "c", Name: "Bad fields", DoneDates: []string{}, TargetDays: models.Ptr(0), NotificationTime: models.Ptr("99:99")},
	}

	r := CheckCollection(streaks, checkNow)

	checks := []struct {
		typ ConflictType
		id  string
	}{
		{ConflictDuplicateID, "a"},
		{ConflictDuplicateDay, "a"},
		{ConflictEmptyName, "b"},
		{ConflictInvalidDate, "b"},
		{ConflictStaleStreak, "b"},
		{ConflictInvalidField, "c"},
	}
	for _, c := range checks {
		if !hasConflict(r, c.typ, c.id) {
			t.Errorf("expected %s conflict for %q", c.typ, c.id)
		}
	}
	if !strings.HasPrefix(r.FormatReport(), "Conflicts detected:") {
		t.Errorf("unexpected report header: %q", r.FormatReport())
	}
}

func TestAutoFix(t *testing.T) {
	streaks := []models.Streak{
		{ID: "a", Name: "Read", DoneDates: []string{"Mon Jan 15 2024", "2024-01-15", "Sun Jan 14 2024"}, Streak: 9},
		{ID: "a", Name: "Shadow", DoneDates: []string{}},
		{ID: "b", Name: "Run", DoneDates: []string{}, Streak: 0},
	}

	r := CheckCollection(streaks, checkNow)
	fixed, actions := AutoFix(streaks, r.Conflicts, checkNow)

	if len(fixed) != 2 {
		t.Fatalf("expected duplicate record to be dropped, got %d records", len(fixed))
	}
	if fixed[0].Name != "Read" {
		t.Errorf("the first record with a repeated id should win, got %q", fixed[0].Name)
	}
	if len(fixed[0].DoneDates) != 2 {
		t.Errorf("expected repeated day removed, got %v", fixed[0].DoneDates)
	}
	if fixed[0].Streak != 2 {
		t.Errorf("expected recomputed streak 2, got %d", fixed[0].Streak)
	}
	if len(actions) != 3 {
		t.Errorf("expected 3 fix actions, got %d: %+v", len(actions), actions)
	}
	if len(streaks[0].DoneDates) != 3 {
		t.Error("AutoFix must not mutate its input")
	}

	after := CheckCollection(fixed, checkNow)
	if after.HasConflicts() {
		t.Errorf("conflicts remain after fix:\n%s", after.FormatReport())
	}
}
