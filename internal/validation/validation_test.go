package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/streakone/internal/models"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Read", false},
		{"padded", "  Read  ", false},
		{"empty", "", true},
		{"whitespace", "   \t", true},
		{"max length", strings.Repeat("a", 50), false},
		{"too long", strings.Repeat("a", 51), true},
		{"multibyte counts runes", strings.Repeat("🔥", 50), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateName(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		input      string
		hour, min  int
		wantErr    bool
		normalized string
	}{
		{"09:00", 9, 0, false, "09:00"},
		{"9:05", 9, 5, false, "09:05"},
		{"23:59", 23, 59, false, "23:59"},
		{"00:00", 0, 0, false, "00:00"},
		{"24:00", 0, 0, true, ""},
		{"12:60", 0, 0, true, ""},
		{"noon", 0, 0, true, ""},
		{"9", 0, 0, true, ""},
		{"", 0, 0, true, ""},
	}

	for _, tt := range tests {
		h, m, err := ParseTime(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTime(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if h != tt.hour || m != tt.min {
			t.Errorf("ParseTime(%q) = %d:%d", tt.input, h, m)
		}
		if got, _ := NormalizeTime(tt.input); got != tt.normalized {
			t.Errorf("NormalizeTime(%q) = %q, want %q", tt.input, got, tt.normalized)
		}
	}
}

func TestValidateColor(t *testing.T) {
	for _, ok := range []string{"#22c55e", "#ABCDEF"} {
		if err := ValidateColor(ok); err != nil {
			t.Errorf("ValidateColor(%q) unexpected error %v", ok, err)
		}
	}
	for _, bad := range []string{"22c55e", "#fff", "#gggggg", "red"} {
		if err := ValidateColor(bad); err == nil {
			t.Errorf("ValidateColor(%q) expected error", bad)
		}
	}
}

func TestValidateDoneDates(t *testing.T) {
	if err := ValidateDoneDates([]string{"Mon Jan 15 2024", "Sun Jan 14 2024"}, time.UTC); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateDoneDates([]string{"Mon Jan 15 2024", "2024-01-15"}, time.UTC); err == nil {
		t.Error("expected error for the same day marked twice")
	}
	if err := ValidateDoneDates([]string{"someday"}, time.UTC); err == nil {
		t.Error("expected error for an unparseable day")
	}
}

func TestValidateStreak(t *testing.T) {
	valid := models.Streak{ID: "streak-1", Name: "Read", DoneDates: []string{}, TargetDays: models.Ptr(30)}

	tests := []struct {
		name    string
		mutate  func(*models.Streak)
		wantErr bool
	}{
		{"valid", func(*models.Streak) {}, false},
		{"missing id", func(s *models.Streak) { s.ID = " " }, true},
		{"empty name", func(s *models.Streak) { s.Name = "" }, true},
		{"negative streak", func(s *models.Streak) { s.Streak = -1 }, true},
		{"zero target", func(s *models.Streak) { s.TargetDays = models.Ptr(0) }, true},
		{"bad color", func(s *models.Streak) { s.Color = models.Ptr("blue") }, true},
		{"bad time", func(s *models.Streak) { s.NotificationTime = models.Ptr("25:00") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid.Clone()
			tt.mutate(&s)
			if err := ValidateStreak(s, time.UTC); (err != nil) != tt.wantErr {
				t.Errorf("ValidateStreak() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePatch(t *testing.T) {
	tests := []struct {
		name    string
		patch   models.StreakPatch
		wantErr bool
	}{
		{"empty patch", models.StreakPatch{}, false},
		{"rename", models.StreakPatch{Name: models.Set("Write")}, false},
		{"clear target", models.StreakPatch{TargetDays: models.Clear[int]()}, false},
		{"clear reminder", models.StreakPatch{NotificationEnabled: models.Clear[bool](), NotificationTime: models.Clear[string]()}, false},
		{"clear name", models.StreakPatch{Name: models.Clear[string]()}, true},
		{"clear done dates", models.StreakPatch{DoneDates: models.Clear[[]string]()}, true},
		{"blank name", models.StreakPatch{Name: models.Set("  ")}, true},
		{"negative target", models.StreakPatch{TargetDays: models.Set(-5)}, true},
		{"bad time", models.StreakPatch{NotificationTime: models.Set("7pm")}, true},
		{"duplicate days", models.StreakPatch{DoneDates: models.Set([]string{"2024-01-01", "Mon Jan 01 2024"})}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePatch(tt.patch, time.UTC); (err != nil) != tt.wantErr {
				t.Errorf("ValidatePatch() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
