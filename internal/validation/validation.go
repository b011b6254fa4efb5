package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julianstephens/streakone/internal/constants"
	"github.com/julianstephens/streakone/internal/models"
	"github.com/julianstephens/streakone/internal/streakcalc"
)

var (
	timePattern  = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errors.New("name cannot be empty")
	}
	if n := utf8.RuneCountInString(trimmed); n > constants.MaxNameLength {
		return fmt.Errorf("name is %d characters, maximum is %d", n, constants.MaxNameLength)
	}
	return nil
}

func ValidateTarget(days int) error {
	if days <= 0 {
		return fmt.Errorf("target must be a positive number of days, got %d", days)
	}
	return nil
}

// ParseTime parses a 24h "HH:MM" (or "H:MM") reminder time.
func ParseTime(s string) (hour, minute int, err error) {
	m := timePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time %q, hours must be 0-23 and minutes 0-59", s)
	}
	return hour, minute, nil
}

func ValidateTime(s string) error {
	_, _, err := ParseTime(s)
	return err
}

// NormalizeTime returns s in zero-padded HH:MM form.
func NormalizeTime(s string) (string, error) {
	h, m, err := ParseTime(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

func ValidateColor(c string) error {
	if !colorPattern.MatchString(c) {
		return fmt.Errorf("invalid color %q, expected #rrggbb", c)
	}
	return nil
}

// ValidateDoneDates requires every marker to parse and each calendar day to
// appear at most once.
func ValidateDoneDates(dates []string, loc *time.Location) error {
	seen := make(map[time.Time]string, len(dates))
	for _, s := range dates {
		d, err := streakcalc.ParseDay(s, loc)
		if err != nil {
			return err
		}
		if prev, ok := seen[d]; ok {
			return fmt.Errorf("day %q is marked twice (also as %q)", s, prev)
		}
		seen[d] = s
	}
	return nil
}

// ValidateStreak checks a full record before it is added.
func ValidateStreak(s models.Streak, loc *time.Location) error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("id cannot be empty")
	}
	if err := ValidateName(s.Name); err != nil {
		return err
	}
	if s.Streak < 0 {
		return fmt.Errorf("streak cannot be negative, got %d", s.Streak)
	}
	if err := ValidateDoneDates(s.DoneDates, loc); err != nil {
		return err
	}
	if s.Color != nil {
		if err := ValidateColor(*s.Color); err != nil {
			return err
		}
	}
	if s.TargetDays != nil {
		if err := ValidateTarget(*s.TargetDays); err != nil {
			return err
		}
	}
	if s.NotificationTime != nil {
		if err := ValidateTime(*s.NotificationTime); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePatch checks every value a patch sets and rejects clearing a
// required field.
func ValidatePatch(p models.StreakPatch, loc *time.Location) error {
	switch {
	case p.Name.IsClear():
		return errors.New("name cannot be cleared")
	case p.DoneDates.IsClear():
		return errors.New("doneDates cannot be cleared, set an empty list instead")
	case p.Streak.IsClear():
		return errors.New("streak cannot be cleared")
	}

	if v, ok := p.Name.Value(); ok {
		if err := ValidateName(v); err != nil {
			return err
		}
	}
	if v, ok := p.DoneDates.Value(); ok {
		if err := ValidateDoneDates(v, loc); err != nil {
			return err
		}
	}
	if v, ok := p.Streak.Value(); ok && v < 0 {
		return fmt.Errorf("streak cannot be negative, got %d", v)
	}
	if v, ok := p.Color.Value(); ok {
		if err := ValidateColor(v); err != nil {
			return err
		}
	}
	if v, ok := p.TargetDays.Value(); ok {
		if err := ValidateTarget(v); err != nil {
			return err
		}
	}
	if v, ok := p.NotificationTime.Value(); ok {
		if err := ValidateTime(v); err != nil {
			return err
		}
	}
	return nil
}
