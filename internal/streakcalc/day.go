package streakcalc

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/streakone/internal/constants"
)

// dayLayouts are tried in order when parsing a done-date marker.
var dayLayouts = []string{
	constants.DayLayout,
	constants.DateFormat,
	time.RFC3339Nano,
	time.RFC3339,
}

// FormatDay renders the calendar day of t as a done-date marker.
func FormatDay(t time.Time) string {
	return t.Format(constants.DayLayout)
}

// ParseDay parses a done-date marker and returns the calendar day it names,
// as midnight UTC. Timestamps carrying an offset are first moved into loc so
// the calendar day is the one the user saw.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dayLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		return civil(t.In(loc)), nil
	}
	return time.Time{}, fmt.Errorf("invalid day marker %q", s)
}

// StartOfDay returns 00:00:00 of the same day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// civil maps t to midnight UTC of its calendar day. Day arithmetic on these
// values is exact (no DST gaps).
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// uniqueDays parses markers, drops unparseable ones, dedupes by calendar day
// and sorts newest first.
func uniqueDays(doneDates []string, loc *time.Location) []time.Time {
	seen := make(map[time.Time]struct{}, len(doneDates))
	days := make([]time.Time, 0, len(doneDates))
	for _, s := range doneDates {
		d, err := ParseDay(s, loc)
		if err != nil {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].After(days[j])
	})
	return days
}

// ContainsDay reports whether doneDates already has a marker for the
// calendar day of t.
func ContainsDay(doneDates []string, t time.Time) bool {
	want := civil(t)
	for _, s := range doneDates {
		if d, err := ParseDay(s, t.Location()); err == nil && d.Equal(want) {
			return true
		}
	}
	return false
}

// DedupeDays removes repeated calendar days, keeping the first marker seen
// for each day and the original order. Unparseable markers are kept.
func DedupeDays(doneDates []string, loc *time.Location) []string {
	seen := make(map[time.Time]struct{}, len(doneDates))
	out := make([]string, 0, len(doneDates))
	for _, s := range doneDates {
		d, err := ParseDay(s, loc)
		if err == nil {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
		}
		out = append(out, s)
	}
	return out
}
