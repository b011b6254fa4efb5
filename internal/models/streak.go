package models

// Streak is one tracked habit. The JSON shape is the persisted record format
// and must stay compatible with collections written by earlier releases.
type Streak struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	DoneDates           []string `json:"doneDates"`
	Streak              int      `json:"streak"` // cache, recomputed from DoneDates
	CreatedAt           string   `json:"createdAt"`
	Color               *string  `json:"color,omitempty"`
	TargetDays          *int     `json:"targetDays,omitempty"`
	NotificationEnabled *bool    `json:"notificationEnabled,omitempty"`
	NotificationTime    *string  `json:"notificationTime,omitempty"`
}

// RemindersOn reports whether a daily reminder is configured.
func (s Streak) RemindersOn() bool {
	return s.NotificationEnabled != nil && *s.NotificationEnabled &&
		s.NotificationTime != nil && *s.NotificationTime != ""
}

// Target returns the goal in days, or 0 when no goal is set.
func (s Streak) Target() int {
	if s.TargetDays == nil {
		return 0
	}
	return *s.TargetDays
}

// Clone returns a deep copy so callers can mutate without aliasing the
// slice or pointer fields of s.
func (s Streak) Clone() Streak {
	c := s
	if s.DoneDates != nil {
		c.DoneDates = append([]string(nil), s.DoneDates...)
	}
	if s.Color != nil {
		v := *s.Color
		c.Color = &v
	}
	if s.TargetDays != nil {
		v := *s.TargetDays
		c.TargetDays = &v
	}
	if s.NotificationEnabled != nil {
		v := *s.NotificationEnabled
		c.NotificationEnabled = &v
	}
	if s.NotificationTime != nil {
		v := *s.NotificationTime
		c.NotificationTime = &v
	}
	return c
}

// Ptr returns a pointer to v. Handy for optional fields in literals.
func Ptr[T any](v T) *T {
	return &v
}

// Milestone is a fixed streak-length threshold with a celebratory label.
type Milestone struct {
	Days  int    `json:"days"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`
}

// Stats aggregates a streak's history for the statistics view.
type Stats struct {
	TotalDays      int `json:"total_days"`
	CurrentStreak  int `json:"current_streak"`
	LongestStreak  int `json:"longest_streak"`
	CompletionRate int `json:"completion_rate"` // percent of the last 30 days
}
