package models

type fieldOp uint8

const (
	opKeep fieldOp = iota
	opSet
	opClear
)

// Field is one entry of a StreakPatch. The zero value leaves the stored
// field untouched; Set replaces it and Clear removes it.
type Field[T any] struct {
	op    fieldOp
	value T
}

// Set returns a field that overwrites the stored value with v.
func Set[T any](v T) Field[T] {
	return Field[T]{op: opSet, value: v}
}

// Clear returns a field that removes an optional value.
func Clear[T any]() Field[T] {
	return Field[T]{op: opClear}
}

func (f Field[T]) IsSet() bool   { return f.op == opSet }
func (f Field[T]) IsClear() bool { return f.op == opClear }
func (f Field[T]) IsKeep() bool  { return f.op == opKeep }

// Value returns the value carried by Set and whether there is one.
func (f Field[T]) Value() (T, bool) {
	return f.value, f.op == opSet
}

// StreakPatch is a shallow partial update of a Streak. ID and CreatedAt are
// immutable and therefore absent.
type StreakPatch struct {
	Name                Field[string]
	DoneDates           Field[[]string]
	Streak              Field[int]
	Color               Field[string]
	TargetDays          Field[int]
	NotificationEnabled Field[bool]
	NotificationTime    Field[string]
}

// IsEmpty reports whether the patch changes nothing.
func (p StreakPatch) IsEmpty() bool {
	return p.Name.IsKeep() && p.DoneDates.IsKeep() && p.Streak.IsKeep() &&
		p.Color.IsKeep() && p.TargetDays.IsKeep() &&
		p.NotificationEnabled.IsKeep() && p.NotificationTime.IsKeep()
}

// TouchesReminder reports whether applying the patch can change the
// reminder schedule of the streak.
func (p StreakPatch) TouchesReminder() bool {
	return !p.Name.IsKeep() || !p.NotificationEnabled.IsKeep() || !p.NotificationTime.IsKeep()
}

// Apply merges p onto s and returns the result. Clearing a required field
// is a caller error and is rejected by validation before Apply is reached;
// here it simply resets the field to its zero value.
func (p StreakPatch) Apply(s Streak) Streak {
	out := s.Clone()
	if v, ok := p.Name.Value(); ok {
		out.Name = v
	} else if p.Name.IsClear() {
		out.Name = ""
	}
	if v, ok := p.DoneDates.Value(); ok {
		out.DoneDates = append([]string{}, v...)
	} else if p.DoneDates.IsClear() {
		out.DoneDates = []string{}
	}
	if v, ok := p.Streak.Value(); ok {
		out.Streak = v
	} else if p.Streak.IsClear() {
		out.Streak = 0
	}
	out.Color = applyOptional(out.Color, p.Color)
	out.TargetDays = applyOptional(out.TargetDays, p.TargetDays)
	out.NotificationEnabled = applyOptional(out.NotificationEnabled, p.NotificationEnabled)
	out.NotificationTime = applyOptional(out.NotificationTime, p.NotificationTime)
	return out
}

func applyOptional[T any](cur *T, f Field[T]) *T {
	switch f.op {
	case opSet:
		v := f.value
		return &v
	case opClear:
		return nil
	default:
		return cur
	}
}

// Reminder is everything the reminder scheduler needs to know about a streak.
type Reminder struct {
	StreakID string `json:"streak_id"`
	Name     string `json:"name"`
	Streak   int    `json:"streak"`
	Time     string `json:"time"` // HH:MM, 24h
}
