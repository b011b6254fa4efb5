package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/streakone/internal/models"
	"github.com/julianstephens/streakone/internal/storage"
)

// recorder is a ReminderScheduler that remembers every call.
type recorder struct {
	scheduled []models.Reminder
	cancelled []string
	failFor   string
}

func (r *recorder) Schedule(_ context.Context, rem models.Reminder) error {
	if rem.StreakID == r.failFor {
		return errors.New("scheduler offline")
	}
	r.scheduled = append(r.scheduled, rem)
	return nil
}

func (r *recorder) Cancel(_ context.Context, streakID string) error {
	r.cancelled = append(r.cancelled, streakID)
	return nil
}

func streakWithReminder(id string, enabled bool, at string) models.Streak {
	s := models.Streak{ID: id, Name: "Read", Streak: 4, DoneDates: []string{}}
	s.NotificationEnabled = models.Ptr(enabled)
	if at != "" {
		s.NotificationTime = models.Ptr(at)
	}
	return s
}

func TestReminderFor(t *testing.T) {
	tests := []struct {
		name    string
		streak  models.Streak
		wantOn  bool
		wantAt  string
		wantErr bool
	}{
		{"enabled", streakWithReminder("a", true, "09:00"), true, "09:00", false},
		{"normalized", streakWithReminder("a", true, "7:05"), true, "07:05", false},
		{"disabled", streakWithReminder("a", false, "09:00"), false, "", false},
		{"no time", streakWithReminder("a", true, ""), false, "", false},
		{"never configured", models.Streak{ID: "a"}, false, "", false},
		{"bad hour", streakWithReminder("a", true, "24:00"), false, "", true},
		{"garbage", streakWithReminder("a", true, "noon"), false, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, on, err := ReminderFor(tt.streak)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTime) {
					t.Errorf("expected ErrInvalidTime, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if on != tt.wantOn || r.Time != tt.wantAt {
				t.Errorf("got on=%v at=%q, want on=%v at=%q", on, r.Time, tt.wantOn, tt.wantAt)
			}
		})
	}
}

func TestReminderText(t *testing.T) {
	r := models.Reminder{StreakID: "a", Name: "Read", Streak: 12, Time: "09:00"}
	if got := Title(r); got != "🔥 Read" {
		t.Errorf("Title() = %q", got)
	}
	if got := Body(r); got != "Don't forget to complete your 12 day streak today!" {
		t.Errorf("Body() = %q", got)
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	rec := &recorder{}
	if err := Apply(ctx, rec, streakWithReminder("a", true, "09:00")); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if len(rec.scheduled) != 1 || rec.scheduled[0].StreakID != "a" || len(rec.cancelled) != 0 {
		t.Errorf("expected one schedule, got %+v / %v", rec.scheduled, rec.cancelled)
	}

	rec = &recorder{}
	if err := Apply(ctx, rec, streakWithReminder("b", false, "09:00")); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if len(rec.scheduled) != 0 || len(rec.cancelled) != 1 {
		t.Errorf("disabled reminder should cancel, got %+v / %v", rec.scheduled, rec.cancelled)
	}

	rec = &recorder{}
	err := Apply(ctx, rec, streakWithReminder("c", true, "99:99"))
	if !errors.Is(err, ErrInvalidTime) {
		t.Errorf("expected ErrInvalidTime, got %v", err)
	}
	if len(rec.cancelled) != 1 {
		t.Error("invalid time should cancel the previous reminder")
	}
}

func TestSyncAll_ContinuesPastFailures(t *testing.T) {
	rec := &recorder{failFor: "b"}
	streaks := []models.Streak{
		streakWithReminder("a", true, "08:00"),
		streakWithReminder("b", true, "09:00"),
		streakWithReminder("c", true, "10:00"),
		streakWithReminder("d", false, ""),
	}

	err := SyncAll(context.Background(), rec, streaks)
	if err == nil {
		t.Error("expected the failure for b to be reported")
	}
	if len(rec.scheduled) != 2 {
		t.Errorf("expected 2 scheduled, got %d", len(rec.scheduled))
	}
	if len(rec.cancelled) != 1 || rec.cancelled[0] != "d" {
		t.Errorf("expected d cancelled, got %v", rec.cancelled)
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	store := NewStore(storage.NewMemory())

	if got, err := store.List(ctx); err != nil || len(got) != 0 {
		t.Fatalf("empty store: got %v, %v", got, err)
	}

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(store.Schedule(ctx, models.Reminder{StreakID: "b", Name: "Run", Time: "07:00"}))
	must(store.Schedule(ctx, models.Reminder{StreakID: "a", Name: "Read", Time: "09:00"}))
	must(store.Schedule(ctx, models.Reminder{StreakID: "b", Name: "Run", Time: "06:30"}))

	got, err := store.List(ctx)
	must(err)
	if len(got) != 2 {
		t.Fatalf("expected one reminder per streak, got %+v", got)
	}
	if got[0].StreakID != "a" || got[1].Time != "06:30" {
		t.Errorf("unexpected schedule %+v", got)
	}

	must(store.Cancel(ctx, "b"))
	must(store.Cancel(ctx, "b"))
	must(store.Cancel(ctx, "never"))
	if got, _ = store.List(ctx); len(got) != 1 || got[0].StreakID != "a" {
		t.Errorf("after cancel: %+v", got)
	}

	must(store.CancelAll(ctx))
	if got, _ = store.List(ctx); len(got) != 0 {
		t.Errorf("after cancel all: %+v", got)
	}
}

func TestStore_BackendFailure(t *testing.T) {
	mem := storage.NewMemory()
	store := NewStore(mem)
	mem.FailGets(errors.New("io error"))

	if err := store.Schedule(context.Background(), models.Reminder{StreakID: "a", Time: "09:00"}); err == nil {
		t.Error("expected an error when the backend is unreadable")
	}
}

func TestDueAt(t *testing.T) {
	loc := time.UTC
	at := func(h, m int) time.Time { return time.Date(2024, 1, 15, h, m, 0, 0, loc) }
	reminders := []models.Reminder{
		{StreakID: "morning", Time: "09:00"},
		{StreakID: "late", Time: "23:59"},
		{StreakID: "midnight", Time: "00:00"},
	}

	ids := func(rs []models.Reminder) []string {
		out := []string{}
		for _, r := range rs {
			out = append(out, r.StreakID)
		}
		return out
	}

	tests := []struct {
		name       string
		since, now time.Time
		want       []string
	}{
		{"exact minute", at(8, 59), at(9, 0), []string{"morning"}},
		{"window excludes since", at(9, 0), at(9, 1), []string{}},
		{"nothing due", at(10, 0), at(11, 0), []string{}},
		{"across midnight", at(23, 58).AddDate(0, 0, -1), at(0, 1), []string{"late", "midnight"}},
		{"empty window", at(9, 0), at(9, 0), []string{}},
		{"long outage replays once", at(12, 0).AddDate(0, 0, -5), at(10, 0), []string{"morning", "late", "midnight"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(DueAt(reminders, tt.now, tt.since))
			if len(got) != len(tt.want) {
				t.Fatalf("DueAt() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("DueAt() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestNextFire(t *testing.T) {
	r := models.Reminder{Time: "09:00"}
	before := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	after := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	if got, _ := NextFire(r, before); !got.Equal(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("NextFire() = %v, want today", got)
	}
	if got, _ := NextFire(r, after); !got.Equal(time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("NextFire() = %v, want tomorrow", got)
	}
	if _, ok := NextFire(models.Reminder{Time: "bad"}, before); ok {
		t.Error("expected no fire time for an invalid reminder")
	}
}
