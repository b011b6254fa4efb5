package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/julianstephens/streakone/internal/models"
	"github.com/julianstephens/streakone/internal/streakcalc"
)

func TestAddCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	cmd := &AddCmd{Name: "  Read  ", Target: 30, Remind: true}
	if err := cmd.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	streaks := ctx.Repo.Load(context.Background())
	if len(streaks) != 1 {
		t.Fatalf("got %d streaks, want 1", len(streaks))
	}
	s := streaks[0]
	if s.Name != "Read" {
		t.Errorf("Name = %q, want %q", s.Name, "Read")
	}
	if s.Target() != 30 {
		t.Errorf("Target() = %d, want 30", s.Target())
	}
	if !s.RemindersOn() || *s.NotificationTime != "09:00" {
		t.Errorf("reminder not enabled at the default time: %+v", s)
	}

	reminders, err := ctx.Reminders.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(reminders) != 1 || reminders[0].StreakID != s.ID {
		t.Errorf("reminders = %+v, want one for %s", reminders, s.ID)
	}

	if !strings.Contains(out.String(), "Added streak: Read") {
		t.Errorf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "Reminder: daily at 09:00") {
		t.Errorf("output missing reminder line: %q", out.String())
	}
}

func TestAddCmd_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     AddCmd
		wantErr bool
	}{
		{name: "valid", cmd: AddCmd{Name: "Read"}},
		{name: "valid with color and time", cmd: AddCmd{Name: "Read", Color: "#22c55e", At: "7:30"}},
		{name: "empty name", cmd: AddCmd{Name: "   "}, wantErr: true},
		{name: "negative target", cmd: AddCmd{Name: "Read", Target: -1}, wantErr: true},
		{name: "bad color", cmd: AddCmd{Name: "Read", Color: "green"}, wantErr: true},
		{name: "bad time", cmd: AddCmd{Name: "Read", At: "25:00"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddCmd_CustomTime(t *testing.T) {
	ctx, _ := setupTestContext(t)

	if err := (&AddCmd{Name: "Stretch", At: "7:05"}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	s := ctx.Repo.Load(context.Background())[0]
	if !s.RemindersOn() || *s.NotificationTime != "07:05" {
		t.Errorf("NotificationTime = %v, want 07:05", s.NotificationTime)
	}
}

func TestListCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&ListCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "No streaks found") {
		t.Errorf("empty list output = %q", out.String())
	}

	read := addStreak(t, ctx, "Read", 3)
	addStreak(t, ctx, "Run", 1)
	if _, _, err := ctx.Repo.MarkDone(context.Background(), read.ID, ctx.Now()); err != nil {
		t.Fatalf("MarkDone() error = %v", err)
	}

	out.Reset()
	if err := (&ListCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "1. [✓] Read - 🔥 4 days") {
		t.Errorf("missing done streak line in %q", got)
	}
	// A streak not yet done today shows 0 even with yesterday marked.
	if !strings.Contains(got, "2. [ ] Run - 🔥 0 days") {
		t.Errorf("missing pending streak line in %q", got)
	}

	out.Reset()
	if err := (&ListCmd{Pending: true}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.Contains(out.String(), "Read") {
		t.Errorf("--pending should hide streaks done today, got %q", out.String())
	}
}

func TestShowCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	s := addStreak(t, ctx, "Read", 8)
	if _, _, err := ctx.Repo.MarkDone(context.Background(), s.ID, ctx.Now()); err != nil {
		t.Fatalf("MarkDone() error = %v", err)
	}

	if err := (&ShowCmd{Streak: "read"}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	got := out.String()
	for _, want := range []string{"Read", "ID:       " + s.ID, "Streak:   9 days", "Today:    done", "Bronze", "Silver in 21 days", "Reminder: off"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestStatsCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	addStreak(t, ctx, "Read", 5)

	if err := (&StatsCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Longest streak:  5") || !strings.Contains(got, "Total days:      5") {
		t.Errorf("unexpected stats output:\n%s", got)
	}
}

func TestMilestonesCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	s := addStreak(t, ctx, "Read", 6)
	if _, _, err := ctx.Repo.MarkDone(context.Background(), s.ID, ctx.Now()); err != nil {
		t.Fatalf("MarkDone() error = %v", err)
	}

	if err := (&MilestonesCmd{Streak: "Read"}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "[✓] 🌟 Bronze") {
		t.Errorf("Bronze should be reached:\n%s", got)
	}
	if !strings.Contains(got, "[ ] 🥈 Silver") {
		t.Errorf("Silver should not be reached:\n%s", got)
	}

	// Without a streak the table needs no storage.
	bare := NewContext(testConfig(t), nil)
	bare.Out = out
	out.Reset()
	if err := (&MilestonesCmd{}).Run(bare); err != nil {
		t.Fatalf("Run() without storage error = %v", err)
	}
	if strings.Count(out.String(), "[ ]") != len(streakcalc.DefaultMilestones) {
		t.Errorf("every milestone should be unmarked:\n%s", out.String())
	}
}

func TestDoneCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	s := addStreak(t, ctx, "Read", 6)
	if _, err := ctx.Repo.UpdateStreak(context.Background(), s.ID, models.StreakPatch{TargetDays: models.Set(10)}); err != nil {
		t.Fatalf("UpdateStreak() error = %v", err)
	}

	if err := (&DoneCmd{Streak: "Read"}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "✓ Read done - 🔥 7 days") {
		t.Errorf("missing done line in %q", got)
	}
	if !strings.Contains(got, "Bronze milestone") {
		t.Errorf("missing milestone message in %q", got)
	}

	out.Reset()
	if err := (&DoneCmd{Streak: "Read"}).Run(ctx); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "already done today") {
		t.Errorf("second run output = %q", out.String())
	}

	stored := ctx.Repo.Load(context.Background())[0]
	if len(stored.DoneDates) != 7 {
		t.Errorf("got %d done dates, want 7", len(stored.DoneDates))
	}
}

func TestDoneCmd_UnknownStreak(t *testing.T) {
	ctx, _ := setupTestContext(t)
	if err := (&DoneCmd{Streak: "nope"}).Run(ctx); err == nil {
		t.Error("expected error for unknown streak")
	}
}

func TestEditCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	addStreak(t, ctx, "Read", 0)
	bg := context.Background()

	if err := (&EditCmd{Streak: "Read", Name: "Read books", Target: 30, Remind: true}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	s := ctx.Repo.Load(bg)[0]
	if s.Name != "Read books" || s.Target() != 30 {
		t.Errorf("edit not applied: %+v", s)
	}
	if !s.RemindersOn() || *s.NotificationTime != "09:00" {
		t.Errorf("--remind should use the default time: %+v", s)
	}
	if reminders, _ := ctx.Reminders.List(bg); len(reminders) != 1 {
		t.Errorf("got %d reminders, want 1", len(reminders))
	}

	if err := (&EditCmd{Streak: "Read books", ClearTarget: true, NoRemind: true}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	s = ctx.Repo.Load(bg)[0]
	if s.TargetDays != nil {
		t.Errorf("TargetDays = %d, want nil", *s.TargetDays)
	}
	if s.RemindersOn() {
		t.Error("reminders should be off")
	}
	if reminders, _ := ctx.Reminders.List(bg); len(reminders) != 0 {
		t.Errorf("got %d reminders after --no-remind, want 0", len(reminders))
	}

	out.Reset()
	if err := (&EditCmd{Streak: "1"}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Nothing to change") {
		t.Errorf("empty edit output = %q", out.String())
	}
}

func TestEditCmd_Validate(t *testing.T) {
	tests := []struct {
		name string
		cmd  EditCmd
	}{
		{name: "remind and no-remind", cmd: EditCmd{Remind: true, NoRemind: true}},
		{name: "target and clear-target", cmd: EditCmd{Target: 5, ClearTarget: true}},
		{name: "negative target", cmd: EditCmd{Target: -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestEditCmd_InvalidColor(t *testing.T) {
	ctx, _ := setupTestContext(t)
	addStreak(t, ctx, "Read", 0)

	if err := (&EditCmd{Streak: "Read", Color: "blue"}).Run(ctx); err == nil {
		t.Error("invalid color should be rejected")
	}
}

func TestDeleteCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	bg := context.Background()
	if err := (&AddCmd{Name: "Read", Remind: true}).Run(ctx); err != nil {
		t.Fatalf("AddCmd.Run() error = %v", err)
	}
	addStreak(t, ctx, "Run", 0)

	if err := (&DeleteCmd{Streak: "Read"}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	streaks := ctx.Repo.Load(bg)
	if len(streaks) != 1 || streaks[0].Name != "Run" {
		t.Errorf("remaining streaks = %+v", streaks)
	}
	if reminders, _ := ctx.Reminders.List(bg); len(reminders) != 0 {
		t.Errorf("reminder not cancelled: %+v", reminders)
	}
	if backups, _ := ctx.BackupManager().ListBackups(); len(backups) != 1 {
		t.Errorf("got %d backups, want one automatic backup", len(backups))
	}
	if !strings.Contains(out.String(), "Deleted streak: Read") {
		t.Errorf("output = %q", out.String())
	}
}

func TestClearCmd(t *testing.T) {
	tests := []struct {
		name      string
		cmd       ClearCmd
		input     string
		wantLeft  int
		wantInOut string
	}{
		{name: "declined", input: "n\n", wantLeft: 2, wantInOut: "Clear cancelled."},
		{name: "confirmed", input: "y\n", wantLeft: 0, wantInOut: "All streaks cleared"},
		{name: "skip prompt", cmd: ClearCmd{Yes: true}, wantLeft: 0, wantInOut: "All streaks cleared"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := setupTestContext(t)
			ctx.In = strings.NewReader(tt.input)
			addStreak(t, ctx, "Read", 1)
			addStreak(t, ctx, "Run", 2)

			if err := tt.cmd.Run(ctx); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if got := len(ctx.Repo.Load(context.Background())); got != tt.wantLeft {
				t.Errorf("got %d streaks, want %d", got, tt.wantLeft)
			}
			if !strings.Contains(out.String(), tt.wantInOut) {
				t.Errorf("output %q does not contain %q", out.String(), tt.wantInOut)
			}
		})
	}
}
