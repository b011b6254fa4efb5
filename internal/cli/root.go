package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/streakone/internal/backup"
	"github.com/julianstephens/streakone/internal/config"
	"github.com/julianstephens/streakone/internal/constants"
	"github.com/julianstephens/streakone/internal/logger"
	"github.com/julianstephens/streakone/internal/metrics"
	"github.com/julianstephens/streakone/internal/models"
	"github.com/julianstephens/streakone/internal/repository"
	"github.com/julianstephens/streakone/internal/scheduler"
	"github.com/julianstephens/streakone/internal/storage"
)

// Context is handed to every command's Run method.
type Context struct {
	Config    *config.Config
	Backend   storage.Backend
	Repo      *repository.Repository
	Reminders *scheduler.Store
	Metrics   *metrics.Recorder

	Out io.Writer
	In  io.Reader
}

func NewContext(cfg *config.Config, rec *metrics.Recorder) *Context {
	if rec == nil {
		rec = metrics.New()
	}
	return &Context{
		Config:  cfg,
		Metrics: rec,
		Out:     os.Stdout,
		In:      os.Stdin,
	}
}

// Attach wires an opened backend into the repository and reminder store.
func (c *Context) Attach(backend storage.Backend) {
	c.Backend = backend
	c.Repo = repository.New(backend,
		repository.WithClock(c.Now),
		repository.WithObserver(c.Metrics),
		repository.WithConflictCheck(),
	)
	c.Reminders = scheduler.NewStore(backend)
}

// Close releases the backend, if one is attached.
func (c *Context) Close() error {
	if c.Backend == nil {
		return nil
	}
	return c.Backend.Close()
}

func (c *Context) Now() time.Time {
	if c.Config == nil {
		return time.Now()
	}
	return c.Config.Now()
}

func (c *Context) location() *time.Location {
	return c.Now().Location()
}

func (c *Context) reminderTime() string {
	if c.Config == nil || c.Config.ReminderTime == "" {
		return constants.DefaultReminderTime
	}
	return c.Config.ReminderTime
}

func (c *Context) requireStore() error {
	if c.Repo == nil {
		return errors.New("storage is not open, run 'streakone init' first")
	}
	return nil
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

func (c *Context) BackupManager() *backup.Manager {
	opts := []backup.Option{backup.WithClock(c.Now)}
	dir := ""
	if c.Config != nil {
		dir = c.Config.BackupDir()
		opts = append(opts, backup.WithMaxBackups(c.Config.BackupMax))
	}
	return backup.NewManager(c.Backend, dir, opts...)
}

// PerformAutomaticBackup snapshots the store before destructive commands.
// Failures are logged and never abort the command.
func (c *Context) PerformAutomaticBackup() {
	if c.Backend == nil || c.Config == nil {
		return
	}
	path, err := c.BackupManager().CreateBackup(context.Background())
	if err != nil {
		logger.Warn("Automatic backup failed", "error", err)
		fmt.Fprintf(os.Stderr, "Warning: automatic backup failed: %v\n", err)
		return
	}
	logger.Debug("Automatic backup created", "path", path)
}

// confirm asks a yes/no question on In and reports whether the answer was yes.
func (c *Context) confirm(prompt string) (bool, error) {
	c.printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(c.In)
	response, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// syncReminder brings the stored schedule in line with s. A failure is
// reported but the streak change itself stands.
func (c *Context) syncReminder(ctx context.Context, s models.Streak) {
	if err := scheduler.Apply(ctx, c.Reminders, s); err != nil {
		logger.Warn("Failed to update reminder", "streak", s.ID, "error", err)
		c.printf("⚠ Reminder not updated: %v\n", err)
	}
}

// resolveStreak finds a streak by id, by 1-based list position or by
// case-insensitive name.
func (c *Context) resolveStreak(ctx context.Context, ref string) (models.Streak, error) {
	streaks := c.Repo.Load(ctx)
	ref = strings.TrimSpace(ref)

	for _, s := range streaks {
		if s.ID == ref {
			return s, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(streaks) {
		return streaks[n-1], nil
	}

	var matches []models.Streak
	for _, s := range streaks {
		if strings.EqualFold(s.Name, ref) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return models.Streak{}, fmt.Errorf("%w: %s", repository.ErrNotFound, ref)
	case 1:
		return matches[0], nil
	}
	return models.Streak{}, fmt.Errorf("%q matches %d streaks, use the id instead", ref, len(matches))
}
