package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/streakone/internal/logger"
	"github.com/julianstephens/streakone/internal/migration"
	"github.com/julianstephens/streakone/internal/repository"
	"github.com/julianstephens/streakone/internal/scheduler"
	"github.com/julianstephens/streakone/internal/storage"
	"github.com/julianstephens/streakone/internal/storage/sqlite"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %s", Describe(err))
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

type hint struct {
	target error
	text   string
}

var hints = []hint{
	{repository.ErrAlreadyDone, "already marked done today"},
	{repository.ErrConflict, "the streak data was changed by another process, please retry"},
	{migration.ErrSchemaTooNew, "the store was written by a newer streakone, please upgrade"},
	{sqlite.ErrMigrationRequired, "copy the database file aside first if you want to keep a pre-migration copy"},
	{scheduler.ErrInvalidTime, "reminder time must be HH:MM in 24h format"},
	{storage.ErrNotFound, "nothing stored yet, run 'streakone init'"},
}

// Describe renders err for the terminal. Known sentinels get an actionable
// hint appended; everything else is printed as-is.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	for _, h := range hints {
		if errors.Is(err, h.target) {
			if err.Error() == h.target.Error() {
				return h.text
			}
			return fmt.Sprintf("%v (%s)", err, h.text)
		}
	}
	return err.Error()
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
