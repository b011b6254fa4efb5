package repository

import (
	"errors"

	"github.com/julianstephens/streakone/internal/streakcalc"
)

var (
	ErrNotFound        = errors.New("streak not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrStorage         = errors.New("storage unavailable")
	ErrConflict        = errors.New("collection changed since it was loaded")
	ErrAlreadyDone     = streakcalc.ErrAlreadyDone
)

// Outcome maps an operation result to a short metrics label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrAlreadyDone):
		return "already_done"
	case errors.Is(err, ErrStorage):
		return "storage_error"
	default:
		return "error"
	}
}
