// Package keyring keeps the remote store URL (postgres:// or redis://) in the
// OS keyring so credentials stay out of config files and shell history.
package keyring

import (
	"errors"
	"fmt"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/streakone/internal/constants"
	"github.com/julianstephens/streakone/internal/storage"
)

var (
	ErrNotFound           = errors.New("store URL not found in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	ErrNotRemote          = errors.New("only postgres:// and redis:// store URLs can be kept in the keyring")
)

// Status describes what the keyring holds for streakone.
type Status struct {
	Available bool
	Stored    bool
}

// StoreURL returns the saved store URL.
func StoreURL() (string, error) {
	u, err := gokeyring.Get(constants.AppName, constants.DefaultKeyringUser)
	switch {
	case errors.Is(err, gokeyring.ErrNotFound):
		return "", ErrNotFound
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return u, nil
}

// SaveStoreURL replaces the saved store URL. File and memory locations are
// rejected since they never carry credentials.
func SaveStoreURL(u string) error {
	if !storage.IsRemote(u) {
		return ErrNotRemote
	}
	if err := gokeyring.Set(constants.AppName, constants.DefaultKeyringUser, u); err != nil {
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return nil
}

// ForgetStoreURL removes the saved store URL.
func ForgetStoreURL() error {
	err := gokeyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	switch {
	case errors.Is(err, gokeyring.ErrNotFound):
		return ErrNotFound
	case err != nil:
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return nil
}

// Probe reports whether the keyring answers and whether a URL is saved.
func Probe() Status {
	_, err := StoreURL()
	switch {
	case err == nil:
		return Status{Available: true, Stored: true}
	case errors.Is(err, ErrNotFound):
		return Status{Available: true}
	default:
		return Status{}
	}
}
