package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSaveStoreURL(t *testing.T) {
	gokeyring.MockInit()

	want := "postgres://streak@localhost:5432/streaks?sslmode=disable"
	if err := SaveStoreURL(want); err != nil {
		t.Fatalf("SaveStoreURL() error = %v", err)
	}
	got, err := StoreURL()
	if err != nil {
		t.Fatalf("StoreURL() error = %v", err)
	}
	if got != want {
		t.Errorf("StoreURL() = %q, want %q", got, want)
	}
}

func TestSaveStoreURL_RejectsLocalStores(t *testing.T) {
	gokeyring.MockInit()

	for _, loc := range []string{"", "~/.config/streakone/streakone.db", "streaks.json", "memory://"} {
		if err := SaveStoreURL(loc); !errors.Is(err, ErrNotRemote) {
			t.Errorf("SaveStoreURL(%q) error = %v, want ErrNotRemote", loc, err)
		}
	}
	if _, err := StoreURL(); !errors.Is(err, ErrNotFound) {
		t.Errorf("rejected URL was stored: %v", err)
	}
}

func TestForgetStoreURL(t *testing.T) {
	gokeyring.MockInit()

	if err := SaveStoreURL("redis://localhost:6379/0"); err != nil {
		t.Fatalf("SaveStoreURL() error = %v", err)
	}
	if err := ForgetStoreURL(); err != nil {
		t.Fatalf("ForgetStoreURL() error = %v", err)
	}
	if _, err := StoreURL(); !errors.Is(err, ErrNotFound) {
		t.Errorf("StoreURL() after forget error = %v, want ErrNotFound", err)
	}
	if err := ForgetStoreURL(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second ForgetStoreURL() error = %v, want ErrNotFound", err)
	}
}

func TestProbe(t *testing.T) {
	gokeyring.MockInit()

	if got := Probe(); got != (Status{Available: true}) {
		t.Errorf("empty keyring Probe() = %+v", got)
	}
	if err := SaveStoreURL("redis://localhost:6379/0"); err != nil {
		t.Fatalf("SaveStoreURL() error = %v", err)
	}
	if got := Probe(); got != (Status{Available: true, Stored: true}) {
		t.Errorf("Probe() = %+v", got)
	}

	gokeyring.MockInitWithError(errors.New("no dbus session"))
	t.Cleanup(gokeyring.MockInit)
	if got := Probe(); got.Available {
		t.Errorf("failing keyring Probe() = %+v", got)
	}
	if _, err := StoreURL(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("StoreURL() error = %v, want ErrKeyringUnavailable", err)
	}
}
