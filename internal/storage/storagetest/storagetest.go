// Package storagetest holds a conformance suite every storage.Backend must
// pass.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/julianstephens/streakone/internal/storage"
)

// Run exercises the Get/Set/Delete contract of b. Keys are prefixed so
// shared services (postgres, redis) can be tested without cleanup races.
func Run(t *testing.T, b storage.Backend, prefix string) {
	t.Helper()
	ctx := context.Background()
	data := prefix + "@streak_data"
	reminders := prefix + "@streak_reminders"

	_ = b.Delete(ctx, data)
	_ = b.Delete(ctx, reminders)

	if _, err := b.Get(ctx, data); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on missing key, got %v", err)
	}

	blob := []byte(`{"streaks":[]}`)
	if err := b.Set(ctx, data, blob); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := b.Get(ctx, data)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != string(blob) {
		t.Errorf("Get = %q, want %q", got, blob)
	}

	next := []byte(`{"streaks":[{"id":"a","name":"Read"}]}`)
	if err := b.Set(ctx, data, next); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	if got, _ = b.Get(ctx, data); string(got) != string(next) {
		t.Errorf("overwrite not visible, got %q", got)
	}

	if err := b.Set(ctx, reminders, []byte(`[]`)); err != nil {
		t.Fatalf("Set second key failed: %v", err)
	}

	if err := b.Delete(ctx, data); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := b.Get(ctx, data); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := b.Delete(ctx, data); err != nil {
		t.Errorf("deleting a missing key should succeed, got %v", err)
	}
	if _, err := b.Get(ctx, reminders); err != nil {
		t.Errorf("other keys must survive a delete: %v", err)
	}
	_ = b.Delete(ctx, reminders)

	if b.Describe() == "" {
		t.Error("Describe should name the location")
	}
}
