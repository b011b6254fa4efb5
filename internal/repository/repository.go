package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/julianstephens/streakone/internal/constants"
	"github.com/julianstephens/streakone/internal/logger"
	"github.com/julianstephens/streakone/internal/models"
	"github.com/julianstephens/streakone/internal/storage"
	"github.com/julianstephens/streakone/internal/streakcalc"
	"github.com/julianstephens/streakone/internal/validation"
)

// Observer receives one call per finished repository operation.
type Observer interface {
	Observe(op, outcome string, d time.Duration)
}

// Repository stores the whole streak collection under one backend key.
// There is no caching between calls: every operation is an independent
// load-modify-save, so concurrent writers can lose updates unless
// WithConflictCheck is set.
type Repository struct {
	backend       storage.Backend
	key           string
	now           func() time.Time
	observer      Observer
	conflictCheck bool
}

type Option func(*Repository)

// WithKey overrides the storage key (default "@streak_data").
func WithKey(key string) Option {
	return func(r *Repository) { r.key = key }
}

// WithClock injects the time source used for migrations and validation.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

func WithObserver(o Observer) Option {
	return func(r *Repository) { r.observer = o }
}

// WithConflictCheck makes every mutation re-read the blob right before
// writing and fail with ErrConflict when another writer changed it.
func WithConflictCheck() Option {
	return func(r *Repository) { r.conflictCheck = true }
}

func New(backend storage.Backend, opts ...Option) *Repository {
	r := &Repository{
		backend: backend,
		key:     constants.StorageKey,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Key returns the storage key the collection lives under.
func (r *Repository) Key() string { return r.key }

// Backend returns the underlying store.
func (r *Repository) Backend() storage.Backend { return r.backend }

func (r *Repository) observe(op string, start time.Time, err error) {
	if r.observer != nil {
		r.observer.Observe(op, Outcome(err), time.Since(start))
	}
}

// snapshot is the collection as read at the start of an operation plus the
// raw bytes it came from.
type snapshot struct {
	streaks []models.Streak
	raw     []byte
	kind    blobKind
}

// read loads and decodes the blob. Backend failures are returned; a
// malformed blob is preserved under <key>.corrupt and read as empty.
func (r *Repository) read(ctx context.Context) (snapshot, error) {
	raw, err := r.backend.Get(ctx, r.key)
	if errors.Is(err, storage.ErrNotFound) {
		return snapshot{streaks: []models.Streak{}, kind: blobEmpty}, nil
	}
	if err != nil {
		return snapshot{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	d := decode(raw)
	snap := snapshot{raw: raw, kind: d.kind}
	switch d.kind {
	case blobCurrent:
		snap.streaks = d.streaks
	case blobLegacyA, blobLegacyB:
		snap.streaks = migrateLegacy(d.legacy, r.now())
	case blobMalformed:
		logger.Warn("Ignoring unreadable streak data", "key", r.key, "error", d.err)
		r.preserveCorrupt(ctx, raw)
		snap.streaks = []models.Streak{}
	default:
		snap.streaks = []models.Streak{}
	}
	return snap, nil
}

// preserveCorrupt copies raw under <key>.corrupt unless a copy is already
// there. A different blob goes under <key>.corrupt-<hash> so earlier copies
// survive and repeated reads of the same blob write nothing.
func (r *Repository) preserveCorrupt(ctx context.Context, raw []byte) {
	corruptKey := r.key + constants.CorruptSuffix
	existing, err := r.backend.Get(ctx, corruptKey)
	switch {
	case err == nil && bytes.Equal(existing, raw):
		return
	case err == nil:
		corruptKey = fmt.Sprintf("%s-%016x", corruptKey, xxhash.Sum64(raw))
		if prev, err := r.backend.Get(ctx, corruptKey); err == nil && bytes.Equal(prev, raw) {
			return
		}
	case !errors.Is(err, storage.ErrNotFound):
		logger.Warn("Failed to check for preserved streak data", "key", corruptKey, "error", err)
		return
	}
	if err := r.backend.Set(ctx, corruptKey, raw); err != nil {
		logger.Warn("Failed to preserve unreadable streak data", "key", corruptKey, "error", err)
		return
	}
	logger.Info("Preserved unreadable streak data", "key", corruptKey)
}

func (r *Repository) write(ctx context.Context, snap snapshot, streaks []models.Streak) error {
	data, err := encode(streaks)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrStorage, err)
	}

	if r.conflictCheck {
		current, err := r.backend.Get(ctx, r.key)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			current = nil
		case err != nil:
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if !bytes.Equal(current, snap.raw) {
			return ErrConflict
		}
	}

	if err := r.backend.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// Load returns the stored collection. It never fails: an unreachable
// backend or unreadable blob yields an empty collection. Legacy blobs are
// migrated and written back so the migration runs once.
func (r *Repository) Load(ctx context.Context) []models.Streak {
	start := time.Now()
	snap, err := r.read(ctx)
	defer func() { r.observe("load", start, err) }()

	if err != nil {
		logger.Error("Failed to load streaks", "key", r.key, "error", err)
		return []models.Streak{}
	}

	if snap.kind == blobLegacyA || snap.kind == blobLegacyB {
		logger.Info("Migrating legacy streak data", "key", r.key, "format", snap.kind)
		if werr := r.write(ctx, snap, snap.streaks); werr != nil {
			logger.Warn("Failed to persist migrated streak data", "key", r.key, "error", werr)
		}
	}
	return snap.streaks
}

// Save replaces the stored collection.
func (r *Repository) Save(ctx context.Context, streaks []models.Streak) (err error) {
	start := time.Now()
	defer func() { r.observe("save", start, err) }()

	data, err := encode(streaks)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrStorage, err)
	}
	if err = r.backend.Set(ctx, r.key, data); err != nil {
		logger.Error("Failed to save streaks", "key", r.key, "error", err)
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// mutate runs one load-modify-save cycle. A read failure aborts before
// anything is written.
func (r *Repository) mutate(ctx context.Context, op string, fn func([]models.Streak) ([]models.Streak, error)) (err error) {
	start := time.Now()
	defer func() { r.observe(op, start, err) }()

	snap, err := r.read(ctx)
	if err != nil {
		logger.Error("Aborting update, streak data unreadable", "op", op, "error", err)
		return err
	}

	next, err := fn(snap.streaks)
	if err != nil {
		return err
	}
	if next == nil {
		return nil
	}

	if err = r.write(ctx, snap, next); err != nil {
		logger.Error("Failed to write streaks", "op", op, "error", err)
		return err
	}
	return nil
}

func indexOf(streaks []models.Streak, id string) int {
	for i := range streaks {
		if streaks[i].ID == id {
			return i
		}
	}
	return -1
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
}

// AddStreak appends s to the collection.
func (r *Repository) AddStreak(ctx context.Context, s models.Streak) error {
	return r.mutate(ctx, "add", func(streaks []models.Streak) ([]models.Streak, error) {
		if err := validation.ValidateStreak(s, r.now().Location()); err != nil {
			return nil, invalid(err)
		}
		if indexOf(streaks, s.ID) >= 0 {
			return nil, invalid(fmt.Errorf("id %q already exists", s.ID))
		}
		return append(streaks, s.Clone()), nil
	})
}

// UpdateStreak merges patch onto the record with id and returns the result.
// Setting DoneDates without Streak recomputes the cached streak.
func (r *Repository) UpdateStreak(ctx context.Context, id string, patch models.StreakPatch) (models.Streak, error) {
	var updated models.Streak
	err := r.mutate(ctx, "update", func(streaks []models.Streak) ([]models.Streak, error) {
		if err := validation.ValidatePatch(patch, r.now().Location()); err != nil {
			return nil, invalid(err)
		}
		i := indexOf(streaks, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		updated = patch.Apply(streaks[i])
		if patch.DoneDates.IsSet() && patch.Streak.IsKeep() {
			updated.Streak = streakcalc.CalculateStreakAt(updated.DoneDates, r.now())
		}
		streaks[i] = updated
		return streaks, nil
	})
	return updated, err
}

// DeleteStreak removes the record with id. A missing id is not an error
// and nothing is written.
func (r *Repository) DeleteStreak(ctx context.Context, id string) error {
	return r.mutate(ctx, "delete", func(streaks []models.Streak) ([]models.Streak, error) {
		i := indexOf(streaks, id)
		if i < 0 {
			return nil, nil
		}
		return append(streaks[:i:i], streaks[i+1:]...), nil
	})
}

// GetStreakByID returns the stored record as-is; the cached streak is not
// refreshed.
func (r *Repository) GetStreakByID(ctx context.Context, id string) (models.Streak, bool) {
	start := time.Now()
	var err error
	defer func() { r.observe("get", start, err) }()

	streaks := r.Load(ctx)
	if i := indexOf(streaks, id); i >= 0 {
		return streaks[i], true
	}
	err = ErrNotFound
	return models.Streak{}, false
}

// MarkDone marks the calendar day of now as done for id. It returns the
// updated record and the milestone newly reached, if any.
func (r *Repository) MarkDone(ctx context.Context, id string, now time.Time) (models.Streak, *models.Milestone, error) {
	var res streakcalc.MarkResult
	err := r.mutate(ctx, "mark_done", func(streaks []models.Streak) ([]models.Streak, error) {
		i := indexOf(streaks, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		var err error
		res, err = streakcalc.MarkDone(streaks[i], now)
		if err != nil {
			return nil, err
		}
		streaks[i] = res.Streak
		return streaks, nil
	})
	if err != nil {
		return models.Streak{}, nil, err
	}
	return res.Streak, res.Milestone, nil
}

// Clear removes the stored collection entirely.
func (r *Repository) Clear(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { r.observe("clear", start, err) }()

	if err = r.backend.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// Refresh returns s with its cached streak recomputed for the current day.
func (r *Repository) Refresh(s models.Streak) models.Streak {
	return streakcalc.Refresh(s, r.now())
}

// Check loads the collection and reports inconsistencies. Unlike Load it
// surfaces storage failures.
func (r *Repository) Check(ctx context.Context) (validation.Result, error) {
	snap, err := r.read(ctx)
	if err != nil {
		return validation.Result{}, err
	}
	return validation.CheckCollection(snap.streaks, r.now()), nil
}

// Fix repairs the fixable conflicts found by Check and saves the result.
func (r *Repository) Fix(ctx context.Context) ([]validation.FixAction, error) {
	var actions []validation.FixAction
	err := r.mutate(ctx, "fix", func(streaks []models.Streak) ([]models.Streak, error) {
		res := validation.CheckCollection(streaks, r.now())
		var fixed []models.Streak
		fixed, actions = validation.AutoFix(streaks, res.Conflicts, r.now())
		if len(actions) == 0 {
			return nil, nil
		}
		return fixed, nil
	})
	return actions, err
}
