package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/julianstephens/streakone/internal/constants"
	"github.com/julianstephens/streakone/internal/models"
	"github.com/julianstephens/streakone/internal/storage"
)

// Store is a ReminderScheduler that keeps the schedule next to the streak
// collection. The notify command reads it back and delivers what is due.
type Store struct {
	mu      sync.Mutex
	backend storage.Backend
	key     string
}

func NewStore(backend storage.Backend) *Store {
	return &Store{backend: backend, key: constants.ReminderKey}
}

// List returns the schedule ordered by streak id.
func (s *Store) List(ctx context.Context) ([]models.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) Schedule(ctx context.Context, r models.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminders, err := s.load(ctx)
	if err != nil {
		return err
	}
	reminders = without(reminders, r.StreakID)
	reminders = append(reminders, r)
	return s.save(ctx, reminders)
}

func (s *Store) Cancel(ctx context.Context, streakID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminders, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := without(reminders, streakID)
	if len(kept) == len(reminders) {
		return nil
	}
	return s.save(ctx, kept)
}

// CancelAll drops the whole schedule.
func (s *Store) CancelAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear reminders: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context) ([]models.Reminder, error) {
	raw, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return []models.Reminder{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read reminders: %w", err)
	}

	var reminders []models.Reminder
	if err := json.Unmarshal(raw, &reminders); err != nil {
		return nil, fmt.Errorf("failed to decode reminders: %w", err)
	}
	return reminders, nil
}

func (s *Store) save(ctx context.Context, reminders []models.Reminder) error {
	sort.Slice(reminders, func(i, j int) bool {
		return reminders[i].StreakID < reminders[j].StreakID
	})
	data, err := json.Marshal(reminders)
	if err != nil {
		return fmt.Errorf("failed to encode reminders: %w", err)
	}
	if err := s.backend.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to write reminders: %w", err)
	}
	return nil
}

func without(reminders []models.Reminder, streakID string) []models.Reminder {
	out := make([]models.Reminder, 0, len(reminders))
	for _, r := range reminders {
		if r.StreakID != streakID {
			out = append(out, r)
		}
	}
	return out
}
