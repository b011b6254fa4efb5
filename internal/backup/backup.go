package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/streakone/internal/constants"
	"github.com/julianstephens/streakone/internal/logger"
	"github.com/julianstephens/streakone/internal/storage"
)

const snapshotVersion = 1

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// snapshot is the on-disk format of one backup: the raw value of every
// backed-up key. Keys absent from the store are absent from Values.
type snapshot struct {
	Version   int               `json:"version"`
	CreatedAt string            `json:"created_at"`
	Store     string            `json:"store"`
	Values    map[string]string `json:"values"`
}

// Manager snapshots the streak and reminder keys of any backend into
// timestamped JSON files.
type Manager struct {
	backend   storage.Backend
	backupDir string
	keys      []string
	max       int
	now       func() time.Time
}

type Option func(*Manager)

// WithMaxBackups sets how many backups rotation keeps.
func WithMaxBackups(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.max = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a new backup manager
func NewManager(backend storage.Backend, backupDir string, opts ...Option) *Manager {
	m := &Manager{
		backend:   backend,
		backupDir: backupDir,
		keys:      []string{constants.StorageKey, constants.ReminderKey},
		max:       constants.MaxBackups,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) ensureBackupDir() error {
	return os.MkdirAll(m.backupDir, 0700)
}

// CreateBackup writes a snapshot of the store and rotates old backups.
func (m *Manager) CreateBackup(ctx context.Context) (string, error) {
	return m.createBackup(ctx, false)
}

// createBackup writes a snapshot. skipRotation keeps the pre-restore
// snapshot from pushing out the backup being restored.
func (m *Manager) createBackup(ctx context.Context, skipRotation bool) (string, error) {
	if err := m.ensureBackupDir(); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	snap, err := m.capture(ctx)
	if err != nil {
		return "", err
	}

	backupPath, err := m.nextPath()
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}
	if err := writeFileAtomic(backupPath, data); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	logger.Info("Created backup", "path", backupPath, "keys", len(snap.Values))

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}

	return backupPath, nil
}

func (m *Manager) capture(ctx context.Context) (snapshot, error) {
	snap := snapshot{
		Version:   snapshotVersion,
		CreatedAt: m.now().UTC().Format(time.RFC3339),
		Store:     m.backend.Describe(),
		Values:    make(map[string]string, len(m.keys)),
	}
	for _, key := range m.keys {
		raw, err := m.backend.Get(ctx, key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return snapshot{}, fmt.Errorf("failed to read %s: %w", key, err)
		}
		snap.Values[key] = string(raw)
	}
	return snap, nil
}

// nextPath picks streakone-YYYYMMDD-HHMM.json, then adds seconds and a
// counter on collision.
func (m *Manager) nextPath() (string, error) {
	now := m.now()
	name := func(stamp string) string {
		return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	}

	backupPath := name(now.Format("20060102-1504"))
	if !exists(backupPath) {
		return backupPath, nil
	}

	stamp := now.Format("20060102-150405")
	backupPath = name(stamp)
	for counter := 1; exists(backupPath); counter++ {
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		backupPath = name(fmt.Sprintf("%s-%d", stamp, counter))
	}
	return backupPath, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// parseTimestamp reads the time out of a backup file name, ignoring a
// trailing collision counter.
func parseTimestamp(name string) (time.Time, bool) {
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	parts := strings.Split(stamp, "-")
	if len(parts) > 2 {
		last := parts[len(parts)-1]
		if len(last) != 4 && len(last) != 6 && isDigits(last) {
			stamp = strings.Join(parts[:len(parts)-1], "-")
		}
	}

	for _, layout := range []string{"20060102-1504", "20060102-150405"} {
		if ts, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

// ListBackups returns a list of all available backups, sorted by timestamp (newest first)
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
			continue
		}

		timestamp, ok := parseTimestamp(name)
		if !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, name),
			Timestamp: timestamp,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

// rotateBackups removes old backups beyond the retention limit
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}

	for i := m.max; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// RestoreBackup writes the snapshot at backupPath back into the store.
// The current contents are backed up first; keys missing from the
// snapshot are deleted. It returns the path of that pre-restore backup.
func (m *Manager) RestoreBackup(ctx context.Context, backupPath string) (string, error) {
	snap, err := readSnapshot(backupPath)
	if err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	current, err := m.createBackup(ctx, true)
	if err != nil {
		return "", fmt.Errorf("failed to backup current data before restore: %w", err)
	}

	for _, key := range m.keys {
		value, ok := snap.Values[key]
		if !ok {
			if err := m.backend.Delete(ctx, key); err != nil {
				return current, fmt.Errorf("failed to clear %s: %w", key, err)
			}
			continue
		}
		if err := m.backend.Set(ctx, key, []byte(value)); err != nil {
			return current, fmt.Errorf("failed to restore %s: %w", key, err)
		}
	}
	logger.Info("Restored backup", "path", backupPath, "pre_restore", current)
	return current, nil
}

func readSnapshot(path string) (snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return snapshot{}, err
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return snapshot{}, err
	}
	if snap.Version < 1 || snap.Version > snapshotVersion {
		return snapshot{}, fmt.Errorf("unsupported backup version %d", snap.Version)
	}
	if snap.Values == nil {
		snap.Values = map[string]string{}
	}
	return snap, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
