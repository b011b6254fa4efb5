package constants

import "time"

const (
	AppName            = "streakone"
	DefaultKeyringUser = "store-connection"
	DefaultConfigPath  = "~/.config/streakone/streakone.db"
	Version            = "v0.3.0"

	// EnvPrefix is prepended to configuration keys read from the environment
	// (STREAKONE_STORE, STREAKONE_TIMEZONE, ...).
	EnvPrefix = "STREAKONE"

	// StorageKey is the single key-value slot that holds the whole collection.
	StorageKey = "@streak_data"
	// ReminderKey holds the reminder schedule next to the collection.
	ReminderKey = "@streak_reminders"
	// CorruptSuffix is appended to a key when an unreadable blob is preserved.
	CorruptSuffix = ".corrupt"

	// DayLayout is the canonical calendar-day marker, e.g. "Mon Jan 15 2024".
	DayLayout = "Mon Jan 02 2006"
	// DateFormat is the ISO calendar date (YYYY-MM-DD), accepted on input.
	DateFormat = "2006-01-02"
	// TimeFormat is the reminder time-of-day format (HH:MM).
	TimeFormat = "15:04"
	// CreatedAtFormat matches JavaScript's Date.prototype.toISOString.
	CreatedAtFormat = "2006-01-02T15:04:05.000Z07:00"

	// Legacy migration defaults
	LegacyStreakID   = "default-streak"
	LegacyStreakName = "My Streak"

	DefaultReminderTime = "09:00"
	MaxNameLength       = 50

	// CompletionWindowDays is the look-back window for the completion rate.
	CompletionWindowDays = 30

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "streakone-"
	BackupFileSuffix = ".json"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "streakone-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.streakone"
)

// StreakColors is the palette new streaks are colored from, by position.
var StreakColors = []string{
	"#22c55e", // green
	"#3b82f6", // blue
	"#f59e0b", // amber
	"#ef4444", // red
	"#8b5cf6", // purple
	"#ec4899", // pink
	"#06b6d4", // cyan
	"#f97316", // orange
	"#10b981", // emerald
	"#6366f1", // indigo
	"#f43f5e", // rose
	"#14b8a6", // teal
	"#a855f7", // violet
	"#eab308", // yellow
}
