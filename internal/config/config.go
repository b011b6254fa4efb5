package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/julianstephens/streakone/internal/constants"
	"github.com/julianstephens/streakone/internal/keyring"
	"github.com/julianstephens/streakone/internal/logger"
	"github.com/julianstephens/streakone/internal/validation"
)

const (
	KeyStore               = "store"
	KeyTimezone            = "timezone"
	KeyDebug               = "debug"
	KeyReminderDefaultTime = "reminder.default_time"
	KeyBackupMax           = "backup.max"
)

// Source records where the store location came from.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
	SourceFile    Source = "file"
	SourceDefault Source = "default"
)

// Config is the resolved runtime configuration.
type Config struct {
	Store       string
	StoreSource Source
	Timezone    string
	Location    *time.Location
	Debug       bool
	// ReminderTime is the HH:MM used when a reminder is enabled without one.
	ReminderTime string
	BackupMax    int
	// Dir holds the config file, logs and backups.
	Dir  string
	File string
}

// Options carries values from command-line flags, which win over
// everything else. Empty values are ignored.
type Options struct {
	Store    string
	Timezone string
	Debug    bool
	// ConfigFile overrides $XDG_CONFIG_HOME/streakone/streakone.yml.
	ConfigFile string
	// Keyring looks up a saved store location. Nil uses the OS keyring.
	Keyring func() (string, error)
}

// Dir returns $XDG_CONFIG_HOME/streakone, falling back to the platform
// default config home.
func Dir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("error getting user home directory: %w", err)
		}
		if runtime.GOOS == "windows" {
			configHome = filepath.Join(homeDir, "AppData", "Roaming")
		} else {
			configHome = filepath.Join(homeDir, ".config")
		}
	}
	return filepath.Join(configHome, constants.AppName), nil
}

func newViper(file string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyStore, constants.DefaultConfigPath)
	v.SetDefault(KeyTimezone, "")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyReminderDefaultTime, constants.DefaultReminderTime)
	v.SetDefault(KeyBackupMax, constants.MaxBackups)
	return v
}

// Load resolves the configuration. The config file is created with the
// defaults when it does not exist yet.
func Load(opts Options) (*Config, error) {
	file := opts.ConfigFile
	if file == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		file = filepath.Join(dir, constants.AppName+".yml")
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	v := newViper(file)
	fileHasStore := false
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file %s: %w", file, err)
		}
		logger.Info("Config file not found; creating one with default values", "path", file)
		if err := v.WriteConfigAs(file); err != nil {
			return nil, fmt.Errorf("error creating config file: %w", err)
		}
	} else {
		fileHasStore = v.InConfig(KeyStore)
	}

	cfg := &Config{
		Timezone:     v.GetString(KeyTimezone),
		Debug:        v.GetBool(KeyDebug) || opts.Debug,
		ReminderTime: v.GetString(KeyReminderDefaultTime),
		BackupMax:    v.GetInt(KeyBackupMax),
		Dir:          filepath.Dir(file),
		File:         file,
	}
	if opts.Timezone != "" {
		cfg.Timezone = opts.Timezone
	}

	cfg.Store, cfg.StoreSource = resolveStore(v, opts, fileHasStore)

	loc, err := LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	cfg.Location = loc

	if cfg.ReminderTime, err = validation.NormalizeTime(cfg.ReminderTime); err != nil {
		return nil, fmt.Errorf("%s: %w", KeyReminderDefaultTime, err)
	}
	if cfg.BackupMax < 1 {
		return nil, fmt.Errorf("%s must be at least 1, got %d", KeyBackupMax, cfg.BackupMax)
	}
	return cfg, nil
}

// resolveStore applies flag > env > keyring > file > default.
func resolveStore(v *viper.Viper, opts Options, fileHasStore bool) (string, Source) {
	if opts.Store != "" {
		return opts.Store, SourceFlag
	}
	if env, ok := os.LookupEnv(constants.EnvPrefix + "_STORE"); ok && env != "" {
		return env, SourceEnv
	}

	lookup := opts.Keyring
	if lookup == nil {
		lookup = keyring.StoreURL
	}
	connStr, err := lookup()
	switch {
	case err == nil && connStr != "":
		return connStr, SourceKeyring
	case err != nil && !errors.Is(err, keyring.ErrNotFound):
		logger.Debug("Keyring lookup failed", "error", err)
	}

	if fileHasStore {
		return v.GetString(KeyStore), SourceFile
	}
	return v.GetString(KeyStore), SourceDefault
}

// LoadLocation resolves a timezone name; empty means the system zone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// BackupDir returns the directory backups are written to.
func (c *Config) BackupDir() string {
	return filepath.Join(c.Dir, constants.BackupDirName)
}

// Now returns the current time in the configured zone.
func (c *Config) Now() time.Time {
	return time.Now().In(c.Location)
}
