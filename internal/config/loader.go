package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// AppDir is the directory under the user config dir.
	AppDir = "selah-tui"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger  *slog.Logger
	userDir string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{logger: logger}
	if dir, err := os.UserConfigDir(); err == nil {
		l.userDir = filepath.Join(dir, AppDir)
	}
	return l
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (<user config dir>/selah-tui/config.yaml)
// 3. The explicit file, when path is not empty
func (l *Loader) Load(path string) (*Config, error) {
	config := DefaultConfig()

	if userPath := l.UserConfigPath(); userPath != "" {
		var user Config
		if err := decodeFile(userPath, &user); err == nil {
			l.logger.Debug("Loaded user config", slog.String("path", userPath))
			config.Merge(&user)
		} else if !errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("Failed to load user config", slog.String("path", userPath), slog.String("error", err.Error()))
		}
	}

	// An explicit file must exist and parse.
	if path != "" {
		var explicit Config
		if err := decodeFile(path, &explicit); err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config", slog.String("path", path))
		config.Merge(&explicit)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// EnsureUserConfig creates the user config file with defaults if it doesn't exist
func (l *Loader) EnsureUserConfig() error {
	userPath := l.UserConfigPath()
	if userPath == "" {
		return nil
	}
	if _, err := os.Stat(userPath); err == nil {
		return nil
	}

	if err := DefaultConfig().SaveToFile(userPath); err != nil {
		return err
	}
	l.logger.Info("Created default user config", slog.String("path", userPath))
	return nil
}

// UserConfigPath returns the path to the user config file, or "" when the
// platform has no user config directory.
func (l *Loader) UserConfigPath() string {
	if l.userDir == "" {
		return ""
	}
	return filepath.Join(l.userDir, UserConfigFile)
}
