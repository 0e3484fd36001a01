// Package config loads application configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"selah-tui/internal/logging"
)

// Config holds application-level configuration. Reading preferences are not
// here; they live in the database.
type Config struct {
	DataDir      string             `yaml:"data_dir"`
	Translations TranslationsConfig `yaml:"translations"`
	Music        MusicConfig        `yaml:"music"`
	Log          LogConfig          `yaml:"log"`
	Search       SearchConfig       `yaml:"search"`
}

// TranslationsConfig locates translation documents and where to fetch them.
type TranslationsConfig struct {
	// Dir defaults to <data_dir>/translations.
	Dir string `yaml:"dir"`
	// DownloadURL is a template; {id} is replaced by the translation id.
	DownloadURL string `yaml:"download_url"`
	CatalogURL  string `yaml:"catalog_url"`
	// Language filters the remote catalog.
	Language string `yaml:"language"`
}

type MusicConfig struct {
	// Dir is used when no music folder was chosen in the app. It defaults
	// to <data_dir>/music.
	Dir     string `yaml:"dir"`
	Shuffle bool   `yaml:"shuffle"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File defaults to <data_dir>/selah.log.
	File string `yaml:"file"`
}

type SearchConfig struct {
	MaxResults    int  `yaml:"max_results"`
	CaseSensitive bool `yaml:"case_sensitive"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	dataDir := ".selah-tui"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".local", "share", "selah-tui")
	}
	return &Config{
		DataDir: dataDir,
		Translations: TranslationsConfig{
			DownloadURL: "https://bolls.life/static/translations/{id}.zip",
			CatalogURL:  "https://bolls.life/static/bolls/app/views/languages.json",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Search: SearchConfig{
			MaxResults: 100,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Translations.DownloadURL != "" && !strings.Contains(c.Translations.DownloadURL, "{id}") {
		return fmt.Errorf("translations.download_url must contain {id}")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("log.format: %w", err)
	}
	if c.Search.MaxResults < 1 {
		return fmt.Errorf("search.max_results must be positive")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := decodeFile(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

func decodeFile(path string, into *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// SaveToFile writes configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Merge merges another config into this one. Non-zero values in other take
// precedence.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}

	// Translations
	if other.Translations.Dir != "" {
		c.Translations.Dir = other.Translations.Dir
	}
	if other.Translations.DownloadURL != "" {
		c.Translations.DownloadURL = other.Translations.DownloadURL
	}
	if other.Translations.CatalogURL != "" {
		c.Translations.CatalogURL = other.Translations.CatalogURL
	}
	if other.Translations.Language != "" {
		c.Translations.Language = other.Translations.Language
	}

	// Music
	if other.Music.Dir != "" {
		c.Music.Dir = other.Music.Dir
	}
	if other.Music.Shuffle {
		c.Music.Shuffle = true
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}
	if other.Log.File != "" {
		c.Log.File = other.Log.File
	}

	// Search
	if other.Search.MaxResults != 0 {
		c.Search.MaxResults = other.Search.MaxResults
	}
	if other.Search.CaseSensitive {
		c.Search.CaseSensitive = true
	}
}

func (c *Config) TranslationsDir() string {
	if c.Translations.Dir != "" {
		return c.Translations.Dir
	}
	return filepath.Join(c.DataDir, "translations")
}

func (c *Config) MusicDir() string {
	if c.Music.Dir != "" {
		return c.Music.Dir
	}
	return filepath.Join(c.DataDir, "music")
}

func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.DataDir, "selah.log")
}
