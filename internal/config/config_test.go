package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, filepath.Join(cfg.DataDir, "translations"), cfg.TranslationsDir())
	assert.Equal(t, filepath.Join(cfg.DataDir, "music"), cfg.MusicDir())
	assert.Equal(t, filepath.Join(cfg.DataDir, "selah.log"), cfg.LogFile())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"no data dir", func(c *Config) { c.DataDir = "" }, "data_dir"},
		{"url without placeholder", func(c *Config) { c.Translations.DownloadURL = "https://example.com/x.zip" }, "{id}"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"zero max results", func(c *Config) { c.Search.MaxResults = 0 }, "max_results"},
		{"no download url", func(c *Config) { c.Translations.DownloadURL = "" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestMerge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(&Config{
		DataDir: "/srv/selah",
		Log:     LogConfig{Level: "debug"},
		Search:  SearchConfig{CaseSensitive: true},
	})
	assert.Equal(t, "/srv/selah", cfg.DataDir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 100, cfg.Search.MaxResults)
	assert.True(t, cfg.Search.CaseSensitive)

	cfg.Merge(nil)
	assert.Equal(t, "/srv/selah", cfg.DataDir)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Translations.Language = "Português"
	cfg.Search.MaxResults = 25
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoaderLayers(t *testing.T) {
	userDir := t.TempDir()
	l := &Loader{logger: NewLoader(nil).logger, userDir: userDir}

	require.NoError(t, os.WriteFile(l.UserConfigPath(), []byte("data_dir: /home/ana/selah\nsearch:\n  max_results: 10\n"), 0o644))
	explicit := filepath.Join(t.TempDir(), "override.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("log:\n  level: debug\n"), 0o644))

	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, "/home/ana/selah", cfg.DataDir)
	assert.Equal(t, 10, cfg.Search.MaxResults)
	assert.Equal(t, "info", cfg.Log.Level)

	cfg, err = l.Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, "/home/ana/selah", cfg.DataDir, "explicit file does not reset user values")
	assert.Equal(t, "debug", cfg.Log.Level)

	_, err = l.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoaderBrokenUserConfig(t *testing.T) {
	l := &Loader{logger: NewLoader(nil).logger, userDir: t.TempDir()}
	require.NoError(t, os.WriteFile(l.UserConfigPath(), []byte("data_dir: [unclosed"), 0o644))

	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().DataDir, cfg.DataDir)
}

func TestEnsureUserConfig(t *testing.T) {
	l := &Loader{logger: NewLoader(nil).logger, userDir: filepath.Join(t.TempDir(), AppDir)}

	require.NoError(t, l.EnsureUserConfig())
	_, err := os.Stat(l.UserConfigPath())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(l.UserConfigPath(), []byte("data_dir: /keep\n"), 0o644))
	require.NoError(t, l.EnsureUserConfig())
	cfg, err := LoadFromFile(l.UserConfigPath())
	require.NoError(t, err)
	assert.Equal(t, "/keep", cfg.DataDir)
}
