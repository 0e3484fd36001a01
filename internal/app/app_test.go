package app

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selah-tui/internal/bible"
	"selah-tui/internal/config"
	"selah-tui/internal/history"
	"selah-tui/internal/logging"
	"selah-tui/internal/settings"
	"selah-tui/internal/store"
)

const acf = `[
  {"abbrev": "gn", "chapters": [["No princípio criou Deus os céus e a terra.", "E a terra era sem forma e vazia."], ["Assim os céus e a terra foram acabados."]]},
  {"abbrev": "jo", "chapters": [["No princípio era o Verbo."], ["E, ao terceiro dia, fizeram-se umas bodas."]]}
]`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	require.NoError(t, os.MkdirAll(cfg.TranslationsDir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.TranslationsDir(), "acf.json"), []byte(acf), 0o644))
	return cfg
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newApp(t *testing.T, cfg *config.Config, opts ...Option) *App {
	t.Helper()
	a, err := New(cfg, logging.Discard(), opts...)
	require.NoError(t, err)
	return a
}

func TestFirstRun(t *testing.T) {
	cfg := testConfig(t)
	a := newApp(t, cfg)
	defer a.Close()

	assert.Nil(t, a.Corpus())
	assert.True(t, a.Settings().IsFirstTime())

	_, err := a.Find("princípio")
	assert.ErrorIs(t, err, ErrNoTranslation)
	_, err = a.StartReading(bible.Position{})
	assert.ErrorIs(t, err, ErrNoTranslation)

	ids, err := a.CachedTranslations()
	require.NoError(t, err)
	assert.Equal(t, []string{"acf"}, ids)

	assert.Error(t, a.SelectTranslation("missing"))
	require.NoError(t, a.SelectTranslation("acf"))
	assert.Equal(t, "acf", a.Settings().BibleVersion)
	assert.Error(t, a.RemoveTranslation("acf"), "the loaded translation cannot be removed")
}

func TestReadingSessionPersists(t *testing.T) {
	cfg := testConfig(t)
	clk := &clock{t: time.Date(2026, 10, 16, 7, 0, 0, 0, time.UTC)}
	a := newApp(t, cfg, WithTrackerOptions(history.WithClock(clk.now)))
	require.NoError(t, a.SelectTranslation("acf"))

	e, err := a.StartReading(bible.Position{Verse: 1})
	require.NoError(t, err)
	gen := e.Play()
	more, err := e.Tick(gen)
	require.NoError(t, err)
	require.True(t, more)
	assert.Equal(t, bible.Position{Chapter: 1}, a.Settings().LastPosition)

	e.Faster()
	clk.t = clk.t.Add(10 * time.Minute)
	require.NoError(t, a.StopReading(e))
	require.NoError(t, a.Close())

	b := newApp(t, cfg)
	defer b.Close()
	require.NotNil(t, b.Corpus())
	assert.Equal(t, "acf", b.Corpus().Version)
	assert.Equal(t, bible.Position{Chapter: 1}, b.Settings().LastPosition)
	assert.Equal(t, 0.9, b.Settings().WordSpeed)

	stats, err := b.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ChaptersRead)
	assert.Equal(t, int64(1), stats.TotalVersesRead)
	assert.Equal(t, int64(600), stats.TotalSeconds)
	assert.Equal(t, 0.1, stats.ProgressPercent)

	read, err := b.ChaptersRead("gn")
	require.NoError(t, err)
	assert.Equal(t, []int{0}, read)

	require.NoError(t, b.ClearHistory())
	stats, err = b.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.ChaptersRead)
}

func TestFindAndFavorites(t *testing.T) {
	a := newApp(t, testConfig(t))
	defer a.Close()
	require.NoError(t, a.SelectTranslation("acf"))

	results, err := a.Find("no princípio")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "**No princípio** criou Deus os céus e a terra.", results[0].Highlight)

	results, err = a.Find("João 2:1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, bible.Position{Book: 1, Chapter: 1}, results[0].Position)

	pos := results[0].Position
	on, err := a.ToggleFavorite(pos)
	require.NoError(t, err)
	assert.True(t, on)
	require.NoError(t, a.UpdateFavoriteNote(pos, "Caná"))

	favs, err := a.Favorites()
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "João 2:1", favs[0].Reference)
	assert.Equal(t, "Caná", favs[0].Note)

	require.NoError(t, a.RemoveFavorite(pos))
	is, err := a.IsFavorite(pos)
	require.NoError(t, err)
	assert.False(t, is)
	assert.Error(t, a.UpdateFavoriteNote(pos, "gone"))
}

func TestLegacyImportAndClampedPosition(t *testing.T) {
	cfg := testConfig(t)
	legacy := `{"bible_version": "acf", "word_speed": 2.5, "last_position": {"book_index": 1, "chapter_index": 9, "verse_index": 9}}`
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DataDir, "settings.json"), []byte(legacy), 0o644))

	a := newApp(t, cfg)
	defer a.Close()

	require.NotNil(t, a.Corpus())
	assert.Equal(t, 2.5, a.Settings().WordSpeed)
	assert.Equal(t, bible.Position{Book: 1, Chapter: 1}, a.Settings().LastPosition)
	_, err := os.Stat(filepath.Join(cfg.DataDir, "settings.json.backup"))
	assert.NoError(t, err)
}

func TestMusicWithoutDevice(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.MusicDir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.MusicDir(), "hino.mp3"), nil, 0o644))

	a := newApp(t, cfg)
	defer a.Close()

	track, _ := a.MusicStatus()
	assert.Equal(t, "hino", track)
	require.NoError(t, a.ResumeMusic())
	require.NoError(t, a.ToggleMusic())
	assert.False(t, a.Settings().MusicEnabled, "no device disables music")
	require.NoError(t, a.PollMusic())
}

func TestUpdateSettings(t *testing.T) {
	a := newApp(t, testConfig(t))
	defer a.Close()

	require.NoError(t, a.UpdateSettings(func(s *settings.Settings) {
		s.NightMode = true
		s.SetFontSize(100)
	}))
	assert.True(t, a.Settings().NightMode)
	assert.Equal(t, settings.MaxFontSize, a.Settings().FontSize)
}

func TestUnreadableSettingsFallBackToDefaults(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(cfg.DataDir, store.FileName)
	db, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	for _, stmt := range []string{
		`DROP TABLE settings`,
		`CREATE TABLE settings (key TEXT PRIMARY KEY, value TEXT)`,
		`INSERT INTO settings (key, value) VALUES ('bible_version', NULL)`,
	} {
		_, err := raw.Exec(stmt)
		require.NoError(t, err)
	}
	require.NoError(t, raw.Close())

	a := newApp(t, cfg)
	defer a.Close()
	assert.Equal(t, settings.Defaults(), a.Settings())
	assert.Nil(t, a.Corpus())
}
