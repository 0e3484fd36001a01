package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selah-tui/internal/bible"
	"selah-tui/internal/settings"
)

func tempDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", FileName))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestReopenKeepsSchemaAndData(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.MarkChapterRead("gn", 0))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	n, err := db.ChaptersReadCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSettings(t *testing.T) {
	db := tempDB(t)

	_, ok, err := db.Setting("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	pos := settings.Map(map[string]settings.Value{
		"book_index": settings.Number(42),
		"nested":     settings.Map(map[string]settings.Value{"x": settings.Bool(true)}),
	})
	require.NoError(t, db.SetSetting("last_position", pos))
	require.NoError(t, db.SetSetting("word_speed", settings.Number(1.5)))
	require.NoError(t, db.SetSetting("word_speed", settings.Number(2)))
	require.NoError(t, db.SetSetting("bible_version", settings.Null()))

	v, ok, err := db.Setting("last_position")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, pos.Equal(v))

	all, err := db.AllSettings()
	require.NoError(t, err)
	assert.Len(t, all, 3)
	speed, _ := all["word_speed"].AsNumber()
	assert.Equal(t, 2.0, speed)
	assert.True(t, all["bible_version"].IsNull())
}

func TestSettingsLoadThroughStore(t *testing.T) {
	db := tempDB(t)

	s, existed, err := settings.Load(db)
	require.NoError(t, err)
	assert.False(t, existed)

	s.BibleVersion = "acf"
	s.LastPosition = bible.Position{Book: 42, Chapter: 2, Verse: 15}
	require.NoError(t, settings.Save(db, s))

	got, existed, err := settings.Load(db)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, s, got)
}

func TestChaptersRead(t *testing.T) {
	db := tempDB(t)

	require.NoError(t, db.MarkChapterRead("jo", 2))
	require.NoError(t, db.MarkChapterRead("jo", 2))
	require.NoError(t, db.MarkChapterRead("jo", 0))
	require.NoError(t, db.MarkChapterRead("gn", 0))

	n, err := db.ChaptersReadCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	chapters, err := db.ChaptersReadForBook("jo")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, chapters)

	read, err := db.IsChapterRead("jo", 2)
	require.NoError(t, err)
	assert.True(t, read)
	read, err = db.IsChapterRead("jo", 1)
	require.NoError(t, err)
	assert.False(t, read)

	chapters, err = db.ChaptersReadForBook("ap")
	require.NoError(t, err)
	assert.Empty(t, chapters)
}

func TestReadingStatsAndClear(t *testing.T) {
	db := tempDB(t)

	s, err := db.ReadingStats()
	require.NoError(t, err)
	assert.Equal(t, ReadingStats{}, s)

	require.NoError(t, db.IncrementVersesRead(3))
	require.NoError(t, db.IncrementVersesRead(2))
	require.NoError(t, db.AddReadingTime(90))
	require.NoError(t, db.MarkChapterRead("gn", 0))

	s, err = db.ReadingStats()
	require.NoError(t, err)
	assert.Equal(t, ReadingStats{VersesRead: 5, SecondsRead: 90}, s)

	require.NoError(t, db.ClearHistory())
	s, err = db.ReadingStats()
	require.NoError(t, err)
	assert.Equal(t, ReadingStats{}, s)
	n, err := db.ChaptersReadCount()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFavorites(t *testing.T) {
	db := tempDB(t)
	base := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	tick := 0
	db.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	john := bible.Position{Book: 42, Chapter: 2, Verse: 15}
	gen := bible.Position{}

	ok, err := db.AddFavorite(Favorite{Position: john, Text: "Porque Deus amou o mundo", Reference: "João 3:16"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = db.AddFavorite(Favorite{Position: john, Text: "dup", Reference: "João 3:16"})
	require.NoError(t, err)
	assert.False(t, ok, "duplicate position must be rejected")

	n, err := db.FavoritesCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ok, err = db.AddFavorite(Favorite{Position: gen, Text: "No princípio", Reference: "Gênesis 1:1", Note: "início"})
	require.NoError(t, err)
	assert.True(t, ok)

	favs, err := db.Favorites()
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, gen, favs[0].Position, "newest first")
	assert.Equal(t, "início", favs[0].Note)
	assert.Equal(t, "Porque Deus amou o mundo", favs[1].Text)
	assert.Equal(t, "", favs[1].Note)
	assert.True(t, favs[0].CreatedAt.After(favs[1].CreatedAt))

	updated, err := db.UpdateFavoriteNote(john, "versículo áureo")
	require.NoError(t, err)
	assert.True(t, updated)
	updated, err = db.UpdateFavoriteNote(bible.Position{Book: 1}, "x")
	require.NoError(t, err)
	assert.False(t, updated)

	is, err := db.IsFavorite(john)
	require.NoError(t, err)
	assert.True(t, is)

	removed, err := db.RemoveFavorite(john)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = db.RemoveFavorite(john)
	require.NoError(t, err)
	assert.False(t, removed)

	is, err = db.IsFavorite(john)
	require.NoError(t, err)
	assert.False(t, is)
}

func TestImportLegacy(t *testing.T) {
	db := tempDB(t)
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, LegacySettingsFile),
		[]byte(`{"bible_version":"acf","word_speed":0.8,"last_position":{"book_index":1,"chapter_index":2,"verse_index":3}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, LegacyHistoryFile),
		[]byte(`{"chapters_read":[{"book":"gn","chapter":0},{"book":"gn","chapter":0},{"book":"jo","chapter":2}],"total_verses_read":120,"total_time_reading":3600}`), 0o644))

	require.NoError(t, db.ImportLegacy(dir))

	s, existed, err := settings.Load(db)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, "acf", s.BibleVersion)
	assert.Equal(t, 0.8, s.WordSpeed)
	assert.Equal(t, bible.Position{Book: 1, Chapter: 2, Verse: 3}, s.LastPosition)

	n, err := db.ChaptersReadCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	stats, err := db.ReadingStats()
	require.NoError(t, err)
	assert.Equal(t, ReadingStats{VersesRead: 120, SecondsRead: 3600}, stats)

	assert.FileExists(t, filepath.Join(dir, LegacySettingsFile+".backup"))
	assert.NoFileExists(t, filepath.Join(dir, LegacyHistoryFile))

	// Second run finds nothing to import.
	require.NoError(t, db.ImportLegacy(dir))
	require.NoError(t, db.ImportLegacy(t.TempDir()))
}

func TestImportLegacyBadFileIsKept(t *testing.T) {
	db := tempDB(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, LegacyHistoryFile), []byte(`{broken`), 0o644))

	assert.Error(t, db.ImportLegacy(dir))
	assert.FileExists(t, filepath.Join(dir, LegacyHistoryFile))
}
