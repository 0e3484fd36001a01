package favorites

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selah-tui/internal/bible"
	"selah-tui/internal/store"
)

func newService(t *testing.T) *Service {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), store.FileName))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(db)
}

func corpus() *bible.Corpus {
	return &bible.Corpus{Version: "acf", Books: []bible.Book{
		{Abbrev: "gn", Chapters: [][]string{{"No princípio criou Deus os céus e a terra."}}},
		{Abbrev: "sl", Chapters: [][]string{{"Bem-aventurado o homem", "Antes tem o seu prazer na lei do Senhor"}}},
	}}
}

func TestAddDuplicate(t *testing.T) {
	svc := newService(t)
	c := corpus()
	pos := bible.Position{Book: 1, Chapter: 0, Verse: 1}

	ok, err := svc.Add(c, pos, "")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Add(c, pos, "again")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := svc.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	favs, err := svc.List()
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "Salmos 1:2", favs[0].Reference)
	assert.Equal(t, "Antes tem o seu prazer na lei do Senhor", favs[0].Text)
}

func TestSnapshotSurvivesCorpusSwitch(t *testing.T) {
	svc := newService(t)
	pos := bible.Position{}

	_, err := svc.Add(corpus(), pos, "")
	require.NoError(t, err)

	favs, err := svc.List()
	require.NoError(t, err)
	assert.Equal(t, "No princípio criou Deus os céus e a terra.", favs[0].Text)
}

func TestAddInvalidPosition(t *testing.T) {
	svc := newService(t)
	_, err := svc.Add(corpus(), bible.Position{Book: 5}, "")
	assert.Error(t, err)
}

func TestToggleAndNote(t *testing.T) {
	svc := newService(t)
	c := corpus()
	pos := bible.Position{Book: 1}

	on, err := svc.Toggle(c, pos)
	require.NoError(t, err)
	assert.True(t, on)

	updated, err := svc.UpdateNote(pos, "meditar")
	require.NoError(t, err)
	assert.True(t, updated)
	favs, err := svc.List()
	require.NoError(t, err)
	assert.Equal(t, "meditar", favs[0].Note)

	on, err = svc.Toggle(c, pos)
	require.NoError(t, err)
	assert.False(t, on)

	is, err := svc.IsFavorite(pos)
	require.NoError(t, err)
	assert.False(t, is)

	removed, err := svc.Remove(pos)
	require.NoError(t, err)
	assert.False(t, removed)
}
