package reader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selah-tui/internal/bible"
	"selah-tui/internal/settings"
)

type chapterMark struct {
	book    string
	chapter int
}

type recorder struct {
	verses   int
	chapters []chapterMark
}

func (r *recorder) IncrementVerses(n int) error {
	r.verses += n
	return nil
}

func (r *recorder) MarkChapterRead(book string, chapter int) error {
	r.chapters = append(r.chapters, chapterMark{book, chapter})
	return nil
}

func corpus() *bible.Corpus {
	return &bible.Corpus{Version: "acf", Books: []bible.Book{
		{Abbrev: "gn", Chapters: [][]string{
			{"No princípio criou Deus", "E a terra era sem forma"},
			{"Assim os céus e a terra foram acabados"},
		}},
		{Abbrev: "ap", Chapters: [][]string{
			{"Amém"},
		}},
	}}
}

func newEngine(mode settings.ReadingMode, pos bible.Position) (*Engine, *recorder, *[]bible.Position) {
	rec := &recorder{}
	var moves []bible.Position
	e := New(corpus(), rec, pos, mode, 0.3, func(p bible.Position) { moves = append(moves, p) })
	return e, rec, &moves
}

func TestChunkModeAdvancesVerses(t *testing.T) {
	e, rec, moves := newEngine(settings.ModeChunks, bible.Position{})

	assert.Equal(t, 4*300*time.Millisecond, e.Delay())
	assert.Equal(t, "No princípio criou Deus", e.Display())

	gen := e.Play()
	more, err := e.Tick(gen)
	require.NoError(t, err)
	assert.True(t, more)
	assert.Equal(t, bible.Position{Verse: 1}, e.Position())
	assert.Equal(t, 1, rec.verses)
	assert.Empty(t, rec.chapters)

	more, err = e.Tick(e.Generation())
	require.NoError(t, err)
	assert.True(t, more)
	assert.Equal(t, bible.Position{Chapter: 1}, e.Position())
	assert.Equal(t, []chapterMark{{"gn", 0}}, rec.chapters)

	more, err = e.Tick(e.Generation())
	require.NoError(t, err)
	assert.True(t, more)
	assert.Equal(t, bible.Position{Book: 1}, e.Position())
	assert.Equal(t, []chapterMark{{"gn", 0}, {"gn", 1}}, rec.chapters)
	assert.Equal(t, "Apocalipse 1:1", e.Reference())

	assert.Equal(t, []bible.Position{{}, {Verse: 1}, {Chapter: 1}, {Book: 1}}, *moves)
}

func TestEndOfCorpusStops(t *testing.T) {
	e, rec, _ := newEngine(settings.ModeChunks, bible.Position{Book: 1})

	gen := e.Play()
	more, err := e.Tick(gen)
	require.NoError(t, err)
	assert.False(t, more)
	assert.False(t, e.Playing())
	assert.True(t, e.Finished())
	assert.Equal(t, bible.Position{Book: 1}, e.Position())
	assert.Equal(t, 1, rec.verses)
	assert.Empty(t, rec.chapters, "the last chapter is not marked at the end of the corpus")
}

func TestWordMode(t *testing.T) {
	e, rec, _ := newEngine(settings.ModeWord, bible.Position{})

	assert.Equal(t, 300*time.Millisecond, e.Delay())
	assert.Equal(t, "No", e.Display())

	gen := e.Play()
	for _, want := range []string{"princípio", "criou", "Deus"} {
		more, err := e.Tick(gen)
		require.NoError(t, err)
		require.True(t, more)
		assert.Equal(t, want, e.Display())
	}
	assert.Zero(t, rec.verses)

	more, err := e.Tick(gen)
	require.NoError(t, err)
	assert.True(t, more)
	assert.Equal(t, bible.Position{Verse: 1}, e.Position())
	assert.Equal(t, "E", e.Display())
	assert.Equal(t, 1, rec.verses)
	cur, total := e.WordIndex()
	assert.Equal(t, 0, cur)
	assert.Equal(t, 6, total)
}

func TestStaleTicksAreIgnored(t *testing.T) {
	e, rec, _ := newEngine(settings.ModeChunks, bible.Position{})

	gen := e.Play()
	e.Pause()
	more, err := e.Tick(gen)
	require.NoError(t, err)
	assert.False(t, more)
	assert.Equal(t, bible.Position{}, e.Position())

	gen = e.Play()
	require.NoError(t, e.Next())
	more, err = e.Tick(gen)
	require.NoError(t, err)
	assert.False(t, more, "a manual move invalidates the pending tick")
	assert.True(t, e.Playing())
	assert.Equal(t, bible.Position{Verse: 1}, e.Position())
	assert.Zero(t, rec.verses)
}

func TestManualNavigation(t *testing.T) {
	e, rec, _ := newEngine(settings.ModeChunks, bible.Position{Verse: 1})

	e.Previous()
	assert.Equal(t, bible.Position{}, e.Position())
	e.Previous()
	assert.Equal(t, bible.Position{}, e.Position())

	require.NoError(t, e.Next())
	require.NoError(t, e.Next())
	assert.Equal(t, bible.Position{Chapter: 1}, e.Position())
	assert.Equal(t, []chapterMark{{"gn", 0}}, rec.chapters)
	assert.Zero(t, rec.verses)

	e.Jump(bible.Position{Book: 1})
	require.NoError(t, e.Next())
	assert.Equal(t, bible.Position{Book: 1}, e.Position())

	e.Jump(bible.Position{Book: 9, Chapter: 9, Verse: 9})
	assert.Equal(t, bible.Position{Book: 1}, e.Position())
}

func TestSpeedAndMode(t *testing.T) {
	e, _, _ := newEngine(settings.ModeChunks, bible.Position{})

	assert.Equal(t, 0.2, e.Faster())
	assert.Equal(t, 0.1, e.Faster())
	assert.Equal(t, 0.1, e.Faster())
	e.SetSpeed(4.95)
	assert.Equal(t, 5.0, e.Slower())

	gen := e.Generation()
	assert.Equal(t, settings.ModeWord, e.ToggleMode())
	assert.NotEqual(t, gen, e.Generation())
	assert.Equal(t, settings.ModeChunks, e.ToggleMode())
}

func TestChapterProgress(t *testing.T) {
	e, _, _ := newEngine(settings.ModeChunks, bible.Position{})
	assert.Equal(t, 0.5, e.ChapterProgress())
	require.NoError(t, e.Next())
	assert.Equal(t, 1.0, e.ChapterProgress())
}

func TestToggle(t *testing.T) {
	e, _, _ := newEngine(settings.ModeChunks, bible.Position{})
	assert.True(t, e.Toggle())
	assert.False(t, e.Toggle())
	assert.False(t, e.Playing())
}
