package music

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	played []string
	busy   bool
	volume float64
	paused bool
	fail   error
}

func (f *fakeBackend) Available() bool { return true }

func (f *fakeBackend) Play(path string) error {
	if f.fail != nil {
		return f.fail
	}
	f.played = append(f.played, path)
	f.busy = true
	return nil
}

func (f *fakeBackend) Pause()              { f.paused = true }
func (f *fakeBackend) Resume()             { f.paused = false }
func (f *fakeBackend) Stop()               { f.busy = false }
func (f *fakeBackend) SetVolume(v float64) { f.volume = v }
func (f *fakeBackend) Busy() bool          { return f.busy }

func musicDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"b.MP3", "a.ogg", "c.flac", "notes.txt", "d.wav"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "e.mp3"), 0o755))
	return dir
}

func TestScan(t *testing.T) {
	dir := musicDir(t)

	p, err := Scan(dir, false)
	require.NoError(t, err)
	require.Equal(t, 4, p.Len())
	assert.Equal(t, "a", p.CurrentName())

	names := []string{}
	for range p.Len() {
		names = append(names, filepath.Base(p.Next()))
	}
	assert.Equal(t, []string{"b.MP3", "c.flac", "d.wav", "a.ogg"}, names)

	_, err = Scan(filepath.Join(dir, "missing"), false)
	assert.Error(t, err)
}

func TestPlaylistWraps(t *testing.T) {
	p := NewPlaylist([]string{"x.mp3", "y.mp3"}, false)
	assert.Equal(t, "y.mp3", p.Previous())
	assert.Equal(t, "x.mp3", p.Next())
	assert.Equal(t, "y.mp3", p.Next())

	empty := NewPlaylist(nil, true)
	assert.Equal(t, "", empty.Next())
	assert.Equal(t, "", empty.Previous())
	assert.Equal(t, "", empty.CurrentName())
}

func TestToggleShuffleKeepsCurrent(t *testing.T) {
	p := NewPlaylist([]string{"a", "b", "c", "d", "e"}, false)
	p.Next()
	p.Next()

	assert.True(t, p.ToggleShuffle())
	assert.Equal(t, "c", p.Current())
	assert.Equal(t, "c", p.Tracks()[0])
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, p.Tracks())

	p.Next()
	cur := p.Current()
	assert.False(t, p.ToggleShuffle())
	assert.Equal(t, cur, p.Tracks()[0])
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, p.Tracks())
}

func TestPlayerLifecycle(t *testing.T) {
	b := &fakeBackend{}
	p := NewPlayer(b, 1.5, nil)
	assert.Equal(t, 1.0, p.Volume())

	assert.ErrorIs(t, p.Play(), ErrEmptyPlaylist)

	require.NoError(t, p.LoadFolder(musicDir(t), false))
	require.NoError(t, p.Play())
	assert.Equal(t, Playing, p.State())
	assert.Equal(t, "a", p.TrackName())

	p.Pause()
	assert.Equal(t, Paused, p.State())
	assert.True(t, b.paused)
	require.NoError(t, p.Toggle())
	assert.Equal(t, Playing, p.State())
	assert.False(t, b.paused)

	advanced, err := p.CheckTrackEnded()
	require.NoError(t, err)
	assert.False(t, advanced)

	b.busy = false
	advanced, err = p.CheckTrackEnded()
	require.NoError(t, err)
	assert.True(t, advanced)
	assert.Equal(t, "b", p.TrackName())

	require.NoError(t, p.PreviousTrack())
	assert.Equal(t, "a", p.TrackName())
	assert.Len(t, b.played, 3)

	p.Stop()
	assert.Equal(t, Stopped, p.State())
	b.busy = false
	advanced, err = p.CheckTrackEnded()
	require.NoError(t, err)
	assert.False(t, advanced)

	p.SetVolume(-1)
	assert.Equal(t, 0.0, b.volume)
}

func TestNullBackend(t *testing.T) {
	p := NewPlayer(nil, 0.5, nil)
	assert.False(t, p.Available())
	require.NoError(t, p.NextTrack())
	assert.Equal(t, Stopped, p.State())
}
