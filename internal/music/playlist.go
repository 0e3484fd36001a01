// Package music plays background music from a folder while reading.
package music

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// SupportedFormats are the file extensions picked up from a music folder.
var SupportedFormats = []string{".mp3", ".wav", ".ogg", ".flac"}

// Playlist is an ordered list of tracks with a cursor. Next and Previous wrap.
type Playlist struct {
	tracks  []string
	current int
	shuffle bool
}

// Scan lists the supported files directly inside dir, sorted by name, or
// shuffled when shuffle is set.
func Scan(dir string, shuffle bool) (*Playlist, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read music folder: %w", err)
	}
	var tracks []string
	for _, e := range entries {
		if e.IsDir() || !IsSupported(e.Name()) {
			continue
		}
		tracks = append(tracks, filepath.Join(dir, e.Name()))
	}
	return NewPlaylist(tracks, shuffle), nil
}

func NewPlaylist(tracks []string, shuffle bool) *Playlist {
	p := &Playlist{tracks: slices.Clone(tracks), shuffle: shuffle}
	if shuffle {
		rand.Shuffle(len(p.tracks), func(i, j int) { p.tracks[i], p.tracks[j] = p.tracks[j], p.tracks[i] })
	}
	return p
}

func IsSupported(name string) bool {
	return slices.Contains(SupportedFormats, strings.ToLower(filepath.Ext(name)))
}

func (p *Playlist) Len() int         { return len(p.tracks) }
func (p *Playlist) Empty() bool      { return len(p.tracks) == 0 }
func (p *Playlist) Shuffled() bool   { return p.shuffle }
func (p *Playlist) Tracks() []string { return slices.Clone(p.tracks) }

// Current returns the track under the cursor, or "" for an empty playlist.
func (p *Playlist) Current() string {
	if p.Empty() {
		return ""
	}
	return p.tracks[p.current]
}

// CurrentName is the current track's file name without its extension.
func (p *Playlist) CurrentName() string {
	cur := p.Current()
	if cur == "" {
		return ""
	}
	base := filepath.Base(cur)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (p *Playlist) Next() string {
	if p.Empty() {
		return ""
	}
	p.current = (p.current + 1) % len(p.tracks)
	return p.tracks[p.current]
}

func (p *Playlist) Previous() string {
	if p.Empty() {
		return ""
	}
	p.current = (p.current - 1 + len(p.tracks)) % len(p.tracks)
	return p.tracks[p.current]
}

// ToggleShuffle switches shuffling. The current track moves to the front
// and keeps playing; turning shuffle off restores name order.
func (p *Playlist) ToggleShuffle() bool {
	p.shuffle = !p.shuffle
	if p.Empty() {
		return p.shuffle
	}
	cur := p.tracks[p.current]
	rest := slices.Delete(slices.Clone(p.tracks), p.current, p.current+1)
	if p.shuffle {
		rand.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
	} else {
		slices.Sort(rest)
	}
	p.tracks = append([]string{cur}, rest...)
	p.current = 0
	return p.shuffle
}
