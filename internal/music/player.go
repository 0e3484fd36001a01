package music

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

var ErrEmptyPlaylist = errors.New("playlist is empty")

// Backend is the audio output device.
type Backend interface {
	Available() bool
	Play(path string) error
	Pause()
	Resume()
	Stop()
	SetVolume(v float64)
	// Busy reports whether a track is still sounding.
	Busy() bool
}

// NullBackend is used when no audio device exists. It accepts every call and
// never plays anything.
type NullBackend struct{}

func (NullBackend) Available() bool   { return false }
func (NullBackend) Play(string) error { return nil }
func (NullBackend) Pause()            {}
func (NullBackend) Resume()           {}
func (NullBackend) Stop()             {}
func (NullBackend) SetVolume(float64) {}
func (NullBackend) Busy() bool        { return false }

type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Player drives a Backend through a Playlist.
type Player struct {
	backend  Backend
	playlist *Playlist
	volume   float64
	state    State
	logger   *slog.Logger
}

func NewPlayer(b Backend, volume float64, logger *slog.Logger) *Player {
	if b == nil {
		b = NullBackend{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Player{backend: b, playlist: NewPlaylist(nil, false), logger: logger}
	p.SetVolume(volume)
	return p
}

// LoadFolder replaces the playlist with the tracks in dir and stops playback.
func (p *Player) LoadFolder(dir string, shuffle bool) error {
	pl, err := Scan(dir, shuffle)
	if err != nil {
		return err
	}
	p.Stop()
	p.playlist = pl
	p.logger.Info("Music folder loaded", slog.String("dir", dir), slog.Int("tracks", pl.Len()))
	return nil
}

func (p *Player) Available() bool     { return p.backend.Available() }
func (p *Player) State() State        { return p.state }
func (p *Player) Volume() float64     { return p.volume }
func (p *Player) Count() int          { return p.playlist.Len() }
func (p *Player) TrackName() string   { return p.playlist.CurrentName() }
func (p *Player) Playlist() *Playlist { return p.playlist }

// Play starts the current track, resuming instead when paused.
func (p *Player) Play() error {
	if p.state == Paused {
		p.Resume()
		return nil
	}
	return p.start(p.playlist.Current())
}

func (p *Player) start(track string) error {
	if track == "" {
		return ErrEmptyPlaylist
	}
	if err := p.backend.Play(track); err != nil {
		p.state = Stopped
		return fmt.Errorf("play %s: %w", track, err)
	}
	p.backend.SetVolume(p.volume)
	p.state = Playing
	p.logger.Debug("Track started", slog.String("track", track))
	return nil
}

func (p *Player) Pause() {
	if p.state != Playing {
		return
	}
	p.backend.Pause()
	p.state = Paused
}

func (p *Player) Resume() {
	if p.state != Paused {
		return
	}
	p.backend.Resume()
	p.state = Playing
}

// Toggle plays when stopped or paused and pauses when playing.
func (p *Player) Toggle() error {
	if p.state == Playing {
		p.Pause()
		return nil
	}
	return p.Play()
}

func (p *Player) Stop() {
	if p.state == Stopped {
		return
	}
	p.backend.Stop()
	p.state = Stopped
}

func (p *Player) NextTrack() error {
	if p.playlist.Empty() {
		return nil
	}
	return p.start(p.playlist.Next())
}

func (p *Player) PreviousTrack() error {
	if p.playlist.Empty() {
		return nil
	}
	return p.start(p.playlist.Previous())
}

// SetVolume clamps v to 0..1.
func (p *Player) SetVolume(v float64) {
	p.volume = math.Min(math.Max(v, 0), 1)
	p.backend.SetVolume(p.volume)
}

// CheckTrackEnded advances to the next track when the backend went idle
// while playing. It reports whether it advanced.
func (p *Player) CheckTrackEnded() (bool, error) {
	if p.state != Playing || p.backend.Busy() {
		return false, nil
	}
	return true, p.NextTrack()
}
