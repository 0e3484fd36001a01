package music

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// OutputRate is the sample rate the speaker is opened with. Tracks at other
// rates are resampled.
const OutputRate = beep.SampleRate(44100)

const resampleQuality = 4

// SpeakerBackend plays tracks on the system audio device. Only one track
// sounds at a time.
type SpeakerBackend struct {
	stream beep.StreamSeekCloser
	file   *os.File
	ctrl   *beep.Ctrl
	gain   *effects.Volume
	volume float64
	ended  atomic.Bool
}

// NewSpeakerBackend opens the audio device. It fails when there is none.
func NewSpeakerBackend() (*SpeakerBackend, error) {
	if err := speaker.Init(OutputRate, OutputRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	return &SpeakerBackend{volume: 1}, nil
}

func (b *SpeakerBackend) Available() bool { return true }

// Play stops the current track and starts path from the beginning.
func (b *SpeakerBackend) Play(path string) error {
	stream, format, f, err := openTrack(path)
	if err != nil {
		return err
	}
	b.Stop()

	var src beep.Streamer = stream
	if format.SampleRate != OutputRate {
		src = beep.Resample(resampleQuality, format.SampleRate, OutputRate, stream)
	}
	b.stream, b.file = stream, f
	b.ctrl = &beep.Ctrl{Streamer: src}
	b.gain = &effects.Volume{Streamer: b.ctrl, Base: 2}
	applyVolume(b.gain, b.volume)

	b.ended.Store(false)
	speaker.Play(beep.Seq(b.gain, beep.Callback(func() { b.ended.Store(true) })))
	return nil
}

func (b *SpeakerBackend) Pause()  { b.setPaused(true) }
func (b *SpeakerBackend) Resume() { b.setPaused(false) }

func (b *SpeakerBackend) setPaused(paused bool) {
	if b.ctrl == nil {
		return
	}
	speaker.Lock()
	b.ctrl.Paused = paused
	speaker.Unlock()
}

// Stop silences the device and releases the current track.
func (b *SpeakerBackend) Stop() {
	speaker.Clear()
	if b.stream != nil {
		b.stream.Close()
	}
	if b.file != nil {
		b.file.Close()
	}
	b.stream, b.file, b.ctrl, b.gain = nil, nil, nil, nil
	b.ended.Store(false)
}

// SetVolume takes a linear level from 0 to 1.
func (b *SpeakerBackend) SetVolume(v float64) {
	b.volume = v
	if b.gain == nil {
		return
	}
	speaker.Lock()
	applyVolume(b.gain, v)
	speaker.Unlock()
}

// Busy is true from Play until the track runs out, including while paused.
func (b *SpeakerBackend) Busy() bool {
	return b.stream != nil && !b.ended.Load()
}

// applyVolume maps a linear level onto the base-2 gain of effects.Volume.
func applyVolume(g *effects.Volume, v float64) {
	g.Silent = v <= 0
	if !g.Silent {
		g.Volume = math.Log2(v)
	}
}

// openTrack decodes path by its extension. The returned file is owned by the
// caller.
func openTrack(path string) (beep.StreamSeekCloser, beep.Format, *os.File, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsSupported(path) {
		return nil, beep.Format{}, nil, fmt.Errorf("unsupported audio format %q", ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, nil, err
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch ext {
	case ".mp3":
		stream, format, err = mp3.Decode(nopCloser{f})
	case ".ogg":
		stream, format, err = vorbis.Decode(nopCloser{f})
	case ".flac":
		stream, format, err = flac.Decode(f)
	default:
		stream, format, err = wav.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return stream, format, f, nil
}

// nopCloser leaves closing the file to openTrack's caller.
type nopCloser struct{ io.Reader }

func (nopCloser) Close() error { return nil }
