// Package settings holds the user's reading preferences. They are persisted
// as individual key/value records; loading falls back to defaults field by
// field so that older stores without newer keys still load.
package settings

import (
	"fmt"
	"math"

	"selah-tui/internal/bible"
)

// ReadingMode selects how the reader advances.
type ReadingMode string

const (
	// ModeChunks shows one whole verse at a time.
	ModeChunks ReadingMode = "chunks"
	// ModeWord shows one word of the current verse at a time.
	ModeWord ReadingMode = "word"
)

const (
	MinWordSpeed = 0.1
	MaxWordSpeed = 5.0
	MinFontSize  = 16
	MaxFontSize  = 72
)

// Store keys.
const (
	KeyBibleVersion = "bible_version"
	KeyReadingMode  = "reading_mode"
	KeyWordSpeed    = "word_speed"
	KeyLastPosition = "last_position"
	KeyMusicFolder  = "music_folder"
	KeyMusicVolume  = "music_volume"
	KeyMusicEnabled = "music_enabled"
	KeyFontSize     = "font_size"
	KeyNightMode    = "night_mode"
	KeyFullscreen   = "fullscreen"
)

type Settings struct {
	// BibleVersion is the selected translation id; empty until the first
	// selection.
	BibleVersion string
	// ReadingMode defaults to ModeChunks.
	ReadingMode ReadingMode
	// WordSpeed is seconds per word, 0.1 to 5.0. Default 1.0.
	WordSpeed float64
	// LastPosition is where reading resumes. Default Gênesis 1:1.
	LastPosition bible.Position
	// MusicFolder holds background tracks; empty disables music.
	MusicFolder string
	// MusicVolume is 0.0 to 1.0. Default 0.5.
	MusicVolume float64
	// MusicEnabled defaults to true.
	MusicEnabled bool
	// FontSize is 16 to 72. Default 32.
	FontSize int
	// NightMode switches to the warm palette. Default false.
	NightMode bool
	// Fullscreen runs the reader on the alternate screen. Default false.
	Fullscreen bool
}

// KV is the persistence the settings need.
type KV interface {
	AllSettings() (map[string]Value, error)
	SetSetting(key string, v Value) error
}

func Defaults() Settings {
	return Settings{
		ReadingMode:  ModeChunks,
		WordSpeed:    1.0,
		MusicVolume:  0.5,
		MusicEnabled: true,
		FontSize:     32,
	}
}

func (s Settings) IsFirstTime() bool { return s.BibleVersion == "" }

func (s *Settings) SetWordSpeed(v float64) {
	s.WordSpeed = math.Round(clampFloat(v, MinWordSpeed, MaxWordSpeed)*10) / 10
}

func (s *Settings) SetMusicVolume(v float64) {
	s.MusicVolume = clampFloat(v, 0, 1)
}

func (s *Settings) SetFontSize(v int) {
	s.FontSize = min(max(v, MinFontSize), MaxFontSize)
}

// Load reads settings from kv. The boolean reports whether any settings were
// stored; on first run the defaults are written back. On a read error the
// defaults are returned along with the error.
func Load(kv KV) (Settings, bool, error) {
	stored, err := kv.AllSettings()
	if err != nil {
		return Defaults(), false, fmt.Errorf("load settings: %w", err)
	}
	if len(stored) == 0 {
		s := Defaults()
		return s, false, Save(kv, s)
	}
	return fromValues(stored), true, nil
}

// Save writes every field to kv.
func Save(kv KV, s Settings) error {
	for key, v := range s.values() {
		if err := kv.SetSetting(key, v); err != nil {
			return fmt.Errorf("save setting %s: %w", key, err)
		}
	}
	return nil
}

func (s Settings) values() map[string]Value {
	optional := func(str string) Value {
		if str == "" {
			return Null()
		}
		return String(str)
	}
	return map[string]Value{
		KeyBibleVersion: optional(s.BibleVersion),
		KeyReadingMode:  String(string(s.ReadingMode)),
		KeyWordSpeed:    Number(s.WordSpeed),
		KeyLastPosition: positionValue(s.LastPosition),
		KeyMusicFolder:  optional(s.MusicFolder),
		KeyMusicVolume:  Number(s.MusicVolume),
		KeyMusicEnabled: Bool(s.MusicEnabled),
		KeyFontSize:     Number(float64(s.FontSize)),
		KeyNightMode:    Bool(s.NightMode),
		KeyFullscreen:   Bool(s.Fullscreen),
	}
}

func fromValues(vals map[string]Value) Settings {
	s := Defaults()

	if v, ok := vals[KeyBibleVersion].AsString(); ok {
		s.BibleVersion = v
	}
	if v, ok := vals[KeyReadingMode].AsString(); ok && (v == string(ModeChunks) || v == string(ModeWord)) {
		s.ReadingMode = ReadingMode(v)
	}
	if v, ok := vals[KeyWordSpeed].AsNumber(); ok {
		s.SetWordSpeed(v)
	}
	if v, ok := vals[KeyLastPosition].AsMap(); ok {
		s.LastPosition = positionFrom(v)
	}
	if v, ok := vals[KeyMusicFolder].AsString(); ok {
		s.MusicFolder = v
	}
	if v, ok := vals[KeyMusicVolume].AsNumber(); ok {
		s.SetMusicVolume(v)
	}
	if v, ok := vals[KeyMusicEnabled].AsBool(); ok {
		s.MusicEnabled = v
	}
	if v, ok := vals[KeyFontSize].AsNumber(); ok {
		s.SetFontSize(int(v))
	}
	if v, ok := vals[KeyNightMode].AsBool(); ok {
		s.NightMode = v
	}
	if v, ok := vals[KeyFullscreen].AsBool(); ok {
		s.Fullscreen = v
	}
	return s
}

func positionValue(p bible.Position) Value {
	return Map(map[string]Value{
		"book_index":    Number(float64(p.Book)),
		"chapter_index": Number(float64(p.Chapter)),
		"verse_index":   Number(float64(p.Verse)),
	})
}

func positionFrom(m map[string]Value) bible.Position {
	idx := func(key string) int {
		n, _ := m[key].AsNumber()
		return max(0, int(n))
	}
	return bible.Position{
		Book:    idx("book_index"),
		Chapter: idx("chapter_index"),
		Verse:   idx("verse_index"),
	}
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
