// Package history tracks reading progress: chapters read, verses read and
// time spent reading, with at most one open session per process.
package history

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"selah-tui/internal/store"
)

// TotalChapters is the chapter count of a complete 66-book Bible. Progress is
// always measured against it, whichever translation is loaded.
const TotalChapters = 1189

// Store is the persistence the tracker needs.
type Store interface {
	MarkChapterRead(bookAbbrev string, chapter int) error
	IsChapterRead(bookAbbrev string, chapter int) (bool, error)
	ChaptersReadForBook(bookAbbrev string) ([]int, error)
	ChaptersReadCount() (int, error)
	ReadingStats() (store.ReadingStats, error)
	IncrementVersesRead(n int) error
	AddReadingTime(seconds int64) error
	ClearHistory() error
}

// Stats is a snapshot of reading progress.
type Stats struct {
	ChaptersRead    int
	TotalChapters   int
	TotalVersesRead int64
	Hours           int64
	Minutes         int64
	TotalSeconds    int64
	ProgressPercent float64
}

type Tracker struct {
	store  Store
	now    func() time.Time
	logger *slog.Logger

	sessionID    string
	sessionStart time.Time
	active       bool
}

type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) { t.logger = logger }
}

func NewTracker(s Store, opts ...Option) *Tracker {
	t := &Tracker{store: s, now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// StartSession opens a reading session. It does nothing if one is open.
func (t *Tracker) StartSession() {
	if t.active {
		return
	}
	t.active = true
	t.sessionStart = t.now()
	t.sessionID = uuid.NewString()
	t.logger.Debug("Reading session started", slog.String("session_id", t.sessionID))
}

// EndSession credits the open session's whole elapsed seconds to the stored
// total and closes it. Without an open session it does nothing. The session
// is closed even when the store write fails.
func (t *Tracker) EndSession() error {
	if !t.active {
		return nil
	}
	elapsed := t.elapsed()
	id := t.sessionID
	t.active = false
	t.sessionID = ""

	if err := t.store.AddReadingTime(elapsed); err != nil {
		return fmt.Errorf("record session time: %w", err)
	}
	t.logger.Debug("Reading session ended", slog.String("session_id", id), slog.Int64("seconds", elapsed))
	return nil
}

func (t *Tracker) IsSessionActive() bool { return t.active }

func (t *Tracker) elapsed() int64 {
	return int64(t.now().Sub(t.sessionStart) / time.Second)
}

func (t *Tracker) MarkChapterRead(bookAbbrev string, chapter int) error {
	return t.store.MarkChapterRead(bookAbbrev, chapter)
}

func (t *Tracker) IsChapterRead(bookAbbrev string, chapter int) (bool, error) {
	return t.store.IsChapterRead(bookAbbrev, chapter)
}

func (t *Tracker) ChaptersReadForBook(bookAbbrev string) ([]int, error) {
	return t.store.ChaptersReadForBook(bookAbbrev)
}

func (t *Tracker) IncrementVerses(n int) error {
	return t.store.IncrementVersesRead(n)
}

// Stats reports progress. Time spent in an open session is included without
// being persisted.
func (t *Tracker) Stats() (Stats, error) {
	counters, err := t.store.ReadingStats()
	if err != nil {
		return Stats{}, fmt.Errorf("read stats: %w", err)
	}
	chapters, err := t.store.ChaptersReadCount()
	if err != nil {
		return Stats{}, fmt.Errorf("count chapters: %w", err)
	}

	total := counters.SecondsRead
	if t.active {
		total += t.elapsed()
	}

	return Stats{
		ChaptersRead:    chapters,
		TotalChapters:   TotalChapters,
		TotalVersesRead: counters.VersesRead,
		Hours:           total / 3600,
		Minutes:         (total % 3600) / 60,
		TotalSeconds:    total,
		ProgressPercent: math.Round(float64(chapters)/TotalChapters*1000) / 10,
	}, nil
}

// Clear wipes all history and drops any open session without crediting it.
func (t *Tracker) Clear() error {
	t.active = false
	t.sessionID = ""
	if err := t.store.ClearHistory(); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	t.logger.Info("Reading history cleared")
	return nil
}
