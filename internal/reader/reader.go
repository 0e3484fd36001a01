// Package reader drives guided reading: it holds the current position and
// advances it on timer ticks, either a whole verse or a single word at a time.
//
// Only one tick may be pending. Every Play, Pause or manual move bumps the
// generation, and a tick carrying an older generation is ignored, so the
// caller never has to cancel a scheduled tick explicitly.
package reader

import (
	"errors"
	"math"
	"strings"
	"time"

	"selah-tui/internal/bible"
	"selah-tui/internal/settings"
)

// Progress receives reading events.
type Progress interface {
	IncrementVerses(n int) error
	MarkChapterRead(bookAbbrev string, chapter int) error
}

// SpeedStep is the change applied by Faster and Slower.
const SpeedStep = 0.1

type Engine struct {
	corpus   *bible.Corpus
	progress Progress
	onMove   func(bible.Position)

	pos      bible.Position
	words    []string
	word     int
	mode     settings.ReadingMode
	speed    float64
	playing  bool
	finished bool
	gen      int
}

// New starts an engine at pos. onMove, when set, is called after every
// position change so the caller can persist it.
func New(c *bible.Corpus, p Progress, pos bible.Position, mode settings.ReadingMode, speed float64, onMove func(bible.Position)) *Engine {
	e := &Engine{
		corpus:   c,
		progress: p,
		onMove:   onMove,
		mode:     mode,
	}
	e.SetSpeed(speed)
	e.moveTo(pos)
	return e
}

func (e *Engine) Position() bible.Position        { return e.pos }
func (e *Engine) Mode() settings.ReadingMode      { return e.mode }
func (e *Engine) Speed() float64                  { return e.speed }
func (e *Engine) Playing() bool                   { return e.playing }
func (e *Engine) Finished() bool                  { return e.finished }
func (e *Engine) Generation() int                 { return e.gen }
func (e *Engine) Reference() string               { return e.corpus.Reference(e.pos) }
func (e *Engine) Verse() string                   { return e.corpus.Text(e.pos) }
func (e *Engine) WordIndex() (current, total int) { return e.word, len(e.words) }

// Display is what the reading screen shows: the verse in chunk mode, the
// current word in word mode.
func (e *Engine) Display() string {
	if e.mode == settings.ModeWord {
		if e.word < len(e.words) {
			return e.words[e.word]
		}
		return ""
	}
	return e.Verse()
}

// ChapterProgress is the fraction of the current chapter reached, 0 to 1.
func (e *Engine) ChapterProgress() float64 {
	n := e.corpus.VerseCount(e.pos.Book, e.pos.Chapter)
	if n == 0 {
		return 0
	}
	return float64(e.pos.Verse+1) / float64(n)
}

// Delay is how long the current tick lasts: the verse's word count times the
// speed in chunk mode, one speed unit in word mode.
func (e *Engine) Delay() time.Duration {
	unit := time.Duration(math.Round(e.speed*1000)) * time.Millisecond
	if e.mode == settings.ModeWord {
		return unit
	}
	return time.Duration(max(1, len(e.words))) * unit
}

// Play starts auto-advance and returns the generation the next tick must
// carry.
func (e *Engine) Play() int {
	e.playing = true
	e.finished = false
	e.gen++
	return e.gen
}

func (e *Engine) Pause() {
	e.playing = false
	e.gen++
}

// Toggle flips between playing and paused and reports the new state.
func (e *Engine) Toggle() bool {
	if e.playing {
		e.Pause()
	} else {
		e.Play()
	}
	return e.playing
}

// Tick handles a timer firing. It returns false when the tick is stale or
// the engine is paused; the caller then must not schedule another one.
func (e *Engine) Tick(gen int) (bool, error) {
	if !e.playing || gen != e.gen {
		return false, nil
	}
	if e.mode == settings.ModeWord {
		e.word++
		if e.word < len(e.words) {
			return true, nil
		}
	}
	err := e.advanceVerse()
	return e.playing, err
}

func (e *Engine) advanceVerse() error {
	err := e.progress.IncrementVerses(1)

	next, end := e.corpus.Next(e.pos)
	if end {
		e.playing = false
		e.finished = true
		e.gen++
		return err
	}
	if bible.ChapterChanged(e.pos, next) {
		err = errors.Join(err, e.progress.MarkChapterRead(e.corpus.BookAbbrev(e.pos.Book), e.pos.Chapter))
	}
	e.moveTo(next)
	return err
}

// Next skips to the following verse. Leaving a chapter marks it read; the
// verse counter is left alone.
func (e *Engine) Next() error {
	next, end := e.corpus.Next(e.pos)
	if end {
		return nil
	}
	var err error
	if bible.ChapterChanged(e.pos, next) {
		err = e.progress.MarkChapterRead(e.corpus.BookAbbrev(e.pos.Book), e.pos.Chapter)
	}
	e.moveTo(next)
	e.restart()
	return err
}

// Previous steps back one verse. At the very first verse it does nothing.
func (e *Engine) Previous() {
	prev, start := e.corpus.Previous(e.pos)
	if start {
		return
	}
	e.moveTo(prev)
	e.restart()
}

// Jump moves to pos, used by search results and favorites.
func (e *Engine) Jump(pos bible.Position) {
	e.moveTo(e.corpus.Clamp(pos))
	e.finished = false
	e.restart()
}

// ToggleMode switches between chunk and word mode, restarting the verse.
func (e *Engine) ToggleMode() settings.ReadingMode {
	if e.mode == settings.ModeChunks {
		e.mode = settings.ModeWord
	} else {
		e.mode = settings.ModeChunks
	}
	e.word = 0
	e.restart()
	return e.mode
}

// Faster lowers the seconds per word.
func (e *Engine) Faster() float64 {
	e.SetSpeed(e.speed - SpeedStep)
	return e.speed
}

// Slower raises the seconds per word.
func (e *Engine) Slower() float64 {
	e.SetSpeed(e.speed + SpeedStep)
	return e.speed
}

func (e *Engine) SetSpeed(s float64) {
	s = math.Min(math.Max(s, settings.MinWordSpeed), settings.MaxWordSpeed)
	e.speed = math.Round(s*10) / 10
}

// restart invalidates any pending tick; a playing engine stays playing and
// the caller schedules a fresh tick for the new generation.
func (e *Engine) restart() {
	e.gen++
}

func (e *Engine) moveTo(pos bible.Position) {
	e.pos = pos
	e.word = 0
	e.words = strings.Fields(e.corpus.Text(pos))
	if e.onMove != nil {
		e.onMove(pos)
	}
}
