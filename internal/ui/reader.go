package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"selah-tui/internal/bible"
	"selah-tui/internal/music"
	"selah-tui/internal/settings"
)

const fontStep = 2

func (m Model) openReader(pos bible.Position) (tea.Model, tea.Cmd) {
	e, err := m.actions.StartReading(pos)
	if err != nil {
		m.fail(err)
		return m, nil
	}
	m.engine = e
	m.screen = screenReader
	m.status = ""
	m.refreshFavorite()
	m.fail(m.actions.ResumeMusic())
	m.musicGen++
	return m, m.pollMusic()
}

// leaveReader stops playback and saves the session.
func (m *Model) leaveReader() {
	if m.engine == nil {
		return
	}
	m.engine.Pause()
	m.fail(m.actions.StopReading(m.engine))
	m.actions.PauseMusic()
	m.musicGen++
	m.engine = nil
}

func (m *Model) refreshFavorite() {
	fav, err := m.actions.IsFavorite(m.engine.Position())
	m.fail(err)
	m.isFavorite = fav
}

func (m Model) scheduleAdvance() tea.Cmd {
	gen := m.engine.Generation()
	return tea.Tick(m.engine.Delay(), func(time.Time) tea.Msg { return advanceMsg{gen} })
}

func (m Model) pollMusic() tea.Cmd {
	gen := m.musicGen
	return tea.Tick(musicPollInterval, func(time.Time) tea.Msg { return musicPollMsg{gen} })
}

func (m Model) handleAdvance(msg advanceMsg) (tea.Model, tea.Cmd) {
	if m.engine == nil || m.screen != screenReader {
		return m, nil
	}
	more, err := m.engine.Tick(msg.gen)
	m.fail(err)
	if m.engine.Finished() {
		m.status = "You reached the end of the Bible"
	}
	m.refreshFavorite()
	if !more {
		return m, nil
	}
	return m, m.scheduleAdvance()
}

// afterMove reschedules the tick a manual move invalidated.
func (m Model) afterMove() (tea.Model, tea.Cmd) {
	m.refreshFavorite()
	if m.engine.Playing() {
		return m, m.scheduleAdvance()
	}
	return m, nil
}

func (m Model) updateReader(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.engine
	switch msg.String() {
	case " ":
		if e.Toggle() {
			m.status = ""
			return m, m.scheduleAdvance()
		}
	case "right", "d":
		m.fail(e.Next())
		return m.afterMove()
	case "left", "a":
		e.Previous()
		return m.afterMove()
	case "m":
		mode := e.ToggleMode()
		m.fail(m.actions.UpdateSettings(func(s *settings.Settings) { s.ReadingMode = mode }))
		return m.afterMove()
	case "+", "=":
		speed := e.Faster()
		m.fail(m.actions.UpdateSettings(func(s *settings.Settings) { s.SetWordSpeed(speed) }))
	case "-":
		speed := e.Slower()
		m.fail(m.actions.UpdateSettings(func(s *settings.Settings) { s.SetWordSpeed(speed) }))
	case "]":
		size := m.actions.Settings().FontSize + fontStep
		m.fail(m.actions.UpdateSettings(func(s *settings.Settings) { s.SetFontSize(size) }))
	case "[":
		size := m.actions.Settings().FontSize - fontStep
		m.fail(m.actions.UpdateSettings(func(s *settings.Settings) { s.SetFontSize(size) }))
	case "f":
		fav, err := m.actions.ToggleFavorite(e.Position())
		m.fail(err)
		m.isFavorite = fav
		if err == nil {
			if fav {
				m.status = "Added to favorites"
			} else {
				m.status = "Removed from favorites"
			}
		}
	case "n":
		m.fail(m.actions.ToggleMusic())
	case "l":
		m.toggleNight()
	case "esc", "q":
		m.leaveReader()
		m.enterMenu()
	}
	return m, nil
}

// textWidth maps the font size setting onto a column count.
func (m Model) textWidth() int {
	w := m.actions.Settings().FontSize * 2
	if m.width > 0 {
		w = min(w, m.width-4)
	}
	return max(20, w)
}

func (m Model) viewReader() string {
	e := m.engine
	c := m.actions.Corpus()
	var sb strings.Builder

	star := ""
	if m.isFavorite {
		star = m.styles.Accent.Render(" ★")
	}
	sb.WriteString(m.styles.Title.Render(e.Reference()) + star + "  " + m.styles.Subtitle.Render(c.Version) + "\n\n")

	text := e.Display()
	if e.Mode() == settings.ModeWord {
		cur, total := e.WordIndex()
		text = m.styles.Match.Render(text)
		text += "\n\n" + m.styles.Muted.Render(fmt.Sprintf("word %d of %d", min(cur+1, total), total))
	} else {
		text = m.styles.Text.Render(text)
	}
	box := m.styles.ActiveBox.Width(m.textWidth()).Align(lipgloss.Center)
	sb.WriteString(box.Render(text) + "\n\n")

	sb.WriteString(m.bar.ViewAs(e.ChapterProgress()) + "\n")

	state := "paused"
	if e.Playing() {
		state = "playing"
	}
	mode := "verse"
	if e.Mode() == settings.ModeWord {
		mode = "word"
	}
	sb.WriteString(m.styles.Subtitle.Render(fmt.Sprintf("%s | mode: %s | %.1fs per word", state, mode, e.Speed())) + "\n")

	if track, st := m.actions.MusicStatus(); track != "" {
		sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("♪ %s (%s)", track, st)) + "\n")
	} else if st == music.Stopped && m.actions.Settings().MusicEnabled {
		sb.WriteString(m.styles.Muted.Render("♪ no music") + "\n")
	}

	sb.WriteString("\n" + m.styles.Help.Render("space: play/pause | ←/→: verse | m: mode | +/-: speed | [/]: size | f: favorite | n: music | l: night | esc: menu"))
	return sb.String()
}
