package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"selah-tui/internal/api"
	"selah-tui/internal/bible"
	"selah-tui/internal/history"
	"selah-tui/internal/music"
	"selah-tui/internal/reader"
	"selah-tui/internal/settings"
	"selah-tui/internal/store"
	"selah-tui/internal/theme"
)

// Actions is everything the screens can do.
type Actions interface {
	Corpus() *bible.Corpus
	Settings() settings.Settings
	UpdateSettings(fn func(*settings.Settings)) error

	CachedTranslations() ([]string, error)
	RemoteTranslations(ctx context.Context) ([]api.Translation, error)
	DownloadTranslation(ctx context.Context, id string) error
	SelectTranslation(id string) error

	StartReading(pos bible.Position) (*reader.Engine, error)
	StopReading(e *reader.Engine) error

	Stats() (history.Stats, error)
	ChaptersRead(bookAbbrev string) ([]int, error)
	ClearHistory() error

	Find(query string) ([]bible.SearchResult, error)

	Favorites() ([]store.Favorite, error)
	ToggleFavorite(pos bible.Position) (bool, error)
	IsFavorite(pos bible.Position) (bool, error)
	RemoveFavorite(pos bible.Position) error

	ToggleMusic() error
	ResumeMusic() error
	PauseMusic()
	PollMusic() error
	MusicStatus() (track string, state music.State)
}

type screen int

const (
	screenSelector screen = iota
	screenMenu
	screenBooks
	screenChapters
	screenReader
	screenSearch
	screenFavorites
)

const (
	musicPollInterval = time.Second
	downloadTimeout   = 2 * time.Minute
)

type Model struct {
	actions Actions
	logger  *slog.Logger
	styles  theme.Styles
	theme   theme.Theme

	screen screen
	width  int
	height int
	ready  bool
	err    error
	status string

	// selector
	translations []translationItem
	selCursor    int
	loading      bool

	// menu
	stats        history.Stats
	menuCursor   int
	confirmClear bool
	bar          progress.Model

	// books and chapters
	bookCursor    int
	chapterCursor int
	chaptersRead  map[int]bool

	// reader
	engine     *reader.Engine
	isFavorite bool
	musicGen   int

	// search
	input     textinput.Model
	results   []bible.SearchResult
	resCursor int
	inResults bool

	// favorites
	favorites []store.Favorite
	favCursor int

	viewport viewport.Model
}

type translationItem struct {
	id     string
	name   string
	cached bool
}

type errMsg struct{ err error }
type remoteLoadedMsg struct{ translations []api.Translation }
type downloadedMsg struct{ id string }
type advanceMsg struct{ gen int }
type musicPollMsg struct{ gen int }

func (e errMsg) Error() string { return e.err.Error() }

// NewModel starts on the menu when a translation is loaded and on the
// translation selector otherwise.
func NewModel(actions Actions, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	ti := textinput.New()
	ti.Placeholder = "Word, phrase or reference (e.g. João 3:16)"
	ti.CharLimit = 100
	ti.Width = 50

	m := Model{
		actions: actions,
		logger:  logger,
		input:   ti,
		bar:     progress.New(progress.WithoutPercentage()),
	}
	m.applyTheme()
	if actions.Corpus() == nil {
		m.screen = screenSelector
		m.loadTranslations()
	} else {
		m.enterMenu()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.screen == screenSelector {
		return m.loadRemote()
	}
	return nil
}

func (m *Model) applyTheme() {
	m.theme = theme.ForMode(m.actions.Settings().NightMode)
	m.styles = m.theme.Styles()
	m.bar.FullColor = string(m.theme.Progress)
	m.bar.EmptyColor = string(m.theme.Border)
}

func (m *Model) fail(err error) {
	if err == nil {
		return
	}
	m.err = err
	m.logger.Error("Action failed", slog.String("screen", m.screen.String()), slog.String("error", err.Error()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(60, msg.Width-10))
		if !m.ready {
			m.viewport = viewport.New(msg.Width, max(1, msg.Height-8))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = max(1, msg.Height-8)
		}
		return m, nil

	case errMsg:
		m.loading = false
		m.fail(msg.err)
		return m, nil

	case remoteLoadedMsg:
		m.loading = false
		m.mergeRemote(msg.translations)
		return m, nil

	case downloadedMsg:
		m.loading = false
		m.status = fmt.Sprintf("Downloaded %s", msg.id)
		return m.chooseTranslation(msg.id)

	case advanceMsg:
		return m.handleAdvance(msg)

	case musicPollMsg:
		if msg.gen != m.musicGen || m.screen != screenReader {
			return m, nil
		}
		m.fail(m.actions.PollMusic())
		return m, m.pollMusic()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.leaveReader()
			return m, tea.Quit
		}
		m.err = nil
		switch msg.String() {
		case "f11":
			return m.toggleFullscreen()
		}
		switch m.screen {
		case screenSelector:
			return m.updateSelector(msg)
		case screenMenu:
			return m.updateMenu(msg)
		case screenBooks:
			return m.updateBooks(msg)
		case screenChapters:
			return m.updateChapters(msg)
		case screenReader:
			return m.updateReader(msg)
		case screenSearch:
			return m.updateSearch(msg)
		case screenFavorites:
			return m.updateFavorites(msg)
		}
	}

	if m.screen == screenSearch && !m.inResults {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) toggleFullscreen() (tea.Model, tea.Cmd) {
	full := !m.actions.Settings().Fullscreen
	m.fail(m.actions.UpdateSettings(func(s *settings.Settings) { s.Fullscreen = full }))
	if full {
		return m, tea.EnterAltScreen
	}
	return m, tea.ExitAltScreen
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	var body string
	switch m.screen {
	case screenSelector:
		body = m.viewSelector()
	case screenMenu:
		body = m.viewMenu()
	case screenBooks:
		body = m.viewBooks()
	case screenChapters:
		body = m.viewChapters()
	case screenReader:
		body = m.viewReader()
	case screenSearch:
		body = m.viewSearch()
	case screenFavorites:
		body = m.viewFavorites()
	}

	if m.err != nil {
		body += "\n" + m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	} else if m.status != "" {
		body += "\n" + m.styles.Muted.Render(m.status)
	}
	return body
}

func (s screen) String() string {
	switch s {
	case screenSelector:
		return "selector"
	case screenMenu:
		return "menu"
	case screenBooks:
		return "books"
	case screenChapters:
		return "chapters"
	case screenReader:
		return "reader"
	case screenSearch:
		return "search"
	case screenFavorites:
		return "favorites"
	}
	return "unknown"
}

// moveCursor steps c by delta within [0, n).
func moveCursor(c, delta, n int) int {
	if n == 0 {
		return 0
	}
	return min(max(c+delta, 0), n-1)
}

// scrolled renders content in the viewport, keeping focusLine near the
// middle. reserved is the number of lines the screen uses elsewhere.
func (m Model) scrolled(content string, focusLine, reserved int) string {
	vp := m.viewport
	vp.Height = max(3, m.height-reserved)
	vp.SetContent(content)
	vp.SetYOffset(max(0, focusLine-vp.Height/2))
	return vp.View()
}
