package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"selah-tui/internal/settings"
)

var menuItems = []string{
	"Continue reading",
	"Choose book",
	"Search",
	"Favorites",
	"Change translation",
	"Clear history",
	"Quit",
}

func (m *Model) enterMenu() {
	m.screen = screenMenu
	m.confirmClear = false
	stats, err := m.actions.Stats()
	if err != nil {
		m.fail(err)
		return
	}
	m.stats = stats
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmClear {
		switch msg.String() {
		case "y", "Y":
			m.fail(m.actions.ClearHistory())
			m.status = "History cleared"
			m.enterMenu()
		default:
			m.confirmClear = false
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		m.menuCursor = moveCursor(m.menuCursor, -1, len(menuItems))
	case "down", "j":
		m.menuCursor = moveCursor(m.menuCursor, 1, len(menuItems))
	case "c":
		return m.openReader(m.actions.Settings().LastPosition)
	case "b":
		m.enterBooks()
	case "/":
		return m.enterSearch()
	case "v":
		m.enterFavorites()
	case "t":
		m.enterSelector()
		return m, m.loadRemote()
	case "l":
		m.toggleNight()
	case "enter":
		switch m.menuCursor {
		case 0:
			return m.openReader(m.actions.Settings().LastPosition)
		case 1:
			m.enterBooks()
		case 2:
			return m.enterSearch()
		case 3:
			m.enterFavorites()
		case 4:
			m.enterSelector()
			return m, m.loadRemote()
		case 5:
			m.confirmClear = true
		case 6:
			return m, tea.Quit
		}
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) enterSelector() {
	m.screen = screenSelector
	m.loadTranslations()
}

func (m *Model) toggleNight() {
	night := !m.actions.Settings().NightMode
	m.fail(m.actions.UpdateSettings(func(s *settings.Settings) { s.NightMode = night }))
	m.applyTheme()
}

func (m Model) viewMenu() string {
	var sb strings.Builder
	c := m.actions.Corpus()
	version := ""
	if c != nil {
		version = c.Version
	}
	sb.WriteString(m.styles.Title.Render("Selah") + "  " + m.styles.Subtitle.Render(version) + "\n\n")

	s := m.stats
	sb.WriteString(m.styles.Text.Render(fmt.Sprintf("Progress: %.1f%%  (%d of %d chapters)", s.ProgressPercent, s.ChaptersRead, s.TotalChapters)) + "\n")
	sb.WriteString(m.bar.ViewAs(s.ProgressPercent/100) + "\n")
	sb.WriteString(m.styles.Subtitle.Render(fmt.Sprintf("Verses read: %d   Time reading: %dh %02dm", s.TotalVersesRead, s.Hours, s.Minutes)) + "\n")
	if c != nil {
		last := m.actions.Settings().LastPosition
		sb.WriteString(m.styles.Subtitle.Render("Last position: "+c.Reference(last)) + "\n")
	}
	sb.WriteString("\n")

	for i, item := range menuItems {
		if i == m.menuCursor {
			sb.WriteString(m.styles.Selected.Render("> "+item) + "\n")
		} else {
			sb.WriteString("  " + m.styles.Text.Render(item) + "\n")
		}
	}

	if m.confirmClear {
		sb.WriteString("\n" + m.styles.Error.Render("Clear all reading history? (y/N)") + "\n")
	}
	sb.WriteString("\n" + m.styles.Help.Render("enter: select | c: continue | b: books | /: search | v: favorites | t: translation | l: night mode | q: quit"))
	return sb.String()
}
