package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) enterFavorites() {
	m.screen = screenFavorites
	favs, err := m.actions.Favorites()
	if err != nil {
		m.fail(err)
		return
	}
	m.favorites = favs
	m.favCursor = moveCursor(m.favCursor, 0, len(favs))
}

func (m Model) updateFavorites(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.favCursor = moveCursor(m.favCursor, -1, len(m.favorites))
	case "down", "j":
		m.favCursor = moveCursor(m.favCursor, 1, len(m.favorites))
	case "enter":
		if len(m.favorites) == 0 {
			return m, nil
		}
		return m.openReader(m.favorites[m.favCursor].Position)
	case "d", "delete":
		if len(m.favorites) == 0 {
			return m, nil
		}
		m.fail(m.actions.RemoveFavorite(m.favorites[m.favCursor].Position))
		m.enterFavorites()
	case "esc", "q":
		m.enterMenu()
	}
	return m, nil
}

func (m Model) viewFavorites() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Favorites") + "\n\n")

	if len(m.favorites) == 0 {
		sb.WriteString(m.styles.Muted.Render("No favorites yet. Press f while reading to add one.") + "\n")
	}

	var list strings.Builder
	focus := 0
	width := max(20, m.width-6)
	for i, f := range m.favorites {
		ref := f.Reference
		if i == m.favCursor {
			focus = strings.Count(list.String(), "\n")
			ref = m.styles.Selected.Render("> " + ref)
		} else {
			ref = "  " + m.styles.Accent.Render(ref)
		}
		list.WriteString(ref + "\n")
		list.WriteString(m.styles.Text.PaddingLeft(4).Width(width).Render(f.Text) + "\n")
		if f.Note != "" {
			list.WriteString("    " + m.styles.Muted.Render(f.Note) + "\n")
		}
	}
	if len(m.favorites) > 0 {
		sb.WriteString(m.scrolled(list.String(), focus, 6) + "\n")
	}

	sb.WriteString("\n" + m.styles.Help.Render("enter: read | d: remove | esc: back"))
	return sb.String()
}
