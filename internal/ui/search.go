package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"selah-tui/internal/bible"
)

func (m Model) enterSearch() (tea.Model, tea.Cmd) {
	m.screen = screenSearch
	m.inResults = false
	m.input.Focus()
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.inResults {
			m.inResults = false
			m.input.Focus()
			return m, nil
		}
		m.input.Blur()
		m.enterMenu()
		return m, nil
	case "enter":
		if m.inResults {
			if len(m.results) == 0 {
				return m, nil
			}
			m.input.Blur()
			return m.openReader(m.results[m.resCursor].Position)
		}
		results, err := m.actions.Find(m.input.Value())
		if err != nil {
			m.fail(err)
			return m, nil
		}
		m.results = results
		m.resCursor = 0
		m.status = fmt.Sprintf("%d results", len(results))
		if len(results) > 0 {
			m.inResults = true
			m.input.Blur()
		}
		return m, nil
	case "tab":
		if len(m.results) > 0 {
			m.inResults = !m.inResults
			if m.inResults {
				m.input.Blur()
			} else {
				m.input.Focus()
			}
		}
		return m, nil
	}

	if m.inResults {
		switch msg.String() {
		case "up", "k":
			m.resCursor = moveCursor(m.resCursor, -1, len(m.results))
		case "down", "j":
			m.resCursor = moveCursor(m.resCursor, 1, len(m.results))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// renderHighlight styles the **marked** spans of a result.
func (m Model) renderHighlight(s string) string {
	parts := strings.Split(s, bible.HighlightMarker)
	var sb strings.Builder
	for i, p := range parts {
		if i%2 == 1 {
			sb.WriteString(m.styles.Match.Render(p))
		} else {
			sb.WriteString(m.styles.Text.Render(p))
		}
	}
	return sb.String()
}

func (m Model) viewSearch() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Search") + "\n\n")
	sb.WriteString(m.input.View() + "\n\n")

	var list strings.Builder
	focus := 0
	for i, r := range m.results {
		ref := r.Reference
		if i == m.resCursor && m.inResults {
			focus = strings.Count(list.String(), "\n")
			ref = m.styles.Selected.Render("> " + ref)
		} else {
			ref = "  " + m.styles.Accent.Render(ref)
		}
		list.WriteString(ref + "\n    " + m.renderHighlight(r.Display()) + "\n")
	}
	if len(m.results) > 0 {
		sb.WriteString(m.scrolled(list.String(), focus, 8) + "\n")
	}

	sb.WriteString("\n" + m.styles.Help.Render("enter: search or open | tab: switch to results | esc: back"))
	return sb.String()
}
