package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"selah-tui/internal/api"
)

func (m *Model) loadTranslations() {
	ids, err := m.actions.CachedTranslations()
	if err != nil {
		m.fail(err)
		return
	}
	m.translations = m.translations[:0]
	for _, id := range ids {
		m.translations = append(m.translations, translationItem{id: id, cached: true})
	}
	m.selCursor = moveCursor(m.selCursor, 0, len(m.translations))
}

func (m *Model) loadRemote() tea.Cmd {
	m.loading = true
	actions := m.actions
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), downloadTimeout)
		defer cancel()
		translations, err := actions.RemoteTranslations(ctx)
		if err != nil {
			return errMsg{fmt.Errorf("translation catalog: %w", err)}
		}
		return remoteLoadedMsg{translations}
	}
}

// mergeRemote names cached entries from the catalog and appends the ones not
// downloaded yet.
func (m *Model) mergeRemote(remote []api.Translation) {
	index := make(map[string]int, len(m.translations))
	for i, t := range m.translations {
		index[t.id] = i
	}
	for _, r := range remote {
		if i, ok := index[r.ShortName]; ok {
			m.translations[i].name = r.FullName
			continue
		}
		m.translations = append(m.translations, translationItem{id: r.ShortName, name: r.FullName})
	}
}

func download(actions Actions, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), downloadTimeout)
		defer cancel()
		if err := actions.DownloadTranslation(ctx, id); err != nil {
			return errMsg{err}
		}
		return downloadedMsg{id}
	}
}

func (m Model) updateSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loading && msg.String() != "q" {
		return m, nil
	}
	switch msg.String() {
	case "up", "k":
		m.selCursor = moveCursor(m.selCursor, -1, len(m.translations))
	case "down", "j":
		m.selCursor = moveCursor(m.selCursor, 1, len(m.translations))
	case "r":
		m.loadTranslations()
		return m, m.loadRemote()
	case "enter":
		if len(m.translations) == 0 {
			return m, nil
		}
		item := m.translations[m.selCursor]
		if !item.cached {
			m.loading = true
			m.status = fmt.Sprintf("Downloading %s...", item.id)
			return m, download(m.actions, item.id)
		}
		return m.chooseTranslation(item.id)
	case "esc":
		if m.actions.Corpus() != nil {
			m.enterMenu()
		}
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) chooseTranslation(id string) (tea.Model, tea.Cmd) {
	if err := m.actions.SelectTranslation(id); err != nil {
		m.fail(err)
		m.loadTranslations()
		return m, nil
	}
	m.status = fmt.Sprintf("Translation %s loaded", id)
	m.enterMenu()
	return m, nil
}

func (m Model) viewSelector() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Choose a translation") + "\n\n")

	if len(m.translations) == 0 {
		if m.loading {
			sb.WriteString(m.styles.Muted.Render("Loading catalog...") + "\n")
		} else {
			sb.WriteString(m.styles.Muted.Render("No translations found. Press r to retry.") + "\n")
		}
	}

	for i, t := range m.translations {
		mark := "  "
		if t.cached {
			mark = m.styles.Success.Render("● ")
		}
		line := t.id
		if t.name != "" {
			line += "  " + m.styles.Subtitle.Render(t.name)
		}
		if i == m.selCursor {
			line = m.styles.Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		sb.WriteString(mark + line + "\n")
	}

	sb.WriteString("\n" + m.styles.Help.Render("↑/↓: move | enter: select or download | r: reload | esc: back | q: quit"))
	return sb.String()
}
