package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"selah-tui/internal/bible"
)

const chapterColumns = 10

func (m *Model) enterBooks() {
	c := m.actions.Corpus()
	if c == nil {
		m.enterSelector()
		return
	}
	m.screen = screenBooks
	m.bookCursor = moveCursor(m.actions.Settings().LastPosition.Book, 0, c.BookCount())
}

func (m *Model) enterChapters() {
	c := m.actions.Corpus()
	m.screen = screenChapters
	m.chapterCursor = 0
	m.chaptersRead = map[int]bool{}
	read, err := m.actions.ChaptersRead(c.BookAbbrev(m.bookCursor))
	if err != nil {
		m.fail(err)
		return
	}
	for _, ch := range read {
		m.chaptersRead[ch] = true
	}
}

func (m Model) updateBooks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.actions.Corpus().BookCount()
	switch msg.String() {
	case "up", "k":
		m.bookCursor = moveCursor(m.bookCursor, -1, n)
	case "down", "j":
		m.bookCursor = moveCursor(m.bookCursor, 1, n)
	case "pgup":
		m.bookCursor = moveCursor(m.bookCursor, -10, n)
	case "pgdown":
		m.bookCursor = moveCursor(m.bookCursor, 10, n)
	case "enter", "right":
		m.enterChapters()
	case "esc", "q":
		m.enterMenu()
	}
	return m, nil
}

func (m Model) updateChapters(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.actions.Corpus().ChapterCount(m.bookCursor)
	switch msg.String() {
	case "left", "h":
		m.chapterCursor = moveCursor(m.chapterCursor, -1, n)
	case "right", "l":
		m.chapterCursor = moveCursor(m.chapterCursor, 1, n)
	case "up", "k":
		m.chapterCursor = moveCursor(m.chapterCursor, -chapterColumns, n)
	case "down", "j":
		m.chapterCursor = moveCursor(m.chapterCursor, chapterColumns, n)
	case "enter":
		if n == 0 {
			return m, nil
		}
		return m.openReader(bible.Position{Book: m.bookCursor, Chapter: m.chapterCursor})
	case "esc", "q":
		m.screen = screenBooks
	}
	return m, nil
}

func (m Model) viewBooks() string {
	c := m.actions.Corpus()
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Books") + "\n\n")

	books := c.BookList()
	// Keep the cursor visible on short terminals.
	rows := max(5, m.height-6)
	start := 0
	if m.bookCursor >= rows {
		start = m.bookCursor - rows + 1
	}
	end := min(len(books), start+rows)

	for _, info := range books[start:end] {
		line := fmt.Sprintf("%-22s %3d chapters", info.Name, info.Chapters)
		if info.Index == m.bookCursor {
			sb.WriteString(m.styles.Selected.Render("> "+line) + "\n")
		} else {
			sb.WriteString("  " + m.styles.Text.Render(line) + "\n")
		}
	}

	sb.WriteString("\n" + m.styles.Help.Render("↑/↓: move | enter: chapters | esc: back"))
	return sb.String()
}

func (m Model) viewChapters() string {
	c := m.actions.Corpus()
	var sb strings.Builder
	n := c.ChapterCount(m.bookCursor)
	sb.WriteString(m.styles.Title.Render(c.BookName(m.bookCursor)) + "  " +
		m.styles.Subtitle.Render(fmt.Sprintf("%d of %d chapters read", len(m.chaptersRead), n)) + "\n\n")

	for i := range n {
		cell := fmt.Sprintf("%4d", i+1)
		switch {
		case i == m.chapterCursor:
			cell = m.styles.Selected.Render(cell)
		case m.chaptersRead[i]:
			cell = m.styles.Success.Render(cell)
		default:
			cell = m.styles.Text.Render(cell)
		}
		sb.WriteString(cell)
		if (i+1)%chapterColumns == 0 {
			sb.WriteString("\n")
		}
	}
	if n%chapterColumns != 0 {
		sb.WriteString("\n")
	}

	sb.WriteString("\n" + m.styles.Help.Render("arrows: move | enter: read | esc: books | green: read"))
	return sb.String()
}
