package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for the application
type Theme struct {
	Name string

	// Text colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color

	// UI element colors
	Border       lipgloss.Color
	BorderActive lipgloss.Color
	Background   lipgloss.Color
	Card         lipgloss.Color
	Progress     lipgloss.Color
	Highlight    lipgloss.Color
}

var (
	// Day is the default dark palette with blue accents.
	Day = Theme{
		Name:         "day",
		Primary:      lipgloss.Color("#FFFFFF"),
		Secondary:    lipgloss.Color("#A0A0A0"),
		Accent:       lipgloss.Color("#4A90D9"),
		Muted:        lipgloss.Color("#6C6C6C"),
		Error:        lipgloss.Color("#E05A5A"),
		Success:      lipgloss.Color("#4CAF50"),
		Border:       lipgloss.Color("#2A2A2A"),
		BorderActive: lipgloss.Color("#3A7BC8"),
		Background:   lipgloss.Color("#0D0D0D"),
		Card:         lipgloss.Color("#1A1A1A"),
		Progress:     lipgloss.Color("#4A90D9"),
		Highlight:    lipgloss.Color("#2A2A2A"),
	}

	// Night uses warm amber tones for reading in the dark.
	Night = Theme{
		Name:         "night",
		Primary:      lipgloss.Color("#FFE4B5"),
		Secondary:    lipgloss.Color("#C4A574"),
		Accent:       lipgloss.Color("#D4A055"),
		Muted:        lipgloss.Color("#8A7350"),
		Error:        lipgloss.Color("#C8553D"),
		Success:      lipgloss.Color("#8B9A46"),
		Border:       lipgloss.Color("#3A2C16"),
		BorderActive: lipgloss.Color("#D4A055"),
		Background:   lipgloss.Color("#1A1408"),
		Card:         lipgloss.Color("#2A2010"),
		Progress:     lipgloss.Color("#D4A055"),
		Highlight:    lipgloss.Color("#3A2C16"),
	}
)

// ForMode returns Night when night is set and Day otherwise.
func ForMode(night bool) Theme {
	if night {
		return Night
	}
	return Day
}

// Styles are the lipgloss styles the screens render with.
type Styles struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Text      lipgloss.Style
	Muted     lipgloss.Style
	Accent    lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Selected  lipgloss.Style
	Match     lipgloss.Style
	Box       lipgloss.Style
	ActiveBox lipgloss.Style
	Help      lipgloss.Style
}

func (t Theme) Styles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Subtitle: lipgloss.NewStyle().Foreground(t.Secondary),
		Text:     lipgloss.NewStyle().Foreground(t.Primary),
		Muted:    lipgloss.NewStyle().Foreground(t.Muted),
		Accent:   lipgloss.NewStyle().Foreground(t.Accent),
		Success:  lipgloss.NewStyle().Foreground(t.Success),
		Error:    lipgloss.NewStyle().Foreground(t.Error),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Background(t.Highlight),
		Match:    lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		ActiveBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderActive).
			Padding(0, 1),
		Help: lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
	}
}
