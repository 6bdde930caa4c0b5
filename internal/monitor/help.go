package monitor

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// Help overlay styles
var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Background(ColorSurfaceBg).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)

	// LabelStyle is used for secondary hints.
	LabelStyle = lipgloss.NewStyle().Foreground(ColorTextMuted)
)

// newHelp returns a bubbles help model styled with the inspector palette.
func newHelp() help.Model {
	h := help.New()
	h.ShowAll = true
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(ColorTextPrimary).Bold(true)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(ColorTextSecondary)
	h.Styles.FullSeparator = lipgloss.NewStyle().Foreground(ColorBorder)
	return h
}

// helpContent is the text of the help box, before placement.
func helpContent() string {
	lines := []string{
		helpTitleStyle.Render("Keyboard Shortcuts"),
		newHelp().View(keys),
		"",
		LabelStyle.Render("Press ? or esc to close"),
	}
	return strings.Join(lines, "\n")
}

// renderHelpOverlay renders a centered help box with keyboard shortcuts.
func (m Model) renderHelpOverlay() string {
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		helpBoxStyle.Render(helpContent()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorDarkBg),
	)
}
