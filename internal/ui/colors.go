package ui

import "github.com/charmbracelet/lipgloss"

// Semantic colors for status indication. ANSI codes keep startup output
// readable on terminals without truecolor support.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// GradientColors is the cycle the spinner glyph walks through while a phase
// is running.
var GradientColors = []lipgloss.Color{ColorInfo, ColorSecondary, ColorSuccess, ColorSecondary}
