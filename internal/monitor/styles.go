package monitor

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/mavinspect/internal/store"
)

// Inspector color palette
const (
	// Background colors
	ColorDarkBg    = lipgloss.Color("#0A0A0F") // Deep void
	ColorSurfaceBg = lipgloss.Color("#12121A") // Dark surface
	ColorBorder    = lipgloss.Color("#2A2A4A") // Glass border (purple tint)

	// Semantic colors
	ColorHealthy  = lipgloss.Color("#39FF14") // Neon green
	ColorWarning  = lipgloss.Color("#FFAA00") // Electric amber
	ColorCritical = lipgloss.Color("#FF0055") // Hot red-pink

	// Text colors
	ColorTextPrimary   = lipgloss.Color("#FFFFFF") // Pure white
	ColorTextSecondary = lipgloss.Color("#B4B4D0") // Lavender gray
	ColorTextMuted     = lipgloss.Color("#6B6B8D") // Purple-gray

	// Accent colors
	ColorAccent    = lipgloss.Color("#FF2E97") // Neon pink
	ColorAccentDim = lipgloss.Color("#BF40FF") // Neon purple

	// Tree colors
	ColorBranch = lipgloss.Color("#00FFFF") // Neon cyan
	ColorLeaf   = ColorHealthy
)

// Role says what a drawn string is, independent of how a surface colors it.
type Role int

const (
	RoleText Role = iota
	RoleTitle
	RoleHelp
	RoleRule
	RoleBranch
	RoleLeaf
	RolePanelTitle
	RoleStatus
	RoleStatusWarning
	RoleStatusError
	RoleStatusMuted
	RoleFooter
	RoleNotice
)

// Style is the renderer's styling request for one draw call.
type Style struct {
	Role     Role
	Selected bool
}

// Palette maps roles to lipgloss styles.
type Palette map[Role]lipgloss.Style

// DefaultPalette returns the inspector's styles.
func DefaultPalette() Palette {
	return Palette{
		RoleText:          lipgloss.NewStyle().Foreground(ColorTextPrimary),
		RoleTitle:         lipgloss.NewStyle().Foreground(ColorAccent).Bold(true),
		RoleHelp:          lipgloss.NewStyle().Foreground(ColorTextSecondary),
		RoleRule:          lipgloss.NewStyle().Foreground(ColorBorder),
		RoleBranch:        lipgloss.NewStyle().Foreground(ColorBranch),
		RoleLeaf:          lipgloss.NewStyle().Foreground(ColorLeaf),
		RolePanelTitle:    lipgloss.NewStyle().Foreground(ColorAccent).Bold(true),
		RoleStatus:        lipgloss.NewStyle().Foreground(ColorTextSecondary),
		RoleStatusWarning: lipgloss.NewStyle().Foreground(ColorWarning),
		RoleStatusError:   lipgloss.NewStyle().Foreground(ColorCritical).Bold(true),
		RoleStatusMuted:   lipgloss.NewStyle().Foreground(ColorTextMuted),
		RoleFooter:        lipgloss.NewStyle().Foreground(ColorTextMuted),
		RoleNotice:        lipgloss.NewStyle().Foreground(ColorTextSecondary).Italic(true),
	}
}

// Lookup returns the lipgloss style for s. Selected rows render reversed.
func (p Palette) Lookup(s Style) lipgloss.Style {
	st, ok := p[s.Role]
	if !ok {
		st = lipgloss.NewStyle()
	}
	if s.Selected {
		st = st.Reverse(true)
	}
	return st
}

// severityRole picks the status panel color for a severity.
func severityRole(sev store.Severity) Role {
	switch {
	case sev == store.SeverityNone:
		return RoleStatus
	case sev <= store.SeverityError:
		return RoleStatusError
	case sev == store.SeverityWarning:
		return RoleStatusWarning
	case sev >= store.SeverityDebug:
		return RoleStatusMuted
	default:
		return RoleStatus
	}
}
