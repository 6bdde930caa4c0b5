package monitor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/rileyhilliard/mavinspect/internal/store"
	"github.com/rileyhilliard/mavinspect/internal/tree"
)

// ErrOutOfBounds is returned by a Surface for draws outside its area.
var ErrOutOfBounds = errors.New("draw out of bounds")

// Surface is a character grid the renderer draws into.
type Surface interface {
	Size() (width, height int)
	Draw(row, col int, text string, style Style) error
}

// Layout constants.
const (
	Title         = "MAVLink Inspector"
	EmptyMessage  = "Waiting for endpoints... (No data yet)"
	PanelTitle    = "STATUS MESSAGES (press 's' to toggle)"
	StatusPanelH  = 8
	StatusVisible = 5
	treeTop       = 3
	scrollMargin  = 5
	timeLayout    = "15:04:05"
	ruleChar      = "─"
	indentUnit    = "  "
)

const helpHint = "'q' quit | ↑↓ navigate | ←→ collapse/expand | Space toggle | s status | e/c all"

// RenderInput is everything one frame depends on. Rendering the same input
// twice produces the same frame.
type RenderInput struct {
	Items       []tree.ViewItem
	Selected    int
	ShowStatus  bool
	Status      []store.StatusEntry // newest last
	StatusCount int
	Endpoints   int
	UpdatedAt   time.Time
}

// Renderer draws the inspector layout onto a Surface.
type Renderer struct{}

// Render draws in onto s. Draws that fall outside s are skipped.
func (Renderer) Render(s Surface, in RenderInput) error {
	width, height := s.Size()
	if width <= 1 || height <= 0 {
		return nil
	}
	d := &drawer{s: s, width: width}

	d.draw(0, 0, Title, Style{Role: RoleTitle})
	d.draw(1, 0, fmt.Sprintf("Last update: %s | %s", in.UpdatedAt.Format(timeLayout), helpHint), Style{Role: RoleHelp})
	d.draw(2, 0, strings.Repeat(ruleChar, width-1), Style{Role: RoleRule})

	panel := 0
	if in.ShowStatus {
		panel = StatusPanelH
	}
	treeBottom := height - panel - 1

	if len(in.Items) == 0 {
		d.draw(4, 2, EmptyMessage, Style{Role: RoleNotice})
	} else {
		treeH := treeBottom - treeTop
		// Short tree areas shrink the margin so the selection stays on screen.
		margin := min(scrollMargin, max(treeH-1, 0))
		start := max(0, in.Selected-(treeH-margin))
		for i := start; i < len(in.Items); i++ {
			y := treeTop + i - start
			if y >= treeBottom {
				break
			}
			it := in.Items[i]
			role := RoleLeaf
			if it.HasChildren {
				role = RoleBranch
			}
			d.draw(y, 0, RowText(it), Style{Role: role, Selected: i == in.Selected})
		}
	}

	// The panel is dropped when it would overlap the header.
	if in.ShowStatus && treeBottom >= treeTop {
		y := treeBottom
		d.draw(y, 0, strings.Repeat(ruleChar, width-1), Style{Role: RoleRule})
		d.draw(y+1, 0, PanelTitle, Style{Role: RolePanelTitle})
		entries := in.Status
		if len(entries) > StatusVisible {
			entries = entries[len(entries)-StatusVisible:]
		}
		for i, e := range entries {
			row := y + 2 + i
			if row >= height-1 {
				break
			}
			d.draw(row, 0, StatusLine(e), Style{Role: severityRole(e.Severity)})
		}
	}

	selected := 0
	if len(in.Items) > 0 {
		selected = in.Selected + 1
	}
	footer := fmt.Sprintf("Selected: %d/%d | Endpoints: %d | Status msgs: %d",
		selected, len(in.Items), in.Endpoints, in.StatusCount)
	d.draw(height-1, 0, footer, Style{Role: RoleFooter})

	return d.err
}

// RowText is the display string for one tree row.
func RowText(it tree.ViewItem) string {
	indicator := "  "
	if it.HasChildren {
		if it.Expanded {
			indicator = "▼ "
		} else {
			indicator = "▶ "
		}
	}
	return strings.Repeat(indentUnit, it.Level) + indicator + it.Node.Label()
}

// StatusLine formats a status entry as "[HH:MM:SS] [sys:comp] text".
func StatusLine(e store.StatusEntry) string {
	return fmt.Sprintf("[%s] [%s] %s", e.Timestamp.Format(timeLayout), e.Endpoint, e.Text)
}

type drawer struct {
	s     Surface
	width int
	err   error
}

func (d *drawer) draw(row, col int, text string, st Style) {
	if d.err != nil {
		return
	}
	n := d.width - 1 - col
	if n <= 0 {
		return
	}
	text = ansi.Truncate(text, n, "")
	if err := d.s.Draw(row, col, text, st); err != nil && !errors.Is(err, ErrOutOfBounds) {
		d.err = err
	}
}
