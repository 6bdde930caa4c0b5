package monitor

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/rileyhilliard/mavinspect/internal/tree"
)

// Key bindings as constants for consistency.
const (
	KeyQuit         = "q"
	KeyQuitUpper    = "Q"
	KeyQuitAlt      = "ctrl+c"
	KeyUp           = "up"
	KeyUpK          = "k"
	KeyDown         = "down"
	KeyDownJ        = "j"
	KeyRight        = "right"
	KeyRightL       = "l"
	KeyLeft         = "left"
	KeyLeftH        = "h"
	KeyToggle       = " "
	KeyToggleName   = "space"
	KeyEnter        = "enter"
	KeyStatus       = "s"
	KeyStatusUpper  = "S"
	KeyExpandAll    = "e"
	KeyCollapseAll  = "c"
	KeyToggleHelp   = "?"
	KeyCloseOverlay = "esc"
)

// keyMap groups the bindings used by the inspector. It satisfies the
// bubbles help.KeyMap interface.
type keyMap struct {
	Quit        key.Binding
	Up          key.Binding
	Down        key.Binding
	Right       key.Binding
	Left        key.Binding
	Toggle      key.Binding
	Status      key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Help        key.Binding
	Close       key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys(KeyQuit, KeyQuitUpper, KeyQuitAlt),
		key.WithHelp("q/ctrl+c", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys(KeyUp, KeyUpK),
		key.WithHelp("↑/k", "select previous"),
	),
	Down: key.NewBinding(
		key.WithKeys(KeyDown, KeyDownJ),
		key.WithHelp("↓/j", "select next"),
	),
	Right: key.NewBinding(
		key.WithKeys(KeyRight, KeyRightL),
		key.WithHelp("→/l", "expand"),
	),
	Left: key.NewBinding(
		key.WithKeys(KeyLeft, KeyLeftH),
		key.WithHelp("←/h", "collapse or go to parent"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(KeyToggle, KeyToggleName, KeyEnter),
		key.WithHelp("space/enter", "toggle"),
	),
	Status: key.NewBinding(
		key.WithKeys(KeyStatus, KeyStatusUpper),
		key.WithHelp("s", "toggle status panel"),
	),
	ExpandAll: key.NewBinding(
		key.WithKeys(KeyExpandAll),
		key.WithHelp("e", "expand all"),
	),
	CollapseAll: key.NewBinding(
		key.WithKeys(KeyCollapseAll),
		key.WithHelp("c", "collapse all"),
	),
	Help: key.NewBinding(
		key.WithKeys(KeyToggleHelp),
		key.WithHelp("?", "help"),
	),
	Close: key.NewBinding(
		key.WithKeys(KeyCloseOverlay),
		key.WithHelp("esc", "close help"),
	),
}

// ShortHelp returns the most used bindings. The header line is the fixed
// helpHint string.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Up, k.Down, k.Toggle, k.Status, k.Help}
}

// FullHelp returns the bindings shown in the help overlay, grouped in rows.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Right, k.Left},
		{k.Toggle, k.ExpandAll, k.CollapseAll, k.Status},
		{k.Help, k.Close, k.Quit},
	}
}

// Controller is the input state machine: selection index, status panel
// visibility and the help overlay. Expansion state lives on the tree nodes
// themselves, so the controller mutates whichever tree generation it is
// handed.
type Controller struct {
	Selected   int
	ShowStatus bool
	ShowHelp   bool
}

// NewController creates a controller with the first row selected.
func NewController(showStatus bool) *Controller {
	return &Controller{ShowStatus: showStatus}
}

// Handle applies one key press. items must be the current flattening of t.
// It returns true when the key asks to quit. Callers re-flatten t afterwards
// and call Clamp with the new length.
func (c *Controller) Handle(k fmt.Stringer, items []tree.ViewItem, t *tree.Tree) (quit bool) {
	// Help toggle takes priority
	if key.Matches(k, keys.Help) {
		c.ShowHelp = !c.ShowHelp
		return false
	}

	// If help is showing, Esc closes it
	if key.Matches(k, keys.Close) {
		c.ShowHelp = false
		return false
	}

	switch {
	case key.Matches(k, keys.Quit):
		return true

	case key.Matches(k, keys.Up):
		if c.Selected > 0 {
			c.Selected--
		}

	case key.Matches(k, keys.Down):
		if c.Selected < len(items)-1 {
			c.Selected++
		}

	case key.Matches(k, keys.Right):
		if it, ok := c.current(items); ok && it.HasChildren && !it.Expanded {
			it.Node.Expanded = true
		}

	case key.Matches(k, keys.Left):
		it, ok := c.current(items)
		if !ok {
			break
		}
		if it.HasChildren && it.Expanded {
			it.Node.Expanded = false
			break
		}
		// Collapsed or a leaf: move to the parent row.
		parent := it.Path.Parent()
		for i := c.Selected - 1; i >= 0; i-- {
			if items[i].Level < it.Level && items[i].Path.Equal(parent) {
				c.Selected = i
				break
			}
		}

	case key.Matches(k, keys.Toggle):
		if it, ok := c.current(items); ok && it.HasChildren {
			it.Node.Expanded = !it.Node.Expanded
		}

	case key.Matches(k, keys.Status):
		c.ShowStatus = !c.ShowStatus

	case key.Matches(k, keys.ExpandAll):
		t.ExpandAll()

	case key.Matches(k, keys.CollapseAll):
		t.CollapseAll()
	}
	return false
}

// Clamp keeps the selection inside a list of n rows.
func (c *Controller) Clamp(n int) {
	if c.Selected >= n {
		c.Selected = n - 1
	}
	if c.Selected < 0 {
		c.Selected = 0
	}
}

func (c *Controller) current(items []tree.ViewItem) (tree.ViewItem, bool) {
	if c.Selected < 0 || c.Selected >= len(items) {
		return tree.ViewItem{}, false
	}
	return items[c.Selected], true
}
