// Package monitor implements the interactive inspector TUI.
//
// The view is a Bubble Tea program. On every tick it snapshots the store,
// builds the next tree generation and flattens it into display rows; key
// presses go to the Controller, which edits expansion flags on the current
// generation and clamps the selection.
//
// # Key Components
//
//	Model       - The Bubble Tea model: projection timer, keys, View
//	Controller  - Selection, status panel and help overlay state
//	Renderer    - Draws a RenderInput onto any Surface
//	Frame       - In-memory Surface rendered with lipgloss
//
// # Layout
//
//	row 0          title
//	row 1          last projection time and key hints
//	row 2          rule
//	rows 3..       tree, scrolled to keep the selection in view
//	panel (8 rows) rule, title, up to five newest status entries
//	last row       footer: selection, endpoint and status counts
//
// Every string is truncated to width-1 cells. Draws outside the surface are
// skipped.
//
// # Keyboard Shortcuts
//
//	q, Q, Ctrl+C   - Quit
//	↑/k, ↓/j       - Move selection
//	→/l            - Expand
//	←/h            - Collapse, or jump to parent
//	Space, Enter   - Toggle
//	s              - Toggle status panel
//	e / c          - Expand / collapse everything
//	?              - Toggle help overlay (Esc closes)
package monitor
