// Package ui renders the line-oriented startup output printed before the
// full-screen inspector takes over the terminal.
//
// A Spinner animates one line in place and settles into a final symbol with
// the elapsed time. Phases strings spinners together so that each startup
// step (opening the connection, waiting for the first heartbeat) leaves one
// line behind:
//
//	p := ui.NewPhases(os.Stderr)
//	p.Start("Waiting for heartbeat")
//	...
//	p.Done("Waiting for heartbeat", err)
//
// Colors are plain ANSI codes so the output stays legible on terminals
// without truecolor support.
package ui
