// Package cli implements the mavinspect command-line interface.
//
// The root command is the inspector itself. It runs in three phases:
//
//  1. Resolve config: defaults, config file, MAVINSPECT_* environment, flags
//  2. StartSession: dial the bus, wait for the first heartbeat, start the
//     ingest and sweep tasks (and the metrics endpoint when configured)
//  3. Run the Bubble Tea UI until the user quits or SIGINT/SIGTERM arrives,
//     then stop the session
//
// When stderr is a terminal, the connection and heartbeat wait are shown as
// spinner lines (internal/ui) before the UI starts. While the UI owns the
// terminal, log output goes to --log-file or is discarded.
//
// # Command Structure
//
//	mavinspect [flags]       - Inspect a telemetry stream
//	mavinspect config        - Print the resolved configuration
//	mavinspect version       - Print version information
//	mavinspect completion    - Generate shell completion scripts
//
// # Error Handling
//
// Startup failures are returned as structured errors (internal/errors) and
// printed by Execute before exiting non-zero:
//
//	CONFIG     - invalid config, flag or log file
//	BUS        - the connection target could not be opened
//	HANDSHAKE  - no heartbeat within --handshake-timeout
//	TERMINAL   - the UI could not run
package cli
