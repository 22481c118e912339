// Package ui renders terminal output for the freebox CLI.
//
// Components are built with Lipgloss and printed once; only pairing runs a
// Bubble Tea program, to animate a spinner while the Freebox waits for the
// user to press the front panel button.
//
//   - Header: command banner showing the command and its target
//   - Result: success, warning and failure boxes; failures carry
//     troubleshooting tips derived from the error category
//   - Printer: field lists, tables and JSON, plain when not on a terminal
//   - ProgressBar: static completion bars for file system tasks
//   - RunPairing: spinner around the pairing flow
//   - Confirm: typed confirmation before destructive calls
//
// Logging stays silent unless FREEBOX_LOG_LEVEL is set, so the curated
// output is not interleaved with zap lines.
package ui
