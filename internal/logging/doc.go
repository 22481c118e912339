// Package logging provides structured logging for the Freebox client.
//
// This package wraps a zap logger with convenience functions for the
// logging patterns used by the session layer, the pairing flow and the CLI.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Request/response details, raw envelopes, permissions
//   - Info: Session opened/closed, pairing status changes
//   - Warn: Non-fatal issues (re-authentication, logout failures)
//   - Error: Fatal issues
//
// # Silent by Default
//
// Library code must not write to the terminal on its own. Until Initialize
// is called with a level, or FREEBOX_LOG_LEVEL is set, GetLogger returns a
// no-op logger:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Specialized Logging
//
//	logging.LogRequest(l, "GET", "system/", 200, 1)
//	logging.LogSession(l, "session_opened")
//	logging.LogPairing(l, trackID, "pending")
//	logging.LogEnvelope(l, "Authorize response", body)
//
// Secrets are never logged in full; use Redact for app and session tokens.
package logging
