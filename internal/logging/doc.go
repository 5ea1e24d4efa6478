// Package logging provides structured logging for the LED control panel.
//
// This package wraps a zap logger with convenience functions for the logging
// patterns used throughout the panel: command outcomes, transport failures,
// dropped input events and startup/shutdown milestones.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (every redraw, raw replies, key events)
//   - Info: Normal operations (startup, commands, state transitions)
//   - Warn: Non-fatal issues (transport failures, dropped input)
//   - Error: Startup failures and unrecoverable host faults
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Command completed",
//	    zap.String("command", "toggle"),
//	    zap.Bool("reported_on", true),
//	)
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.Initialize("debug", "/var/log/ledpanel.log"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// When no level is given the LEDPANEL_LOG_LEVEL environment variable is
// consulted. When neither is set, logging is silent so the terminal display
// is not disturbed. While the terminal display owns the screen, logs should
// be sent to a file.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
