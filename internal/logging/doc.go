// Package logging provides structured logging for the melair tools.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the CLI and transport layers. It provides both
// general logging functions and specialized functions for protocol-specific
// logging needs.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (hex dumps, frame bytes, HTTP bodies)
//   - Info: Normal operations (device found, state fetched, command applied)
//   - Warn: Non-fatal issues (unparseable frame, retries)
//   - Error: Fatal issues (device unreachable, decryption failures)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Device found",
//	    zap.String("host", "192.168.1.100"),
//	    zap.String("serial", "2417P123456"),
//	)
//
// # Specialized Logging
//
// Frame logging:
//
//	logging.LogFrame("sent", "GeneralSet", frameBytes)
//	logging.LogFrame("received", "Sensor", frameBytes)
//
// HTTP exchange logging:
//
//	logging.LogHTTPRequest(host, "POST", "/smart", len(body))
//	logging.LogHTTPResponse(host, resp.StatusCode, len(body))
//
// # Configuration
//
// Logging is silent unless enabled. CLI commands initialize from the
// MELAIR_LOG_LEVEL environment variable:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Output Format
//
// Logs are written to stdout in console format (human-readable):
//
//	2025-11-25T10:30:45.123-0800  DEBUG  Protocol frame
//	  direction=received
//	  group=General
//	  hex=fc62013010020000010b...
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
