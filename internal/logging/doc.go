// Package logging provides structured logging for reservectl.
//
// This package wraps a global zap logger. It is silent unless a level is
// given through Initialize or the RESERVECTL_LOG_LEVEL environment variable,
// so CLI output stays clean by default.
//
// # Log Levels
//
//   - Debug: every API request and response (method, path, request id, timing)
//   - Info: batch summaries
//   - Warn: 4xx/5xx responses and each failed entity in a batch
//   - Error: failures the CLI reports before exiting
//
// # Usage
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
//	logging.Info("Loaded settings", zap.String("path", path))
//
// Output goes to stderr so it never mixes with --format json on stdout.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use; batch goroutines log
// through the same logger.
package logging
