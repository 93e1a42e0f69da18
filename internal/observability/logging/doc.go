// Package logging provides structured logging utilities with context propagation.
//
// Loggers are plain *slog.Logger values. NewLogger writes JSON for services; NewTextLogger
// writes human-readable text for the CLI. LOG_LEVEL selects the level (debug, info, warn,
// error).
//
// Example usage:
//
//	logger := logging.NewLogger(os.Stdout)
//	slog.SetDefault(logger)
//	logger.Info("api starting", slog.String("addr", ":8080"))
package logging
