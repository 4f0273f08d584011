// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Components receive a *Logger and attach their own name with Named, so
// records read "screen", "launcher", "lister" and so on.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Programs listed", zap.String("dir", dir), zap.Int("count", n))
//	logger.Error("exec failed", zap.String("program", path), zap.Error(err))
package logging
