// Package config provides 12-factor configuration management for the launcher.
//
// Configuration is loaded from environment variables with sensible defaults.
// An optional YAML or TOML file overlays the environment, and CLI flags
// override both.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Programs: Programs directory, name filter, launch mode, screen history
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting of launch requests
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil { ... }
//	if path := os.Getenv("CONFIG_FILE"); path != "" {
//	    err = cfg.MergeFile(path)
//	}
//
// Environment Variables:
//   - PORT, HOST
//   - PROGRAMS_DIR, PROGRAMS_PATTERN, LAUNCH_MODE, OUTPUT_BUFFER_BYTES, SCREEN_HISTORY
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
