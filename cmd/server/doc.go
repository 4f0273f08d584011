// Package main is the entry point for the demo launcher server.
//
// The server lists the executable programs in one directory and runs a
// selected program as a child process owned by a run screen. Screens are
// driven over a REST API and viewed over websockets; closing the viewer or
// deleting the screen kills the program.
//
// Configuration:
//   - Environment variables (12-factor)
//   - Optional YAML or TOML file (-config or CONFIG_FILE)
//   - CLI flags (override both)
//
// Usage:
//
//	# Production mode
//	./server -port 8000 -dir /system/bin/limare
//
//	# Development mode (colored logs, debug level)
//	./server -dev -dir ./demos -mode pty
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown, stopping every run screen
package main
