// Package server wires the launcher components into an HTTP server.
//
// This package orchestrates all components:
//   - Program lister and list screen
//   - Process launcher and run screen manager
//   - HTTP routing with Gin framework
//   - Middleware stack (recovery, request IDs, access log, metrics, CORS)
//   - Launch rate limiting, per client or global
//   - WebSocket screen streams
//
// Server Lifecycle:
//  1. Load configuration from environment, file and flags
//  2. Initialize logger and metrics
//  3. Scan the programs directory
//  4. Setup HTTP routes and middleware
//  5. Start HTTP server
//  6. Graceful shutdown on signal, stopping every run screen
//
// Example Usage:
//
//	cfg, err := config.Resolve(configFile, config.Overrides{})
//	srv, err := server.NewServer(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
