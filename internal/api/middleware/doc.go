// Package middleware provides HTTP middleware for the launcher API.
//
// Middleware stack includes:
//   - RequestID: X-Request-ID propagation (client UUIDs or generated ULIDs)
//   - AccessLog: one zap record per request
//   - ViewerCORS: Cross-origin access for browser viewers, including the
//     websocket stream, with the request id exposed
//   - RateLimit: Per-IP token bucket rate limiting for launches
//   - GlobalRateLimit: One token bucket shared by every client
//
// Rate Limiting:
//   - Per-IP tracking with idle client eviction
//   - Token bucket algorithm
//   - Configurable RPS and burst capacity
//   - Global rate limiting option
//
// Example Usage:
//
//	router.Use(middleware.RequestID(), middleware.AccessLog(logger))
//	router.Use(middleware.ViewerCORS([]string{"https://viewer.local"}))
//	launch.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
