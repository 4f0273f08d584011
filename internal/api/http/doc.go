// Package http provides HTTP handlers for the launcher REST API.
//
// Endpoints:
//   - Health: / and /health
//   - Programs: /programs, /programs/:index/launch
//   - Screens: /screens, /screens/:id, /screens/:id/output
//
// Program indexes refer to the most recent GET /programs listing. Launch
// failures are not HTTP errors: the run screen is created and reports
// running=false with the attempted path as its message.
//
// Example Usage:
//
//	handlers := http.NewHandlers(listScreen, screenManager, cfg.Programs.Dir, logger)
//	router.GET("/programs", handlers.ListPrograms)
//	router.POST("/programs/:index/launch", handlers.LaunchProgram)
package http
