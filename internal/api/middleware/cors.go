package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// AnyOrigin admits browser viewers served from any origin.
const AnyOrigin = "*"

// viewerMaxAge is how long browsers may cache a preflight answer.
const viewerMaxAge = 12 * time.Hour

// ViewerCORSConfig returns the cross-origin policy for browser viewers.
//
// Viewers list programs, launch them, stop screens and attach to the
// screen stream, so GET, POST and DELETE are allowed and websocket origins
// are accepted. A viewer may send its own X-Request-ID to correlate calls;
// the id the server settles on is exposed on every response.
//
// An empty list or one containing AnyOrigin admits every origin without
// credentials. Explicit origins are matched exactly and may send them.
func ViewerCORSConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Cache-Control", RequestIDHeader},
		ExposeHeaders:   []string{RequestIDHeader, "Content-Length"},
		AllowWebSockets: true,
		MaxAge:          viewerMaxAge,
	}

	if len(origins) == 0 || slices.Contains(origins, AnyOrigin) {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = slices.Clone(origins)
	cfg.AllowCredentials = true
	return cfg
}

// ViewerCORS creates the CORS middleware for the given viewer origins.
// Requests from other origins are answered with 403.
func ViewerCORS(origins []string) gin.HandlerFunc {
	return cors.New(ViewerCORSConfig(origins))
}
