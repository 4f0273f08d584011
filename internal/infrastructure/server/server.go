package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/demolauncher/internal/api/http"
	"github.com/GriffinCanCode/demolauncher/internal/api/middleware"
	"github.com/GriffinCanCode/demolauncher/internal/api/ws"
	"github.com/GriffinCanCode/demolauncher/internal/domain/launcher"
	"github.com/GriffinCanCode/demolauncher/internal/domain/program"
	"github.com/GriffinCanCode/demolauncher/internal/domain/screen"
	"github.com/GriffinCanCode/demolauncher/internal/infrastructure/config"
	"github.com/GriffinCanCode/demolauncher/internal/infrastructure/logging"
	"github.com/GriffinCanCode/demolauncher/internal/infrastructure/monitoring"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	http     *http.Server
	programs *screen.ListScreen
	screens  *screen.Manager
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger := logging.NewFromLevel(cfg.Logging.Level, cfg.Logging.Development)
	return NewServerWithLogger(cfg, logger)
}

// NewServerWithLogger creates a server that logs through logger
func NewServerWithLogger(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info("Initializing Demo Launcher",
		zap.String("port", cfg.Server.Port),
		zap.String("programs_dir", cfg.Programs.Dir),
		zap.String("launch_mode", cfg.Programs.LaunchMode),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()

	lister, err := program.NewLister(cfg.Programs.Dir, cfg.Programs.Pattern, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create program lister: %w", err)
	}
	lister.WithMetrics(metrics)

	procLauncher := launcher.New(launcher.Mode(cfg.Programs.LaunchMode), cfg.Programs.OutputBufferBytes, logger).
		WithMetrics(metrics)
	screens := screen.NewManager(screen.FromLauncher(procLauncher), cfg.Programs.ScreenHistory, logger).
		WithMetrics(metrics)
	programs := screen.NewListScreen(lister)

	logger.Info("Programs discovered",
		zap.String("dir", lister.Dir()),
		zap.Int("count", programs.List().Len()),
	)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger.Named("http")))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.ViewerCORS(cfg.Server.CORSOrigins))

	var launchLimit []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		limit := launchRateLimit(cfg.RateLimit)
		logger.Info("Launch rate limiting enabled",
			zap.Int("rps", limit.RequestsPerSecond),
			zap.Int("burst", limit.Burst),
			zap.Bool("global", cfg.RateLimit.Global),
		)
		if cfg.RateLimit.Global {
			launchLimit = append(launchLimit, middleware.GlobalRateLimit(limit))
		} else {
			launchLimit = append(launchLimit, middleware.RateLimit(limit))
		}
	}

	handlers := apihttp.NewHandlers(programs, screens, lister.Dir(), logger)
	wsHandler := ws.NewHandler(screens, logger).WithMetrics(metrics)

	// Register routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Program list
	router.GET("/programs", handlers.ListPrograms)
	router.POST("/programs/:index/launch", append(launchLimit, handlers.LaunchProgram)...)

	// Run screens
	router.GET("/screens", handlers.ListScreens)
	router.GET("/screens/:id", handlers.GetScreen)
	router.GET("/screens/:id/output", handlers.ScreenOutput)
	router.GET("/screens/:id/stream", wsHandler.HandleStream)
	router.DELETE("/screens/:id", handlers.StopScreen)

	// Metrics
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router:   router,
		programs: programs,
		screens:  screens,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// launchRateLimit fills unset values from the middleware defaults
func launchRateLimit(cfg config.RateLimitConfig) middleware.RateLimitConfig {
	limit := middleware.DefaultRateLimitConfig()
	if cfg.RequestsPerSecond > 0 {
		limit.RequestsPerSecond = cfg.RequestsPerSecond
	}
	if cfg.Burst > 0 {
		limit.Burst = cfg.Burst
	}
	return limit
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Screens returns the run screen manager
func (s *Server) Screens() *screen.Manager {
	return s.screens
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.http.Addr
}

// Run starts the HTTP server and blocks until it is shut down
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones, then
// releases every run screen.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	err := s.http.Shutdown(ctx)
	if err != nil {
		s.logger.Error("HTTP shutdown incomplete", zap.Error(err))
	}
	return errors.Join(err, s.Close())
}

// Close stops every run screen and flushes the logger
func (s *Server) Close() error {
	stopped := s.screens.StopAll()
	s.logger.Info("Run screens stopped", zap.Int("count", stopped))

	// Sync logger before exit
	_ = s.logger.Sync()
	return nil
}
