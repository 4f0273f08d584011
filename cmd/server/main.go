package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GriffinCanCode/demolauncher/internal/infrastructure/config"
	"github.com/GriffinCanCode/demolauncher/internal/infrastructure/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse flags
	var o config.Overrides
	flag.StringVar(&o.Port, "port", "", "Server port (overrides PORT)")
	flag.StringVar(&o.Host, "host", "", "Listen host (overrides HOST)")
	flag.StringVar(&o.Dir, "dir", "", "Programs directory (overrides PROGRAMS_DIR)")
	flag.StringVar(&o.Pattern, "pattern", "", "Program name filter (overrides PROGRAMS_PATTERN)")
	flag.StringVar(&o.LaunchMode, "mode", "", "Launch mode: exec or pty (overrides LAUNCH_MODE)")
	flag.StringVar(&o.LogLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
	flag.BoolVar(&o.Dev, "dev", false, "Development logging")
	configFile := flag.String("config", os.Getenv("CONFIG_FILE"), "YAML or TOML config file")
	flag.Parse()

	cfg, err := config.Resolve(*configFile, o)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Create server
	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		_ = srv.Close()
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}
}
