/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics for the launcher: HTTP
traffic, program discovery, process launches and run screen lifecycle.
Every Metrics value owns a private registry, so several instances (one per
test, say) never collide on registration.

# Features

- HTTP request metrics (latency, throughput, size)
- Program discovery metrics (listed programs, unavailable directory scans)
- Launch metrics (outcome counter, duration histogram, running processes)
- Run screen metrics (open screens, stops)
- WebSocket viewer metrics
- Uptime

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Time a launch
	timer := monitoring.NewTimer(metrics)
	proc, err := launcher.Launch(path)
	timer.Stop(err)

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

All methods are safe to call on a nil *Metrics, which records nothing.
*/
package monitoring
