package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Launch outcomes
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Discovery metrics
	ProgramsListed       prometheus.Gauge
	DirectoryUnavailable prometheus.Counter

	// Launch metrics
	LaunchesTotal    *prometheus.CounterVec
	LaunchDuration   prometheus.Histogram
	ProcessesRunning prometheus.Gauge

	// Screen metrics
	ScreensOpen    prometheus.Gauge
	ScreensStopped prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time
}

// NewMetrics creates a new metrics collector backed by its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launcher_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "launcher_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "launcher_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "launcher_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		// Discovery metrics
		ProgramsListed: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "launcher_programs_listed",
				Help: "Number of executable programs found by the last scan",
			},
		),
		DirectoryUnavailable: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "launcher_directory_unavailable_total",
				Help: "Total number of scans that could not list the programs directory",
			},
		),

		// Launch metrics
		LaunchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launcher_launches_total",
				Help: "Total number of program launches by outcome",
			},
			[]string{"status"},
		),
		LaunchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "launcher_launch_duration_seconds",
				Help:    "Time spent spawning a program",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		ProcessesRunning: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "launcher_processes_running",
				Help: "Number of launched processes still running",
			},
		),

		// Screen metrics
		ScreensOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "launcher_screens_open",
				Help: "Number of run screens not yet stopped",
			},
		),
		ScreensStopped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "launcher_screens_stopped_total",
				Help: "Total number of run screens stopped",
			},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "launcher_ws_connections",
				Help: "Number of active WebSocket screen viewers",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launcher_ws_messages_total",
				Help: "Total number of WebSocket frames sent",
			},
			[]string{"type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "launcher_uptime_seconds",
			Help: "Launcher uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
}

// SetProgramsListed records the size of the last scan
func (m *Metrics) SetProgramsListed(count int) {
	if m == nil {
		return
	}
	m.ProgramsListed.Set(float64(count))
}

// IncDirectoryUnavailable counts a scan of a missing or unreadable directory
func (m *Metrics) IncDirectoryUnavailable() {
	if m == nil {
		return
	}
	m.DirectoryUnavailable.Inc()
}

// RecordLaunch records a launch outcome and its duration
func (m *Metrics) RecordLaunch(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.LaunchesTotal.WithLabelValues(status).Inc()
	m.LaunchDuration.Observe(duration.Seconds())
}

// IncProcessesRunning marks a process as started
func (m *Metrics) IncProcessesRunning() {
	if m == nil {
		return
	}
	m.ProcessesRunning.Inc()
}

// DecProcessesRunning marks a process as reaped
func (m *Metrics) DecProcessesRunning() {
	if m == nil {
		return
	}
	m.ProcessesRunning.Dec()
}

// IncScreensOpen marks a run screen as opened
func (m *Metrics) IncScreensOpen() {
	if m == nil {
		return
	}
	m.ScreensOpen.Inc()
}

// RecordScreenStopped marks a run screen as stopped
func (m *Metrics) RecordScreenStopped() {
	if m == nil {
		return
	}
	m.ScreensOpen.Dec()
	m.ScreensStopped.Inc()
}

// RecordWSMessage records a WebSocket frame
func (m *Metrics) RecordWSMessage(msgType string) {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues(msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Dec()
}
