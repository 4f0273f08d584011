package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsIsolatedRegistries(t *testing.T) {
	// Two collectors must not collide on registration
	m1 := NewMetrics()
	m2 := NewMetrics()

	m1.SetProgramsListed(3)
	m2.SetProgramsListed(7)

	assert.Equal(t, 3.0, testutil.ToFloat64(m1.ProgramsListed))
	assert.Equal(t, 7.0, testutil.ToFloat64(m2.ProgramsListed))
}

func TestTimerRecordsOutcome(t *testing.T) {
	m := NewMetrics()

	NewTimer(m).Stop(nil)
	NewTimer(m).Stop(nil)
	NewTimer(m).Stop(errors.New("exec failed"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LaunchesTotal.WithLabelValues(StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LaunchesTotal.WithLabelValues(StatusFailure)))
}

func TestScreenAndProcessGauges(t *testing.T) {
	m := NewMetrics()

	m.IncScreensOpen()
	m.IncScreensOpen()
	m.RecordScreenStopped()
	m.IncProcessesRunning()
	m.DecProcessesRunning()
	m.IncDirectoryUnavailable()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScreensOpen))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScreensStopped))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ProcessesRunning))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DirectoryUnavailable))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.SetProgramsListed(1)
		m.IncDirectoryUnavailable()
		m.RecordLaunch(StatusSuccess, time.Millisecond)
		m.IncProcessesRunning()
		m.DecProcessesRunning()
		m.IncScreensOpen()
		m.RecordScreenStopped()
		m.RecordWSMessage("output")
		m.IncWSConnections()
		m.DecWSConnections()
		m.RecordHTTPRequest("GET", "/", "200", time.Millisecond, 0, 0)
		NewTimer(m).Stop(nil)
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/screens/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/screens/"+id, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	// Both requests share the route template label
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/screens/:id", "200")))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "launcher_http_requests_total")
	assert.Contains(t, w.Body.String(), "launcher_uptime_seconds")
}
