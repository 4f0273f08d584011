package screen

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/demolauncher/internal/infrastructure/logging"
	"github.com/GriffinCanCode/demolauncher/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/demolauncher/internal/shared/id"
	"github.com/GriffinCanCode/demolauncher/internal/shared/types"
)

// ErrScreenNotFound means no run screen has the requested ID
var ErrScreenNotFound = errors.New("screen not found")

// Manager orchestrates run screen lifecycle
type Manager struct {
	mu      sync.RWMutex
	screens map[id.ScreenID]*RunScreen // Protected by mu
	order   []id.ScreenID              // Opening order, protected by mu

	launcher Launcher
	history  int // Stopped screens retained for inspection
	logger   *logging.Logger
	metrics  *monitoring.Metrics
}

// NewManager creates a new screen manager
func NewManager(l Launcher, history int, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Nop()
	}
	if history < 0 {
		history = 0
	}
	return &Manager{
		screens:  make(map[id.ScreenID]*RunScreen),
		launcher: l,
		history:  history,
		logger:   logger,
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Open creates a run screen from extras and registers it
func (m *Manager) Open(extras Extras) *RunScreen {
	s := NewRunScreen(id.NewScreenID(), m.launcher, m.logger)
	// A fresh screen cannot be created twice
	_ = s.Create(extras.Clone())

	m.mu.Lock()
	m.screens[s.ID()] = s
	m.order = append(m.order, s.ID())
	m.mu.Unlock()

	m.metrics.IncScreensOpen()
	return s
}

// Get retrieves a run screen by ID
func (m *Manager) Get(screenID string) (*RunScreen, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.screens[id.ScreenID(screenID)]
	return s, ok
}

// List returns every retained screen in opening order
func (m *Manager) List() []types.ScreenInfo {
	m.mu.RLock()
	screens := make([]*RunScreen, 0, len(m.order))
	for _, sid := range m.order {
		screens = append(screens, m.screens[sid])
	}
	m.mu.RUnlock()

	infos := make([]types.ScreenInfo, len(screens))
	for i, s := range screens {
		infos[i] = s.Info()
	}
	return infos
}

// Stop stops a run screen. Stopping an already stopped screen is a no-op.
func (m *Manager) Stop(screenID string) (types.ScreenInfo, error) {
	s, ok := m.Get(screenID)
	if !ok {
		return types.ScreenInfo{}, fmt.Errorf("%w: %s", ErrScreenNotFound, screenID)
	}

	if s.Stop() {
		m.metrics.RecordScreenStopped()
		m.prune()
	}
	return s.Info(), nil
}

// StopAll stops every open screen, e.g. on shutdown
func (m *Manager) StopAll() int {
	m.mu.RLock()
	screens := make([]*RunScreen, 0, len(m.screens))
	for _, s := range m.screens {
		screens = append(screens, s)
	}
	m.mu.RUnlock()

	stopped := 0
	for _, s := range screens {
		if s.Stop() {
			m.metrics.RecordScreenStopped()
			stopped++
		}
	}

	if stopped > 0 {
		m.logger.Info("Stopped all run screens", zap.Int("count", stopped))
	}
	m.prune()
	return stopped
}

// Stats returns screen statistics
func (m *Manager) Stats() types.Stats {
	stats := types.Stats{}
	for _, info := range m.List() {
		stats.TotalScreens++
		switch info.State {
		case types.ScreenRunning:
			stats.RunningScreens++
		case types.ScreenStopped:
			stats.StoppedScreens++
		default:
			stats.IdleScreens++
		}
	}
	return stats
}

// prune forgets the oldest stopped screens beyond the history limit
func (m *Manager) prune() {
	m.mu.Lock()
	defer m.mu.Unlock()

	stopped := 0
	for _, sid := range m.order {
		if m.screens[sid].Stopped() {
			stopped++
		}
	}

	excess := stopped - m.history
	if excess <= 0 {
		return
	}

	kept := m.order[:0]
	for _, sid := range m.order {
		if excess > 0 && m.screens[sid].Stopped() {
			delete(m.screens, sid)
			excess--
			continue
		}
		kept = append(kept, sid)
	}
	m.order = kept
}
