package screen

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GriffinCanCode/demolauncher/internal/domain/launcher"
	"github.com/GriffinCanCode/demolauncher/internal/infrastructure/logging"
	"github.com/GriffinCanCode/demolauncher/internal/shared/types"
)

var errNoSuchProgram = errors.New("no such program")

type fakeHandle struct {
	mu     sync.Mutex
	path   string
	kills  int
	killed bool
	output []byte
	done   chan struct{}
	block  chan struct{} // Kill waits for it to close when set
}

func (h *fakeHandle) Kill() error {
	h.mu.Lock()
	h.kills++
	block := h.block
	h.mu.Unlock()
	if block != nil {
		<-block
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.killed {
		h.killed = true
		close(h.done)
	}
	return nil
}

func (h *fakeHandle) Info() launcher.ProcessInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return launcher.ProcessInfo{
		PID:     4242,
		Path:    h.path,
		Running: !h.killed,
		Killed:  h.killed,
	}
}

func (h *fakeHandle) Output() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.output
	h.output = nil
	return out
}

func (h *fakeHandle) Done() <-chan struct{} {
	return h.done
}

func (h *fakeHandle) Kills() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.kills
}

// fakeLauncher records launched paths and fails for paths in missing
type fakeLauncher struct {
	mu       sync.Mutex
	launched []string
	handles  []*fakeHandle
	missing  map[string]bool
	block    chan struct{}
}

func (l *fakeLauncher) Launch(path string) (Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.launched = append(l.launched, path)
	if path == "" || l.missing[path] {
		return nil, fmt.Errorf("%w: %s: %w", launcher.ErrLaunchFailure, path, errNoSuchProgram)
	}
	h := &fakeHandle{path: path, output: []byte("hello"), done: make(chan struct{}), block: l.block}
	l.handles = append(l.handles, h)
	return h, nil
}

type staticLister []types.Program

func (s staticLister) List() []types.Program {
	return s
}

func programs(paths ...string) staticLister {
	out := make(staticLister, len(paths))
	for i, p := range paths {
		out[i] = types.Program{Path: p, Name: filepath.Base(p), Kind: "text/x-shellscript"}
	}
	return out
}

func observedLogger() (*logging.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logging.Wrap(zap.New(core)), logs
}

func waitClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	case <-time.After(5 * time.Second):
		return false
	}
}
