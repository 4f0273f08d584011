package screen

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/demolauncher/internal/domain/launcher"
	"github.com/GriffinCanCode/demolauncher/internal/infrastructure/logging"
	"github.com/GriffinCanCode/demolauncher/internal/shared/id"
	"github.com/GriffinCanCode/demolauncher/internal/shared/types"
)

// ErrAlreadyCreated means Create was called twice on the same screen
var ErrAlreadyCreated = errors.New("screen already created")

// Handle is the process owned by a run screen
type Handle interface {
	Kill() error
	Info() launcher.ProcessInfo
	Output() []byte
	Done() <-chan struct{}
}

// Launcher starts the program named by a path
type Launcher interface {
	Launch(path string) (Handle, error)
}

// LaunchFunc adapts a function to Launcher
type LaunchFunc func(path string) (Handle, error)

// Launch calls f(path)
func (f LaunchFunc) Launch(path string) (Handle, error) {
	return f(path)
}

// FromLauncher adapts a process launcher to the screen Launcher interface
func FromLauncher(l *launcher.Launcher) Launcher {
	return LaunchFunc(func(path string) (Handle, error) {
		proc, err := l.Launch(path)
		if err != nil {
			return nil, err
		}
		return proc, nil
	})
}

var closedDone = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// RunScreen runs one program and owns its process until stopped
type RunScreen struct {
	id       id.ScreenID
	launcher Launcher
	logger   *logging.Logger

	mu        sync.Mutex
	created   bool
	stopped   bool
	program   string
	message   string
	handle    Handle
	last      *launcher.ProcessInfo // Final process state, kept after stop
	launchErr error
	openedAt  time.Time
	stoppedAt time.Time
}

// NewRunScreen creates a run screen that launches through l
func NewRunScreen(screenID id.ScreenID, l Launcher, logger *logging.Logger) *RunScreen {
	if logger == nil {
		logger = logging.Nop()
	}
	return &RunScreen{
		id:       screenID,
		launcher: l,
		logger:   logger.Named("screen").With(zap.String("screen_id", screenID.String())),
	}
}

// ID returns the screen ID
func (s *RunScreen) ID() id.ScreenID {
	return s.id
}

// Create launches the program named in extras. A failed launch is logged
// and leaves the screen showing the attempted path with no process.
func (s *RunScreen) Create(extras Extras) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.created {
		return ErrAlreadyCreated
	}
	s.created = true
	s.openedAt = time.Now()

	program := extras.Get(ExtraProgram)
	s.program = program
	s.message = program

	s.logger.Info("Run screen created", zap.String("program", program))

	handle, err := s.launcher.Launch(program)
	if err != nil {
		s.launchErr = err
		s.logger.Error("exec failed", zap.String("program", program), zap.Error(err))
		return nil
	}

	s.handle = handle
	s.message = filepath.Base(program)
	return nil
}

// Stop kills the owned process and clears the handle. It reports whether
// this call stopped the screen; later calls are no-ops.
func (s *RunScreen) Stop() bool {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return false
	}
	s.stopped = true
	s.stoppedAt = time.Now()
	handle := s.handle
	s.handle = nil
	if handle != nil {
		info := handle.Info()
		s.last = &info
	}
	s.mu.Unlock()

	if handle != nil {
		if err := handle.Kill(); err != nil {
			s.logger.Error("Failed to kill program", zap.String("program", s.program), zap.Error(err))
		}
		info := handle.Info()
		s.mu.Lock()
		s.last = &info
		s.mu.Unlock()
	}

	s.logger.Info("Run screen stopped", zap.String("program", s.program))
	return true
}

// HasProcess reports whether the screen currently holds a process handle
func (s *RunScreen) HasProcess() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle != nil
}

// Stopped reports whether Stop has been called
func (s *RunScreen) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Message returns the text the screen displays
func (s *RunScreen) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Output drains the captured output of the running program
func (s *RunScreen) Output() []byte {
	s.mu.Lock()
	handle := s.handle
	s.mu.Unlock()

	if handle == nil {
		return nil
	}
	return handle.Output()
}

// Done is closed when the program has exited. Screens without a process
// return a closed channel.
func (s *RunScreen) Done() <-chan struct{} {
	s.mu.Lock()
	handle := s.handle
	s.mu.Unlock()

	if handle == nil {
		return closedDone
	}
	return handle.Done()
}

// Info returns the public view of the screen
func (s *RunScreen) Info() types.ScreenInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := types.ScreenInfo{
		ID:       s.id.String(),
		Program:  s.program,
		Message:  s.message,
		State:    types.ScreenIdle,
		OpenedAt: s.openedAt,
	}
	if s.launchErr != nil {
		info.Error = s.launchErr.Error()
	}

	proc := s.last
	if s.handle != nil {
		current := s.handle.Info()
		proc = &current
	}
	if proc != nil {
		info.PID = proc.PID
		info.ExitCode = proc.ExitCode
		info.Running = proc.Running
	}

	switch {
	case s.stopped:
		stoppedAt := s.stoppedAt
		info.StoppedAt = &stoppedAt
		info.State = types.ScreenStopped
		info.Running = false
	case info.Running:
		info.State = types.ScreenRunning
	}

	return info
}
