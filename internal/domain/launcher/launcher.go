package launcher

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/creack/pty"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/demolauncher/internal/infrastructure/logging"
	"github.com/GriffinCanCode/demolauncher/internal/infrastructure/monitoring"
)

// Mode selects how a program's standard streams are attached
type Mode string

const (
	ModeExec Mode = "exec"
	ModePTY  Mode = "pty"
)

// DefaultBufferSize is the output ring size used when none is configured
const DefaultBufferSize = 64 * 1024

// ErrLaunchFailure means the program could not be started
var ErrLaunchFailure = errors.New("launch failed")

// Launcher starts programs as child processes
type Launcher struct {
	mode       Mode
	bufferSize int
	logger     *logging.Logger
	metrics    *monitoring.Metrics
}

// New creates a launcher. Unknown modes fall back to ModeExec.
func New(mode Mode, bufferSize int, logger *logging.Logger) *Launcher {
	if mode != ModePTY {
		mode = ModeExec
	}
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if logger == nil {
		logger = logging.Nop()
	}

	return &Launcher{
		mode:       mode,
		bufferSize: bufferSize,
		logger:     logger.Named("launcher"),
	}
}

// WithMetrics adds metrics tracking to the launcher
func (l *Launcher) WithMetrics(metrics *monitoring.Metrics) *Launcher {
	l.metrics = metrics
	return l
}

// Mode returns the configured launch mode
func (l *Launcher) Mode() Mode {
	return l.mode
}

// Launch starts the program at path with no arguments. On failure the
// returned error wraps ErrLaunchFailure and no process is left behind.
func (l *Launcher) Launch(path string) (*Process, error) {
	timer := monitoring.NewTimer(l.metrics)
	proc, err := l.start(path)
	timer.Stop(err)
	if err != nil {
		return nil, err
	}

	l.metrics.IncProcessesRunning()
	go l.reap(proc)

	l.logger.Info("Program started",
		zap.String("path", proc.Path),
		zap.Int("pid", proc.PID),
		zap.String("mode", string(l.mode)),
	)

	return proc, nil
}

func (l *Launcher) start(path string) (*Process, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty program path", ErrLaunchFailure)
	}

	cmd := exec.Command(path)
	proc := &Process{
		Path:   path,
		Name:   filepath.Base(path),
		cmd:    cmd,
		output: NewBuffer(l.bufferSize),
		done:   make(chan struct{}),
	}

	switch l.mode {
	case ModePTY:
		ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: 24, Cols: 80})
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLaunchFailure, path, err)
		}
		proc.ptmx = ptmx
	default:
		cmd.Stdout = proc.output
		cmd.Stderr = proc.output
		// Grandchildren holding the pipes open must not block the reaper
		cmd.WaitDelay = time.Second
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLaunchFailure, path, err)
		}
	}

	proc.PID = cmd.Process.Pid
	proc.signal = cmd.Process.Kill
	proc.StartedAt = time.Now()

	return proc, nil
}

// reap waits for the process to exit and releases its terminal
func (l *Launcher) reap(proc *Process) {
	var copied chan struct{}
	if proc.ptmx != nil {
		copied = make(chan struct{})
		go func() {
			defer close(copied)
			// EIO once the child side closes; that ends the copy
			_, _ = io.Copy(proc.output, proc.ptmx)
		}()
	}

	err := proc.cmd.Wait()

	if proc.ptmx != nil {
		select {
		case <-copied:
		case <-time.After(time.Second):
		}
		proc.ptmx.Close()
	}

	proc.markExited(err)
	close(proc.done)
	l.metrics.DecProcessesRunning()

	code, _ := proc.ExitCode()
	l.logger.Info("Program exited",
		zap.String("path", proc.Path),
		zap.Int("pid", proc.PID),
		zap.Int("exit_code", code),
	)
}
