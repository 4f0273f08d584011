package launcher

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"
)

// killWait bounds how long Kill waits for the reaper to observe the exit
const killWait = 2 * time.Second

// Process is an owned handle on a launched program
type Process struct {
	Path      string
	Name      string
	PID       int
	StartedAt time.Time

	cmd    *exec.Cmd
	signal func() error // Sends SIGKILL; cmd.Process.Kill once started
	ptmx   *os.File
	output *Buffer
	done   chan struct{}

	mu       sync.RWMutex
	exited   bool
	killed   bool
	exitCode int
	waitErr  error
}

// ProcessInfo is the public representation of a process
type ProcessInfo struct {
	PID       int       `json:"pid"`
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	StartedAt time.Time `json:"started_at"`
	Running   bool      `json:"running"`
	Killed    bool      `json:"killed"`
	ExitCode  *int      `json:"exit_code,omitempty"`
}

// Kill terminates the process. Killing an exited or already killed
// process is a no-op.
func (p *Process) Kill() error {
	p.mu.Lock()
	if p.exited || p.killed {
		p.mu.Unlock()
		return nil
	}
	if err := p.signal(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		p.mu.Unlock()
		return fmt.Errorf("failed to kill %s (pid %d): %w", p.Name, p.PID, err)
	}
	p.killed = true
	p.mu.Unlock()

	select {
	case <-p.done:
	case <-time.After(killWait):
	}
	return nil
}

// Running reports whether the process has not been reaped yet
func (p *Process) Running() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.exited
}

// ExitCode returns the exit code once the process has been reaped.
// A process ended by a signal reports -1.
func (p *Process) ExitCode() (int, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.exitCode, p.exited
}

// Err returns the error reported by Wait, if any
func (p *Process) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.waitErr
}

// Done is closed once the process has been reaped
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Output drains the captured output
func (p *Process) Output() []byte {
	return p.output.ReadAll()
}

// Info returns a snapshot of the process state
func (p *Process) Info() ProcessInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()

	info := ProcessInfo{
		PID:       p.PID,
		Path:      p.Path,
		Name:      p.Name,
		StartedAt: p.StartedAt,
		Running:   !p.exited,
		Killed:    p.killed,
	}
	if p.exited {
		code := p.exitCode
		info.ExitCode = &code
	}
	return info
}

// markExited records the result of Wait
func (p *Process) markExited(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.exited = true
	p.waitErr = err
	p.exitCode = -1
	if p.cmd.ProcessState != nil {
		p.exitCode = p.cmd.ProcessState.ExitCode()
	}
}
