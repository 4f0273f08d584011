// Package launcher starts demo programs as child processes.
//
// A program is started from its path alone: no arguments, no environment
// overrides. Two modes exist:
//   - exec: plain os/exec, stdout and stderr captured into a ring buffer
//   - pty:  the program runs on a pseudo-terminal, for demos that check isatty
//
// Every started program gets a reaper goroutine that waits for it and
// records its exit status. The returned *Process is an owned handle: whoever
// holds it is responsible for calling Kill, which is idempotent.
//
// Example Usage:
//
//	l := launcher.New(launcher.ModeExec, 64*1024, logger)
//	proc, err := l.Launch("/system/bin/limare/cube_textured")
//	if err != nil {
//	    // errors.Is(err, launcher.ErrLaunchFailure)
//	}
//	defer proc.Kill()
package launcher
