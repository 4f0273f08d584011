package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/demolauncher/internal/shared/paths"
)

// syncBuffer is a bytes.Buffer safe for the concurrent writes of run
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeProgram(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	require.NoError(t, os.Chmod(path, 0o755))
	return path
}

func runAsync(ctx context.Context, args []string, stdin io.Reader, out io.Writer) <-chan int {
	result := make(chan int, 1)
	go func() {
		result <- run(ctx, args, stdin, out)
	}()
	return result
}

func waitCode(t *testing.T, result <-chan int) int {
	t.Helper()
	select {
	case code := <-result:
		return code
	case <-time.After(10 * time.Second):
		t.Fatal("launcher did not return")
		return -1
	}
}

func TestListAndRunUntilExit(t *testing.T) {
	dir := t.TempDir()
	writeProgram(t, dir, "a_triangle", "exec sleep 30")
	writeProgram(t, dir, "b_greeter", "echo hello-from-demo\nexit 4")

	stdinR, stdinW := io.Pipe()
	t.Cleanup(func() { _ = stdinW.Close() })

	out := &syncBuffer{}
	result := runAsync(context.Background(), []string{"-dir", dir, "-log-level", "error"}, stdinR, out)

	_, err := io.WriteString(stdinW, "7\n1\n")
	require.NoError(t, err)

	assert.Equal(t, exitOK, waitCode(t, result))

	text := out.String()
	assert.Contains(t, text, "  0) a_triangle")
	assert.Contains(t, text, "  1) b_greeter")
	assert.Contains(t, text, "Choose a number between 0 and 1")
	assert.Contains(t, text, "Running b_greeter")
	assert.Contains(t, text, "hello-from-demo")
	assert.Contains(t, text, "b_greeter exited with code 4")
	assert.Contains(t, text, "Stopped b_greeter")
}

func TestEnterStopsProgram(t *testing.T) {
	dir := t.TempDir()
	writeProgram(t, dir, "spinner", "exec sleep 30")

	out := &syncBuffer{}
	start := time.Now()
	code := waitCode(t, runAsync(context.Background(), []string{"-dir", dir, "-log-level", "error"}, strings.NewReader("0\n\n"), out))

	assert.Equal(t, exitOK, code)
	assert.Less(t, time.Since(start), 10*time.Second)
	assert.Contains(t, out.String(), "Running spinner")
	assert.Contains(t, out.String(), "Stopped spinner")
}

func TestSignalStopsProgram(t *testing.T) {
	dir := t.TempDir()
	path := writeProgram(t, dir, "spinner", "exec sleep 30")

	stdinR, stdinW := io.Pipe()
	t.Cleanup(func() { _ = stdinW.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	result := runAsync(ctx, []string{"-run", path, "-log-level", "error"}, stdinR, out)

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Running spinner")
	}, 5*time.Second, 10*time.Millisecond)
	cancel()

	assert.Equal(t, exitOK, waitCode(t, result))
	assert.Contains(t, out.String(), "Stopped spinner")
}

func TestRunByName(t *testing.T) {
	dir := t.TempDir()
	writeProgram(t, dir, "spinner", "echo spinning\nexec sleep 30")

	tests := []struct {
		name    string
		program string
		want    int
		message string
	}{
		{"bare name", "spinner", exitOK, "Running spinner"},
		{"absolute path", filepath.Join(dir, "spinner"), exitOK, "Running spinner"},
		{"unknown name", "no_such_demo", exitFailed, "Could not run " + filepath.Join(dir, "no_such_demo")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdinR, stdinW := io.Pipe()
			t.Cleanup(func() { _ = stdinW.Close() })

			out := &syncBuffer{}
			result := runAsync(context.Background(), []string{"-dir", dir, "-run", tt.program, "-log-level", "error"}, stdinR, out)

			if tt.want == exitOK {
				require.Eventually(t, func() bool {
					return strings.Contains(out.String(), "spinning")
				}, 5*time.Second, 10*time.Millisecond)
				_, err := io.WriteString(stdinW, "\n")
				require.NoError(t, err)
			}

			assert.Equal(t, tt.want, waitCode(t, result))
			assert.Contains(t, out.String(), tt.message)
		})
	}
}

func TestRunFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	out := &syncBuffer{}
	code := waitCode(t, runAsync(context.Background(), []string{"-run", missing, "-log-level", "error"}, strings.NewReader(""), out))

	assert.Equal(t, exitFailed, code)
	assert.Contains(t, out.String(), "Could not run "+missing)
}

func TestEmptyDirectory(t *testing.T) {
	dir := t.TempDir()

	out := &syncBuffer{}
	code := waitCode(t, runAsync(context.Background(), []string{"-dir", dir, "-log-level", "error"}, strings.NewReader(""), out))

	assert.Equal(t, exitFailed, code)
	assert.Contains(t, out.String(), "No programs found")
	assert.Contains(t, out.String(), paths.Limare)
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-bogus"}},
		{"relative run path", []string{"-run", "demos/spinner"}},
		{"bad mode", []string{"-mode", "fork"}},
		{"bad pattern", []string{"-dir", "/tmp", "-pattern", "["}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &syncBuffer{}
			code := waitCode(t, runAsync(context.Background(), tt.args, strings.NewReader(""), out))
			assert.Equal(t, exitUsage, code)
		})
	}
}
