package screen

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/GriffinCanCode/demolauncher/internal/domain/launcher"
	"github.com/GriffinCanCode/demolauncher/internal/infrastructure/logging"
	"github.com/GriffinCanCode/demolauncher/internal/shared/id"
	"github.com/GriffinCanCode/demolauncher/internal/shared/types"
)

func TestCreateShowsBaseNameOnSuccess(t *testing.T) {
	l := &fakeLauncher{}
	s := NewRunScreen(id.NewScreenID(), l, nil)

	require.NoError(t, s.Create(ProgramExtras("/system/bin/limare/spinning_cube")))

	assert.True(t, s.HasProcess())
	assert.Equal(t, "spinning_cube", s.Message())
	assert.Equal(t, []string{"/system/bin/limare/spinning_cube"}, l.launched)

	info := s.Info()
	assert.Equal(t, types.ScreenRunning, info.State)
	assert.True(t, info.Running)
	assert.Equal(t, 4242, info.PID)
	assert.Empty(t, info.Error)
	assert.Nil(t, info.StoppedAt)
}

func TestCreateFailureLogsOnce(t *testing.T) {
	tests := []struct {
		name   string
		extras Extras
		path   string
	}{
		{"missing program", ProgramExtras("/nonexistent/demo"), "/nonexistent/demo"},
		{"empty path", ProgramExtras(""), ""},
		{"no extras", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := observedLogger()
			l := &fakeLauncher{missing: map[string]bool{"/nonexistent/demo": true}}
			s := NewRunScreen(id.NewScreenID(), l, logger)

			require.NoError(t, s.Create(tt.extras))

			assert.False(t, s.HasProcess())
			assert.Equal(t, tt.path, s.Message())

			errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
			require.Len(t, errs, 1)
			assert.Equal(t, "exec failed", errs[0].Message)

			info := s.Info()
			assert.Equal(t, types.ScreenIdle, info.State)
			assert.False(t, info.Running)
			assert.Contains(t, info.Error, launcher.ErrLaunchFailure.Error())
			assert.True(t, waitClosed(s.Done()))
			assert.Nil(t, s.Output())
		})
	}
}

func TestCreateTwice(t *testing.T) {
	l := &fakeLauncher{}
	s := NewRunScreen(id.NewScreenID(), l, nil)

	require.NoError(t, s.Create(ProgramExtras("/demo/a")))
	assert.ErrorIs(t, s.Create(ProgramExtras("/demo/b")), ErrAlreadyCreated)
	assert.Len(t, l.launched, 1)
}

func TestStopKillsOnce(t *testing.T) {
	l := &fakeLauncher{}
	s := NewRunScreen(id.NewScreenID(), l, nil)
	require.NoError(t, s.Create(ProgramExtras("/demo/a")))
	h := l.handles[0]

	assert.True(t, s.Stop())
	assert.False(t, s.HasProcess())
	assert.Equal(t, 1, h.Kills())

	assert.False(t, s.Stop())
	assert.Equal(t, 1, h.Kills())

	info := s.Info()
	assert.Equal(t, types.ScreenStopped, info.State)
	assert.False(t, info.Running)
	assert.NotNil(t, info.StoppedAt)
	assert.Equal(t, 4242, info.PID)
}

func TestStopDoesNotBlockReadersDuringKill(t *testing.T) {
	l := &fakeLauncher{block: make(chan struct{})}
	s := NewRunScreen(id.NewScreenID(), l, nil)
	require.NoError(t, s.Create(ProgramExtras("/demo/slow_exit")))
	h := l.handles[0]

	stopped := make(chan bool)
	go func() { stopped <- s.Stop() }()
	require.Eventually(t, func() bool { return h.Kills() == 1 }, 2*time.Second, 5*time.Millisecond)

	readers := make(chan types.ScreenInfo)
	go func() { readers <- s.Info() }()
	select {
	case info := <-readers:
		assert.Equal(t, types.ScreenStopped, info.State)
		assert.Equal(t, 4242, info.PID)
	case <-time.After(time.Second):
		t.Fatal("Info blocked while the process was being killed")
	}
	assert.False(t, s.HasProcess())
	assert.False(t, s.Stop())

	close(l.block)
	assert.True(t, <-stopped)
	assert.Equal(t, 1, h.Kills())
	assert.False(t, s.Info().Running)
}

func TestStopWithoutProcess(t *testing.T) {
	l := &fakeLauncher{missing: map[string]bool{"/demo/gone": true}}
	s := NewRunScreen(id.NewScreenID(), l, nil)
	require.NoError(t, s.Create(ProgramExtras("/demo/gone")))

	assert.True(t, s.Stop())
	assert.False(t, s.Stop())
	assert.Equal(t, types.ScreenStopped, s.Info().State)
}

func TestOutputDrainsHandle(t *testing.T) {
	l := &fakeLauncher{}
	s := NewRunScreen(id.NewScreenID(), l, nil)
	require.NoError(t, s.Create(ProgramExtras("/demo/a")))

	assert.Equal(t, []byte("hello"), s.Output())
	assert.Empty(t, s.Output())
}

func TestRunScreenWithRealProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotating_quad")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexec sleep 30\n"), 0o755))
	require.NoError(t, os.Chmod(path, 0o755))

	l := FromLauncher(launcher.New(launcher.ModeExec, 0, logging.Nop()))
	s := NewRunScreen(id.NewScreenID(), l, nil)

	require.NoError(t, s.Create(ProgramExtras(path)))
	require.True(t, s.HasProcess())
	assert.Equal(t, "rotating_quad", s.Message())
	assert.True(t, s.Info().Running)

	done := s.Done()
	require.True(t, s.Stop())
	assert.True(t, waitClosed(done))
	assert.False(t, s.HasProcess())

	info := s.Info()
	assert.False(t, info.Running)
	require.NotNil(t, info.ExitCode)
	assert.Equal(t, -1, *info.ExitCode)
}

func TestFromLauncherFailureReturnsNilHandle(t *testing.T) {
	l := FromLauncher(launcher.New(launcher.ModeExec, 0, logging.Nop()))

	h, err := l.Launch(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, launcher.ErrLaunchFailure)
	assert.Nil(t, h)
}
