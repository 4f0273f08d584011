package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/demolauncher/internal/domain/launcher"
	"github.com/GriffinCanCode/demolauncher/internal/domain/program"
	"github.com/GriffinCanCode/demolauncher/internal/domain/screen"
	"github.com/GriffinCanCode/demolauncher/internal/infrastructure/config"
	"github.com/GriffinCanCode/demolauncher/internal/infrastructure/logging"
	"github.com/GriffinCanCode/demolauncher/internal/shared/paths"
	"github.com/GriffinCanCode/demolauncher/internal/shared/utils"
)

// Exit codes
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

const outputPoll = 50 * time.Millisecond

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) int {
	fs := flag.NewFlagSet("launcher", flag.ContinueOnError)
	fs.SetOutput(stdout)

	var o config.Overrides
	fs.StringVar(&o.Dir, "dir", "", "Programs directory (overrides PROGRAMS_DIR)")
	fs.StringVar(&o.Pattern, "pattern", "", "Program name filter (overrides PROGRAMS_PATTERN)")
	fs.StringVar(&o.LaunchMode, "mode", "", "Launch mode: exec or pty (overrides LAUNCH_MODE)")
	fs.StringVar(&o.LogLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
	configFile := fs.String("config", os.Getenv("CONFIG_FILE"), "YAML or TOML config file")
	direct := fs.String("run", "", "Run this program directly instead of choosing from the list; a bare name is looked up in the programs directory")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cfg, err := config.Resolve(*configFile, o)
	if err != nil {
		fmt.Fprintf(stdout, "Invalid configuration: %v\n", err)
		return exitUsage
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: true,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		logger = logging.NewDevelopment()
	}
	defer func() { _ = logger.Sync() }()

	c := &console{
		lines:  readLines(stdin),
		out:    stdout,
		logger: logger,
		poll:   outputPoll,
	}

	var extras screen.Extras
	if *direct != "" {
		target := *direct
		if !strings.ContainsRune(target, filepath.Separator) {
			target = paths.Program(cfg.Programs.Dir, target)
		}
		if err := utils.ValidateProgramPath(target); err != nil {
			fmt.Fprintln(stdout, err)
			return exitUsage
		}
		extras = screen.ProgramExtras(target)
	} else {
		lister, err := program.NewLister(cfg.Programs.Dir, cfg.Programs.Pattern, logger)
		if err != nil {
			fmt.Fprintln(stdout, err)
			return exitUsage
		}

		var ok bool
		extras, ok = c.choose(ctx, screen.NewListScreen(lister), lister.Dir())
		if !ok {
			return exitFailed
		}
	}

	l := launcher.New(launcher.Mode(cfg.Programs.LaunchMode), cfg.Programs.OutputBufferBytes, logger)
	screens := screen.NewManager(screen.FromLauncher(l), 0, logger)
	defer screens.StopAll()

	if !c.show(ctx, screens, extras) {
		return exitFailed
	}
	return exitOK
}

// console is the terminal rendition of the list and run screens
type console struct {
	lines  <-chan string
	out    io.Writer
	logger *logging.Logger
	poll   time.Duration
}

// readLines delivers stdin line by line; the channel closes at EOF
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
	}()
	return lines
}

// choose shows the list screen and waits for a valid selection
func (c *console) choose(ctx context.Context, programs *screen.ListScreen, dir string) (screen.Extras, bool) {
	rows := programs.Rows()
	if len(rows) == 0 {
		fmt.Fprintf(c.out, "No programs found in %s\n", dir)
		fmt.Fprintf(c.out, "Known demo directories: %s\n", strings.Join(paths.Known(), ", "))
		return nil, false
	}

	fmt.Fprintf(c.out, "Programs in %s:\n", dir)
	for _, row := range rows {
		fmt.Fprintf(c.out, "%3d) %s\n", row.Index, row.Label)
	}

	for {
		fmt.Fprint(c.out, "Select a program: ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return nil, false
		case l, ok := <-c.lines:
			if !ok {
				fmt.Fprintln(c.out)
				return nil, false
			}
			line = l
		}

		if index, err := utils.ParseIndex(line); err == nil {
			if extras, err := programs.Select(index); err == nil {
				return extras, true
			}
		}
		fmt.Fprintf(c.out, "Choose a number between 0 and %d\n", len(rows)-1)
	}
}

// show opens a run screen and keeps it until Enter, EOF, a signal or the
// program's exit. It reports whether the program was started.
func (c *console) show(ctx context.Context, screens *screen.Manager, extras screen.Extras) bool {
	s := screens.Open(extras)
	defer func() {
		if info, err := screens.Stop(s.ID().String()); err == nil {
			fmt.Fprintf(c.out, "Stopped %s\n", info.Message)
		}
	}()

	if !s.HasProcess() {
		fmt.Fprintf(c.out, "Could not run %s\n", s.Message())
		return false
	}
	fmt.Fprintf(c.out, "Running %s (press Enter to stop)\n", s.Message())

	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()

	done := s.Done()
	for {
		select {
		case <-ticker.C:
			c.flush(s)
		case <-done:
			c.flush(s)
			if info := s.Info(); info.ExitCode != nil {
				fmt.Fprintf(c.out, "%s exited with code %d\n", info.Message, *info.ExitCode)
			}
			return true
		case <-c.lines:
			return true
		case <-ctx.Done():
			c.logger.Info("Interrupted", zap.String("program", s.Message()))
			return true
		}
	}
}

func (c *console) flush(s *screen.RunScreen) {
	if output := s.Output(); len(output) > 0 {
		_, _ = c.out.Write(output)
	}
}
