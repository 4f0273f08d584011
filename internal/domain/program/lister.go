package program

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/demolauncher/internal/infrastructure/logging"
	"github.com/GriffinCanCode/demolauncher/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/demolauncher/internal/shared/types"
)

// DefaultKind is reported when a program's content type cannot be sniffed
const DefaultKind = "application/octet-stream"

var (
	// ErrDirectoryUnavailable means the programs directory is missing or cannot be listed
	ErrDirectoryUnavailable = errors.New("programs directory unavailable")
	// ErrBadPattern means the name filter is not a valid doublestar pattern
	ErrBadPattern = errors.New("invalid program pattern")
)

// Lister enumerates executable programs in a fixed directory
type Lister struct {
	dir     string
	pattern string
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewLister creates a lister for dir. An empty pattern matches every name.
func NewLister(dir, pattern string, logger *logging.Logger) (*Lister, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
	}
	if logger == nil {
		logger = logging.Nop()
	}

	return &Lister{
		dir:     dir,
		pattern: pattern,
		logger:  logger.Named("lister"),
	}, nil
}

// WithMetrics adds metrics tracking to the lister
func (l *Lister) WithMetrics(metrics *monitoring.Metrics) *Lister {
	l.metrics = metrics
	return l
}

// Dir returns the directory being scanned
func (l *Lister) Dir() string {
	return l.dir
}

// List returns the executable programs in the directory. When the directory
// is unavailable the condition is logged once and an empty slice returned.
func (l *Lister) List() []types.Program {
	programs, err := Scan(l.dir, l.pattern)
	if err != nil {
		l.logger.Error("Programs directory unavailable",
			zap.String("dir", l.dir),
			zap.Error(err),
		)
		l.metrics.IncDirectoryUnavailable()
		l.metrics.SetProgramsListed(0)
		return []types.Program{}
	}

	for _, p := range programs {
		l.logger.Debug("Program found", zap.String("path", p.Path), zap.String("kind", p.Kind))
	}
	l.metrics.SetProgramsListed(len(programs))

	return programs
}

// Scan walks dir one level deep and returns the executable regular files
// whose base name matches pattern, sorted by path.
func Scan(dir, pattern string) ([]types.Program, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDirectoryUnavailable, dir, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirectoryUnavailable, root)
	}

	var (
		mu       sync.Mutex
		programs = []types.Program{}
	)

	// fastwalk calls fn from several goroutines
	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, root, func(p string, d fs.DirEntry, err error) error {
		if p == root {
			// An unreadable root aborts the scan
			return err
		}
		if err != nil {
			return nil // Skip entries that vanished or cannot be read
		}
		if d.IsDir() {
			return filepath.SkipDir
		}

		if !isExecutable(p, d) {
			return nil
		}
		if matched, _ := doublestar.Match(pattern, d.Name()); !matched {
			return nil
		}

		entry := types.Program{
			Path: p,
			Name: d.Name(),
			Kind: sniffKind(p),
		}

		mu.Lock()
		programs = append(programs, entry)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	sort.Slice(programs, func(i, j int) bool {
		return programs[i].Path < programs[j].Path
	})

	return programs, nil
}

// isExecutable reports whether the entry resolves to a regular file with
// any execute bit set.
func isExecutable(path string, d fs.DirEntry) bool {
	var (
		info fs.FileInfo
		err  error
	)
	if d.Type()&fs.ModeSymlink != 0 {
		info, err = os.Stat(path)
	} else {
		info, err = d.Info()
	}
	if err != nil {
		return false
	}

	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}

func sniffKind(path string) string {
	mtype, err := mimetype.DetectFile(path)
	if err != nil || mtype == nil {
		return DefaultKind
	}
	return mtype.String()
}
