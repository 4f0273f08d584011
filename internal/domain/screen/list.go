package screen

import (
	"errors"
	"fmt"
	"sync"

	"github.com/GriffinCanCode/demolauncher/internal/shared/types"
)

// ErrIndexOutOfRange means a selection does not name a list row
var ErrIndexOutOfRange = errors.New("index out of range")

// List is an ordered, immutable set of items rendered through a callback
type List[T any] struct {
	items  []T
	render func(T) string
}

// NewList copies items and pairs them with a row renderer
func NewList[T any](items []T, render func(T) string) *List[T] {
	copied := make([]T, len(items))
	copy(copied, items)

	return &List[T]{
		items:  copied,
		render: render,
	}
}

// Len returns the number of rows
func (l *List[T]) Len() int {
	return len(l.items)
}

// Item returns the item at index i
func (l *List[T]) Item(i int) (T, error) {
	if i < 0 || i >= len(l.items) {
		var zero T
		return zero, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(l.items))
	}
	return l.items[i], nil
}

// Rows renders every item
func (l *List[T]) Rows() []string {
	rows := make([]string, len(l.items))
	for i, item := range l.items {
		rows[i] = l.render(item)
	}
	return rows
}

// ProgramLister produces the programs shown by a list screen
type ProgramLister interface {
	List() []types.Program
}

// RenderProgram labels a row with the program's base name
func RenderProgram(p types.Program) string {
	return p.Name
}

// ListScreen shows the launchable programs and turns a selection into extras.
// Selections resolve against the most recent scan.
type ListScreen struct {
	lister ProgramLister

	mu   sync.RWMutex
	list *List[types.Program]
}

// NewListScreen creates a list screen and performs the first scan
func NewListScreen(lister ProgramLister) *ListScreen {
	s := &ListScreen{lister: lister}
	s.Load()
	return s
}

// Load rescans the programs directory
func (s *ListScreen) Load() *List[types.Program] {
	list := NewList(s.lister.List(), RenderProgram)

	s.mu.Lock()
	s.list = list
	s.mu.Unlock()
	return list
}

// List returns the list from the last scan
func (s *ListScreen) List() *List[types.Program] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list
}

// Rows returns the rendered rows together with their programs
func (s *ListScreen) Rows() []types.ProgramRow {
	list := s.List()
	labels := list.Rows()
	rows := make([]types.ProgramRow, len(labels))
	for i, label := range labels {
		program, _ := list.Item(i)
		rows[i] = types.ProgramRow{
			Index:   i,
			Label:   label,
			Program: program,
		}
	}
	return rows
}

// Select maps a row index to the extras for a run screen
func (s *ListScreen) Select(index int) (Extras, error) {
	program, err := s.List().Item(index)
	if err != nil {
		return nil, err
	}
	return ProgramExtras(program.Path), nil
}
