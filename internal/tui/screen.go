package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"plotview/internal/plot"
	"plotview/internal/updater"
	"plotview/internal/view"
)

var (
	// ErrNoSuchElement is returned when a render targets an element that is not mounted.
	ErrNoSuchElement = errors.New("no such element")
	// ErrClosed is returned when the program has exited before the render ran.
	ErrClosed = errors.New("screen closed")
)

type sender interface {
	Send(msg tea.Msg)
}

// Screen hosts chart elements in a terminal program. It resolves elements for the
// updater, renders into them, and keeps each element's view state in a side table.
type Screen struct {
	store *view.Store
	reg   *registry

	prog      sender
	ready     chan struct{}
	readyOnce sync.Once
	closed    chan struct{}
	closeOnce sync.Once
}

func NewScreen(store *view.Store) *Screen {
	return &Screen{
		store:  store,
		reg:    &registry{},
		ready:  make(chan struct{}),
		closed: make(chan struct{}),
	}
}

// Mount adds an element. Mounting an existing id is a no-op.
func (s *Screen) Mount(id string) {
	if s.reg.add(id) {
		s.notify()
	}
}

// Unmount removes an element and forgets its view state.
func (s *Screen) Unmount(id string) {
	if !s.reg.remove(id) {
		return
	}
	s.store.Delete(id)
	s.notify()
}

// notify asks a running program to match its tabs to the mounted elements.
// Before the program starts, the model catches up in Init.
func (s *Screen) notify() {
	select {
	case <-s.ready:
		s.prog.Send(syncMsg{})
	default:
	}
}

// Elements lists mounted element ids in mount order.
func (s *Screen) Elements() []string { return s.reg.list() }

// Element implements updater.Document.
func (s *Screen) Element(id string) (updater.Element, bool) {
	if !s.reg.has(id) {
		return nil, false
	}
	return element{id: id, store: s.store}, true
}

// React implements updater.Renderer. It waits until the program has drawn the
// update, the program exits, or ctx is done. A render that has been handed to the
// program is not withdrawn when ctx ends.
func (s *Screen) React(ctx context.Context, id string, p plot.Description, opts view.RenderOptions) error {
	if !s.reg.has(id) {
		return fmt.Errorf("%w: %q", ErrNoSuchElement, id)
	}
	select {
	case <-s.ready:
	case <-s.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	done := make(chan error, 1)
	s.prog.Send(reactMsg{id: id, plot: p, opts: opts, done: done})
	select {
	case err := <-done:
		return err
	case <-s.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run starts the terminal program with m and blocks until it exits.
func (s *Screen) Run(m Model, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(m, opts...)
	s.attach(p)
	defer s.Close()
	_, err := p.Run()
	return err
}

// Close releases callers still waiting in React.
func (s *Screen) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

func (s *Screen) attach(p sender) {
	s.readyOnce.Do(func() {
		s.prog = p
		close(s.ready)
	})
}

type element struct {
	id    string
	store *view.Store
}

func (e element) Layout() (view.State, bool) { return e.store.Get(e.id) }

type registry struct {
	mu  sync.RWMutex
	ids []string
}

func (r *registry) add(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.ids {
		if x == id {
			return false
		}
	}
	r.ids = append(r.ids, id)
	return true
}

func (r *registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, x := range r.ids {
		if x == id {
			r.ids = append(r.ids[:i], r.ids[i+1:]...)
			return true
		}
	}
	return false
}

func (r *registry) has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, x := range r.ids {
		if x == id {
			return true
		}
	}
	return false
}

func (r *registry) list() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

type reactMsg struct {
	id   string
	plot plot.Description
	opts view.RenderOptions
	done chan<- error
}

// syncMsg tells the model the set of mounted elements changed.
type syncMsg struct{}
