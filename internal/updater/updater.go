// Package updater pushes a new serialized plot into a chart element while keeping
// the view the user has set up on that element.
package updater

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"plotview/internal/plot"
	"plotview/internal/view"
)

// ErrElementNotFound is returned under strict lookup when the target element does
// not exist.
var ErrElementNotFound = errors.New("element not found")

// Element is a chart host located by identifier.
type Element interface {
	// Layout returns the view state attached by a previous render, if any.
	Layout() (view.State, bool)
}

// Document resolves element identifiers.
type Document interface {
	Element(id string) (Element, bool)
}

// Renderer redraws an element in place. React returns once the draw has been
// carried out or has failed.
type Renderer interface {
	React(ctx context.Context, elementID string, p plot.Description, opts view.RenderOptions) error
}

// Updater merges view state and forwards plots to a Renderer. It holds no state
// of its own between calls.
type Updater struct {
	doc      Document
	renderer Renderer
	strict   bool
	log      *log.Logger
}

// Option configures the Updater.
type Option func(*Updater)

// WithStrictLookup makes a missing element an error instead of a first render.
func WithStrictLookup() Option {
	return func(u *Updater) {
		u.strict = true
	}
}

func WithLogger(l *log.Logger) Option {
	return func(u *Updater) {
		u.log = l
	}
}

func New(doc Document, r Renderer, opts ...Option) *Updater {
	u := &Updater{
		doc:      doc,
		renderer: r,
		log:      log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Update renders serializedPlot into the element. Input that is not valid JSON
// fails with a *plot.ParseError before anything is drawn. Whether valid JSON is a
// drawable plot is the renderer's call; its errors are returned as is.
func (u *Updater) Update(ctx context.Context, elementID, serializedPlot string) error {
	src, err := u.source(elementID)
	if err != nil {
		return err
	}
	p, err := plot.Parse(serializedPlot)
	if err != nil {
		return err
	}
	return u.renderer.React(ctx, elementID, p, view.Options(src))
}

// Options returns the render options the next Update of elementID would use.
func (u *Updater) Options(elementID string) (view.RenderOptions, error) {
	src, err := u.source(elementID)
	if err != nil {
		return view.RenderOptions{}, err
	}
	return view.Options(src), nil
}

func (u *Updater) source(elementID string) (view.State, error) {
	el, ok := u.doc.Element(elementID)
	if !ok {
		if u.strict {
			return view.State{}, fmt.Errorf("%w: %q", ErrElementNotFound, elementID)
		}
		u.log.Printf("element %q not found, using default view", elementID)
		return view.Default(), nil
	}
	if st, ok := el.Layout(); ok {
		return st, nil
	}
	return view.Default(), nil
}
