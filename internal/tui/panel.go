package tui

import (
	"fmt"

	"plotview/internal/plot"
	"plotview/internal/view"
)

// SchemaError reports a plot the chart cannot draw. The panel keeps its last
// successful render.
type SchemaError struct {
	// Trace is the offending trace, or -1 when the plot as a whole is at fault.
	Trace  int
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Trace < 0 {
		return "plot: " + e.Reason
	}
	return fmt.Sprintf("trace %d: %s", e.Trace, e.Reason)
}

// panel is one mounted chart element.
type panel struct {
	id       string
	plot     plot.Description
	bounds   plot.Bounds
	hasData  bool
	rendered bool
	// layout is the view state as last set by a render or by the user.
	layout view.State
}

func validate(p plot.Description) error {
	if p.Mismatch != nil {
		return &SchemaError{Trace: -1, Reason: p.Mismatch.Error()}
	}
	for i, t := range p.Data {
		switch t.Type {
		case "", "scatter", "scatter3d":
		default:
			return &SchemaError{Trace: i, Reason: fmt.Sprintf("unsupported trace type %q", t.Type)}
		}
		if len(t.Y) != len(t.X) {
			return &SchemaError{Trace: i, Reason: fmt.Sprintf("x has %d values, y has %d", len(t.X), len(t.Y))}
		}
		if t.Type == "scatter3d" && len(t.Z) != len(t.X) {
			return &SchemaError{Trace: i, Reason: fmt.Sprintf("x has %d values, z has %d", len(t.X), len(t.Z))}
		}
	}
	return nil
}

// react replaces the plot and merges opts into the panel layout. Fields set in
// opts win; fields left unset keep the panel's current value.
func (p *panel) react(d plot.Description, opts view.RenderOptions) error {
	if err := validate(d); err != nil {
		return err
	}
	p.plot = d
	p.bounds, p.hasData = d.Bounds()
	p.layout = mergeLayout(p.layout, view.State(opts))
	p.rendered = true
	return nil
}

func mergeLayout(cur, over view.State) view.State {
	out := cur.Clone()
	over = over.Clone()
	if over.ShowLegend != nil {
		out.ShowLegend = over.ShowLegend
	}
	if over.DragMode != nil {
		out.DragMode = over.DragMode
	}
	if over.Width != nil {
		out.Width = over.Width
	}
	if over.Height != nil {
		out.Height = over.Height
	}
	if over.Scene == nil {
		return out
	}
	if out.Scene == nil {
		out.Scene = &view.Scene{}
	}
	if over.Scene.AspectMode != nil {
		out.Scene.AspectMode = over.Scene.AspectMode
	}
	if c := over.Scene.Camera; c != nil {
		if out.Scene.Camera == nil {
			out.Scene.Camera = &view.Camera{}
		}
		if c.Up != nil {
			out.Scene.Camera.Up = c.Up
		}
		if c.Eye != nil {
			out.Scene.Camera.Eye = c.Eye
		}
		if c.Center != nil {
			out.Scene.Camera.Center = c.Center
		}
	}
	return out
}

// camera returns the effective camera, filling unset fields with the chart defaults.
func (p *panel) camera() camera {
	cam := defaultCamera()
	if c := p.layout.Camera(); c != nil {
		if c.Up != nil {
			cam.up = vec(*c.Up)
		}
		if c.Eye != nil {
			cam.eye = vec(*c.Eye)
		}
		if c.Center != nil {
			cam.center = vec(*c.Center)
		}
	}
	return cam
}

// setCamera records a user-adjusted camera in full.
func (p *panel) setCamera(cam camera) {
	if p.layout.Scene == nil {
		p.layout.Scene = &view.Scene{}
	}
	up, eye, center := toView(cam.up), toView(cam.eye), toView(cam.center)
	p.layout.Scene.Camera = &view.Camera{Up: &up, Eye: &eye, Center: &center}
}

// resetView drops user camera adjustments and returns to the first-render camera.
// Other scene settings are kept.
func (p *panel) resetView() {
	if p.layout.Scene == nil {
		p.layout.Scene = &view.Scene{}
	}
	p.layout.Scene.Camera = view.Default().Scene.Camera
}

func (p *panel) dragMode() string {
	if p.layout.DragMode == nil {
		return dragOrbit
	}
	return *p.layout.DragMode
}

func (p *panel) aspectMode() string {
	if p.layout.Scene == nil || p.layout.Scene.AspectMode == nil {
		return "auto"
	}
	return *p.layout.Scene.AspectMode
}

const (
	dragOrbit = "orbit"
	dragZoom  = "zoom"
	dragPan   = "pan"
)

var dragModes = []string{dragOrbit, dragZoom, dragPan}

func (p *panel) cycleDragMode() string {
	next := dragModes[0]
	for i, m := range dragModes {
		if m == p.dragMode() {
			next = dragModes[(i+1)%len(dragModes)]
		}
	}
	p.layout.DragMode = &next
	return next
}
