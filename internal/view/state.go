// Package view holds the retained visual configuration of a chart element and the
// rules for turning it into the options of a render call.
package view

// Vec3 is a point or direction in scene space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Camera positions the viewer of a 3D scene. Unset fields keep whatever the
// renderer currently uses.
type Camera struct {
	Up     *Vec3 `json:"up,omitempty"`
	Eye    *Vec3 `json:"eye,omitempty"`
	Center *Vec3 `json:"center,omitempty"`
}

type Scene struct {
	Camera     *Camera `json:"camera,omitempty"`
	AspectMode *string `json:"aspectmode,omitempty"`
}

// State is the view configuration of a rendered chart: camera, drag mode, size.
// Every field is optional; nil means "not specified".
type State struct {
	ShowLegend *bool   `json:"showlegend,omitempty"`
	DragMode   *string `json:"dragmode,omitempty"`
	Width      *int    `json:"width,omitempty"`
	Height     *int    `json:"height,omitempty"`
	Scene      *Scene  `json:"scene,omitempty"`
}

// RenderOptions is the configuration handed to a render call.
type RenderOptions State

// Default returns the view applied to an element that has never been rendered:
// an isometric-style camera with equal unit offsets on all three axes.
func Default() State {
	return State{
		Scene: &Scene{
			Camera: &Camera{
				Up: &Vec3{X: 1, Y: 1, Z: 1},
			},
		},
	}
}

// Options builds render options from a view source. The legend is always
// disabled, whatever the source says.
func Options(src State) RenderOptions {
	opts := RenderOptions(src.Clone())
	opts.ShowLegend = ptr(false)
	return opts
}

// Camera returns the scene camera or nil.
func (s State) Camera() *Camera {
	if s.Scene == nil {
		return nil
	}
	return s.Scene.Camera
}

// Camera returns the scene camera or nil.
func (o RenderOptions) Camera() *Camera {
	return State(o).Camera()
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{
		ShowLegend: clonePtr(s.ShowLegend),
		DragMode:   clonePtr(s.DragMode),
		Width:      clonePtr(s.Width),
		Height:     clonePtr(s.Height),
	}
	if s.Scene != nil {
		sc := &Scene{AspectMode: clonePtr(s.Scene.AspectMode)}
		if c := s.Scene.Camera; c != nil {
			sc.Camera = &Camera{
				Up:     clonePtr(c.Up),
				Eye:    clonePtr(c.Eye),
				Center: clonePtr(c.Center),
			}
		}
		out.Scene = sc
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func ptr[T any](v T) *T { return &v }
