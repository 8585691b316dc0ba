package tui

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"plotview/internal/plot"
	"plotview/internal/view"
)

func TestBasisOrthonormal(t *testing.T) {
	tests := []struct {
		name string
		cam  camera
	}{
		{"chart default", defaultCamera()},
		{"looking down z", camera{up: r3.Vec{Y: 1}, eye: r3.Vec{Z: 2}}},
		{"up parallel to view", camera{up: r3.Vec{X: 1, Y: 1, Z: 1}, eye: r3.Vec{X: 1.25, Y: 1.25, Z: 1.25}}},
		{"zero up", camera{eye: r3.Vec{X: 1}}},
		{"eye on center", camera{up: r3.Vec{Z: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			right, up, fwd := tt.cam.basis()
			for _, v := range []r3.Vec{right, up, fwd} {
				require.False(t, math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z))
				assert.InDelta(t, 1, r3.Norm(v), 1e-9)
			}
			assert.InDelta(t, 0, r3.Dot(right, up), 1e-9)
			assert.InDelta(t, 0, r3.Dot(right, fwd), 1e-9)
			assert.InDelta(t, 0, r3.Dot(up, fwd), 1e-9)
		})
	}
}

func TestProjectAxes(t *testing.T) {
	cam := camera{up: r3.Vec{Y: 1}, eye: r3.Vec{Z: 2}}
	p := newProjector(cam, 81, 81)

	cx, cy := p.project(r3.Vec{})
	assert.Equal(t, 40, cx)
	assert.Equal(t, 40, cy)

	x, y := p.project(r3.Vec{X: 1})
	assert.Greater(t, x, cx)
	assert.Equal(t, cy, y)

	x, y = p.project(r3.Vec{Y: 1})
	assert.Equal(t, cx, x)
	assert.Less(t, y, cy)

	// depth does not move a point under orthographic projection
	x, y = p.project(r3.Vec{Z: -1})
	assert.Equal(t, cx, x)
	assert.Equal(t, cy, y)
}

func TestZoomScalesProjection(t *testing.T) {
	cam := camera{up: r3.Vec{Y: 1}, eye: r3.Vec{Z: 2}}
	near := cam.zoom(2)
	assert.InDelta(t, 1, r3.Norm(near.eye), 1e-9)

	x0, _ := newProjector(cam, 101, 101).project(r3.Vec{X: 0.5})
	x1, _ := newProjector(near, 101, 101).project(r3.Vec{X: 0.5})
	assert.Greater(t, x1, x0)

	far := cam.zoom(1e-6)
	assert.InDelta(t, 100, r3.Norm(far.eye), 1e-9)
	assert.Equal(t, cam, cam.zoom(0))
}

func TestOrbitKeepsDistance(t *testing.T) {
	cam := defaultCamera()
	d := r3.Norm(r3.Sub(cam.eye, cam.center))
	for i := 0; i < 50; i++ {
		cam = cam.orbit(0.1, 0.1)
		assert.InDelta(t, d, r3.Norm(r3.Sub(cam.eye, cam.center)), 1e-9)
	}
	// pitch never reaches the pole
	dir := r3.Unit(r3.Sub(cam.eye, cam.center))
	assert.Less(t, math.Abs(r3.Dot(dir, cam.upAxis())), 0.995)
}

func TestPanMovesEyeAndCenter(t *testing.T) {
	cam := camera{up: r3.Vec{Y: 1}, eye: r3.Vec{Z: 2}}
	moved := cam.pan(1, 0)
	assert.InDelta(t, 1, moved.center.X, 1e-9)
	assert.InDelta(t, 1, moved.eye.X, 1e-9)
	assert.InDelta(t, 2, moved.eye.Z, 1e-9)
}

func TestNormalizer(t *testing.T) {
	b := plot.Bounds{MinX: 0, MaxX: 10, MinY: -1, MaxY: 1, MinZ: 5, MaxZ: 5}

	n := newNormalizer(b, "auto")
	assert.Equal(t, r3.Vec{X: -1, Y: -1, Z: 0}, n.apply([3]float64{0, -1, 5}))
	assert.Equal(t, r3.Vec{X: 1, Y: 1, Z: 0}, n.apply([3]float64{10, 1, 5}))

	d := newNormalizer(b, "data")
	got := d.apply([3]float64{10, 1, 5})
	assert.InDelta(t, 1, got.X, 1e-9)
	assert.InDelta(t, 0.2, got.Y, 1e-9)
}

func TestBoxEdges(t *testing.T) {
	b := plot.Bounds{MinX: -1, MaxX: 1, MinY: -1, MaxY: 1, MinZ: -1, MaxZ: 1}
	edges := boxEdges(b, newNormalizer(b, "auto"))
	require.Len(t, edges, 12)
	for _, e := range edges {
		assert.InDelta(t, 2, r3.Norm(r3.Sub(e[0], e[1])), 1e-9)
	}
}

func TestPanelMergeLayout(t *testing.T) {
	p := &panel{id: "chart1"}
	zoom := "zoom"
	require.NoError(t, p.react(plot.Description{}, view.Options(view.State{DragMode: &zoom})))
	assert.Equal(t, defaultCamera(), p.camera())

	eye := view.Vec3{X: 3}
	require.NoError(t, p.react(plot.Description{}, view.RenderOptions{
		Scene: &view.Scene{Camera: &view.Camera{Eye: &eye}},
	}))
	cam := p.camera()
	assert.Equal(t, r3.Vec{X: 3}, cam.eye)
	assert.Equal(t, r3.Vec{Z: 1}, cam.up)
	assert.Equal(t, dragZoom, p.dragMode(), "unset fields keep the current value")
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"rgb(255, 128, 0)", "#ff8000", true},
		{"rgba(0,0,255,0.5)", "#0000ff", true},
		{"#F0C", "#ff00cc", true},
		{"#123456", "#123456", true},
		{"Red", "#ff0000", true},
		{"rgb(1,2)", "", false},
		{"chartreuse-ish", "", false},
		{"#zz0000", "", false},
	}
	for _, tt := range tests {
		got, ok := parseColor(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPalette(t *testing.T) {
	plain := plot.Trace{X: []float64{1}, Y: []float64{1}}
	assert.Equal(t, traceColors[0], newPalette(plain, 0).at(0))
	assert.Equal(t, traceColors[1], newPalette(plain, 11).at(0))

	per := plot.Trace{Marker: &plot.Marker{Color: plot.Colors{Values: []string{"rgb(0, 0, 0)", "bogus"}}}}
	assert.Equal(t, "#000000", newPalette(per, 0).at(0))
	assert.Equal(t, traceColors[2], newPalette(per, 2).at(1))

	scale := newPalette(plot.Trace{Marker: &plot.Marker{Color: plot.Colors{Scale: []float64{5, 7}}}}, 0)
	assert.Equal(t, "#440154", scale.at(0))
	assert.Equal(t, "#fde725", scale.at(1))
	assert.Equal(t, traceColors[0], scale.at(2))
}

func scaledTrace(n int) plot.Trace {
	t := plot.Trace{
		Type:   "scatter3d",
		X:      make([]float64, n),
		Y:      make([]float64, n),
		Z:      make([]float64, n),
		Marker: &plot.Marker{Color: plot.Colors{Scale: make([]float64, n)}},
	}
	for i := range n {
		f := float64(i)
		t.X[i], t.Y[i], t.Z[i] = math.Sin(f), math.Cos(f), f/float64(n)
		t.Marker.Color.Scale[i] = f
	}
	return t
}

func drawScaled(n int) *panel {
	d := plot.Description{Data: []plot.Trace{scaledTrace(n)}}
	p := &panel{id: "chart1"}
	if err := p.react(d, view.Options(view.Default())); err != nil {
		panic(err)
	}
	return p
}

// A color-scaled trace of 200k points draws in well under the time a per-point
// range scan would need (close to a minute at this size).
func TestDrawScaledTraceIsLinear(t *testing.T) {
	if testing.Short() {
		t.Skip("large trace")
	}
	p := drawScaled(200_000)
	start := time.Now()
	drawPlot(newBrailleBuf(80, 40), p, "")
	assert.Less(t, time.Since(start), 10*time.Second)
}

func BenchmarkDrawScaledTrace(b *testing.B) {
	for _, n := range []int{1_000, 10_000, 100_000} {
		p := drawScaled(n)
		b.Run(fmt.Sprint(n), func(b *testing.B) {
			br := newBrailleBuf(80, 40)
			for b.Loop() {
				drawPlot(br, p, "")
			}
		})
	}
}

func TestResetKeepsAspectMode(t *testing.T) {
	d, err := plot.Parse(scatter)
	require.NoError(t, err)
	p := &panel{id: "chart1"}
	aspect := "data"
	require.NoError(t, p.react(d, view.RenderOptions{Scene: &view.Scene{AspectMode: &aspect}}))
	p.setCamera(p.camera().orbit(0.5, 0.2))

	p.resetView()
	assert.Equal(t, "data", p.aspectMode())
	assert.Equal(t, view.Default().Scene.Camera, p.layout.Camera())

	empty := &panel{id: "chart2"}
	empty.resetView()
	assert.Equal(t, view.Default().Scene, empty.layout.Scene)
}

func TestBrailleBuf(t *testing.T) {
	b := newBrailleBuf(2, 1)
	b.setPixel(0, 0, "")
	b.setPixel(3, 3, "#ff0000")
	b.setPixel(-1, 0, "")
	b.setPixel(9, 9, "")
	lines := b.toLines()
	require.Len(t, lines, 1)
	assert.Equal(t, string([]rune{0x2801, 0x2880}), lines[0])
	assert.Equal(t, "#ff0000", b.c[0][1])

	b.drawLineMicro(0, 0, 3, 0, "")
	assert.Equal(t, uint8(0x09), b.m[0][0])
}

func TestDrawPlot(t *testing.T) {
	d, err := plot.Parse(scatter)
	require.NoError(t, err)
	p := &panel{id: "chart1"}
	require.NoError(t, p.react(d, view.Options(view.Default())))

	br := newBrailleBuf(40, 20)
	drawPlot(br, p, "#243141")
	out := strings.Join(br.toLines(), "")
	assert.NotEmpty(t, strings.TrimSpace(out))

	empty := newBrailleBuf(10, 5)
	drawPlot(empty, &panel{rendered: true}, "")
	assert.Empty(t, strings.TrimSpace(strings.Join(empty.toLines(), "")))
}
