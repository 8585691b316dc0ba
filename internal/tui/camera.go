package tui

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"plotview/internal/plot"
	"plotview/internal/view"
)

const eps = 1e-9

// camera is a fully specified scene camera.
type camera struct {
	up, eye, center r3.Vec
}

func defaultCamera() camera {
	return camera{
		up:     r3.Vec{Z: 1},
		eye:    r3.Vec{X: 1.25, Y: 1.25, Z: 1.25},
		center: r3.Vec{},
	}
}

var defaultDistance = r3.Norm(defaultCamera().eye)

func vec(v view.Vec3) r3.Vec     { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }
func toView(v r3.Vec) view.Vec3 { return view.Vec3{X: v.X, Y: v.Y, Z: v.Z} }

func (c camera) upAxis() r3.Vec {
	if r3.Norm(c.up) < eps {
		return r3.Vec{Z: 1}
	}
	return r3.Unit(c.up)
}

// basis returns the screen axes and viewing direction. When up is parallel to
// the viewing direction a fixed world axis stands in for it.
func (c camera) basis() (right, up, fwd r3.Vec) {
	look := r3.Sub(c.center, c.eye)
	if r3.Norm(look) < eps {
		look = r3.Vec{X: -1, Y: -1, Z: -1}
	}
	fwd = r3.Unit(look)
	right = r3.Cross(fwd, c.upAxis())
	for _, alt := range []r3.Vec{{Z: 1}, {Y: 1}, {X: 1}} {
		if r3.Norm(right) > eps {
			break
		}
		right = r3.Cross(fwd, alt)
	}
	right = r3.Unit(right)
	up = r3.Cross(right, fwd)
	return right, up, fwd
}

// orbit turns the eye around the center: yaw about the up axis, pitch about the
// screen's horizontal axis. Pitch stops short of the poles.
func (c camera) orbit(yaw, pitch float64) camera {
	upn := c.upAxis()
	off := r3.Sub(c.eye, c.center)
	if r3.Norm(off) < eps {
		off = r3.Sub(defaultCamera().eye, defaultCamera().center)
	}
	off = r3.Rotate(off, yaw, upn)
	if pitch != 0 {
		if axis := r3.Cross(off, upn); r3.Norm(axis) > eps {
			cand := r3.Rotate(off, pitch, r3.Unit(axis))
			if math.Abs(r3.Dot(r3.Unit(cand), upn)) < 0.995 {
				off = cand
			}
		}
	}
	c.eye = r3.Add(c.center, off)
	return c
}

// zoom moves the eye towards the center by factor, within sane distances.
func (c camera) zoom(factor float64) camera {
	if factor <= 0 {
		return c
	}
	off := r3.Sub(c.eye, c.center)
	d := r3.Norm(off)
	if d < eps {
		return c
	}
	nd := math.Min(math.Max(d/factor, 0.05), 100)
	c.eye = r3.Add(c.center, r3.Scale(nd/d, off))
	return c
}

// pan shifts eye and center along the screen axes.
func (c camera) pan(dx, dy float64) camera {
	right, up, _ := c.basis()
	shift := r3.Add(r3.Scale(dx, right), r3.Scale(dy, up))
	c.eye = r3.Add(c.eye, shift)
	c.center = r3.Add(c.center, shift)
	return c
}

// projector maps scene coordinates onto a micro-pixel grid.
type projector struct {
	center    r3.Vec
	right, up r3.Vec
	scale     float64
	cx, cy    float64
}

func newProjector(c camera, wMic, hMic int) projector {
	right, up, _ := c.basis()
	d := r3.Norm(r3.Sub(c.eye, c.center))
	if d < eps {
		d = defaultDistance
	}
	span := float64(min(wMic, hMic) - 1)
	// the unit cube's diagonal fills the shorter side at the default distance
	s := span / 2 / math.Sqrt(3) * defaultDistance / d
	return projector{
		center: c.center,
		right:  right,
		up:     up,
		scale:  s,
		cx:     float64(wMic-1) / 2,
		cy:     float64(hMic-1) / 2,
	}
}

func (p projector) project(v r3.Vec) (int, int) {
	rel := r3.Sub(v, p.center)
	x := p.cx + r3.Dot(rel, p.right)*p.scale
	y := p.cy - r3.Dot(rel, p.up)*p.scale
	return int(math.Round(x)), int(math.Round(y))
}

// normalizer maps data coordinates into the scene cube [-1,1]^3. With aspect
// mode "data" all axes share one scale; otherwise each axis is stretched.
type normalizer struct {
	mid  [3]float64
	half [3]float64
}

func newNormalizer(b plot.Bounds, aspect string) normalizer {
	lo := [3]float64{b.MinX, b.MinY, b.MinZ}
	hi := [3]float64{b.MaxX, b.MaxY, b.MaxZ}
	var n normalizer
	widest := 0.0
	for i := range lo {
		n.mid[i] = (lo[i] + hi[i]) / 2
		n.half[i] = (hi[i] - lo[i]) / 2
		widest = math.Max(widest, n.half[i])
	}
	if aspect == "data" {
		for i := range n.half {
			n.half[i] = widest
		}
	}
	return n
}

func (n normalizer) apply(p [3]float64) r3.Vec {
	var out [3]float64
	for i := range p {
		if n.half[i] > eps {
			out[i] = (p[i] - n.mid[i]) / n.half[i]
		}
	}
	return r3.Vec{X: out[0], Y: out[1], Z: out[2]}
}

// boxEdges returns the twelve edges of the data box in scene coordinates.
func boxEdges(b plot.Bounds, n normalizer) [][2]r3.Vec {
	var corners [8]r3.Vec
	for i := range corners {
		p := [3]float64{b.MinX, b.MinY, b.MinZ}
		if i&1 != 0 {
			p[0] = b.MaxX
		}
		if i&2 != 0 {
			p[1] = b.MaxY
		}
		if i&4 != 0 {
			p[2] = b.MaxZ
		}
		corners[i] = n.apply(p)
	}
	var edges [][2]r3.Vec
	for i := range corners {
		for _, bit := range []int{1, 2, 4} {
			if i&bit == 0 {
				edges = append(edges, [2]r3.Vec{corners[i], corners[i|bit]})
			}
		}
	}
	return edges
}
