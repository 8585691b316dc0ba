// Package plot decodes the serialized plot descriptions pushed into a chart.
package plot

import "encoding/json"

// Description is the data and shape of a chart. Layout keys are kept as decoded;
// the view-related part of a layout is supplied separately at render time.
type Description struct {
	Data   []Trace        `json:"data"`
	Layout map[string]any `json:"layout,omitempty"`

	// Raw is the plot as received.
	Raw json.RawMessage `json:"-"`
	// Mismatch is set when Raw is valid JSON that Data and Layout cannot hold.
	// Data and Layout are then empty.
	Mismatch error `json:"-"`
}

// Trace is one series. Keys this package does not know about are ignored.
type Trace struct {
	Type   string    `json:"type,omitempty"`
	Mode   string    `json:"mode,omitempty"`
	Name   string    `json:"name,omitempty"`
	X      []float64 `json:"x,omitempty"`
	Y      []float64 `json:"y,omitempty"`
	Z      []float64 `json:"z,omitempty"`
	Marker *Marker   `json:"marker,omitempty"`
}

type Marker struct {
	Color Colors `json:"color,omitzero"`
}

// Bounds is the axis-aligned box around a set of points.
type Bounds struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

// Len is the number of points in the trace, taken from the x column.
func (t Trace) Len() int { return len(t.X) }

// Point returns the i-th point; a missing z column reads as 0.
func (t Trace) Point(i int) [3]float64 {
	p := [3]float64{t.X[i], t.Y[i], 0}
	if i < len(t.Z) {
		p[2] = t.Z[i]
	}
	return p
}

// Bounds returns the box around every point of every trace. ok is false when the
// description has no points.
func (d Description) Bounds() (b Bounds, ok bool) {
	n := 0
	for _, t := range d.Data {
		for i := 0; i < t.Len() && i < len(t.Y); i++ {
			p := t.Point(i)
			if n == 0 {
				b = Bounds{MinX: p[0], MinY: p[1], MinZ: p[2], MaxX: p[0], MaxY: p[1], MaxZ: p[2]}
			} else {
				b.MinX, b.MaxX = minmax(b.MinX, b.MaxX, p[0])
				b.MinY, b.MaxY = minmax(b.MinY, b.MaxY, p[1])
				b.MinZ, b.MaxZ = minmax(b.MinZ, b.MaxZ, p[2])
			}
			n++
		}
	}
	return b, n > 0
}

func minmax(lo, hi, v float64) (float64, float64) {
	if v < lo {
		lo = v
	}
	if v > hi {
		hi = v
	}
	return lo, hi
}

// Points counts the points across all traces.
func (d Description) Points() int {
	n := 0
	for _, t := range d.Data {
		n += t.Len()
	}
	return n
}
