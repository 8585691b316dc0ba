package tui

import (
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"plotview/internal/plot"
)

// traceColors is the default colorway cycled over traces without marker colors.
var traceColors = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

var namedColors = map[string]string{
	"black": "#000000", "white": "#ffffff", "red": "#ff0000", "green": "#008000",
	"blue": "#0000ff", "yellow": "#ffff00", "orange": "#ffa500", "purple": "#800080",
	"gray": "#808080", "grey": "#808080", "cyan": "#00ffff", "magenta": "#ff00ff",
}

var (
	scaleLow  = colorful.Color{R: 0x44 / 255.0, G: 0x01 / 255.0, B: 0x54 / 255.0}
	scaleHigh = colorful.Color{R: 0xFD / 255.0, G: 0xE7 / 255.0, B: 0x25 / 255.0}
)

// palette colors the points of one trace. The range of a numeric color scale is
// taken once per trace, so coloring a frame stays linear in the point count.
type palette struct {
	colors   plot.Colors
	fallback string
	lo, hi   float64
	scaled   bool
}

func newPalette(t plot.Trace, ti int) palette {
	p := palette{fallback: traceColors[ti%len(traceColors)]}
	if t.Marker != nil {
		p.colors = t.Marker.Color
		p.lo, p.hi, p.scaled = p.colors.Range()
	}
	return p
}

// at picks the terminal color of point i.
func (p palette) at(i int) string {
	if s, ok := p.colors.At(i); ok {
		if hex, ok := parseColor(s); ok {
			return hex
		}
	}
	if p.scaled && i >= 0 && i < len(p.colors.Scale) {
		v := plot.Normalize(p.colors.Scale[i], p.lo, p.hi)
		return scaleLow.BlendLab(scaleHigh, v).Clamped().Hex()
	}
	return p.fallback
}

// parseColor accepts #rgb, #rrggbb, rgb(r, g, b), rgba(r, g, b, a) and a few
// color names, and returns #rrggbb.
func parseColor(s string) (string, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if hex, ok := namedColors[s]; ok {
		return hex, true
	}
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return "", false
		}
		return c.Hex(), true
	}
	var body string
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		body = s[len("rgba(") : len(s)-1]
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		body = s[len("rgb(") : len(s)-1]
	default:
		return "", false
	}
	parts := strings.Split(body, ",")
	if len(parts) < 3 {
		return "", false
	}
	var rgb [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return "", false
		}
		rgb[i] = v / 255
	}
	return colorful.Color{R: rgb[0], G: rgb[1], B: rgb[2]}.Clamped().Hex(), true
}
