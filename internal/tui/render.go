package tui

import (
	"fmt"
	"strings"
)

// renderCanvas draws a panel's plot at w x h cells.
func (m Model) renderCanvas(p *panel, w, h int) string {
	if p == nil {
		return dimStyle.Render("no chart elements mounted")
	}
	if !p.rendered {
		return dimStyle.Render(fmt.Sprintf("%s: waiting for a plot", p.id))
	}
	br := newBrailleBuf(w, h)
	drawPlot(br, p, m.styles.axis)
	return strings.Join(br.toStyledLines(), "\n")
}

// drawPlot projects the data box and every marker through the panel camera.
func drawPlot(br *brailleBuf, p *panel, axisColor string) {
	if !p.hasData {
		return
	}
	proj := newProjector(p.camera(), br.w*2, br.h*4)
	norm := newNormalizer(p.bounds, p.aspectMode())

	for _, e := range boxEdges(p.bounds, norm) {
		x0, y0 := proj.project(e[0])
		x1, y1 := proj.project(e[1])
		br.drawLineMicro(x0, y0, x1, y1, axisColor)
	}
	for ti, t := range p.plot.Data {
		lines := strings.Contains(t.Mode, "lines")
		pal := newPalette(t, ti)
		var prevX, prevY int
		for i := 0; i < t.Len(); i++ {
			mx, my := proj.project(norm.apply(t.Point(i)))
			color := pal.at(i)
			if lines && i > 0 {
				br.drawLineMicro(prevX, prevY, mx, my, color)
			} else {
				br.setPixel(mx, my, color)
			}
			prevX, prevY = mx, my
		}
	}
}

// inspect summarizes the focused panel for the popup.
func (m Model) inspect(p *panel) string {
	cam := p.camera()
	meta := []string{
		fmt.Sprintf("element: %s", p.id),
		fmt.Sprintf("traces: %d  points: %d", len(p.plot.Data), p.plot.Points()),
	}
	if p.hasData {
		b := p.bounds
		meta = append(meta,
			fmt.Sprintf("x: [%.4g, %.4g]", b.MinX, b.MaxX),
			fmt.Sprintf("y: [%.4g, %.4g]", b.MinY, b.MaxY),
			fmt.Sprintf("z: [%.4g, %.4g]", b.MinZ, b.MaxZ),
		)
	}
	meta = append(meta,
		fmt.Sprintf("eye: (%.2f, %.2f, %.2f)", cam.eye.X, cam.eye.Y, cam.eye.Z),
		fmt.Sprintf("up: (%.2f, %.2f, %.2f)", cam.up.X, cam.up.Y, cam.up.Z),
		fmt.Sprintf("center: (%.2f, %.2f, %.2f)", cam.center.X, cam.center.Y, cam.center.Z),
		fmt.Sprintf("dragmode: %s  aspect: %s", p.dragMode(), p.aspectMode()),
	)
	if m.selPath != "" {
		meta = append(meta, "last file: "+m.selPath)
	}
	return strings.Join(meta, "\n")
}
