package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"

	"plotview/internal/plot"
)

// refreshTraces rebuilds the trace table from the focused panel.
func (m *Model) refreshTraces() {
	p := m.focused()
	if p == nil || !p.rendered || len(p.plot.Data) == 0 {
		// Do not touch table internals here to avoid re-render during SetColumns
		m.showTraces = false
		m.status = "no traces for current chart"
		return
	}
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "name", Width: 16},
		{Title: "type", Width: 10},
		{Title: "mode", Width: 14},
		{Title: "points", Width: 8},
		{Title: "color", Width: 10},
	}
	rows := make([]table.Row, 0, len(p.plot.Data))
	for i, t := range p.plot.Data {
		rows = append(rows, traceRow(i, t))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
}

func traceRow(i int, t plot.Trace) table.Row {
	typ := t.Type
	if typ == "" {
		typ = "scatter"
	}
	mode := t.Mode
	if mode == "" {
		mode = "markers"
	}
	color := "per-point"
	switch {
	case t.Marker == nil || t.Marker.Color.IsZero():
		color = traceColors[i%len(traceColors)]
	case len(t.Marker.Color.Values) == 1:
		color = t.Marker.Color.Values[0]
	case len(t.Marker.Color.Scale) > 0:
		color = "scale"
	}
	return table.Row{
		fmt.Sprintf("%d", i+1),
		t.Name,
		typ,
		mode,
		fmt.Sprintf("%d", t.Len()),
		color,
	}
}
