package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r3"

	"plotview/internal/plot"
)

// loadedMsg reports the outcome of a plot loaded from the UI.
type loadedMsg struct {
	id     string
	source string
	err    error
}

const (
	sidebarWidth = 28
	headerHeight = 2 // title + element tabs
	footerHeight = 2
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, m.height-headerHeight-2) // provisional; will be refined in View
		}
	case reactMsg:
		m.handleReact(msg)
		return m, nil
	case syncMsg:
		m.sync()
		return m, nil
	case loadedMsg:
		m.status = loadStatus(msg)
		return m, nil
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			switch msg.String() {
			case "esc":
				m.pasteMode = false
				m.ta.Blur()
				m.status = "view mode"
				return m, nil
			case "ctrl+s":
				payload := strings.TrimSpace(m.ta.Value())
				if payload == "" {
					m.status = "paste: empty"
					return m, nil
				}
				p := m.focused()
				if p == nil {
					m.status = "paste: no chart element"
					return m, nil
				}
				m.pasteMode = false
				m.ta.Blur()
				m.status = "rendering pasted plot"
				return m, m.loadCmd(p.id, "paste", func() (string, error) { return payload, nil })
			}
			var cmd tea.Cmd
			m.ta, cmd = m.ta.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "+", "=":
			m.adjust(func(c camera) camera { return c.zoom(m.settings.ZoomStep) }, "zoom in")
		case "-", "_":
			m.adjust(func(c camera) camera { return c.zoom(1 / m.settings.ZoomStep) }, "zoom out")
		case "0":
			if p := m.focused(); p != nil && p.rendered {
				p.resetView()
				m.record(p)
				m.status = "view reset"
			}
		case "d":
			if p := m.focused(); p != nil && p.rendered {
				mode := p.cycleDragMode()
				m.record(p)
				m.status = "dragmode: " + mode
			}
		case "[":
			if len(m.order) > 0 {
				m.focus = (m.focus - 1 + len(m.order)) % len(m.order)
				m.afterFocus()
			}
		case "]":
			if len(m.order) > 0 {
				m.focus = (m.focus + 1) % len(m.order)
				m.afterFocus()
			}
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
				m.l.SetSize(sidebarWidth-2, m.height-headerHeight-2)
			}
		case "p":
			m.pasteMode = true
			m.ta.SetValue("")
			m.status = "paste mode"
			m.ta.Focus()
			return m, nil
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showTraces = !m.showTraces
			if m.showTraces {
				m.refreshTraces()
			}
		case "i":
			if m.inspectPopup != "" {
				m.inspectPopup = ""
			} else if p := m.focused(); p != nil && p.rendered {
				m.inspectPopup = m.inspect(p)
				m.status = "inspect popup"
			} else {
				m.status = "nothing to inspect"
			}
		case "esc":
			m.inspectPopup = ""
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					if p := m.focused(); p != nil {
						m.selPath = it.path
						path := it.path
						return m, m.loadCmd(p.id, filepath.Base(path), func() (string, error) {
							b, err := os.ReadFile(path)
							return string(b), err
						})
					}
					m.status = "open: no chart element"
				}
			}
		case "left", "right", "up", "down":
			if m.showSidebar {
				break
			}
			step := m.settings.RotateStep
			yaw, pitch := 0.0, 0.0
			switch msg.String() {
			case "left":
				yaw = step
			case "right":
				yaw = -step
			case "up":
				pitch = step
			case "down":
				pitch = -step
			}
			m.adjust(func(c camera) camera { return c.orbit(yaw, pitch) }, "orbit")
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleReact(msg reactMsg) {
	p, ok := m.panels[msg.id]
	if !ok || !m.screen.reg.has(msg.id) {
		m.sync()
		p, ok = m.panels[msg.id]
	}
	if !ok {
		msg.done <- fmt.Errorf("%w: %q", ErrNoSuchElement, msg.id)
		return
	}
	if err := p.react(msg.plot, msg.opts); err != nil {
		m.status = fmt.Sprintf("%s: render failed: %v", msg.id, err)
		msg.done <- err
		return
	}
	m.record(p)
	m.status = fmt.Sprintf("%s: %d traces, %d points", p.id, len(p.plot.Data), p.plot.Points())
	if m.showTraces && m.focused() == p {
		m.refreshTraces()
	}
	msg.done <- nil
}

// adjust applies a camera change to the focused panel and records it.
func (m *Model) adjust(f func(camera) camera, what string) {
	p := m.focused()
	if p == nil || !p.rendered {
		return
	}
	cam := f(p.camera())
	p.setCamera(cam)
	m.record(p)
	m.status = fmt.Sprintf("%s  distance: %.2f", what, r3.Norm(r3.Sub(cam.eye, cam.center)))
}

func (m *Model) afterFocus() {
	m.inspectPopup = ""
	if m.showTraces {
		m.refreshTraces()
	}
	if p := m.focused(); p != nil {
		m.status = "focus: " + p.id
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.adjust(func(c camera) camera { return c.zoom(m.settings.ZoomStep) }, "zoom in")
	case msg.Button == tea.MouseButtonWheelDown:
		m.adjust(func(c camera) camera { return c.zoom(1 / m.settings.ZoomStep) }, "zoom out")
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if m.inCanvas(msg.X, msg.Y) {
			m.dragging = true
			m.dragX, m.dragY = msg.X, msg.Y
		}
	case msg.Action == tea.MouseActionMotion && m.dragging:
		dx, dy := msg.X-m.dragX, msg.Y-m.dragY
		m.dragX, m.dragY = msg.X, msg.Y
		if dx == 0 && dy == 0 {
			return
		}
		p := m.focused()
		if p == nil {
			return
		}
		step := m.settings.RotateStep
		switch p.dragMode() {
		case dragZoom:
			factor := math.Pow(m.settings.ZoomStep, float64(-dy)/2)
			m.adjust(func(c camera) camera { return c.zoom(factor) }, "zoom")
		case dragPan:
			m.adjust(func(c camera) camera { return c.pan(-float64(dx)*step/2, float64(dy)*step) }, "pan")
		default:
			m.adjust(func(c camera) camera { return c.orbit(-float64(dx)*step/2, float64(dy)*step) }, "orbit")
		}
	case msg.Action == tea.MouseActionRelease:
		m.dragging = false
	}
}

// inCanvas reports whether a screen cell lies on the chart canvas; it must match
// the layout in View.
func (m Model) inCanvas(x, y int) bool {
	originX := 0
	if m.showSidebar {
		originX = sidebarWidth + 1
	}
	return x >= originX && x < originX+m.canvasWidth() && y >= headerHeight && y < headerHeight+m.canvasHeight()
}

func (m Model) canvasWidth() int {
	w := max(10, m.width)
	if m.showSidebar {
		w -= sidebarWidth + 1
	}
	return max(10, w)
}

func (m Model) canvasHeight() int {
	return max(4, m.height-headerHeight-footerHeight)
}

func (m Model) loadCmd(id, source string, read func() (string, error)) tea.Cmd {
	load := m.load
	return func() tea.Msg {
		if load == nil {
			return loadedMsg{id: id, source: source, err: errors.New("no loader configured")}
		}
		payload, err := read()
		if err == nil {
			err = load(context.Background(), id, payload)
		}
		return loadedMsg{id: id, source: source, err: err}
	}
}

func loadStatus(msg loadedMsg) string {
	if msg.err == nil {
		return fmt.Sprintf("%s: rendered %s", msg.id, msg.source)
	}
	var pe *plot.ParseError
	if errors.As(msg.err, &pe) {
		return fmt.Sprintf("%s: %s is not a valid plot: %v", msg.id, msg.source, pe.Err)
	}
	return fmt.Sprintf("%s: load %s: %v", msg.id, msg.source, msg.err)
}
