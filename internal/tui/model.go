package tui

import (
	"context"
	"os"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// LoadFunc pushes a serialized plot into an element; the updater's Update fits.
type LoadFunc func(ctx context.Context, elementID, payload string) error

// Settings tunes interaction and colors.
type Settings struct {
	RotateStep float64 // radians per key press
	ZoomStep   float64 // eye distance factor per key press
	Accent     string
	Border     string
}

func DefaultSettings() Settings {
	return Settings{
		RotateStep: 0.1,
		ZoomStep:   1.2,
		Accent:     "#7C3AED",
		Border:     "#243141",
	}
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	status string

	screen   *Screen
	load     LoadFunc
	settings Settings
	styles   styles

	// Chart elements, in mount order
	order  []string
	panels map[string]*panel
	focus  int

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// inspect popup
	inspectPopup string

	// mouse drag
	dragging bool
	dragX    int
	dragY    int

	// trace table
	showTraces bool
	tbl        table.Model
}

// NewModel builds the program model for the elements mounted on s. load is
// called for plots pasted or opened from the sidebar.
func (s *Screen) NewModel(load LoadFunc, settings Settings) Model {
	m := Model{
		helpVisible: true,
		status:      "plotview ready",
		screen:      s,
		load:        load,
		settings:    settings,
		styles:      newStyles(settings),
		panels:      make(map[string]*panel),
	}
	m.sync()
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Plots"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = `Paste a plot as JSON ({"data":[...],"layout":{...}}). Ctrl+S to render; Esc to cancel.`
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// Init picks up mounts and unmounts made between NewModel and the program start.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return syncMsg{} }
}

// sync matches the panels to the mounted elements, in mount order. Panels of
// elements still mounted keep their plot and view.
func (m *Model) sync() {
	ids := m.screen.Elements()
	var focused string
	if p := m.focused(); p != nil {
		focused = p.id
	}
	panels := make(map[string]*panel, len(ids))
	for _, id := range ids {
		p, ok := m.panels[id]
		if !ok {
			p = &panel{id: id}
		}
		panels[id] = p
	}
	var gone []string
	for _, id := range m.order {
		if panels[id] == nil {
			gone = append(gone, id)
		}
	}
	m.panels, m.order = panels, ids
	m.focus = min(m.focus, max(0, len(ids)-1))
	for i, id := range ids {
		if id == focused {
			m.focus = i
		}
	}
	if len(gone) > 0 {
		m.status = "unmounted " + strings.Join(gone, ", ")
	}
}

// focused returns the panel with keyboard focus, or nil when nothing is mounted.
func (m Model) focused() *panel {
	if len(m.order) == 0 {
		return nil
	}
	return m.panels[m.order[m.focus]]
}

// record publishes a panel's view state to the side table.
func (m Model) record(p *panel) {
	m.screen.store.Set(p.id, p.layout)
}
