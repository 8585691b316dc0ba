package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	contentHeight := m.canvasHeight()
	contentWidth := max(10, m.width)

	// Update list size with accurate content height when sidebar visible
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, contentHeight-2)
	}

	// Header: title and one tab per element
	header := m.styles.title.Render(" plotview ─ terminal chart viewer ")
	header = lipgloss.NewStyle().Width(contentWidth).Padding(0).Render(header)
	tabs := lipgloss.NewStyle().Width(contentWidth).MaxHeight(1).Render(m.renderTabs())

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	canvasWidth := m.canvasWidth()
	var chartView string
	switch {
	case m.showTraces:
		// Render the trace table centered in the chart area
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		if colW == 0 {
			colW = min(60, contentWidth-6)
		}
		maxW := min(canvasWidth, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(contentHeight-2, 20))
		box := m.styles.box.Width(maxW).Render(m.tbl.View())
		chartView = lipgloss.Place(canvasWidth, contentHeight, lipgloss.Center, lipgloss.Center, box)
	case m.pasteMode:
		m.ta.SetWidth(canvasWidth)
		m.ta.SetHeight(min(contentHeight, 12))
		chartView = lipgloss.NewStyle().Width(canvasWidth).Height(contentHeight).Render(m.ta.View())
	default:
		canvas := m.renderCanvas(m.focused(), canvasWidth, contentHeight)
		chartView = lipgloss.NewStyle().Width(canvasWidth).Height(contentHeight).Render(canvas)
	}

	// Inspect popup replaces the chart area while open
	if m.inspectPopup != "" && !m.showTraces && !m.pasteMode {
		maxPopupW := max(20, min(48, contentWidth/2))
		box := m.styles.box.MaxWidth(maxPopupW).Render(m.inspectPopup)
		chartView = lipgloss.Place(canvasWidth, contentHeight, lipgloss.Left, lipgloss.Center, box)
	}

	var body string
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", chartView)
	} else {
		body = chartView
	}

	// Footer / help
	help := m.renderHelp()
	statusStyle := dimStyle
	if strings.Contains(m.status, "failed") || strings.Contains(m.status, "not a valid plot") {
		statusStyle = errorStyle
	}
	status := statusStyle.Render(" " + m.status + " ")
	cam := ""
	if p := m.focused(); p != nil && p.rendered {
		c := p.camera()
		cam = dimStyle.Render(fmt.Sprintf("  eye=(%.2f,%.2f,%.2f) %s  ", c.eye.X, c.eye.Y, c.eye.Z, p.dragMode()))
	}
	left := lipgloss.JoinVertical(lipgloss.Left, status, help)
	spacerW := max(0, contentWidth-lipgloss.Width(left)-lipgloss.Width(cam))
	right := lipgloss.Place(spacerW+lipgloss.Width(cam), 1, lipgloss.Right, lipgloss.Top, cam)
	footer := lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Top, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, tabs, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) renderTabs() string {
	if len(m.order) == 0 {
		return dimStyle.Render(" no elements")
	}
	parts := make([]string, 0, len(m.order))
	for i, id := range m.order {
		label := " " + id + " "
		if !m.panels[id].rendered {
			label = " " + id + "* "
		}
		if i == m.focus {
			parts = append(parts, m.styles.activeTab.Render(label))
		} else {
			parts = append(parts, m.styles.tab.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ orbit",
		"+/- zoom",
		"d drag",
		"0 reset",
		"[ ] chart",
		"Tab files",
		"p paste",
		"a traces",
		"i inspect",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
