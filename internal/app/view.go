package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runger/nodepick/internal/appstate"
	"github.com/runger/nodepick/internal/graph"
	"github.com/runger/nodepick/internal/sanitize"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("24")).Padding(0, 1)
	savingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	savedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	nodeStyle   = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	focusStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewTitle())
	b.WriteString("\n\n")

	switch m.state {
	case stateIdle, stateLoading:
		b.WriteString(m.spinner.View() + " " + dimStyle.Render("Loading graph..."))
	case stateError:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %s", m.err)))
	default:
		b.WriteString(m.picker.View())
		if !m.picker.IsOpen() {
			b.WriteString("\n")
			b.WriteString(m.viewPanel())
		}
	}

	if m.notice != "" && !m.picker.IsOpen() {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(m.notice))
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) viewTitle() string {
	var status string
	switch m.store.LoadingStatus() {
	case appstate.StatusSaving:
		status = m.spinner.View() + savingStyle.Render(" Saving...")
	case appstate.StatusSaved:
		status = savedStyle.Render("✓ Saved")
	}
	return titleStyle.Render(m.title) + "  " + status
}

// viewPanel describes the selected node: its color, font size and links.
func (m Model) viewPanel() string {
	g := m.sink.graph
	key := m.store.SelectedNode()
	if m.state == stateEmpty || g == nil {
		return panelStyle.Render(dimStyle.Render("No nodes"))
	}
	if key == "" {
		return panelStyle.Render(dimStyle.Render("No node selected"))
	}
	n, ok := g.Node(key)
	if !ok {
		return panelStyle.Render(dimStyle.Render("Unknown node " + key))
	}

	swatch := "  "
	if n.Color != "" {
		swatch = lipgloss.NewStyle().Background(lipgloss.Color(n.Color)).Render("  ")
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("%s %s  %s %s  %s %d",
		swatch, nodeStyle.Render(m.clip(n.Key, 30)),
		labelStyle.Render("color"), n.Color,
		labelStyle.Render("font"), n.EffectiveFontSize()))

	links := m.selectedLinks()
	out := len(g.Outgoing(key))
	lines = append(lines, m.viewLinks("Outgoing", "→", links[:out], 0, func(l graph.Link) string { return l.To })...)
	lines = append(lines, m.viewLinks("Incoming", "←", links[out:], out, func(l graph.Link) string { return l.From })...)

	return panelStyle.Render(strings.Join(lines, "\n"))
}

// viewLinks lists one direction of links. base is the position of the
// first entry within selectedLinks, for the focus marker.
func (m Model) viewLinks(heading, arrow string, links []int, base int, other func(graph.Link) string) []string {
	if len(links) == 0 {
		return nil
	}
	lines := []string{labelStyle.Render(fmt.Sprintf("%s (%d)", heading, len(links)))}
	focus := -1
	if total := len(m.selectedLinks()); total > 0 {
		focus = m.focusLink % total
	}
	for i, idx := range links {
		if i == maxPanelLinks {
			lines = append(lines, dimStyle.Render(fmt.Sprintf("  +%d more", len(links)-maxPanelLinks)))
			break
		}
		l, _ := m.sink.graph.Link(idx)
		line := fmt.Sprintf("%s %s  %q  font %d", arrow, m.clip(other(l), 24), m.clip(l.Text, 24), l.EffectiveFontSize())
		if base+i == focus {
			lines = append(lines, focusStyle.Render("> "+line))
		} else {
			lines = append(lines, "  "+line)
		}
	}
	return lines
}

func (m Model) clip(s string, w int) string {
	return sanitize.Truncate(sanitize.Label(s), w)
}
