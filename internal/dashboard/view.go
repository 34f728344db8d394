package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aipdev/aip/internal/profile"
	"github.com/aipdev/aip/internal/ui"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	focusedPanel = panelStyle.BorderForeground(lipgloss.Color("12"))
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func (m *Model) View() string {
	var panels []string
	for i, p := range m.panels {
		panels = append(panels, m.renderPanel(i, p))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("aip — AI profile manager"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panels...))
	b.WriteString("\n")
	b.WriteString(m.renderPrompt())
	b.WriteString(dimStyle.Render("tab: tool  ↑/↓: select  shift+↑/↓: reorder  enter: switch  s: save  d: delete  r: refresh  q: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderPanel(idx int, p *panel) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(p.engine.Tool().String()))
	b.WriteString("\n\n")

	if len(p.entries) == 0 {
		b.WriteString(dimStyle.Render("no profiles saved"))
		b.WriteString("\n")
	}
	for i, entry := range p.entries {
		line := "  " + entry.Name
		if entry.Current {
			line = currentStyle.Render("* " + entry.Name)
		}
		if idx == m.active && i == p.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderUsage(p))

	style := panelStyle
	if idx == m.active {
		style = focusedPanel
	}
	return style.Render(b.String())
}

func (m *Model) renderUsage(p *panel) string {
	res, ok := m.usages[p.engine.Tool()]
	if !ok {
		if m.loading {
			return m.spin.View() + dimStyle.Render("fetching usage…")
		}
		return dimStyle.Render("usage pending")
	}
	if res.Err != nil {
		return dimStyle.Render("usage unavailable")
	}

	var lines []string
	for _, w := range res.Windows {
		lines = append(lines, ui.UsageLine(w))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderPrompt() string {
	switch m.mode {
	case modeConfirmSwitch:
		reason := "active credential has drifted from the current profile"
		if m.pendingSync == profile.SyncMarkerDangling {
			reason = "current marker points at a missing profile"
		}
		return warnStyle.Render(fmt.Sprintf(
			"%s — overwrite active credential with '%s'? (y/N) ", reason, m.pendingTarget)) + "\n"
	case modeConfirmDelete:
		return warnStyle.Render(fmt.Sprintf("delete profile '%s'? (y/N) ", m.pendingTarget)) + "\n"
	case modeSaveName:
		return "save active credential as: " + m.input.View() + "\n"
	}
	if m.status != "" {
		return m.status + "\n"
	}
	return ""
}
