package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/echoflaresat/skydome/scene"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(14)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	skipStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func panelBox(p scene.Panel, color string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Foreground(lipgloss.Color(color)).Render(p.City))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(p.Date) + valueStyle.Render(p.Zone))
	for _, r := range p.Rows {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(r.Label) + valueStyle.Render(r.Value))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(color)).
		Padding(0, 1).
		Render(b.String())
}

// renderSummary lays the city panels out side by side, followed by the
// moon readout and any skipped cities.
func renderSummary(sc *scene.Scene) string {
	boxes := make([]string, 0, len(sc.Layers))
	for _, l := range sc.Layers {
		boxes = append(boxes, panelBox(l.Panel, l.Color.Hex()))
	}

	var out []string
	if len(boxes) > 0 {
		out = append(out, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	out = append(out, fmt.Sprintf("Moon: %s, %d%% illuminated", sc.Badge.Name, sc.Badge.Percent()))
	for _, s := range sc.Skipped {
		out = append(out, skipStyle.Render(fmt.Sprintf("skipped %s: %s", s.City.Label, s.Reason)))
	}
	return strings.Join(out, "\n")
}
