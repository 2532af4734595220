package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ccff"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ff88")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffaa00"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)
)

func title(s string) string {
	return titleStyle.Render(s)
}

// metrics renders label/value pairs as an aligned panel.
func metrics(pairs ...string) string {
	width := 0
	for i := 0; i < len(pairs); i += 2 {
		if len(pairs[i]) > width {
			width = len(pairs[i])
		}
	}
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteByte('\n')
		}
		label := pairs[i] + strings.Repeat(" ", width-len(pairs[i]))
		b.WriteString(labelStyle.Render(label) + "  " + valueStyle.Render(pairs[i+1]))
	}
	return panelStyle.Render(b.String())
}

func flag(on bool) string {
	if on {
		return valueStyle.Render("yes")
	}
	return labelStyle.Render("no")
}

func vec(x, y, z float32) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", x, y, z)
}
