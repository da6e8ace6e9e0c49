package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	phaseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
)

// Render formats a report for the terminal.
func Render(rep *Report, plotHeight int) string {
	var s strings.Builder

	s.WriteString(headerStyle.Render(strings.ToUpper(rep.Model)) + "\n")
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Voxels", fmt.Sprintf("%d", rep.Voxels))
	row("Step", fmt.Sprintf("%.4fs", rep.Step))
	row("Settled by", rep.Settle.String())
	row("Completions", fmt.Sprintf("%d", rep.Completed))
	row("Sim time", fmt.Sprintf("%.2fs", rep.Duration))

	s.WriteString("\nTIMELINE\n")
	for _, e := range rep.Timeline {
		s.WriteString(fmt.Sprintf("  %7.3fs  %s -> %s\n",
			e.Time, e.From, phaseStyle.Render(e.To.String())))
	}

	if len(rep.Awake) > 1 {
		chart := asciigraph.Plot(rep.Awake,
			asciigraph.Height(max(plotHeight, 2)),
			asciigraph.Width(60),
			asciigraph.Caption("Awake particles while disassembling"),
		)
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	return boxStyle.Render(s.String())
}
