package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tracemetro/tracemetro/pkg/diagram"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	styleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	styleDim       = lipgloss.NewStyle().Foreground(colorDim)
	styleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
	styleError     = lipgloss.NewStyle().Foreground(colorRed)
	styleSecondary = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// Layout Summary
// =============================================================================

// layoutSummary renders a human-readable summary of a computed layout for
// terminal output after the layout command.
func layoutSummary(l diagram.Layout) string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Layout") + "\n")
	b.WriteString(fmt.Sprintf("  %s %s\n", styleDim.Render("canvas:"),
		styleValue.Render(fmt.Sprintf("%.0f × %.0f", l.Width, l.Height))))
	b.WriteString(fmt.Sprintf("  %s %s containers, %s stops, %s tracks, %s branch points\n",
		styleDim.Render("shapes:"),
		styleNumber.Render(fmt.Sprintf("%d", countContainers(l.Containers))),
		styleNumber.Render(fmt.Sprintf("%d", len(l.Stops))),
		styleNumber.Render(fmt.Sprintf("%d", len(l.Tracks))),
		styleNumber.Render(fmt.Sprintf("%d", len(l.Branches)))))

	b.WriteString(fmt.Sprintf("  %s %s\n", styleDim.Render("lanes: "),
		styleNumber.Render(fmt.Sprintf("%d", l.LaneCount))))
	for _, lane := range l.Lanes {
		state := styleSuccess.Render("released")
		if lane.Active {
			state = styleWarning.Render("active: " + lane.TaskID)
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(lane.Color)).Render("●")
		b.WriteString(fmt.Sprintf("    %s %s %s\n", swatch,
			styleSecondary.Render(fmt.Sprintf("lane %d", lane.Index)), state))
	}

	return b.String()
}

// countContainers counts the whole container tree, branch columns included.
func countContainers(cs []diagram.Container) int {
	n := 0
	for i := range cs {
		n += 1 + countContainers(cs[i].Children)
		for _, g := range cs[i].Branches {
			for _, col := range g.Columns {
				n += countContainers(col)
			}
		}
	}
	return n
}
