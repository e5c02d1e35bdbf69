package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathsnap/internal/solution"
	"github.com/abhisek/mathsnap/internal/ui/theme"
)

// SolutionLabels are the localized headings of a solution card.
type SolutionLabels struct {
	Steps       string
	FinalResult string
}

// RenderSolution renders the category badge, favorite marker, numbered
// steps and final answer of sol.
func RenderSolution(sol solution.MathSolution, favorite bool, labels SolutionLabels, width int) string {
	inner := max(width-6, 10)

	heart := lipgloss.NewStyle().Foreground(theme.TextDim).Render("♡")
	if favorite {
		heart = lipgloss.NewStyle().Foreground(theme.Accent).Render("♥")
	}
	badge := theme.Badge.Render(strings.ToUpper(sol.Category))
	gap := max(inner-lipgloss.Width(badge)-lipgloss.Width(heart), 1)

	var b strings.Builder
	b.WriteString(badge + strings.Repeat(" ", gap) + heart)
	b.WriteString("\n\n")
	b.WriteString(theme.Title.Render(labels.Steps))
	b.WriteString("\n")

	num := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	stepStyle := lipgloss.NewStyle().Foreground(theme.Text).Width(max(inner-5, 5))
	for i, step := range sol.Steps {
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			num.Render(fmt.Sprintf("%3d. ", i+1)),
			stepStyle.Render(step))
		b.WriteString(row)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(labels.FinalResult))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(sol.FinalAnswer))

	return theme.Card.Width(width).Render(b.String())
}
