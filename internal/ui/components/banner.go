package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathsnap/internal/ui/theme"
)

// ErrorBanner describes the dismissible error banner.
type ErrorBanner struct {
	Icon       string
	Title      string
	Message    string
	RetryLabel string // empty hides the retry control
	RetryKey   string
	Dismiss    string
	DismissKey string
}

// View renders the banner at width.
func (e ErrorBanner) View(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(e.Icon + " " + e.Title))
	b.WriteString("\n")
	b.WriteString(e.Message)

	var controls []string
	if e.RetryLabel != "" {
		controls = append(controls, "["+e.RetryKey+"] "+e.RetryLabel)
	}
	if e.Dismiss != "" {
		controls = append(controls, "["+e.DismissKey+"] "+e.Dismiss)
	}
	if len(controls) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(strings.Join(controls, "   ")))
	}
	return theme.Banner.Width(width).Render(b.String())
}
