package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathsnap/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 20

	CompactWidthThreshold = 90
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsCompactWidth returns true if the terminal width is in compact range.
func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// HeaderInfo is what the header bar shows.
type HeaderInfo struct {
	Title     string
	LangBadge string
	Dark      bool
}

// RenderHeader renders the application header bar: app name, the current
// title and the language and theme indicators.
func RenderHeader(info HeaderInfo, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(" √x MathSnap")

	center := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(info.Title)

	icon := "☾"
	if info.Dark {
		icon = "☀"
	}
	right := lipgloss.NewStyle().
		Foreground(theme.Bg).
		Background(theme.TextDim).
		Bold(true).
		Padding(0, 1).
		Render(info.LangBadge) +
		"  " +
		lipgloss.NewStyle().
			Foreground(theme.Accent).
			Render(icon)

	leftLen := lipgloss.Width(left)
	centerLen := lipgloss.Width(center)
	rightLen := lipgloss.Width(right)

	innerWidth := max(width-4, 0)

	leftGap := max((innerWidth-centerLen)/2-leftLen, 1)
	rightGap := max(innerWidth-leftLen-leftGap-centerLen-rightLen, 1)

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderTabs renders the bottom navigation bar with the active tab
// highlighted. Tabs are numbered from 1 for their shortcut keys.
func RenderTabs(tabs []string, active int, width int) string {
	cell := max(width-4, 0) / max(len(tabs), 1)

	parts := make([]string, 0, len(tabs))
	for i, label := range tabs {
		style := lipgloss.NewStyle().
			Width(cell).
			Align(lipgloss.Center).
			Foreground(theme.TextDim)
		text := fmt.Sprintf("%d %s", i+1, strings.ToUpper(label))
		if i == active {
			style = style.Foreground(theme.Primary).Bold(true)
			text = "● " + text
		}
		parts = append(parts, style.Render(text))
	}

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
}

// RenderFooter renders the footer with key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
			" " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
		parts = append(parts, part)
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		Render(strings.Join(parts, "   "))
}

// RenderFrame composes header, content and footer into the full height.
func RenderFrame(header, content, footer string, width, height int) string {
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)

	contentHeight := max(height-headerHeight-footerHeight, 0)

	styledContent := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return header + "\n" + styledContent + "\n" + footer
}
