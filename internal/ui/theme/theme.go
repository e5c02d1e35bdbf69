package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette is a full set of UI colors.
type Palette struct {
	Name      string
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	ErrorBg   color.Color
	Text      color.Color
	TextDim   color.Color
	Bg        color.Color
	BgCard    color.Color
	Border    color.Color
}

var (
	Light = Palette{
		Name:      "light",
		Primary:   lipgloss.Color("#2563EB"), // Blue 600
		Secondary: lipgloss.Color("#4F46E5"), // Indigo 600
		Accent:    lipgloss.Color("#EF4444"), // Red 500, favorites
		Success:   lipgloss.Color("#16A34A"),
		Error:     lipgloss.Color("#B91C1C"),
		ErrorBg:   lipgloss.Color("#FEF2F2"),
		Text:      lipgloss.Color("#0F172A"), // Slate 900
		TextDim:   lipgloss.Color("#64748B"), // Slate 500
		Bg:        lipgloss.Color("#F8FAFC"), // Slate 50
		BgCard:    lipgloss.Color("#FFFFFF"),
		Border:    lipgloss.Color("#CBD5E1"),
	}

	Dark = Palette{
		Name:      "dark",
		Primary:   lipgloss.Color("#60A5FA"), // Blue 400
		Secondary: lipgloss.Color("#A5B4FC"), // Indigo 300
		Accent:    lipgloss.Color("#F87171"),
		Success:   lipgloss.Color("#4ADE80"),
		Error:     lipgloss.Color("#FCA5A5"),
		ErrorBg:   lipgloss.Color("#450A0A"),
		Text:      lipgloss.Color("#F8FAFC"),
		TextDim:   lipgloss.Color("#94A3B8"),
		Bg:        lipgloss.Color("#020617"), // Slate 950
		BgCard:    lipgloss.Color("#1E293B"),
		Border:    lipgloss.Color("#334155"),
	}
)

// Active palette colors. Apply swaps them.
var (
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	ErrorBg   color.Color
	Text      color.Color
	TextDim   color.Color
	Bg        color.Color
	BgCard    color.Color
	Border    color.Color
)

// Styles built from the active palette.
var (
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Hint     lipgloss.Style

	Card   lipgloss.Style
	Badge  lipgloss.Style
	Banner lipgloss.Style

	Selected   lipgloss.Style
	Unselected lipgloss.Style

	ButtonActive   lipgloss.Style
	ButtonInactive lipgloss.Style
)

var current Palette

func init() {
	Apply(Light)
}

// Current returns the active palette.
func Current() Palette { return current }

// IsDark reports whether the dark palette is active.
func IsDark() bool { return current.Name == Dark.Name }

// ForName returns the dark palette for "dark" and the light one otherwise.
func ForName(name string) Palette {
	if name == Dark.Name {
		return Dark
	}
	return Light
}

// Apply makes p the active palette and rebuilds every style. It must be
// called from the UI goroutine.
func Apply(p Palette) {
	current = p

	Primary = p.Primary
	Secondary = p.Secondary
	Accent = p.Accent
	Success = p.Success
	Error = p.Error
	ErrorBg = p.ErrorBg
	Text = p.Text
	TextDim = p.TextDim
	Bg = p.Bg
	BgCard = p.BgCard
	Border = p.Border

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
		Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Badge = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		Padding(0, 1)

	Banner = lipgloss.NewStyle().
		Foreground(Error).
		Background(ErrorBg).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Error).
		Padding(0, 2)

	Selected = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	Unselected = lipgloss.NewStyle().
		Foreground(Text)

	ButtonActive = lipgloss.NewStyle().
		Background(Primary).
		Foreground(Bg).
		Bold(true).
		Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)
}
