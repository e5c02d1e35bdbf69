// Package history renders the History and Favorites tabs.
package history

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathsnap/internal/history"
	"github.com/abhisek/mathsnap/internal/screen"
	"github.com/abhisek/mathsnap/internal/ui/i18n"
	"github.com/abhisek/mathsnap/internal/ui/layout"
	"github.com/abhisek/mathsnap/internal/ui/theme"
)

// OpenItemMsg requests loading an item into the solver tab.
type OpenItemMsg struct{ ID string }

// ToggleFavoriteMsg requests flipping an item's favorite flag.
type ToggleFavoriteMsg struct{ ID string }

// Screen lists history items, or only the favorites.
type Screen struct {
	favoritesOnly bool
	strings       i18n.Strings
	items         []history.Item
	selected      int
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a list screen. With favoritesOnly set it shows the
// favorites filter of the items it is given.
func New(favoritesOnly bool, str i18n.Strings, items []history.Item) *Screen {
	s := &Screen{favoritesOnly: favoritesOnly}
	s.Sync(str, items)
	return s
}

// Sync replaces the strings and items. The selection is kept on the same
// item when it is still listed.
func (s *Screen) Sync(str i18n.Strings, items []history.Item) {
	s.strings = str
	if s.favoritesOnly {
		items = history.FilterFavorites(items)
	}

	var selectedID string
	if s.selected < len(s.items) {
		selectedID = s.items[s.selected].ID
	}
	s.items = items
	s.selected = 0
	for i, it := range items {
		if it.ID == selectedID {
			s.selected = i
			break
		}
	}
}

// Items returns the listed items.
func (s *Screen) Items() []history.Item {
	return s.items
}

// Selected returns the index of the highlighted item.
func (s *Screen) Selected() int {
	return s.selected
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	if s.favoritesOnly {
		return s.strings.Favorites
	}
	return s.strings.History
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if len(s.items) == 0 {
		return nil
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: s.strings.Navigate},
		{Key: "Enter", Description: s.strings.Open},
		{Key: "F", Description: s.strings.ToggleFav},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(s.items) == 0 {
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.items)-1 {
			s.selected++
		}
	case "home", "g":
		s.selected = 0
	case "end", "G":
		s.selected = len(s.items) - 1
	case "enter":
		id := s.items[s.selected].ID
		return s, func() tea.Msg { return OpenItemMsg{ID: id} }
	case "f", "space":
		id := s.items[s.selected].ID
		return s, func() tea.Msg { return ToggleFavoriteMsg{ID: id} }
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	if len(s.items) == 0 {
		msg := s.strings.NoHistory
		if s.favoritesOnly {
			msg = s.strings.NoFavorites
		}
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n▢\n\n" + msg)
	}

	cardWidth := min(width-4, 100)
	const rowHeight = 4 // three content lines plus a separator

	// Keep the selection visible.
	visible := max(height/rowHeight, 1)
	start := 0
	if s.selected >= visible {
		start = s.selected - visible + 1
	}
	end := min(start+visible, len(s.items))

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(s.renderItem(s.items[i], i == s.selected, cardWidth))
		b.WriteString("\n")
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func (s *Screen) renderItem(it history.Item, selected bool, width int) string {
	heart := lipgloss.NewStyle().Foreground(theme.TextDim).Render("♡")
	if it.IsFavorite {
		heart = lipgloss.NewStyle().Foreground(theme.Accent).Render("♥")
	}
	meta := lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("%s · %s", strings.ToUpper(it.Solution.Category), it.Time().Format("2006-01-02")))
	gap := max(width-6-lipgloss.Width(meta)-lipgloss.Width(heart), 1)

	problem := truncate(it.Problem, width-6)
	answer := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(it.Solution.FinalAnswer)

	border := theme.Border
	if selected {
		border = theme.Primary
		problem = theme.Selected.Render(problem)
	} else {
		problem = theme.Unselected.Bold(true).Render(problem)
	}

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(border).
		PaddingLeft(1).
		Render(meta + strings.Repeat(" ", gap) + heart + "\n" + problem + "\n" + answer)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
