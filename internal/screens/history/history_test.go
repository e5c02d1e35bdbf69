package history

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathsnap/internal/history"
	"github.com/abhisek/mathsnap/internal/prefs"
	"github.com/abhisek/mathsnap/internal/solution"
	"github.com/abhisek/mathsnap/internal/ui/i18n"
)

func item(id, problem string, fav bool) history.Item {
	return history.Item{
		ID:         id,
		Problem:    problem,
		Timestamp:  1700000000000,
		IsFavorite: fav,
		Solution:   solution.MathSolution{Problem: problem, FinalAnswer: "42", Category: "Arithmetic"},
	}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

var items = []history.Item{
	item("a", "1+1", false),
	item("b", "2+2", true),
	item("c", "3+3", true),
}

func TestFavoritesFilter(t *testing.T) {
	s := New(true, i18n.For(prefs.English), items)
	require.Len(t, s.Items(), 2)
	assert.Equal(t, "b", s.Items()[0].ID)
	assert.Equal(t, "c", s.Items()[1].ID)
	assert.Equal(t, "Favorites", s.Title())
}

func TestNavigationAndOpen(t *testing.T) {
	s := New(false, i18n.For(prefs.English), items)

	s.Update(keyPress('j'))
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(keyPress('j'))
	assert.Equal(t, 2, s.Selected())

	s.Update(keyPress('k'))
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, OpenItemMsg{ID: "b"}, run(t, cmd))

	_, cmd = s.Update(keyPress('f'))
	assert.Equal(t, ToggleFavoriteMsg{ID: "b"}, run(t, cmd))
}

func TestSyncKeepsSelection(t *testing.T) {
	s := New(false, i18n.For(prefs.English), items)
	s.Update(keyPress('j'))
	require.Equal(t, "b", s.Items()[s.Selected()].ID)

	// "b" moved to the front.
	s.Sync(i18n.For(prefs.English), []history.Item{items[1], items[0], items[2]})
	assert.Equal(t, 0, s.Selected())
	assert.Equal(t, "b", s.Items()[s.Selected()].ID)
}

func TestEmptyStates(t *testing.T) {
	s := New(false, i18n.For(prefs.English), nil)
	assert.Contains(t, s.View(80, 20), "No history found")
	assert.Nil(t, s.KeyHints())

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)

	f := New(true, i18n.For(prefs.Hindi), []history.Item{item("a", "1+1", false)})
	assert.Contains(t, f.View(80, 20), "कोई पसंदीदा नहीं मिला")
}

func TestViewShowsItems(t *testing.T) {
	s := New(false, i18n.For(prefs.English), items)
	out := s.View(80, 30)
	assert.Contains(t, out, "1+1")
	assert.Contains(t, out, "ARITHMETIC")
	assert.Contains(t, out, "♥")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
}
