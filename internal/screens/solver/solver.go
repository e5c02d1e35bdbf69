// Package solver is the problem entry tab: a text input, the solve and
// camera controls and the current solution card.
package solver

import (
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathsnap/internal/screen"
	"github.com/abhisek/mathsnap/internal/solution"
	"github.com/abhisek/mathsnap/internal/ui/components"
	"github.com/abhisek/mathsnap/internal/ui/i18n"
	"github.com/abhisek/mathsnap/internal/ui/layout"
	"github.com/abhisek/mathsnap/internal/ui/theme"
)

// SubmitMsg requests a solve of the current input.
type SubmitMsg struct{ Problem string }

// OpenCameraMsg requests the camera overlay.
type OpenCameraMsg struct{}

// ToggleFavoriteMsg requests flipping the favorite flag of the shown
// solution's problem.
type ToggleFavoriteMsg struct{ Problem string }

// View is the data the screen renders.
type View struct {
	Strings  i18n.Strings
	Input    string
	Loading  bool
	Solution *solution.MathSolution
	Favorite bool
}

// Screen implements screen.Screen for the solver tab.
type Screen struct {
	view    View
	input   components.TextInput
	spinner spinner.Model
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the solver screen.
func New(v View) *Screen {
	s := &Screen{
		input:   components.NewTextInput(v.Strings.Placeholder, 0),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	s.Sync(v)
	return s
}

// Sync replaces the rendered data. The input text is only overwritten when
// it differs, so the cursor survives ordinary typing. The owner reads Input
// after every Update, so v.Input only differs when the text was replaced
// from outside (history or a recognised photo).
func (s *Screen) Sync(v View) {
	s.view = v
	s.input.SetPlaceholder(v.Strings.Placeholder)
	if s.input.Value() != v.Input {
		s.input.SetValue(v.Input)
	}
}

// Input returns the current text.
func (s *Screen) Input() string {
	return s.input.Value()
}

func (s *Screen) Init() tea.Cmd {
	return tea.Batch(s.input.Init(), s.spinner.Tick)
}

func (s *Screen) Title() string {
	return s.view.Strings.Solver
}

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: s.view.Strings.Solve},
		{Key: "Ctrl+O", Description: s.view.Strings.Camera},
	}
	if s.view.Solution != nil {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+F", Description: s.view.Strings.ToggleFav})
	}
	return hints
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			if s.view.Loading {
				return s, nil
			}
			problem := s.input.Value()
			return s, func() tea.Msg { return SubmitMsg{Problem: problem} }
		case "ctrl+o":
			return s, func() tea.Msg { return OpenCameraMsg{} }
		case "ctrl+f":
			if s.view.Solution == nil {
				return s, nil
			}
			problem := s.view.Solution.Problem
			return s, func() tea.Msg { return ToggleFavoriteMsg{Problem: problem} }
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	s.view.Input = s.input.Value()
	return s, cmd
}

func (s *Screen) View(width, height int) string {
	str := s.view.Strings
	cardWidth := min(width-4, 100)
	s.input.SetWidth(max(cardWidth-10, 10))

	solveLabel := "⚡ " + str.Solve
	if s.view.Loading {
		solveLabel = s.spinner.View() + " " + str.Solving
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		components.NewButton(solveLabel, "enter", !s.view.Loading).View(),
		"  ",
		components.NewButton("📷 "+str.Camera, "ctrl+o", false).View(),
	)

	entry := theme.Card.Width(cardWidth).Render(
		theme.Title.Render("∑ "+str.EnterProblem) + "\n\n" +
			s.input.View() + "\n\n" +
			buttons)

	var b strings.Builder
	b.WriteString(entry)
	if s.view.Solution != nil {
		b.WriteString("\n")
		b.WriteString(components.RenderSolution(*s.view.Solution, s.view.Favorite, components.SolutionLabels{
			Steps:       str.Steps,
			FinalResult: str.FinalResult,
		}, cardWidth))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}
