package app

import (
	"strings"

	"github.com/abhisek/mathsnap/internal/history"
	"github.com/abhisek/mathsnap/internal/prefs"
	"github.com/abhisek/mathsnap/internal/solution"
	"github.com/abhisek/mathsnap/internal/solver"
)

// Tab is a top-level view.
type Tab int

const (
	TabSolver Tab = iota
	TabHistory
	TabFavorites
)

// Tabs lists the tabs in navigation order.
var Tabs = []Tab{TabSolver, TabHistory, TabFavorites}

// RequestKind tells a text solve from an image solve.
type RequestKind int

const (
	RequestText RequestKind = iota
	RequestImage
)

// Request is a solve request as issued, kept for retry.
type Request struct {
	Kind     RequestKind
	Problem  string // text requests
	Image    string // base64 JPEG for image requests
	Language prefs.Language
}

// State is the whole application state. It is only changed through Reduce.
type State struct {
	Theme    prefs.Theme
	Language prefs.Language
	Tab      Tab

	Input    string
	Loading  bool
	Solution *solution.MathSolution
	Err      *solver.AppError

	History []history.Item

	CameraOpen  bool
	LastRequest *Request
}

// InitialState builds the state at startup from stored preferences and
// history.
func InitialState(p prefs.Prefs, items []history.Item) State {
	return State{
		Theme:    p.Theme,
		Language: p.Language,
		Tab:      TabSolver,
		History:  items,
	}
}

// Favorites returns the favorite history items in history order.
func (s State) Favorites() []history.Item {
	return history.FilterFavorites(s.History)
}

// CurrentFavorite reports whether the displayed solution's problem is a
// favorite in the history.
func (s State) CurrentFavorite() bool {
	if s.Solution == nil {
		return false
	}
	key := solution.Key(s.Solution.Problem)
	for _, it := range s.History {
		if solution.Key(it.Problem) == key {
			return it.IsFavorite
		}
	}
	return false
}

// CanRetry reports whether the error banner offers a retry. Only network
// failures are retryable.
func (s State) CanRetry() bool {
	return s.Err != nil && s.Err.Retryable() && s.LastRequest != nil && !s.Loading
}

// Action is a state transition.
type Action interface {
	isAction()
}

type (
	// InputChanged replaces the problem text. It clears a shown error.
	InputChanged struct{ Value string }

	// SolveStarted clears the previous result and error and marks loading.
	SolveStarted struct{ Request Request }

	// SolveSucceeded shows a solution. Image solves also put the recognised
	// problem into the input.
	SolveSucceeded struct {
		Solution solution.MathSolution
		Kind     RequestKind
	}

	// SolveFailed shows a classified error.
	SolveFailed struct{ Err *solver.AppError }

	ErrorDismissed struct{}

	// HistoryChanged replaces the history list.
	HistoryChanged struct{ Items []history.Item }

	TabSelected struct{ Tab Tab }

	// HistoryOpened loads an item into the solver tab.
	HistoryOpened struct{ Item history.Item }

	ThemeToggled    struct{}
	LanguageToggled struct{}
	CameraOpened    struct{}
	CameraClosed    struct{}
)

func (InputChanged) isAction()    {}
func (SolveStarted) isAction()    {}
func (SolveSucceeded) isAction()  {}
func (SolveFailed) isAction()     {}
func (ErrorDismissed) isAction()  {}
func (HistoryChanged) isAction()  {}
func (TabSelected) isAction()     {}
func (HistoryOpened) isAction()   {}
func (ThemeToggled) isAction()    {}
func (LanguageToggled) isAction() {}
func (CameraOpened) isAction()    {}
func (CameraClosed) isAction()    {}

// Reduce applies a to s and returns the new state. It has no side effects.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case InputChanged:
		s.Input = a.Value
		s.Err = nil

	case SolveStarted:
		req := a.Request
		s.LastRequest = &req
		s.Loading = true
		s.Err = nil
		s.Solution = nil

	case SolveSucceeded:
		sol := a.Solution
		s.Solution = &sol
		s.Loading = false
		s.Err = nil
		if a.Kind == RequestImage {
			s.Input = sol.Problem
		}

	case SolveFailed:
		s.Loading = false
		s.Err = a.Err

	case ErrorDismissed:
		s.Err = nil

	case HistoryChanged:
		s.History = a.Items

	case TabSelected:
		s.Tab = a.Tab

	case HistoryOpened:
		sol := a.Item.Solution
		s.Solution = &sol
		s.Input = a.Item.Problem
		s.Tab = TabSolver

	case ThemeToggled:
		s.Theme = s.Theme.Toggle()

	case LanguageToggled:
		s.Language = s.Language.Toggle()

	case CameraOpened:
		s.CameraOpen = true

	case CameraClosed:
		s.CameraOpen = false
	}
	return s
}

// NextTab returns the tab after t, wrapping around.
func NextTab(t Tab, step int) Tab {
	n := len(Tabs)
	return Tabs[((int(t)+step)%n+n)%n]
}

// Blank reports whether a text request would be rejected.
func Blank(problem string) bool {
	return strings.TrimSpace(problem) == ""
}
