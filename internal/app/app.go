// Package app holds the application state, its reducer and the root
// Bubble Tea model that wires the screens to the solver, history and
// preference stores.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/mathsnap/internal/capture"
	"github.com/abhisek/mathsnap/internal/history"
	"github.com/abhisek/mathsnap/internal/kv"
	"github.com/abhisek/mathsnap/internal/prefs"
	"github.com/abhisek/mathsnap/internal/router"
	"github.com/abhisek/mathsnap/internal/screen"
	"github.com/abhisek/mathsnap/internal/screens/camera"
	historyscreen "github.com/abhisek/mathsnap/internal/screens/history"
	solverscreen "github.com/abhisek/mathsnap/internal/screens/solver"
	"github.com/abhisek/mathsnap/internal/solution"
	"github.com/abhisek/mathsnap/internal/solver"
	"github.com/abhisek/mathsnap/internal/ui/components"
	"github.com/abhisek/mathsnap/internal/ui/i18n"
	"github.com/abhisek/mathsnap/internal/ui/layout"
	"github.com/abhisek/mathsnap/internal/ui/theme"
)

// ErrNoCameraSource is reported by the camera overlay when no frame
// source is configured.
var ErrNoCameraSource = errors.New("no capture source configured (set capture.watch_dir)")

// Deps are the collaborators of the root model.
type Deps struct {
	Solver  *solver.Service
	History *history.Store
	KV      kv.Store

	// CameraSource feeds the capture overlay. Nil shows the camera notice.
	CameraSource capture.VideoSource
	// CameraLabel describes the source in the viewfinder.
	CameraLabel string
	// Countdown is the capture countdown step.
	Countdown time.Duration

	Logger *zap.Logger
}

type solveDoneMsg struct {
	req   Request
	sol   solution.MathSolution
	err   error
	items []history.Item
}

type historyChangedMsg struct {
	items []history.Item
}

type noSource struct{}

func (noSource) Acquire(context.Context) (capture.Track, error) {
	return nil, ErrNoCameraSource
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps   Deps
	state  State
	router *router.Router

	solverScreen    *solverscreen.Screen
	historyScreen   *historyscreen.Screen
	favoritesScreen *historyscreen.Screen

	width  int
	height int
}

// New creates the root model from an initial state.
func New(deps Deps, initial State) *AppModel {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.CameraSource == nil {
		deps.CameraSource = noSource{}
	}

	theme.Apply(theme.ForName(string(initial.Theme)))

	m := &AppModel{deps: deps, state: initial}
	str := m.strings()
	m.solverScreen = solverscreen.New(m.solverView())
	m.historyScreen = historyscreen.New(false, str, initial.History)
	m.favoritesScreen = historyscreen.New(true, str, initial.History)
	m.router = router.New(m.tabScreen(initial.Tab))
	return m
}

// State returns the current application state.
func (m *AppModel) State() State {
	return m.state
}

func (m *AppModel) strings() i18n.Strings {
	return i18n.For(m.state.Language)
}

func (m *AppModel) solverView() solverscreen.View {
	return solverscreen.View{
		Strings:  m.strings(),
		Input:    m.state.Input,
		Loading:  m.state.Loading,
		Solution: m.state.Solution,
		Favorite: m.state.CurrentFavorite(),
	}
}

func (m *AppModel) tabScreen(t Tab) screen.Screen {
	switch t {
	case TabHistory:
		return m.historyScreen
	case TabFavorites:
		return m.favoritesScreen
	default:
		return m.solverScreen
	}
}

func (m *AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

// dispatch reduces a and runs the persistence effects of the transition.
func (m *AppModel) dispatch(a Action) tea.Cmd {
	prev := m.state
	m.state = Reduce(m.state, a)

	var cmds []tea.Cmd
	if m.state.Theme != prev.Theme {
		theme.Apply(theme.ForName(string(m.state.Theme)))
		cmds = append(cmds, m.persist("theme", func(ctx context.Context) error {
			return prefs.SaveTheme(ctx, m.deps.KV, m.state.Theme)
		}))
	}
	if m.state.Language != prev.Language {
		cmds = append(cmds, m.persist("language", func(ctx context.Context) error {
			return prefs.SaveLanguage(ctx, m.deps.KV, m.state.Language)
		}))
	}
	if m.state.Tab != prev.Tab && !m.state.CameraOpen {
		cmds = append(cmds, m.router.Replace(m.tabScreen(m.state.Tab)))
	}

	m.sync()
	return tea.Batch(cmds...)
}

// sync pushes the state into the screens.
func (m *AppModel) sync() {
	str := m.strings()
	m.solverScreen.Sync(m.solverView())
	m.historyScreen.Sync(str, m.state.History)
	m.favoritesScreen.Sync(str, m.state.History)
}

func (m *AppModel) persist(what string, fn func(ctx context.Context) error) tea.Cmd {
	if m.deps.KV == nil {
		return nil
	}
	logger := m.deps.Logger
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			logger.Warn("save preference", zap.String("pref", what), zap.Error(err))
		}
		return nil
	}
}

// solve starts req unless a solve is running or the text is blank.
func (m *AppModel) solve(req Request) tea.Cmd {
	if m.state.Loading {
		return nil
	}
	if req.Kind == RequestText && Blank(req.Problem) {
		return nil
	}
	return m.startSolve(req)
}

// startSolve runs req even if another solve is in flight. Concurrent solves
// race and the last one to finish owns the shown result.
func (m *AppModel) startSolve(req Request) tea.Cmd {
	if m.deps.Solver == nil {
		return nil
	}

	cmd := m.dispatch(SolveStarted{Request: req})
	svc, records := m.deps.Solver, m.deps.History
	run := func() tea.Msg {
		ctx := context.Background()
		var sol solution.MathSolution
		var err error
		if req.Kind == RequestImage {
			sol, err = svc.SolveImage(ctx, req.Image, string(req.Language))
		} else {
			sol, err = svc.SolveText(ctx, req.Problem, string(req.Language))
		}
		var items []history.Item
		if records != nil {
			items = records.Items()
		}
		return solveDoneMsg{req: req, sol: sol, err: err, items: items}
	}
	return tea.Batch(cmd, run)
}

func (m *AppModel) historyCmd(fn func(ctx context.Context) error) tea.Cmd {
	records, logger := m.deps.History, m.deps.Logger
	if records == nil {
		return nil
	}
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			logger.Warn("update history", zap.Error(err))
		}
		return historyChangedMsg{items: records.Items()}
	}
}

func (m *AppModel) openCamera() tea.Cmd {
	if m.state.CameraOpen {
		return nil
	}
	session := capture.NewSession(m.deps.CameraSource, m.deps.KV, capture.WithLogger(m.deps.Logger))
	overlay := camera.New(session, m.strings(), m.deps.Countdown, m.deps.CameraLabel)
	return tea.Batch(m.dispatch(CameraOpened{}), m.router.Push(overlay))
}

func (m *AppModel) closeCamera() tea.Cmd {
	if !m.state.CameraOpen {
		return nil
	}
	m.router.Pop()
	return tea.Batch(m.dispatch(CameraClosed{}), m.router.Active().Init())
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}

	case solverscreen.SubmitMsg:
		return m, m.solve(Request{Kind: RequestText, Problem: msg.Problem, Language: m.state.Language})

	case solverscreen.OpenCameraMsg:
		return m, m.openCamera()

	case solverscreen.ToggleFavoriteMsg:
		records := m.deps.History
		return m, m.historyCmd(func(ctx context.Context) error {
			_, _, err := records.FavoriteForProblem(ctx, msg.Problem)
			return err
		})

	case historyscreen.OpenItemMsg:
		if m.deps.History == nil {
			return m, nil
		}
		item, ok := m.deps.History.Get(msg.ID)
		if !ok {
			return m, nil
		}
		return m, m.dispatch(HistoryOpened{Item: item})

	case historyscreen.ToggleFavoriteMsg:
		records := m.deps.History
		return m, m.historyCmd(func(ctx context.Context) error {
			_, _, err := records.ToggleFavorite(ctx, msg.ID)
			return err
		})

	case camera.CapturedMsg:
		// A photo is always analysed, even over a running text solve.
		return m, tea.Batch(
			m.closeCamera(),
			m.startSolve(Request{Kind: RequestImage, Image: msg.Payload, Language: m.state.Language}),
		)

	case camera.ClosedMsg:
		return m, m.closeCamera()

	case solveDoneMsg:
		return m, m.handleSolveDone(msg)

	case historyChangedMsg:
		return m, m.dispatch(HistoryChanged{Items: msg.items})
	}

	cmd := m.router.Update(msg)
	if v := m.solverScreen.Input(); v != m.state.Input {
		return m, tea.Batch(cmd, m.dispatch(InputChanged{Value: v}))
	}
	return m, cmd
}

func (m *AppModel) handleSolveDone(msg solveDoneMsg) tea.Cmd {
	var cmds []tea.Cmd
	if msg.err != nil {
		cmds = append(cmds, m.dispatch(SolveFailed{Err: solver.Classify(msg.err)}))
	} else {
		cmds = append(cmds, m.dispatch(SolveSucceeded{Solution: msg.sol, Kind: msg.req.Kind}))
	}
	if msg.items != nil {
		cmds = append(cmds, m.dispatch(HistoryChanged{Items: msg.items}))
	}
	return tea.Batch(cmds...)
}

// handleGlobalKey processes keys that work on every tab. Keys not handled
// here go to the active screen.
func (m *AppModel) handleGlobalKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	key := msg.String()
	if key == "ctrl+c" {
		return tea.Quit, true
	}
	if m.state.CameraOpen {
		return nil, false
	}

	switch key {
	case "tab":
		return m.dispatch(TabSelected{Tab: NextTab(m.state.Tab, 1)}), true
	case "shift+tab":
		return m.dispatch(TabSelected{Tab: NextTab(m.state.Tab, -1)}), true
	case "f1":
		return m.dispatch(TabSelected{Tab: TabSolver}), true
	case "f2":
		return m.dispatch(TabSelected{Tab: TabHistory}), true
	case "f3":
		return m.dispatch(TabSelected{Tab: TabFavorites}), true
	case "ctrl+t":
		return m.dispatch(ThemeToggled{}), true
	case "ctrl+l":
		return m.dispatch(LanguageToggled{}), true
	case "ctrl+r":
		if m.state.CanRetry() {
			return m.solve(*m.state.LastRequest), true
		}
		return nil, true
	case "esc":
		if m.state.Err != nil {
			return m.dispatch(ErrorDismissed{}), true
		}
	}
	return nil, false
}

func errorIcon(t solver.ErrorType) string {
	switch t {
	case solver.ErrNetwork:
		return "⌁"
	case solver.ErrAPILimit:
		return "⧗"
	case solver.ErrInvalidInput:
		return "⛨"
	default:
		return "⚠"
	}
}

func (m *AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	str := m.strings()
	active := m.router.Active()

	header := layout.RenderHeader(layout.HeaderInfo{
		Title:     active.Title(),
		LangBadge: str.LangBadge,
		Dark:      m.state.Theme == prefs.ThemeDark,
	}, m.width)

	var hints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	}
	var footer string
	if !m.state.CameraOpen {
		hints = append(hints,
			layout.KeyHint{Key: "Tab", Description: str.Navigate},
			layout.KeyHint{Key: "Ctrl+L", Description: str.ToggleLang},
			layout.KeyHint{Key: "Ctrl+T", Description: str.ToggleDark},
		)
		tabs := []string{str.Solver, str.History, str.Favorites}
		footer = layout.RenderTabs(tabs, int(m.state.Tab), m.width) + "\n"
	}
	hints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: str.Quit})
	footer += layout.RenderFooter(hints, m.width)

	var banner string
	if m.state.Err != nil && !m.state.CameraOpen {
		b := components.ErrorBanner{
			Icon:       errorIcon(m.state.Err.Type),
			Title:      str.ProblemEncountered,
			Message:    m.state.Err.Message,
			Dismiss:    str.Dismiss,
			DismissKey: "esc",
		}
		if m.state.CanRetry() {
			b.RetryLabel = str.Retry
			b.RetryKey = "ctrl+r"
		}
		banner = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, b.View(min(m.width-4, 100))) + "\n"
	}

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer)-lipgloss.Height(banner), 0)
	content := banner + m.router.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	v.BackgroundColor = theme.Bg
	return v
}

// Run starts the Bubble Tea program.
func Run(ctx context.Context, deps Deps, initial State) error {
	p := tea.NewProgram(New(deps, initial), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
