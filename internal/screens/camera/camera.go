// Package camera is the full-screen capture overlay. It drives a
// capture.Session with tea.Tick timers; every timer message carries the
// session generation so messages from a closed overlay are dropped.
package camera

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathsnap/internal/capture"
	"github.com/abhisek/mathsnap/internal/screen"
	"github.com/abhisek/mathsnap/internal/ui/i18n"
	"github.com/abhisek/mathsnap/internal/ui/layout"
	"github.com/abhisek/mathsnap/internal/ui/theme"
)

// CapturedMsg carries the base64 JPEG of a completed capture.
type CapturedMsg struct{ Payload string }

// ClosedMsg reports that the user closed the overlay without capturing.
type ClosedMsg struct{}

type openedMsg struct {
	gen uint64
	err error
}

type tickMsg struct{ gen uint64 }

type flashDoneMsg struct{ gen uint64 }

// refreshMsg re-renders after a background session change.
type refreshMsg struct{ gen uint64 }

var generation atomic.Uint64

// Screen implements screen.Overlay for the camera.
type Screen struct {
	session  *capture.Session
	gen      uint64
	strings  i18n.Strings
	interval time.Duration
	source   string
}

var _ screen.Overlay = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the overlay for session. interval is the countdown step;
// source describes the frame source for display.
func New(session *capture.Session, str i18n.Strings, interval time.Duration, source string) *Screen {
	if interval <= 0 {
		interval = capture.CountdownInterval
	}
	return &Screen{
		session:  session,
		gen:      generation.Add(1),
		strings:  str,
		interval: interval,
		source:   source,
	}
}

// Generation identifies this overlay instance in timer messages.
func (s *Screen) Generation() uint64 { return s.gen }

// Session returns the driven capture session.
func (s *Screen) Session() *capture.Session { return s.session }

func (s *Screen) Init() tea.Cmd {
	gen, session := s.gen, s.session
	return func() tea.Msg {
		return openedMsg{gen: gen, err: session.Open(context.Background())}
	}
}

// Dismiss tears the session down; pending timers become no-ops.
func (s *Screen) Dismiss() {
	s.session.Teardown()
}

func (s *Screen) Title() string {
	return s.strings.Camera
}

func (s *Screen) KeyHints() []layout.KeyHint {
	st := s.session.Snapshot()
	switch {
	case st.Err != nil:
		return []layout.KeyHint{{Key: "Esc", Description: s.strings.Close}}
	case st.Phase == capture.PhaseTutorial:
		label := s.strings.NextTip
		if st.TutorialStep == capture.TutorialSteps-1 {
			label = s.strings.StartSolving
		}
		return []layout.KeyHint{{Key: "Enter", Description: label}}
	case st.Phase == capture.PhaseIdle && !st.Flashing:
		hints := []layout.KeyHint{
			{Key: "Space", Description: s.strings.Capture},
			{Key: "?", Description: s.strings.Help},
			{Key: "Esc", Description: s.strings.Close},
		}
		if st.HasFlash {
			hints = append(hints, layout.KeyHint{Key: "F", Description: s.strings.Flash})
		}
		return hints
	}
	return nil
}

func (s *Screen) tick() tea.Cmd {
	gen := s.gen
	return tea.Tick(s.interval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case openedMsg, refreshMsg:
		return s, nil

	case tickMsg:
		if msg.gen != s.gen {
			return s, nil
		}
		if s.session.Tick() {
			gen := s.gen
			flash := tea.Tick(capture.FlashPulse, func(time.Time) tea.Msg { return flashDoneMsg{gen: gen} })
			payload, ok := s.session.CompleteCapture()
			if !ok {
				return s, flash
			}
			return s, tea.Batch(func() tea.Msg { return CapturedMsg{Payload: payload} }, flash)
		}
		if s.session.Snapshot().Phase == capture.PhaseCountdown {
			return s, s.tick()
		}
		return s, nil

	case flashDoneMsg:
		if msg.gen != s.gen {
			return s, nil
		}
		s.session.EndFlash()
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	st := s.session.Snapshot()

	switch msg.String() {
	case "esc", "q":
		if s.session.Close() {
			return s, func() tea.Msg { return ClosedMsg{} }
		}
		return s, nil

	case "enter", "n":
		if st.Phase == capture.PhaseTutorial {
			gen, session := s.gen, s.session
			return s, func() tea.Msg {
				session.NextTip(context.Background())
				return refreshMsg{gen: gen}
			}
		}
		if msg.String() == "enter" && s.session.Shutter() {
			return s, s.tick()
		}

	case "space", "c":
		if s.session.Shutter() {
			return s, s.tick()
		}

	case "?":
		s.session.ShowTutorial()

	case "f":
		gen, session := s.gen, s.session
		return s, func() tea.Msg {
			session.ToggleFlash(context.Background())
			return refreshMsg{gen: gen}
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	st := s.session.Snapshot()
	str := s.strings

	if st.Err != nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Banner.Render("⚠ "+str.CameraDenied+"\n\n"+st.Err.Error()))
	}
	if st.Phase == capture.PhaseOpening {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render(str.OpeningCamera))
	}
	if st.Phase == capture.PhaseTutorial && st.TutorialStep >= 0 && st.TutorialStep < len(str.Tips) {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s.renderTip(st, width))
	}

	return s.renderViewfinder(st, width, height)
}

func (s *Screen) renderTip(st capture.State, width int) string {
	tip := s.strings.Tips[st.TutorialStep]

	dots := make([]string, capture.TutorialSteps)
	for i := range dots {
		dots[i] = "○"
		if i == st.TutorialStep {
			dots[i] = "●"
		}
	}

	label := s.strings.NextTip
	if st.TutorialStep == capture.TutorialSteps-1 {
		label = s.strings.StartSolving
	}

	body := theme.Title.Render(tip.Title) + "\n\n" +
		theme.Body.Width(min(width-10, 60)).Render(tip.Desc) + "\n\n" +
		lipgloss.NewStyle().Foreground(theme.Primary).Render(strings.Join(dots, " ")) + "\n\n" +
		theme.ButtonActive.Render(label)
	return theme.Card.Render(body)
}

func (s *Screen) renderViewfinder(st capture.State, width, height int) string {
	str := s.strings
	boxW := max(min(width-8, 70), 20)
	boxH := max(min(height-6, 16), 6)

	var center string
	switch {
	case st.Countdown > 0:
		center = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).
			Render(fmt.Sprintf("%d", st.Countdown))
	case s.source != "":
		center = theme.Hint.Render(s.source)
	}

	corner := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	inner := boxW - 4
	top := corner.Render("┏━") + strings.Repeat(" ", inner) + corner.Render("━┓")
	bottom := corner.Render("┗━") + strings.Repeat(" ", inner) + corner.Render("━┛")
	middle := lipgloss.Place(boxW, boxH-2, lipgloss.Center, lipgloss.Center, center)
	frame := lipgloss.JoinVertical(lipgloss.Left, top, middle, bottom)

	if st.Flashing {
		frame = lipgloss.NewStyle().Background(theme.Text).Foreground(theme.Bg).Render(frame)
	}

	caption := str.AlignProblem
	if st.Countdown > 0 {
		caption = str.HoldSteady
	}

	flash := ""
	if st.HasFlash {
		flash = "⚡ " + str.Flash + " off"
		if st.FlashOn {
			flash = lipgloss.NewStyle().Foreground(theme.Accent).Render("⚡ " + str.Flash + " on")
		}
	}

	out := lipgloss.JoinVertical(lipgloss.Center,
		theme.Subtitle.Render(caption),
		frame,
		flash,
	)
	if st.CaptureErr != nil {
		out = lipgloss.JoinVertical(lipgloss.Center, out, theme.Banner.Render(st.CaptureErr.Error()))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, out)
}
