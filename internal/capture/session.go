package capture

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/mathsnap/internal/kv"
)

// Phase is the coarse state of a capture session.
type Phase int

const (
	// PhaseOpening is the state before the stream has been acquired.
	PhaseOpening Phase = iota
	PhaseIdle
	PhaseTutorial
	PhaseCountdown
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseOpening:
		return "opening"
	case PhaseIdle:
		return "idle"
	case PhaseTutorial:
		return "tutorial"
	case PhaseCountdown:
		return "countdown"
	case PhaseClosed:
		return "closed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is a point-in-time copy of a session for rendering.
type State struct {
	Phase Phase

	// TutorialStep is the current tip index, or -1 when no tip is shown.
	TutorialStep int

	// Countdown is the remaining count, or 0 when no countdown runs.
	Countdown int

	Flashing bool
	HasFlash bool
	FlashOn  bool

	// Err is the fatal acquisition error, if any.
	Err error

	// CaptureErr is the last frame encoding failure.
	CaptureErr error
}

// Session drives one camera overlay from open to capture or close.
// All methods are safe for concurrent use.
type Session struct {
	source  VideoSource
	encoder FrameEncoder
	marker  kv.Store
	logger  *zap.Logger

	mu           sync.Mutex
	phase        Phase
	track        Track
	hasFlash     bool
	flashOn      bool
	countdown    int
	tutorialStep int
	flashing     bool
	err          error
	captureErr   error
	payload      string
	delivered    bool
	markerSaved  bool
	acquiring    bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithEncoder replaces the default JPEG encoder.
func WithEncoder(e FrameEncoder) SessionOption {
	return func(s *Session) { s.encoder = e }
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// NewSession creates a session over source. marker holds the tutorial
// marker; a nil marker skips the tutorial entirely.
func NewSession(source VideoSource, marker kv.Store, opts ...SessionOption) *Session {
	s := &Session{
		source:       source,
		encoder:      JPEGEncoder{},
		marker:       marker,
		logger:       zap.NewNop(),
		tutorialStep: -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open acquires the stream. An acquisition failure is stored as the
// session's fatal error and returned; it wraps ErrCameraUnavailable.
// Calling Open on a session that is not opening is a no-op.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != PhaseOpening || s.acquiring || s.err != nil {
		s.mu.Unlock()
		return nil
	}
	s.acquiring = true
	s.mu.Unlock()

	track, err := s.source.Acquire(ctx)

	seen := true
	if err == nil && s.marker != nil {
		_, ok, merr := s.marker.Get(ctx, TutorialMarkerKey)
		if merr != nil {
			s.logger.Warn("read tutorial marker", zap.Error(merr))
		}
		seen = ok
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.acquiring = false

	if s.phase == PhaseClosed {
		// Closed while acquiring.
		if track != nil {
			track.Stop()
		}
		return nil
	}
	if err != nil {
		s.err = fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
		s.phase = PhaseIdle
		s.logger.Error("acquire camera stream", zap.Error(err))
		return s.err
	}

	s.track = track
	s.hasFlash = track.TorchCapable()
	s.markerSaved = seen
	if seen {
		s.phase = PhaseIdle
	} else {
		s.phase = PhaseTutorial
		s.tutorialStep = 0
	}
	return nil
}

// NextTip advances the tutorial. Leaving the last tip returns to idle and
// persists the tutorial marker the first time.
func (s *Session) NextTip(ctx context.Context) {
	s.mu.Lock()
	if s.err != nil || s.phase != PhaseTutorial {
		s.mu.Unlock()
		return
	}
	if s.tutorialStep < TutorialSteps-1 {
		s.tutorialStep++
		s.mu.Unlock()
		return
	}
	s.tutorialStep = -1
	s.phase = PhaseIdle
	persist := !s.markerSaved && s.marker != nil
	s.markerSaved = true
	s.mu.Unlock()

	if persist {
		if err := s.marker.Set(ctx, TutorialMarkerKey, "true"); err != nil {
			s.logger.Warn("persist tutorial marker", zap.Error(err))
		}
	}
}

// SkipTutorial leaves the tutorial without marking it as seen.
func (s *Session) SkipTutorial() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseTutorial {
		s.tutorialStep = -1
		s.phase = PhaseIdle
	}
}

// ShowTutorial re-enters the tutorial at the first tip.
func (s *Session) ShowTutorial() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil || s.flashing {
		return
	}
	if s.phase != PhaseIdle && s.phase != PhaseTutorial {
		return
	}
	s.phase = PhaseTutorial
	s.tutorialStep = 0
}

// Shutter starts the countdown. It reports whether a countdown started.
func (s *Session) Shutter() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil || s.phase != PhaseIdle || s.flashing || s.track == nil {
		return false
	}
	s.phase = PhaseCountdown
	s.countdown = CountdownStart
	return true
}

// Tick advances the countdown by one step. When it reaches zero the
// current frame is captured and the flash pulse starts. Tick reports
// whether a capture happened; outside a countdown it does nothing.
func (s *Session) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseCountdown {
		return false
	}
	s.countdown--
	if s.countdown > 0 {
		return false
	}

	s.countdown = 0
	s.phase = PhaseIdle

	payload, err := s.captureLocked()
	if err != nil {
		s.captureErr = err
		s.logger.Error("capture frame", zap.Error(err))
		return false
	}
	s.captureErr = nil
	s.payload = payload
	s.flashing = true
	return true
}

func (s *Session) captureLocked() (string, error) {
	frame, err := s.track.Frame()
	if err != nil {
		return "", fmt.Errorf("read frame: %w", err)
	}
	url, err := s.encoder.EncodeDataURL(frame)
	if err != nil {
		return "", err
	}
	return StripDataURL(url), nil
}

// CompleteCapture releases the stream and returns the captured base64
// JPEG. It is called as soon as Tick reports a capture; the flash pulse
// keeps running until EndFlash. The payload is returned at most once.
func (s *Session) CompleteCapture() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delivered || s.payload == "" {
		return "", false
	}
	s.delivered = true
	s.stopLocked()
	s.phase = PhaseClosed
	payload := s.payload
	s.payload = ""
	return payload, true
}

// EndFlash ends the capture flash pulse.
func (s *Session) EndFlash() {
	s.mu.Lock()
	s.flashing = false
	s.mu.Unlock()
}

// ToggleFlash flips the torch. Failures are logged and leave the flag
// unchanged. It reports whether the torch state changed.
func (s *Session) ToggleFlash(ctx context.Context) bool {
	s.mu.Lock()
	if s.err != nil || !s.hasFlash || s.phase != PhaseIdle || s.flashing {
		s.mu.Unlock()
		return false
	}
	want := !s.flashOn
	track := s.track
	s.mu.Unlock()

	if err := track.ApplyTorch(ctx, want); err != nil {
		s.logger.Warn("apply torch", zap.Bool("on", want), zap.Error(err))
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseClosed {
		return false
	}
	s.flashOn = want
	return true
}

// Close releases the stream when no tutorial, countdown or flash is in
// progress. A session with a fatal error can always be closed. It
// reports whether the session closed.
func (s *Session) Close() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseClosed {
		return false
	}
	if s.err == nil {
		if s.flashing || (s.phase != PhaseIdle && s.phase != PhaseOpening) {
			return false
		}
	}
	s.stopLocked()
	s.phase = PhaseClosed
	return true
}

// Teardown stops the stream unconditionally. Pending ticks and flash
// completions become no-ops.
func (s *Session) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.phase = PhaseClosed
	s.countdown = 0
	s.tutorialStep = -1
	s.flashing = false
	s.payload = ""
}

func (s *Session) stopLocked() {
	if s.track != nil {
		s.track.Stop()
		s.track = nil
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Phase:        s.phase,
		TutorialStep: s.tutorialStep,
		Countdown:    s.countdown,
		Flashing:     s.flashing,
		HasFlash:     s.hasFlash,
		FlashOn:      s.flashOn,
		Err:          s.err,
		CaptureErr:   s.captureErr,
	}
}
