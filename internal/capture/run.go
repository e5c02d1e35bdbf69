package capture

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrCaptureAborted is returned by Run when the countdown ended without a
// frame being captured.
var ErrCaptureAborted = errors.New("capture aborted")

type runConfig struct {
	onCountdown func(n int)
}

// RunOption configures Run.
type RunOption func(*runConfig)

// OnCountdown registers a callback invoked with each countdown value,
// starting at CountdownStart.
func OnCountdown(fn func(n int)) RunOption {
	return func(c *runConfig) { c.onCountdown = fn }
}

// Run drives a session without a UI: it opens the stream if needed, skips
// the tutorial, presses the shutter and ticks every interval until a frame
// is captured. It returns the base64 JPEG payload. Cancelling ctx tears the
// session down.
func Run(ctx context.Context, s *Session, interval time.Duration, opts ...RunOption) (string, error) {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if interval <= 0 {
		interval = CountdownInterval
	}

	if err := s.Open(ctx); err != nil {
		return "", err
	}
	if st := s.Snapshot(); st.Err != nil {
		return "", st.Err
	}
	s.SkipTutorial()

	if !s.Shutter() {
		s.Teardown()
		return "", fmt.Errorf("%w: session is %s", ErrCaptureAborted, s.Snapshot().Phase)
	}
	notify := func() {
		if cfg.onCountdown != nil {
			if n := s.Snapshot().Countdown; n > 0 {
				cfg.onCountdown(n)
			}
		}
	}
	notify()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for captured := false; !captured; {
		select {
		case <-ctx.Done():
			s.Teardown()
			return "", ctx.Err()
		case <-ticker.C:
			if captured = s.Tick(); captured {
				continue
			}
			st := s.Snapshot()
			if st.Phase != PhaseCountdown {
				s.Teardown()
				if st.CaptureErr != nil {
					return "", fmt.Errorf("%w: %w", ErrCaptureAborted, st.CaptureErr)
				}
				return "", ErrCaptureAborted
			}
			notify()
		}
	}

	payload, ok := s.CompleteCapture()
	s.EndFlash()
	if !ok {
		return "", ErrCaptureAborted
	}
	return payload, nil
}
