// Package capture implements the photo capture flow: a first-use tutorial,
// a 3-2-1 countdown, a single JPEG capture with a brief flash pulse and
// optional torch control. Camera hardware is reached through the
// VideoSource and Track interfaces so the flow runs against any frame
// provider.
package capture

import (
	"context"
	"errors"
	"image"
	"time"
)

const (
	// TutorialMarkerKey is the kv key set once the tutorial was completed.
	TutorialMarkerKey = "camera_tutorial_seen"

	// TutorialSteps is the number of tutorial tips.
	TutorialSteps = 3

	// CountdownStart is the countdown value set by the shutter.
	CountdownStart = 3

	// CountdownInterval is the time between countdown ticks.
	CountdownInterval = time.Second

	// FlashPulse is how long the capture flash is shown.
	FlashPulse = 150 * time.Millisecond
)

// ErrCameraUnavailable wraps stream acquisition failures. It is fatal for
// the session.
var ErrCameraUnavailable = errors.New("camera unavailable")

// VideoSource acquires a video stream. Sources prefer a rear-facing
// camera when they have a choice.
type VideoSource interface {
	Acquire(ctx context.Context) (Track, error)
}

// Track is an acquired video stream. A stopped track is never reused.
type Track interface {
	// Frame returns the current frame at native resolution.
	Frame() (image.Image, error)

	// TorchCapable reports whether ApplyTorch is supported.
	TorchCapable() bool

	// ApplyTorch switches the torch on or off.
	ApplyTorch(ctx context.Context, on bool) error

	// Stop releases the stream. It is safe to call more than once.
	Stop()
}

// FrameEncoder rasterizes a frame into a data URL.
type FrameEncoder interface {
	EncodeDataURL(img image.Image) (string, error)
}
