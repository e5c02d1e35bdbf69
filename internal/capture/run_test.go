package capture

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/abhisek/mathsnap/internal/kv"
)

func TestRun_CapturesAfterCountdown(t *testing.T) {
	defer goleak.VerifyNone(t)

	track := newFakeTrack()
	s := NewSession(&fakeSource{track: track}, kv.NewMemory(),
		WithEncoder(stubEncoder{url: "data:image/jpeg;base64,UEFZ"}))

	var counts []int
	payload, err := Run(context.Background(), s, time.Millisecond, OnCountdown(func(n int) {
		counts = append(counts, n)
	}))
	require.NoError(t, err)
	assert.Equal(t, "UEFZ", payload)
	assert.Equal(t, []int{3, 2, 1}, counts)
	assert.Equal(t, PhaseClosed, s.Snapshot().Phase)
	assert.Equal(t, 1, track.stopCount())
}

func TestRun_SkipsTutorialWithoutPersisting(t *testing.T) {
	defer goleak.VerifyNone(t)

	marker := &countingKV{Memory: kv.NewMemory()}
	s := NewSession(&fakeSource{track: newFakeTrack()}, marker)

	_, err := Run(context.Background(), s, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 0, marker.sets)
}

func TestRun_CameraUnavailable(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewSession(&fakeSource{err: errors.New("no device")}, nil)
	_, err := Run(context.Background(), s, time.Millisecond)
	assert.ErrorIs(t, err, ErrCameraUnavailable)
}

func TestRun_EncodeFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	track := newFakeTrack()
	s := NewSession(&fakeSource{track: track}, nil, WithEncoder(failingEncoder{}))

	_, err := Run(context.Background(), s, time.Millisecond)
	assert.ErrorIs(t, err, ErrCaptureAborted)
	assert.ErrorContains(t, err, "canvas unavailable")
	assert.Equal(t, 1, track.stopCount())
}

func TestRun_CancelTearsDown(t *testing.T) {
	defer goleak.VerifyNone(t)

	track := newFakeTrack()
	s := NewSession(&fakeSource{track: track}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := Run(ctx, s, time.Hour)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, PhaseClosed, s.Snapshot().Phase)
	assert.Equal(t, 1, track.stopCount())
}
