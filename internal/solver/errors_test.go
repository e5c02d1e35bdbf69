package solver

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/mathsnap/internal/llm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"network timeout", errors.New("network timeout"), ErrNetwork},
		{"failed to fetch", errors.New("TypeError: Failed to fetch"), ErrNetwork},
		{"dial", errors.New("dial tcp 10.0.0.1:443: connect: connection refused"), ErrNetwork},
		{"deadline", context.DeadlineExceeded, ErrNetwork},
		{"quota", errors.New("429 quota exceeded"), ErrAPILimit},
		{"rate limit", errors.New("Rate LIMIT reached"), ErrAPILimit},
		{"safety", errors.New("content blocked by safety"), ErrInvalidInput},
		{"parse", errors.New("failed to parse JSON"), ErrOCRFailed},
		{"unknown", errors.New("boom"), ErrUnknown},

		// Order matters when several terms match.
		{"network beats limit", errors.New("network limit"), ErrNetwork},
		{"limit beats safety", errors.New("quota blocked"), ErrAPILimit},
		{"safety beats parse", errors.New("blocked: could not parse"), ErrInvalidInput},

		// Typed provider errors classify through their messages.
		{"provider unavailable", &llm.ErrProviderUnavailable{Err: errors.New("EOF")}, ErrNetwork},
		{"rate limited", &llm.ErrRateLimit{Err: errors.New("too many requests")}, ErrAPILimit},
		{"safety blocked", &llm.ErrSafetyBlocked{Reason: "SAFETY"}, ErrInvalidInput},
		{"invalid response", &llm.ErrInvalidResponse{Err: errors.New("bad")}, ErrOCRFailed},
		{"empty response", &llm.ErrEmptyResponse{}, ErrOCRFailed},
		{"wrapped", fmt.Errorf("solve text: %w", &llm.ErrSafetyBlocked{}), ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.want, got.Type)
			assert.Equal(t, errorMessages[tt.want], got.Message)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassify_PassesAppErrorThrough(t *testing.T) {
	orig := NewAppError(ErrOCRFailed, errors.New("network"))
	assert.Same(t, orig, Classify(fmt.Errorf("wrapped: %w", orig)))
	assert.Nil(t, Classify(nil))
}

func TestAppError_Retryable(t *testing.T) {
	for typ := range errorMessages {
		e := NewAppError(typ, nil)
		assert.Equal(t, typ == ErrNetwork, e.Retryable(), "type %s", typ)
	}
}
