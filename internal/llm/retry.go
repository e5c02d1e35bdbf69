package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient failures with capped exponential
// backoff and ±20% jitter. Each attempt's ctx carries its attempt number
// for the logging layer below.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps p. A MaxAttempts below one means a single attempt.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)
	var policy retryPolicy

	for n := 1; ; n++ {
		resp, err := r.inner.Generate(withAttempt(ctx, n), req)
		if err == nil {
			return resp, nil
		}
		if n == attempts || !policy.allows(err) {
			return nil, err
		}

		t := time.NewTimer(r.wait(n-1, err))
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// retryPolicy decides per failure whether another attempt may help.
// Invalid responses get a single retry per Generate call.
type retryPolicy struct {
	invalidSeen bool
}

func (p *retryPolicy) allows(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var (
		maxTok  *ErrMaxTokensExceeded
		blocked *ErrSafetyBlocked
		empty   *ErrEmptyResponse
		invalid *ErrInvalidResponse
	)
	switch {
	case errors.As(err, &maxTok), errors.As(err, &blocked), errors.As(err, &empty):
		// Deterministic: the same request fails the same way.
		return false
	case errors.As(err, &invalid):
		if p.invalidSeen {
			return false
		}
		p.invalidSeen = true
		return true
	}

	// Rate limits, outages and plain network errors.
	return true
}

// wait returns the pause after the given 0-based attempt. A rate limit
// with a RetryAfter hint overrides the backoff.
func (r *RetryProvider) wait(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	d := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	d = math.Min(d, float64(r.config.MaxWait))
	d += d * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(d, 0))
}
