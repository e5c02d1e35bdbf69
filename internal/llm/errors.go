package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limit exceeded (429, retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the LLM returned content that does not
// conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response, cannot parse json: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable (network): %v", e.Err)
	}
	return "LLM provider unavailable (network)"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// ErrSafetyBlocked indicates the prompt or the generated candidate was
// refused by the provider's safety filters.
type ErrSafetyBlocked struct {
	Reason string
}

func (e *ErrSafetyBlocked) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("content blocked by safety filters: %s", e.Reason)
	}
	return "content blocked by safety filters"
}

// ErrEmptyResponse indicates the provider answered without any content.
type ErrEmptyResponse struct{}

func (e *ErrEmptyResponse) Error() string {
	return "empty LLM response, nothing to parse"
}
