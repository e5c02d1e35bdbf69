package solver

import (
	"errors"
	"strings"
)

// ErrorType is the user-facing failure category of a solve request.
type ErrorType string

const (
	ErrNetwork      ErrorType = "NETWORK"
	ErrAPILimit     ErrorType = "API_LIMIT"
	ErrInvalidInput ErrorType = "INVALID_INPUT"
	ErrOCRFailed    ErrorType = "OCR_FAILED"
	ErrUnknown      ErrorType = "UNKNOWN"
)

var errorMessages = map[ErrorType]string{
	ErrNetwork:      "Connection lost. Please check your internet.",
	ErrAPILimit:     "Daily limit reached. Please try again later.",
	ErrInvalidInput: "This content was blocked by safety filters.",
	ErrOCRFailed:    "Could not read the math problem. Try a clearer photo.",
	ErrUnknown:      "Something went wrong. Please try again.",
}

// AppError is a classified solve failure.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// NewAppError builds an AppError of type t with its standard message.
func NewAppError(t ErrorType, err error) *AppError {
	return &AppError{Type: t, Message: errorMessages[t], Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return string(e.Type) + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return string(e.Type) + ": " + e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Retryable reports whether the user should be offered a retry.
func (e *AppError) Retryable() bool {
	return e.Type == ErrNetwork
}

// classification rules, checked in order; the first rule with a matching
// term wins.
var classification = []struct {
	typ   ErrorType
	terms []string
}{
	{ErrNetwork, []string{"fetch", "network", "connection", "dial", "timeout", "deadline exceeded", "no such host"}},
	{ErrAPILimit, []string{"429", "quota", "limit"}},
	{ErrInvalidInput, []string{"safety", "blocked"}},
	{ErrOCRFailed, []string{"parse", "json"}},
}

// Classify maps an arbitrary failure to an AppError by inspecting its
// lower-cased description. An *AppError anywhere in the chain is returned
// as is.
func Classify(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	msg := strings.ToLower(err.Error())
	for _, rule := range classification {
		for _, term := range rule.terms {
			if strings.Contains(msg, term) {
				return NewAppError(rule.typ, err)
			}
		}
	}
	return NewAppError(ErrUnknown, err)
}
