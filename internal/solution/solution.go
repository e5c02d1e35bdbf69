// Package solution defines the worked solution returned by the solving
// collaborator and the JSON schema the collaborator must answer with.
package solution

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/mathsnap/internal/llm"
)

// MathSolution is a solved problem. Values are immutable once produced.
type MathSolution struct {
	// Problem is the problem as understood by the solver. For photos this
	// is the recognised text.
	Problem string `json:"problem"`

	// Steps are the ordered explanation steps.
	Steps []string `json:"steps"`

	// FinalAnswer is the result, e.g. "x = 5".
	FinalAnswer string `json:"finalAnswer"`

	// Category is a free-form label such as "Algebra".
	Category string `json:"category"`
}

// Schema is the structured-output schema requested from the provider.
var Schema = &llm.Schema{
	Name:        "math-solution",
	Description: "A math problem with a step-by-step solution and the final answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"problem": map[string]any{
				"type":        "string",
				"description": "The math problem being solved, restated as plain text",
			},
			"steps": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Ordered solution steps, one short explanation per step",
			},
			"finalAnswer": map[string]any{
				"type":        "string",
				"description": "The final answer, e.g. \"x = 5\"",
			},
			"category": map[string]any{
				"type":        "string",
				"description": "Topic of the problem, e.g. Algebra, Geometry, Calculus, Arithmetic",
			},
		},
		"required": []any{"problem", "steps", "finalAnswer", "category"},
	},
}

// ErrEmptySolution is returned by Decode for an empty provider response.
var ErrEmptySolution = errors.New("empty solution response, nothing to parse")

// Decode parses a provider response into a MathSolution. Unknown fields are
// ignored. Error messages mention parsing so callers classify them as
// unreadable input.
func Decode(raw json.RawMessage) (MathSolution, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return MathSolution{}, ErrEmptySolution
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return MathSolution{}, fmt.Errorf("parse solution json: %w", err)
	}
	for _, field := range []string{"problem", "steps", "finalAnswer", "category"} {
		if _, ok := probe[field]; !ok {
			return MathSolution{}, fmt.Errorf("parse solution json: missing field %q", field)
		}
	}

	var sol MathSolution
	if err := json.Unmarshal(raw, &sol); err != nil {
		return MathSolution{}, fmt.Errorf("parse solution json: %w", err)
	}
	return sol, nil
}

// Key is the de-duplication key for a problem text: surrounding whitespace
// is ignored, everything else (case, punctuation, inner spacing) is
// significant.
func Key(problem string) string {
	return strings.TrimSpace(problem)
}
