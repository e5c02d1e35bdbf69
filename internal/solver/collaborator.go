package solver

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/abhisek/mathsnap/internal/llm"
	"github.com/abhisek/mathsnap/internal/solution"
)

const (
	// Purpose labels recorded in the LLM event log.
	PurposeSolveText  = "solve-text"
	PurposeSolveImage = "solve-image"

	// DefaultThinkingBudget is the reasoning budget for text problems.
	DefaultThinkingBudget = 4000

	// ImageMIMEType is the only image format sent to the collaborator.
	ImageMIMEType = "image/jpeg"
)

// Collaborator solves problems on behalf of the Service.
type Collaborator interface {
	// SolveText solves a typed problem, explaining in language.
	SolveText(ctx context.Context, problem, language string) (solution.MathSolution, error)

	// AnalyzeImage reads and solves the problem in a base64 image.
	AnalyzeImage(ctx context.Context, imageBase64, mimeType, language string) (solution.MathSolution, error)
}

// LLMCollaborator implements Collaborator with LLM providers: one for text
// reasoning and one with vision for photos.
type LLMCollaborator struct {
	text           llm.Provider
	vision         llm.Provider
	thinkingBudget int
}

var _ Collaborator = (*LLMCollaborator)(nil)

// NewLLMCollaborator creates a collaborator. A thinkingBudget of zero uses
// DefaultThinkingBudget; a negative value disables it.
func NewLLMCollaborator(text, vision llm.Provider, thinkingBudget int) *LLMCollaborator {
	if thinkingBudget == 0 {
		thinkingBudget = DefaultThinkingBudget
	}
	return &LLMCollaborator{text: text, vision: vision, thinkingBudget: max(thinkingBudget, 0)}
}

func textPrompt(problem, language string) string {
	return fmt.Sprintf("Solve this math problem step-by-step in %s: \"%s\"", language, problem)
}

func imagePrompt(language string) string {
	return fmt.Sprintf("Extract and solve the math problem in this image. Provide a step-by-step solution in %s.", language)
}

func (c *LLMCollaborator) SolveText(ctx context.Context, problem, language string) (solution.MathSolution, error) {
	ctx = llm.WithPurpose(ctx, PurposeSolveText)

	resp, err := c.text.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: textPrompt(problem, language)},
		},
		Schema:         solution.Schema,
		ThinkingBudget: c.thinkingBudget,
	})
	if err != nil {
		return solution.MathSolution{}, fmt.Errorf("solve text: %w", err)
	}
	return solution.Decode(resp.Content)
}

func (c *LLMCollaborator) AnalyzeImage(ctx context.Context, imageBase64, mimeType, language string) (solution.MathSolution, error) {
	ctx = llm.WithPurpose(ctx, PurposeSolveImage)

	data, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return solution.MathSolution{}, fmt.Errorf("parse image payload: %w", err)
	}

	resp, err := c.vision.Generate(ctx, llm.Request{
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: imagePrompt(language),
			Images:  []llm.Image{{MIMEType: mimeType, Data: data}},
		}},
		Schema: solution.Schema,
	})
	if err != nil {
		return solution.MathSolution{}, fmt.Errorf("analyze image: %w", err)
	}
	return solution.Decode(resp.Content)
}
