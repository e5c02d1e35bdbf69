package llm

import "strings"

// ModelCost holds per-million-token pricing for a model.
type ModelCost struct {
	InputPerMTok  float64 // USD per 1M input tokens
	OutputPerMTok float64 // USD per 1M output tokens
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
// Vendor-qualified OpenRouter IDs ("google/gemini-3-pro-preview") and
// "models/" prefixed Gemini IDs resolve to the bare model.
func LookupCost(modelID string) *ModelCost {
	id := strings.TrimPrefix(modelID, "models/")
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	if c, ok := modelCosts[id]; ok {
		return &c
	}
	return nil
}

// modelCosts lists USD prices for the models the solver defaults to and
// their common alternatives.
var modelCosts = map[string]ModelCost{
	"gemini-3-pro-preview":   {InputPerMTok: 2, OutputPerMTok: 12},
	"gemini-3-flash-preview": {InputPerMTok: 0.5, OutputPerMTok: 3},
	"gemini-2.5-pro":         {InputPerMTok: 1.25, OutputPerMTok: 10},
	"gemini-2.5-flash":       {InputPerMTok: 0.3, OutputPerMTok: 2.5},
	"gemini-2.5-flash-lite":  {InputPerMTok: 0.1, OutputPerMTok: 0.4},
	"gemini-2.0-flash":       {InputPerMTok: 0.1, OutputPerMTok: 0.4},

	"claude-sonnet-4-5":          {InputPerMTok: 3, OutputPerMTok: 15},
	"claude-sonnet-4-5-20250929": {InputPerMTok: 3, OutputPerMTok: 15},
	"claude-haiku-4-5":           {InputPerMTok: 1, OutputPerMTok: 5},
	"claude-haiku-4.5":           {InputPerMTok: 1, OutputPerMTok: 5},
	"claude-haiku-4-5-20251001":  {InputPerMTok: 1, OutputPerMTok: 5},
	"claude-opus-4-5":            {InputPerMTok: 5, OutputPerMTok: 25},

	"gpt-4o":       {InputPerMTok: 2.5, OutputPerMTok: 10},
	"gpt-4o-mini":  {InputPerMTok: 0.15, OutputPerMTok: 0.6},
	"gpt-4.1":      {InputPerMTok: 2, OutputPerMTok: 8},
	"gpt-4.1-mini": {InputPerMTok: 0.4, OutputPerMTok: 1.6},
	"gpt-5":        {InputPerMTok: 1.25, OutputPerMTok: 10},
	"gpt-5-mini":   {InputPerMTok: 0.25, OutputPerMTok: 2},
}
