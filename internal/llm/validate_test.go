package llm

import (
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-solution",
		Description: "A worked solution",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"problem":     map[string]any{"type": "string"},
				"steps":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "minItems": 1},
				"finalAnswer": map[string]any{"type": "string"},
				"category":    map[string]any{"type": "string", "enum": []any{"Algebra", "Geometry", "Arithmetic"}},
			},
			"required": []any{"problem", "steps", "finalAnswer"},
		},
	}
}

func TestStructuredContent(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"problem":"2x+5=15","steps":["subtract 5","divide by 2"],"finalAnswer":"x = 5","category":"Algebra"}`, false},
		{"optional omitted", `{"problem":"1+1","steps":["add"],"finalAnswer":"2"}`, false},
		{"extra fields allowed", `{"problem":"1+1","steps":["add"],"finalAnswer":"2","confidence":0.9}`, false},
		{"fenced", "```json\n{\"problem\":\"1+1\",\"steps\":[\"add\"],\"finalAnswer\":\"2\"}\n```", false},
		{"missing required", `{"problem":"1+1","steps":["add"]}`, true},
		{"wrong item type", `{"problem":"1+1","steps":[1,2],"finalAnswer":"2"}`, true},
		{"empty steps", `{"problem":"1+1","steps":[],"finalAnswer":"2"}`, true},
		{"invalid enum", `{"problem":"1+1","steps":["add"],"finalAnswer":"2","category":"Poetry"}`, true},
		{"malformed json", `{not json}`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := structuredContent(testSchema(), tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("structuredContent() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invErr *ErrInvalidResponse
				if !errors.As(err, &invErr) {
					t.Fatalf("expected ErrInvalidResponse, got: %T", err)
				}
			}
		})
	}
}

func TestStructuredContent_NilSchema(t *testing.T) {
	got, err := structuredContent(nil, `{"anything":"goes"}`)
	if err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
	if string(got) != `{"anything":"goes"}` {
		t.Fatalf("content = %s", got)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}```", `{"a":1}`},
		{"  ```JSON\n {\"a\":1} \n```  ", `{"a":1}`},
		{"```{\"a\":1}```", "```{\"a\":1}```"},
	}
	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
