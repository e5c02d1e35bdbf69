package solver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathsnap/internal/history"
	"github.com/abhisek/mathsnap/internal/kv"
	"github.com/abhisek/mathsnap/internal/llm"
	"github.com/abhisek/mathsnap/internal/solution"
)

const linearAnswer = `{"problem":"2x + 5 = 15","steps":["Subtract 5","Divide by 2"],"finalAnswer":"x = 5","category":"Algebra"}`

func newService(t *testing.T, text, vision *llm.MockProvider) (*Service, *history.Store) {
	t.Helper()
	records := history.NewStore(kv.NewMemory())
	collab := NewLLMCollaborator(text, vision, 0)
	return NewService(collab, records), records
}

func TestSolveText_EndToEnd(t *testing.T) {
	text := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(linearAnswer)})
	svc, records := newService(t, text, llm.NewMockProvider())
	ctx := context.Background()

	sol, err := svc.SolveText(ctx, "2x + 5 = 15", "English")
	require.NoError(t, err)
	assert.Equal(t, "x = 5", sol.FinalAnswer)

	items := records.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "2x + 5 = 15", items[0].Problem)
	assert.Equal(t, sol, items[0].Solution)
	assert.False(t, items[0].IsFavorite)

	// Re-submitting the same problem replaces the answer in place.
	first := items[0]
	time.Sleep(2 * time.Millisecond)
	text.AddResponse(llm.MockResponse{Content: json.RawMessage(
		`{"problem":"2x + 5 = 15","steps":["Rearrange"],"finalAnswer":"x=5","category":"Algebra"}`)})

	_, err = svc.SolveText(ctx, "  2x + 5 = 15 ", "English")
	require.NoError(t, err)

	items = records.Items()
	require.Len(t, items, 1)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, "x=5", items[0].Solution.FinalAnswer)
	assert.Greater(t, items[0].Timestamp, first.Timestamp)
}

func TestSolveText_Request(t *testing.T) {
	text := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(linearAnswer)})
	svc, _ := newService(t, text, llm.NewMockProvider())

	_, err := svc.SolveText(context.Background(), "2x + 5 = 15", "Hindi")
	require.NoError(t, err)

	require.Equal(t, 1, text.CallCount())
	req := text.Calls[0]
	assert.Equal(t, `Solve this math problem step-by-step in Hindi: "2x + 5 = 15"`, req.Messages[0].Content)
	assert.Equal(t, DefaultThinkingBudget, req.ThinkingBudget)
	assert.Same(t, solution.Schema, req.Schema)
}

func TestSolveText_BlankIsRejected(t *testing.T) {
	text := llm.NewMockProvider()
	svc, records := newService(t, text, llm.NewMockProvider())

	for _, p := range []string{"", "   ", "\n\t"} {
		_, err := svc.SolveText(context.Background(), p, "English")
		require.ErrorIs(t, err, ErrEmptyProblem)
	}
	assert.Equal(t, 0, text.CallCount())
	assert.Empty(t, records.Items())
}

func TestSolveText_FailureIsClassified(t *testing.T) {
	text := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("quota")}})
	svc, records := newService(t, text, llm.NewMockProvider())

	_, err := svc.SolveText(context.Background(), "1+1", "English")
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrAPILimit, appErr.Type)
	assert.False(t, appErr.Retryable())
	assert.Empty(t, records.Items())
}

func TestSolveText_MissingFieldIsOCRFailure(t *testing.T) {
	text := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"problem":"1+1","steps":["add"]}`)})
	svc, _ := newService(t, text, llm.NewMockProvider())

	_, err := svc.SolveText(context.Background(), "1+1", "English")
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrOCRFailed, appErr.Type)
}

func TestSolveImage(t *testing.T) {
	vision := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(linearAnswer)})
	svc, records := newService(t, llm.NewMockProvider(), vision)
	payload := base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8, 0xff, 0xe0})

	sol, err := svc.SolveImage(context.Background(), payload, "English")
	require.NoError(t, err)
	assert.Equal(t, "2x + 5 = 15", sol.Problem)
	require.Len(t, records.Items(), 1)

	req := vision.Calls[0]
	assert.Equal(t, "Extract and solve the math problem in this image. Provide a step-by-step solution in English.", req.Messages[0].Content)
	require.Len(t, req.Messages[0].Images, 1)
	assert.Equal(t, ImageMIMEType, req.Messages[0].Images[0].MIMEType)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff, 0xe0}, req.Messages[0].Images[0].Data)
	assert.Zero(t, req.ThinkingBudget)
}

func TestSolveImage_BadPayloads(t *testing.T) {
	vision := llm.NewMockProvider()
	svc, _ := newService(t, llm.NewMockProvider(), vision)

	for _, payload := range []string{"", "data:image/jpeg;base64,???"} {
		_, err := svc.SolveImage(context.Background(), payload, "English")
		var appErr *AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, ErrOCRFailed, appErr.Type)
	}
	assert.Equal(t, 0, vision.CallCount())
}

// blockingCollaborator waits for ctx to end.
type blockingCollaborator struct{}

func (blockingCollaborator) SolveText(ctx context.Context, _, _ string) (solution.MathSolution, error) {
	<-ctx.Done()
	return solution.MathSolution{}, ctx.Err()
}

func (blockingCollaborator) AnalyzeImage(ctx context.Context, _, _, _ string) (solution.MathSolution, error) {
	<-ctx.Done()
	return solution.MathSolution{}, ctx.Err()
}

func TestSolve_Timeout(t *testing.T) {
	svc := NewService(blockingCollaborator{}, nil, WithTimeout(10*time.Millisecond))

	_, err := svc.SolveText(context.Background(), "1+1", "English")
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrNetwork, appErr.Type)
	assert.True(t, appErr.Retryable())
}

func TestSolve_CallerCancellation(t *testing.T) {
	svc := NewService(blockingCollaborator{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.SolveImage(ctx, "AAAA", "English")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

// failingKV rejects writes.
type failingKV struct{ kv.Memory }

func (*failingKV) Set(context.Context, string, string) error { return errors.New("disk full") }

func TestSolve_RecordFailureStillReturnsSolution(t *testing.T) {
	records := history.NewStore(&failingKV{})
	text := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(linearAnswer)})
	svc := NewService(NewLLMCollaborator(text, nil, -1), records)

	sol, err := svc.SolveText(context.Background(), "2x + 5 = 15", "English")
	require.NoError(t, err)
	assert.Equal(t, "x = 5", sol.FinalAnswer)
	assert.Zero(t, text.Calls[0].ThinkingBudget, "negative budget disables thinking")
}
