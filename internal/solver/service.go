// Package solver orchestrates solve requests: it calls the solving
// collaborator, classifies failures for display and records successful
// solutions in the history.
package solver

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/mathsnap/internal/history"
	"github.com/abhisek/mathsnap/internal/solution"
)

// ErrEmptyProblem is returned when SolveText is given blank input.
var ErrEmptyProblem = errors.New("problem text is empty")

// Service is the solve orchestrator. Calls are independent: concurrent
// solves are not serialized and the last one to finish wins in the
// history.
type Service struct {
	collab  Collaborator
	records *history.Store
	timeout time.Duration
	logger  *zap.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithTimeout bounds each collaborator call. Zero (the default) applies no
// client-side deadline; cancellation then comes only from the caller's
// context.
func WithTimeout(d time.Duration) ServiceOption {
	return func(s *Service) { s.timeout = d }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// NewService creates a Service. records may be nil to skip recording.
func NewService(collab Collaborator, records *history.Store, opts ...ServiceOption) *Service {
	s := &Service{collab: collab, records: records, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SolveText solves a typed problem. Blank input returns ErrEmptyProblem
// without calling the collaborator. Collaborator failures are returned as
// *AppError.
func (s *Service) SolveText(ctx context.Context, problem, language string) (solution.MathSolution, error) {
	if strings.TrimSpace(problem) == "" {
		return solution.MathSolution{}, ErrEmptyProblem
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	sol, err := s.collab.SolveText(ctx, problem, language)
	if err != nil {
		return s.fail("text", err)
	}
	s.record(ctx, sol)
	return sol, nil
}

// SolveImage solves the problem in a base64 JPEG payload (no data URL
// header). The returned solution's Problem is the recognised text.
func (s *Service) SolveImage(ctx context.Context, payload, language string) (solution.MathSolution, error) {
	if payload == "" {
		return solution.MathSolution{}, NewAppError(ErrOCRFailed, errors.New("empty image payload"))
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	sol, err := s.collab.AnalyzeImage(ctx, payload, ImageMIMEType, language)
	if err != nil {
		return s.fail("image", err)
	}
	s.record(ctx, sol)
	return sol, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

func (s *Service) fail(kind string, err error) (solution.MathSolution, error) {
	appErr := Classify(err)
	s.logger.Warn("solve failed",
		zap.String("kind", kind),
		zap.String("type", string(appErr.Type)),
		zap.Error(err))
	return solution.MathSolution{}, appErr
}

// record stores a successful solution. Failures are logged only: the
// solution is still returned to the user.
func (s *Service) record(ctx context.Context, sol solution.MathSolution) {
	if s.records == nil {
		return
	}
	if _, err := s.records.AddOrUpdate(context.WithoutCancel(ctx), sol); err != nil {
		s.logger.Warn("record solution", zap.Error(err))
	}
}
