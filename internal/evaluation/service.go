package evaluation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codeeditor/internal/exec"
	"codeeditor/internal/metrics"
	"codeeditor/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MessageRunPassed      = "All visible test cases passed"
	MessageSomeFailed     = "Some test cases failed"
	MessageSubmitRecorded = "All test cases passed. Submission recorded."
	MessageSubmitNotSaved = "All test cases passed, but the submission could not be saved"
)

type QuestionStore interface {
	SolvedMarker
	GetByID(ctx context.Context, id string) (*models.Question, error)
}

// Limiter enforces the per-client submit cooldown. A nil Limiter disables it.
// Reset releases a window taken by a submit that ended in a backend error.
type Limiter interface {
	Acquire(ctx context.Context, clientID string) error
	Reset(ctx context.Context, clientID string) error
}

// Caller identifies who asked for an evaluation. UserID is nil for
// anonymous requests; ClientID keys the cooldown.
type Caller struct {
	UserID   *string
	ClientID string
}

type Service struct {
	questions QuestionStore
	executor  Executor
	evaluator *Evaluator
	gate      *Gate
	limiter   Limiter
	logger    *zap.Logger
}

func NewService(questions QuestionStore, submissions SubmissionWriter, executor Executor, limiter Limiter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		questions: questions,
		executor:  executor,
		evaluator: NewEvaluator(executor, logger),
		gate:      NewGate(submissions, questions),
		limiter:   limiter,
		logger:    logger,
	}
}

// Evaluate runs the selected test cases of a question and records a
// submission when a submit passes every case. Results for hidden cases
// are redacted before they are returned.
func (s *Service) Evaluate(ctx context.Context, req models.EvaluateRequest, caller Caller) (*models.EvaluateResponse, error) {
	if !s.executor.Supports(req.Language) {
		return nil, fmt.Errorf("%w: %s", exec.ErrUnsupportedLanguage, req.Language)
	}
	if !ValidRunMode(req.RunType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRunMode, req.RunType)
	}

	question, err := s.questions.GetByID(ctx, req.QuestionID)
	if err != nil {
		return nil, err
	}
	if !questionAccepts(question, req.Language) {
		return nil, fmt.Errorf("%w: %s is not enabled for question %s", exec.ErrUnsupportedLanguage, req.Language, question.ID)
	}

	cases, err := SelectTestCases(question.TestCases, req.RunType)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := s.logger.With(
		zap.String("run_id", runID),
		zap.String("question_id", question.ID),
		zap.String("language", req.Language),
		zap.String("run_type", string(req.RunType)),
	)

	limited := req.RunType == models.RunModeSubmit && s.limiter != nil
	if limited {
		if err := s.limiter.Acquire(ctx, caller.ClientID); err != nil {
			return nil, err
		}
	}

	log.Info("evaluating", zap.Int("cases", len(cases)))

	results, allPassed, err := s.evaluator.Evaluate(ctx, cases, req.Code, req.Language)
	if err != nil {
		metrics.ObserveEvaluation(string(req.RunType), "error")
		if limited {
			// no verdict was produced, release the window
			if resetErr := s.limiter.Reset(context.WithoutCancel(ctx), caller.ClientID); resetErr != nil {
				log.Warn("failed to release submit cooldown", zap.Error(resetErr))
			}
		}
		return nil, err
	}

	resp := &models.EvaluateResponse{
		Results:   redact(results),
		AllPassed: allPassed,
		Message:   MessageSomeFailed,
	}
	if allPassed {
		resp.Message = MessageRunPassed
		metrics.ObserveEvaluation(string(req.RunType), "passed")
	} else {
		metrics.ObserveEvaluation(string(req.RunType), "failed")
	}

	submission, err := s.gate.MaybeRecord(ctx, Attempt{
		RunMode:    req.RunType,
		AllPassed:  allPassed,
		QuestionID: question.ID,
		UserID:     caller.UserID,
		Code:       req.Code,
		Language:   req.Language,
		TimeSpent:  req.TimeSpent,
	})
	switch {
	case errors.Is(err, ErrPersistence):
		log.Error("submission not saved", zap.Error(err))
		resp.Message = MessageSubmitNotSaved
	case errors.Is(err, ErrMarkSolved) && submission != nil:
		log.Warn("submission recorded but question not marked solved",
			zap.String("submission_id", submission.ID), zap.Error(err))
		resp.Message = MessageSubmitRecorded
	case err != nil:
		return nil, err
	case submission != nil:
		log.Info("submission recorded", zap.String("submission_id", submission.ID))
		resp.Message = MessageSubmitRecorded
	}

	return resp, nil
}

// questionAccepts reports whether language is enabled for q. An empty
// Languages list enables every language the runner supports.
func questionAccepts(q *models.Question, language string) bool {
	if len(q.Languages) == 0 {
		return true
	}
	for _, l := range q.Languages {
		if strings.EqualFold(l, language) {
			return true
		}
	}
	return false
}

func redact(results []models.EvaluationResult) []models.EvaluationResult {
	out := make([]models.EvaluationResult, len(results))
	for i, r := range results {
		out[i] = r.Redacted()
	}
	return out
}
