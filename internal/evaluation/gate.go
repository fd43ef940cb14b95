package evaluation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codeeditor/internal/metrics"
	"codeeditor/internal/models"

	"github.com/google/uuid"
)

var (
	ErrPersistence = errors.New("failed to persist submission")
	// ErrMarkSolved means the submission was stored but the question's
	// solved flag was not updated.
	ErrMarkSolved = errors.New("failed to mark question solved")
)

type SubmissionWriter interface {
	CreateSubmission(ctx context.Context, submission *models.Submission) error
}

type SolvedMarker interface {
	MarkSolved(ctx context.Context, questionID string) error
}

// Attempt is everything the gate needs to decide about one evaluation.
type Attempt struct {
	RunMode    models.RunMode
	AllPassed  bool
	QuestionID string
	UserID     *string
	Code       string
	Language   string
	TimeSpent  float64
}

// Gate persists a Submission for fully passing submits and flags the
// question as solved. Every qualifying call writes a new record.
type Gate struct {
	submissions SubmissionWriter
	questions   SolvedMarker
	now         func() time.Time
	newID       func() string
}

func NewGate(submissions SubmissionWriter, questions SolvedMarker) *Gate {
	return &Gate{
		submissions: submissions,
		questions:   questions,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

func ShouldRecord(a Attempt) bool {
	return a.RunMode == models.RunModeSubmit && a.AllPassed
}

// MaybeRecord returns (nil, nil) when the attempt does not qualify. A failed
// insert is wrapped in ErrPersistence and returns no submission; a failed
// solved flag update is wrapped in ErrMarkSolved alongside the stored submission.
func (g *Gate) MaybeRecord(ctx context.Context, a Attempt) (*models.Submission, error) {
	if !ShouldRecord(a) {
		return nil, nil
	}

	submission := &models.Submission{
		ID:         g.newID(),
		QuestionID: a.QuestionID,
		UserID:     a.UserID,
		Code:       a.Code,
		Language:   a.Language,
		TimeSpent:  max(a.TimeSpent, 0),
		Passed:     true,
		CreatedAt:  g.now(),
	}
	if err := g.submissions.CreateSubmission(ctx, submission); err != nil {
		return nil, fmt.Errorf("%w: create submission: %v", ErrPersistence, err)
	}
	metrics.SubmissionsRecorded.Inc()

	if err := g.questions.MarkSolved(ctx, a.QuestionID); err != nil {
		return submission, fmt.Errorf("%w: %v", ErrMarkSolved, err)
	}
	return submission, nil
}
