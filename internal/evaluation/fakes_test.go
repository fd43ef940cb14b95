package evaluation

import (
	"context"
	"strconv"
	"strings"

	"codeeditor/internal/exec"
	"codeeditor/internal/models"
	"codeeditor/internal/repositories"
)

// fakeExecutor answers every stdin with the result of respond.
type fakeExecutor struct {
	languages map[string]bool
	respond   func(stdin string) (exec.Output, error)
	stdins    []string
}

func (f *fakeExecutor) Supports(language string) bool {
	return f.languages[language]
}

func (f *fakeExecutor) Execute(_ context.Context, _ string, _ string, stdin string) (exec.Output, error) {
	f.stdins = append(f.stdins, stdin)
	return f.respond(stdin)
}

func doubling() *fakeExecutor {
	return &fakeExecutor{
		languages: map[string]bool{"python": true, "cpp": true, "java": true},
		respond: func(stdin string) (exec.Output, error) {
			n, _ := strconv.Atoi(strings.TrimSpace(stdin))
			return exec.Output{Stdout: strconv.Itoa(n*2) + "\n"}, nil
		},
	}
}

type fakeQuestions struct {
	questions    map[string]*models.Question
	markSolvedFn func(id string) error
	solvedIDs    []string
}

func (f *fakeQuestions) GetByID(_ context.Context, id string) (*models.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return q, nil
}

func (f *fakeQuestions) MarkSolved(_ context.Context, id string) error {
	if f.markSolvedFn != nil {
		if err := f.markSolvedFn(id); err != nil {
			return err
		}
	}
	f.solvedIDs = append(f.solvedIDs, id)
	if q, ok := f.questions[id]; ok {
		q.Solved = true
	}
	return nil
}

type fakeSubmissions struct {
	createFn func(*models.Submission) error
	created  []*models.Submission
}

func (f *fakeSubmissions) CreateSubmission(_ context.Context, s *models.Submission) error {
	if f.createFn != nil {
		if err := f.createFn(s); err != nil {
			return err
		}
	}
	f.created = append(f.created, s)
	return nil
}

type fakeLimiter struct {
	err     error
	clients []string
	resets  []string
}

func (f *fakeLimiter) Reset(_ context.Context, clientID string) error {
	f.resets = append(f.resets, clientID)
	return nil
}

func (f *fakeLimiter) Acquire(_ context.Context, clientID string) error {
	f.clients = append(f.clients, clientID)
	return f.err
}

func doublingQuestion() *models.Question {
	return &models.Question{
		ID:    "q1",
		Title: "Double It",
		TestCases: []models.TestCase{
			{Input: "1", Output: "2"},
			{Input: "2", Output: "4"},
			{Input: "3", Output: "6", Hidden: true},
		},
	}
}
