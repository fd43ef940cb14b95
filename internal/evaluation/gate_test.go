package evaluation

import (
	"context"
	"errors"
	"testing"
	"time"

	"codeeditor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGate(subs *fakeSubmissions, questions *fakeQuestions) *Gate {
	g := NewGate(subs, questions)
	g.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	g.newID = func() string { return "sub-1" }
	return g
}

func TestGateSkipsNonQualifyingAttempts(t *testing.T) {
	for _, a := range []Attempt{
		{RunMode: models.RunModeRun, AllPassed: true, QuestionID: "q1"},
		{RunMode: models.RunModeSubmit, AllPassed: false, QuestionID: "q1"},
		{RunMode: models.RunModeRun, AllPassed: false, QuestionID: "q1"},
	} {
		subs := &fakeSubmissions{}
		questions := &fakeQuestions{questions: map[string]*models.Question{"q1": doublingQuestion()}}

		submission, err := newTestGate(subs, questions).MaybeRecord(context.Background(), a)
		require.NoError(t, err)
		assert.Nil(t, submission)
		assert.Empty(t, subs.created)
		assert.Empty(t, questions.solvedIDs)
	}
}

func TestGateRecordsPassingSubmit(t *testing.T) {
	subs := &fakeSubmissions{}
	questions := &fakeQuestions{questions: map[string]*models.Question{"q1": doublingQuestion()}}
	userID := "42"

	submission, err := newTestGate(subs, questions).MaybeRecord(context.Background(), Attempt{
		RunMode:    models.RunModeSubmit,
		AllPassed:  true,
		QuestionID: "q1",
		UserID:     &userID,
		Code:       "print(2*int(input()))",
		Language:   "python",
		TimeSpent:  95.5,
	})
	require.NoError(t, err)
	require.NotNil(t, submission)
	require.Len(t, subs.created, 1)

	got := subs.created[0]
	assert.Equal(t, "sub-1", got.ID)
	assert.Equal(t, "q1", got.QuestionID)
	assert.Equal(t, "42", *got.UserID)
	assert.True(t, got.Passed)
	assert.Equal(t, 95.5, got.TimeSpent)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), got.CreatedAt)
	assert.Equal(t, []string{"q1"}, questions.solvedIDs)
	assert.True(t, questions.questions["q1"].Solved)
}

func TestGateDoesNotDeduplicate(t *testing.T) {
	subs := &fakeSubmissions{}
	questions := &fakeQuestions{questions: map[string]*models.Question{"q1": doublingQuestion()}}
	gate := newTestGate(subs, questions)
	a := Attempt{RunMode: models.RunModeSubmit, AllPassed: true, QuestionID: "q1", Language: "python"}

	for i := 0; i < 2; i++ {
		_, err := gate.MaybeRecord(context.Background(), a)
		require.NoError(t, err)
	}
	assert.Len(t, subs.created, 2)
	assert.Nil(t, subs.created[0].UserID)
	assert.Equal(t, float64(0), subs.created[0].TimeSpent)
}

func TestGateWrapsStoreFailures(t *testing.T) {
	subs := &fakeSubmissions{createFn: func(*models.Submission) error { return errors.New("mongo down") }}
	questions := &fakeQuestions{questions: map[string]*models.Question{"q1": doublingQuestion()}}

	_, err := newTestGate(subs, questions).MaybeRecord(context.Background(),
		Attempt{RunMode: models.RunModeSubmit, AllPassed: true, QuestionID: "q1"})
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Empty(t, questions.solvedIDs)

	subs = &fakeSubmissions{}
	questions.markSolvedFn = func(string) error { return errors.New("write conflict") }
	submission, err := newTestGate(subs, questions).MaybeRecord(context.Background(),
		Attempt{RunMode: models.RunModeSubmit, AllPassed: true, QuestionID: "q1"})
	assert.ErrorIs(t, err, ErrMarkSolved)
	assert.NotErrorIs(t, err, ErrPersistence)
	assert.NotNil(t, submission)
	assert.Len(t, subs.created, 1)
}
