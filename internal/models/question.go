package models

import (
	"encoding/json"
	"strings"
	"time"
)

type Question struct {
	ID          string            `json:"id" bson:"_id"` // uuid
	Title       string            `json:"title" bson:"title"`
	Slug        string            `json:"slug" bson:"slug"`
	Description string            `json:"description" bson:"description"`
	Difficulty  Difficulty        `json:"difficulty" bson:"difficulty"`
	TopicTags   []string          `json:"topicTags,omitempty" bson:"topicTags,omitempty"`
	Languages   []string          `json:"languages,omitempty" bson:"languages,omitempty"` // supported language tags, empty means all
	TestCases   []TestCase        `json:"testCases" bson:"testCases"`
	Solution    map[string]string `json:"solution,omitempty" bson:"solution,omitempty"` // language -> code

	Solved    bool      `json:"solved" bson:"solved"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// ParseDifficulty matches case-insensitively and returns the canonical value.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, true
	case "medium":
		return Medium, true
	case "hard":
		return Hard, true
	}
	return "", false
}

// single testcase
type TestCase struct {
	Input  string `json:"input" bson:"input"`
	Output string `json:"output" bson:"output"`
	Hidden bool   `json:"hidden" bson:"hidden"`
}

// UnmarshalJSON also accepts the older "isHidden" key sent by the admin form.
func (tc *TestCase) UnmarshalJSON(data []byte) error {
	var raw struct {
		Input    string `json:"input"`
		Output   string `json:"output"`
		Hidden   *bool  `json:"hidden"`
		IsHidden *bool  `json:"isHidden"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	tc.Input = raw.Input
	tc.Output = raw.Output
	tc.Hidden = false
	if raw.Hidden != nil {
		tc.Hidden = *raw.Hidden
	} else if raw.IsHidden != nil {
		tc.Hidden = *raw.IsHidden
	}
	return nil
}

// Validate checks the fields an admin must supply when creating or replacing a question.
func (q *Question) Validate() error {
	var details []ValidationErrorDetail
	if strings.TrimSpace(q.Title) == "" {
		details = append(details, ValidationErrorDetail{Field: "title", Reason: "required"})
	}
	if d, ok := ParseDifficulty(string(q.Difficulty)); ok {
		q.Difficulty = d
	} else {
		details = append(details, ValidationErrorDetail{Field: "difficulty", Reason: "must be one of: Easy, Medium, Hard"})
	}
	if len(q.TestCases) == 0 {
		details = append(details, ValidationErrorDetail{Field: "testCases", Reason: "at least one test case is required"})
	}
	if len(q.TopicTags) > 10 {
		details = append(details, ValidationErrorDetail{Field: "topicTags", Reason: "at most 10 tags"})
	}
	if len(details) > 0 {
		return &ErrorResponse{
			Code:    "validation_error",
			Message: "invalid question",
			Details: details,
		}
	}
	return nil
}

// Public returns a copy safe to show to non-admin callers: hidden test cases
// are dropped and stored solutions are removed.
func (q Question) Public() Question {
	visible := make([]TestCase, 0, len(q.TestCases))
	for _, tc := range q.TestCases {
		if !tc.Hidden {
			visible = append(visible, tc)
		}
	}
	q.TestCases = visible
	q.Solution = nil
	return q
}

// MarkDoneRequest is the body of PUT /api/questions/{id}/done.
type MarkDoneRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

func (r *MarkDoneRequest) Validate() error {
	var details []ValidationErrorDetail
	if strings.TrimSpace(r.Code) == "" {
		details = append(details, ValidationErrorDetail{Field: "code", Reason: "required"})
	}
	if strings.TrimSpace(r.Language) == "" {
		details = append(details, ValidationErrorDetail{Field: "language", Reason: "required"})
	}
	if len(details) > 0 {
		return &ErrorResponse{Code: "invalid_request", Message: "invalid request", Details: details}
	}
	return nil
}
