package models

import "strings"

// RunMode selects which test cases are executed and whether a passing
// attempt is persisted.
type RunMode string

const (
	RunModeRun    RunMode = "run"
	RunModeSubmit RunMode = "submit"
)

type EvaluateRequest struct {
	Code       string  `json:"code"`
	Language   string  `json:"language"`
	QuestionID string  `json:"questionId"`
	RunType    RunMode `json:"runType"`
	TimeSpent  float64 `json:"timeSpent,omitempty"`
}

// Validate only checks presence and shape. Supported languages and run modes
// are checked by the evaluation service.
func (r *EvaluateRequest) Validate() error {
	var details []ValidationErrorDetail
	if strings.TrimSpace(r.Code) == "" {
		details = append(details, ValidationErrorDetail{Field: "code", Reason: "required"})
	}
	if strings.TrimSpace(r.Language) == "" {
		details = append(details, ValidationErrorDetail{Field: "language", Reason: "required"})
	}
	if strings.TrimSpace(r.QuestionID) == "" {
		details = append(details, ValidationErrorDetail{Field: "questionId", Reason: "required"})
	}
	if strings.TrimSpace(string(r.RunType)) == "" {
		details = append(details, ValidationErrorDetail{Field: "runType", Reason: "required"})
	}
	if r.TimeSpent < 0 {
		details = append(details, ValidationErrorDetail{Field: "timeSpent", Reason: "must not be negative"})
	}
	if len(details) > 0 {
		return &ErrorResponse{Code: "invalid_request", Message: "invalid evaluation request", Details: details}
	}
	return nil
}

// EvaluationResult is the outcome of one test case. It is never persisted.
type EvaluationResult struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
	ActualOutput   string `json:"actualOutput"`
	Passed         bool   `json:"passed"`
	Hidden         bool   `json:"hidden"`
	Stderr         string `json:"stderr,omitempty"`
	CompileOutput  string `json:"compile_output,omitempty"`
	Message        string `json:"message,omitempty"`
}

// Redacted withholds everything derived from a hidden case's input.
func (r EvaluationResult) Redacted() EvaluationResult {
	if !r.Hidden {
		return r
	}
	r.Input = ""
	r.ExpectedOutput = ""
	r.ActualOutput = ""
	r.Stderr = ""
	return r
}

type EvaluateResponse struct {
	Results   []EvaluationResult `json:"results"`
	AllPassed bool               `json:"allPassed"`
	Message   string             `json:"message"`
}
