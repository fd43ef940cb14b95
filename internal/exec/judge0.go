package exec

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const (
	DefaultJudge0URL        = "https://ce.judge0.com"
	DefaultJudge0AuthHeader = "X-Auth-Token"

	judge0StatusAccepted = 3
)

type Judge0Backend struct {
	client     *http.Client
	baseURL    string
	authHeader string
	apiKey     string
}

func NewJudge0Backend(baseURL, authHeader, apiKey string, timeout time.Duration) *Judge0Backend {
	if trimBaseURL(baseURL) == "" {
		baseURL = DefaultJudge0URL
	}
	if authHeader == "" {
		authHeader = DefaultJudge0AuthHeader
	}
	return &Judge0Backend{
		client:     newHTTPClient(timeout),
		baseURL:    trimBaseURL(baseURL),
		authHeader: authHeader,
		apiKey:     apiKey,
	}
}

func (b *Judge0Backend) Name() string { return "judge0" }

type judge0Request struct {
	SourceCode string `json:"source_code"`
	LanguageID int    `json:"language_id"`
	Stdin      string `json:"stdin"`
}

type judge0Status struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

type judge0Response struct {
	Stdout        *string       `json:"stdout"`
	Stderr        *string       `json:"stderr"`
	CompileOutput *string       `json:"compile_output"`
	Message       *string       `json:"message"`
	Status        *judge0Status `json:"status"`
}

func (b *Judge0Backend) Execute(ctx context.Context, spec LanguageSpec, code, stdin string) (Output, error) {
	if spec.Judge0ID == 0 {
		return Output{}, fmt.Errorf("%w: %q has no judge0 language id", ErrUnsupportedLanguage, spec.Name)
	}

	var headers map[string]string
	if b.apiKey != "" {
		headers = map[string]string{b.authHeader: b.apiKey}
	}

	req := judge0Request{SourceCode: code, LanguageID: spec.Judge0ID, Stdin: stdin}
	var resp judge0Response
	url := b.baseURL + "/submissions?base64_encoded=false&wait=true"
	if err := postJSON(ctx, b.client, url, headers, req, &resp); err != nil {
		return Output{}, err
	}

	out := Output{
		Stdout:        deref(resp.Stdout),
		Stderr:        deref(resp.Stderr),
		CompileOutput: deref(resp.CompileOutput),
		Message:       deref(resp.Message),
	}
	if out.Message == "" && resp.Status != nil && resp.Status.ID != 0 && resp.Status.ID != judge0StatusAccepted {
		out.Message = resp.Status.Description
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
