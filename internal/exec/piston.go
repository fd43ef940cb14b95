package exec

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const DefaultPistonURL = "https://emkc.org/api/v2/piston"

type PistonBackend struct {
	client  *http.Client
	baseURL string
}

func NewPistonBackend(baseURL string, timeout time.Duration) *PistonBackend {
	if trimBaseURL(baseURL) == "" {
		baseURL = DefaultPistonURL
	}
	return &PistonBackend{client: newHTTPClient(timeout), baseURL: trimBaseURL(baseURL)}
}

func (b *PistonBackend) Name() string { return "piston" }

type pistonFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type pistonRequest struct {
	Language string       `json:"language"`
	Version  string       `json:"version"`
	Stdin    string       `json:"stdin"`
	Files    []pistonFile `json:"files"`
}

type pistonStage struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Output string `json:"output"`
	Code   *int   `json:"code"`
}

type pistonResponse struct {
	Run     pistonStage  `json:"run"`
	Compile *pistonStage `json:"compile,omitempty"`
	Message string       `json:"message,omitempty"`
}

func (b *PistonBackend) Execute(ctx context.Context, spec LanguageSpec, code, stdin string) (Output, error) {
	if spec.PistonLanguage == "" {
		return Output{}, fmt.Errorf("%w: %q has no piston runtime", ErrUnsupportedLanguage, spec.Name)
	}
	fileName := spec.FileName
	if fileName == "" {
		fileName = "main"
	}

	req := pistonRequest{
		Language: spec.PistonLanguage,
		Version:  spec.PistonVersion,
		Stdin:    stdin,
		Files:    []pistonFile{{Name: fileName, Content: code}},
	}

	var resp pistonResponse
	if err := postJSON(ctx, b.client, b.baseURL+"/execute", nil, req, &resp); err != nil {
		return Output{}, err
	}

	out := Output{
		Stdout:  resp.Run.Stdout,
		Stderr:  resp.Run.Stderr,
		Message: resp.Message,
	}
	if resp.Compile != nil && resp.Compile.Code != nil && *resp.Compile.Code != 0 {
		out.CompileOutput = resp.Compile.Output
		if out.CompileOutput == "" {
			out.CompileOutput = resp.Compile.Stderr
		}
	}
	return out, nil
}
