package exec

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrExecutionBackend    = errors.New("execution backend error")
	ErrRateLimited         = errors.New("execution backend rate limited")
)

// BackendError carries whatever the execution service told us when a call
// failed. It matches ErrExecutionBackend, and ErrRateLimited for HTTP 429.
type BackendError struct {
	StatusCode int // 0 for transport failures
	Details    any
	Err        error
}

func (e *BackendError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("execution backend error: status %d: %v", e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("execution backend error: status %d", e.StatusCode)
	case e.Err != nil:
		return "execution backend error: " + e.Err.Error()
	}
	return "execution backend error"
}

func (e *BackendError) Unwrap() error { return e.Err }

func (e *BackendError) Is(target error) bool {
	switch target {
	case ErrExecutionBackend:
		return true
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// Output is what a single execution produced.
type Output struct {
	Stdout        string
	Stderr        string
	CompileOutput string
	Message       string
}

// Backend sends one program with one stdin to a remote code runner.
type Backend interface {
	Name() string
	Execute(ctx context.Context, spec LanguageSpec, code, stdin string) (Output, error)
}

type Runner struct {
	backend   Backend
	languages LanguageTable
	retry     RetryPolicy
	logger    *zap.Logger
}

func NewRunner(backend Backend, languages LanguageTable, retry RetryPolicy, logger *zap.Logger) *Runner {
	if languages == nil {
		languages = DefaultLanguageTable()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{backend: backend, languages: languages, retry: retry, logger: logger}
}

func (r *Runner) Supports(language string) bool {
	_, ok := r.languages.Lookup(language)
	return ok
}

func (r *Runner) Languages() []string {
	return r.languages.Tags()
}

func (r *Runner) BackendName() string {
	return r.backend.Name()
}

// Execute runs code once with stdin. Rate-limited calls are retried according
// to the runner's RetryPolicy; any other failure is returned immediately.
func (r *Runner) Execute(ctx context.Context, code, language, stdin string) (Output, error) {
	spec, ok := r.languages.Lookup(language)
	if !ok {
		return Output{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}

	var out Output
	err := r.retry.Do(ctx, func(attempt int) error {
		var err error
		out, err = r.backend.Execute(ctx, spec, code, stdin)
		if errors.Is(err, ErrRateLimited) {
			r.logger.Warn("execution backend rate limited",
				zap.String("backend", r.backend.Name()),
				zap.String("language", language),
				zap.Int("attempt", attempt))
		}
		return err
	})
	if err != nil {
		return Output{}, err
	}
	return out, nil
}
