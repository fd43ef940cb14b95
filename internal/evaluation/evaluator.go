package evaluation

import (
	"context"
	"strings"
	"time"

	"codeeditor/internal/exec"
	"codeeditor/internal/metrics"
	"codeeditor/internal/models"

	"go.uber.org/zap"
)

// Executor runs one program against one stdin. *exec.Runner implements it.
type Executor interface {
	Execute(ctx context.Context, code, language, stdin string) (exec.Output, error)
	Supports(language string) bool
}

type Evaluator struct {
	executor Executor
	logger   *zap.Logger
}

func NewEvaluator(executor Executor, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{executor: executor, logger: logger}
}

// Evaluate runs every case in order, one backend call at a time. The first
// execution error aborts the batch and no results are returned. allPassed
// is true for an empty batch.
func (e *Evaluator) Evaluate(ctx context.Context, cases []models.TestCase, code, language string) ([]models.EvaluationResult, bool, error) {
	results := make([]models.EvaluationResult, 0, len(cases))
	allPassed := true

	for i, tc := range cases {
		start := time.Now()
		out, err := e.executor.Execute(ctx, code, language, tc.Input)
		if err != nil {
			metrics.ObserveExecution(language, "error", time.Since(start))
			e.logger.Warn("test case execution failed",
				zap.Int("case", i+1),
				zap.Int("of", len(cases)),
				zap.String("language", language),
				zap.Error(err))
			return nil, false, err
		}

		result := compare(tc, out)
		outcome := "passed"
		if !result.Passed {
			outcome = "failed"
			allPassed = false
		}
		metrics.ObserveExecution(language, outcome, time.Since(start))
		results = append(results, result)
	}

	return results, allPassed, nil
}

// compare decides pass/fail on trimmed stdout only. stderr is shown when
// there is no stdout but never counts towards passing.
func compare(tc models.TestCase, out exec.Output) models.EvaluationResult {
	stdout := strings.TrimSpace(out.Stdout)
	stderr := strings.TrimSpace(out.Stderr)

	actual := stdout
	if actual == "" {
		actual = stderr
	}

	return models.EvaluationResult{
		Input:          tc.Input,
		ExpectedOutput: tc.Output,
		ActualOutput:   actual,
		Passed:         stdout == strings.TrimSpace(tc.Output),
		Hidden:         tc.Hidden,
		Stderr:         stderr,
		CompileOutput:  strings.TrimSpace(out.CompileOutput),
		Message:        strings.TrimSpace(out.Message),
	}
}
