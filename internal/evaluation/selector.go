package evaluation

import (
	"errors"
	"fmt"

	"codeeditor/internal/models"
)

var ErrInvalidRunMode = errors.New("invalid run mode")

// SelectTestCases returns the cases to execute for mode, in their stored order.
// "run" skips hidden cases, "submit" keeps all of them.
func SelectTestCases(cases []models.TestCase, mode models.RunMode) ([]models.TestCase, error) {
	switch mode {
	case models.RunModeSubmit:
		selected := make([]models.TestCase, len(cases))
		copy(selected, cases)
		return selected, nil
	case models.RunModeRun:
		selected := make([]models.TestCase, 0, len(cases))
		for _, tc := range cases {
			if !tc.Hidden {
				selected = append(selected, tc)
			}
		}
		return selected, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidRunMode, mode)
	}
}

// ValidRunMode reports whether mode is one SelectTestCases accepts.
func ValidRunMode(mode models.RunMode) bool {
	return mode == models.RunModeRun || mode == models.RunModeSubmit
}
