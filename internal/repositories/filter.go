package repositories

import "codeeditor/internal/models"

// QuestionFilter filters and pages a question listing. Page is 1-based and a
// zero Limit returns everything.
type QuestionFilter struct {
	Page       int
	Limit      int
	Search     string
	Difficulty models.Difficulty
}
