package models

import "time"

// Submission is a persisted record of one fully-passing submit. Records are
// never updated or deleted once written.
type Submission struct {
	ID         string    `json:"id" bson:"_id"`
	QuestionID string    `json:"questionId" bson:"questionId"`
	UserID     *string   `json:"userId" bson:"userId"` // nil for anonymous submissions
	Code       string    `json:"code" bson:"code"`
	Language   string    `json:"language" bson:"language"`
	TimeSpent  float64   `json:"timeSpent" bson:"timeSpent"`
	Passed     bool      `json:"passed" bson:"passed"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}
