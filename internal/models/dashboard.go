package models

import "time"

// AdminDashboard is the periodically refreshed platform snapshot.
type AdminDashboard struct {
	ID               string    `json:"-" bson:"_id"`
	TotalUsers       int64     `json:"totalUsers" bson:"totalUsers"`
	ActiveUsers      int64     `json:"activeUsers" bson:"activeUsers"`
	TotalQuestions   int64     `json:"totalQuestions" bson:"totalQuestions"`
	TotalSubmissions int64     `json:"totalSubmissions" bson:"totalSubmissions"`
	UpdatedAt        time.Time `json:"updatedAt" bson:"updatedAt"`
}

// AdminStats are the live counters behind GET /api/admin/stats.
type AdminStats struct {
	TotalQuestions   int64 `json:"totalQuestions"`
	TotalSubmissions int64 `json:"totalSubmissions"`
	TotalUsers       int64 `json:"totalUsers"`
}

type UserDashboard struct {
	UserID          string             `json:"userId"`
	SolvedCount     int                `json:"solvedCount"`
	SubmissionCount int                `json:"submissionCount"`
	TimeSpentTotal  float64            `json:"timeSpentTotal"`
	MonthlyData     map[string]float64 `json:"monthlyData"`
	LastLogin       *time.Time         `json:"lastLogin,omitempty"`
}

// BuildUserDashboard aggregates a user's submissions. Months are keyed by
// their short name ("Jan") and a submission without a recorded time counts as 1.
func BuildUserDashboard(userID string, submissions []Submission) UserDashboard {
	dash := UserDashboard{
		UserID:          userID,
		SubmissionCount: len(submissions),
		MonthlyData:     map[string]float64{},
	}
	solved := map[string]struct{}{}
	for _, s := range submissions {
		if s.Passed {
			solved[s.QuestionID] = struct{}{}
		}
		spent := s.TimeSpent
		dash.TimeSpentTotal += spent
		if spent <= 0 {
			spent = 1
		}
		dash.MonthlyData[s.CreatedAt.Format("Jan")] += spent
	}
	dash.SolvedCount = len(solved)
	return dash
}
