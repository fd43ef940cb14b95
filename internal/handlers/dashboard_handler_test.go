package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"codeeditor/internal/handlers"
	"codeeditor/internal/models"
	"codeeditor/internal/repositories"
)

type fakeDashboardStore struct {
	submissions map[string][]models.Submission
	users       map[string]*models.User
	snapshot    *models.AdminDashboard
	countErr    error
}

func (f *fakeDashboardStore) ListByUser(_ context.Context, userID string) ([]models.Submission, error) {
	return f.submissions[userID], nil
}

func (f *fakeDashboardStore) GetUserByID(_ context.Context, userID string) (*models.User, error) {
	if u, ok := f.users[userID]; ok {
		return u, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeDashboardStore) CountUsers(context.Context) (int64, error) {
	return int64(len(f.users)), f.countErr
}

func (f *fakeDashboardStore) GetAdminSnapshot(context.Context) (*models.AdminDashboard, error) {
	if f.snapshot == nil {
		return nil, repositories.ErrNotFound
	}
	return f.snapshot, nil
}

type countFn func() (int64, error)

func (c countFn) Count(context.Context) (int64, error) { return c() }

func newDashboardRouter(store *fakeDashboardStore, userID, role string) *chi.Mux {
	h := handlers.NewDashboardHandler(handlers.DashboardDeps{
		Submissions:     store,
		Users:           store,
		UserCounter:     store,
		QuestionCount:   countFn(func() (int64, error) { return 7, nil }),
		SubmissionCount: countFn(func() (int64, error) { return 40, nil }),
		Snapshots:       store,
	}, nil)

	r := chi.NewRouter()
	r.Use(asUser(userID, role))
	r.Get("/api/user/{userId}/dashboard", h.UserDashboardHandler)
	r.Get("/api/admin/stats", h.AdminStatsHandler)
	r.Get("/api/admin/dashboard", h.AdminDashboardHandler)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestUserDashboard(t *testing.T) {
	lastLogin := time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC)
	userID := "5"
	store := &fakeDashboardStore{
		users: map[string]*models.User{"5": {Username: "dana", LastLoginAt: &lastLogin}},
		submissions: map[string][]models.Submission{"5": {
			{QuestionID: "q1", UserID: &userID, Passed: true, TimeSpent: 30, CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
			{QuestionID: "q1", UserID: &userID, Passed: true, TimeSpent: 0, CreatedAt: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
			{QuestionID: "q2", UserID: &userID, Passed: true, TimeSpent: 10, CreatedAt: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)},
		}},
	}

	rr := get(newDashboardRouter(store, "5", models.RoleUser), "/api/user/5/dashboard")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var got models.UserDashboard
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if got.SolvedCount != 2 || got.SubmissionCount != 3 || got.TimeSpentTotal != 40 {
		t.Fatalf("unexpected dashboard: %+v", got)
	}
	if got.MonthlyData["Mar"] != 31 || got.MonthlyData["Apr"] != 10 {
		t.Fatalf("unexpected monthly data: %v", got.MonthlyData)
	}
	if got.LastLogin == nil || !got.LastLogin.Equal(lastLogin) {
		t.Fatalf("expected last login, got %v", got.LastLogin)
	}

	if rr := get(newDashboardRouter(store, "6", models.RoleUser), "/api/user/5/dashboard"); rr.Code != http.StatusForbidden || errorCode(t, rr) != "forbidden" {
		t.Fatalf("expected 403 forbidden for another user, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr := get(newDashboardRouter(store, "1", models.RoleAdmin), "/api/user/5/dashboard"); rr.Code != http.StatusOK {
		t.Fatalf("expected admins to read any dashboard, got %d", rr.Code)
	}
	if rr := get(newDashboardRouter(store, "1", models.RoleAdmin), "/api/user/99/dashboard"); rr.Code != http.StatusNotFound || errorCode(t, rr) != "user_not_found" {
		t.Fatalf("expected 404 user_not_found, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestAdminStats(t *testing.T) {
	store := &fakeDashboardStore{users: map[string]*models.User{"1": {}, "2": {}}}

	rr := get(newDashboardRouter(store, "1", models.RoleAdmin), "/api/admin/stats")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var got models.AdminStats
	_ = json.Unmarshal(rr.Body.Bytes(), &got)
	if got.TotalQuestions != 7 || got.TotalSubmissions != 40 || got.TotalUsers != 2 {
		t.Fatalf("unexpected stats: %+v", got)
	}

	store.countErr = errors.New("db down")
	if rr := get(newDashboardRouter(store, "1", models.RoleAdmin), "/api/admin/stats"); rr.Code != http.StatusInternalServerError || errorCode(t, rr) != "internal_error" {
		t.Fatalf("expected 500 internal_error, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestAdminDashboard(t *testing.T) {
	store := &fakeDashboardStore{}

	if rr := get(newDashboardRouter(store, "1", models.RoleAdmin), "/api/admin/dashboard"); rr.Code != http.StatusNotFound || errorCode(t, rr) != "snapshot_not_ready" {
		t.Fatalf("expected 404 snapshot_not_ready before the first snapshot, got %d: %s", rr.Code, rr.Body.String())
	}

	store.snapshot = &models.AdminDashboard{TotalUsers: 3, ActiveUsers: 1, UpdatedAt: time.Now()}
	rr := get(newDashboardRouter(store, "1", models.RoleAdmin), "/api/admin/dashboard")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var got models.AdminDashboard
	_ = json.Unmarshal(rr.Body.Bytes(), &got)
	if got.TotalUsers != 3 || got.ActiveUsers != 1 {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad error JSON: %v", err)
	}
	return body.Code
}
