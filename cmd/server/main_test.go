package main

import (
	"net/http"
	"path/filepath"
	"testing"

	"codeeditor/internal/config"
	"codeeditor/internal/exec"
	"codeeditor/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func TestInitUserDatabaseFallsBackToSQLite(t *testing.T) {
	cfg := &config.Config{SQLitePath: filepath.Join(t.TempDir(), "users.db")}
	db, err := initUserDatabase(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !db.Migrator().HasTable("users") {
		t.Fatalf("expected users table to be migrated")
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql DB: %v", err)
	}
	sqlDB.Close()
}

func TestNewExecutionBackend(t *testing.T) {
	if _, ok := newExecutionBackend(config.ExecutionConfig{Backend: "piston"}).(*exec.PistonBackend); !ok {
		t.Fatalf("expected piston backend")
	}
	if _, ok := newExecutionBackend(config.ExecutionConfig{Backend: "judge0", APIURL: "http://judge0"}).(*exec.Judge0Backend); !ok {
		t.Fatalf("expected judge0 backend")
	}
}

func TestLoadLanguagesDefault(t *testing.T) {
	table, err := loadLanguages("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := table.Lookup("python"); !ok {
		t.Fatalf("expected default table to include python")
	}
	if _, err := loadLanguages(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestRegisterRoutes(t *testing.T) {
	router := chi.NewRouter()
	registerRoutes(router, &app{
		questionHandler:   &handlers.QuestionHandler{},
		evaluationHandler: &handlers.EvaluationHandler{},
		authHandler:       &handlers.AuthHandler{},
		dashboardHandler:  &handlers.DashboardHandler{},
		healthHandler:     &handlers.HealthHandler{},
	}, "secret")

	expected := map[string]struct{}{
		"GET /healthz":             {},
		"GET /metrics":             {},
		"POST /api/execute/run":    {},
		"GET /api/questions/{id}":  {},
		"POST /api/auth/login":     {},
		"GET /api/admin/dashboard": {},
	}
	if err := chi.Walk(router, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		delete(expected, method+" "+route)
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	if len(expected) != 0 {
		t.Fatalf("missing routes: %v", expected)
	}
}
