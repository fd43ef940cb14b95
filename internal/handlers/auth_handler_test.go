package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"codeeditor/internal/handlers"
	"codeeditor/internal/middleware"
	"codeeditor/internal/models"
	"codeeditor/internal/repositories"
	"codeeditor/internal/testhelpers"
)

const testSecret = "test-secret"

func newAuthRouter(t *testing.T) (*chi.Mux, *repositories.UserRepository) {
	t.Helper()
	repo := repositories.NewUserRepository(testhelpers.SetupTestDB(t))
	h := handlers.NewAuthHandler(repo, testSecret, nil)

	r := chi.NewRouter()
	r.With(middleware.ValidateRequest[*models.RegisterRequest]()).Post("/api/auth/register", h.RegisterHandler)
	r.With(middleware.ValidateRequest[*models.LoginRequest]()).Post("/api/auth/login", h.LoginHandler)
	r.With(middleware.Authenticate(testSecret)).Get("/api/auth/me", h.MeHandler)
	return r, repo
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body)))
	return rr
}

func TestRegisterHandler(t *testing.T) {
	r, repo := newAuthRouter(t)

	rr := postJSON(r, "/api/auth/register", `{"username":"alice","email":"alice@example.com","password":"s3cret!pass"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if bytes.Contains(rr.Body.Bytes(), []byte("s3cret")) || bytes.Contains(rr.Body.Bytes(), []byte("PasswordHash")) {
		t.Fatalf("password material leaked: %s", rr.Body.String())
	}

	stored, err := repo.GetUserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret!pass")) != nil {
		t.Fatalf("password was not hashed with bcrypt")
	}

	t.Run("duplicate", func(t *testing.T) {
		rr := postJSON(r, "/api/auth/register", `{"username":"alice","email":"other@example.com","password":"s3cret!pass"}`)
		if rr.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rr.Code)
		}
	})

	t.Run("weak password", func(t *testing.T) {
		rr := postJSON(r, "/api/auth/register", `{"username":"bob","email":"bob@example.com","password":"password"}`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
	})

	t.Run("bad email", func(t *testing.T) {
		rr := postJSON(r, "/api/auth/register", `{"username":"bob","email":"not-an-email","password":"s3cret!pass"}`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
	})
}

func TestLoginAndMe(t *testing.T) {
	r, repo := newAuthRouter(t)
	if rr := postJSON(r, "/api/auth/register", `{"username":"carol","email":"carol@example.com","password":"hunter2!!"}`); rr.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rr.Code, rr.Body.String())
	}

	t.Run("wrong password", func(t *testing.T) {
		rr := postJSON(r, "/api/auth/login", `{"username":"carol","password":"nope"}`)
		if rr.Code != http.StatusUnauthorized || errorCode(t, rr) != "invalid_credentials" {
			t.Fatalf("expected 401 invalid_credentials, got %d: %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		rr := postJSON(r, "/api/auth/login", `{"username":"nobody","password":"hunter2!!"}`)
		if rr.Code != http.StatusUnauthorized || errorCode(t, rr) != "invalid_credentials" {
			t.Fatalf("expected 401 invalid_credentials, got %d: %s", rr.Code, rr.Body.String())
		}
	})

	rr := postJSON(r, "/api/auth/login", `{"username":"carol","password":"hunter2!!"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var auth models.AuthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &auth); err != nil || auth.Token == "" {
		t.Fatalf("expected token, got %s (err=%v)", rr.Body.String(), err)
	}

	stored, _ := repo.GetUserByUsername(context.Background(), "carol")
	if stored.LastLoginAt == nil || time.Since(*stored.LastLoginAt) > time.Minute {
		t.Fatalf("expected last login to be recorded, got %v", stored.LastLoginAt)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	me := httptest.NewRecorder()
	r.ServeHTTP(me, req)
	if me.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", me.Code, me.Body.String())
	}
	var user models.User
	_ = json.Unmarshal(me.Body.Bytes(), &user)
	if user.Username != "carol" || user.Role != models.RoleUser {
		t.Fatalf("unexpected user: %+v", user)
	}

	noAuth := httptest.NewRecorder()
	r.ServeHTTP(noAuth, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	if noAuth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", noAuth.Code)
	}
}
