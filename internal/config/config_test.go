package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("EXECUTION_BACKEND", "")
	t.Setenv("SUBMIT_COOLDOWN", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Execution.Backend != "piston" {
		t.Fatalf("expected piston backend, got %s", cfg.Execution.Backend)
	}
	if cfg.SubmitCooldown != 10*time.Second {
		t.Fatalf("expected 10s cooldown, got %v", cfg.SubmitCooldown)
	}
	policy := cfg.Execution.RetryPolicy()
	if policy.MaxAttempts != 3 || policy.Delay != time.Second {
		t.Fatalf("unexpected retry policy: %#v", policy)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("EXECUTION_BACKEND", "Judge0")
	t.Setenv("EXECUTION_RETRY_ATTEMPTS", "5")
	t.Setenv("EXECUTION_RETRY_DELAY", "250ms")
	t.Setenv("EXECUTION_RETRY_MULTIPLIER", "2")
	t.Setenv("SUBMIT_COOLDOWN", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://app.example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Execution.Backend != "judge0" {
		t.Fatalf("expected judge0 backend, got %s", cfg.Execution.Backend)
	}
	if cfg.Execution.RetryAttempts != 5 || cfg.Execution.RetryDelay != 250*time.Millisecond || cfg.Execution.RetryMultiplier != 2 {
		t.Fatalf("unexpected execution config: %#v", cfg.Execution)
	}
	if cfg.SubmitCooldown != 3*time.Second {
		t.Fatalf("expected bare number to be read as seconds, got %v", cfg.SubmitCooldown)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://app.example.com" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("EXECUTION_BACKEND", "docker")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") || !strings.Contains(err.Error(), "docker") {
		t.Fatalf("expected both problems to be reported, got %v", err)
	}
}

func TestLoadConfig_ParseErrors(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("EXECUTION_BACKEND", "")
	t.Setenv("EXECUTION_RETRY_ATTEMPTS", "many")

	if _, err := LoadConfig(); err == nil || !strings.Contains(err.Error(), "EXECUTION_RETRY_ATTEMPTS") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("UNIT_TEST_ENV", "value")
	if got := getEnvOrDefault("UNIT_TEST_ENV", "fallback"); got != "value" {
		t.Fatalf("expected env value, got %s", got)
	}

	t.Setenv("UNIT_TEST_ENV", "")
	if got := getEnvOrDefault("UNIT_TEST_ENV", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback value, got %s", got)
	}
}
