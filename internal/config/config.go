package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"codeeditor/internal/exec"
)

type Config struct {
	Port string

	MongoURI              string
	MongoDBName           string
	QuestionsCollection   string
	SubmissionsCollection string

	// PostgresDSN takes precedence; without it users live in SQLite at SQLitePath.
	PostgresDSN string
	SQLitePath  string

	RedisAddr      string
	SubmitCooldown time.Duration

	JWTSecret string

	Execution ExecutionConfig

	CORSAllowedOrigins []string
	DashboardSchedule  string

	LogLevel string
	LogFile  string
}

type ExecutionConfig struct {
	Backend         string // piston | judge0
	APIURL          string
	APIKey          string
	APIKeyHeader    string
	Timeout         time.Duration
	RetryAttempts   int
	RetryDelay      time.Duration
	RetryMultiplier float64
	LanguagesFile   string
}

func (c ExecutionConfig) RetryPolicy() exec.RetryPolicy {
	return exec.RetryPolicy{
		MaxAttempts: c.RetryAttempts,
		Delay:       c.RetryDelay,
		Multiplier:  c.RetryMultiplier,
		MaxDelay:    30 * time.Second,
	}
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	p := &parser{}
	cfg := &Config{
		Port: getEnvOrDefault("PORT", "8080"),

		MongoURI:              getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:           getEnvOrDefault("MONGO_DB_NAME", "codeeditor"),
		QuestionsCollection:   getEnvOrDefault("QUESTIONS_COLLECTION", "questions"),
		SubmissionsCollection: getEnvOrDefault("SUBMISSIONS_COLLECTION", "submissions"),

		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		SQLitePath:  getEnvOrDefault("SQLITE_PATH", "codeeditor.db"),

		RedisAddr:      os.Getenv("REDIS_ADDR"),
		SubmitCooldown: p.duration("SUBMIT_COOLDOWN", 10*time.Second),

		JWTSecret: os.Getenv("JWT_SECRET"),

		Execution: ExecutionConfig{
			Backend:         strings.ToLower(getEnvOrDefault("EXECUTION_BACKEND", "piston")),
			APIURL:          os.Getenv("EXECUTION_API_URL"),
			APIKey:          os.Getenv("EXECUTION_API_KEY"),
			APIKeyHeader:    getEnvOrDefault("EXECUTION_API_KEY_HEADER", exec.DefaultJudge0AuthHeader),
			Timeout:         p.duration("EXECUTION_TIMEOUT", 30*time.Second),
			RetryAttempts:   p.integer("EXECUTION_RETRY_ATTEMPTS", 3),
			RetryDelay:      p.duration("EXECUTION_RETRY_DELAY", time.Second),
			RetryMultiplier: p.float("EXECUTION_RETRY_MULTIPLIER", 1),
			LanguagesFile:   os.Getenv("LANGUAGES_FILE"),
		},

		CORSAllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		DashboardSchedule:  getEnvOrDefault("DASHBOARD_REFRESH_SCHEDULE", "*/15 * * * *"),

		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),
	}
	if len(p.errs) > 0 {
		return nil, errors.Join(p.errs...)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []error
	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch cfg.Execution.Backend {
	case "piston", "judge0":
	default:
		errs = append(errs, fmt.Errorf("unsupported EXECUTION_BACKEND: %s. Currently supported: piston, judge0", cfg.Execution.Backend))
	}
	if cfg.Execution.Timeout <= 0 {
		errs = append(errs, errors.New("EXECUTION_TIMEOUT must be positive"))
	}
	if cfg.Execution.RetryAttempts < 1 {
		errs = append(errs, errors.New("EXECUTION_RETRY_ATTEMPTS must be at least 1"))
	}
	if cfg.Execution.RetryDelay < 0 {
		errs = append(errs, errors.New("EXECUTION_RETRY_DELAY must not be negative"))
	}
	if cfg.Execution.RetryMultiplier < 1 {
		errs = append(errs, errors.New("EXECUTION_RETRY_MULTIPLIER must be at least 1"))
	}
	if cfg.SubmitCooldown < 0 {
		errs = append(errs, errors.New("SUBMIT_COOLDOWN must not be negative"))
	}
	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parser collects parse errors so every bad variable is reported at once.
type parser struct {
	errs []error
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		// bare numbers are seconds
		secs, nerr := strconv.ParseFloat(raw, 64)
		if nerr != nil {
			p.errs = append(p.errs, fmt.Errorf("%s: invalid duration %q", key, raw))
			return def
		}
		d = time.Duration(secs * float64(time.Second))
	}
	return d
}

func (p *parser) integer(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid integer %q", key, raw))
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid number %q", key, raw))
		return def
	}
	return f
}
