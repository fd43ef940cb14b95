package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeeditor/internal/config"
	"codeeditor/internal/evaluation"
	"codeeditor/internal/exec"
	"codeeditor/internal/handlers"
	"codeeditor/internal/jobs"
	"codeeditor/internal/metrics"
	"codeeditor/internal/models"
	"codeeditor/internal/ratelimit"
	"codeeditor/internal/repositories"
	mongorepo "codeeditor/internal/repositories/mongo"
	"codeeditor/internal/routers"
	"codeeditor/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type app struct {
	questionHandler   *handlers.QuestionHandler
	evaluationHandler *handlers.EvaluationHandler
	authHandler       *handlers.AuthHandler
	dashboardHandler  *handlers.DashboardHandler
	healthHandler     *handlers.HealthHandler
}

func registerRoutes(router *chi.Mux, a *app, jwtSecret string) {
	routers.HealthRoutes(router, a.healthHandler, metrics.Handler())
	routers.AuthRoutes(router, a.authHandler, jwtSecret)
	routers.QuestionRoutes(router, a.questionHandler, jwtSecret)
	routers.EvaluationRoutes(router, a.evaluationHandler, jwtSecret)
	routers.DashboardRoutes(router, a.dashboardHandler, jwtSecret)
}

// initUserDatabase opens Postgres when a DSN is configured and falls back to SQLite.
func initUserDatabase(cfg *config.Config) (*gorm.DB, error) {
	dialector := sqlite.Open(cfg.SQLitePath)
	if cfg.PostgresDSN != "" {
		dialector = postgres.Open(cfg.PostgresDSN)
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to user database: %w", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate user database: %w", err)
	}
	return db, nil
}

func newExecutionBackend(cfg config.ExecutionConfig) exec.Backend {
	if cfg.Backend == "judge0" {
		return exec.NewJudge0Backend(cfg.APIURL, cfg.APIKeyHeader, cfg.APIKey, cfg.Timeout)
	}
	return exec.NewPistonBackend(cfg.APIURL, cfg.Timeout)
}

func loadLanguages(path string) (exec.LanguageTable, error) {
	if path == "" {
		return exec.DefaultLanguageTable(), nil
	}
	return exec.LoadLanguageTable(path)
}

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	mongoClient, err := mongorepo.NewClient(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	mongoDB, err := mongoClient.DB()
	if err != nil {
		logger.Fatal("failed to open MongoDB database", zap.Error(err))
	}

	questionRepo := mongorepo.NewQuestionRepo(mongoDB, cfg.QuestionsCollection)
	submissionRepo := mongorepo.NewSubmissionRepo(mongoDB, cfg.SubmissionsCollection)
	dashboardRepo := mongorepo.NewDashboardRepo(mongoDB)
	if err := questionRepo.EnsureIndexes(ctx); err != nil {
		logger.Warn("failed to ensure question indexes", zap.Error(err))
	}
	if err := submissionRepo.EnsureIndexes(ctx); err != nil {
		logger.Warn("failed to ensure submission indexes", zap.Error(err))
	}

	userDB, err := initUserDatabase(cfg)
	if err != nil {
		logger.Fatal("failed to initialise user database", zap.Error(err))
	}
	userRepo := repositories.NewUserRepository(userDB)

	var limiter evaluation.Limiter
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		limiter = ratelimit.NewCooldown(redisClient, cfg.SubmitCooldown, logger)
		logger.Info("submit cooldown enabled", zap.Duration("window", cfg.SubmitCooldown))
	} else {
		logger.Warn("REDIS_ADDR not set, submit cooldown disabled")
	}

	languages, err := loadLanguages(cfg.Execution.LanguagesFile)
	if err != nil {
		logger.Fatal("failed to load language table", zap.Error(err))
	}
	runner := exec.NewRunner(newExecutionBackend(cfg.Execution), languages, cfg.Execution.RetryPolicy(), logger)
	logger.Info("execution backend configured",
		zap.String("backend", runner.BackendName()),
		zap.Strings("languages", runner.Languages()))

	evaluationService := evaluation.NewService(questionRepo, submissionRepo, runner, limiter, logger)

	a := &app{
		questionHandler:   handlers.NewQuestionHandler(questionRepo, runner.Supports, logger),
		evaluationHandler: handlers.NewEvaluationHandler(evaluationService, runner.Languages, logger),
		authHandler:       handlers.NewAuthHandler(userRepo, cfg.JWTSecret, logger),
		dashboardHandler: handlers.NewDashboardHandler(handlers.DashboardDeps{
			Submissions:     submissionRepo,
			Users:           userRepo,
			UserCounter:     userRepo,
			QuestionCount:   questionRepo,
			SubmissionCount: submissionRepo,
			Snapshots:       dashboardRepo,
		}, logger),
		healthHandler: handlers.NewHealthHandler(mongoClient, logger),
	}

	snapshotJob := jobs.NewDashboardSnapshotJob(userRepo, questionRepo, submissionRepo, dashboardRepo, cfg.DashboardSchedule, logger)
	if _, err := snapshotJob.RunOnce(ctx); err != nil {
		logger.Warn("initial dashboard snapshot failed", zap.Error(err))
	}
	if err := snapshotJob.Start(); err != nil {
		logger.Error("failed to start dashboard snapshot job", zap.Error(err))
	}

	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Location", "Retry-After"},
		AllowCredentials: true,
	}))
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware)

	registerRoutes(router, a, cfg.JWTSecret)

	serverAddr := ":" + cfg.Port

	// must outlast a retried execution round-trip
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Code editor service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Code editor service shutting down...")

	snapshotJob.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Warn("failed to disconnect from MongoDB", zap.Error(err))
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	logger.Info("Code editor service exited")
}
