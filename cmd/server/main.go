package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/placenet/placement-backend/internal/analyzer"
	"github.com/placenet/placement-backend/internal/config"
	"github.com/placenet/placement-backend/internal/database"
	"github.com/placenet/placement-backend/internal/handler"
	"github.com/placenet/placement-backend/internal/logger"
	"github.com/placenet/placement-backend/internal/repository"
	"github.com/placenet/placement-backend/internal/router"
	"github.com/placenet/placement-backend/internal/service"
	"github.com/placenet/placement-backend/internal/validator"
	"github.com/placenet/placement-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting PlaceNet Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)
	answerRepo := repository.NewAnswerRepository(pool)
	violationRepo := repository.NewViolationRepository(pool)
	jobRepo := repository.NewJobRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)

	// ─── Initialize Frame Analyzer ─────────────────────────────────────
	var az analyzer.Analyzer
	if cfg.AnalyzerURL != "" {
		az = analyzer.NewHTTPAnalyzer(cfg.AnalyzerURL, cfg.AnalyzerTimeout)
	} else {
		log.Warn().Msg("ANALYZER_URL not set, frame analysis disabled")
		az = analyzer.NewDisabled()
	}

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, userRepo)
	studentService := service.NewStudentService(userRepo)
	examService := service.NewExamService(examRepo, questionRepo, rdb, log)
	sessionService := service.NewExamSessionService(examRepo, questionRepo, attemptRepo, log)
	evidenceService := service.NewEvidenceService(cfg.EvidenceDir, log)
	monitorService := service.NewMonitorService(rdb, log)
	proctoringService := service.NewProctoringService(
		cfg, attemptRepo, violationRepo, examRepo,
		sessionService, az, evidenceService, monitorService, log,
	)
	evaluationService := service.NewEvaluationService(answerRepo, attemptRepo, questionRepo, examRepo, log)
	adminService := service.NewAdminService(attemptRepo, violationRepo, userRepo)
	jobService := service.NewJobService(jobRepo, userRepo, log)
	courseService := service.NewCourseService(courseRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:          handler.NewAuthHandler(authService, studentService),
		StudentPortal: handler.NewStudentPortalHandler(studentService, examService, sessionService),
		Proctoring:    handler.NewProctoringHandler(cfg, proctoringService),
		Exam:          handler.NewExamHandler(examService),
		Admin:         handler.NewAdminHandler(adminService, studentService, evaluationService, evidenceService),
		Job:           handler.NewJobHandler(jobService),
		Course:        handler.NewCourseHandler(courseService),
		Monitor:       handler.NewMonitorHandler(monitorService, log, cfg.AllowedOrigins),
		System:        handler.NewSystemHandler(pool, rdb, cfg.EvidenceDir, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	retentionWorker := worker.NewRetentionWorker(evidenceService, cfg.EvidenceRetention, log)
	go retentionWorker.Start(workerCtx)

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load all published exam payloads into Redis BEFORE accepting
	// traffic, so a restart does not stampede PostgreSQL.
	if err := examService.PrewarmPayloadCaches(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	workerCancel()

	log.Info().Msg("Shutdown complete")
}
