package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/placenet/placement-backend/internal/config"
	"github.com/placenet/placement-backend/internal/handler"
	"github.com/placenet/placement-backend/internal/middleware"
	"github.com/placenet/placement-backend/internal/response"
	"github.com/placenet/placement-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	StudentPortal *handler.StudentPortalHandler
	Proctoring    *handler.ProctoringHandler
	Exam          *handler.ExamHandler
	Admin         *handler.AdminHandler
	Job           *handler.JobHandler
	Course        *handler.CourseHandler
	Monitor       *handler.MonitorHandler
	System        *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", response.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{response.RequestIDHeader}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authLimiter.Middleware(), handlers.Auth.Register)
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)

		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Student Group (JWT) ────────────────────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(middleware.RequireStudentJWT(authService))
	{
		studentAPI.GET("/profile", handlers.StudentPortal.GetProfile)
		studentAPI.PUT("/profile", handlers.StudentPortal.UpdateProfile)

		studentAPI.GET("/exams", handlers.StudentPortal.ListExams)
		studentAPI.POST("/exams/:examId/start", handlers.StudentPortal.StartExam)
		studentAPI.POST("/exams/submit", handlers.StudentPortal.SubmitExam)
		studentAPI.GET("/exams/:examId/result", handlers.StudentPortal.GetResult)

		studentAPI.POST("/proctoring/frame", handlers.Proctoring.UploadFrame)
		studentAPI.POST("/proctoring/report", handlers.Proctoring.ReportViolation)

		studentAPI.GET("/jobs", handlers.Job.ListJobs)
		studentAPI.POST("/jobs/:jobId/apply", handlers.Job.Apply)
		studentAPI.GET("/applications", handlers.Job.MyApplications)

		studentAPI.GET("/courses", handlers.Course.ListCourses)
		studentAPI.POST("/courses/:courseId/enroll", handlers.Course.Enroll)
		studentAPI.PUT("/courses/:courseId/progress", handlers.Course.UpdateProgress)
	}

	// ─── 3. WebSocket Group (Admin WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireAdminWSAuth(authService))
	{
		ws.GET("/admin/exams/:examId/monitor", handlers.Monitor.MonitorExam)
	}

	// ─── 4. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		adminAPI.POST("/exams", handlers.Exam.CreateExam)
		adminAPI.GET("/exams", handlers.Exam.ListExams)
		adminAPI.GET("/exams/:examId", handlers.Exam.GetExam)
		adminAPI.POST("/exams/:examId/questions", handlers.Exam.AddQuestion)
		adminAPI.POST("/exams/:examId/publish", handlers.Exam.PublishExam)
		adminAPI.POST("/exams/:examId/complete", handlers.Exam.CompleteExam)
		adminAPI.GET("/exams/:examId/results", handlers.Admin.GetExamResults)

		adminAPI.GET("/students", handlers.Admin.ListStudents)
		adminAPI.GET("/students/:studentId", handlers.Admin.GetStudentDetail)

		adminAPI.GET("/attempts/flagged", handlers.Admin.ListFlaggedAttempts)
		adminAPI.GET("/attempts/:attemptId/audit", handlers.Admin.GetAttemptAudit)
		adminAPI.GET("/attempts/:attemptId/answers", handlers.Admin.GetAttemptAnswers)
		adminAPI.PUT("/answers/:answerId/evaluate", handlers.Admin.EvaluateAnswer)

		// Evidence frames are immutable once stored, so long cache lifetimes
		// are safe here.
		adminAPI.GET("/evidence/*path",
			middleware.CacheControl(86400),
			handlers.Admin.GetEvidence,
		)

		adminAPI.POST("/jobs", handlers.Job.CreateJob)
		adminAPI.GET("/jobs", handlers.Job.ListAllJobs)
		adminAPI.GET("/jobs/:jobId/applicants", handlers.Job.ListApplicants)
		adminAPI.PUT("/applications/:applicationId", handlers.Job.UpdateApplicationStatus)

		adminAPI.POST("/courses", handlers.Course.CreateCourse)

		adminAPI.GET("/system/metrics", handlers.System.SystemMetricsSSE)
	}

	return router
}
