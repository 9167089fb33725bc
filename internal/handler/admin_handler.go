package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/placenet/placement-backend/internal/middleware"
	"github.com/placenet/placement-backend/internal/model"
	"github.com/placenet/placement-backend/internal/response"
	"github.com/placenet/placement-backend/internal/service"
	"github.com/placenet/placement-backend/internal/validator"
)

// AdminHandler handles the placement staff review endpoints: students,
// flagged attempts, results, audits, and manual evaluation.
type AdminHandler struct {
	adminService      *service.AdminService
	studentService    *service.StudentService
	evaluationService *service.EvaluationService
	evidenceService   *service.EvidenceService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	adminService *service.AdminService,
	studentService *service.StudentService,
	evaluationService *service.EvaluationService,
	evidenceService *service.EvidenceService,
) *AdminHandler {
	return &AdminHandler{
		adminService:      adminService,
		studentService:    studentService,
		evaluationService: evaluationService,
		evidenceService:   evidenceService,
	}
}

// ListStudents godoc
// GET /api/v1/admin/students?page=&per_page=
func (h *AdminHandler) ListStudents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(service.DefaultStudentsPerPage)))
	page, perPage = service.ClampPage(page, perPage)

	students, total, err := h.studentService.ListStudents(c.Request.Context(), page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK,
		gin.H{"students": students},
		response.NewPagination(page, perPage, total),
	)
}

// GetStudentDetail godoc
// GET /api/v1/admin/students/:studentId
func (h *AdminHandler) GetStudentDetail(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("studentId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	detail, err := h.adminService.GetStudentDetail(c.Request.Context(), studentID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// ListFlaggedAttempts godoc
// GET /api/v1/admin/attempts/flagged
// The review queue of auto-submitted attempts.
func (h *AdminHandler) ListFlaggedAttempts(c *gin.Context) {
	flagged, err := h.adminService.FlaggedAttempts(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attempts": flagged})
}

// GetExamResults godoc
// GET /api/v1/admin/exams/:examId/results
func (h *AdminHandler) GetExamResults(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("examId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	results, err := h.adminService.ExamResults(c.Request.Context(), examID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// GetAttemptAudit godoc
// GET /api/v1/admin/attempts/:attemptId/audit
// The attempt with its full violation log and a recount of the tally.
func (h *AdminHandler) GetAttemptAudit(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("attemptId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	audit, err := h.adminService.GetAttemptAudit(c.Request.Context(), attemptID)
	if err != nil {
		if errors.Is(err, service.ErrAttemptNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, audit)
}

// GetAttemptAnswers godoc
// GET /api/v1/admin/attempts/:attemptId/answers
// The submitted answers of an attempt, for the evaluation view.
func (h *AdminHandler) GetAttemptAnswers(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("attemptId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	answers, err := h.evaluationService.AttemptAnswers(c.Request.Context(), attemptID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"answers": answers})
}

// EvaluateAnswer godoc
// PUT /api/v1/admin/answers/:answerId/evaluate
// Manual grading of one coding answer. Returns the attempt with resynced
// scores.
func (h *AdminHandler) EvaluateAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)

	answerID, err := uuid.Parse(c.Param("answerId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.EvaluateAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	attempt, err := h.evaluationService.EvaluateAnswer(c.Request.Context(), claims.UserID, answerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAnswerNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrAnswerNotGradable):
			response.Fail(c, http.StatusConflict, response.ErrAnswerNotGradable)
		case errors.Is(err, service.ErrAttemptNotGraded):
			response.Fail(c, http.StatusConflict, response.ErrAttemptNotActive)
		case errors.Is(err, service.ErrMarksExceedMax):
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"marks_awarded": err.Error()})
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attempt": attempt})
}

// GetEvidence godoc
// GET /api/v1/admin/evidence/*path
// Serves a stored violation frame for review.
func (h *AdminHandler) GetEvidence(c *gin.Context) {
	relPath := c.Param("path")

	full, err := h.evidenceService.Open(relPath)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	c.File(full)
}
