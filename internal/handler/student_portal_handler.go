package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/placenet/placement-backend/internal/middleware"
	"github.com/placenet/placement-backend/internal/model"
	"github.com/placenet/placement-backend/internal/response"
	"github.com/placenet/placement-backend/internal/service"
	"github.com/placenet/placement-backend/internal/validator"
)

// StudentPortalHandler handles the student-facing portal: profile, exam
// taking, and results.
type StudentPortalHandler struct {
	studentService *service.StudentService
	examService    *service.ExamService
	sessionService *service.ExamSessionService
}

// NewStudentPortalHandler creates a new StudentPortalHandler.
func NewStudentPortalHandler(
	studentService *service.StudentService,
	examService *service.ExamService,
	sessionService *service.ExamSessionService,
) *StudentPortalHandler {
	return &StudentPortalHandler{
		studentService: studentService,
		examService:    examService,
		sessionService: sessionService,
	}
}

// GetProfile godoc
// GET /api/v1/student/profile
func (h *StudentPortalHandler) GetProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)

	user, err := h.studentService.GetProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile": user})
}

// UpdateProfile godoc
// PUT /api/v1/student/profile
// Only whitelisted fields are mutable; anything else in the payload is ignored.
func (h *StudentPortalHandler) UpdateProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.UpdateProfileRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.studentService.UpdateProfile(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile": user})
}

// ListExams godoc
// GET /api/v1/student/exams
// Lists published exams available to the student.
func (h *StudentPortalHandler) ListExams(c *gin.Context) {
	published := model.ExamStatusPublished
	exams, err := h.examService.List(c.Request.Context(), &published)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}

// StartExam godoc
// POST /api/v1/student/exams/:examId/start
// Opens (or resumes) an attempt and returns the exam payload. The payload
// never contains correct options or test cases.
func (h *StudentPortalHandler) StartExam(c *gin.Context) {
	claims := middleware.GetClaims(c)

	examID, err := uuid.Parse(c.Param("examId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	attempt, err := h.sessionService.Start(c.Request.Context(), examID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamNotPublished):
			response.Fail(c, http.StatusConflict, response.ErrExamNotPublished)
		case errors.Is(err, service.ErrAttemptInProgress):
			response.Fail(c, http.StatusConflict, response.ErrAttemptInProgress)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	payload, err := h.examService.GetPayload(c.Request.Context(), examID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"attempt":  attempt,
		"exam":     payload,
		"deadline": attempt.Deadline(payload.DurationMinutes),
	})
}

// SubmitExam godoc
// POST /api/v1/student/exams/submit
// Grades and finalizes the student's in-progress attempt.
func (h *StudentPortalHandler) SubmitExam(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.SubmitExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	attempt, err := h.sessionService.Submit(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAttemptNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrAlreadySubmitted):
			response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
		case errors.Is(err, service.ErrAttemptNotActive):
			response.Fail(c, http.StatusConflict, response.ErrAttemptNotActive)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": attempt})
}

// GetResult godoc
// GET /api/v1/student/exams/:examId/result
// Returns the result view for the student's attempt at this exam. Scores
// appear only after evaluation completes.
func (h *StudentPortalHandler) GetResult(c *gin.Context) {
	claims := middleware.GetClaims(c)

	examID, err := uuid.Parse(c.Param("examId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	view, err := h.sessionService.GetResult(c.Request.Context(), examID, claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": view})
}
