package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/placenet/placement-backend/internal/middleware"
	"github.com/placenet/placement-backend/internal/model"
	"github.com/placenet/placement-backend/internal/response"
	"github.com/placenet/placement-backend/internal/service"
	"github.com/placenet/placement-backend/internal/validator"
)

// CourseHandler handles preparation course endpoints.
type CourseHandler struct {
	courseService *service.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// CreateCourseRequest is the admin payload for adding a course.
type CreateCourseRequest struct {
	Title         string `json:"title" binding:"required,min=2,max=200"`
	Category      string `json:"category" binding:"required,oneof=programming aptitude"`
	Description   string `json:"description" binding:"omitempty,max=5000"`
	Content       string `json:"content" binding:"omitempty"`
	DurationHours int    `json:"duration_hours" binding:"required,min=1,max=500"`
}

// CreateCourse godoc
// POST /api/v1/admin/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course := &model.Course{
		Title:         req.Title,
		Category:      model.CourseCategory(req.Category),
		Description:   req.Description,
		Content:       req.Content,
		DurationHours: req.DurationHours,
	}
	if _, err := h.courseService.Create(c.Request.Context(), course); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"course": course})
}

// ListCourses godoc
// GET /api/v1/student/courses
// The catalog with the student's enrollment state overlaid.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	claims := middleware.GetClaims(c)

	courses, err := h.courseService.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// Enroll godoc
// POST /api/v1/student/courses/:courseId/enroll
func (h *CourseHandler) Enroll(c *gin.Context) {
	claims := middleware.GetClaims(c)

	courseID, err := strconv.Atoi(c.Param("courseId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	enrollment, err := h.courseService.Enroll(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrAlreadyEnrolled):
			response.Fail(c, http.StatusConflict, response.ErrAlreadyEnrolled)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"enrollment": enrollment})
}

// UpdateProgress godoc
// PUT /api/v1/student/courses/:courseId/progress
func (h *CourseHandler) UpdateProgress(c *gin.Context) {
	claims := middleware.GetClaims(c)

	courseID, err := strconv.Atoi(c.Param("courseId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateProgressRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	enrollment, err := h.courseService.UpdateProgress(c.Request.Context(), claims.UserID, courseID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotEnrolled) {
			response.Fail(c, http.StatusConflict, response.ErrNotEnrolled)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"enrollment": enrollment})
}
