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

// JobHandler handles job posting and application endpoints.
type JobHandler struct {
	jobService *service.JobService
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobService *service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// CreateJob godoc
// POST /api/v1/admin/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateJobRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	job, err := h.jobService.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"job": job})
}

// ListAllJobs godoc
// GET /api/v1/admin/jobs
func (h *JobHandler) ListAllJobs(c *gin.Context) {
	jobs, err := h.jobService.ListAll(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"jobs": jobs})
}

// ListApplicants godoc
// GET /api/v1/admin/jobs/:jobId/applicants
func (h *JobHandler) ListApplicants(c *gin.Context) {
	jobID, err := strconv.Atoi(c.Param("jobId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	applicants, err := h.jobService.Applicants(c.Request.Context(), jobID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"applicants": applicants})
}

// UpdateApplicationStatus godoc
// PUT /api/v1/admin/applications/:applicationId
func (h *JobHandler) UpdateApplicationStatus(c *gin.Context) {
	applicationID, err := strconv.Atoi(c.Param("applicationId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateApplicationStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.jobService.UpdateApplicationStatus(c.Request.Context(), applicationID, &req); err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// ListJobs godoc
// GET /api/v1/student/jobs
// Active jobs with eligibility and application state for the student.
func (h *JobHandler) ListJobs(c *gin.Context) {
	claims := middleware.GetClaims(c)

	jobs, err := h.jobService.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"jobs": jobs})
}

// Apply godoc
// POST /api/v1/student/jobs/:jobId/apply
func (h *JobHandler) Apply(c *gin.Context) {
	claims := middleware.GetClaims(c)

	jobID, err := strconv.Atoi(c.Param("jobId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	app, err := h.jobService.Apply(c.Request.Context(), claims.UserID, jobID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrJobNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrJobClosed), errors.Is(err, service.ErrDeadlinePassed):
			response.Fail(c, http.StatusConflict, response.ErrDeadlinePassed)
		case errors.Is(err, service.ErrNotEligible):
			response.Fail(c, http.StatusForbidden, response.ErrNotEligible)
		case errors.Is(err, service.ErrAlreadyApplied):
			response.Fail(c, http.StatusConflict, response.ErrAlreadyApplied)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"application": app})
}

// MyApplications godoc
// GET /api/v1/student/applications
func (h *JobHandler) MyApplications(c *gin.Context) {
	claims := middleware.GetClaims(c)

	apps, err := h.jobService.MyApplications(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"applications": apps})
}
