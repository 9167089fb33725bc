package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/placenet/placement-backend/internal/config"
	"github.com/placenet/placement-backend/internal/middleware"
	"github.com/placenet/placement-backend/internal/model"
	"github.com/placenet/placement-backend/internal/response"
	"github.com/placenet/placement-backend/internal/service"
	"github.com/placenet/placement-backend/internal/validator"
)

// ProctoringHandler handles webcam frame uploads and client-side violation
// reports from the exam client.
type ProctoringHandler struct {
	cfg        *config.Config
	proctoring *service.ProctoringService
}

// NewProctoringHandler creates a new ProctoringHandler.
func NewProctoringHandler(cfg *config.Config, proctoring *service.ProctoringService) *ProctoringHandler {
	return &ProctoringHandler{cfg: cfg, proctoring: proctoring}
}

// UploadFrame godoc
// POST /api/v1/student/proctoring/frame
// Multipart upload: "attempt_id" form field plus a "frame" JPEG file. The
// exam client sends one frame per capture interval.
func (h *ProctoringHandler) UploadFrame(c *gin.Context) {
	claims := middleware.GetClaims(c)

	attemptID := c.PostForm("attempt_id")
	if attemptID == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	fileHeader, err := c.FormFile("frame")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFrameRequired)
		return
	}
	if fileHeader.Size > h.cfg.MaxFrameBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFrameTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFrameRequired)
		return
	}
	defer file.Close()

	frame, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxFrameBytes+1))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFrameRequired)
		return
	}
	if int64(len(frame)) > h.cfg.MaxFrameBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFrameTooLarge)
		return
	}

	report, err := h.proctoring.ProcessFrame(c.Request.Context(), claims.UserID, attemptID, frame)
	if err != nil {
		h.failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, report)
}

// ReportViolation godoc
// POST /api/v1/student/proctoring/report
// Records a violation the exam client detected locally (tab switch,
// fullscreen exit, and the like).
func (h *ProctoringHandler) ReportViolation(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.ReportViolationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	report, err := h.proctoring.Report(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		h.failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, report)
}

func (h *ProctoringHandler) failFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAttemptNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrAttemptNotActive):
		response.Fail(c, http.StatusConflict, response.ErrAttemptNotActive)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
