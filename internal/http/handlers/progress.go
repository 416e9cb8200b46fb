package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/edvance/edvance-backend/internal/http/response"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
	"github.com/edvance/edvance-backend/internal/services"
)

type ProgressHandler struct {
	log      *logger.Logger
	progress services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		log:      log.With("handler", "ProgressHandler"),
		progress: progress,
	}
}

type enrollRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

func (h *ProgressHandler) Enroll(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	enrollment, err := h.progress.Enroll(c.Request.Context(), req.UserID, courseID)
	if err != nil {
		response.RespondMappedError(c, "enroll_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"enrollment": enrollment})
}

type completeLessonRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

func (h *ProgressHandler) CompleteLesson(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_lesson_id", err)
		return
	}
	var req completeLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	percent, err := h.progress.RecordLessonCompletion(c.Request.Context(), req.UserID, lessonID)
	if err != nil {
		h.log.Error("CompleteLesson failed", "user_id", req.UserID, "lesson_id", lessonID, "error", err)
		response.RespondMappedError(c, "complete_lesson_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"progress_percent": percent})
}
