package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/edvance/edvance-backend/internal/http/response"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
	"github.com/edvance/edvance-backend/internal/services"
)

type CareerPathHandler struct {
	log            *logger.Logger
	paths          services.CareerPathService
	careerProgress services.CareerProgressService
}

func NewCareerPathHandler(log *logger.Logger, paths services.CareerPathService, careerProgress services.CareerProgressService) *CareerPathHandler {
	return &CareerPathHandler{
		log:            log.With("handler", "CareerPathHandler"),
		paths:          paths,
		careerProgress: careerProgress,
	}
}

type createPathRequest struct {
	Slug        string      `json:"slug" binding:"required"`
	Name        string      `json:"name" binding:"required"`
	Description string      `json:"description"`
	CourseIDs   []uuid.UUID `json:"course_ids"`
}

func (h *CareerPathHandler) CreatePath(c *gin.Context) {
	var req createPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	path, err := h.paths.CreatePath(c.Request.Context(), services.CreateCareerPathInput{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		CourseIDs:   req.CourseIDs,
	})
	if err != nil {
		response.RespondMappedError(c, "create_path_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"career_path": path})
}

func (h *CareerPathHandler) ListPaths(c *gin.Context) {
	paths, err := h.paths.ListPaths(c.Request.Context())
	if err != nil {
		response.RespondMappedError(c, "list_paths_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"career_paths": paths})
}

func (h *CareerPathHandler) GetPath(c *gin.Context) {
	pathID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_path_id", err)
		return
	}
	path, err := h.paths.GetPath(c.Request.Context(), pathID)
	if err != nil {
		response.RespondMappedError(c, "get_path_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"career_path": path})
}

type setCoursesRequest struct {
	CourseIDs []uuid.UUID `json:"course_ids"`
}

func (h *CareerPathHandler) SetCourses(c *gin.Context) {
	pathID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_path_id", err)
		return
	}
	var req setCoursesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	courseIDs, err := h.paths.SetCourses(c.Request.Context(), pathID, req.CourseIDs)
	if err != nil {
		response.RespondMappedError(c, "set_courses_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"course_ids": courseIDs})
}

type startPathRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

func (h *CareerPathHandler) StartPath(c *gin.Context) {
	pathID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_path_id", err)
		return
	}
	var req startPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	row, err := h.careerProgress.StartPath(c.Request.Context(), req.UserID, pathID)
	if err != nil {
		response.RespondMappedError(c, "start_path_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"career_progress": row})
}

type completeCourseRequest struct {
	UserID   uuid.UUID `json:"user_id" binding:"required"`
	CourseID uuid.UUID `json:"course_id" binding:"required"`
}

func (h *CareerPathHandler) CompleteCourse(c *gin.Context) {
	pathID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_path_id", err)
		return
	}
	var req completeCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	row, err := h.careerProgress.OnCourseCompleted(c.Request.Context(), req.UserID, pathID, req.CourseID)
	if err != nil {
		h.log.Error("CompleteCourse failed", "user_id", req.UserID, "path_id", pathID, "error", err)
		response.RespondMappedError(c, "complete_course_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"progress_percent":  row.ProgressPercent,
		"completed_courses": row.CompletedCourses,
	})
}

func (h *CareerPathHandler) GetProgress(c *gin.Context) {
	pathID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_path_id", err)
		return
	}
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	row, err := h.careerProgress.GetProgress(c.Request.Context(), userID, pathID)
	if err != nil {
		response.RespondMappedError(c, "get_progress_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"career_progress": row})
}
