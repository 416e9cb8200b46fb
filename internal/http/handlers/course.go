package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/edvance/edvance-backend/internal/http/response"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
	"github.com/edvance/edvance-backend/internal/services"
)

type CourseHandler struct {
	log       *logger.Logger
	hierarchy services.HierarchyService
	cascade   services.CascadeService
}

func NewCourseHandler(log *logger.Logger, hierarchy services.HierarchyService, cascade services.CascadeService) *CourseHandler {
	return &CourseHandler{
		log:       log.With("handler", "CourseHandler"),
		hierarchy: hierarchy,
		cascade:   cascade,
	}
}

type createCourseRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	Level           string `json:"level"`
	DurationMinutes int    `json:"duration_minutes"`
	Published       bool   `json:"published"`
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	course, err := h.hierarchy.CreateCourse(c.Request.Context(), services.CreateCourseInput{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Level:           req.Level,
		DurationMinutes: req.DurationMinutes,
		Published:       req.Published,
	})
	if err != nil {
		h.log.Error("CreateCourse failed", "error", err)
		response.RespondMappedError(c, "create_course_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"course": course})
}

type updateCourseRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Category        *string `json:"category"`
	Level           *string `json:"level"`
	DurationMinutes *int    `json:"duration_minutes"`
	Published       *bool   `json:"published"`
}

func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	var req updateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	course, err := h.hierarchy.UpdateCourse(c.Request.Context(), courseID, services.UpdateCourseInput{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Level:           req.Level,
		DurationMinutes: req.DurationMinutes,
		Published:       req.Published,
	})
	if err != nil {
		response.RespondMappedError(c, "update_course_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.hierarchy.ListCourses(c.Request.Context())
	if err != nil {
		h.log.Error("ListCourses failed", "error", err)
		response.RespondMappedError(c, "list_courses_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	course, err := h.hierarchy.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		response.RespondMappedError(c, "get_course_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	result, err := h.cascade.DeleteCourse(c.Request.Context(), courseID)
	if err != nil {
		h.log.Error("DeleteCourse failed", "course_id", courseID, "failed_at_step", result.FailedAtStep, "error", err)
		response.RespondMappedErrorWithResult(c, "delete_course_failed", err, result)
		return
	}
	response.RespondOK(c, result)
}

type createModuleRequest struct {
	Title string `json:"title" binding:"required"`
	Index int    `json:"index"`
}

func (h *CourseHandler) CreateModule(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	var req createModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	module, err := h.hierarchy.CreateModule(c.Request.Context(), courseID, req.Title, req.Index)
	if err != nil {
		response.RespondMappedError(c, "create_module_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"module": module})
}

func (h *CourseHandler) DeleteModule(c *gin.Context) {
	moduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_module_id", err)
		return
	}
	result, err := h.cascade.DeleteModule(c.Request.Context(), moduleID)
	if err != nil {
		response.RespondMappedErrorWithResult(c, "delete_module_failed", err, result)
		return
	}
	response.RespondOK(c, result)
}

type createLessonRequest struct {
	Title   string          `json:"title" binding:"required"`
	Index   int             `json:"index"`
	Content json.RawMessage `json:"content"`
}

func (h *CourseHandler) CreateLesson(c *gin.Context) {
	moduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_module_id", err)
		return
	}
	var req createLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	lesson, err := h.hierarchy.CreateLesson(c.Request.Context(), moduleID, req.Title, req.Index, req.Content)
	if err != nil {
		response.RespondMappedError(c, "create_lesson_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"lesson": lesson})
}

func (h *CourseHandler) DeleteLesson(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_lesson_id", err)
		return
	}
	result, err := h.cascade.DeleteLesson(c.Request.Context(), lessonID)
	if err != nil {
		response.RespondMappedErrorWithResult(c, "delete_lesson_failed", err, result)
		return
	}
	response.RespondOK(c, result)
}
