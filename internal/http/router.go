package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/edvance/edvance-backend/internal/http/handlers"
	httpMW "github.com/edvance/edvance-backend/internal/http/middleware"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	HealthHandler     *httpH.HealthHandler
	CourseHandler     *httpH.CourseHandler
	ProgressHandler   *httpH.ProgressHandler
	CareerPathHandler *httpH.CareerPathHandler
	AuditHandler      *httpH.AuditHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("edvance-backend"))
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Course hierarchy
		if cfg.CourseHandler != nil {
			api.POST("/courses", cfg.CourseHandler.CreateCourse)
			api.GET("/courses", cfg.CourseHandler.ListCourses)
			api.GET("/courses/:id", cfg.CourseHandler.GetCourse)
			api.PUT("/courses/:id", cfg.CourseHandler.UpdateCourse)
			api.DELETE("/courses/:id", cfg.CourseHandler.DeleteCourse)
			api.POST("/courses/:id/modules", cfg.CourseHandler.CreateModule)
			api.DELETE("/modules/:id", cfg.CourseHandler.DeleteModule)
			api.POST("/modules/:id/lessons", cfg.CourseHandler.CreateLesson)
			api.DELETE("/lessons/:id", cfg.CourseHandler.DeleteLesson)
		}

		// Enrollment progress
		if cfg.ProgressHandler != nil {
			api.POST("/courses/:id/enroll", cfg.ProgressHandler.Enroll)
			api.POST("/lessons/:id/complete", cfg.ProgressHandler.CompleteLesson)
		}

		// Career paths
		if cfg.CareerPathHandler != nil {
			api.POST("/career-paths", cfg.CareerPathHandler.CreatePath)
			api.GET("/career-paths", cfg.CareerPathHandler.ListPaths)
			api.GET("/career-paths/:id", cfg.CareerPathHandler.GetPath)
			api.PUT("/career-paths/:id/courses", cfg.CareerPathHandler.SetCourses)
			api.POST("/career-paths/:id/start", cfg.CareerPathHandler.StartPath)
			api.POST("/career-paths/:id/complete-course", cfg.CareerPathHandler.CompleteCourse)
			api.GET("/career-paths/:id/progress", cfg.CareerPathHandler.GetProgress)
		}

		// Admin
		if cfg.AuditHandler != nil {
			api.POST("/admin/consistency-audit", cfg.AuditHandler.RunAudit)
		}
	}

	return r
}
