package app

import (
	"github.com/gin-gonic/gin"

	"github.com/edvance/edvance-backend/internal/http"
	httpH "github.com/edvance/edvance-backend/internal/http/handlers"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Course     *httpH.CourseHandler
	Progress   *httpH.ProgressHandler
	CareerPath *httpH.CareerPathHandler
	Audit      *httpH.AuditHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Course:     httpH.NewCourseHandler(log, services.Hierarchy, services.Cascade),
		Progress:   httpH.NewProgressHandler(log, services.Progress),
		CareerPath: httpH.NewCareerPathHandler(log, services.CareerPath, services.CareerProgress),
		Audit:      httpH.NewAuditHandler(log, services.Audit),
	}
}

func wireRouter(log *logger.Logger, handlers Handlers) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:               log,
		HealthHandler:     handlers.Health,
		CourseHandler:     handlers.Course,
		ProgressHandler:   handlers.Progress,
		CareerPathHandler: handlers.CareerPath,
		AuditHandler:      handlers.Audit,
	})
}
