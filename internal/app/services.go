package app

import (
	"gorm.io/gorm"

	"github.com/edvance/edvance-backend/internal/pkg/logger"
	"github.com/edvance/edvance-backend/internal/services"
)

type Services struct {
	Hierarchy      services.HierarchyService
	Progress       services.ProgressService
	CareerPath     services.CareerPathService
	CareerProgress services.CareerProgressService
	Cascade        services.CascadeService
	Audit          services.AuditService
}

func wireServices(db *gorm.DB, log *logger.Logger, r Repos) Services {
	log.Info("Wiring services...")
	hierarchy := services.NewHierarchyService(db, log, r.Course, r.CourseModule, r.Lesson, r.Enrollment)
	progress := services.NewProgressService(db, log, r.User, r.Course, r.CourseModule, r.Lesson, r.Enrollment, r.LessonProgress)
	careerPath := services.NewCareerPathService(db, log, r.CareerPath)
	careerProgress := services.NewCareerProgressService(db, log, r.User, r.CareerPath, r.UserCareerProgress)
	cascade := services.NewCascadeService(db, log, hierarchy, progress, careerPath, careerProgress, r.Course, r.CourseModule, r.Lesson, r.Enrollment)
	audit := services.NewAuditService(db, log, r.Course, r.Lesson, r.CareerPath, r.UserCareerProgress)

	return Services{
		Hierarchy:      hierarchy,
		Progress:       progress,
		CareerPath:     careerPath,
		CareerProgress: careerProgress,
		Cascade:        cascade,
		Audit:          audit,
	}
}
