package app

import (
	"gorm.io/gorm"

	"github.com/edvance/edvance-backend/internal/pkg/logger"
	"github.com/edvance/edvance-backend/internal/repos"
)

type Repos struct {
	User               repos.UserRepo
	Course             repos.CourseRepo
	CourseModule       repos.CourseModuleRepo
	Lesson             repos.LessonRepo
	Enrollment         repos.EnrollmentRepo
	LessonProgress     repos.LessonProgressRepo
	CareerPath         repos.CareerPathRepo
	UserCareerProgress repos.UserCareerProgressRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:               repos.NewUserRepo(db, log),
		Course:             repos.NewCourseRepo(db, log),
		CourseModule:       repos.NewCourseModuleRepo(db, log),
		Lesson:             repos.NewLessonRepo(db, log),
		Enrollment:         repos.NewEnrollmentRepo(db, log),
		LessonProgress:     repos.NewLessonProgressRepo(db, log),
		CareerPath:         repos.NewCareerPathRepo(db, log),
		UserCareerProgress: repos.NewUserCareerProgressRepo(db, log),
	}
}
