package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/edvance/edvance-backend/internal/domain"
	apperrors "github.com/edvance/edvance-backend/internal/pkg/errors"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
	"github.com/edvance/edvance-backend/internal/repos"
)

type CreateCourseInput struct {
	Title           string
	Description     string
	Category        string
	Level           string
	DurationMinutes int
	Published       bool
}

// UpdateCourseInput applies only the fields that are set.
type UpdateCourseInput struct {
	Title           *string
	Description     *string
	Category        *string
	Level           *string
	DurationMinutes *int
	Published       *bool
}

// HierarchyService owns the course -> module -> lesson tree. Parents must
// exist before children are created, and deletion removes children before
// parents so foreign keys never dangle.
type HierarchyService interface {
	CreateCourse(ctx context.Context, input CreateCourseInput) (*domain.Course, error)
	UpdateCourse(ctx context.Context, courseID uuid.UUID, input UpdateCourseInput) (*domain.Course, error)
	GetCourse(ctx context.Context, courseID uuid.UUID) (*domain.Course, error)
	ListCourses(ctx context.Context) ([]*domain.Course, error)
	CreateModule(ctx context.Context, courseID uuid.UUID, title string, index int) (*domain.CourseModule, error)
	CreateLesson(ctx context.Context, moduleID uuid.UUID, title string, index int, content []byte) (*domain.Lesson, error)

	// ListLessonIDsForCourse resolves the lesson ids transitively under a
	// course. Callers that are about to delete rows must capture this
	// result before the first delete: once modules or lessons are gone the
	// join returns an empty set and dependent cleanup is silently skipped.
	ListLessonIDsForCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]uuid.UUID, error)

	// DeleteCourseRows removes lessons, then modules, then the course's own
	// enrollment rows, then the course row itself.
	DeleteCourseRows(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) error
}

type hierarchyService struct {
	db             *gorm.DB
	log            *logger.Logger
	courseRepo     repos.CourseRepo
	moduleRepo     repos.CourseModuleRepo
	lessonRepo     repos.LessonRepo
	enrollmentRepo repos.EnrollmentRepo
}

func NewHierarchyService(db *gorm.DB, log *logger.Logger, courseRepo repos.CourseRepo, moduleRepo repos.CourseModuleRepo, lessonRepo repos.LessonRepo, enrollmentRepo repos.EnrollmentRepo) HierarchyService {
	serviceLog := log.With("service", "HierarchyService")
	return &hierarchyService{
		db:             db,
		log:            serviceLog,
		courseRepo:     courseRepo,
		moduleRepo:     moduleRepo,
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func (s *hierarchyService) CreateCourse(ctx context.Context, input CreateCourseInput) (*domain.Course, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("course title is required: %w", apperrors.ErrValidation)
	}
	course := &domain.Course{
		Title:           input.Title,
		Description:     input.Description,
		Category:        input.Category,
		Level:           input.Level,
		DurationMinutes: input.DurationMinutes,
		Published:       input.Published,
	}
	if _, err := s.courseRepo.Create(ctx, nil, []*domain.Course{course}); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	s.log.Info("Course created", "course_id", course.ID)
	return course, nil
}

func (s *hierarchyService) UpdateCourse(ctx context.Context, courseID uuid.UUID, input UpdateCourseInput) (*domain.Course, error) {
	updates := map[string]interface{}{}
	if input.Title != nil {
		if *input.Title == "" {
			return nil, fmt.Errorf("course title cannot be empty: %w", apperrors.ErrValidation)
		}
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Level != nil {
		updates["level"] = *input.Level
	}
	if input.DurationMinutes != nil {
		updates["duration_minutes"] = *input.DurationMinutes
	}
	if input.Published != nil {
		updates["published"] = *input.Published
	}

	exists, err := s.courseRepo.Exists(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("check course: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("course %s: %w", courseID, apperrors.ErrNotFound)
	}
	if len(updates) > 0 {
		if err := s.courseRepo.Update(ctx, nil, courseID, updates); err != nil {
			return nil, fmt.Errorf("update course: %w", err)
		}
	}
	return s.GetCourse(ctx, courseID)
}

func (s *hierarchyService) GetCourse(ctx context.Context, courseID uuid.UUID) (*domain.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, nil, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course %s: %w", courseID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return course, nil
}

func (s *hierarchyService) ListCourses(ctx context.Context) ([]*domain.Course, error) {
	courses, err := s.courseRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

func (s *hierarchyService) CreateModule(ctx context.Context, courseID uuid.UUID, title string, index int) (*domain.CourseModule, error) {
	exists, err := s.courseRepo.Exists(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("check course: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("course %s: %w", courseID, apperrors.ErrNotFound)
	}
	module := &domain.CourseModule{
		CourseID: courseID,
		Title:    title,
		Index:    index,
	}
	if _, err := s.moduleRepo.Create(ctx, nil, []*domain.CourseModule{module}); err != nil {
		return nil, fmt.Errorf("create module: %w", err)
	}
	return module, nil
}

func (s *hierarchyService) CreateLesson(ctx context.Context, moduleID uuid.UUID, title string, index int, content []byte) (*domain.Lesson, error) {
	if _, err := s.moduleRepo.GetByID(ctx, nil, moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("module %s: %w", moduleID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("check module: %w", err)
	}
	if len(content) == 0 {
		content = []byte("[]")
	}
	lesson := &domain.Lesson{
		ModuleID:    moduleID,
		Title:       title,
		Index:       index,
		ContentJSON: datatypes.JSON(content),
	}
	if _, err := s.lessonRepo.Create(ctx, nil, []*domain.Lesson{lesson}); err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}
	return lesson, nil
}

func (s *hierarchyService) ListLessonIDsForCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]uuid.UUID, error) {
	moduleIDs, err := s.moduleRepo.ListIDsByCourseID(ctx, tx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list module ids: %w", err)
	}
	lessonIDs, err := s.lessonRepo.ListIDsByModuleIDs(ctx, tx, moduleIDs)
	if err != nil {
		return nil, fmt.Errorf("list lesson ids: %w", err)
	}
	return lessonIDs, nil
}

func (s *hierarchyService) DeleteCourseRows(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) error {
	moduleIDs, err := s.moduleRepo.ListIDsByCourseID(ctx, tx, courseID)
	if err != nil {
		return fmt.Errorf("list module ids: %w", err)
	}
	// Children before parents.
	if err := s.lessonRepo.FullDeleteByModuleIDs(ctx, tx, moduleIDs); err != nil {
		return fmt.Errorf("delete lessons: %w", err)
	}
	if err := s.moduleRepo.FullDeleteByCourseID(ctx, tx, courseID); err != nil {
		return fmt.Errorf("delete modules: %w", err)
	}
	if err := s.enrollmentRepo.FullDeleteByCourseID(ctx, tx, courseID); err != nil {
		return fmt.Errorf("delete enrollments: %w", err)
	}
	if err := s.courseRepo.FullDeleteByID(ctx, tx, courseID); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}
