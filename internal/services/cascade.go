package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	apperrors "github.com/edvance/edvance-backend/internal/pkg/errors"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
	"github.com/edvance/edvance-backend/internal/repos"
)

// Cascade step identifiers, reported on fatal failure so callers know
// where the transaction aborted before retrying.
const (
	// StepBeginTransaction is reported when the transaction could not
	// begin or commit, before or after the numbered steps ran.
	StepBeginTransaction     = "begin_transaction"
	StepCaptureLessons       = "capture_lessons"
	StepRemoveLessonProgress = "remove_lesson_progress"
	StepDeleteCourseRows     = "delete_course_rows"
	StepUpdateCareerPaths    = "update_career_paths"
	StepRecalcCareerProgress = "recalculate_career_progress"
)

// CascadeResult reports what a course deletion touched. On fatal failure
// FailedAtStep names the aborted step; per-user recompute failures land in
// FailedUserIDs without aborting.
type CascadeResult struct {
	LessonsRemoved      int         `json:"lessonsRemoved"`
	EnrollmentsAffected int         `json:"enrollmentsAffected"`
	PathsUpdated        []uuid.UUID `json:"pathsUpdated"`
	UsersRecalculated   int         `json:"usersRecalculated"`
	FailedUserIDs       []uuid.UUID `json:"failedUserIds,omitempty"`
	FailedAtStep        string      `json:"failedAtStep,omitempty"`
}

// CascadeService is the single entry point for deletions that fan out
// across the hierarchy, enrollments, and career paths. It holds no state;
// each invocation is one transaction whose step order is the correctness
// contract: lesson ids are captured before any row is removed, and career
// path progress is recomputed only after the membership lists have been
// updated.
type CascadeService interface {
	DeleteCourse(ctx context.Context, courseID uuid.UUID) (*CascadeResult, error)
	DeleteModule(ctx context.Context, moduleID uuid.UUID) (*CascadeResult, error)
	DeleteLesson(ctx context.Context, lessonID uuid.UUID) (*CascadeResult, error)
}

type cascadeService struct {
	db             *gorm.DB
	log            *logger.Logger
	hierarchy      HierarchyService
	progress       ProgressService
	paths          CareerPathService
	careerProgress CareerProgressService
	courseRepo     repos.CourseRepo
	moduleRepo     repos.CourseModuleRepo
	lessonRepo     repos.LessonRepo
	enrollmentRepo repos.EnrollmentRepo
}

func NewCascadeService(db *gorm.DB, log *logger.Logger, hierarchy HierarchyService, progress ProgressService, paths CareerPathService, careerProgress CareerProgressService, courseRepo repos.CourseRepo, moduleRepo repos.CourseModuleRepo, lessonRepo repos.LessonRepo, enrollmentRepo repos.EnrollmentRepo) CascadeService {
	serviceLog := log.With("service", "CascadeService")
	return &cascadeService{
		db:             db,
		log:            serviceLog,
		hierarchy:      hierarchy,
		progress:       progress,
		paths:          paths,
		careerProgress: careerProgress,
		courseRepo:     courseRepo,
		moduleRepo:     moduleRepo,
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func (s *cascadeService) DeleteCourse(ctx context.Context, courseID uuid.UUID) (*CascadeResult, error) {
	tracer := otel.Tracer("services/cascade")
	ctx, span := tracer.Start(ctx, "CascadeService.DeleteCourse",
		trace.WithAttributes(attribute.String("course_id", courseID.String())))
	defer span.End()

	result := &CascadeResult{PathsUpdated: []uuid.UUID{}}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		exists, err := s.courseRepo.Exists(ctx, tx, courseID)
		if err != nil {
			result.FailedAtStep = StepCaptureLessons
			return fmt.Errorf("check course: %w", err)
		}
		if !exists {
			// Deleting an already-deleted course is a no-op success: the
			// end state is identical.
			s.log.Info("Course already absent, cascade is a no-op", "course_id", courseID)
			return nil
		}

		// Step 1: capture the lesson set before anything is removed.
		lessonIDs, err := s.hierarchy.ListLessonIDsForCourse(ctx, tx, courseID)
		if err != nil {
			result.FailedAtStep = StepCaptureLessons
			return err
		}
		span.AddEvent("lessons_captured", trace.WithAttributes(attribute.Int("count", len(lessonIDs))))

		enrollments, err := s.enrollmentRepo.CountByCourseID(ctx, tx, courseID)
		if err != nil {
			result.FailedAtStep = StepCaptureLessons
			return fmt.Errorf("count enrollments: %w", err)
		}

		// Step 2: dependent progress rows go before the lessons they
		// reference.
		if _, err := s.progress.RemoveLessonProgress(ctx, tx, lessonIDs); err != nil {
			result.FailedAtStep = StepRemoveLessonProgress
			return err
		}
		span.AddEvent("lesson_progress_removed")

		// Step 3: lessons, modules, enrollments, course row.
		if err := s.hierarchy.DeleteCourseRows(ctx, tx, courseID); err != nil {
			result.FailedAtStep = StepDeleteCourseRows
			return err
		}
		span.AddEvent("course_rows_deleted")

		// Step 4: enrollment recompute for this course is moot, its rows
		// are gone. Other courses are untouched by construction.

		// Step 5: heal every membership list that referenced the course.
		updated, err := s.paths.RemoveCourseFromAllPaths(ctx, tx, courseID)
		if err != nil {
			result.FailedAtStep = StepUpdateCareerPaths
			return err
		}
		span.AddEvent("career_paths_updated", trace.WithAttributes(attribute.Int("count", len(updated))))

		// Step 6: recompute per-user path progress against the updated
		// lists. Per-user failures are collected, not fatal.
		usersRecalculated := 0
		var failedUsers []uuid.UUID
		for _, pathID := range updated {
			n, failed, err := s.careerProgress.OnCourseRemovedFromPath(ctx, tx, pathID, courseID)
			if err != nil {
				result.FailedAtStep = StepRecalcCareerProgress
				return err
			}
			usersRecalculated += n
			failedUsers = append(failedUsers, failed...)
		}

		result.LessonsRemoved = len(lessonIDs)
		result.EnrollmentsAffected = int(enrollments)
		result.PathsUpdated = updated
		result.UsersRecalculated = usersRecalculated
		result.FailedUserIDs = failedUsers
		return nil
	})
	if err != nil {
		if result.FailedAtStep == "" {
			result.FailedAtStep = StepBeginTransaction
		}
		err = apperrors.ClassifyStore(err)
		s.log.Error("Course deletion cascade failed", "course_id", courseID, "failed_at_step", result.FailedAtStep, "error", err)
		return result, err
	}

	s.log.Info("Course deletion cascade complete",
		"course_id", courseID,
		"lessons_removed", result.LessonsRemoved,
		"enrollments_affected", result.EnrollmentsAffected,
		"paths_updated", len(result.PathsUpdated),
		"users_recalculated", result.UsersRecalculated,
	)
	return result, nil
}

func (s *cascadeService) DeleteModule(ctx context.Context, moduleID uuid.UUID) (*CascadeResult, error) {
	result := &CascadeResult{PathsUpdated: []uuid.UUID{}}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		module, err := s.moduleRepo.GetByID(ctx, tx, moduleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			result.FailedAtStep = StepCaptureLessons
			return fmt.Errorf("get module: %w", err)
		}

		lessonIDs, err := s.lessonRepo.ListIDsByModuleIDs(ctx, tx, []uuid.UUID{moduleID})
		if err != nil {
			result.FailedAtStep = StepCaptureLessons
			return err
		}

		if _, err := s.progress.RemoveLessonProgress(ctx, tx, lessonIDs); err != nil {
			result.FailedAtStep = StepRemoveLessonProgress
			return err
		}
		if err := s.lessonRepo.FullDeleteByModuleIDs(ctx, tx, []uuid.UUID{moduleID}); err != nil {
			result.FailedAtStep = StepDeleteCourseRows
			return fmt.Errorf("delete lessons: %w", err)
		}
		if err := s.moduleRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{moduleID}); err != nil {
			result.FailedAtStep = StepDeleteCourseRows
			return fmt.Errorf("delete module: %w", err)
		}

		// The course shrank; every enrollment percentage changes.
		failed, err := s.progress.RecalculateEnrollmentProgress(ctx, tx, module.CourseID)
		if err != nil {
			result.FailedAtStep = StepRecalcCareerProgress
			return err
		}
		enrollments, err := s.enrollmentRepo.CountByCourseID(ctx, tx, module.CourseID)
		if err != nil {
			result.FailedAtStep = StepRecalcCareerProgress
			return fmt.Errorf("count enrollments: %w", err)
		}

		result.LessonsRemoved = len(lessonIDs)
		result.EnrollmentsAffected = int(enrollments)
		result.FailedUserIDs = failed
		return nil
	})
	if err != nil {
		if result.FailedAtStep == "" {
			result.FailedAtStep = StepBeginTransaction
		}
		return result, apperrors.ClassifyStore(err)
	}
	return result, nil
}

func (s *cascadeService) DeleteLesson(ctx context.Context, lessonID uuid.UUID) (*CascadeResult, error) {
	result := &CascadeResult{PathsUpdated: []uuid.UUID{}}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		lesson, err := s.lessonRepo.GetByID(ctx, tx, lessonID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			result.FailedAtStep = StepCaptureLessons
			return fmt.Errorf("get lesson: %w", err)
		}
		module, err := s.moduleRepo.GetByID(ctx, tx, lesson.ModuleID)
		if err != nil {
			result.FailedAtStep = StepCaptureLessons
			return fmt.Errorf("get module: %w", err)
		}

		if _, err := s.progress.RemoveLessonProgress(ctx, tx, []uuid.UUID{lessonID}); err != nil {
			result.FailedAtStep = StepRemoveLessonProgress
			return err
		}
		if err := s.lessonRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{lessonID}); err != nil {
			result.FailedAtStep = StepDeleteCourseRows
			return fmt.Errorf("delete lesson: %w", err)
		}

		failed, err := s.progress.RecalculateEnrollmentProgress(ctx, tx, module.CourseID)
		if err != nil {
			result.FailedAtStep = StepRecalcCareerProgress
			return err
		}
		enrollments, err := s.enrollmentRepo.CountByCourseID(ctx, tx, module.CourseID)
		if err != nil {
			result.FailedAtStep = StepRecalcCareerProgress
			return fmt.Errorf("count enrollments: %w", err)
		}

		result.LessonsRemoved = 1
		result.EnrollmentsAffected = int(enrollments)
		result.FailedUserIDs = failed
		return nil
	})
	if err != nil {
		if result.FailedAtStep == "" {
			result.FailedAtStep = StepBeginTransaction
		}
		return result, apperrors.ClassifyStore(err)
	}
	return result, nil
}
