package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edvance/edvance-backend/internal/domain"
	apperrors "github.com/edvance/edvance-backend/internal/pkg/errors"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
	"github.com/edvance/edvance-backend/internal/repos"
)

// ProgressService keeps each enrollment's completion percentage correct
// relative to the course's current lesson set.
type ProgressService interface {
	Enroll(ctx context.Context, userID, courseID uuid.UUID) (*domain.Enrollment, error)
	RecordLessonCompletion(ctx context.Context, userID, lessonID uuid.UUID) (float64, error)

	// RemoveLessonProgress deletes every LessonProgress row whose lesson id
	// is in the set. Must complete before progress is recomputed.
	RemoveLessonProgress(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) (int64, error)

	// RecalculateEnrollmentProgress recomputes every enrollment on the
	// course against the current lesson count. Per-enrollment failures are
	// logged and collected, never fatal to the batch.
	RecalculateEnrollmentProgress(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]uuid.UUID, error)
}

type progressService struct {
	db                 *gorm.DB
	log                *logger.Logger
	userRepo           repos.UserRepo
	courseRepo         repos.CourseRepo
	moduleRepo         repos.CourseModuleRepo
	lessonRepo         repos.LessonRepo
	enrollmentRepo     repos.EnrollmentRepo
	lessonProgressRepo repos.LessonProgressRepo
}

func NewProgressService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, courseRepo repos.CourseRepo, moduleRepo repos.CourseModuleRepo, lessonRepo repos.LessonRepo, enrollmentRepo repos.EnrollmentRepo, lessonProgressRepo repos.LessonProgressRepo) ProgressService {
	serviceLog := log.With("service", "ProgressService")
	return &progressService{
		db:                 db,
		log:                serviceLog,
		userRepo:           userRepo,
		courseRepo:         courseRepo,
		moduleRepo:         moduleRepo,
		lessonRepo:         lessonRepo,
		enrollmentRepo:     enrollmentRepo,
		lessonProgressRepo: lessonProgressRepo,
	}
}

func (s *progressService) Enroll(ctx context.Context, userID, courseID uuid.UUID) (*domain.Enrollment, error) {
	userExists, err := s.userRepo.Exists(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !userExists {
		return nil, fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	courseExists, err := s.courseRepo.Exists(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("check course: %w", err)
	}
	if !courseExists {
		return nil, fmt.Errorf("course %s: %w", courseID, apperrors.ErrNotFound)
	}

	// Enrolling twice returns the existing row.
	existing, err := s.enrollmentRepo.GetByUserAndCourse(ctx, nil, userID, courseID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}

	row := &domain.Enrollment{UserID: userID, CourseID: courseID}
	if _, err := s.enrollmentRepo.Create(ctx, nil, []*domain.Enrollment{row}); err != nil {
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	s.log.Info("User enrolled", "user_id", userID, "course_id", courseID)
	return row, nil
}

func (s *progressService) RecordLessonCompletion(ctx context.Context, userID, lessonID uuid.UUID) (float64, error) {
	var percent float64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		lesson, err := s.lessonRepo.GetByID(ctx, tx, lessonID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("lesson %s: %w", lessonID, apperrors.ErrNotFound)
			}
			return fmt.Errorf("get lesson: %w", err)
		}
		module, err := s.moduleRepo.GetByID(ctx, tx, lesson.ModuleID)
		if err != nil {
			return fmt.Errorf("get module: %w", err)
		}

		enrollment, err := s.enrollmentRepo.GetByUserAndCourse(ctx, tx, userID, module.CourseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %s is not enrolled in course %s: %w", userID, module.CourseID, apperrors.ErrNotFound)
			}
			return fmt.Errorf("get enrollment: %w", err)
		}

		now := time.Now().UTC()
		row := &domain.LessonProgress{
			UserID:      userID,
			LessonID:    lessonID,
			Completed:   true,
			CompletedAt: &now,
		}
		if err := s.lessonProgressRepo.Upsert(ctx, tx, row); err != nil {
			return fmt.Errorf("upsert lesson progress: %w", err)
		}

		percent, err = s.computeCoursePercent(ctx, tx, userID, module.CourseID)
		if err != nil {
			return err
		}
		if err := s.enrollmentRepo.UpdateProgress(ctx, tx, enrollment.ID, percent, percent >= 100); err != nil {
			return fmt.Errorf("update enrollment progress: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, apperrors.ClassifyStore(err)
	}
	return percent, nil
}

func (s *progressService) RemoveLessonProgress(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) (int64, error) {
	removed, err := s.lessonProgressRepo.FullDeleteByLessonIDs(ctx, tx, lessonIDs)
	if err != nil {
		return 0, fmt.Errorf("delete lesson progress: %w", err)
	}
	return removed, nil
}

func (s *progressService) RecalculateEnrollmentProgress(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]uuid.UUID, error) {
	enrollments, err := s.enrollmentRepo.GetByCourseID(ctx, tx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	if len(enrollments) == 0 {
		return nil, nil
	}

	moduleIDs, err := s.moduleRepo.ListIDsByCourseID(ctx, tx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list module ids: %w", err)
	}
	lessonIDs, err := s.lessonRepo.ListIDsByModuleIDs(ctx, tx, moduleIDs)
	if err != nil {
		return nil, fmt.Errorf("list lesson ids: %w", err)
	}

	var failed []uuid.UUID
	for _, enrollment := range enrollments {
		var completed int64
		if len(lessonIDs) > 0 {
			completed, err = s.lessonProgressRepo.CountCompleted(ctx, tx, enrollment.UserID, lessonIDs)
			if err != nil {
				s.log.Warn("Enrollment recompute failed, skipping", "user_id", enrollment.UserID, "course_id", courseID, "error", err)
				failed = append(failed, enrollment.UserID)
				continue
			}
		}
		// 0 lessons means exactly 0 percent, never a stale value or NaN.
		percent := domain.PercentOf(int(completed), len(lessonIDs))
		if err := s.enrollmentRepo.UpdateProgress(ctx, tx, enrollment.ID, percent, len(lessonIDs) > 0 && percent >= 100); err != nil {
			s.log.Warn("Enrollment update failed, skipping", "user_id", enrollment.UserID, "course_id", courseID, "error", err)
			failed = append(failed, enrollment.UserID)
			continue
		}
	}
	return failed, nil
}

func (s *progressService) computeCoursePercent(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (float64, error) {
	moduleIDs, err := s.moduleRepo.ListIDsByCourseID(ctx, tx, courseID)
	if err != nil {
		return 0, fmt.Errorf("list module ids: %w", err)
	}
	lessonIDs, err := s.lessonRepo.ListIDsByModuleIDs(ctx, tx, moduleIDs)
	if err != nil {
		return 0, fmt.Errorf("list lesson ids: %w", err)
	}
	if len(lessonIDs) == 0 {
		return 0, nil
	}
	completed, err := s.lessonProgressRepo.CountCompleted(ctx, tx, userID, lessonIDs)
	if err != nil {
		return 0, fmt.Errorf("count completed lessons: %w", err)
	}
	return domain.PercentOf(int(completed), len(lessonIDs)), nil
}
