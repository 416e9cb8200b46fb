package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edvance/edvance-backend/internal/domain"
	apperrors "github.com/edvance/edvance-backend/internal/pkg/errors"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
	"github.com/edvance/edvance-backend/internal/repos"
)

// CareerProgressService keeps every user's completed-course set and
// percentage consistent with the owning path's current membership list.
// Recomputation is eager: callers observe a correct percentage as soon as
// the mutating call returns.
type CareerProgressService interface {
	StartPath(ctx context.Context, userID, pathID uuid.UUID) (*domain.UserCareerProgress, error)
	GetProgress(ctx context.Context, userID, pathID uuid.UUID) (*domain.UserCareerProgress, error)

	// OnCourseCompleted marks courseID completed within the path. A course
	// outside the membership list cannot be completed within it; the call
	// is a silent no-op in that case.
	OnCourseCompleted(ctx context.Context, userID, pathID, courseID uuid.UUID) (*domain.UserCareerProgress, error)

	// OnCourseRemovedFromPath strips courseID from every user's completed
	// set on the path and recomputes percentages against the
	// already-updated membership list. It must run strictly after the
	// membership removal; running before would compute against the stale,
	// larger denominator. Returns the number of users recalculated and the
	// ids of users whose recompute failed (non-fatal).
	OnCourseRemovedFromPath(ctx context.Context, tx *gorm.DB, pathID, courseID uuid.UUID) (int, []uuid.UUID, error)
}

type careerProgressService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	pathRepo     repos.CareerPathRepo
	progressRepo repos.UserCareerProgressRepo
}

func NewCareerProgressService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, pathRepo repos.CareerPathRepo, progressRepo repos.UserCareerProgressRepo) CareerProgressService {
	serviceLog := log.With("service", "CareerProgressService")
	return &careerProgressService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		pathRepo:     pathRepo,
		progressRepo: progressRepo,
	}
}

func (s *careerProgressService) StartPath(ctx context.Context, userID, pathID uuid.UUID) (*domain.UserCareerProgress, error) {
	userExists, err := s.userRepo.Exists(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !userExists {
		return nil, fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	if _, err := s.pathRepo.GetByID(ctx, nil, pathID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("career path %s: %w", pathID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get career path: %w", err)
	}

	existing, err := s.progressRepo.GetByUserAndPath(ctx, nil, userID, pathID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check progress row: %w", err)
	}

	row := &domain.UserCareerProgress{
		UserID:           userID,
		CareerPathID:     pathID,
		CompletedCourses: []uuid.UUID{},
	}
	if _, err := s.progressRepo.Create(ctx, nil, []*domain.UserCareerProgress{row}); err != nil {
		return nil, fmt.Errorf("create progress row: %w", err)
	}
	return row, nil
}

func (s *careerProgressService) GetProgress(ctx context.Context, userID, pathID uuid.UUID) (*domain.UserCareerProgress, error) {
	row, err := s.progressRepo.GetByUserAndPath(ctx, nil, userID, pathID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("career progress for user %s on path %s: %w", userID, pathID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get progress row: %w", err)
	}
	return row, nil
}

func (s *careerProgressService) OnCourseCompleted(ctx context.Context, userID, pathID, courseID uuid.UUID) (*domain.UserCareerProgress, error) {
	var result *domain.UserCareerProgress
	err := s.db.Transaction(func(tx *gorm.DB) error {
		path, err := s.pathRepo.GetByID(ctx, tx, pathID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("career path %s: %w", pathID, apperrors.ErrNotFound)
			}
			return fmt.Errorf("get career path: %w", err)
		}

		row, err := s.progressRepo.GetByUserAndPath(ctx, tx, userID, pathID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("career progress for user %s on path %s: %w", userID, pathID, apperrors.ErrNotFound)
			}
			return fmt.Errorf("get progress row: %w", err)
		}

		if !domain.ContainsID(path.CourseIDs, courseID) {
			// Not a member of the path; nothing to record.
			result = row
			return nil
		}

		completed := []uuid.UUID(row.CompletedCourses)
		if !domain.ContainsID(completed, courseID) {
			completed = append(completed, courseID)
		}
		result, err = s.applyProgress(ctx, tx, row, path, completed)
		return err
	})
	if err != nil {
		return nil, apperrors.ClassifyStore(err)
	}
	return result, nil
}

func (s *careerProgressService) OnCourseRemovedFromPath(ctx context.Context, tx *gorm.DB, pathID, courseID uuid.UUID) (int, []uuid.UUID, error) {
	// The path row must already reflect the removal; reading it here inside
	// the same transaction gives the post-removal denominator.
	path, err := s.pathRepo.GetByID(ctx, tx, pathID)
	if err != nil {
		return 0, nil, fmt.Errorf("get career path: %w", err)
	}

	rows, err := s.progressRepo.GetByPathID(ctx, tx, pathID)
	if err != nil {
		return 0, nil, fmt.Errorf("list progress rows: %w", err)
	}

	recalculated := 0
	var failed []uuid.UUID
	for _, row := range rows {
		completed := domain.RemoveID(row.CompletedCourses, courseID)
		if _, err := s.applyProgress(ctx, tx, row, path, completed); err != nil {
			s.log.Warn("Career progress recompute failed, skipping", "user_id", row.UserID, "path_id", pathID, "error", err)
			failed = append(failed, row.UserID)
			continue
		}
		recalculated++
	}
	return recalculated, failed, nil
}

// applyProgress clamps the completed set to the current membership list,
// recomputes the percentage and current index, and persists the row.
func (s *careerProgressService) applyProgress(ctx context.Context, tx *gorm.DB, row *domain.UserCareerProgress, path *domain.CareerPath, completed []uuid.UUID) (*domain.UserCareerProgress, error) {
	// A duplicated membership list makes the denominator ambiguous. It is
	// rejected at write time, so a stored duplicate means the row was
	// corrupted out of band; refuse to derive progress from it.
	if domain.HasDuplicateIDs(path.CourseIDs) {
		return nil, fmt.Errorf("career path %s membership list contains duplicates: %w", path.ID, apperrors.ErrConsistency)
	}
	clamped := domain.IntersectIDs(completed, path.CourseIDs)
	percent := domain.PercentOf(len(clamped), len(path.CourseIDs))
	currentIndex := nextCourseIndex(path.CourseIDs, clamped)

	if err := s.progressRepo.UpdateProgress(ctx, tx, row.ID, clamped, percent, currentIndex); err != nil {
		return nil, fmt.Errorf("update progress row: %w", err)
	}
	row.CompletedCourses = clamped
	row.ProgressPercent = percent
	row.CurrentCourseIndex = currentIndex
	return row, nil
}

// nextCourseIndex is the position of the first unfinished course in the
// membership list, or len(courseIDs) when everything is done.
func nextCourseIndex(courseIDs, completed []uuid.UUID) int {
	for i, id := range courseIDs {
		if !domain.ContainsID(completed, id) {
			return i
		}
	}
	return len(courseIDs)
}
