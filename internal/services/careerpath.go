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

type CreateCareerPathInput struct {
	Slug        string
	Name        string
	Description string
	CourseIDs   []uuid.UUID
}

// CareerPathService maintains each path's ordered course membership list.
// Course existence is not checked at write time (ids may be added before
// publication); the cascade path heals stale references lazily.
type CareerPathService interface {
	CreatePath(ctx context.Context, input CreateCareerPathInput) (*domain.CareerPath, error)
	GetPath(ctx context.Context, pathID uuid.UUID) (*domain.CareerPath, error)
	ListPaths(ctx context.Context) ([]*domain.CareerPath, error)

	// SetCourses replaces the membership list in one atomic swap. Duplicate
	// ids are rejected.
	SetCourses(ctx context.Context, pathID uuid.UUID, orderedIDs []uuid.UUID) ([]uuid.UUID, error)

	// RemoveCourseFromAllPaths drops courseID from every path that lists
	// it, preserving the relative order of the survivors. Idempotent:
	// removing an already-absent id is a no-op. Returns the ids of the
	// paths that were actually updated.
	RemoveCourseFromAllPaths(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]uuid.UUID, error)
}

type careerPathService struct {
	db       *gorm.DB
	log      *logger.Logger
	pathRepo repos.CareerPathRepo
}

func NewCareerPathService(db *gorm.DB, log *logger.Logger, pathRepo repos.CareerPathRepo) CareerPathService {
	serviceLog := log.With("service", "CareerPathService")
	return &careerPathService{db: db, log: serviceLog, pathRepo: pathRepo}
}

func (s *careerPathService) CreatePath(ctx context.Context, input CreateCareerPathInput) (*domain.CareerPath, error) {
	if input.Slug == "" || input.Name == "" {
		return nil, fmt.Errorf("slug and name are required: %w", apperrors.ErrValidation)
	}
	if domain.HasDuplicateIDs(input.CourseIDs) {
		return nil, fmt.Errorf("course_ids contains duplicates: %w", apperrors.ErrValidation)
	}
	courseIDs := input.CourseIDs
	if courseIDs == nil {
		courseIDs = []uuid.UUID{}
	}
	path := &domain.CareerPath{
		Slug:        input.Slug,
		Name:        input.Name,
		Description: input.Description,
		CourseIDs:   courseIDs,
	}
	if _, err := s.pathRepo.Create(ctx, nil, []*domain.CareerPath{path}); err != nil {
		return nil, fmt.Errorf("create career path: %w", err)
	}
	s.log.Info("Career path created", "path_id", path.ID, "slug", path.Slug)
	return path, nil
}

func (s *careerPathService) GetPath(ctx context.Context, pathID uuid.UUID) (*domain.CareerPath, error) {
	path, err := s.pathRepo.GetByID(ctx, nil, pathID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("career path %s: %w", pathID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get career path: %w", err)
	}
	return path, nil
}

func (s *careerPathService) ListPaths(ctx context.Context) ([]*domain.CareerPath, error) {
	paths, err := s.pathRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list career paths: %w", err)
	}
	return paths, nil
}

func (s *careerPathService) SetCourses(ctx context.Context, pathID uuid.UUID, orderedIDs []uuid.UUID) ([]uuid.UUID, error) {
	if domain.HasDuplicateIDs(orderedIDs) {
		return nil, fmt.Errorf("course_ids contains duplicates: %w", apperrors.ErrValidation)
	}
	if _, err := s.pathRepo.GetByID(ctx, nil, pathID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("career path %s: %w", pathID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get career path: %w", err)
	}
	if orderedIDs == nil {
		orderedIDs = []uuid.UUID{}
	}
	if err := s.pathRepo.UpdateCourseIDs(ctx, nil, pathID, orderedIDs); err != nil {
		return nil, fmt.Errorf("update course_ids: %w", err)
	}
	return orderedIDs, nil
}

func (s *careerPathService) RemoveCourseFromAllPaths(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]uuid.UUID, error) {
	paths, err := s.pathRepo.List(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("list career paths: %w", err)
	}

	var updated []uuid.UUID
	for _, path := range paths {
		if !domain.ContainsID(path.CourseIDs, courseID) {
			continue
		}
		filtered := domain.RemoveID(path.CourseIDs, courseID)
		if err := s.pathRepo.UpdateCourseIDs(ctx, tx, path.ID, filtered); err != nil {
			return updated, fmt.Errorf("update path %s course_ids: %w", path.ID, err)
		}
		updated = append(updated, path.ID)
	}
	return updated, nil
}
