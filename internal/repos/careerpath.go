package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/edvance/edvance-backend/internal/domain"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
)

type CareerPathRepo interface {
	Create(ctx context.Context, tx *gorm.DB, paths []*domain.CareerPath) ([]*domain.CareerPath, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.CareerPath, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*domain.CareerPath, error)
	List(ctx context.Context, tx *gorm.DB) ([]*domain.CareerPath, error)
	UpdateCourseIDs(ctx context.Context, tx *gorm.DB, id uuid.UUID, courseIDs []uuid.UUID) error
	FullDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type careerPathRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCareerPathRepo(db *gorm.DB, baseLog *logger.Logger) CareerPathRepo {
	repoLog := baseLog.With("repo", "CareerPathRepo")
	return &careerPathRepo{db: db, log: repoLog}
}

func (r *careerPathRepo) Create(ctx context.Context, tx *gorm.DB, paths []*domain.CareerPath) ([]*domain.CareerPath, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(paths) == 0 {
		return []*domain.CareerPath{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&paths).Error; err != nil {
		return nil, err
	}
	return paths, nil
}

func (r *careerPathRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.CareerPath, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result domain.CareerPath
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *careerPathRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*domain.CareerPath, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result domain.CareerPath
	if err := transaction.WithContext(ctx).
		Where("slug = ?", slug).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *careerPathRepo) List(ctx context.Context, tx *gorm.DB) ([]*domain.CareerPath, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.CareerPath
	if err := transaction.WithContext(ctx).
		Order("slug ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateCourseIDs swaps the entire membership list in one write. Callers
// that need "remove one id" filter in memory and pass the survivors here,
// which keeps the write atomic regardless of dialect JSON support.
func (r *careerPathRepo) UpdateCourseIDs(ctx context.Context, tx *gorm.DB, id uuid.UUID, courseIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if courseIDs == nil {
		courseIDs = []uuid.UUID{}
	}

	if err := transaction.WithContext(ctx).
		Model(&domain.CareerPath{}).
		Where("id = ?", id).
		Update("course_ids", datatypes.NewJSONSlice(courseIDs)).Error; err != nil {
		return err
	}
	return nil
}

func (r *careerPathRepo) FullDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Unscoped().
		Where("id = ?", id).
		Delete(&domain.CareerPath{}).Error; err != nil {
		return err
	}
	return nil
}
