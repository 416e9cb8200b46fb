package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edvance/edvance-backend/internal/domain"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
)

type CourseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, courses []*domain.Course) ([]*domain.Course, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Course, error)
	List(ctx context.Context, tx *gorm.DB) ([]*domain.Course, error)
	Exists(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	FullDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	repoLog := baseLog.With("repo", "CourseRepo")
	return &courseRepo{db: db, log: repoLog}
}

func (r *courseRepo) Create(ctx context.Context, tx *gorm.DB, courses []*domain.Course) ([]*domain.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(courses) == 0 {
		return []*domain.Course{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result domain.Course
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *courseRepo) List(ctx context.Context, tx *gorm.DB) ([]*domain.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Course
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseRepo) Exists(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return false, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Course{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *courseRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(updates) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&domain.Course{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return err
	}
	return nil
}

func (r *courseRepo) FullDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
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
		Delete(&domain.Course{}).Error; err != nil {
		return err
	}
	return nil
}
