package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edvance/edvance-backend/internal/domain"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
)

type LessonRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lessons []*domain.Lesson) ([]*domain.Lesson, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Lesson, error)
	GetByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*domain.Lesson, error)
	ListIDsByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]uuid.UUID, error)
	CountByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) (int64, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	FullDeleteByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) error
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

func (r *lessonRepo) Create(ctx context.Context, tx *gorm.DB, lessons []*domain.Lesson) ([]*domain.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(lessons) == 0 {
		return []*domain.Lesson{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result domain.Lesson
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *lessonRepo) GetByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*domain.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Lesson
	if len(moduleIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("module_id IN ?", moduleIDs).
		Order("module_id, \"index\" ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) ListIDsByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var ids []uuid.UUID
	if len(moduleIDs) == 0 {
		return ids, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&domain.Lesson{}).
		Where("module_id IN ?", moduleIDs).
		Order("module_id, \"index\" ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *lessonRepo) CountByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(moduleIDs) == 0 {
		return 0, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Lesson{}).
		Where("module_id IN ?", moduleIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *lessonRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Unscoped().
		Where("id IN ?", ids).
		Delete(&domain.Lesson{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *lessonRepo) FullDeleteByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(moduleIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Unscoped().
		Where("module_id IN ?", moduleIDs).
		Delete(&domain.Lesson{}).Error; err != nil {
		return err
	}
	return nil
}
