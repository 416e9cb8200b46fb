package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edvance/edvance-backend/internal/domain"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
)

type CourseModuleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, modules []*domain.CourseModule) ([]*domain.CourseModule, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.CourseModule, error)
	GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*domain.CourseModule, error)
	ListIDsByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]uuid.UUID, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	FullDeleteByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) error
}

type courseModuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseModuleRepo(db *gorm.DB, baseLog *logger.Logger) CourseModuleRepo {
	repoLog := baseLog.With("repo", "CourseModuleRepo")
	return &courseModuleRepo{db: db, log: repoLog}
}

func (r *courseModuleRepo) Create(ctx context.Context, tx *gorm.DB, modules []*domain.CourseModule) ([]*domain.CourseModule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(modules) == 0 {
		return []*domain.CourseModule{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *courseModuleRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.CourseModule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result domain.CourseModule
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *courseModuleRepo) GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*domain.CourseModule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.CourseModule
	if courseID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("\"index\" ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseModuleRepo) ListIDsByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var ids []uuid.UUID
	if courseID == uuid.Nil {
		return ids, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&domain.CourseModule{}).
		Where("course_id = ?", courseID).
		Order("\"index\" ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *courseModuleRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
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
		Delete(&domain.CourseModule{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *courseModuleRepo) FullDeleteByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if courseID == uuid.Nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Unscoped().
		Where("course_id = ?", courseID).
		Delete(&domain.CourseModule{}).Error; err != nil {
		return err
	}
	return nil
}
