package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edvance/edvance-backend/internal/domain"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
)

type EnrollmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*domain.Enrollment) ([]*domain.Enrollment, error)
	GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*domain.Enrollment, error)
	GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*domain.Enrollment, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Enrollment, error)
	CountByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error)
	UpdateProgress(ctx context.Context, tx *gorm.DB, id uuid.UUID, percent float64, completed bool) error
	FullDeleteByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) error
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	repoLog := baseLog.With("repo", "EnrollmentRepo")
	return &enrollmentRepo{db: db, log: repoLog}
}

func (r *enrollmentRepo) Create(ctx context.Context, tx *gorm.DB, rows []*domain.Enrollment) ([]*domain.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*domain.Enrollment{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *enrollmentRepo) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*domain.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result domain.Enrollment
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *enrollmentRepo) GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*domain.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Enrollment
	if courseID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *enrollmentRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Enrollment
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *enrollmentRepo) CountByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if courseID == uuid.Nil {
		return 0, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *enrollmentRepo) UpdateProgress(ctx context.Context, tx *gorm.DB, id uuid.UUID, percent float64, completed bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&domain.Enrollment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"progress_percent": percent,
			"completed":        completed,
		}).Error; err != nil {
		return err
	}
	return nil
}

func (r *enrollmentRepo) FullDeleteByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) error {
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
		Delete(&domain.Enrollment{}).Error; err != nil {
		return err
	}
	return nil
}
