package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edvance/edvance-backend/internal/domain"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
)

type LessonProgressRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *domain.LessonProgress) error
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.LessonProgress, error)
	GetByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*domain.LessonProgress, error)
	GetByUserAndLessonIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*domain.LessonProgress, error)
	CountCompleted(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lessonIDs []uuid.UUID) (int64, error)
	FullDeleteByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) (int64, error)
}

type lessonProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	repoLog := baseLog.With("repo", "LessonProgressRepo")
	return &lessonProgressRepo{db: db, log: repoLog}
}

func (r *lessonProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, row *domain.LessonProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	// Upsert by unique user_id + lesson_id
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", row.UserID, row.LessonID).
		Assign(map[string]interface{}{
			"completed":    row.Completed,
			"completed_at": row.CompletedAt,
		}).
		FirstOrCreate(row).Error; err != nil {
		return err
	}
	return nil
}

func (r *lessonProgressRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.LessonProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.LessonProgress
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

func (r *lessonProgressRepo) GetByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*domain.LessonProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.LessonProgress
	if len(lessonIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("lesson_id IN ?", lessonIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonProgressRepo) GetByUserAndLessonIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*domain.LessonProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.LessonProgress
	if userID == uuid.Nil || len(lessonIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonProgressRepo) CountCompleted(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lessonIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == uuid.Nil || len(lessonIDs) == 0 {
		return 0, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.LessonProgress{}).
		Where("user_id = ? AND lesson_id IN ? AND completed = ?", userID, lessonIDs, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *lessonProgressRepo) FullDeleteByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(lessonIDs) == 0 {
		return 0, nil
	}

	res := transaction.WithContext(ctx).
		Unscoped().
		Where("lesson_id IN ?", lessonIDs).
		Delete(&domain.LessonProgress{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
