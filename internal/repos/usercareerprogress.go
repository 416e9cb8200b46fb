package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/edvance/edvance-backend/internal/domain"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
)

type UserCareerProgressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*domain.UserCareerProgress) ([]*domain.UserCareerProgress, error)
	GetByUserAndPath(ctx context.Context, tx *gorm.DB, userID, pathID uuid.UUID) (*domain.UserCareerProgress, error)
	GetByPathID(ctx context.Context, tx *gorm.DB, pathID uuid.UUID) ([]*domain.UserCareerProgress, error)
	UpdateProgress(ctx context.Context, tx *gorm.DB, id uuid.UUID, completed []uuid.UUID, percent float64, currentIndex int) error
	FullDeleteByPathID(ctx context.Context, tx *gorm.DB, pathID uuid.UUID) error
}

type userCareerProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserCareerProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserCareerProgressRepo {
	repoLog := baseLog.With("repo", "UserCareerProgressRepo")
	return &userCareerProgressRepo{db: db, log: repoLog}
}

func (r *userCareerProgressRepo) Create(ctx context.Context, tx *gorm.DB, rows []*domain.UserCareerProgress) ([]*domain.UserCareerProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*domain.UserCareerProgress{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *userCareerProgressRepo) GetByUserAndPath(ctx context.Context, tx *gorm.DB, userID, pathID uuid.UUID) (*domain.UserCareerProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result domain.UserCareerProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND career_path_id = ?", userID, pathID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *userCareerProgressRepo) GetByPathID(ctx context.Context, tx *gorm.DB, pathID uuid.UUID) ([]*domain.UserCareerProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.UserCareerProgress
	if pathID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("career_path_id = ?", pathID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userCareerProgressRepo) UpdateProgress(ctx context.Context, tx *gorm.DB, id uuid.UUID, completed []uuid.UUID, percent float64, currentIndex int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if completed == nil {
		completed = []uuid.UUID{}
	}

	if err := transaction.WithContext(ctx).
		Model(&domain.UserCareerProgress{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"completed_courses":    datatypes.NewJSONSlice(completed),
			"progress_percent":     percent,
			"current_course_index": currentIndex,
		}).Error; err != nil {
		return err
	}
	return nil
}

func (r *userCareerProgressRepo) FullDeleteByPathID(ctx context.Context, tx *gorm.DB, pathID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if pathID == uuid.Nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Unscoped().
		Where("career_path_id = ?", pathID).
		Delete(&domain.UserCareerProgress{}).Error; err != nil {
		return err
	}
	return nil
}
