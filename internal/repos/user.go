package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edvance/edvance-backend/internal/domain"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, users []*domain.User) ([]*domain.User, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.User, error)
	Exists(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (r *userRepo) Create(ctx context.Context, tx *gorm.DB, users []*domain.User) ([]*domain.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(users) == 0 {
		return []*domain.User{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result domain.User
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *userRepo) Exists(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return false, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
