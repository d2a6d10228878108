package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitalog/vitalog-backend/internal/logger"
	"github.com/vitalog/vitalog-backend/internal/types"
)

type UserSupplementRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entries []*types.UserSupplement) ([]*types.UserSupplement, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.UserSupplement, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.UserSupplement, error)
	ExistsForUserAndSupplement(ctx context.Context, tx *gorm.DB, userID string, supplementID uuid.UUID) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, entry *types.UserSupplement) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type userSupplementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserSupplementRepo(db *gorm.DB, baseLog *logger.Logger) UserSupplementRepo {
	repoLog := baseLog.With("repo", "UserSupplementRepo")
	return &userSupplementRepo{db: db, log: repoLog}
}

func (r *userSupplementRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.UserSupplement) ([]*types.UserSupplement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(entries) == 0 {
		return []*types.UserSupplement{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *userSupplementRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.UserSupplement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.UserSupplement
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userSupplementRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.UserSupplement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.UserSupplement
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userSupplementRepo) ExistsForUserAndSupplement(ctx context.Context, tx *gorm.DB, userID string, supplementID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.UserSupplement{}).
		Where("user_id = ? AND supplement_id = ?", userID, supplementID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userSupplementRepo) Update(ctx context.Context, tx *gorm.DB, entry *types.UserSupplement) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(entry).Error
}

func (r *userSupplementRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.UserSupplement{}).Error
}
