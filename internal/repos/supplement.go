package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitalog/vitalog-backend/internal/logger"
	"github.com/vitalog/vitalog-backend/internal/types"
)

type SupplementRepo interface {
	Create(ctx context.Context, tx *gorm.DB, supplements []*types.Supplement) ([]*types.Supplement, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Supplement, error)
	ListGlobal(ctx context.Context, tx *gorm.DB) ([]*types.Supplement, error)
	ListOwned(ctx context.Context, tx *gorm.DB, creatorID string) ([]*types.Supplement, error)
	ListVisibleTo(ctx context.Context, tx *gorm.DB, creatorID string) ([]*types.Supplement, error)
	Update(ctx context.Context, tx *gorm.DB, supplement *types.Supplement) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type supplementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSupplementRepo(db *gorm.DB, baseLog *logger.Logger) SupplementRepo {
	repoLog := baseLog.With("repo", "SupplementRepo")
	return &supplementRepo{db: db, log: repoLog}
}

func (r *supplementRepo) Create(ctx context.Context, tx *gorm.DB, supplements []*types.Supplement) ([]*types.Supplement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(supplements) == 0 {
		return []*types.Supplement{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&supplements).Error; err != nil {
		return nil, err
	}
	return supplements, nil
}

func (r *supplementRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Supplement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Supplement
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

func (r *supplementRepo) ListGlobal(ctx context.Context, tx *gorm.DB) ([]*types.Supplement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Supplement
	if err := transaction.WithContext(ctx).
		Where("is_global = ?", true).
		Order("name").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *supplementRepo) ListOwned(ctx context.Context, tx *gorm.DB, creatorID string) ([]*types.Supplement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Supplement
	if err := transaction.WithContext(ctx).
		Where("is_global = ? AND creator_id = ?", false, creatorID).
		Order("name").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *supplementRepo) ListVisibleTo(ctx context.Context, tx *gorm.DB, creatorID string) ([]*types.Supplement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Supplement
	if err := transaction.WithContext(ctx).
		Where("is_global = ? OR creator_id = ?", true, creatorID).
		Order("name").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *supplementRepo) Update(ctx context.Context, tx *gorm.DB, supplement *types.Supplement) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(supplement).Error
}

func (r *supplementRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Supplement{}).Error
}
