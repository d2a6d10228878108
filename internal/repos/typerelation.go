package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitalog/vitalog-backend/internal/logger"
	"github.com/vitalog/vitalog-backend/internal/types"
)

type SupplementTypeRelationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, relations []*types.SupplementTypeRelation) ([]*types.SupplementTypeRelation, error)
	GetBySupplementIDs(ctx context.Context, tx *gorm.DB, supplementIDs []uuid.UUID) ([]*types.SupplementTypeRelation, error)
	CountByTypeIDs(ctx context.Context, tx *gorm.DB, typeIDs []uuid.UUID) (int64, error)
	DeleteBySupplementIDs(ctx context.Context, tx *gorm.DB, supplementIDs []uuid.UUID) error
}

type supplementTypeRelationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSupplementTypeRelationRepo(db *gorm.DB, baseLog *logger.Logger) SupplementTypeRelationRepo {
	repoLog := baseLog.With("repo", "SupplementTypeRelationRepo")
	return &supplementTypeRelationRepo{db: db, log: repoLog}
}

func (r *supplementTypeRelationRepo) Create(ctx context.Context, tx *gorm.DB, relations []*types.SupplementTypeRelation) ([]*types.SupplementTypeRelation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(relations) == 0 {
		return []*types.SupplementTypeRelation{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&relations).Error; err != nil {
		return nil, err
	}
	return relations, nil
}

func (r *supplementTypeRelationRepo) GetBySupplementIDs(ctx context.Context, tx *gorm.DB, supplementIDs []uuid.UUID) ([]*types.SupplementTypeRelation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SupplementTypeRelation
	if len(supplementIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("supplement_id IN ?", supplementIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *supplementTypeRelationRepo) CountByTypeIDs(ctx context.Context, tx *gorm.DB, typeIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(typeIDs) == 0 {
		return 0, nil
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.SupplementTypeRelation{}).
		Where("type_id IN ?", typeIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *supplementTypeRelationRepo) DeleteBySupplementIDs(ctx context.Context, tx *gorm.DB, supplementIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(supplementIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("supplement_id IN ?", supplementIDs).
		Delete(&types.SupplementTypeRelation{}).Error
}
