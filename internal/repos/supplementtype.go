package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitalog/vitalog-backend/internal/logger"
	"github.com/vitalog/vitalog-backend/internal/types"
)

type SupplementTypeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sts []*types.SupplementType) ([]*types.SupplementType, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.SupplementType, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.SupplementType, error)
	NameExists(ctx context.Context, tx *gorm.DB, name string, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, st *types.SupplementType) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type supplementTypeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSupplementTypeRepo(db *gorm.DB, baseLog *logger.Logger) SupplementTypeRepo {
	repoLog := baseLog.With("repo", "SupplementTypeRepo")
	return &supplementTypeRepo{db: db, log: repoLog}
}

func (r *supplementTypeRepo) Create(ctx context.Context, tx *gorm.DB, sts []*types.SupplementType) ([]*types.SupplementType, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(sts) == 0 {
		return []*types.SupplementType{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&sts).Error; err != nil {
		return nil, err
	}
	return sts, nil
}

func (r *supplementTypeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.SupplementType, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SupplementType
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

func (r *supplementTypeRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.SupplementType, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SupplementType
	if err := transaction.WithContext(ctx).
		Order("name").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *supplementTypeRepo) NameExists(ctx context.Context, tx *gorm.DB, name string, excludeID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	query := transaction.WithContext(ctx).
		Model(&types.SupplementType{}).
		Where("name = ?", name)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *supplementTypeRepo) Update(ctx context.Context, tx *gorm.DB, st *types.SupplementType) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(st).Error
}

func (r *supplementTypeRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.SupplementType{}).Error
}
