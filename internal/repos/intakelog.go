package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitalog/vitalog-backend/internal/logger"
	"github.com/vitalog/vitalog-backend/internal/types"
)

type IntakeLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, logs []*types.IntakeLog) ([]*types.IntakeLog, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.IntakeLog, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string, from, to *time.Time) ([]*types.IntakeLog, error)
	Update(ctx context.Context, tx *gorm.DB, entry *types.IntakeLog) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type intakeLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIntakeLogRepo(db *gorm.DB, baseLog *logger.Logger) IntakeLogRepo {
	repoLog := baseLog.With("repo", "IntakeLogRepo")
	return &intakeLogRepo{db: db, log: repoLog}
}

func (r *intakeLogRepo) Create(ctx context.Context, tx *gorm.DB, logs []*types.IntakeLog) ([]*types.IntakeLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(logs) == 0 {
		return []*types.IntakeLog{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *intakeLogRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.IntakeLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.IntakeLog
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

// ListByUser returns the user's entries ordered newest first, optionally
// bounded by an inclusive [from, to] window on taken_at.
func (r *intakeLogRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string, from, to *time.Time) ([]*types.IntakeLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query := transaction.WithContext(ctx).
		Where("user_id = ?", userID)
	if from != nil {
		query = query.Where("taken_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("taken_at <= ?", *to)
	}
	var results []*types.IntakeLog
	if err := query.Order("taken_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *intakeLogRepo) Update(ctx context.Context, tx *gorm.DB, entry *types.IntakeLog) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(entry).Error
}

func (r *intakeLogRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.IntakeLog{}).Error
}
