package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/vitalog/vitalog-backend/internal/types"
)

// Migrate creates the schema and the uniqueness constraints the services rely
// on. It runs against both the postgres driver and the sqlite driver used by
// tests, so only portable SQL appears here.
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.SupplementType{},
		&types.Supplement{},
		&types.SupplementTypeRelation{},
		&types.IntakeLog{},
		&types.UserSupplement{},
	); err != nil {
		return err
	}

	// (name, creator_id) must be unique including the NULL-creator global
	// rows, which a plain composite unique index would not enforce. COALESCE
	// folds NULL creators into one bucket; the expression index works on both
	// postgres and sqlite.
	if err := gormDB.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_supplement_name_creator
		 ON supplement (name, COALESCE(creator_id, ''))`,
	).Error; err != nil {
		return fmt.Errorf("create supplement name index: %w", err)
	}
	return nil
}
