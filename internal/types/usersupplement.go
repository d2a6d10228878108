package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSupplement pins a supplement to a user's personal list with preferred
// dosage defaults. A user can pin a given supplement once.
type UserSupplement struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string    `gorm:"not null;uniqueIndex:uq_user_supplement;column:user_id" json:"user_id"`
	SupplementID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_user_supplement;index;column:supplement_id" json:"supplement_id"`
	DefaultDosage *float64  `gorm:"column:default_dosage" json:"default_dosage,omitempty"`
	DefaultUnit   *string   `gorm:"size:50;column:default_unit" json:"default_unit,omitempty"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}

func (UserSupplement) TableName() string {
	return "user_supplement"
}

func (us *UserSupplement) BeforeCreate(tx *gorm.DB) error {
	if us.ID == uuid.Nil {
		us.ID = uuid.New()
	}
	return nil
}
