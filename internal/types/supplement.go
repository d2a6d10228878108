package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitalog/vitalog-backend/internal/policy"
)

// Supplement is either global (creator_id NULL, visible to everyone) or owned
// by the account that created it. The (name, creator_id) pair is unique; the
// index treats NULL creators as a single bucket so global names are unique
// too (see db.Migrate).
type Supplement struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string    `gorm:"size:255;not null;column:name" json:"name"`
	Description        *string   `gorm:"column:description" json:"description,omitempty"`
	DeficiencySymptoms *string   `gorm:"column:deficiency_symptoms" json:"deficiency_symptoms,omitempty"`
	IsGlobal           bool      `gorm:"not null;column:is_global" json:"is_global"`
	CreatorID          *string   `gorm:"index;column:creator_id" json:"creator_id,omitempty"`
	CreatedAt          time.Time `gorm:"not null" json:"created_at"`
}

func (Supplement) TableName() string {
	return "supplement"
}

func (s *Supplement) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Ownership collapses the two stored columns into the policy variant. A row
// flagged global, or one missing its creator, reads as global.
func (s *Supplement) Ownership() policy.Ownership {
	if s.IsGlobal || s.CreatorID == nil {
		return policy.Global()
	}
	return policy.OwnedBy(*s.CreatorID)
}
