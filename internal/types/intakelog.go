package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IntakeLog records one consumption event. The supplement is referenced by id
// only and resolved at read time; user_id, supplement_id and taken_at are
// immutable after creation.
type IntakeLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string    `gorm:"index;not null;column:user_id" json:"user_id"`
	SupplementID uuid.UUID `gorm:"type:uuid;index;not null;column:supplement_id" json:"supplement_id"`
	Quantity     int       `gorm:"not null;column:quantity" json:"quantity"`
	Dosage       float64   `gorm:"not null;column:dosage" json:"dosage"`
	Unit         string    `gorm:"size:50;not null;column:unit" json:"unit"`
	TakenAt      time.Time `gorm:"index;not null;column:taken_at" json:"taken_at"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (IntakeLog) TableName() string {
	return "intake_log"
}

func (l *IntakeLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
