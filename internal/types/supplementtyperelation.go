package types

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SupplementTypeRelation joins a supplement to a tag. Rows are recomputed
// wholesale whenever a supplement's tag set is replaced.
type SupplementTypeRelation struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SupplementID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_supplement_type;column:supplement_id" json:"supplement_id"`
	TypeID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_supplement_type;index;column:type_id" json:"type_id"`
}

func (SupplementTypeRelation) TableName() string {
	return "supplement_type_relation"
}

func (r *SupplementTypeRelation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
