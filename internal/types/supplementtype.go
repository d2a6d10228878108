package types

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SupplementType is a shared tag vocabulary entry. Names are unique across
// the whole catalog; the uniqueness lives in the storage index so concurrent
// creators cannot slip past a prior read.
type SupplementType struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"size:50;uniqueIndex;not null;column:name" json:"name"`
}

func (SupplementType) TableName() string {
	return "supplement_type"
}

func (st *SupplementType) BeforeCreate(tx *gorm.DB) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	return nil
}
