package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password    string     `gorm:"not null;column:password" json:"-"`
	FirstName   string     `gorm:"not null;column:first_name" json:"first_name"`
	LastName    string     `gorm:"not null;column:last_name" json:"last_name"`
	DateOfBirth *time.Time `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	Gender      *string    `gorm:"size:25;column:gender" json:"gender,omitempty"`
	Height      *float64   `gorm:"column:height" json:"height,omitempty"`
	Weight      *float64   `gorm:"column:weight" json:"weight,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
