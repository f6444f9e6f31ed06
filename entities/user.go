package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email     string    `gorm:"size:254;not null;uniqueIndex" json:"email"`
	Username  string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	FirstName string    `gorm:"size:150;not null" json:"first_name"`
	LastName  string    `gorm:"size:150;not null" json:"last_name"`
	Password  string    `gorm:"not null" json:"-"`
	Timestamp
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.ID = newID(u.ID)
	return nil
}
