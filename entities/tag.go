package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name  string    `gorm:"size:200;not null;uniqueIndex" json:"name"`
	Color string    `gorm:"size:7;not null;uniqueIndex" json:"color"`
	Slug  string    `gorm:"size:200;not null;uniqueIndex" json:"slug"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	t.ID = newID(t.ID)
	return nil
}
