package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is a catalog entry. Names are not unique: two rows with the same
// name and unit are treated as the same purchasable item by the shopping list.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name            string    `gorm:"size:200;not null;index" json:"name"`
	MeasurementUnit string    `gorm:"size:200;not null" json:"measurement_unit"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	i.ID = newID(i.ID)
	return nil
}
