package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CookingTime int       `gorm:"not null;check:cooking_time >= 1" json:"cooking_time"`
	Image       string    `gorm:"type:text" json:"image,omitempty"`
	PubDate     time.Time `gorm:"autoCreateTime;index" json:"pub_date"`

	Author      *User              `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	r.ID = newID(r.ID)
	return nil
}

// RecipeIngredient is one ingredient line of a recipe. A recipe lists each
// ingredient at most once; Position keeps the order the author submitted.
type RecipeIngredient struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient;index" json:"ingredient_id"`
	Amount       int       `gorm:"not null;check:amount > 0" json:"amount"`
	Position     int       `gorm:"not null;default:0" json:"position"`

	Recipe     *Recipe     `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Ingredient *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"ingredient,omitempty"`
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	ri.ID = newID(ri.ID)
	return nil
}
