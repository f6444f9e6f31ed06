package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_recipe;index" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	f.ID = newID(f.ID)
	return nil
}

func (f *Favorite) Link(userID, recipeID uuid.UUID) {
	f.UserID, f.RecipeID = userID, recipeID
}

func (*Favorite) Ends() (string, string) { return "user_id", "recipe_id" }

type ShoppingCartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_recipe;index" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (s *ShoppingCartItem) BeforeCreate(tx *gorm.DB) error {
	s.ID = newID(s.ID)
	return nil
}

func (s *ShoppingCartItem) Link(userID, recipeID uuid.UUID) {
	s.UserID, s.RecipeID = userID, recipeID
}

func (*ShoppingCartItem) Ends() (string, string) { return "user_id", "recipe_id" }

// Subscription is a follow edge: UserID follows AuthorID.
type Subscription struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_user_author" json:"user_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_user_author;index;check:user_id <> author_id" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`

	User   *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Author *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	s.ID = newID(s.ID)
	return nil
}

func (s *Subscription) Link(userID, authorID uuid.UUID) {
	s.UserID, s.AuthorID = userID, authorID
}

func (*Subscription) Ends() (string, string) { return "user_id", "author_id" }
