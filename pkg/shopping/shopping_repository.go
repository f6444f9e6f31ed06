package shopping

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ShoppingRepository interface {
		AggregateCart(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListLine, error)
	}

	shoppingRepository struct {
		db *gorm.DB
	}
)

func NewShoppingRepository(db *gorm.DB) ShoppingRepository {
	return &shoppingRepository{db: db}
}

// AggregateCart sums ingredient amounts over every recipe in the user's cart,
// grouped by (name, measurement unit).
func (r *shoppingRepository) AggregateCart(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListLine, error) {
	lines := []domain.ShoppingListLine{}
	err := r.db.WithContext(ctx).
		Model(&entities.ShoppingCartItem{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_cart_items.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_cart_items.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name asc, ingredients.measurement_unit asc").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
