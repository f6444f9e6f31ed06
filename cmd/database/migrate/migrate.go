package migration

import (
	"Foodgram-Backend/entities"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	models := []struct {
		name  string
		model interface{}
	}{
		{"user", &entities.User{}},
		{"ingredient", &entities.Ingredient{}},
		{"tag", &entities.Tag{}},
		{"recipe", &entities.Recipe{}},
		{"recipe ingredient", &entities.RecipeIngredient{}},
		{"favorite", &entities.Favorite{}},
		{"shopping cart", &entities.ShoppingCartItem{}},
		{"subscription", &entities.Subscription{}},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("error migrating %s table: %w", m.name, err)
		}
	}

	log.Info("database migration complete")
	return nil
}
