package testutil

import (
	migration "Foodgram-Backend/cmd/database/migrate"
	"Foodgram-Backend/entities"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory SQLite database with foreign keys
// enforced and the production schema migrated.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.Migrate(db))
	return db
}

func CreateTestUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()

	user := &entities.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: strings.ToUpper(username[:1]) + username[1:],
		LastName:  "Tester",
		Password:  "not-a-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *entities.Ingredient {
	t.Helper()

	ingredient := &entities.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

func CreateTestTag(t *testing.T, db *gorm.DB, name, slug string) *entities.Tag {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&entities.Tag{}).Count(&n).Error)
	tag := &entities.Tag{Name: name, Slug: slug, Color: fmt.Sprintf("#%06X", n+1)}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

// Line is one ingredient line for CreateTestRecipe.
type Line struct {
	Ingredient *entities.Ingredient
	Amount     int
}

// CreateTestRecipe inserts a recipe with its lines and tags directly,
// bypassing the service validation.
func CreateTestRecipe(t *testing.T, db *gorm.DB, author *entities.User, name string, tags []*entities.Tag, lines ...Line) *entities.Recipe {
	t.Helper()

	recipe := &entities.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        name + " instructions",
		CookingTime: 10,
	}
	require.NoError(t, db.Omit("Tags", "Ingredients", "Author").Create(recipe).Error)

	for i, line := range lines {
		require.NoError(t, db.Omit("Recipe", "Ingredient").Create(&entities.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: line.Ingredient.ID,
			Amount:       line.Amount,
			Position:     i,
		}).Error)
	}
	if len(tags) > 0 {
		tagRows := make([]entities.Tag, 0, len(tags))
		for _, tag := range tags {
			tagRows = append(tagRows, *tag)
		}
		require.NoError(t, db.Model(recipe).Association("Tags").Replace(tagRows))
	}
	return recipe
}
