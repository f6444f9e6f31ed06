package ingredient

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const importBatchSize = 500

type (
	IngredientRepository interface {
		CreateIngredient(ctx context.Context, ingredient *entities.Ingredient) error
		BulkCreateIngredients(ctx context.Context, ingredients []*entities.Ingredient) error
		GetIngredientByID(ctx context.Context, id uuid.UUID) (*entities.Ingredient, error)
		GetIngredients(ctx context.Context, namePrefix string) ([]*entities.Ingredient, error)
	}

	ingredientRepository struct {
		db *gorm.DB
	}
)

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) CreateIngredient(ctx context.Context, ingredient *entities.Ingredient) error {
	return r.db.WithContext(ctx).Create(ingredient).Error
}

func (r *ingredientRepository) BulkCreateIngredients(ctx context.Context, ingredients []*entities.Ingredient) error {
	return r.db.WithContext(ctx).CreateInBatches(ingredients, importBatchSize).Error
}

func (r *ingredientRepository) GetIngredientByID(ctx context.Context, id uuid.UUID) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIngredientNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

// GetIngredients filters by a case-insensitive name prefix when one is given.
// Postgres folds case for any script through ILIKE. SQLite has no ILIKE and
// its LIKE folds ASCII only, so non-ASCII names match there case-sensitively.
func (r *ingredientRepository) GetIngredients(ctx context.Context, namePrefix string) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient

	query := r.db.WithContext(ctx)
	if namePrefix != "" {
		op := "LIKE"
		if r.db.Dialector.Name() == "postgres" {
			op = "ILIKE"
		}
		query = query.Where("name "+op+" ? ESCAPE '\\'", escapeLike(namePrefix)+"%")
	}

	if err := query.Order("name asc").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
