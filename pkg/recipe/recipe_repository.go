package recipe

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	// RecipeQuery narrows a recipe listing. Zero values disable a filter.
	RecipeQuery struct {
		TagSlugs    []string
		AuthorID    uuid.UUID
		FavoritedBy uuid.UUID
		InCartOf    uuid.UUID
	}

	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, lines []entities.RecipeIngredient, tagIDs []uuid.UUID) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, lines []entities.RecipeIngredient, tagIDs []uuid.UUID) error
		GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		RecipeExists(ctx context.Context, id uuid.UUID) (bool, error)
		DeleteRecipe(ctx context.Context, id uuid.UUID) error
		GetRecipes(ctx context.Context, query RecipeQuery, page, limit int) ([]*entities.Recipe, int64, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// CreateRecipe inserts the recipe, its ingredient lines and tag links in one
// transaction. Nothing is persisted if any step fails.
func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, lines []entities.RecipeIngredient, tagIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := loadTags(tx, tagIDs)
		if err != nil {
			return err
		}
		if err := requireIngredients(tx, lines); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			if utils.IsForeignKeyError(err) {
				return domain.ErrUserNotFound
			}
			return err
		}
		if err := insertLines(tx, recipe.ID, lines); err != nil {
			return err
		}
		return replaceTags(tx, recipe, tags)
	})
}

// UpdateRecipe overwrites the recipe fields and replaces the whole set of
// ingredient lines and tags in one transaction.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, lines []entities.RecipeIngredient, tagIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := loadTags(tx, tagIDs)
		if err != nil {
			return err
		}
		if err := requireIngredients(tx, lines); err != nil {
			return err
		}

		res := tx.Model(&entities.Recipe{}).
			Where("id = ?", recipe.ID).
			Updates(map[string]interface{}{
				"name":         recipe.Name,
				"text":         recipe.Text,
				"cooking_time": recipe.CookingTime,
				"image":        recipe.Image,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrRecipeNotFound
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := insertLines(tx, recipe.ID, lines); err != nil {
			return err
		}
		return replaceTags(tx, recipe, tags)
	})
}

func loadTags(tx *gorm.DB, ids []uuid.UUID) ([]entities.Tag, error) {
	var tags []entities.Tag
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, domain.ErrTagNotFound
	}
	return tags, nil
}

func requireIngredients(tx *gorm.DB, lines []entities.RecipeIngredient) error {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.IngredientID)
	}

	var count int64
	if err := tx.Model(&entities.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return domain.ErrIngredientNotFound
	}
	return nil
}

func insertLines(tx *gorm.DB, recipeID uuid.UUID, lines []entities.RecipeIngredient) error {
	for i := range lines {
		lines[i].ID = uuid.Nil
		lines[i].RecipeID = recipeID
		lines[i].Position = i
	}
	if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateIngredient
		}
		if utils.IsForeignKeyError(err) {
			return domain.ErrIngredientNotFound
		}
		return err
	}
	return nil
}

func replaceTags(tx *gorm.DB, recipe *entities.Recipe, tags []entities.Tag) error {
	if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
		if utils.IsForeignKeyError(err) {
			return domain.ErrTagNotFound
		}
		return err
	}
	return nil
}

func (r *recipeRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name asc")
		}).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.position asc")
		}).
		Preload("Ingredients.Ingredient")
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.preloaded(ctx).Where("recipes.id = ?", id).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) RecipeExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteRecipe relies on ON DELETE CASCADE to drop ingredient lines, tag
// links, favorites and shopping cart rows.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Recipe{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecipeNotFound
	}
	return nil
}

func (q RecipeQuery) scope(db *gorm.DB) *gorm.DB {
	if len(q.TagSlugs) > 0 {
		db = db.Where("recipes.id IN (?)", db.Session(&gorm.Session{NewDB: true}).
			Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", q.TagSlugs))
	}
	if q.AuthorID != uuid.Nil {
		db = db.Where("recipes.author_id = ?", q.AuthorID)
	}
	if q.FavoritedBy != uuid.Nil {
		db = db.Where("recipes.id IN (?)", db.Session(&gorm.Session{NewDB: true}).
			Model(&entities.Favorite{}).
			Select("recipe_id").
			Where("user_id = ?", q.FavoritedBy))
	}
	if q.InCartOf != uuid.Nil {
		db = db.Where("recipes.id IN (?)", db.Session(&gorm.Session{NewDB: true}).
			Model(&entities.ShoppingCartItem{}).
			Select("recipe_id").
			Where("user_id = ?", q.InCartOf))
	}
	return db
}

func (r *recipeRepository) GetRecipes(ctx context.Context, query RecipeQuery, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Scopes(query.scope).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.preloaded(ctx).
		Scopes(query.scope).
		Order("recipes.pub_date desc").
		Offset(offset).
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}
