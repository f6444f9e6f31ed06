package domain

import (
	"fmt"
	"time"
)

var (
	MessageSuccessGetRecipes          = "success get recipes"
	MessageSuccessGetRecipeDetail     = "success get recipe detail"
	MessageSuccessCreateRecipe        = "recipe created successfully"
	MessageSuccessUpdateRecipe        = "recipe updated successfully"
	MessageSuccessDeleteRecipe        = "recipe deleted successfully"
	MessageSuccessFavorite            = "recipe added to favorites"
	MessageSuccessAddToShoppingCart   = "recipe added to shopping cart"
	MessageSuccessEmailShoppingList   = "shopping list sent"
	MessageFailedGetRecipes           = "failed to get recipes"
	MessageFailedGetRecipeDetail      = "failed to get recipe detail"
	MessageFailedCreateRecipe         = "failed to create recipe"
	MessageFailedUpdateRecipe         = "failed to update recipe"
	MessageFailedDeleteRecipe         = "failed to delete recipe"
	MessageFailedFavorite             = "failed to add recipe to favorites"
	MessageFailedUnfavorite           = "failed to remove recipe from favorites"
	MessageFailedAddToShoppingCart    = "failed to add recipe to shopping cart"
	MessageFailedRemoveShoppingCart   = "failed to remove recipe from shopping cart"
	MessageFailedDownloadShoppingList = "failed to download shopping list"
	MessageFailedEmailShoppingList    = "failed to send shopping list"

	ErrRecipeNotFound           = fmt.Errorf("recipe %w", ErrNotFound)
	ErrUnauthorizedRecipeAccess = fmt.Errorf("%w: only the author can change this recipe", ErrForbidden)
	ErrInvalidCookingTime       = fmt.Errorf("%w: cooking_time must be at least 1", ErrValidation)
	ErrNoTags                   = fmt.Errorf("%w: at least one tag is required", ErrValidation)
	ErrNoIngredients            = fmt.Errorf("%w: at least one ingredient is required", ErrValidation)
	ErrInvalidAmount            = fmt.Errorf("%w: ingredient amount must be at least 1", ErrValidation)
	ErrDuplicateIngredient      = fmt.Errorf("%w: ingredient listed more than once", ErrValidation)
	ErrDuplicateTag             = fmt.Errorf("%w: tag listed more than once", ErrValidation)

	ErrAlreadyFavorited      = fmt.Errorf("recipe is already in favorites: %w", ErrDuplicateRelation)
	ErrFavoriteNotFound      = fmt.Errorf("recipe is not in favorites: %w", ErrNotFound)
	ErrAlreadyInShoppingCart = fmt.Errorf("recipe is already in the shopping cart: %w", ErrDuplicateRelation)
	ErrShoppingCartNotFound  = fmt.Errorf("recipe is not in the shopping cart: %w", ErrNotFound)
)

type (
	RecipeIngredientRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"required,min=1"`
	}

	// RecipeWriteRequest is the full payload for create and update. Update
	// replaces tags and ingredient lines wholesale.
	RecipeWriteRequest struct {
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required,min=1"`
		Image       string                    `json:"image"`
		Tags        []string                  `json:"tags" validate:"required,min=1,dive,uuid"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeDetail struct {
		ID               string                     `json:"id"`
		Name             string                     `json:"name"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
		Author           UserResponse               `json:"author"`
		Tags             []TagResponse              `json:"tags"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		Image            string                     `json:"image"`
		PubDate          time.Time                  `json:"pub_date"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	}

	// RecipeCard is the short projection returned by favorite, cart and
	// subscription endpoints.
	RecipeCard struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	RecipeFilter struct {
		TagSlugs         []string
		AuthorID         string
		IsFavorited      bool
		IsInShoppingCart bool
	}

	RecipeListResponse struct {
		Recipes    []RecipeDetail `json:"recipes"`
		Pagination Pagination     `json:"pagination"`
	}
)
