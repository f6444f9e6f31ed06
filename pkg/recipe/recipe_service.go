package recipe

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/pkg/relation"
	"Foodgram-Backend/pkg/tag"
	"Foodgram-Backend/pkg/user"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.RecipeWriteRequest, authorID string) (domain.RecipeDetail, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.RecipeWriteRequest, editorID string) (domain.RecipeDetail, error)
		DeleteRecipe(ctx context.Context, recipeID string, editorID string) error
		GetRecipeForViewer(ctx context.Context, recipeID string, viewerID string) (domain.RecipeDetail, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string, page, limit int) (domain.RecipeListResponse, error)
		GetRecipeCard(ctx context.Context, recipeID string) (domain.RecipeCard, error)
	}

	// Viewer relations used to annotate projections.
	Annotators struct {
		Favorites     relation.ToggleService
		ShoppingCart  relation.ToggleService
		Subscriptions relation.ToggleService
	}

	recipeService struct {
		recipeRepository RecipeRepository
		annotators       Annotators
	}
)

func NewRecipeService(recipeRepository RecipeRepository, annotators Annotators) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		annotators:       annotators,
	}
}

// composition is a validated write payload.
type composition struct {
	lines  []entities.RecipeIngredient
	tagIDs []uuid.UUID
}

func validateWrite(req domain.RecipeWriteRequest) (composition, error) {
	var c composition

	if strings.TrimSpace(req.Name) == "" {
		return c, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(req.Text) == "" {
		return c, fmt.Errorf("%w: text is required", domain.ErrValidation)
	}
	if req.CookingTime < 1 {
		return c, domain.ErrInvalidCookingTime
	}

	if len(req.Tags) == 0 {
		return c, domain.ErrNoTags
	}
	seenTags := make(map[uuid.UUID]struct{}, len(req.Tags))
	for _, raw := range req.Tags {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c, fmt.Errorf("%w: %s", domain.ErrTagNotFound, raw)
		}
		if _, dup := seenTags[id]; dup {
			return c, fmt.Errorf("%w: %s", domain.ErrDuplicateTag, id)
		}
		seenTags[id] = struct{}{}
		c.tagIDs = append(c.tagIDs, id)
	}

	if len(req.Ingredients) == 0 {
		return c, domain.ErrNoIngredients
	}
	seenIngredients := make(map[uuid.UUID]struct{}, len(req.Ingredients))
	for _, line := range req.Ingredients {
		id, err := uuid.Parse(line.ID)
		if err != nil {
			return c, fmt.Errorf("%w: %s", domain.ErrIngredientNotFound, line.ID)
		}
		if line.Amount < 1 {
			return c, fmt.Errorf("%w: ingredient %s", domain.ErrInvalidAmount, id)
		}
		if _, dup := seenIngredients[id]; dup {
			return c, fmt.Errorf("%w: ingredient %s", domain.ErrDuplicateIngredient, id)
		}
		seenIngredients[id] = struct{}{}
		c.lines = append(c.lines, entities.RecipeIngredient{
			IngredientID: id,
			Amount:       line.Amount,
		})
	}

	return c, nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.RecipeWriteRequest, authorID string) (domain.RecipeDetail, error) {
	author, err := uuid.Parse(authorID)
	if err != nil {
		return domain.RecipeDetail{}, domain.ErrParseUUID
	}

	c, err := validateWrite(req)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	recipe := &entities.Recipe{
		AuthorID:    author,
		Name:        strings.TrimSpace(req.Name),
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       req.Image,
	}
	if err := s.recipeRepository.CreateRecipe(ctx, recipe, c.lines, c.tagIDs); err != nil {
		log.Errorw("create recipe failed", "author_id", author, "error", err)
		return domain.RecipeDetail{}, err
	}

	log.Infow("recipe created", "recipe_id", recipe.ID, "author_id", author)
	return s.GetRecipeForViewer(ctx, recipe.ID.String(), authorID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.RecipeWriteRequest, editorID string) (domain.RecipeDetail, error) {
	recipe, err := s.ownedRecipe(ctx, recipeID, editorID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	c, err := validateWrite(req)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	recipe.Name = strings.TrimSpace(req.Name)
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime
	recipe.Image = req.Image
	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, c.lines, c.tagIDs); err != nil {
		log.Errorw("update recipe failed", "recipe_id", recipe.ID, "error", err)
		return domain.RecipeDetail{}, err
	}

	log.Infow("recipe updated", "recipe_id", recipe.ID)
	return s.GetRecipeForViewer(ctx, recipe.ID.String(), editorID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, editorID string) error {
	recipe, err := s.ownedRecipe(ctx, recipeID, editorID)
	if err != nil {
		return err
	}
	if err := s.recipeRepository.DeleteRecipe(ctx, recipe.ID); err != nil {
		return err
	}
	log.Infow("recipe deleted", "recipe_id", recipe.ID)
	return nil
}

func (s *recipeService) ownedRecipe(ctx context.Context, recipeID string, editorID string) (*entities.Recipe, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID.String() != editorID {
		return nil, domain.ErrUnauthorizedRecipeAccess
	}
	// Associations are rewritten by the caller; drop the preloaded copies.
	recipe.Tags, recipe.Ingredients, recipe.Author = nil, nil, nil
	return recipe, nil
}

func (s *recipeService) getRecipe(ctx context.Context, recipeID string) (*entities.Recipe, error) {
	id, err := uuid.Parse(recipeID)
	if err != nil {
		return nil, domain.ErrRecipeNotFound
	}
	return s.recipeRepository.GetRecipeByID(ctx, id)
}

// GetRecipeForViewer annotates the recipe for viewerID. An empty viewerID is
// an anonymous viewer and gets false for every flag.
func (s *recipeService) GetRecipeForViewer(ctx context.Context, recipeID string, viewerID string) (domain.RecipeDetail, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	details, err := s.annotate(ctx, []*entities.Recipe{recipe}, viewerID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	return details[0], nil
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string, page, limit int) (domain.RecipeListResponse, error) {
	empty := domain.RecipeListResponse{
		Recipes:    []domain.RecipeDetail{},
		Pagination: domain.NewPagination(page, limit, 0),
	}

	var query RecipeQuery
	for _, slug := range filter.TagSlugs {
		if slug = strings.TrimSpace(slug); slug != "" {
			query.TagSlugs = append(query.TagSlugs, slug)
		}
	}
	if filter.AuthorID != "" {
		author, err := uuid.Parse(filter.AuthorID)
		if err != nil {
			return empty, nil
		}
		query.AuthorID = author
	}
	if filter.IsFavorited || filter.IsInShoppingCart {
		viewer, err := uuid.Parse(viewerID)
		if err != nil {
			return empty, nil
		}
		if filter.IsFavorited {
			query.FavoritedBy = viewer
		}
		if filter.IsInShoppingCart {
			query.InCartOf = viewer
		}
	}

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, query, page, limit)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}

	details, err := s.annotate(ctx, recipes, viewerID)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}
	return domain.RecipeListResponse{
		Recipes:    details,
		Pagination: domain.NewPagination(page, limit, count),
	}, nil
}

func (s *recipeService) GetRecipeCard(ctx context.Context, recipeID string) (domain.RecipeCard, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeCard{}, err
	}
	return ToRecipeCard(recipe), nil
}

func (s *recipeService) annotate(ctx context.Context, recipes []*entities.Recipe, viewerID string) ([]domain.RecipeDetail, error) {
	recipeIDs := make([]string, 0, len(recipes))
	authorIDs := make([]string, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID.String())
		authorIDs = append(authorIDs, r.AuthorID.String())
	}

	favorited, err := s.annotators.Favorites.LinkedTargets(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, annotationError(err)
	}
	inCart, err := s.annotators.ShoppingCart.LinkedTargets(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, annotationError(err)
	}
	subscribed, err := s.annotators.Subscriptions.LinkedTargets(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, annotationError(err)
	}

	details := make([]domain.RecipeDetail, 0, len(recipes))
	for _, r := range recipes {
		detail := ToRecipeDetail(r, subscribed[r.AuthorID.String()])
		detail.IsFavorited = favorited[r.ID.String()]
		detail.IsInShoppingCart = inCart[r.ID.String()]
		details = append(details, detail)
	}
	return details, nil
}

func annotationError(err error) error {
	if errors.Is(err, domain.ErrParseUUID) {
		return domain.ErrTokenInvalid
	}
	return err
}

func ToRecipeDetail(recipe *entities.Recipe, authorSubscribed bool) domain.RecipeDetail {
	detail := domain.RecipeDetail{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
		Image:       recipe.Image,
		PubDate:     recipe.PubDate,
		Tags:        make([]domain.TagResponse, 0, len(recipe.Tags)),
		Ingredients: make([]domain.RecipeIngredientResponse, 0, len(recipe.Ingredients)),
	}
	if recipe.Author != nil {
		detail.Author = user.ToUserResponse(recipe.Author, authorSubscribed)
	}
	for i := range recipe.Tags {
		detail.Tags = append(detail.Tags, tag.ToTagResponse(&recipe.Tags[i]))
	}
	for _, line := range recipe.Ingredients {
		item := domain.RecipeIngredientResponse{
			ID:     line.IngredientID.String(),
			Amount: line.Amount,
		}
		if line.Ingredient != nil {
			item.Name = line.Ingredient.Name
			item.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		detail.Ingredients = append(detail.Ingredients, item)
	}
	return detail
}

func ToRecipeCard(recipe *entities.Recipe) domain.RecipeCard {
	return domain.RecipeCard{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}
