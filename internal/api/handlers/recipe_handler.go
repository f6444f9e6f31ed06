package handlers

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/internal/middleware"
	"Foodgram-Backend/pkg/recipe"
	"Foodgram-Backend/pkg/relation"
	"Foodgram-Backend/pkg/shopping"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RecipeHandler interface {
		GetRecipes(c *fiber.Ctx) error
		GetRecipeDetail(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		AddFavorite(c *fiber.Ctx) error
		RemoveFavorite(c *fiber.Ctx) error
		AddToShoppingCart(c *fiber.Ctx) error
		RemoveFromShoppingCart(c *fiber.Ctx) error
		DownloadShoppingCart(c *fiber.Ctx) error
		EmailShoppingCart(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService   recipe.RecipeService
		shoppingService shopping.ShoppingService
		favorites       relation.ToggleService
		shoppingCart    relation.ToggleService
		validator       *validator.Validate
	}
)

func NewRecipeHandler(
	recipeService recipe.RecipeService,
	shoppingService shopping.ShoppingService,
	favorites relation.ToggleService,
	shoppingCart relation.ToggleService,
	validator *validator.Validate,
) RecipeHandler {
	return &recipeHandler{
		recipeService:   recipeService,
		shoppingService: shoppingService,
		favorites:       favorites,
		shoppingCart:    shoppingCart,
		validator:       validator,
	}
}

// tagSlugs accepts both repeated (?tags=a&tags=b) and comma separated values.
func tagSlugs(c *fiber.Ctx) []string {
	var slugs []string
	for _, raw := range c.Context().QueryArgs().PeekMulti("tags") {
		for _, slug := range strings.Split(string(raw), ",") {
			if slug = strings.TrimSpace(slug); slug != "" {
				slugs = append(slugs, slug)
			}
		}
	}
	return slugs
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	page, limit := pagination(c)
	filter := domain.RecipeFilter{
		TagSlugs:         tagSlugs(c),
		AuthorID:         c.Query("author"),
		IsFavorited:      c.QueryBool("is_favorited", false),
		IsInShoppingCart: c.QueryBool("is_in_shopping_cart", false),
	}

	res, err := h.recipeService.GetRecipes(c.Context(), filter, middleware.UserID(c), page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipeDetail(c *fiber.Ctx) error {
	res, err := h.recipeService.GetRecipeForViewer(c.Context(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedGetRecipeDetail, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	req := new(domain.RecipeWriteRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRecipe, err)
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), *req, middleware.UserID(c))
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedCreateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	req := new(domain.RecipeWriteRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRecipe, err)
	}

	res, err := h.recipeService.UpdateRecipe(c.Context(), c.Params("id"), *req, middleware.UserID(c))
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedUpdateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	if err := h.recipeService.DeleteRecipe(c.Context(), c.Params("id"), middleware.UserID(c)); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedDeleteRecipe, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// addRelation links the caller to the recipe and answers with its card.
func (h *recipeHandler) addRelation(c *fiber.Ctx, toggle relation.ToggleService, success, failed string) error {
	recipeID := c.Params("id")

	if err := toggle.Add(c.Context(), middleware.UserID(c), recipeID); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), failed, err)
	}

	res, err := h.recipeService.GetRecipeCard(c.Context(), recipeID)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), failed, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, success)
}

func (h *recipeHandler) removeRelation(c *fiber.Ctx, toggle relation.ToggleService, failed string) error {
	if err := toggle.Remove(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), failed, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *recipeHandler) AddFavorite(c *fiber.Ctx) error {
	return h.addRelation(c, h.favorites, domain.MessageSuccessFavorite, domain.MessageFailedFavorite)
}

func (h *recipeHandler) RemoveFavorite(c *fiber.Ctx) error {
	return h.removeRelation(c, h.favorites, domain.MessageFailedUnfavorite)
}

func (h *recipeHandler) AddToShoppingCart(c *fiber.Ctx) error {
	return h.addRelation(c, h.shoppingCart, domain.MessageSuccessAddToShoppingCart, domain.MessageFailedAddToShoppingCart)
}

func (h *recipeHandler) RemoveFromShoppingCart(c *fiber.Ctx) error {
	return h.removeRelation(c, h.shoppingCart, domain.MessageFailedRemoveShoppingCart)
}

func (h *recipeHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	text, err := h.shoppingService.ExportShoppingList(c.Context(), middleware.UserID(c))
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedDownloadShoppingList, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", domain.ShoppingListFilename))
	return c.Status(fiber.StatusOK).SendString(text)
}

func (h *recipeHandler) EmailShoppingCart(c *fiber.Ctx) error {
	if err := h.shoppingService.EmailShoppingList(c.Context(), middleware.UserID(c)); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedEmailShoppingList, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessEmailShoppingList)
}
