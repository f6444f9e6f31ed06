package routes

import (
	"Foodgram-Backend/internal/api/handlers"
	"Foodgram-Backend/internal/middleware"
	"Foodgram-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App               *fiber.App
	UserHandler       handlers.UserHandler
	TagHandler        handlers.TagHandler
	IngredientHandler handlers.IngredientHandler
	RecipeHandler     handlers.RecipeHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Auth()
	c.User()
	c.Tags()
	c.Ingredients()
	c.Recipes()
}

func (c *Config) auth() fiber.Handler {
	return c.Middleware.AuthMiddleware(c.JWTService)
}

func (c *Config) optionalAuth() fiber.Handler {
	return c.Middleware.OptionalAuthMiddleware(c.JWTService)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) Auth() {
	c.App.Post("/api/auth/token/login", c.UserHandler.Login)
}

func (c *Config) User() {
	user := c.App.Group("/api/users")
	{
		user.Post("", c.UserHandler.Register)
		user.Get("", c.optionalAuth(), c.UserHandler.GetUsers)
		user.Get("/me", c.auth(), c.UserHandler.Me)
		user.Delete("/me", c.auth(), c.UserHandler.DeleteMe)
		user.Get("/subscriptions", c.auth(), c.UserHandler.GetSubscriptions)
		user.Get("/:id", c.optionalAuth(), c.UserHandler.GetUser)
		user.Post("/:id/subscribe", c.auth(), c.UserHandler.Subscribe)
		user.Delete("/:id/subscribe", c.auth(), c.UserHandler.Unsubscribe)
	}
}

func (c *Config) Tags() {
	tags := c.App.Group("/api/tags")
	tags.Get("", c.TagHandler.GetTags)
	tags.Get("/:id", c.TagHandler.GetTag)
	tags.Post("", c.auth(), c.TagHandler.AddTag)
}

func (c *Config) Ingredients() {
	ingredients := c.App.Group("/api/ingredients")
	ingredients.Get("", c.IngredientHandler.GetIngredients)
	ingredients.Get("/:id", c.IngredientHandler.GetIngredient)
	ingredients.Post("", c.auth(), c.IngredientHandler.AddIngredient)
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/recipes")

	// Shopping list export
	recipes.Get("/download_shopping_cart", c.auth(), c.RecipeHandler.DownloadShoppingCart)
	recipes.Post("/email_shopping_cart", c.auth(), c.RecipeHandler.EmailShoppingCart)

	// Basic CRUD operations
	recipes.Get("", c.optionalAuth(), c.RecipeHandler.GetRecipes)
	recipes.Post("", c.auth(), c.RecipeHandler.CreateRecipe)
	recipes.Get("/:id", c.optionalAuth(), c.RecipeHandler.GetRecipeDetail)
	recipes.Patch("/:id", c.auth(), c.RecipeHandler.UpdateRecipe)
	recipes.Delete("/:id", c.auth(), c.RecipeHandler.DeleteRecipe)

	// Per-user relations
	recipes.Post("/:id/favorite", c.auth(), c.RecipeHandler.AddFavorite)
	recipes.Delete("/:id/favorite", c.auth(), c.RecipeHandler.RemoveFavorite)
	recipes.Post("/:id/shopping_cart", c.auth(), c.RecipeHandler.AddToShoppingCart)
	recipes.Delete("/:id/shopping_cart", c.auth(), c.RecipeHandler.RemoveFromShoppingCart)
}
