package config

import (
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/api/handlers"
	"Foodgram-Backend/internal/api/routes"
	"Foodgram-Backend/internal/middleware"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/mailing"
	"Foodgram-Backend/pkg/ingredient"
	"Foodgram-Backend/pkg/jwt"
	"Foodgram-Backend/pkg/recipe"
	"Foodgram-Backend/pkg/relation"
	"Foodgram-Backend/pkg/shopping"
	"Foodgram-Backend/pkg/tag"
	"Foodgram-Backend/pkg/user"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

const defaultRateLimit = 10

// AppOptions carries the collaborators NewApp reads from configuration.
type AppOptions struct {
	JWTSecret    string
	Mailer       mailing.Mailer
	AccessLog    io.Writer
	RateLimitMax int
}

func NewApp(db *gorm.DB) (*fiber.App, error) {
	secret := utils.GetConfig("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not configured")
	}

	// setting up logging
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		return nil, fmt.Errorf("error creating logs directory: %w", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}

	rateLimit, err := strconv.Atoi(utils.GetConfigDefault("RATE_LIMIT_MAX", strconv.Itoa(defaultRateLimit)))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_MAX: %w", err)
	}

	return BuildApp(db, AppOptions{
		JWTSecret:    secret,
		Mailer:       mailing.NewSMTPMailer(mailing.LoadMailConfig()),
		AccessLog:    file,
		RateLimitMax: rateLimit,
	}), nil
}

// BuildApp wires repositories, services, handlers and routes on a new fiber
// app. A zero RateLimitMax disables the limiter.
func BuildApp(db *gorm.DB, opts AppOptions) *fiber.App {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		AppName: "Foodgram",
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	if opts.AccessLog != nil {
		app.Use(logger.New(logger.Config{
			TimeFormat: "2006-01-02 15:04:05",
			Output:     opts.AccessLog,
		}))
	}

	if opts.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        opts.RateLimitMax,
			Expiration: 1 * time.Second,
		}))
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	tagRepository := tag.NewTagRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	shoppingRepository := shopping.NewShoppingRepository(db)

	// Relations
	favorites := relation.NewToggleService(
		relation.NewRepository[entities.Favorite](db),
		relation.Favorite,
		recipeRepository.RecipeExists,
	)
	shoppingCart := relation.NewToggleService(
		relation.NewRepository[entities.ShoppingCartItem](db),
		relation.ShoppingCart,
		recipeRepository.RecipeExists,
	)
	subscriptions := relation.NewToggleService(
		relation.NewRepository[entities.Subscription](db),
		relation.Subscription,
		userRepository.UserExists,
	)

	// Service
	jwtService := jwt.NewJWTService(opts.JWTSecret)
	userService := user.NewUserService(userRepository, jwtService, subscriptions)
	tagService := tag.NewTagService(tagRepository)
	ingredientService := ingredient.NewIngredientService(ingredientRepository)
	recipeService := recipe.NewRecipeService(recipeRepository, recipe.Annotators{
		Favorites:     favorites,
		ShoppingCart:  shoppingCart,
		Subscriptions: subscriptions,
	})
	shoppingService := shopping.NewShoppingService(shoppingRepository, userRepository, opts.Mailer)

	// Handler
	userHandler := handlers.NewUserHandler(userService, subscriptions, validator)
	tagHandler := handlers.NewTagHandler(tagService, validator)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, shoppingService, favorites, shoppingCart, validator)

	// routes
	routesConfig := routes.Config{
		App:               app,
		UserHandler:       userHandler,
		TagHandler:        tagHandler,
		IngredientHandler: ingredientHandler,
		RecipeHandler:     recipeHandler,
		Middleware:        middlewares,
		JWTService:        jwtService,
	}
	routesConfig.Setup()
	return app
}
