package domain

import "fmt"

var (
	MessageSuccessRegister         = "user registered successfully"
	MessageSuccessLogin            = "login successful"
	MessageSuccessGetUser          = "success get user"
	MessageSuccessGetUsers         = "success get users"
	MessageSuccessDeleteUser       = "user deleted successfully"
	MessageSuccessSubscribe        = "subscribed successfully"
	MessageSuccessGetSubscriptions = "success get subscriptions"

	MessageFailedRegister         = "failed to register user"
	MessageFailedLogin            = "failed to login"
	MessageFailedGetUser          = "failed to get user"
	MessageFailedGetUsers         = "failed to get users"
	MessageFailedDeleteUser       = "failed to delete user"
	MessageFailedSubscribe        = "failed to subscribe"
	MessageFailedUnsubscribe      = "failed to unsubscribe"
	MessageFailedGetSubscriptions = "failed to get subscriptions"

	ErrUserNotFound          = fmt.Errorf("user %w", ErrNotFound)
	ErrUserAlreadyExists     = fmt.Errorf("user with this email or username %w", ErrAlreadyExists)
	ErrInvalidCredentials    = fmt.Errorf("%w: invalid email or password", ErrValidation)
	ErrAlreadySubscribed     = fmt.Errorf("already subscribed to this author: %w", ErrDuplicateRelation)
	ErrSubscriptionNotFound  = fmt.Errorf("subscription %w", ErrNotFound)
	ErrUnauthorizedUserScope = fmt.Errorf("%w: user not allowed", ErrForbidden)
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email,max=254"`
		Username  string `json:"username" validate:"required,max=150"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
		Password  string `json:"password" validate:"required,min=8,max=150"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"auth_token"`
	}

	UserResponse struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
	}

	// AuthorWithRecipes is one entry of a subscriptions listing.
	AuthorWithRecipes struct {
		UserResponse
		Recipes      []RecipeCard `json:"recipes"`
		RecipesCount int64        `json:"recipes_count"`
	}
)
