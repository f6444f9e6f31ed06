package user

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/pkg/jwt"
	"Foodgram-Backend/pkg/relation"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		GetProfile(ctx context.Context, userID string, viewerID string) (domain.UserResponse, error)
		GetUsers(ctx context.Context, viewerID string, page, limit int) ([]domain.UserResponse, int64, error)
		DeleteUser(ctx context.Context, userID string) error
		GetSubscriptionCard(ctx context.Context, authorID string, recipesLimit int) (domain.AuthorWithRecipes, error)
		ListSubscriptions(ctx context.Context, userID string, page, limit, recipesLimit int) ([]domain.AuthorWithRecipes, int64, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		subscriptions  relation.ToggleService
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, subscriptions relation.ToggleService) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		subscriptions:  subscriptions,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user := &entities.User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Username:  strings.TrimSpace(req.Username),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hash),
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return domain.UserResponse{}, err
	}

	log.Infow("user registered", "user_id", user.ID)
	return ToUserResponse(user, false), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID.String())
	if err != nil {
		return domain.LoginResponse{}, err
	}
	return domain.LoginResponse{Token: token}, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string, viewerID string) (domain.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}

	subscribed, err := s.subscriptions.IsLinked(ctx, viewerID, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return ToUserResponse(user, subscribed), nil
}

func (s *userService) GetUsers(ctx context.Context, viewerID string, page, limit int) ([]domain.UserResponse, int64, error) {
	users, count, err := s.userRepository.GetUsers(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID.String())
	}
	subscribed, err := s.subscriptions.LinkedTargets(ctx, viewerID, ids)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.UserResponse, 0, len(users))
	for _, user := range users {
		res = append(res, ToUserResponse(user, subscribed[user.ID.String()]))
	}
	return res, count, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	if err := s.userRepository.DeleteUser(ctx, id.String()); err != nil {
		return err
	}
	log.Infow("user deleted", "user_id", id)
	return nil
}

// GetSubscriptionCard is the projection returned after subscribing.
func (s *userService) GetSubscriptionCard(ctx context.Context, authorID string, recipesLimit int) (domain.AuthorWithRecipes, error) {
	author, err := s.getUser(ctx, authorID)
	if err != nil {
		return domain.AuthorWithRecipes{}, err
	}

	cards, err := s.buildAuthorCards(ctx, []*entities.User{author}, recipesLimit)
	if err != nil {
		return domain.AuthorWithRecipes{}, err
	}
	return cards[0], nil
}

func (s *userService) ListSubscriptions(ctx context.Context, userID string, page, limit, recipesLimit int) ([]domain.AuthorWithRecipes, int64, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, 0, domain.ErrParseUUID
	}

	authors, count, err := s.userRepository.GetSubscribedAuthors(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	cards, err := s.buildAuthorCards(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return cards, count, nil
}

func (s *userService) buildAuthorCards(ctx context.Context, authors []*entities.User, recipesLimit int) ([]domain.AuthorWithRecipes, error) {
	ids := make([]string, 0, len(authors))
	for _, author := range authors {
		ids = append(ids, author.ID.String())
	}

	counts, err := s.userRepository.CountAuthorRecipes(ctx, ids)
	if err != nil {
		return nil, err
	}

	cards := make([]domain.AuthorWithRecipes, 0, len(authors))
	for _, author := range authors {
		recipes, err := s.userRepository.GetAuthorRecipes(ctx, author.ID.String(), recipesLimit)
		if err != nil {
			return nil, err
		}

		preview := make([]domain.RecipeCard, 0, len(recipes))
		for _, r := range recipes {
			preview = append(preview, domain.RecipeCard{
				ID:          r.ID.String(),
				Name:        r.Name,
				Image:       r.Image,
				CookingTime: r.CookingTime,
			})
		}

		cards = append(cards, domain.AuthorWithRecipes{
			UserResponse: ToUserResponse(author, true),
			Recipes:      preview,
			RecipesCount: counts[author.ID.String()],
		})
	}
	return cards, nil
}

func (s *userService) getUser(ctx context.Context, userID string) (*entities.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, domain.ErrUserNotFound
	}
	return s.userRepository.GetUserByID(ctx, userID)
}

func ToUserResponse(user *entities.User, isSubscribed bool) domain.UserResponse {
	return domain.UserResponse{
		ID:           user.ID.String(),
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}
