package shopping

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/utils/mailing"
	"Foodgram-Backend/pkg/user"
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const emailSubject = "Your Foodgram shopping list"

type (
	ShoppingService interface {
		ComputeShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListLine, error)
		ExportShoppingList(ctx context.Context, userID string) (string, error)
		EmailShoppingList(ctx context.Context, userID string) error
	}

	shoppingService struct {
		shoppingRepository ShoppingRepository
		userRepository     user.UserRepository
		mailer             mailing.Mailer
	}
)

func NewShoppingService(shoppingRepository ShoppingRepository, userRepository user.UserRepository, mailer mailing.Mailer) ShoppingService {
	return &shoppingService{
		shoppingRepository: shoppingRepository,
		userRepository:     userRepository,
		mailer:             mailer,
	}
}

func (s *shoppingService) ComputeShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListLine, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	return s.shoppingRepository.AggregateCart(ctx, id)
}

func (s *shoppingService) ExportShoppingList(ctx context.Context, userID string) (string, error) {
	lines, err := s.ComputeShoppingList(ctx, userID)
	if err != nil {
		return "", err
	}
	return RenderShoppingList(lines), nil
}

// EmailShoppingList sends the rendered list to the user's own address as an
// attachment.
func (s *shoppingService) EmailShoppingList(ctx context.Context, userID string) error {
	u, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	text, err := s.ExportShoppingList(ctx, userID)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Hello %s,\n\nyour shopping list is attached.", u.Username)
	if err := s.mailer.Send(u.Email, emailSubject, body, mailing.Attachment{
		Filename: domain.ShoppingListFilename,
		Content:  []byte(text),
	}); err != nil {
		log.Errorw("send shopping list failed", "user_id", userID, "error", err)
		return err
	}

	log.Infow("shopping list sent", "user_id", userID)
	return nil
}

// RenderShoppingList produces the header line followed by one
// "name (unit)amount" line per group, joined by newlines.
func RenderShoppingList(lines []domain.ShoppingListLine) string {
	rows := make([]string, 0, len(lines)+1)
	rows = append(rows, domain.ShoppingListHeader)
	for _, line := range lines {
		rows = append(rows, fmt.Sprintf("%s (%s)%d", line.Name, line.MeasurementUnit, line.TotalAmount))
	}
	return strings.Join(rows, "\n")
}
