package ingredient

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"context"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

type (
	IngredientService interface {
		AddIngredient(ctx context.Context, req domain.AddIngredientRequest) (domain.IngredientResponse, error)
		ImportIngredients(ctx context.Context, reqs []domain.AddIngredientRequest) (int, error)
		GetIngredientByID(ctx context.Context, id string) (domain.IngredientResponse, error)
		GetIngredients(ctx context.Context, namePrefix string) ([]domain.IngredientResponse, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
	}
)

func NewIngredientService(ingredientRepository IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepository: ingredientRepository}
}

func (s *ingredientService) AddIngredient(ctx context.Context, req domain.AddIngredientRequest) (domain.IngredientResponse, error) {
	ingredient := &entities.Ingredient{
		Name:            strings.TrimSpace(req.Name),
		MeasurementUnit: strings.TrimSpace(req.MeasurementUnit),
	}
	if err := s.ingredientRepository.CreateIngredient(ctx, ingredient); err != nil {
		return domain.IngredientResponse{}, err
	}
	return ToIngredientResponse(ingredient), nil
}

// ImportIngredients bulk-inserts catalog rows, skipping blank names.
func (s *ingredientService) ImportIngredients(ctx context.Context, reqs []domain.AddIngredientRequest) (int, error) {
	ingredients := make([]*entities.Ingredient, 0, len(reqs))
	for _, req := range reqs {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			continue
		}
		ingredients = append(ingredients, &entities.Ingredient{
			Name:            name,
			MeasurementUnit: strings.TrimSpace(req.MeasurementUnit),
		})
	}
	if len(ingredients) == 0 {
		return 0, domain.ErrEmptyIngredientImportBatch
	}

	if err := s.ingredientRepository.BulkCreateIngredients(ctx, ingredients); err != nil {
		return 0, err
	}
	log.Infow("ingredients imported", "count", len(ingredients))
	return len(ingredients), nil
}

func (s *ingredientService) GetIngredientByID(ctx context.Context, id string) (domain.IngredientResponse, error) {
	ingredientID, err := uuid.Parse(id)
	if err != nil {
		return domain.IngredientResponse{}, domain.ErrIngredientNotFound
	}
	ingredient, err := s.ingredientRepository.GetIngredientByID(ctx, ingredientID)
	if err != nil {
		return domain.IngredientResponse{}, err
	}
	return ToIngredientResponse(ingredient), nil
}

func (s *ingredientService) GetIngredients(ctx context.Context, namePrefix string) ([]domain.IngredientResponse, error) {
	ingredients, err := s.ingredientRepository.GetIngredients(ctx, strings.TrimSpace(namePrefix))
	if err != nil {
		return nil, err
	}

	res := make([]domain.IngredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		res = append(res, ToIngredientResponse(ingredient))
	}
	return res, nil
}

func ToIngredientResponse(ingredient *entities.Ingredient) domain.IngredientResponse {
	return domain.IngredientResponse{
		ID:              ingredient.ID.String(),
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	}
}
