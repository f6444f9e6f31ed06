package domain

import "fmt"

var (
	MessageSuccessGetIngredients  = "success get ingredients"
	MessageSuccessGetIngredient   = "success get ingredient"
	MessageSuccessAddIngredient   = "ingredient added successfully"
	MessageFailedGetIngredients   = "failed to get ingredients"
	MessageFailedGetIngredient    = "failed to get ingredient"
	MessageFailedAddIngredient    = "failed to add ingredient"
	ErrIngredientNotFound         = fmt.Errorf("ingredient %w", ErrNotFound)
	ErrEmptyIngredientImportBatch = fmt.Errorf("%w: no ingredients to import", ErrValidation)
)

type (
	AddIngredientRequest struct {
		Name            string `json:"name" validate:"required,max=200"`
		MeasurementUnit string `json:"measurement_unit" validate:"required,max=200"`
	}

	IngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}
)
