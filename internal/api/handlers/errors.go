package handlers

import (
	"Foodgram-Backend/domain"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// errorStatus maps domain error categories to HTTP status codes.
func errorStatus(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrTokenNotFound),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrDuplicateRelation),
		errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrSelfSubscription):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func pagination(c *fiber.Ctx) (int, int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "6"))
	if err != nil || limit < 1 {
		limit = 6
	}
	return page, limit
}
