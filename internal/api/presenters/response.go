package presenters

import (
	"Foodgram-Backend/domain"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data interface{}, status int, message string) error {
	return c.Status(status).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
		Code:    errorCode(status, err),
	}
	if err != nil {
		res.Error = err.Error()
	}
	return c.Status(status).JSON(res)
}

// errorCode prefers the domain category of err and falls back to one derived
// from the status for errors raised outside the domain.
func errorCode(status int, err error) string {
	if code := domain.ErrorCode(err); code != "" {
		return code
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return domain.CodeValidation
	}

	switch status {
	case fiber.StatusBadRequest:
		return domain.CodeInvalidRequest
	case fiber.StatusUnauthorized:
		return domain.CodeUnauthorized
	case fiber.StatusForbidden:
		return domain.CodeForbidden
	case fiber.StatusNotFound:
		return domain.CodeNotFound
	default:
		return domain.CodeInternal
	}
}
