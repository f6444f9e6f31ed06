package utils

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	Validate     *validator.Validate
	validateOnce sync.Once

	slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

func InitValidator() {
	validateOnce.Do(func() {
		Validate = validator.New(validator.WithRequiredStructEnabled())
		_ = Validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
	})
}
