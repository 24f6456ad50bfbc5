// Package validation checks decoded API requests with validator/v10 and
// reports failures as apperr validation errors keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"outfitguru/internal/apperr"
	"outfitguru/internal/models"
)

// Validator wraps go-playground/validator with apperr conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that knows the wardrobe and calendar enums.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("feedback", func(fl validator.FieldLevel) bool {
		return models.Feedback(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("negative_reason", func(fl validator.FieldLevel) bool {
		return models.NegativeReason(fl.Field().String()).Valid()
	})

	return &Validator{v: v}
}

// Validate validates a struct. Field failures come back as an
// apperr validation error whose Details map field names to messages.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = friendlyMessage(e)
	}
	return apperr.ValidationWithDetails("validation failed", fieldErrors)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + e.Param()
	case "url":
		return "must be a valid URL"
	case "category":
		return "must be one of: " + joinValues(models.Categories)
	case "feedback":
		return "must be one of: none, like, dislike, skip"
	case "negative_reason":
		return "must be one of: " + joinValues(models.NegativeReasons)
	default:
		return "is invalid"
	}
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
