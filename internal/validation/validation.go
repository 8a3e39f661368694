// Package validation checks request bodies at the HTTP boundary.
//
// Rules live in `validate` struct tags; failures come back as a 400
// *errs.Error listing every offending field by its JSON name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"pasar/internal/errs"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const (
	passwordMinLength = 6
	passwordMaxLength = 32
)

// Validator wraps validator.Validate with the application's custom rules.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator that reports fields by JSON name and knows the
// "password" rule.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	return &Validator{validate: v}
}

// StrongPassword enforces 6 to 32 Latin characters with at least one lowercase
// letter, one uppercase letter, one digit and one special character, and no
// whitespace.
func StrongPassword(s string) bool {
	if n := len(s); n < passwordMinLength || n > passwordMaxLength {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case r > unicode.MaxASCII || unicode.IsSpace(r) || unicode.IsControl(r):
			return false
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	return lower && upper && digit && special
}

// Struct validates payload and converts failures into a 400 *errs.Error.
func (v *Validator) Struct(payload interface{}) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := make([]errs.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, errs.FieldError{
			Field: fe.Field(),
			Error: message(fe),
		})
	}
	return errs.Validation("Validation failed", fields)
}

// BindAndValidate parses the JSON body into payload (a pointer) and validates it.
func (v *Validator) BindAndValidate(c *fiber.Ctx, payload interface{}) error {
	if err := c.BodyParser(payload); err != nil {
		return errs.Validation("Invalid request body", nil)
	}
	return v.Struct(payload)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "password":
		return fmt.Sprintf("must be %d-%d Latin characters with upper and lower case letters, a number and a special character, without spaces",
			passwordMinLength, passwordMaxLength)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed on %s:%s", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
