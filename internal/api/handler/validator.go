package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/userhub/user-api/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
// Failures come back as domain.ValidationErrors keyed by JSON field name.
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			errs := make(domain.ValidationErrors, 0, len(ve))
			for _, fe := range ve {
				errs = append(errs, domain.ValidationError{Field: fe.Field(), Message: fieldError(fe)})
			}
			return errs
		}
		return err
	}
	return nil
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	label := fe.Field()
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Email format is invalid"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", label, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, fe.Tag())
	}
}
