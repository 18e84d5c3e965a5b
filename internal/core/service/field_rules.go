package service

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/userhub/user-api/internal/core/domain"
)

// Format rules, in go-playground/validator tag syntax. They are checked
// before any store lookup for the same field.
const (
	usernameRule    = "max=20,username"
	emailRule       = "max=254,email"
	userNameRule    = "max=100"
	roleNameRule    = "max=50"
	descriptionRule = "max=255"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

var formats = newFormatValidator()

func newFormatValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register username validation: %v", err))
	}
	return v
}

// checkFormat returns the violation of rule by value, or nil. An empty rule
// accepts everything.
func checkFormat(field, value, rule string) *domain.ValidationError {
	if rule == "" {
		return nil
	}
	err := formats.Var(value, rule)
	if err == nil {
		return nil
	}

	label := fieldLabel(field)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return &domain.ValidationError{Field: field, Message: label + " is invalid"}
	}

	fe := ve[0]
	var msg string
	switch fe.Tag() {
	case "email":
		msg = label + " format is invalid"
	case "max":
		msg = fmt.Sprintf("%s must be at most %s characters long", label, fe.Param())
	case "username":
		msg = label + " can only contain letters, numbers and underscores"
	default:
		msg = label + " is invalid"
	}
	return &domain.ValidationError{Field: field, Message: msg}
}
