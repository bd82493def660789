package pkg

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// DefaultValidator is the shared validator instance
var DefaultValidator = NewValidator()

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterValidation("objectid", validateObjectID)
	v.RegisterValidation("username", validateUsername)
	v.RegisterValidation("relpath", validateRelativePath)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Validate validates a struct
func (v *Validator) Validate(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var errors ValidationErrors
	for _, err := range err.(validator.ValidationErrors) {
		errors = append(errors, ValidationError{
			Field:   err.Field(),
			Message: v.getErrorMessage(err),
			Value:   err.Value(),
		})
	}

	return errors
}

// getErrorMessage returns a human-readable error message
func (v *Validator) getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", err.Field(), err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
	case "objectid":
		return fmt.Sprintf("%s must be a valid ObjectID", err.Field())
	case "username":
		return fmt.Sprintf("%s must contain only letters, numbers, underscores, and hyphens", err.Field())
	case "relpath":
		return fmt.Sprintf("%s must be a relative path without traversal segments", err.Field())
	default:
		return fmt.Sprintf("%s is invalid", err.Field())
	}
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// validateObjectID validates a MongoDB ObjectID in hex form
func validateObjectID(fl validator.FieldLevel) bool {
	_, err := primitive.ObjectIDFromHex(fl.Field().String())
	return err == nil
}

// validateUsername validates a username
func validateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

// validateRelativePath rejects absolute paths and traversal segments
func validateRelativePath(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	if p == "" || strings.HasPrefix(p, "/") {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." || seg == "" {
			return false
		}
	}
	return true
}
