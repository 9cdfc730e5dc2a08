package helpers

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
)

type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// FormatValidationErrors keeps the validator's field order, so the first
// element is the first failing field of the struct.
func FormatValidationErrors(errs validator.ValidationErrors) []FieldError {
	formatted := make([]FieldError, 0, len(errs))
	for _, err := range errs {
		field := strings.ToLower(err.Field())
		label := capitalizeFirstLetter(field)

		var msg string
		switch err.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is Required", label)
		case "email":
			msg = fmt.Sprintf("%s must be a valid email address", label)
		case "numeric", "number":
			msg = fmt.Sprintf("%s must be a number", label)
		case "min":
			msg = fmt.Sprintf("%s must be at least %s", label, err.Param())
		case "max":
			msg = fmt.Sprintf("%s must not exceed %s", label, err.Param())
		case "gte":
			msg = fmt.Sprintf("%s must be greater than or equal to %s", label, err.Param())
		case "oneof":
			msg = fmt.Sprintf("%s must be one of: %s", label, err.Param())
		default:
			msg = fmt.Sprintf("%s failed %s validation", label, err.Tag())
		}
		formatted = append(formatted, FieldError{Field: field, Error: msg})
	}
	return formatted
}

func capitalizeFirstLetter(s string) string {
	if len(s) == 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "_", " ")
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}
	return strings.Join(words, " ")
}

func GenerateSlug(s string) string {
	return slug.Make(s)
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(bytes), nil
}

func PasswordCompare(hashPass string, password []byte) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashPass), password) == nil
}
