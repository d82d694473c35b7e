package handler

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// formField is one submitted value and the validator rules it must satisfy.
type formField struct {
	Label string
	Value any
	Rules string
}

func field(label string, value any, rules string) formField {
	return formField{Label: label, Value: value, Rules: rules}
}

func maxLen(n int) string {
	return fmt.Sprintf("max=%d", n)
}

func minLen(n int) string {
	return fmt.Sprintf("min=%d", n)
}

// validateForm returns the message for the first failing field, or "".
func validateForm(fields ...formField) string {
	for _, f := range fields {
		err := validate.Var(f.Value, f.Rules)
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldMessage(f.Label, verrs[0])
		}
		return fmt.Sprintf("%s is invalid", f.Label)
	}
	return ""
}

func fieldMessage(label string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "http_url":
		return fmt.Sprintf("%s must be an http(s) link", label)
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}
