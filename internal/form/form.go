// Package form holds the create/edit form state: a flat field map, a file
// attachment list, field-level validation, and the multipart payload
// assembly rules for partial updates.
package form

import (
	"github.com/go-playground/validator/v10"
)

// ModalState is the lifecycle of a modal form. Closing at any point
// discards in-progress edits; there is no draft persistence.
type ModalState int

const (
	StateClosed ModalState = iota
	StateOpening
	StateReady
	StateSubmitting
)

var validate = validator.New()

// checkField validates one value against a validator tag and returns a
// user-facing message, empty when the value passes.
func checkField(value, tag string) string {
	if err := validate.Var(value, tag); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return fieldErrorMessage(errs[0])
		}
		return "Invalid value"
	}
	return ""
}

func fieldErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "numeric":
		return "Must be a number"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	default:
		return "Invalid value"
	}
}
