package binder

import (
	"github.com/go-playground/validator/v10"
	"github.com/mangaden/mangaden/pkg/models"
)

// sourceValidator ensures the value names a known content source. The empty
// string is allowed so the validator can be paired with optional params; add
// `required` to the validate tag when the field must be present.
func sourceValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := models.ParseSource(value)
	return err == nil
}
