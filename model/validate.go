package model

import "github.com/go-playground/validator/v10"

// NewValidator returns a validator with every custom tag of the record types
// registered. Tags must be registered before the validator is shared.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("sanction_kind", func(fl validator.FieldLevel) bool {
		return SanctionKind(fl.Field().String()).Valid()
	})
	return v
}
