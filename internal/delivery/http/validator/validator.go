// Package validator adapts go-playground/validator to Echo's Validator interface.
package validator

import (
	domainerrors "gatekeeper/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// echoValidator wraps a validator instance for use as echo.Validator.
type echoValidator struct {
	validate *validator.Validate
}

// New creates a request validator backed by go-playground/validator.
func New() *echoValidator {
	return &echoValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate checks struct tags on the bound request and maps failures to the
// uniform validation error so handlers don't leak field internals.
func (v *echoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
