// Package validator wraps go-playground/validator with a shared instance and a
// uniform error shape: ErrValidationFailed joined with one message per field.
package validator

import (
	"errors"
	"fmt"

	gvalidator "github.com/go-playground/validator/v10"
)

// ErrValidationFailed is the first error of every chain returned by this package.
var ErrValidationFailed = errors.New("validation failed")

var validator = gvalidator.New(gvalidator.WithRequiredStructEnabled())

const errStringFormat = "'%s': value '%v' does not meet the requirements for the '%s' validation"

func formatError(err error) error {
	var validationErrors gvalidator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := []error{ErrValidationFailed}
	for _, fieldErr := range validationErrors {
		errs = append(errs, fmt.Errorf(errStringFormat,
			fieldErr.Namespace(),
			fieldErr.Value(),
			fieldErr.Tag(),
		))
	}

	return errors.Join(errs...)
}

// Validate checks v against its `validate` struct tags.
//
//	type WatchRequest struct {
//	    Subject string `validate:"required,eth_addr"`
//	}
func Validate(v any) error {
	if err := validator.Struct(v); err != nil {
		return formatError(err)
	}

	return nil
}

// Var checks a single value against tag, naming it field in the error.
func Var(field string, value any, tag string) error {
	if err := validator.Var(value, tag); err != nil {
		var validationErrors gvalidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return errors.Join(ErrValidationFailed, fmt.Errorf(errStringFormat, field, value, tag))
		}
		return err
	}

	return nil
}
