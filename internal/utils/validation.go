package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/toyz/cmakesrc/internal/errors"
)

// Validator represents a validation function. Failures are returned as
// *errors.ValidationError so they can be collected into MultipleErrors.
type Validator[T any] func(T) error

// ValidatorChain allows chaining multiple validators
type ValidatorChain[T any] struct {
	validators []Validator[T]
}

// NewValidatorChain creates a new validator chain
func NewValidatorChain[T any](validators ...Validator[T]) *ValidatorChain[T] {
	return &ValidatorChain[T]{validators: validators}
}

// Add adds a validator to the chain
func (vc *ValidatorChain[T]) Add(validator Validator[T]) *ValidatorChain[T] {
	vc.validators = append(vc.validators, validator)
	return vc
}

// Validate runs the validators in order and returns the first failure
func (vc *ValidatorChain[T]) Validate(value T) error {
	for _, validator := range vc.validators {
		if err := validator(value); err != nil {
			return err
		}
	}
	return nil
}

// Positive validates that a number is greater than zero
func Positive(field string) Validator[int] {
	return func(value int) error {
		if value <= 0 {
			return errors.NewValidationError(field, "a positive number", strconv.Itoa(value))
		}
		return nil
	}
}

// HasPrefix validates that a string has a specific prefix
func HasPrefix(field, prefix string) Validator[string] {
	return func(value string) error {
		if !strings.HasPrefix(value, prefix) {
			return errors.NewValidationError(field, fmt.Sprintf("a value starting with '%s'", prefix), strconv.Quote(value))
		}
		return nil
	}
}

// MinLength validates that a string has a minimum length
func MinLength(field string, min int) Validator[string] {
	return func(value string) error {
		if len(value) < min {
			return errors.NewValidationError(field, fmt.Sprintf("at least %d characters", min), strconv.Quote(value))
		}
		return nil
	}
}

// SliceNotEmpty validates that a slice is not empty
func SliceNotEmpty[T any](field string) Validator[[]T] {
	return func(value []T) error {
		if len(value) == 0 {
			return errors.NewValidationError(field, "at least one value", "none")
		}
		return nil
	}
}

// Custom validates using a custom function
func Custom[T any](field, expected string, validatorFunc func(T) bool) Validator[T] {
	return func(value T) error {
		if !validatorFunc(value) {
			return errors.NewValidationError(field, expected, fmt.Sprintf("%v", value))
		}
		return nil
	}
}

// CollectValidation runs validator on value and adds a failure to multiple
func CollectValidation[T any](multiple **errors.MultipleErrors, validator Validator[T], value T) *errors.ValidationError {
	err := validator(value)
	if err == nil {
		return nil
	}

	validationErr, ok := err.(*errors.ValidationError)
	if !ok {
		validationErr = errors.NewValidationError("value", "a valid value", err.Error())
	}
	errors.AddToMultiple(multiple, validationErr)
	return validationErr
}
