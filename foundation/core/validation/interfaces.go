// File: interfaces.go
// Title: Core Validation Interfaces and Types
// Description: Defines the Validator interface, the ValidationError type and
//              the adapter that lets plain functions act as validators.
//              Validators take a units.Numeric so raw numbers and dimensioned
//              quantities are checked through the same magnitude extraction.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-25 v0.1.0: Initial validation interfaces implementation
// - 2026-10-17 v0.2.0: Numeric values, fail-fast error returns

package validation

import (
	"fmt"
	"strconv"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
	"github.com/msto63/engcalc/pkg/core/units"
)

// Validator checks a single value bound to a named field. It returns nil or
// a *ValidationError naming the field.
type Validator interface {
	Validate(value units.Numeric, field string) error
}

// ValidatorFunc is a function type that implements the Validator interface
type ValidatorFunc func(value units.Numeric, field string) error

// Validate implements the Validator interface for ValidatorFunc
func (f ValidatorFunc) Validate(value units.Numeric, field string) error {
	return f(value, field)
}

// ValidationError reports a failed precondition on a named input. The code
// is exposed through Code so mdwerror.GetCode classifies it.
type ValidationError struct {
	Field   string
	Message string
	Value   units.Numeric

	code mdwerror.Code
}

// NewValidationError creates a failure for field with a VALIDATION_FAILED
// code.
func NewValidationError(field, message string, value units.Numeric) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		code:    mdwerror.CodeValidationFailed,
	}
}

// WithCode overrides the error code.
func (e *ValidationError) WithCode(code mdwerror.Code) *ValidationError {
	e.code = code
	return e
}

// Error implements the error interface, e.g.
// "Parameter 'force' must be positive, got -5".
func (e *ValidationError) Error() string {
	return fmt.Sprintf("Parameter '%s' %s", e.Field, e.Message)
}

// Code returns the error code, VALIDATION_FAILED unless overridden.
func (e *ValidationError) Code() mdwerror.Code {
	if e.code == "" {
		return mdwerror.CodeValidationFailed
	}
	return e.code
}

// String returns a human-readable representation of a validation error
func (e *ValidationError) String() string {
	return fmt.Sprintf("ValidationError{field:%s, code:%s, message:%s, value:%s}",
		e.Field, e.Code(), e.Message, e.Value)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
