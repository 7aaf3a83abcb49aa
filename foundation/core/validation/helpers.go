// File: helpers.go
// Title: One-off Validation Helpers
// Description: Function forms of the common validators for explicit checks
//              inside a calculation body.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-17
// Modified: 2026-10-17

package validation

import "github.com/msto63/engcalc/pkg/core/units"

// ValidatePositive fails unless value > 0.
func ValidatePositive(value units.Numeric, name string) error {
	return PositiveValidator{}.Validate(value, name)
}

// ValidateNonNegative fails if value < 0.
func ValidateNonNegative(value units.Numeric, name string) error {
	return NonNegativeValidator{}.Validate(value, name)
}

// ValidateNonZero fails if |value| is below the tolerance, DefaultTolerance
// when none is given.
func ValidateNonZero(value units.Numeric, name string, tolerance ...float64) error {
	return NewNonZeroValidator(tolerance...).Validate(value, name)
}

// ValidateRange checks inclusive bounds. Inconsistent bounds are reported
// as the construction error.
func ValidateRange(value units.Numeric, name string, opts ...RangeOption) error {
	r, err := NewRangeValidator(opts...)
	if err != nil {
		return err
	}
	return r.Validate(value, name)
}

// ValidateDimension checks the physical dimension of a quantity.
func ValidateDimension(value units.Numeric, expected, name string) error {
	return NewDimensionValidator(expected).Validate(value, name)
}
