// File: validators.go
// Title: Value Validators
// Description: Single-responsibility validators for calculation inputs:
//              sign, range, non-zero, physical dimension and value kind.
//              Every validator extracts the magnitude of the value first, so
//              a quantity is checked in its own unit.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.2.0: Initial implementation

package validation

import (
	"fmt"
	"math"
	"strings"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
	"github.com/msto63/engcalc/pkg/core/units"
)

// DefaultTolerance is the magnitude below which NonZeroValidator treats a
// value as zero.
const DefaultTolerance = 1e-10

// PositiveValidator fails unless the magnitude is greater than zero.
type PositiveValidator struct{}

func (PositiveValidator) Validate(value units.Numeric, field string) error {
	if m := value.Magnitude(); !(m > 0) {
		return NewValidationError(field, "must be positive, got "+formatFloat(m), value)
	}
	return nil
}

// NonNegativeValidator fails if the magnitude is below zero.
type NonNegativeValidator struct{}

func (NonNegativeValidator) Validate(value units.Numeric, field string) error {
	if m := value.Magnitude(); m < 0 || math.IsNaN(m) {
		return NewValidationError(field, "must be non-negative, got "+formatFloat(m), value)
	}
	return nil
}

// RangeValidator checks inclusive bounds. A nil bound is open.
type RangeValidator struct {
	min, max *float64
}

// RangeOption sets a bound of a RangeValidator.
type RangeOption func(*RangeValidator)

// Min sets the inclusive lower bound.
func Min(v float64) RangeOption {
	return func(r *RangeValidator) { r.min = &v }
}

// Max sets the inclusive upper bound.
func Max(v float64) RangeOption {
	return func(r *RangeValidator) { r.max = &v }
}

// NewRangeValidator builds a range check. It fails when both bounds are set
// and min > max.
func NewRangeValidator(opts ...RangeOption) (*RangeValidator, error) {
	r := &RangeValidator{}
	for _, opt := range opts {
		opt(r)
	}
	if r.min != nil && r.max != nil && *r.min > *r.max {
		return nil, mdwerror.Newf("min (%s) cannot be greater than max (%s)",
			formatFloat(*r.min), formatFloat(*r.max)).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("validation.NewRangeValidator")
	}
	return r, nil
}

// MustRange is NewRangeValidator for bounds known at compile time.
func MustRange(opts ...RangeOption) *RangeValidator {
	r, err := NewRangeValidator(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *RangeValidator) Validate(value units.Numeric, field string) error {
	m := value.Magnitude()
	if r.min != nil && !(m >= *r.min) {
		return NewValidationError(field,
			fmt.Sprintf("must be >= %s, got %s", formatFloat(*r.min), formatFloat(m)), value).
			WithCode(mdwerror.CodeValueOutOfRange)
	}
	if r.max != nil && !(m <= *r.max) {
		return NewValidationError(field,
			fmt.Sprintf("must be <= %s, got %s", formatFloat(*r.max), formatFloat(m)), value).
			WithCode(mdwerror.CodeValueOutOfRange)
	}
	return nil
}

// NonZeroValidator fails if |magnitude| < Tolerance.
type NonZeroValidator struct {
	Tolerance float64
}

// NewNonZeroValidator uses DefaultTolerance unless a tolerance is given.
func NewNonZeroValidator(tolerance ...float64) NonZeroValidator {
	tol := DefaultTolerance
	if len(tolerance) > 0 {
		tol = tolerance[0]
	}
	return NonZeroValidator{Tolerance: tol}
}

func (v NonZeroValidator) Validate(value units.Numeric, field string) error {
	if m := value.Magnitude(); !(math.Abs(m) >= v.Tolerance) {
		return NewValidationError(field, "must not be zero, got "+formatFloat(m), value)
	}
	return nil
}

// DimensionValidator checks the physical dimension of a quantity. Raw
// numbers always fail, even against "dimensionless".
type DimensionValidator struct {
	expected string
	display  string
}

// NewDimensionValidator accepts an alias such as "pressure" or a
// dimensionality string such as "[length] ** 2".
func NewDimensionValidator(expected string) DimensionValidator {
	return DimensionValidator{
		expected: units.ResolveDimension(expected),
		display:  expected,
	}
}

// Expected returns the resolved dimensionality string.
func (v DimensionValidator) Expected() string { return v.expected }

func (v DimensionValidator) Validate(value units.Numeric, field string) error {
	q, ok := value.Quantity()
	if !ok {
		return NewValidationError(field,
			"must be a quantity with units, got "+value.Kind().String(), value).
			WithCode(mdwerror.CodeDimensionality)
	}

	actual := q.Dimensionality()
	if v.expected == units.Dimensionless {
		if q.IsDimensionless() {
			return nil
		}
		return NewValidationError(field, "must be dimensionless, got dimension "+actual, value).
			WithCode(mdwerror.CodeDimensionality)
	}
	if units.NormalizeDimension(v.expected) != units.NormalizeDimension(actual) {
		return NewValidationError(field,
			fmt.Sprintf("must have dimension '%s', got dimension %s", v.display, actual), value).
			WithCode(mdwerror.CodeDimensionality)
	}
	return nil
}

// TypeValidator checks the kind of the extracted magnitude. The magnitude
// of a quantity is a float.
type TypeValidator struct {
	kinds []units.Kind
}

// NewTypeValidator accepts values whose magnitude is one of kinds.
func NewTypeValidator(kinds ...units.Kind) TypeValidator {
	return TypeValidator{kinds: append([]units.Kind(nil), kinds...)}
}

func (v TypeValidator) Validate(value units.Numeric, field string) error {
	actual := magnitudeKind(value)
	names := make([]string, len(v.kinds))
	for i, k := range v.kinds {
		if k == actual {
			return nil
		}
		names[i] = k.String()
	}
	return NewValidationError(field,
		fmt.Sprintf("must be of type %s, got %s", strings.Join(names, ", "), actual), value)
}

func magnitudeKind(value units.Numeric) units.Kind {
	if value.IsDimensioned() {
		return units.KindFloat
	}
	return value.Kind()
}
