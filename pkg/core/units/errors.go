package units

import (
	"fmt"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
)

// UndefinedUnitError reports a unit name the registry does not know.
type UndefinedUnitError struct {
	Unit string
}

func (e *UndefinedUnitError) Error() string {
	return fmt.Sprintf("undefined unit: %q", e.Unit)
}

// Code implements mdwerror.Coder.
func (e *UndefinedUnitError) Code() mdwerror.Code { return mdwerror.CodeUndefinedUnit }

// DimensionalityError reports an operation between incompatible dimensions.
type DimensionalityError struct {
	From    string
	To      string
	FromDim string
	ToDim   string
	Extra   string
}

func (e *DimensionalityError) Error() string {
	msg := fmt.Sprintf("cannot convert from '%s' (%s) to '%s' (%s)", e.From, e.FromDim, e.To, e.ToDim)
	if e.Extra != "" {
		msg += ": " + e.Extra
	}
	return msg
}

// Code implements mdwerror.Coder.
func (e *DimensionalityError) Code() mdwerror.Code { return mdwerror.CodeDimensionality }

// MissingUnitError is returned when a numeric value is given without a unit.
type MissingUnitError struct{}

func (e *MissingUnitError) Error() string {
	return "unit must be provided for numeric values"
}

// Code implements mdwerror.Coder.
func (e *MissingUnitError) Code() mdwerror.Code { return mdwerror.CodeMissingUnit }

// OffsetUnitError is returned for arithmetic that is ambiguous on units with
// a shifted zero point, such as multiplying degrees Celsius.
type OffsetUnitError struct {
	Unit string
	Op   string
}

func (e *OffsetUnitError) Error() string {
	return fmt.Sprintf("ambiguous operation with offset unit (%s): %s", e.Unit, e.Op)
}

// Code implements mdwerror.Coder.
func (e *OffsetUnitError) Code() mdwerror.Code { return mdwerror.CodeOffsetUnit }

type divisionByZeroError struct{}

func (divisionByZeroError) Error() string       { return "division by zero" }
func (divisionByZeroError) Code() mdwerror.Code { return mdwerror.CodeDivisionByZero }

// ErrDivisionByZero is returned when dividing by a zero magnitude.
var ErrDivisionByZero error = divisionByZeroError{}
