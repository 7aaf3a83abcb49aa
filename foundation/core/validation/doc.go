// File: doc.go
// Title: Core Validation Package Documentation
// Description: Package documentation for the input validation framework
//              used by calculations.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-25 v0.1.0: Initial validation framework implementation
// - 2026-10-17 v0.2.0: Calculation input validators and rule pipelines

/*
Package validation checks calculation inputs before a formula runs.

Validators work on units.Numeric values. Each one extracts the magnitude
first, so the same PositiveValidator accepts a raw 5.0 and a 5 kN force.
A failure is a *ValidationError naming the field:

	err := validation.ValidatePositive(units.Float(-5), "force")
	// Parameter 'force' must be positive, got -5

# Validators

  - PositiveValidator, NonNegativeValidator: sign checks
  - NewRangeValidator(Min(0), Max(1)): inclusive bounds, either optional
  - NewNonZeroValidator(tolerance...): |m| >= tolerance, 1e-10 by default
  - NewDimensionValidator("pressure"): physical dimension of a quantity
  - NewTypeValidator(units.KindFloat): kind of the extracted magnitude

CompositeValidator, OptionalValidator and When combine them. Composition
short-circuits: the first failure is returned and later validators are not
evaluated.

# Pipelines

A Pipeline is an ordered list of rules bound to input names:

	pipeline := validation.NewPipeline(
		validation.On("force", validation.NewDimensionValidator("force")),
		validation.On("area", validation.NewDimensionValidator("area"), validation.PositiveValidator{}),
	)
	if err := pipeline.Run(bound); err != nil {
		return nil, err
	}

Guard wraps a function so that it only runs on valid input. Collect runs
every rule and gathers all failures for form style reporting.

Every error carries a code that mdwerror.GetCode understands:
VALIDATION_FAILED, VALUE_OUT_OF_RANGE or DIMENSIONALITY.
*/
package validation
