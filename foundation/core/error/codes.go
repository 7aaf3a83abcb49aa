// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used across engcalc. Codes classify
//              failures so that collaborators (CLI, UI, persistence) can map
//              them to user facing messages without inspecting error text.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-17 v0.2.0: Unit and calculation codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"

	// Storage
	CodeDatabaseError  Code = "DATABASE_ERROR"
	CodeDuplicateEntry Code = "DUPLICATE_ENTRY"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Units and dimensional analysis
	CodeUndefinedUnit  Code = "UNDEFINED_UNIT"
	CodeDimensionality Code = "DIMENSIONALITY"
	CodeMissingUnit    Code = "MISSING_UNIT"
	CodeOffsetUnit     Code = "OFFSET_UNIT"
	CodeDivisionByZero Code = "DIVISION_BY_ZERO"

	// Validation and calculation preconditions
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeRequiredField    Code = "REQUIRED_FIELD"
	CodeValueOutOfRange  Code = "VALUE_OUT_OF_RANGE"
	CodePrecondition     Code = "PRECONDITION"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput,
		CodeDatabaseError, CodeDuplicateEntry,
		CodeConfigError, CodeInvalidConfig,
		CodeUndefinedUnit, CodeDimensionality, CodeMissingUnit, CodeOffsetUnit, CodeDivisionByZero,
		CodeValidationFailed, CodeRequiredField, CodeValueOutOfRange, CodePrecondition:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeDatabaseError, CodeDuplicateEntry:
		return "storage"
	case CodeConfigError, CodeInvalidConfig:
		return "configuration"
	case CodeUndefinedUnit, CodeDimensionality, CodeMissingUnit, CodeOffsetUnit, CodeDivisionByZero:
		return "units"
	case CodeValidationFailed, CodeRequiredField, CodeValueOutOfRange, CodePrecondition:
		return "validation"
	default:
		return "generic"
	}
}

// IsInputError reports whether the code describes a problem with caller
// supplied values rather than with the system. Input errors are the ones a
// form can attach to a field.
func (c Code) IsInputError() bool {
	switch c.Category() {
	case "units", "validation":
		return true
	}
	return c == CodeInvalidInput || c == CodeNotFound
}
