// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors so that loggers can pick
//              an appropriate level without knowing the concrete error.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2026-10-17 v0.2.0: Mapping for unit and validation codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates invalid caller input
	SeverityLow Severity = iota

	// SeverityMedium indicates an error that affects functionality but has workarounds
	SeverityMedium

	// SeverityHigh indicates a serious error such as a broken database
	SeverityHigh

	// SeverityCritical indicates the system is unusable
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeDatabaseError:
		return SeverityHigh
	case CodeInternal, CodeConfigError, CodeInvalidConfig, CodeDuplicateEntry:
		return SeverityMedium
	case CodeInvalidInput, CodeNotFound,
		CodeUndefinedUnit, CodeDimensionality, CodeMissingUnit, CodeOffsetUnit, CodeDivisionByZero,
		CodeValidationFailed, CodeRequiredField, CodeValueOutOfRange, CodePrecondition:
		return SeverityLow
	default:
		return SeverityMedium
	}
}
