// File: chain.go
// Title: Validator Composition and Pipelines
// Description: Composes validators into ordered chains and binds them to
//              input names. A Pipeline is an explicit list of rules run
//              against an already bound input map before a calculation body
//              executes. Composition short-circuits on the first failure.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-25 v0.1.0: Initial validator chain implementation
// - 2026-10-17 v0.2.0: Rule pipelines and Guard, fail-fast composition

package validation

import (
	"errors"
	"fmt"
	"strings"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
	"github.com/msto63/engcalc/pkg/core/units"
)

// CompositeValidator runs validators in order and returns the first
// failure. Later validators are not evaluated.
type CompositeValidator struct {
	validators []Validator
}

// NewCompositeValidator builds an AND combination of validators.
func NewCompositeValidator(validators ...Validator) CompositeValidator {
	return CompositeValidator{validators: append([]Validator(nil), validators...)}
}

// Len returns the number of validators in the chain.
func (c CompositeValidator) Len() int { return len(c.validators) }

func (c CompositeValidator) Validate(value units.Numeric, field string) error {
	for _, v := range c.validators {
		if err := v.Validate(value, field); err != nil {
			return err
		}
	}
	return nil
}

// OptionalValidator passes None through and delegates everything else.
type OptionalValidator struct {
	inner Validator
}

// NewOptionalValidator wraps inner.
func NewOptionalValidator(inner Validator) OptionalValidator {
	return OptionalValidator{inner: inner}
}

func (o OptionalValidator) Validate(value units.Numeric, field string) error {
	if value.IsNone() {
		return nil
	}
	return o.inner.Validate(value, field)
}

// ConditionalValidator runs its validator only when condition holds.
type ConditionalValidator struct {
	condition func(units.Numeric) bool
	validator Validator
}

// When creates a ConditionalValidator.
func When(condition func(units.Numeric) bool, validator Validator) ConditionalValidator {
	return ConditionalValidator{condition: condition, validator: validator}
}

func (c ConditionalValidator) Validate(value units.Numeric, field string) error {
	if !c.condition(value) {
		return nil
	}
	return c.validator.Validate(value, field)
}

// Rule binds a validator to an input name.
type Rule struct {
	Field     string
	Validator Validator
}

// On binds one or more validators to field. Several validators are
// combined with NewCompositeValidator.
func On(field string, validators ...Validator) Rule {
	if len(validators) == 1 {
		return Rule{Field: field, Validator: validators[0]}
	}
	return Rule{Field: field, Validator: NewCompositeValidator(validators...)}
}

// Pipeline is an ordered list of rules. A field may appear in several
// rules.
type Pipeline []Rule

// NewPipeline creates a pipeline from rules.
func NewPipeline(rules ...Rule) Pipeline {
	return append(Pipeline(nil), rules...)
}

// Fields returns the distinct field names in rule order.
func (p Pipeline) Fields() []string {
	seen := make(map[string]bool, len(p))
	var fields []string
	for _, r := range p {
		if !seen[r.Field] {
			seen[r.Field] = true
			fields = append(fields, r.Field)
		}
	}
	return fields
}

// Run validates bound values rule by rule. Fields missing from bound are
// skipped. The first failure is returned.
func (p Pipeline) Run(bound map[string]units.Numeric) error {
	for _, r := range p {
		value, ok := bound[r.Field]
		if !ok {
			continue
		}
		if err := r.Validator.Validate(value, r.Field); err != nil {
			return err
		}
	}
	return nil
}

// Collect runs every rule and gathers all failures, for callers that mark
// several form fields at once. Calculations use Run.
func (p Pipeline) Collect(bound map[string]units.Numeric) Result {
	result := Result{Valid: true}
	for _, r := range p {
		value, ok := bound[r.Field]
		if !ok {
			continue
		}
		if err := r.Validator.Validate(value, r.Field); err != nil {
			result.add(asValidationError(err, r.Field, value))
		}
	}
	return result
}

// Guard returns fn wrapped so that the pipeline runs first. A failed
// validation never reaches fn.
func Guard[T any](p Pipeline, fn func(bound map[string]units.Numeric) (T, error)) func(map[string]units.Numeric) (T, error) {
	return func(bound map[string]units.Numeric) (T, error) {
		if err := p.Run(bound); err != nil {
			var zero T
			return zero, err
		}
		return fn(bound)
	}
}

func asValidationError(err error, field string, value units.Numeric) *ValidationError {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr
	}
	return NewValidationError(field, err.Error(), value).WithCode(mdwerror.GetCode(err))
}

// Result collects the failures of Pipeline.Collect.
type Result struct {
	Valid  bool
	Errors []*ValidationError
}

func (r *Result) add(err *ValidationError) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// FirstError returns the first validation error, or nil if validation passed
func (r Result) FirstError() *ValidationError {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[0]
}

// Fields returns the failing field names in order.
func (r Result) Fields() []string {
	fields := make([]string, len(r.Errors))
	for i, err := range r.Errors {
		fields[i] = err.Field
	}
	return fields
}

// ErrorMessages returns all error messages as a slice of strings
func (r Result) ErrorMessages() []string {
	messages := make([]string, len(r.Errors))
	for i, err := range r.Errors {
		messages[i] = err.Error()
	}
	return messages
}

// HasError checks if the result contains a specific error code
func (r Result) HasError(code mdwerror.Code) bool {
	for _, err := range r.Errors {
		if err.Code() == code {
			return true
		}
	}
	return false
}

// ToError returns nil for a valid result. A single failure is returned as
// is; several are folded into one error carrying every message.
func (r Result) ToError() error {
	if r.Valid {
		return nil
	}
	if len(r.Errors) == 1 {
		return r.Errors[0]
	}

	first := r.Errors[0]
	return mdwerror.Wrap(first, fmt.Sprintf("%d inputs failed validation", len(r.Errors))).
		WithDetail("fields", r.Fields()).
		WithDetail("totalErrors", len(r.Errors)).
		WithDetail("allMessages", r.ErrorMessages())
}

// String returns a human-readable representation of the validation result
func (r Result) String() string {
	if r.Valid {
		return "Result{valid: true}"
	}
	parts := []string{"Result{valid: false", fmt.Sprintf("errors: %d", len(r.Errors))}
	if first := r.FirstError(); first != nil {
		parts = append(parts, "first: "+first.Error())
	}
	return strings.Join(parts, ", ") + "}"
}
