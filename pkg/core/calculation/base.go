package calculation

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"time"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
	"github.com/msto63/engcalc/foundation/core/validation"
	"github.com/msto63/engcalc/pkg/core/units"
)

// Calculation is one formula variant. Implementations embed Base.
type Calculation interface {
	// Descriptor returns a freshly built description of the variant.
	Descriptor() Descriptor

	// Calculate validates inputs and evaluates the formula. On failure the
	// result is nil.
	Calculate(inputs Inputs) (*Result, error)
}

// Base holds the per-evaluation step log of a calculation instance.
type Base struct {
	steps    []Step
	warnings []string
}

// Reset clears the step log and warnings. Calculate calls it first.
func (b *Base) Reset() {
	b.steps = nil
	b.warnings = nil
}

// AddStep records one derivation line.
func (b *Base) AddStep(description, formula string, result units.Numeric, substitution string) {
	b.steps = append(b.steps, Step{
		Description:  description,
		Formula:      formula,
		Result:       result,
		Substitution: substitution,
	})
}

// Warn records a warning that ends up in the result metadata.
func (b *Base) Warn(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

// Steps returns a copy of the steps recorded so far.
func (b *Base) Steps() []Step { return slices.Clone(b.steps) }

// FormatResult snapshots inputs, outputs and a copy of the step log into a
// new Result.
func (b *Base) FormatResult(d Descriptor, inputs Inputs, outputs Outputs) *Result {
	return &Result{
		name:      d.Name,
		inputs:    maps.Clone(map[string]units.Numeric(inputs)),
		outputs:   maps.Clone(map[string]units.Numeric(outputs)),
		steps:     slices.Clone(b.steps),
		timestamp: time.Now().UTC(),
		metadata: Metadata{
			Category:    d.Category,
			Description: d.Description,
			References:  slices.Clone(d.References),
			Warnings:    slices.Clone(b.warnings),
		},
	}
}

// Inputs maps input names to values.
type Inputs map[string]units.Numeric

// Has reports whether name is bound to a value other than None.
func (in Inputs) Has(name string) bool {
	v, ok := in[name]
	return ok && !v.IsNone()
}

// Quantity returns a dimensioned input. A missing input is a REQUIRED_FIELD
// error, a raw number a MISSING_UNIT validation error.
func (in Inputs) Quantity(name string) (units.Quantity, error) {
	v, err := in.value(name)
	if err != nil {
		return units.Quantity{}, err
	}
	q, ok := v.Quantity()
	if !ok {
		return units.Quantity{}, validation.NewValidationError(name,
			"must be a quantity with units, got "+v.Kind().String(), v).
			WithCode(mdwerror.CodeMissingUnit)
	}
	return q, nil
}

// In returns the magnitude of a dimensioned input converted to unit.
func (in Inputs) In(name, unit string) (float64, error) {
	q, err := in.Quantity(name)
	if err != nil {
		return 0, err
	}
	converted, err := q.To(unit)
	if err != nil {
		return 0, mdwerror.Wrap(err, "input "+name).WithDetail("field", name)
	}
	return converted.Magnitude(), nil
}

// Float returns the magnitude of any bound input.
func (in Inputs) Float(name string) (float64, error) {
	v, err := in.value(name)
	if err != nil {
		return 0, err
	}
	return v.Magnitude(), nil
}

func (in Inputs) value(name string) (units.Numeric, error) {
	v, ok := in[name]
	if !ok || v.IsNone() {
		return units.None(), mdwerror.Newf("missing required input %q", name).
			WithCode(mdwerror.CodeRequiredField).
			WithDetail("field", name)
	}
	return v, nil
}

// Names returns the bound input names, sorted.
func (in Inputs) Names() []string {
	names := make([]string, 0, len(in))
	for name := range in {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bind copies inputs, applies declared defaults for absent parameters and
// rejects names the descriptor does not declare.
func Bind(d Descriptor, inputs Inputs) (Inputs, error) {
	var unknown []string
	for name := range inputs {
		if _, ok := d.Input(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, mdwerror.Newf("unknown input %s for %s", strings.Join(unknown, ", "), d.Key()).
			WithCode(mdwerror.CodeInvalidInput).
			WithDetail("inputs", unknown).
			WithOperation("calculation.Bind")
	}

	bound := make(Inputs, len(d.Inputs))
	for _, p := range d.Inputs {
		if v, ok := inputs[p.Name]; ok && !v.IsNone() {
			bound[p.Name] = v
			continue
		}
		if !p.HasDefault() {
			continue
		}
		v, err := p.DefaultValue()
		if err != nil {
			return nil, mdwerror.Wrap(err, "default of "+p.Name).WithOperation("calculation.Bind")
		}
		bound[p.Name] = v
	}
	return bound, nil
}

// Prepare binds inputs and runs the pipeline on the bound values.
func Prepare(d Descriptor, inputs Inputs, pipeline validation.Pipeline) (Inputs, error) {
	bound, err := Bind(d, inputs)
	if err != nil {
		return nil, err
	}
	if err := pipeline.Run(bound); err != nil {
		return nil, err
	}
	return bound, nil
}

// Precondition reports a cross-field or mode constraint that no single
// field validator can express.
func Precondition(format string, args ...any) error {
	return mdwerror.Newf(format, args...).WithCode(mdwerror.CodePrecondition)
}
