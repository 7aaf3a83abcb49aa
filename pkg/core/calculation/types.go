package calculation

import (
	"encoding/json"
	"maps"
	"slices"
	"time"

	"github.com/msto63/engcalc/pkg/core/units"
)

// Parameter declares one input or output of a formula.
type Parameter struct {
	Name        string   `json:"name" yaml:"name"`
	Unit        string   `json:"unit" yaml:"unit"`
	Description string   `json:"description" yaml:"description"`
	Default     *float64 `json:"default,omitempty" yaml:"default,omitempty"`
}

// Param creates a parameter without a default.
func Param(name, unit, description string) Parameter {
	return Parameter{Name: name, Unit: unit, Description: description}
}

// WithDefault returns a copy of p with a default magnitude in p.Unit.
func (p Parameter) WithDefault(magnitude float64) Parameter {
	p.Default = &magnitude
	return p
}

// HasDefault reports whether p declares a default.
func (p Parameter) HasDefault() bool { return p.Default != nil }

// DefaultValue returns the default as a Numeric: a quantity in p.Unit, or a
// float for unit-less parameters. It is None without a default.
func (p Parameter) DefaultValue() (units.Numeric, error) {
	if p.Default == nil {
		return units.None(), nil
	}
	if p.Unit == "" {
		return units.Float(*p.Default), nil
	}
	q, err := units.NewQuantity(*p.Default, p.Unit)
	if err != nil {
		return units.None(), err
	}
	return units.Dimensioned(q), nil
}

// Descriptor is the static description of one formula variant.
type Descriptor struct {
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	References  []string    `json:"references,omitempty"`
	Inputs      []Parameter `json:"inputs"`
	Outputs     []Parameter `json:"outputs"`
}

// Key returns the registry key "category.name".
func (d Descriptor) Key() string {
	return Key(d.Category, d.Name)
}

// Key joins a category and a name into a registry key.
func Key(category, name string) string {
	return category + "." + name
}

// Input looks up an input parameter by name.
func (d Descriptor) Input(name string) (Parameter, bool) {
	for _, p := range d.Inputs {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// Clone returns a deep copy; callers may modify it freely.
func (d Descriptor) Clone() Descriptor {
	c := d
	c.References = slices.Clone(d.References)
	c.Inputs = cloneParams(d.Inputs)
	c.Outputs = cloneParams(d.Outputs)
	return c
}

func cloneParams(ps []Parameter) []Parameter {
	if ps == nil {
		return nil
	}
	out := make([]Parameter, len(ps))
	for i, p := range ps {
		if p.Default != nil {
			v := *p.Default
			p.Default = &v
		}
		out[i] = p
	}
	return out
}

// Step is one recorded line of a derivation.
type Step struct {
	Description  string        `json:"description"`
	Formula      string        `json:"formula"`
	Result       units.Numeric `json:"result"`
	Substitution string        `json:"substitution,omitempty"`
}

// Outputs maps output names to computed values.
type Outputs map[string]units.Numeric

// Metadata carries descriptive fields of a Result.
type Metadata struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	References  []string `json:"references,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

func (m Metadata) clone() Metadata {
	m.References = slices.Clone(m.References)
	m.Warnings = slices.Clone(m.Warnings)
	return m
}

// Result is the outcome of one successful evaluation. It is never modified
// after creation and every accessor returns a copy.
type Result struct {
	name      string
	inputs    map[string]units.Numeric
	outputs   map[string]units.Numeric
	steps     []Step
	timestamp time.Time
	metadata  Metadata
}

// Name returns the calculation name.
func (r *Result) Name() string { return r.name }

// Key returns the registry key of the producing variant.
func (r *Result) Key() string { return Key(r.metadata.Category, r.name) }

// Inputs returns a copy of the bound inputs.
func (r *Result) Inputs() Inputs { return maps.Clone(Inputs(r.inputs)) }

// Outputs returns a copy of the outputs.
func (r *Result) Outputs() Outputs { return maps.Clone(Outputs(r.outputs)) }

// Input returns one input value.
func (r *Result) Input(name string) (units.Numeric, bool) {
	v, ok := r.inputs[name]
	return v, ok
}

// Output returns one output value.
func (r *Result) Output(name string) (units.Numeric, bool) {
	v, ok := r.outputs[name]
	return v, ok
}

// Steps returns a copy of the derivation steps in recording order.
func (r *Result) Steps() []Step { return slices.Clone(r.steps) }

// Timestamp returns the UTC creation time.
func (r *Result) Timestamp() time.Time { return r.timestamp }

// Metadata returns a copy of the descriptive metadata.
func (r *Result) Metadata() Metadata { return r.metadata.clone() }

// Snapshot is the serialized form of a Result.
type Snapshot struct {
	Name      string                   `json:"calculation_name"`
	Timestamp time.Time                `json:"timestamp"`
	Inputs    map[string]units.Numeric `json:"inputs"`
	Outputs   map[string]units.Numeric `json:"outputs"`
	Steps     []Step                   `json:"steps"`
	Metadata  Metadata                 `json:"metadata"`
}

// Snapshot returns a copy of r in serializable form.
func (r *Result) Snapshot() Snapshot {
	return Snapshot{
		Name:      r.name,
		Timestamp: r.timestamp,
		Inputs:    maps.Clone(r.inputs),
		Outputs:   maps.Clone(r.outputs),
		Steps:     slices.Clone(r.steps),
		Metadata:  r.metadata.clone(),
	}
}

// FromSnapshot rebuilds a Result, e.g. after loading it from storage.
func FromSnapshot(s Snapshot) *Result {
	return &Result{
		name:      s.Name,
		inputs:    maps.Clone(s.Inputs),
		outputs:   maps.Clone(s.Outputs),
		steps:     slices.Clone(s.Steps),
		timestamp: s.Timestamp.UTC(),
		metadata:  s.Metadata.clone(),
	}
}

// MarshalJSON encodes the snapshot of r.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Snapshot())
}

// UnmarshalJSON decodes a snapshot into r.
func (r *Result) UnmarshalJSON(data []byte) error {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = *FromSnapshot(s)
	return nil
}
