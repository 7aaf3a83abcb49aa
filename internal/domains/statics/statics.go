// Package statics provides beam calculations for linear elastic members.
package statics

import (
	"fmt"

	"github.com/msto63/engcalc/foundation/core/validation"
	"github.com/msto63/engcalc/pkg/core/calculation"
	"github.com/msto63/engcalc/pkg/core/units"
)

// Category is the registry category of this package.
const Category = "Statics"

// DeflectionLimit is the span to deflection ratio above which a warning is
// recorded.
const DeflectionLimit = 250

// Register adds every statics variant to reg.
func Register(reg *calculation.Registry) error {
	for _, factory := range []func() calculation.Calculation{
		func() calculation.Calculation { return &SimpleBeam{} },
		func() calculation.Calculation { return &CantileverDeflection{} },
	} {
		if _, err := reg.Register(calculation.NewVariant(factory)); err != nil {
			return err
		}
	}
	return nil
}

// SimpleBeam computes the maximum moment and shear of a simply supported
// beam under a uniformly distributed load.
type SimpleBeam struct {
	calculation.Base
}

var simpleBeamRules = validation.NewPipeline(
	validation.On("load", validation.NewDimensionValidator("linear_load"), validation.NonNegativeValidator{}),
	validation.On("span", validation.NewDimensionValidator("length"), validation.PositiveValidator{}),
)

func (c *SimpleBeam) Descriptor() calculation.Descriptor {
	return calculation.Descriptor{
		Name:        "SimpleBeam",
		Category:    Category,
		Description: "Simply supported beam under uniform load",
		References:  []string{"AISC Steel Construction Manual, Table 3-23, case 1"},
		Inputs: []calculation.Parameter{
			calculation.Param("load", "kN/m", "Uniformly distributed load"),
			calculation.Param("span", "m", "Span between supports"),
		},
		Outputs: []calculation.Parameter{
			calculation.Param("moment", "kN*m", "Maximum moment at midspan"),
			calculation.Param("shear", "kN", "Maximum shear at the supports"),
		},
	}
}

func (c *SimpleBeam) Calculate(in calculation.Inputs) (*calculation.Result, error) {
	c.Reset()
	d := c.Descriptor()
	bound, err := calculation.Prepare(d, in, simpleBeamRules)
	if err != nil {
		return nil, err
	}
	w, err := bound.Quantity("load")
	if err != nil {
		return nil, err
	}
	span, err := bound.Quantity("span")
	if err != nil {
		return nil, err
	}

	wl, err := w.Mul(span)
	if err != nil {
		return nil, err
	}
	wl2, err := wl.Mul(span)
	if err != nil {
		return nil, err
	}
	m, err := wl2.Scale(1.0 / 8)
	if err != nil {
		return nil, err
	}
	moment, err := m.To("kN*m")
	if err != nil {
		return nil, err
	}
	c.AddStep("Midspan moment", "M = w · L² / 8", units.Dimensioned(moment),
		fmt.Sprintf("M = %s · (%s)² / 8", w, span))

	v, err := wl.Scale(0.5)
	if err != nil {
		return nil, err
	}
	shear, err := v.To("kN")
	if err != nil {
		return nil, err
	}
	c.AddStep("Support shear", "V = w · L / 2", units.Dimensioned(shear),
		fmt.Sprintf("V = %s · %s / 2", w, span))

	return c.FormatResult(d, bound, calculation.Outputs{
		"moment": units.Dimensioned(moment),
		"shear":  units.Dimensioned(shear),
	}), nil
}

// CantileverDeflection computes the tip deflection δ = P·L³ / (3·E·I) of a
// cantilever with a point load at the free end.
type CantileverDeflection struct {
	calculation.Base
}

var cantileverRules = validation.NewPipeline(
	validation.On("load", validation.NewDimensionValidator("force")),
	validation.On("length", validation.NewDimensionValidator("length"), validation.PositiveValidator{}),
	validation.On("modulus", validation.NewDimensionValidator("pressure"), validation.PositiveValidator{}),
	validation.On("inertia", validation.NewDimensionValidator("second_moment"), validation.PositiveValidator{}),
)

func (c *CantileverDeflection) Descriptor() calculation.Descriptor {
	return calculation.Descriptor{
		Name:        "CantileverDeflection",
		Category:    Category,
		Description: "Tip deflection of a cantilever with an end point load",
		References:  []string{"AISC Steel Construction Manual, Table 3-23, case 22"},
		Inputs: []calculation.Parameter{
			calculation.Param("load", "kN", "Point load at the free end"),
			calculation.Param("length", "m", "Cantilever length"),
			calculation.Param("modulus", "GPa", "Young's modulus").WithDefault(210),
			calculation.Param("inertia", "cm**4", "Second moment of area"),
		},
		Outputs: []calculation.Parameter{
			calculation.Param("deflection", "mm", "Tip deflection"),
			calculation.Param("ratio", "", "Length over deflection"),
		},
	}
}

func (c *CantileverDeflection) Calculate(in calculation.Inputs) (*calculation.Result, error) {
	c.Reset()
	d := c.Descriptor()
	bound, err := calculation.Prepare(d, in, cantileverRules)
	if err != nil {
		return nil, err
	}
	p, err := bound.In("load", "N")
	if err != nil {
		return nil, err
	}
	l, err := bound.In("length", "m")
	if err != nil {
		return nil, err
	}
	e, err := bound.In("modulus", "Pa")
	if err != nil {
		return nil, err
	}
	i, err := bound.In("inertia", "m**4")
	if err != nil {
		return nil, err
	}

	ei := e * i
	stiffness, err := units.NewQuantity(ei, "N*m**2")
	if err != nil {
		return nil, err
	}
	c.AddStep("Flexural stiffness", "EI = E · I", units.Dimensioned(stiffness),
		fmt.Sprintf("EI = %g Pa · %g m⁴", e, i))

	delta, err := units.NewQuantity(p*l*l*l/(3*ei), "m")
	if err != nil {
		return nil, err
	}
	deflection, err := delta.To("mm")
	if err != nil {
		return nil, err
	}
	c.AddStep("Tip deflection", "δ = P · L³ / (3 · EI)", units.Dimensioned(deflection),
		fmt.Sprintf("δ = %g N · (%g m)³ / (3 · %g N·m²)", p, l, ei))

	outputs := calculation.Outputs{"deflection": units.Dimensioned(deflection)}
	if delta.Magnitude() != 0 {
		ratio := l / delta.Magnitude()
		if ratio < 0 {
			ratio = -ratio
		}
		c.AddStep("Deflection ratio", "L / δ", units.Float(ratio), "")
		if ratio < DeflectionLimit {
			c.Warn("deflection L/%.0f exceeds the L/%d limit", ratio, DeflectionLimit)
		}
		outputs["ratio"] = units.Float(ratio)
	} else {
		outputs["ratio"] = units.None()
	}

	return c.FormatResult(d, bound, outputs), nil
}
