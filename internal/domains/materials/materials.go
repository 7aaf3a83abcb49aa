// Package materials provides strength-of-materials calculations.
package materials

import (
	"fmt"
	"math"

	"github.com/msto63/engcalc/foundation/core/validation"
	"github.com/msto63/engcalc/pkg/core/calculation"
	"github.com/msto63/engcalc/pkg/core/units"
)

// Category is the registry category of this package.
const Category = "Materials"

// Register adds every materials variant to reg.
func Register(reg *calculation.Registry) error {
	for _, factory := range []func() calculation.Calculation{
		func() calculation.Calculation { return &NormalStress{} },
		func() calculation.Calculation { return &Strain{} },
		func() calculation.Calculation { return &HookesLaw{} },
	} {
		if _, err := reg.Register(calculation.NewVariant(factory)); err != nil {
			return err
		}
	}
	return nil
}

// NormalStress computes σ = F / A and the utilisation against a yield
// strength.
type NormalStress struct {
	calculation.Base
}

var normalStressRules = validation.NewPipeline(
	validation.On("force", validation.NewDimensionValidator("force")),
	validation.On("area", validation.NewDimensionValidator("area"), validation.PositiveValidator{}),
	validation.On("yield_strength", validation.NewDimensionValidator("stress"), validation.PositiveValidator{}),
)

func (c *NormalStress) Descriptor() calculation.Descriptor {
	return calculation.Descriptor{
		Name:        "NormalStress",
		Category:    Category,
		Description: "Axial normal stress in a prismatic member",
		References:  []string{"Gere & Goodno, Mechanics of Materials, ch. 1.2"},
		Inputs: []calculation.Parameter{
			calculation.Param("force", "kN", "Axial force, tension positive"),
			calculation.Param("area", "mm**2", "Cross-section area"),
			calculation.Param("yield_strength", "MPa", "Yield strength").WithDefault(235),
		},
		Outputs: []calculation.Parameter{
			calculation.Param("stress", "MPa", "Normal stress"),
			calculation.Param("utilisation", "", "|σ| / f_y"),
		},
	}
}

func (c *NormalStress) Calculate(in calculation.Inputs) (*calculation.Result, error) {
	c.Reset()
	d := c.Descriptor()
	bound, err := calculation.Prepare(d, in, normalStressRules)
	if err != nil {
		return nil, err
	}
	force, err := bound.Quantity("force")
	if err != nil {
		return nil, err
	}
	area, err := bound.Quantity("area")
	if err != nil {
		return nil, err
	}
	fy, err := bound.In("yield_strength", "MPa")
	if err != nil {
		return nil, err
	}

	raw, err := force.Div(area)
	if err != nil {
		return nil, err
	}
	stress, err := raw.To("MPa")
	if err != nil {
		return nil, err
	}
	c.AddStep("Normal stress", "σ = F / A", units.Dimensioned(stress),
		fmt.Sprintf("σ = %s / %s", force, area))

	utilisation := math.Abs(stress.Magnitude()) / fy
	c.AddStep("Utilisation", "η = |σ| / f_y", units.Float(utilisation),
		fmt.Sprintf("η = %.2f MPa / %.2f MPa", math.Abs(stress.Magnitude()), fy))
	if utilisation > 1 {
		c.Warn("stress exceeds the yield strength (η = %.2f)", utilisation)
	}

	return c.FormatResult(d, bound, calculation.Outputs{
		"stress":      units.Dimensioned(stress),
		"utilisation": units.Float(utilisation),
	}), nil
}

// Strain computes the engineering strain ε = ΔL / L0.
type Strain struct {
	calculation.Base
}

var strainRules = validation.NewPipeline(
	validation.On("elongation", validation.NewDimensionValidator("length")),
	validation.On("length", validation.NewDimensionValidator("length"), validation.PositiveValidator{}),
)

func (c *Strain) Descriptor() calculation.Descriptor {
	return calculation.Descriptor{
		Name:        "Strain",
		Category:    Category,
		Description: "Engineering strain from a change in length",
		References:  []string{"Gere & Goodno, Mechanics of Materials, ch. 1.2"},
		Inputs: []calculation.Parameter{
			calculation.Param("elongation", "mm", "Change in length"),
			calculation.Param("length", "m", "Original length"),
		},
		Outputs: []calculation.Parameter{
			calculation.Param("strain", "", "Engineering strain"),
		},
	}
}

func (c *Strain) Calculate(in calculation.Inputs) (*calculation.Result, error) {
	c.Reset()
	d := c.Descriptor()
	bound, err := calculation.Prepare(d, in, strainRules)
	if err != nil {
		return nil, err
	}
	dl, err := bound.In("elongation", "m")
	if err != nil {
		return nil, err
	}
	l0, err := bound.In("length", "m")
	if err != nil {
		return nil, err
	}

	strain := dl / l0
	c.AddStep("Engineering strain", "ε = ΔL / L0", units.Float(strain),
		fmt.Sprintf("ε = %g m / %g m", dl, l0))
	if math.Abs(strain) > 0.05 {
		c.Warn("strain %.3f is outside the small-strain range", strain)
	}

	return c.FormatResult(d, bound, calculation.Outputs{"strain": units.Float(strain)}), nil
}

// HookesLaw computes the uniaxial stress σ = E · ε of a linear elastic
// material.
type HookesLaw struct {
	calculation.Base
}

var hookesLawRules = validation.NewPipeline(
	validation.On("modulus", validation.NewDimensionValidator("pressure"), validation.PositiveValidator{}),
	validation.On("strain", validation.NewTypeValidator(units.KindFloat, units.KindInt)),
)

func (c *HookesLaw) Descriptor() calculation.Descriptor {
	return calculation.Descriptor{
		Name:        "HookesLaw",
		Category:    Category,
		Description: "Uniaxial stress of a linear elastic material",
		References:  []string{"Gere & Goodno, Mechanics of Materials, ch. 1.3"},
		Inputs: []calculation.Parameter{
			calculation.Param("modulus", "GPa", "Young's modulus").WithDefault(210),
			calculation.Param("strain", "", "Engineering strain"),
		},
		Outputs: []calculation.Parameter{
			calculation.Param("stress", "MPa", "Normal stress"),
		},
	}
}

func (c *HookesLaw) Calculate(in calculation.Inputs) (*calculation.Result, error) {
	c.Reset()
	d := c.Descriptor()
	bound, err := calculation.Prepare(d, in, hookesLawRules)
	if err != nil {
		return nil, err
	}
	modulus, err := bound.Quantity("modulus")
	if err != nil {
		return nil, err
	}
	strain, err := bound.Float("strain")
	if err != nil {
		return nil, err
	}

	scaled, err := modulus.Scale(strain)
	if err != nil {
		return nil, err
	}
	stress, err := scaled.To("MPa")
	if err != nil {
		return nil, err
	}
	c.AddStep("Hooke's law", "σ = E · ε", units.Dimensioned(stress),
		fmt.Sprintf("σ = %s · %g", modulus, strain))

	return c.FormatResult(d, bound, calculation.Outputs{"stress": units.Dimensioned(stress)}), nil
}
