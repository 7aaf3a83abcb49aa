// Package fluids provides incompressible pipe-flow calculations.
package fluids

import (
	"fmt"

	"github.com/msto63/engcalc/foundation/core/validation"
	"github.com/msto63/engcalc/pkg/core/calculation"
	"github.com/msto63/engcalc/pkg/core/units"
)

// Category is the registry category of this package.
const Category = "Fluids"

// StandardGravity in m/s².
const StandardGravity = 9.80665

// Flow regime limits of the Reynolds number in a circular pipe.
const (
	LaminarLimit   = 2300
	TurbulentLimit = 4000
)

// Register adds every fluids variant to reg.
func Register(reg *calculation.Registry) error {
	for _, factory := range []func() calculation.Calculation{
		func() calculation.Calculation { return &Reynolds{} },
		func() calculation.Calculation { return &Bernoulli{} },
	} {
		if _, err := reg.Register(calculation.NewVariant(factory)); err != nil {
			return err
		}
	}
	return nil
}

// Regime classifies a Reynolds number.
func Regime(re float64) string {
	switch {
	case re < LaminarLimit:
		return "laminar"
	case re < TurbulentLimit:
		return "transitional"
	default:
		return "turbulent"
	}
}

// Reynolds computes Re = ρ·v·D / μ for flow in a circular pipe.
type Reynolds struct {
	calculation.Base
}

var reynoldsRules = validation.NewPipeline(
	validation.On("density", validation.NewDimensionValidator("density"), validation.PositiveValidator{}),
	validation.On("velocity", validation.NewDimensionValidator("velocity")),
	validation.On("diameter", validation.NewDimensionValidator("length"), validation.PositiveValidator{}),
	validation.On("viscosity", validation.NewDimensionValidator("viscosity"), validation.PositiveValidator{}),
)

func (c *Reynolds) Descriptor() calculation.Descriptor {
	return calculation.Descriptor{
		Name:        "Reynolds",
		Category:    Category,
		Description: "Reynolds number of pipe flow",
		References:  []string{"White, Fluid Mechanics, ch. 6.1"},
		Inputs: []calculation.Parameter{
			calculation.Param("density", "kg/m**3", "Fluid density").WithDefault(998.2),
			calculation.Param("velocity", "m/s", "Mean flow velocity"),
			calculation.Param("diameter", "mm", "Inner pipe diameter"),
			calculation.Param("viscosity", "Pa*s", "Dynamic viscosity").WithDefault(1.002e-3),
		},
		Outputs: []calculation.Parameter{
			calculation.Param("reynolds", "", "Reynolds number"),
		},
	}
}

func (c *Reynolds) Calculate(in calculation.Inputs) (*calculation.Result, error) {
	c.Reset()
	d := c.Descriptor()
	bound, err := calculation.Prepare(d, in, reynoldsRules)
	if err != nil {
		return nil, err
	}
	rho, err := bound.Quantity("density")
	if err != nil {
		return nil, err
	}
	v, err := bound.Quantity("velocity")
	if err != nil {
		return nil, err
	}
	dia, err := bound.Quantity("diameter")
	if err != nil {
		return nil, err
	}
	mu, err := bound.Quantity("viscosity")
	if err != nil {
		return nil, err
	}

	re, err := product(rho, v, dia)
	if err != nil {
		return nil, err
	}
	if re, err = re.Div(mu); err != nil {
		return nil, err
	}
	base := re.ToBaseUnits()
	if !base.IsDimensionless() {
		return nil, calculation.Precondition("Reynolds number is not dimensionless: %s", base.Dimensionality())
	}
	value := base.Magnitude()
	if value < 0 {
		value = -value
	}
	c.AddStep("Reynolds number", "Re = ρ · v · D / μ", units.Float(value),
		fmt.Sprintf("Re = %s · %s · %s / %s", rho, v, dia, mu))
	if Regime(value) == "transitional" {
		c.Warn("flow is transitional (Re = %.0f); friction factors are uncertain", value)
	}

	return c.FormatResult(d, bound, calculation.Outputs{"reynolds": units.Float(value)}), nil
}

// Bernoulli computes the downstream pressure along a streamline:
// p2 = p1 + ρ/2 · (v1² − v2²) + ρ·g · (z1 − z2).
type Bernoulli struct {
	calculation.Base
}

var bernoulliRules = validation.NewPipeline(
	validation.On("pressure1", validation.NewDimensionValidator("pressure")),
	validation.On("velocity1", validation.NewDimensionValidator("velocity")),
	validation.On("velocity2", validation.NewDimensionValidator("velocity")),
	validation.On("height1", validation.NewDimensionValidator("length")),
	validation.On("height2", validation.NewDimensionValidator("length")),
	validation.On("density", validation.NewDimensionValidator("density"), validation.PositiveValidator{}),
)

func (c *Bernoulli) Descriptor() calculation.Descriptor {
	return calculation.Descriptor{
		Name:        "Bernoulli",
		Category:    Category,
		Description: "Downstream pressure of steady incompressible flow",
		References:  []string{"White, Fluid Mechanics, ch. 3.5"},
		Inputs: []calculation.Parameter{
			calculation.Param("pressure1", "kPa", "Upstream static pressure"),
			calculation.Param("velocity1", "m/s", "Upstream velocity"),
			calculation.Param("velocity2", "m/s", "Downstream velocity"),
			calculation.Param("height1", "m", "Upstream elevation").WithDefault(0),
			calculation.Param("height2", "m", "Downstream elevation").WithDefault(0),
			calculation.Param("density", "kg/m**3", "Fluid density").WithDefault(998.2),
		},
		Outputs: []calculation.Parameter{
			calculation.Param("pressure2", "kPa", "Downstream static pressure"),
		},
	}
}

func (c *Bernoulli) Calculate(in calculation.Inputs) (*calculation.Result, error) {
	c.Reset()
	d := c.Descriptor()
	bound, err := calculation.Prepare(d, in, bernoulliRules)
	if err != nil {
		return nil, err
	}
	var si [6]float64
	for i, p := range []struct{ name, unit string }{
		{"pressure1", "Pa"},
		{"velocity1", "m/s"},
		{"velocity2", "m/s"},
		{"height1", "m"},
		{"height2", "m"},
		{"density", "kg/m**3"},
	} {
		if si[i], err = bound.In(p.name, p.unit); err != nil {
			return nil, err
		}
	}
	p1, v1, v2, z1, z2, rho := si[0], si[1], si[2], si[3], si[4], si[5]

	dynamic := rho / 2 * (v1*v1 - v2*v2)
	c.AddStep("Change in dynamic pressure", "Δp_v = ρ/2 · (v1² − v2²)", pascal(dynamic),
		fmt.Sprintf("Δp_v = %g kg/m³ / 2 · (%g² − %g²) m²/s²", rho, v1, v2))

	static := rho * StandardGravity * (z1 - z2)
	c.AddStep("Change in hydrostatic pressure", "Δp_z = ρ · g · (z1 − z2)", pascal(static),
		fmt.Sprintf("Δp_z = %g kg/m³ · %g m/s² · (%g − %g) m", rho, StandardGravity, z1, z2))

	p2Pa := p1 + dynamic + static
	p2, err := units.NewQuantity(p2Pa, "Pa")
	if err != nil {
		return nil, err
	}
	if p2, err = p2.To("kPa"); err != nil {
		return nil, err
	}
	c.AddStep("Downstream pressure", "p2 = p1 + Δp_v + Δp_z", units.Dimensioned(p2), "")
	if p2Pa < 0 {
		c.Warn("downstream pressure is negative; the flow would cavitate")
	}

	return c.FormatResult(d, bound, calculation.Outputs{"pressure2": units.Dimensioned(p2)}), nil
}

func product(qs ...units.Quantity) (units.Quantity, error) {
	out := qs[0]
	for _, q := range qs[1:] {
		var err error
		if out, err = out.Mul(q); err != nil {
			return units.Quantity{}, err
		}
	}
	return out, nil
}

func pascal(v float64) units.Numeric {
	return units.Dimensioned(units.MustQuantity(v, "Pa"))
}
