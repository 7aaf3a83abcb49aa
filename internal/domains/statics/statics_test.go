package statics

import (
	"math"
	"testing"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
	"github.com/msto63/engcalc/pkg/core/calculation"
	"github.com/msto63/engcalc/pkg/core/units"
)

func qty(t *testing.T, magnitude float64, unit string) units.Numeric {
	t.Helper()
	q, err := units.NewQuantity(magnitude, unit)
	if err != nil {
		t.Fatalf("NewQuantity(%v, %q) error = %v", magnitude, unit, err)
	}
	return units.Dimensioned(q)
}

func in(t *testing.T, r *calculation.Result, name, unit string) float64 {
	t.Helper()
	v, _ := r.Output(name)
	q, ok := v.Quantity()
	if !ok {
		t.Fatalf("output %q = %v is not a quantity", name, v)
	}
	converted, err := q.To(unit)
	if err != nil {
		t.Fatalf("%s.To(%q) error = %v", name, unit, err)
	}
	return converted.Magnitude()
}

func TestSimpleBeam(t *testing.T) {
	tests := []struct {
		name   string
		load   units.Numeric
		span   units.Numeric
		moment float64 // kN*m
		shear  float64 // kN
	}{
		{"metric", qty(t, 10, "kN/m"), qty(t, 6, "m"), 45, 30},
		{"span in millimeters", qty(t, 10, "kN/m"), qty(t, 6000, "mm"), 45, 30},
		{"unloaded", qty(t, 0, "kN/m"), qty(t, 4, "m"), 0, 0},
		{"imperial", qty(t, 1, "klf"), qty(t, 20, "ft"), 50 * 1.3558179483314, 10 * 4.4482216152605},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := (&SimpleBeam{}).Calculate(calculation.Inputs{"load": tt.load, "span": tt.span})
			if err != nil {
				t.Fatalf("Calculate() error = %v", err)
			}
			if got := in(t, r, "moment", "kN*m"); math.Abs(got-tt.moment) > 1e-6 {
				t.Errorf("moment = %v kN*m, want %v", got, tt.moment)
			}
			if got := in(t, r, "shear", "kN"); math.Abs(got-tt.shear) > 1e-6 {
				t.Errorf("shear = %v kN, want %v", got, tt.shear)
			}
			steps := r.Steps()
			if len(steps) != 2 || steps[0].Formula != "M = w · L² / 8" {
				t.Errorf("Steps() = %+v", steps)
			}
		})
	}
}

func TestSimpleBeamRejectsBadInputs(t *testing.T) {
	tests := []struct {
		name   string
		inputs calculation.Inputs
		code   mdwerror.Code
	}{
		{"point load", calculation.Inputs{"load": qty(t, 10, "kN"), "span": qty(t, 6, "m")}, mdwerror.CodeDimensionality},
		{"negative load", calculation.Inputs{"load": qty(t, -1, "kN/m"), "span": qty(t, 6, "m")}, mdwerror.CodeValidationFailed},
		{"zero span", calculation.Inputs{"load": qty(t, 1, "kN/m"), "span": qty(t, 0, "m")}, mdwerror.CodeValidationFailed},
		{"missing span", calculation.Inputs{"load": qty(t, 1, "kN/m")}, mdwerror.CodeRequiredField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := (&SimpleBeam{}).Calculate(tt.inputs); !mdwerror.HasCode(err, tt.code) {
				t.Errorf("Calculate() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestCantileverDeflection(t *testing.T) {
	// EI = 210 GPa · 5000 cm⁴ = 1.05e7 N·m²
	r, err := (&CantileverDeflection{}).Calculate(calculation.Inputs{
		"load":    qty(t, 10, "kN"),
		"length":  qty(t, 2, "m"),
		"inertia": qty(t, 5000, "cm**4"),
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	want := 10e3 * 8 / (3 * 1.05e7) * 1000
	if got := in(t, r, "deflection", "mm"); math.Abs(got-want) > 1e-9 {
		t.Errorf("deflection = %v mm, want %v", got, want)
	}
	ratio, _ := r.Output("ratio")
	if math.Abs(ratio.Magnitude()-2000/want) > 1e-6 {
		t.Errorf("ratio = %v, want %v", ratio, 2000/want)
	}
	if len(r.Metadata().Warnings) != 0 {
		t.Errorf("unexpected warnings %v", r.Metadata().Warnings)
	}
	if len(r.Steps()) != 3 {
		t.Errorf("len(Steps()) = %d, want 3", len(r.Steps()))
	}
}

func TestCantileverDeflectionLimit(t *testing.T) {
	r, err := (&CantileverDeflection{}).Calculate(calculation.Inputs{
		"load":    qty(t, 10, "kN"),
		"length":  qty(t, 2, "m"),
		"inertia": qty(t, 500, "cm**4"),
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if len(r.Metadata().Warnings) != 1 {
		t.Errorf("warnings = %v, want one deflection warning", r.Metadata().Warnings)
	}
}

func TestCantileverWithoutLoad(t *testing.T) {
	r, err := (&CantileverDeflection{}).Calculate(calculation.Inputs{
		"load":    qty(t, 0, "kN"),
		"length":  qty(t, 2, "m"),
		"inertia": qty(t, 500, "cm**4"),
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if ratio, _ := r.Output("ratio"); !ratio.IsNone() {
		t.Errorf("ratio = %v, want none", ratio)
	}
}

func TestCantileverRejectsArea(t *testing.T) {
	_, err := (&CantileverDeflection{}).Calculate(calculation.Inputs{
		"load":    qty(t, 10, "kN"),
		"length":  qty(t, 2, "m"),
		"inertia": qty(t, 50, "cm**2"),
	})
	if !mdwerror.HasCode(err, mdwerror.CodeDimensionality) {
		t.Errorf("Calculate() error = %v, want DIMENSIONALITY", err)
	}
}
