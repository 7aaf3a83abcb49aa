// Package calculation defines how an engineering formula is declared,
// evaluated and recorded.
//
// A formula variant describes itself with a Descriptor (name, category,
// input and output parameters) and implements Calculate. Every evaluation
// resets the step log of its embedded Base, validates its inputs, records
// each algebraic step with AddStep and ends with FormatResult, which
// snapshots inputs, outputs and steps into a new Result:
//
//	func (c *Stress) Calculate(in calculation.Inputs) (*calculation.Result, error) {
//		c.Reset()
//		bound, err := calculation.Prepare(c.Descriptor(), in, stressRules)
//		if err != nil {
//			return nil, err
//		}
//		force, _ := bound.Quantity("force")
//		area, _ := bound.Quantity("area")
//		stress, err := force.Div(area)
//		if err != nil {
//			return nil, err
//		}
//		c.AddStep("Normal stress", "σ = F / A", units.Dimensioned(stress), "")
//		return c.FormatResult(c.Descriptor(), bound, calculation.Outputs{"stress": units.Dimensioned(stress)}), nil
//	}
//
// A failed evaluation returns a nil Result; there are no partial results.
//
// Variants are registered on a Registry under "category.name" and created
// fresh per evaluation. Instances are not safe for concurrent Calculate
// calls; the Registry is.
package calculation
