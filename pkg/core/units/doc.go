// Package units provides dimension-aware quantities for engineering
// calculations.
//
// Dimensional algebra is delegated to gonum's unit package. On top of it
// this package keeps a vocabulary of named units (SI, US customary,
// temperature scales and structural shorthands such as ksi, kip and klf)
// and a parser for pint style unit expressions:
//
//	q, err := units.NewQuantity(50, "ksi")
//	psi, err := q.To("psi")          // 50000 psi
//	area, err := units.NewQuantity(144, "inch**2")
//	ft2, err := area.To("foot ** 2") // 1 ft²
//
// Addition and subtraction require equal dimensionality; multiplication and
// division compose units. Offset temperature scales (degC, degF) only take
// part in conversion, comparison and differences.
package units
