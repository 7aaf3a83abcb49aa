package units

// Convert converts a value between two unit expressions in the default
// registry, e.g. Convert(1, "ksi", "psi") is 1000.
func Convert(value float64, from, to string) (float64, error) {
	return Default().Convert(value, from, to)
}

// IsCompatible reports whether two unit expressions share a dimensionality.
func IsCompatible(unit1, unit2 string) bool {
	return Default().IsCompatible(unit1, unit2)
}

// BaseUnits returns the SI base unit string of a unit expression.
func BaseUnits(unitExpr string) (string, error) {
	return Default().BaseUnits(unitExpr)
}

// CompatibleUnits lists common units compatible with unitExpr.
func CompatibleUnits(unitExpr string) []string {
	return Default().CompatibleUnits(unitExpr)
}

// Dimensionality returns the dimensionality string of a unit expression.
func Dimensionality(unitExpr string) (string, error) {
	return Default().Dimensionality(unitExpr)
}
