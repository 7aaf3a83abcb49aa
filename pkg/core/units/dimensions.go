package units

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/unit"
)

// Dimensionless is the dimensionality string of a pure number.
const Dimensionless = "dimensionless"

var dimensionNames = map[unit.Dimension]string{
	unit.CurrentDim:           "[current]",
	unit.LengthDim:            "[length]",
	unit.LuminousIntensityDim: "[luminosity]",
	unit.MassDim:              "[mass]",
	unit.MoleDim:              "[substance]",
	unit.TemperatureDim:       "[temperature]",
	unit.TimeDim:              "[time]",
}

// DimensionAliases maps human readable names to dimensionality strings.
var DimensionAliases = map[string]string{
	"length":           "[length]",
	"mass":             "[mass]",
	"time":             "[time]",
	"temperature":      "[temperature]",
	"current":          "[current]",
	"substance":        "[substance]",
	"luminosity":       "[luminosity]",
	"pressure":         "[mass] / [length] / [time] ** 2",
	"stress":           "[mass] / [length] / [time] ** 2",
	"force":            "[length] * [mass] / [time] ** 2",
	"area":             "[length] ** 2",
	"volume":           "[length] ** 3",
	"velocity":         "[length] / [time]",
	"acceleration":     "[length] / [time] ** 2",
	"density":          "[mass] / [length] ** 3",
	"energy":           "[length] ** 2 * [mass] / [time] ** 2",
	"power":            "[length] ** 2 * [mass] / [time] ** 3",
	"moment":           "[length] ** 2 * [mass] / [time] ** 2",
	"torque":           "[length] ** 2 * [mass] / [time] ** 2",
	"linear_load":      "[mass] / [time] ** 2",
	"second_moment":    "[length] ** 4",
	"viscosity":        "[mass] / [length] / [time]",
	"angular_velocity": "1 / [time]",
	"frequency":        "1 / [time]",
	"dimensionless":    Dimensionless,
}

// ResolveDimension returns the dimensionality string for an alias such as
// "pressure". Unknown names are returned unchanged.
func ResolveDimension(name string) string {
	if dim, ok := DimensionAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return dim
	}
	return name
}

// FormatDimensions renders engine dimensions in the bracketed form used
// throughout the package, e.g. "[length] * [mass] / [time] ** 2".
// Dimensions without a name (angle) are ignored.
func FormatDimensions(dims unit.Dimensions) string {
	type entry struct {
		name string
		exp  int
	}
	var entries []entry
	for d, exp := range dims {
		name, ok := dimensionNames[d]
		if !ok || exp == 0 {
			continue
		}
		entries = append(entries, entry{name, exp})
	}
	if len(entries) == 0 {
		return Dimensionless
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })

	names := make([]string, len(entries))
	exps := make([]int, len(entries))
	for i, e := range entries {
		names[i], exps[i] = e.name, e.exp
	}
	return joinTerms(names, exps, " * ", " / ", powerSuffix)
}

func powerSuffix(exp int) string {
	if exp == 1 {
		return ""
	}
	return fmt.Sprintf(" ** %d", exp)
}

// joinTerms renders positive exponents joined by mul, followed by every
// negative exponent after div. With no positive terms the result starts
// with "1".
func joinTerms(names []string, exps []int, mul, div string, power func(int) string) string {
	var num, den []string
	for i, name := range names {
		switch {
		case exps[i] > 0:
			num = append(num, name+power(exps[i]))
		case exps[i] < 0:
			den = append(den, name+power(-exps[i]))
		}
	}
	var b strings.Builder
	if len(num) == 0 {
		b.WriteString("1")
	} else {
		b.WriteString(strings.Join(num, mul))
	}
	for _, d := range den {
		b.WriteString(div)
		b.WriteString(d)
	}
	return b.String()
}

// cleanDims returns a copy of dims without zero exponents.
func cleanDims(dims unit.Dimensions) unit.Dimensions {
	out := make(unit.Dimensions, len(dims))
	for d, exp := range dims {
		if exp != 0 {
			out[d] = exp
		}
	}
	return out
}

func sameDims(a, b unit.Dimensions) bool {
	return unit.DimensionsMatch(unit.New(1, cleanDims(a)), unit.New(1, cleanDims(b)))
}

// NormalizeDimension lowercases a dimensionality string and removes all
// whitespace so that differently spaced forms compare equal.
func NormalizeDimension(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}
