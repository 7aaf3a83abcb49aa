package units

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/unit"
)

// definition is one named entry of the unit vocabulary. scale is the SI
// value of one unit; offset shifts the zero point (temperature scales) so
// that si = value*scale + offset.
type definition struct {
	name    string
	symbol  string
	aliases []string
	scale   float64
	offset  float64
	dims    unit.Dimensions

	// delta names the companion difference unit of an offset unit
	delta string
}

func (d *definition) sameMeaning(o *definition) bool {
	return closeTo(d.scale, o.scale) && closeTo(d.offset, o.offset) && sameDims(d.dims, o.dims)
}

type prefix struct {
	name   string
	symbol string
	value  float64
}

var prefixes = []prefix{
	{"tera", "T", unit.Tera},
	{"giga", "G", unit.Giga},
	{"mega", "M", unit.Mega},
	{"kilo", "k", unit.Kilo},
	{"hecto", "h", 1e2},
	{"deca", "da", 1e1},
	{"deci", "d", 1e-1},
	{"centi", "c", unit.Centi},
	{"milli", "m", unit.Milli},
	{"micro", "µ", unit.Micro},
	{"nano", "n", unit.Nano},
	{"pico", "p", unit.Pico},
}

// prefixSymbols lists the accepted spellings of prefix symbols, longest
// first so that "da" wins over "d".
var prefixSymbols = func() map[string]prefix {
	m := make(map[string]prefix, len(prefixes)+2)
	for _, p := range prefixes {
		m[p.symbol] = p
	}
	m["u"] = m["µ"]
	m["μ"] = m["µ"]
	return m
}()

// factor is one unit raised to an integer power inside a Unit.
type factor struct {
	def    *definition
	prefix prefix
	exp    int
}

func (f factor) name() string {
	return f.prefix.name + f.def.name
}

func (f factor) symbol() string {
	sym := f.def.symbol
	if sym == "" {
		sym = f.def.name
	}
	return f.prefix.symbol + sym
}

func (f factor) scale() float64 {
	s := f.def.scale
	if f.prefix.name != "" {
		s *= f.prefix.value
	}
	return s
}

// Unit is a parsed unit expression: a product of named units with integer
// exponents, kept sorted by name. The zero Unit is dimensionless.
type Unit struct {
	factors []factor
}

func newUnit(terms map[string]factor) Unit {
	factors := make([]factor, 0, len(terms))
	for _, f := range terms {
		if f.exp != 0 {
			factors = append(factors, f)
		}
	}
	sort.Slice(factors, func(i, j int) bool { return factors[i].name() < factors[j].name() })
	return Unit{factors: factors}
}

func (u Unit) terms() map[string]factor {
	m := make(map[string]factor, len(u.factors))
	for _, f := range u.factors {
		m[f.name()] = f
	}
	return m
}

// String returns the canonical unit string, e.g. "kilogram / meter ** 3".
func (u Unit) String() string {
	return u.Format("")
}

// Format renders the unit. Styles follow the pint conventions: "" for
// names, "~" for symbols, "P" for pretty names and "~P" for pretty symbols.
func (u Unit) Format(style string) string {
	short := strings.Contains(style, "~")
	pretty := strings.Contains(style, "P")

	if len(u.factors) == 0 {
		if short {
			return ""
		}
		return Dimensionless
	}

	names := make([]string, len(u.factors))
	exps := make([]int, len(u.factors))
	for i, f := range u.factors {
		if short {
			names[i] = f.symbol()
		} else {
			names[i] = f.name()
		}
		exps[i] = f.exp
	}
	if pretty {
		return joinTerms(names, exps, "·", "/", superscript)
	}
	return joinTerms(names, exps, " * ", " / ", powerSuffix)
}

// IsDimensionless reports whether the unit has no physical dimension.
// Angles count as dimensionless.
func (u Unit) IsDimensionless() bool {
	return len(cleanDims(u.Dimensions())) == 0
}

// Dimensions computes the engine dimensions of the unit.
func (u Unit) Dimensions() unit.Dimensions {
	acc := unit.New(1, unit.Dimensions{})
	for _, f := range u.factors {
		d := unit.New(1, cleanDims(f.def.dims))
		n := f.exp
		if n < 0 {
			n = -n
		}
		for i := 0; i < n; i++ {
			if f.exp > 0 {
				acc.Mul(d)
			} else {
				acc.Div(d)
			}
		}
	}
	return cleanDims(acc.Dimensions())
}

// Dimensionality returns the bracketed dimensionality string.
func (u Unit) Dimensionality() string {
	return FormatDimensions(u.Dimensions())
}

// scale returns the SI value of one unit, offsets excluded.
func (u Unit) scale() float64 {
	s := 1.0
	for _, f := range u.factors {
		s *= math.Pow(f.scale(), float64(f.exp))
	}
	return s
}

// offsetDef returns the definition of an offset unit when the unit is a
// single offset unit to the first power.
func (u Unit) offsetDef() (*definition, bool) {
	if len(u.factors) == 1 && u.factors[0].exp == 1 && u.factors[0].def.offset != 0 {
		return u.factors[0].def, true
	}
	return nil, false
}

func (u Unit) isOffset() bool {
	_, ok := u.offsetDef()
	return ok
}

// hasOffsetFactor reports whether any factor is an offset unit.
func (u Unit) hasOffsetFactor() bool {
	for _, f := range u.factors {
		if f.def.offset != 0 {
			return true
		}
	}
	return false
}

func (u Unit) toSI(v float64) float64 {
	if def, ok := u.offsetDef(); ok {
		return v*def.scale + def.offset
	}
	return v * u.scale()
}

func (u Unit) fromSI(si float64) float64 {
	if def, ok := u.offsetDef(); ok {
		return (si - def.offset) / def.scale
	}
	return si / u.scale()
}

// mul returns u * o^sign.
func (u Unit) mul(o Unit, sign int) Unit {
	terms := u.terms()
	for _, f := range o.factors {
		key := f.name()
		if cur, ok := terms[key]; ok {
			cur.exp += sign * f.exp
			terms[key] = cur
			continue
		}
		f.exp *= sign
		terms[key] = f
	}
	return newUnit(terms)
}

// pow raises the unit to p. Every resulting exponent must be an integer.
func (u Unit) pow(p float64) (Unit, bool) {
	terms := make(map[string]factor, len(u.factors))
	for _, f := range u.factors {
		e := float64(f.exp) * p
		r := math.Round(e)
		if math.Abs(e-r) > 1e-9 {
			return Unit{}, false
		}
		f.exp = int(r)
		terms[f.name()] = f
	}
	return newUnit(terms), true
}

var superscriptDigits = []rune("⁰¹²³⁴⁵⁶⁷⁸⁹")

func superscript(exp int) string {
	if exp == 1 {
		return ""
	}
	var b strings.Builder
	if exp < 0 {
		b.WriteRune('⁻')
		exp = -exp
	}
	for _, d := range strconv.Itoa(exp) {
		b.WriteRune(superscriptDigits[d-'0'])
	}
	return b.String()
}

func closeTo(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= 1e-12*math.Max(math.Abs(a), math.Abs(b))
}
