package units

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/unit"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
)

// DefaultPrecision is the number of decimals used by String.
const DefaultPrecision = 4

// Quantity is a magnitude with a unit. Quantities are values: every
// conversion and arithmetic operation returns a new Quantity.
//
// Equal and Key compare magnitude and unit string literally, so 1 m and
// 100 cm are not equal. Use Compare for a physical comparison.
type Quantity struct {
	magnitude float64
	unit      Unit
	precision int
	reg       *Registry
}

// NewQuantity creates a quantity in the default registry. An empty unit
// string fails with MissingUnitError; use "dimensionless" for pure numbers.
func NewQuantity(magnitude float64, unitExpr string, precision ...int) (Quantity, error) {
	return Default().Quantity(magnitude, unitExpr, precision...)
}

// MustQuantity is like NewQuantity but panics on error. Intended for
// constants and tests.
func MustQuantity(magnitude float64, unitExpr string, precision ...int) Quantity {
	q, err := NewQuantity(magnitude, unitExpr, precision...)
	if err != nil {
		panic(err)
	}
	return q
}

// FromEngine creates a quantity in SI base units from an engine value.
func FromEngine(u unit.Uniter, precision ...int) Quantity {
	return Default().FromEngine(u, precision...)
}

// FromEngine creates a quantity in SI base units from an engine value.
// Angle dimensions are dropped, since angles are dimensionless here.
func (r *Registry) FromEngine(u unit.Uniter, precision ...int) Quantity {
	e := u.Unit()
	prec := DefaultPrecision
	if len(precision) > 0 && precision[0] >= 0 {
		prec = precision[0]
	}
	return Quantity{magnitude: e.Value(), unit: r.baseUnit(e.Dimensions()), precision: prec, reg: r}
}

func negativePrecision(p int) error {
	return mdwerror.Newf("precision must be non-negative, got %d", p).WithCode(mdwerror.CodeInvalidInput)
}

func (q Quantity) registry() *Registry {
	if q.reg == nil {
		return Default()
	}
	return q.reg
}

func (q Quantity) derive(magnitude float64, u Unit) Quantity {
	return Quantity{magnitude: magnitude, unit: u, precision: q.precision, reg: q.reg}
}

// Magnitude returns the numeric value in the quantity's own unit.
func (q Quantity) Magnitude() float64 { return q.magnitude }

// Unit returns the parsed unit.
func (q Quantity) Unit() Unit { return q.unit }

// Units returns the canonical unit string, e.g. "kilogram / meter ** 3".
func (q Quantity) Units() string { return q.unit.String() }

// Dimensionality returns the bracketed dimensionality string.
func (q Quantity) Dimensionality() string { return q.unit.Dimensionality() }

// Dimensions returns the engine dimensions.
func (q Quantity) Dimensions() unit.Dimensions { return q.unit.Dimensions() }

// IsDimensionless reports whether the quantity is a pure number.
func (q Quantity) IsDimensionless() bool { return q.unit.IsDimensionless() }

// Precision returns the number of decimals used for display.
func (q Quantity) Precision() int { return q.precision }

// WithPrecision returns a copy with a different display precision.
func (q Quantity) WithPrecision(precision int) (Quantity, error) {
	if precision < 0 {
		return Quantity{}, negativePrecision(precision)
	}
	q.precision = precision
	return q, nil
}

// Engine returns the engine representation: the SI value with its
// dimensions. Offset units are converted to absolute kelvin.
func (q Quantity) Engine() *unit.Unit {
	return unit.New(q.unit.toSI(q.magnitude), q.unit.Dimensions())
}

// To converts to the target unit expression. A numeric factor in the
// target divides the magnitude: 5000 psi to "1000 * psi" is 5.
func (q Quantity) To(target string) (Quantity, error) {
	p, err := q.registry().parse(target)
	if err != nil {
		return Quantity{}, err
	}
	converted, err := q.ToUnit(p.unit)
	if err != nil {
		var de *DimensionalityError
		if errors.As(err, &de) {
			de.To = target
		}
		return Quantity{}, err
	}
	converted.magnitude /= p.factor
	return converted, nil
}

// ToUnit converts to a parsed unit.
func (q Quantity) ToUnit(target Unit) (Quantity, error) {
	if !sameDims(q.unit.Dimensions(), target.Dimensions()) {
		return Quantity{}, &DimensionalityError{
			From:    q.unit.String(),
			To:      target.String(),
			FromDim: q.unit.Dimensionality(),
			ToDim:   target.Dimensionality(),
		}
	}
	if target.hasOffsetFactor() && !target.isOffset() || q.unit.hasOffsetFactor() && !q.unit.isOffset() {
		return Quantity{}, &OffsetUnitError{Unit: target.String(), Op: "convert"}
	}
	return q.derive(target.fromSI(q.unit.toSI(q.magnitude)), target), nil
}

// ToBaseUnits converts to the SI base units of the quantity's dimension.
func (q Quantity) ToBaseUnits() Quantity {
	base := q.registry().baseUnit(q.unit.Dimensions())
	return q.derive(q.unit.toSI(q.magnitude), base)
}

// IsCompatibleWith reports whether other has the same dimensionality.
func (q Quantity) IsCompatibleWith(other Quantity) bool {
	return sameDims(q.unit.Dimensions(), other.unit.Dimensions())
}

// IsCompatibleWithUnit reports whether the unit expression has the same
// dimensionality. Unknown units are not compatible.
func (q Quantity) IsCompatibleWithUnit(unitExpr string) bool {
	p, err := q.registry().parse(unitExpr)
	if err != nil {
		return false
	}
	return sameDims(q.unit.Dimensions(), p.unit.Dimensions())
}

// Add returns q + other in the unit of q. Adding to an offset unit such as
// degC accepts only its difference unit (delta_degC).
func (q Quantity) Add(other Quantity) (Quantity, error) {
	return q.addSub(other, 1, "add")
}

// Sub returns q - other in the unit of q. The difference of two offset
// quantities is expressed in the difference unit.
func (q Quantity) Sub(other Quantity) (Quantity, error) {
	return q.addSub(other, -1, "subtract")
}

func (q Quantity) addSub(other Quantity, sign float64, op string) (Quantity, error) {
	a := unit.New(1, q.unit.Dimensions())
	b := unit.New(1, other.unit.Dimensions())
	if !unit.DimensionsMatch(a, b) {
		return Quantity{}, &DimensionalityError{
			From:    other.unit.String(),
			To:      q.unit.String(),
			FromDim: other.unit.Dimensionality(),
			ToDim:   q.unit.Dimensionality(),
			Extra:   "cannot " + op + " quantities of different dimensionality",
		}
	}

	if def, ok := q.unit.offsetDef(); ok {
		delta := q.registry().deltaUnit(def)
		switch {
		case other.unit.isOffset() && sign < 0:
			o, err := other.ToUnit(q.unit)
			if err != nil {
				return Quantity{}, err
			}
			return q.derive(q.magnitude-o.magnitude, delta), nil
		case !other.unit.hasOffsetFactor():
			o, err := other.ToUnit(delta)
			if err != nil {
				return Quantity{}, err
			}
			return q.derive(q.magnitude+sign*o.magnitude, q.unit), nil
		}
		return Quantity{}, &OffsetUnitError{Unit: q.unit.String(), Op: op}
	}
	if q.unit.hasOffsetFactor() || other.unit.hasOffsetFactor() {
		return Quantity{}, &OffsetUnitError{Unit: other.unit.String(), Op: op}
	}

	o, err := other.ToUnit(q.unit)
	if err != nil {
		return Quantity{}, err
	}
	return q.derive(q.magnitude+sign*o.magnitude, q.unit), nil
}

// Mul returns q * other with composed units.
func (q Quantity) Mul(other Quantity) (Quantity, error) {
	if err := q.checkMultiplicative(other, "multiply"); err != nil {
		return Quantity{}, err
	}
	return q.derive(q.magnitude*other.magnitude, q.unit.mul(other.unit, 1)), nil
}

// Div returns q / other with composed units.
func (q Quantity) Div(other Quantity) (Quantity, error) {
	if err := q.checkMultiplicative(other, "divide"); err != nil {
		return Quantity{}, err
	}
	if other.magnitude == 0 {
		return Quantity{}, ErrDivisionByZero
	}
	return q.derive(q.magnitude/other.magnitude, q.unit.mul(other.unit, -1)), nil
}

// Scale multiplies the magnitude by a plain number.
func (q Quantity) Scale(f float64) (Quantity, error) {
	if q.unit.hasOffsetFactor() {
		return Quantity{}, &OffsetUnitError{Unit: q.unit.String(), Op: "scale"}
	}
	return q.derive(q.magnitude*f, q.unit), nil
}

// Pow raises the quantity to p. Every unit exponent must stay an integer,
// so a square root of m**2 is allowed but of m is not.
func (q Quantity) Pow(p float64) (Quantity, error) {
	if q.unit.hasOffsetFactor() {
		return Quantity{}, &OffsetUnitError{Unit: q.unit.String(), Op: "power"}
	}
	u, ok := q.unit.pow(p)
	if !ok {
		return Quantity{}, &DimensionalityError{
			From:    q.unit.String(),
			To:      fmt.Sprintf("(%s) ** %g", q.unit.String(), p),
			FromDim: q.unit.Dimensionality(),
			ToDim:   "non-integer dimension",
			Extra:   "power must keep integer unit exponents",
		}
	}
	return q.derive(math.Pow(q.magnitude, p), u), nil
}

// Inverse returns 1 / q.
func (q Quantity) Inverse() (Quantity, error) {
	if q.unit.hasOffsetFactor() {
		return Quantity{}, &OffsetUnitError{Unit: q.unit.String(), Op: "invert"}
	}
	if q.magnitude == 0 {
		return Quantity{}, ErrDivisionByZero
	}
	u, _ := q.unit.pow(-1)
	return q.derive(1/q.magnitude, u), nil
}

// Neg returns -q.
func (q Quantity) Neg() Quantity { return q.derive(-q.magnitude, q.unit) }

// Pos returns q unchanged.
func (q Quantity) Pos() Quantity { return q }

// Abs returns |q|.
func (q Quantity) Abs() Quantity { return q.derive(math.Abs(q.magnitude), q.unit) }

func (q Quantity) checkMultiplicative(other Quantity, op string) error {
	for _, u := range []Unit{q.unit, other.unit} {
		if u.hasOffsetFactor() {
			return &OffsetUnitError{Unit: u.String(), Op: op}
		}
	}
	return nil
}

// Equal reports literal equality of magnitude and unit string.
func (q Quantity) Equal(other Quantity) bool {
	return q.magnitude == other.magnitude && q.unit.String() == other.unit.String()
}

// Key returns a map key consistent with Equal.
func (q Quantity) Key() string {
	m := q.magnitude
	if m == 0 {
		m = 0
	}
	return strconv.FormatFloat(m, 'g', -1, 64) + " " + q.unit.String()
}

// Compare converts other to the unit of q and returns -1, 0 or +1.
func (q Quantity) Compare(other Quantity) (int, error) {
	o, err := other.ToUnit(q.unit)
	if err != nil {
		return 0, err
	}
	return compareFloats(q.magnitude, o.magnitude), nil
}

// Less reports whether q < other.
func (q Quantity) Less(other Quantity) (bool, error) {
	c, err := q.Compare(other)
	return c < 0, err
}

// CompareEngine compares against an engine value.
func (q Quantity) CompareEngine(u unit.Uniter) (int, error) {
	return q.Compare(q.registry().FromEngine(u))
}

// CompareNumeric compares against a Numeric. Comparing a dimensioned
// quantity with a raw number fails; a dimensionless quantity compares by
// its base value.
func (q Quantity) CompareNumeric(n Numeric) (int, error) {
	if other, ok := n.Quantity(); ok {
		return q.Compare(other)
	}
	if n.IsNone() {
		return 0, mdwerror.New("cannot compare a quantity with no value").WithCode(mdwerror.CodeInvalidInput)
	}
	if !q.IsDimensionless() {
		return 0, &DimensionalityError{
			From:    q.unit.String(),
			To:      Dimensionless,
			FromDim: q.unit.Dimensionality(),
			ToDim:   Dimensionless,
			Extra:   "cannot compare a quantity with a unit-less number",
		}
	}
	return compareFloats(q.unit.toSI(q.magnitude), n.Magnitude()), nil
}

// compareFloats treats values within a relative 1e-12 as equal, absorbing
// round-off from unit conversion.
func compareFloats(a, b float64) int {
	switch {
	case closeTo(a, b):
		return 0
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Format renders the magnitude with a fixed number of decimals followed by
// the unit in the given style ("", "~", "P" or "~P"). A negative precision
// uses the quantity's own.
func (q Quantity) Format(precision int, style string) string {
	if precision < 0 {
		precision = q.precision
	}
	u := q.unit.Format(style)
	if u == "" {
		return strconv.FormatFloat(q.magnitude, 'f', precision, 64)
	}
	return strconv.FormatFloat(q.magnitude, 'f', precision, 64) + " " + u
}

// String formats with the quantity's precision and short pretty units,
// e.g. "50.0000 ksi".
func (q Quantity) String() string {
	return q.Format(q.precision, "~P")
}

// GoString returns a detailed representation for debugging.
func (q Quantity) GoString() string {
	return fmt.Sprintf("Quantity(%v, %q, precision=%d)", q.magnitude, q.unit.String(), q.precision)
}

// Record returns the persistence shape of the quantity.
func (q Quantity) Record() Record {
	return Record{Magnitude: q.magnitude, Unit: q.unit.String()}
}

// MarshalJSON encodes the quantity as {"magnitude": m, "unit": u}.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.Record())
}

// UnmarshalJSON decodes {"magnitude": m, "unit": u} using the default
// registry.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	parsed, err := Default().Quantity(rec.Magnitude, rec.Unit)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
