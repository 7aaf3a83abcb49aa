package units

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/unit"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestConvert(t *testing.T) {
	tests := []struct {
		value    float64
		from, to string
		want     float64
	}{
		{1, "ksi", "psi", 1000},
		{50, "ksi", "psi", 50000},
		{144, "inch**2", "foot**2", 1},
		{1, "kip", "lbf", 1000},
		{1, "klf", "plf", 1000},
		{1, "ksf", "psf", 1000},
		{1, "pcf", "kg/m**3", 16.018463373960138},
		{1, "MPa", "kPa", 1000},
		{1, "foot", "inch", 12},
		{1, "gallon", "liter", 3.785411784},
		{1, "hp", "W", 745.6998715822702},
		{1, "hour", "s", 3600},
		{1, "ksi", "Pa", 6894757.29316836},
		{0, "degC", "degF", 32},
		{100, "degC", "kelvin", 373.15},
		{212, "degF", "degC", 100},
		{491.67, "degR", "degF", 32},
		{90, "degree", "radian", math.Pi / 2},
		{60, "rpm", "Hz", 6.283185307179586},
		{5000, "psi", "1000 * psi", 5},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			got, err := Convert(tt.value, tt.from, tt.to)
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if !approx(got, tt.want) {
				t.Errorf("Convert(%v, %q, %q) = %v, want %v", tt.value, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestQuantityTo(t *testing.T) {
	q := MustQuantity(50, "ksi")
	psi, err := q.To("psi")
	if err != nil {
		t.Fatalf("To() error = %v", err)
	}
	if math.Abs(psi.Magnitude()-50000)/50000 > 1e-6 {
		t.Errorf("To(psi) = %v, want 50000", psi.Magnitude())
	}
	if psi.Units() != "psi" {
		t.Errorf("Units() = %q, want psi", psi.Units())
	}
	if q.Magnitude() != 50 {
		t.Error("To() must not modify the receiver")
	}
}

func TestConversionErrors(t *testing.T) {
	m := MustQuantity(1, "meter")

	_, err := m.To("second")
	var dimErr *DimensionalityError
	if !errors.As(err, &dimErr) {
		t.Fatalf("To(second) error = %v, want DimensionalityError", err)
	}
	if dimErr.FromDim != "[length]" || dimErr.ToDim != "[time]" {
		t.Errorf("dimensions = %q -> %q", dimErr.FromDim, dimErr.ToDim)
	}
	if mdwerror.GetCode(err) != mdwerror.CodeDimensionality {
		t.Errorf("GetCode() = %v", mdwerror.GetCode(err))
	}

	_, err = m.To("furlongz")
	var undef *UndefinedUnitError
	if !errors.As(err, &undef) || undef.Unit != "furlongz" {
		t.Errorf("To(furlongz) error = %v, want UndefinedUnitError", err)
	}

	_, err = NewQuantity(3, "")
	var missing *MissingUnitError
	if !errors.As(err, &missing) {
		t.Errorf("NewQuantity(3, \"\") error = %v, want MissingUnitError", err)
	}
	if mdwerror.GetCode(err) != mdwerror.CodeMissingUnit {
		t.Errorf("GetCode() = %v", mdwerror.GetCode(err))
	}

	if _, err := NewQuantity(1, "m", -1); mdwerror.GetCode(err) != mdwerror.CodeInvalidInput {
		t.Errorf("negative precision error = %v", err)
	}
}

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		unit      string
		wantUnit  string
		wantValue float64
	}{
		{"ksi", "kilogram / meter / second ** 2", 6894757.29316836},
		{"pcf", "kilogram / meter ** 3", 16.018463373960138},
		{"newton", "kilogram * meter / second ** 2", 1},
		{"hertz", "1 / second", 1},
		{"degC", "kelvin", 274.15},
		{"percent", "dimensionless", 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			base := MustQuantity(1, tt.unit).ToBaseUnits()
			if base.Units() != tt.wantUnit {
				t.Errorf("Units() = %q, want %q", base.Units(), tt.wantUnit)
			}
			if !approx(base.Magnitude(), tt.wantValue) {
				t.Errorf("Magnitude() = %v, want %v", base.Magnitude(), tt.wantValue)
			}

			got, err := BaseUnits(tt.unit)
			if err != nil || got != tt.wantUnit {
				t.Errorf("BaseUnits() = %q, %v", got, err)
			}
		})
	}
}

func TestAddSub(t *testing.T) {
	sum, err := MustQuantity(2, "m").Add(MustQuantity(50, "cm"))
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if !approx(sum.Magnitude(), 2.5) || sum.Units() != "meter" {
		t.Errorf("Add() = %v", sum.GoString())
	}

	diff, err := MustQuantity(1, "ft").Sub(MustQuantity(6, "inch"))
	if err != nil || !approx(diff.Magnitude(), 0.5) || diff.Units() != "foot" {
		t.Errorf("Sub() = %v, %v", diff.GoString(), err)
	}

	_, err = MustQuantity(1, "m").Add(MustQuantity(1, "N"))
	var dimErr *DimensionalityError
	if !errors.As(err, &dimErr) {
		t.Errorf("Add(length, force) error = %v, want DimensionalityError", err)
	}
}

func TestMulDivPow(t *testing.T) {
	moment, err := MustQuantity(2, "m").Mul(MustQuantity(3, "N"))
	if err != nil {
		t.Fatalf("Mul() error = %v", err)
	}
	if moment.Magnitude() != 6 || moment.Units() != "meter * newton" {
		t.Errorf("Mul() = %v", moment.GoString())
	}
	if moment.Dimensionality() != "[length] ** 2 * [mass] / [time] ** 2" {
		t.Errorf("Dimensionality() = %q", moment.Dimensionality())
	}

	stress, err := MustQuantity(10, "N").Div(MustQuantity(2, "m**2"))
	if err != nil {
		t.Fatalf("Div() error = %v", err)
	}
	if stress.Units() != "newton / meter ** 2" || !stress.IsCompatibleWithUnit("pascal") {
		t.Errorf("Div() = %v", stress.GoString())
	}

	if _, err := MustQuantity(1, "N").Div(MustQuantity(0, "m")); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("Div() by zero error = %v", err)
	}

	ratio, err := MustQuantity(6, "m").Div(MustQuantity(3, "m"))
	if err != nil || !ratio.IsDimensionless() || ratio.Magnitude() != 2 {
		t.Errorf("Div(m, m) = %v, %v", ratio.GoString(), err)
	}

	area, err := MustQuantity(3, "m").Pow(2)
	if err != nil || area.Magnitude() != 9 || area.Units() != "meter ** 2" {
		t.Errorf("Pow(2) = %v, %v", area.GoString(), err)
	}

	side, err := MustQuantity(4, "m**2").Pow(0.5)
	if err != nil || side.Magnitude() != 2 || side.Units() != "meter" {
		t.Errorf("Pow(0.5) = %v, %v", side.GoString(), err)
	}

	if _, err := MustQuantity(2, "m").Pow(0.5); err == nil {
		t.Error("Pow(0.5) of a length should fail")
	}

	scaled, err := MustQuantity(2, "kip").Scale(1.5)
	if err != nil || scaled.Magnitude() != 3 || scaled.Units() != "kip" {
		t.Errorf("Scale() = %v, %v", scaled.GoString(), err)
	}
}

func TestInverse(t *testing.T) {
	period, err := MustQuantity(4, "Hz").Inverse()
	if err != nil {
		t.Fatalf("Inverse() error = %v", err)
	}
	if period.Magnitude() != 0.25 || !period.IsCompatibleWithUnit("s") {
		t.Errorf("Inverse(4 Hz) = %v", period.GoString())
	}

	flexibility, err := MustQuantity(2, "kN/m").Inverse()
	if err != nil {
		t.Fatalf("Inverse() error = %v", err)
	}
	mm, err := flexibility.To("mm/kN")
	if err != nil || !approx(mm.Magnitude(), 500) {
		t.Errorf("Inverse(2 kN/m) in mm/kN = %v, %v", mm.GoString(), err)
	}

	back, err := flexibility.Inverse()
	if err != nil || back.Magnitude() != 2 || back.Units() != MustQuantity(2, "kN/m").Units() {
		t.Errorf("double Inverse() = %v, %v", back.GoString(), err)
	}

	if _, err := MustQuantity(0, "s").Inverse(); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("Inverse(0) error = %v", err)
	}
	var offErr *OffsetUnitError
	if _, err := MustQuantity(20, "degC").Inverse(); !errors.As(err, &offErr) {
		t.Errorf("Inverse(degC) error = %v, want OffsetUnitError", err)
	}
}

func TestUnary(t *testing.T) {
	q := MustQuantity(-3, "psi")
	if q.Neg().Magnitude() != 3 || q.Abs().Magnitude() != 3 || q.Pos().Magnitude() != -3 {
		t.Error("unary operations returned wrong magnitudes")
	}
	if q.Magnitude() != -3 {
		t.Error("unary operations must not modify the receiver")
	}
}

func TestOffsetUnits(t *testing.T) {
	warm := MustQuantity(30, "degC")
	cold := MustQuantity(10, "degC")

	var offErr *OffsetUnitError
	if _, err := warm.Mul(MustQuantity(2, "m")); !errors.As(err, &offErr) {
		t.Errorf("Mul(degC) error = %v, want OffsetUnitError", err)
	}
	if _, err := warm.Add(cold); !errors.As(err, &offErr) {
		t.Errorf("Add(degC, degC) error = %v, want OffsetUnitError", err)
	}
	if _, err := warm.Scale(2); !errors.As(err, &offErr) {
		t.Errorf("Scale(degC) error = %v, want OffsetUnitError", err)
	}

	delta, err := warm.Sub(cold)
	if err != nil {
		t.Fatalf("Sub(degC, degC) error = %v", err)
	}
	if delta.Magnitude() != 20 || delta.Units() != "delta_degree_Celsius" {
		t.Errorf("Sub() = %v", delta.GoString())
	}

	warmer, err := warm.Add(MustQuantity(9, "delta_degF"))
	if err != nil {
		t.Fatalf("Add(degC, delta_degF) error = %v", err)
	}
	if !approx(warmer.Magnitude(), 35) || warmer.Units() != "degree_Celsius" {
		t.Errorf("Add() = %v", warmer.GoString())
	}

	if neg := warm.Neg(); neg.Magnitude() != -30 {
		t.Errorf("Neg() = %v", neg.Magnitude())
	}
}

func TestEqualityIsLiteral(t *testing.T) {
	m := MustQuantity(1, "m")
	cm := MustQuantity(100, "cm")

	if m.Equal(cm) {
		t.Error("1 m and 100 cm must not be Equal")
	}
	if m.Key() == cm.Key() {
		t.Error("1 m and 100 cm must have different keys")
	}
	if !m.Equal(MustQuantity(1, "meter")) {
		t.Error("1 m and 1 meter should be Equal")
	}

	c, err := m.Compare(cm)
	if err != nil || c != 0 {
		t.Errorf("Compare() = %d, %v; want 0", c, err)
	}

	zero, negZero := MustQuantity(0, "m"), MustQuantity(math.Copysign(0, -1), "m")
	if !zero.Equal(negZero) || zero.Key() != negZero.Key() {
		t.Errorf("signed zeros: Equal = %v, keys %q and %q", zero.Equal(negZero), zero.Key(), negZero.Key())
	}

	seen := map[string]bool{m.Key(): true}
	if !seen[MustQuantity(1, "metre").Key()] {
		t.Error("Key() should be stable for the same unit")
	}
}

func TestCompare(t *testing.T) {
	less, err := MustQuantity(1, "ft").Less(MustQuantity(1, "m"))
	if err != nil || !less {
		t.Errorf("1 ft < 1 m = %v, %v", less, err)
	}

	if _, err := MustQuantity(1, "m").Compare(MustQuantity(1, "s")); err == nil {
		t.Error("comparing length and time should fail")
	}

	boiling := MustQuantity(100, "degC")
	if c, err := boiling.Compare(MustQuantity(212, "degF")); err != nil || c != 0 {
		t.Errorf("100 degC vs 212 degF = %d, %v", c, err)
	}

	engine := unit.New(0.5, unit.Dimensions{unit.LengthDim: 1})
	if c, err := MustQuantity(1, "ft").CompareEngine(engine); err != nil || c != -1 {
		t.Errorf("CompareEngine() = %d, %v", c, err)
	}

	if _, err := MustQuantity(3, "m").CompareNumeric(Float(3)); err == nil {
		t.Error("comparing a length with a raw number should fail")
	}
	if c, err := MustQuantity(50, "percent").CompareNumeric(Float(0.4)); err != nil || c != 1 {
		t.Errorf("50 percent vs 0.4 = %d, %v", c, err)
	}
	if c, err := MustQuantity(2, "m").CompareNumeric(Dimensioned(MustQuantity(3, "m"))); err != nil || c != -1 {
		t.Errorf("CompareNumeric(quantity) = %d, %v", c, err)
	}
}

func TestEngineRoundTrip(t *testing.T) {
	g := unit.New(9.81, unit.Dimensions{unit.LengthDim: 1, unit.TimeDim: -2})
	q := FromEngine(g)
	if q.Units() != "meter / second ** 2" || q.Magnitude() != 9.81 {
		t.Errorf("FromEngine() = %v", q.GoString())
	}

	e := MustQuantity(1, "ksi").Engine()
	if !approx(e.Value(), 6894757.29316836) {
		t.Errorf("Engine().Value() = %v", e.Value())
	}
	if !unit.DimensionsMatch(e, MustQuantity(1, "Pa").Engine()) {
		t.Error("ksi and Pa engine dimensions should match")
	}
}

func TestFormat(t *testing.T) {
	density := MustQuantity(1000, "kg/m**3")
	tests := []struct {
		style string
		want  string
	}{
		{"", "1000.0 kilogram / meter ** 3"},
		{"~", "1000.0 kg / m ** 3"},
		{"P", "1000.0 kilogram/meter³"},
		{"~P", "1000.0 kg/m³"},
	}
	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			if got := density.Format(1, tt.style); got != tt.want {
				t.Errorf("Format(1, %q) = %q, want %q", tt.style, got, tt.want)
			}
		})
	}

	if got := MustQuantity(50, "ksi").String(); got != "50.0000 ksi" {
		t.Errorf("String() = %q", got)
	}
	if got := MustQuantity(2, "1/s").Format(0, "~P"); got != "2 1/s" {
		t.Errorf("Format() = %q", got)
	}
	if got := MustQuantity(0.5, "dimensionless").String(); got != "0.5000" {
		t.Errorf("String() dimensionless = %q", got)
	}
	if got := MustQuantity(20, "degC").Format(1, "~P"); got != "20.0 °C" {
		t.Errorf("Format() degC = %q", got)
	}
	if got := MustQuantity(3, "m", 2).Format(-1, "~"); got != "3.00 m" {
		t.Errorf("Format() with own precision = %q", got)
	}
}

func TestQuantityJSON(t *testing.T) {
	q := MustQuantity(12.5, "kN/m")
	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"unit":"kilonewton / meter"`) {
		t.Errorf("Marshal() = %s", data)
	}

	var back Quantity
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !back.Equal(q) {
		t.Errorf("round trip = %v, want %v", back.GoString(), q.GoString())
	}
}
