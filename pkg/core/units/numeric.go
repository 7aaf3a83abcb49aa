package units

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Kind tells which variant a Numeric holds.
type Kind int

const (
	KindNone Kind = iota
	KindFloat
	KindInt
	KindQuantity
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindQuantity:
		return "quantity"
	}
	return "unknown"
}

// Numeric is a calculation value: nothing, a raw float, a raw integer or a
// dimensioned Quantity. The zero value is None.
type Numeric struct {
	kind Kind
	f    float64
	i    int64
	q    Quantity
}

// None returns the empty Numeric.
func None() Numeric { return Numeric{} }

// Float wraps a raw float.
func Float(v float64) Numeric { return Numeric{kind: KindFloat, f: v} }

// Int wraps a raw integer.
func Int(v int64) Numeric { return Numeric{kind: KindInt, i: v} }

// Dimensioned wraps a Quantity.
func Dimensioned(q Quantity) Numeric { return Numeric{kind: KindQuantity, q: q} }

// Kind returns the variant held.
func (n Numeric) Kind() Kind { return n.kind }

// IsNone reports whether n holds no value.
func (n Numeric) IsNone() bool { return n.kind == KindNone }

// IsDimensioned reports whether n holds a Quantity.
func (n Numeric) IsDimensioned() bool { return n.kind == KindQuantity }

// Magnitude extracts the number: the raw value, or the quantity's
// magnitude in its own unit. None yields 0.
func (n Numeric) Magnitude() float64 {
	switch n.kind {
	case KindFloat:
		return n.f
	case KindInt:
		return float64(n.i)
	case KindQuantity:
		return n.q.Magnitude()
	}
	return 0
}

// Quantity returns the wrapped quantity.
func (n Numeric) Quantity() (Quantity, bool) {
	return n.q, n.kind == KindQuantity
}

// Format renders the value with the given number of decimals. Integers are
// printed without decimals.
func (n Numeric) Format(precision int) string {
	switch n.kind {
	case KindFloat:
		return strconv.FormatFloat(n.f, 'f', precision, 64)
	case KindInt:
		return strconv.FormatInt(n.i, 10)
	case KindQuantity:
		return n.q.Format(precision, "~P")
	}
	return "-"
}

func (n Numeric) String() string {
	switch n.kind {
	case KindFloat:
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	case KindQuantity:
		return n.q.String()
	}
	return n.Format(0)
}

// Record is the {magnitude, unit} persistence shape of a Numeric. Unit is
// empty for raw numbers.
type Record struct {
	Magnitude float64 `json:"magnitude" yaml:"magnitude"`
	Unit      string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Record returns the persistence shape of n.
func (n Numeric) Record() Record {
	if q, ok := n.Quantity(); ok {
		return q.Record()
	}
	return Record{Magnitude: n.Magnitude()}
}

// FromRecord rebuilds a Numeric; records without a unit become floats.
func (r *Registry) FromRecord(rec Record) (Numeric, error) {
	if rec.Unit == "" {
		return Float(rec.Magnitude), nil
	}
	q, err := r.Quantity(rec.Magnitude, rec.Unit)
	if err != nil {
		return Numeric{}, err
	}
	return Dimensioned(q), nil
}

// MarshalJSON encodes n as a Record, or null for None.
func (n Numeric) MarshalJSON() ([]byte, error) {
	if n.IsNone() {
		return []byte("null"), nil
	}
	return json.Marshal(n.Record())
}

// UnmarshalJSON decodes a Record using the default registry.
func (n *Numeric) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = None()
		return nil
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	decoded, err := Default().FromRecord(rec)
	if err != nil {
		return err
	}
	*n = decoded
	return nil
}
