package units

import (
	"encoding/json"
	"testing"
)

func TestNumericKinds(t *testing.T) {
	q := MustQuantity(3, "kip")
	tests := []struct {
		name      string
		n         Numeric
		kind      Kind
		magnitude float64
		record    Record
	}{
		{"none", None(), KindNone, 0, Record{}},
		{"float", Float(2.5), KindFloat, 2.5, Record{Magnitude: 2.5}},
		{"int", Int(7), KindInt, 7, Record{Magnitude: 7}},
		{"quantity", Dimensioned(q), KindQuantity, 3, Record{Magnitude: 3, Unit: "kip"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.n.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", tt.n.Kind(), tt.kind)
			}
			if tt.n.Magnitude() != tt.magnitude {
				t.Errorf("Magnitude() = %v, want %v", tt.n.Magnitude(), tt.magnitude)
			}
			if tt.n.Record() != tt.record {
				t.Errorf("Record() = %+v, want %+v", tt.n.Record(), tt.record)
			}
			_, ok := tt.n.Quantity()
			if ok != (tt.kind == KindQuantity) {
				t.Errorf("Quantity() ok = %v", ok)
			}
		})
	}

	var zero Numeric
	if !zero.IsNone() {
		t.Error("zero Numeric should be None")
	}
}

func TestNumericFormat(t *testing.T) {
	if got := Float(1.23456).Format(2); got != "1.23" {
		t.Errorf("Float.Format() = %q", got)
	}
	if got := Int(42).Format(3); got != "42" {
		t.Errorf("Int.Format() = %q", got)
	}
	if got := Dimensioned(MustQuantity(1.5, "MPa")).Format(1); got != "1.5 MPa" {
		t.Errorf("Quantity.Format() = %q", got)
	}
	if got := None().String(); got != "-" {
		t.Errorf("None.String() = %q", got)
	}
}

func TestNumericJSON(t *testing.T) {
	values := map[string]Numeric{
		"stress": Dimensioned(MustQuantity(36, "ksi")),
		"ratio":  Float(0.25),
		"empty":  None(),
	}

	data, err := json.Marshal(values)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var back map[string]Numeric
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	stress, ok := back["stress"].Quantity()
	if !ok || !stress.Equal(MustQuantity(36, "ksi")) {
		t.Errorf("stress = %v", back["stress"])
	}
	if back["ratio"].Kind() != KindFloat || back["ratio"].Magnitude() != 0.25 {
		t.Errorf("ratio = %v", back["ratio"])
	}
	if !back["empty"].IsNone() {
		t.Errorf("empty = %v", back["empty"])
	}
}

func TestFromRecord(t *testing.T) {
	n, err := Default().FromRecord(Record{Magnitude: 2, Unit: "kilonewton / meter"})
	if err != nil {
		t.Fatalf("FromRecord() error = %v", err)
	}
	if q, ok := n.Quantity(); !ok || q.Units() != "kilonewton / meter" {
		t.Errorf("FromRecord() = %v", n)
	}
	if _, err := Default().FromRecord(Record{Magnitude: 1, Unit: "nope"}); err == nil {
		t.Error("FromRecord() with unknown unit should fail")
	}
}
