package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
	"github.com/msto63/engcalc/pkg/core/calculation"
	"github.com/msto63/engcalc/pkg/core/units"
)

func sampleResult(t *testing.T) *calculation.Result {
	t.Helper()
	reg := units.Default()
	qty := func(mag float64, unit string) units.Numeric {
		q, err := reg.Quantity(mag, unit)
		if err != nil {
			t.Fatalf("Quantity(%v, %q) error = %v", mag, unit, err)
		}
		return units.Dimensioned(q)
	}

	return calculation.FromSnapshot(calculation.Snapshot{
		Name:      "Stress",
		Timestamp: time.Date(2026, 10, 17, 8, 30, 0, 0, time.UTC),
		Inputs: map[string]units.Numeric{
			"force":  qty(10, "kN"),
			"area":   qty(100, "mm**2"),
			"factor": units.Float(1.5),
		},
		Outputs: map[string]units.Numeric{
			"stress": qty(100, "MPa"),
		},
		Steps: []calculation.Step{
			{
				Description:  "Axial stress",
				Formula:      "sigma = F / A",
				Substitution: "10 kN / 100 mm^2",
				Result:       qty(100, "MPa"),
			},
		},
		Metadata: calculation.Metadata{
			Category:    "Test",
			Description: "Axial stress check",
			References:  []string{"EN 1993-1-1, 6.2.3"},
			Warnings:    []string{"utilisation above 90%"},
		},
	})
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleResult(t)); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Test.Stress",
		"Axial stress check",
		"EN 1993-1-1, 6.2.3",
		"2026-10-17T08:30:00Z",
		"Inputs",
		"force",
		"factor",
		"1. Axial stress",
		"sigma = F / A",
		"= 10 kN / 100 mm^2",
		"Outputs",
		"stress",
		"MPa",
		"Warnings",
		"utilisation above 90%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestWriteOrdersSections(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf).Write(sampleResult(t)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()

	order := []string{"Inputs", "Steps", "Outputs", "Warnings"}
	last := -1
	for _, s := range order {
		i := strings.Index(out, s)
		if i <= last {
			t.Fatalf("section %q out of order in:\n%s", s, out)
		}
		last = i
	}

	// inputs are listed by name
	if strings.Index(out, "area") > strings.Index(out, "factor") ||
		strings.Index(out, "factor") > strings.Index(out, "force") {
		t.Errorf("inputs not sorted:\n%s", out)
	}
}

func TestWriteOptions(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, WithPrecision(2), WithoutTimestamp())
	if err := w.Write(sampleResult(t)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()

	if strings.Contains(out, "Calculated:") {
		t.Errorf("timestamp should be omitted:\n%s", out)
	}
	if !strings.Contains(out, "1.50") {
		t.Errorf("factor should be rendered with two decimals:\n%s", out)
	}
	if !strings.Contains(out, "100.00") {
		t.Errorf("stress should be rendered with two decimals:\n%s", out)
	}
}

func TestWriteEmptyResult(t *testing.T) {
	r := calculation.FromSnapshot(calculation.Snapshot{
		Name:     "Empty",
		Metadata: calculation.Metadata{Category: "Test"},
	})

	var buf bytes.Buffer
	if err := WriteText(&buf, r); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "Steps") || strings.Contains(out, "Warnings") {
		t.Errorf("empty sections should be skipped:\n%s", out)
	}
	if strings.Count(out, "(none)") != 2 {
		t.Errorf("inputs and outputs should render as (none):\n%s", out)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteErrors(t *testing.T) {
	err := WriteText(&bytes.Buffer{}, nil)
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("nil result: error = %v, want INVALID_INPUT", err)
	}

	if err := WriteText(failingWriter{}, sampleResult(t)); err == nil {
		t.Error("write failure should be returned")
	}
}
