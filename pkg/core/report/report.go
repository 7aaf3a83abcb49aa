// Package report renders calculation results as human readable text.
//
// Headings are styled with lipgloss when the destination is a terminal and
// printed plain otherwise, so the same output can be written to files.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
	"github.com/msto63/engcalc/pkg/core/calculation"
	"github.com/msto63/engcalc/pkg/core/units"
)

// Option configures a Writer.
type Option func(*Writer)

// WithPrecision renders every value with a fixed number of decimals. A
// negative precision keeps each value's own precision.
func WithPrecision(precision int) Option {
	return func(w *Writer) { w.precision = precision }
}

// WithoutTimestamp omits the calculation time, e.g. for golden files.
func WithoutTimestamp() Option {
	return func(w *Writer) { w.timestamp = false }
}

// Writer renders results to an io.Writer.
type Writer struct {
	out       io.Writer
	precision int
	timestamp bool

	title   lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
	warning lipgloss.Style
}

// New creates a Writer for out.
func New(out io.Writer, opts ...Option) *Writer {
	r := lipgloss.NewRenderer(out)
	w := &Writer{
		out:       out,
		precision: -1,
		timestamp: true,
		title:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		heading:   r.NewStyle().Bold(true).Underline(true),
		muted:     r.NewStyle().Foreground(lipgloss.Color("245")),
		warning:   r.NewStyle().Foreground(lipgloss.Color("214")),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteText renders r to w with default options.
func WriteText(w io.Writer, r *calculation.Result) error {
	return New(w).Write(r)
}

// Write renders the header, inputs, derivation steps, outputs and warnings
// of r.
func (w *Writer) Write(r *calculation.Result) error {
	if r == nil {
		return mdwerror.New("nil result").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("report.Write")
	}
	meta := r.Metadata()

	var b strings.Builder
	b.WriteString(w.title.Render(r.Key()))
	b.WriteString("\n")
	if meta.Description != "" {
		b.WriteString(meta.Description + "\n")
	}
	for _, ref := range meta.References {
		b.WriteString(w.muted.Render("Ref: "+ref) + "\n")
	}
	if w.timestamp {
		b.WriteString(w.muted.Render("Calculated: "+r.Timestamp().Format(time.RFC3339)) + "\n")
	}

	w.section(&b, "Inputs")
	w.table(&b, r.Inputs())

	steps := r.Steps()
	if len(steps) > 0 {
		w.section(&b, "Steps")
		for i, s := range steps {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, s.Description)
			if s.Formula != "" {
				fmt.Fprintf(&b, "     %s\n", s.Formula)
			}
			if s.Substitution != "" {
				fmt.Fprintf(&b, "     = %s\n", s.Substitution)
			}
			fmt.Fprintf(&b, "     = %s\n", w.value(s.Result))
		}
	}

	w.section(&b, "Outputs")
	w.table(&b, r.Outputs())

	if len(meta.Warnings) > 0 {
		w.section(&b, "Warnings")
		for _, warn := range meta.Warnings {
			b.WriteString(w.warning.Render("  ! "+warn) + "\n")
		}
	}

	_, err := io.WriteString(w.out, b.String())
	return err
}

func (w *Writer) section(b *strings.Builder, name string) {
	b.WriteString("\n")
	b.WriteString(w.heading.Render(name))
	b.WriteString("\n")
}

// table writes name/value rows sorted by name with the names padded to a
// common width.
func (w *Writer) table(b *strings.Builder, values map[string]units.Numeric) {
	if len(values) == 0 {
		b.WriteString(w.muted.Render("  (none)") + "\n")
		return
	}
	names := calculation.Inputs(values).Names()
	width := 0
	for _, n := range names {
		width = max(width, lipgloss.Width(n))
	}
	cell := lipgloss.NewStyle().Width(width + 2)
	for _, n := range names {
		fmt.Fprintf(b, "  %s%s\n", cell.Render(n), w.value(values[n]))
	}
}

func (w *Writer) value(n units.Numeric) string {
	return n.Format(w.precision)
}
