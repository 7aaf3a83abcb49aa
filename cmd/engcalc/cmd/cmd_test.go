package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
	"github.com/msto63/engcalc/pkg/core/calculation"
	"github.com/msto63/engcalc/pkg/core/units"
)

func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	content := `
[general]
data_dir = "` + filepath.ToSlash(dir) + `"
log_level = "error"

[units]
default_precision = 2
` + extra
	path := filepath.Join(dir, "engcalc.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, cfg string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestList(t *testing.T) {
	cfg := writeConfig(t, "")

	out, _, err := execute(t, cfg, "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	for _, want := range []string{"CATEGORY", "Materials", "NormalStress", "SimpleBeam", "Reynolds"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	out, _, err = execute(t, cfg, "list", "--category", "Fluids")
	if err != nil {
		t.Fatalf("list --category error = %v", err)
	}
	if strings.Contains(out, "Materials") || !strings.Contains(out, "Bernoulli") {
		t.Errorf("filtered list:\n%s", out)
	}

	out, _, _ = execute(t, cfg, "list", "--category", "Optics")
	if !strings.Contains(out, "No calculations found.") {
		t.Errorf("empty list:\n%s", out)
	}
}

func TestDescribe(t *testing.T) {
	cfg := writeConfig(t, "")

	out, _, err := execute(t, cfg, "describe", "Statics", "CantileverDeflection")
	if err != nil {
		t.Fatalf("describe error = %v", err)
	}
	for _, want := range []string{"Statics.CantileverDeflection", "Inputs:", "inertia", "cm**4", "default 210", "Outputs:", "deflection"} {
		if !strings.Contains(out, want) {
			t.Errorf("describe output missing %q:\n%s", want, out)
		}
	}

	if _, _, err := execute(t, cfg, "describe", "Statics", "Truss"); !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("describe unknown error = %v, want NOT_FOUND", err)
	}
}

func TestRun(t *testing.T) {
	cfg := writeConfig(t, "")

	out, _, err := execute(t, cfg, "run", "Materials", "NormalStress",
		"--in", "force=10 kN", "--in", "area=1 cm**2")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	for _, want := range []string{"Materials.NormalStress", "σ = F / A", "100.00 MPa", "Outputs"} {
		if !strings.Contains(out, want) {
			t.Errorf("run output missing %q:\n%s", want, out)
		}
	}
}

func TestRunUsesDeclaredUnits(t *testing.T) {
	cfg := writeConfig(t, "")

	out, _, err := execute(t, cfg, "run", "Statics", "SimpleBeam", "--in", "load=10", "--in", "span=6", "--json")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}

	var snap calculation.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("output is not a result snapshot: %v\n%s", err, out)
	}
	if snap.Name != "SimpleBeam" || snap.Metadata.Category != "Statics" {
		t.Errorf("snapshot = %+v", snap)
	}
	moment, ok := snap.Outputs["moment"].Quantity()
	if !ok {
		t.Fatalf("moment = %v", snap.Outputs["moment"])
	}
	kNm, err := moment.To("kN*m")
	if err != nil || kNm.Magnitude() < 44.999999 || kNm.Magnitude() > 45.000001 {
		t.Errorf("moment = %v, %v; want 45 kN*m", kNm, err)
	}
}

func TestRunErrors(t *testing.T) {
	cfg := writeConfig(t, "")

	tests := []struct {
		name string
		args []string
		code mdwerror.Code
	}{
		{"unknown calculation", []string{"run", "Statics", "Truss"}, mdwerror.CodeNotFound},
		{"malformed input", []string{"run", "Statics", "SimpleBeam", "--in", "load"}, mdwerror.CodeInvalidInput},
		{"bad number", []string{"run", "Statics", "SimpleBeam", "--in", "load=ten kN/m"}, mdwerror.CodeInvalidInput},
		{"unknown unit", []string{"run", "Statics", "SimpleBeam", "--in", "load=10 kN/furlong"}, mdwerror.CodeUndefinedUnit},
		{"wrong dimension", []string{"run", "Statics", "SimpleBeam", "--in", "load=10 kN", "--in", "span=6 m"}, mdwerror.CodeDimensionality},
		{"missing input", []string{"run", "Statics", "SimpleBeam", "--in", "load=10 kN/m"}, mdwerror.CodeRequiredField},
		{"duplicate input", []string{"run", "Statics", "SimpleBeam", "--in", "span=1", "--in", "span=2"}, mdwerror.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, cfg, tt.args...)
			if !mdwerror.HasCode(err, tt.code) {
				t.Errorf("error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestRunSaveAndHistory(t *testing.T) {
	cfg := writeConfig(t, "")

	_, stderr, err := execute(t, cfg, "run", "Fluids", "Reynolds",
		"--in", "velocity=1 m/s", "--in", "diameter=50 mm", "--save")
	if err != nil {
		t.Fatalf("run --save error = %v", err)
	}
	m := regexp.MustCompile(`saved as ([0-9a-f-]{36})`).FindStringSubmatch(stderr)
	if m == nil {
		t.Fatalf("no id in %q", stderr)
	}
	id := m[1]

	out, _, err := execute(t, cfg, "history", "list")
	if err != nil {
		t.Fatalf("history list error = %v", err)
	}
	if !strings.Contains(out, id) || !strings.Contains(out, "Fluids.Reynolds") {
		t.Errorf("history list:\n%s", out)
	}

	out, _, err = execute(t, cfg, "history", "show", id)
	if err != nil {
		t.Fatalf("history show error = %v", err)
	}
	if !strings.Contains(out, "Re = ρ · v · D / μ") {
		t.Errorf("history show:\n%s", out)
	}

	if _, _, err := execute(t, cfg, "history", "delete", id); err != nil {
		t.Fatalf("history delete error = %v", err)
	}
	out, _, _ = execute(t, cfg, "history")
	if !strings.Contains(out, "No saved results.") {
		t.Errorf("history after delete:\n%s", out)
	}
}

func TestRunSaveWithProjectAndNotes(t *testing.T) {
	cfg := writeConfig(t, "")

	_, stderr, err := execute(t, cfg, "run", "Statics", "SimpleBeam",
		"--in", "load=2 klf", "--in", "span=24 ft",
		"--save", "--project", "Footbridge", "--note", "deck check")
	if err != nil {
		t.Fatalf("run --save error = %v", err)
	}
	m := regexp.MustCompile(`saved as ([0-9a-f-]{36})`).FindStringSubmatch(stderr)
	if m == nil {
		t.Fatalf("no id in %q", stderr)
	}
	id := m[1]

	tests := []struct {
		args  []string
		found bool
	}{
		{[]string{"--project", "Footbridge"}, true},
		{[]string{"--project", "Pump house"}, false},
		{[]string{"--search", "DECK"}, true},
		{[]string{"--search", "culvert"}, false},
		{[]string{"--since", "2000-01-01"}, true},
		{[]string{"--until", "2000-01-01"}, false},
		{[]string{"--since", "2000-01-01T00:00:00Z", "--category", "Statics"}, true},
	}
	for _, tt := range tests {
		out, _, err := execute(t, cfg, append([]string{"history", "list"}, tt.args...)...)
		if err != nil {
			t.Errorf("history list %v error = %v", tt.args, err)
			continue
		}
		if got := strings.Contains(out, id); got != tt.found {
			t.Errorf("history list %v lists the result = %v, want %v:\n%s", tt.args, got, tt.found, out)
		}
	}

	out, _, err := execute(t, cfg, "history", "show", id)
	if err != nil {
		t.Fatalf("history show error = %v", err)
	}
	if !strings.Contains(out, "Project: Footbridge") || !strings.Contains(out, "Notes: deck check") {
		t.Errorf("history show:\n%s", out)
	}

	if _, _, err := execute(t, cfg, "history", "list", "--since", "yesterday"); !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("invalid --since error = %v, want INVALID_INPUT", err)
	}
	if _, _, err := execute(t, cfg, "run", "Statics", "SimpleBeam",
		"--in", "load=2 klf", "--in", "span=24 ft", "--note", "unsaved"); !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("--note without --save error = %v, want INVALID_INPUT", err)
	}
}

func TestHistoryExportImport(t *testing.T) {
	src := writeConfig(t, "")
	_, stderr, err := execute(t, src, "run", "Materials", "NormalStress",
		"--in", "force=10 kN", "--in", "area=100 mm**2", "--save", "--project", "Footbridge")
	if err != nil {
		t.Fatalf("run --save error = %v", err)
	}
	id := regexp.MustCompile(`saved as ([0-9a-f-]{36})`).FindStringSubmatch(stderr)[1]

	out, _, err := execute(t, src, "history", "export")
	if err != nil {
		t.Fatalf("history export error = %v", err)
	}
	if !strings.Contains(out, `"format": 1`) || !strings.Contains(out, id) {
		t.Errorf("export to stdout:\n%s", out)
	}

	archive := filepath.Join(t.TempDir(), "backup.json")
	_, stderr, err = execute(t, src, "history", "export", archive)
	if err != nil {
		t.Fatalf("history export file error = %v", err)
	}
	if !strings.Contains(stderr, "exported 1 results") {
		t.Errorf("export stderr = %q", stderr)
	}

	dst := writeConfig(t, "")
	out, _, err = execute(t, dst, "history", "import", archive)
	if err != nil {
		t.Fatalf("history import error = %v", err)
	}
	if !strings.Contains(out, "imported 1 results") {
		t.Errorf("import output = %q", out)
	}
	out, _, err = execute(t, dst, "history", "list", "--project", "Footbridge")
	if err != nil || !strings.Contains(out, id) || !strings.Contains(out, "Materials.NormalStress") {
		t.Errorf("history list after import = %q, %v", out, err)
	}

	out, _, _ = execute(t, dst, "history", "import", archive)
	if !strings.Contains(out, "imported 0 results") {
		t.Errorf("second import output = %q", out)
	}

	if _, _, err := execute(t, dst, "history", "import", filepath.Join(t.TempDir(), "missing.json")); !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("import of a missing file error = %v, want INVALID_INPUT", err)
	}
}

func TestUnitsCacheStats(t *testing.T) {
	cfg := writeConfig(t, "")

	out, _, err := execute(t, cfg, "units", "kN*m", "--stats")
	if err != nil {
		t.Fatalf("units --stats error = %v", err)
	}
	if !regexp.MustCompile(`Parse cache: +\d+ entries, \d+ hits, \d+ misses`).MatchString(out) {
		t.Errorf("units --stats output:\n%s", out)
	}

	out, _, _ = execute(t, cfg, "units", "kN*m")
	if strings.Contains(out, "Parse cache:") {
		t.Errorf("cache statistics printed without --stats:\n%s", out)
	}
}

func TestLogFile(t *testing.T) {
	cfg := writeConfig(t, "")
	logPath := filepath.Join(t.TempDir(), "logs", "engcalc.log")
	t.Setenv("ENGCALC_LOG_FILE", logPath)

	if _, _, err := execute(t, cfg, "-v", "list"); err != nil {
		t.Fatalf("list error = %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "calculation registered") {
		t.Errorf("log file:\n%s", data)
	}
}

func TestConvert(t *testing.T) {
	cfg := writeConfig(t, "")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"50", "ksi", "MPa"}, "= 344.74 MPa"},
		{[]string{"100", "degC", "degF"}, "= 212.00"},
		{[]string{"1", "kip*ft", "kN*m"}, "= 1.36"},
	}
	for _, tt := range tests {
		out, _, err := execute(t, cfg, append([]string{"convert"}, tt.args...)...)
		if err != nil {
			t.Errorf("convert %v error = %v", tt.args, err)
			continue
		}
		if !strings.Contains(out, tt.want) {
			t.Errorf("convert %v = %q, want %q", tt.args, out, tt.want)
		}
	}

	if _, _, err := execute(t, cfg, "convert", "1", "m", "s"); !mdwerror.HasCode(err, mdwerror.CodeDimensionality) {
		t.Errorf("convert m to s error = %v, want DIMENSIONALITY", err)
	}
}

func TestUnitDefinitionsFile(t *testing.T) {
	dir := t.TempDir()
	defs := filepath.Join(dir, "units.yaml")
	content := "definitions:\n  - \"ton_per_sqft = 2000 * pound_force / foot ** 2 = tsf\"\n"
	if err := os.WriteFile(defs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := writeConfig(t, `definitions_file = "`+filepath.ToSlash(defs)+`"`)

	out, _, err := execute(t, cfg, "convert", "1", "tsf", "ksf")
	if err != nil {
		t.Fatalf("convert error = %v", err)
	}
	if !strings.Contains(out, "= 2.00 ksf") {
		t.Errorf("convert tsf = %q", out)
	}

	out, _, err = execute(t, cfg, "units", "tsf")
	if err != nil {
		t.Fatalf("units error = %v", err)
	}
	if !strings.Contains(out, units.ResolveDimension("pressure")) {
		t.Errorf("units output:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "/nonexistent/engcalc.toml", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "engcalc ") || !strings.Contains(out, "history:") {
		t.Errorf("version output:\n%s", out)
	}
}

func TestParseValue(t *testing.T) {
	reg := units.Default()
	tests := []struct {
		in, declared string
		kind         units.Kind
		unit         string
	}{
		{"2.5", "", units.KindFloat, ""},
		{"2.5", "kN", units.KindQuantity, "kilonewton"},
		{"2.5 lbf", "kN", units.KindQuantity, "pound_force"},
		{" 3  kN / m ", "", units.KindQuantity, "kilonewton / meter"},
	}
	for _, tt := range tests {
		n, err := parseValue(reg, tt.in, tt.declared, 4)
		if err != nil {
			t.Errorf("parseValue(%q) error = %v", tt.in, err)
			continue
		}
		if n.Kind() != tt.kind {
			t.Errorf("parseValue(%q) kind = %v, want %v", tt.in, n.Kind(), tt.kind)
		}
		if q, ok := n.Quantity(); ok && q.Units() != tt.unit {
			t.Errorf("parseValue(%q) unit = %q, want %q", tt.in, q.Units(), tt.unit)
		}
	}

	if _, err := parseValue(reg, "  ", "", 4); !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("empty value error = %v", err)
	}
}
