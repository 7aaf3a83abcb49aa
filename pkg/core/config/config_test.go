package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
	"github.com/msto63/engcalc/pkg/core/calculation"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	d := Duration{5 * time.Minute}
	result, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(result) != "5m0s" {
		t.Errorf("MarshalText() = %v, want 5m0s", string(result))
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.General.Name != "engcalc" {
		t.Errorf("General.Name = %v, want engcalc", cfg.General.Name)
	}
	if cfg.General.LogLevel != "warn" || cfg.General.LogFormat != "text" {
		t.Errorf("log settings = %v/%v", cfg.General.LogLevel, cfg.General.LogFormat)
	}
	if cfg.Units.DefaultPrecision != 4 {
		t.Errorf("Units.DefaultPrecision = %v, want 4", cfg.Units.DefaultPrecision)
	}
	if cfg.Units.CacheTTL.Duration != 30*time.Minute {
		t.Errorf("Units.CacheTTL = %v", cfg.Units.CacheTTL)
	}
	if cfg.DuplicatePolicy() != calculation.PolicyOverwrite {
		t.Errorf("DuplicatePolicy() = %v", cfg.DuplicatePolicy())
	}
	if cfg.History.DatabasePath != filepath.Join("./data", "history.db") {
		t.Errorf("History.DatabasePath = %v", cfg.History.DatabasePath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.toml")
	if mdwerror.GetCode(err) != mdwerror.CodeConfigError {
		t.Errorf("Load() error = %v, want CONFIG_ERROR", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engcalc.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
[general]
name = "bridge-office"
log_level = "debug"

[units]
default_precision = 2
definitions_file = "$ENGCALC_TEST_DIR/units.yaml"
cache_ttl = "5m"

[registry]
duplicate_policy = "error"

[history]
database_path = "/tmp/engcalc-history.db"
`)
	t.Setenv("ENGCALC_TEST_DIR", "/etc/engcalc")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.Name != "bridge-office" {
		t.Errorf("General.Name = %v", cfg.General.Name)
	}
	if cfg.Units.DefaultPrecision != 2 {
		t.Errorf("Units.DefaultPrecision = %v, want 2", cfg.Units.DefaultPrecision)
	}
	if cfg.Units.DefinitionsFile != "/etc/engcalc/units.yaml" {
		t.Errorf("Units.DefinitionsFile = %v", cfg.Units.DefinitionsFile)
	}
	if cfg.Units.CacheTTL.Duration != 5*time.Minute {
		t.Errorf("Units.CacheTTL = %v", cfg.Units.CacheTTL)
	}
	if cfg.DuplicatePolicy() != calculation.PolicyError {
		t.Errorf("DuplicatePolicy() = %v", cfg.DuplicatePolicy())
	}
	if cfg.General.LogFormat != "text" {
		t.Errorf("default log format not applied, got %v", cfg.General.LogFormat)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[general]
log_level = "info"
`)
	t.Setenv("ENGCALC_LOG_LEVEL", "error")
	t.Setenv("ENGCALC_PRECISION", "6")
	t.Setenv("ENGCALC_HISTORY_DB", "/var/lib/engcalc/h.db")
	t.Setenv("ENGCALC_UNITS_CACHE_TTL", "90s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.General.LogLevel != "error" {
		t.Errorf("LogLevel = %v, want error", cfg.General.LogLevel)
	}
	if cfg.Units.DefaultPrecision != 6 {
		t.Errorf("DefaultPrecision = %v, want 6", cfg.Units.DefaultPrecision)
	}
	if cfg.History.DatabasePath != "/var/lib/engcalc/h.db" {
		t.Errorf("DatabasePath = %v", cfg.History.DatabasePath)
	}
	if cfg.Units.CacheTTL.Duration != 90*time.Second {
		t.Errorf("CacheTTL = %v", cfg.Units.CacheTTL)
	}
}

func TestLoad_ZeroPrecision(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[units]\ndefault_precision = 0"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Units.DefaultPrecision != 0 {
		t.Errorf("DefaultPrecision = %v, want 0 from the file", cfg.Units.DefaultPrecision)
	}

	t.Setenv("ENGCALC_PRECISION", "0")
	cfg, err = Load(writeConfig(t, "[units]\ndefault_precision = 3"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Units.DefaultPrecision != 0 {
		t.Errorf("DefaultPrecision = %v, want 0 from the environment", cfg.Units.DefaultPrecision)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    mdwerror.Code
	}{
		{"syntax", "[general\nname = 1", mdwerror.CodeConfigError},
		{"log level", "[general]\nlog_level = \"loud\"", mdwerror.CodeInvalidConfig},
		{"log format", "[general]\nlog_format = \"xml\"", mdwerror.CodeInvalidConfig},
		{"policy", "[registry]\nduplicate_policy = \"ignore\"", mdwerror.CodeInvalidConfig},
		{"precision", "[units]\ndefault_precision = -1", mdwerror.CodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if got := mdwerror.GetCode(err); got != tt.code {
				t.Errorf("Load() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENGCALC_CONFIG", "")
	t.Setenv("HOME", t.TempDir())
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() without a file error = %v", err)
	}
	if cfg.General.Name != "engcalc" {
		t.Errorf("General.Name = %v", cfg.General.Name)
	}

	path := writeConfig(t, "[general]\nname = \"from-env\"\n")
	t.Setenv("ENGCALC_CONFIG", path)
	cfg, err = LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.General.Name != "from-env" {
		t.Errorf("General.Name = %v, want from-env", cfg.General.Name)
	}
}
