package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
	mdwlog "github.com/msto63/engcalc/foundation/core/log"
	"github.com/msto63/engcalc/pkg/core/calculation"
)

// EnvPrefix prefixes every environment override, e.g. ENGCALC_LOG_LEVEL.
const EnvPrefix = "ENGCALC_"

// Config holds the complete application configuration
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Units    UnitsConfig    `toml:"units"`
	Registry RegistryConfig `toml:"registry"`
	History  HistoryConfig  `toml:"history"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name      string `toml:"name" env:"NAME"`
	DataDir   string `toml:"data_dir" env:"DATA_DIR"`
	LogLevel  string `toml:"log_level" env:"LOG_LEVEL"`
	LogFormat string `toml:"log_format" env:"LOG_FORMAT"`
	LogFile   string `toml:"log_file" env:"LOG_FILE"`
}

// UnitsConfig holds unit registry settings
type UnitsConfig struct {
	DefaultPrecision int      `toml:"default_precision" env:"PRECISION"`
	DefinitionsFile  string   `toml:"definitions_file" env:"UNITS_FILE"`
	CacheTTL         Duration `toml:"cache_ttl" env:"UNITS_CACHE_TTL"`
}

// RegistryConfig holds calculation registry settings
type RegistryConfig struct {
	DuplicatePolicy string `toml:"duplicate_policy" env:"DUPLICATE_POLICY"`
}

// HistoryConfig holds calculation history settings
type HistoryConfig struct {
	DatabasePath string `toml:"database_path" env:"HISTORY_DB"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultPrecision is used when neither the file nor the environment
// sets units.default_precision. Zero is a valid setting.
const DefaultPrecision = 4

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := preset()
	cfg.applyDefaults()
	return cfg
}

// preset returns the defaults a file or the environment may override with
// zero values.
func preset() *Config {
	return &Config{Units: UnitsConfig{DefaultPrecision: DefaultPrecision}}
}

// Load loads configuration from a TOML file and applies ENGCALC_*
// environment overrides.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, mdwerror.Newf("config file not found: %s", path).
			WithCode(mdwerror.CodeConfigError).
			WithDetail("path", path)
	}

	cfg := preset()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeConfigError).
			WithDetail("path", path)
	}

	return finish(cfg)
}

// LoadFromEnv loads the file named by ENGCALC_CONFIG, or the first file
// found in the default locations. Without any file the defaults plus
// environment overrides are returned.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvPrefix + "CONFIG"); path != "" {
		return Load(path)
	}

	for _, p := range defaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return finish(preset())
}

func defaultPaths() []string {
	paths := []string{"./engcalc.toml", "./configs/engcalc.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "engcalc", "config.toml"))
	}
	return paths
}

func finish(cfg *Config) (*Config, error) {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, mdwerror.Wrap(err, "parse environment").WithCode(mdwerror.CodeConfigError)
	}
	cfg.applyDefaults()
	cfg.expandEnvVars()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.General.Name == "" {
		c.General.Name = "engcalc"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	if c.Units.CacheTTL.Duration == 0 {
		c.Units.CacheTTL.Duration = 30 * time.Minute
	}

	if c.Registry.DuplicatePolicy == "" {
		c.Registry.DuplicatePolicy = string(calculation.PolicyOverwrite)
	}

	if c.History.DatabasePath == "" {
		c.History.DatabasePath = filepath.Join(c.General.DataDir, "history.db")
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.General.LogFile = os.ExpandEnv(c.General.LogFile)
	c.Units.DefinitionsFile = os.ExpandEnv(c.Units.DefinitionsFile)
	c.History.DatabasePath = os.ExpandEnv(c.History.DatabasePath)
}

// Validate checks values that have a closed set of options.
func (c *Config) Validate() error {
	if _, err := mdwlog.ParseLevel(c.General.LogLevel); err != nil {
		return invalid("general.log_level", err)
	}
	if _, err := mdwlog.ParseFormat(c.General.LogFormat); err != nil {
		return invalid("general.log_format", err)
	}
	if c.Units.DefaultPrecision < 0 {
		return mdwerror.Newf("units.default_precision must not be negative, got %d", c.Units.DefaultPrecision).
			WithCode(mdwerror.CodeInvalidConfig)
	}
	if _, err := calculation.ParseDuplicatePolicy(c.Registry.DuplicatePolicy); err != nil {
		return invalid("registry.duplicate_policy", err)
	}
	return nil
}

// DuplicatePolicy returns the parsed registry policy.
func (c *Config) DuplicatePolicy() calculation.DuplicatePolicy {
	p, err := calculation.ParseDuplicatePolicy(c.Registry.DuplicatePolicy)
	if err != nil {
		return calculation.PolicyOverwrite
	}
	return p
}

func invalid(key string, err error) error {
	return mdwerror.Wrap(err, "invalid "+key).
		WithCode(mdwerror.CodeInvalidConfig).
		WithDetail("key", key)
}
