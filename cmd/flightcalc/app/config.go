package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/flight-telemetry/internal/flight"
	"github.com/roman-kulish/flight-telemetry/internal/logging"
	"github.com/roman-kulish/flight-telemetry/internal/telemetry"
)

const envPrefix = "FLIGHTCALC_"

// Config represents the main application configuration
type Config struct {
	Settings     Settings            `yaml:"settings"`
	Parameters   flight.Parameters   `yaml:"parameters"`
	Scenarios    telemetry.Scenarios `yaml:"scenarios"`
	ScenarioFile string              `yaml:"scenarioFile"`
	Storage      StorageConfig       `yaml:"storage"`
}

// Settings represents global application settings
type Settings struct {
	Logging logging.Config `yaml:"logging"`
	Workers int            `yaml:"workers" env:"WORKERS"`
	Quiet   bool           `yaml:"quiet" env:"QUIET"`   // Do not print reports
	Passes  int            `yaml:"passes" env:"PASSES"` // Rounds over the scenarios, at least one
}

// StorageConfig represents storage settings
type StorageConfig struct {
	Enabled       bool   `yaml:"enabled" env:"STORAGE_ENABLED"`
	DataDirectory string `yaml:"dataDirectory" env:"STORAGE_DATA_DIRECTORY"`
	DBPath        string `yaml:"dbPath" env:"STORAGE_DB_PATH"` // Overrides the per-run file in DataDirectory
}

// NewConfig returns the configuration used when no file is given: the
// reference parameters and the built-in scenario.
func NewConfig() *Config {
	return &Config{
		Parameters: flight.DefaultParameters(),
	}
}

// LoadConfig reads the YAML configuration at path and applies the
// FLIGHTCALC_* environment overrides. An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		c := NewConfig()
		if err := c.applyEnv(); err != nil {
			return nil, err
		}
		return c, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	return readConfig(f, filepath.Dir(path))
}

// ReadConfig is LoadConfig for an already opened document. A relative
// scenarioFile is resolved against the working directory.
func ReadConfig(r io.Reader) (*Config, error) {
	return readConfig(r, "")
}

// readConfig decodes the document and resolves a relative scenarioFile
// against baseDir.
func readConfig(r io.Reader, baseDir string) (*Config, error) {
	c := NewConfig()
	if err := yaml.NewDecoder(r).Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if c.ScenarioFile != "" {
		if baseDir != "" && !filepath.IsAbs(c.ScenarioFile) {
			c.ScenarioFile = filepath.Join(baseDir, c.ScenarioFile)
		}
		extra, err := telemetry.LoadScenarioFile(c.ScenarioFile)
		if err != nil {
			return nil, err
		}
		c.Scenarios = append(c.Scenarios, extra...)
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	opts := env.Options{Prefix: envPrefix}
	if err := env.ParseWithOptions(&c.Settings, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if err := env.ParseWithOptions(&c.Storage, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Provider returns a telemetry provider over the configured scenarios, or
// over the built-in snapshot when none are configured.
func (c *Config) Provider() (telemetry.Provider, error) {
	if len(c.Scenarios) == 0 {
		return telemetry.NewStaticProvider(telemetry.DefaultScenario, telemetry.DefaultSnapshot()), nil
	}
	return telemetry.NewScenarioProvider(c.Scenarios)
}
