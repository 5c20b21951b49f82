package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (INTAKEFLOW_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: INTAKEFLOW_PORT -> port, etc.
	if err := k.Load(env.Provider("INTAKEFLOW_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "INTAKEFLOW_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.ClientsDir == "" {
		return fmt.Errorf("clients_dir is required")
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("llm_timeout_seconds must be positive")
	}
	return c.Thresholds.Validate()
}

// Validate checks the tier boundaries are ordered and inside the score range.
func (t Thresholds) Validate() error {
	if t.SeniorAttorneyMin <= 0 || t.SeniorAttorneyMin > 100 {
		return fmt.Errorf("senior_attorney_min %d out of range", t.SeniorAttorneyMin)
	}
	if t.SeniorPartnerMin <= t.SeniorAttorneyMin || t.SeniorPartnerMin > 100 {
		return fmt.Errorf("senior_partner_min %d must be above senior_attorney_min and at most 100", t.SeniorPartnerMin)
	}
	return nil
}
