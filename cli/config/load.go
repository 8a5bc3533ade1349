package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/irminsul-dev/irminsul/export"
)

// Load reads a YAML config file, expands environment variables, and
// unmarshals into a Config struct. Export filters start from the standard
// thresholds; the file only overrides what it names.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot read config file %q: %w", path, err)
	}

	expanded := ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %s: %w", path, err)
	}

	return cfg, nil
}

// Default returns a config with the standard export thresholds and
// everything else zero.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			Filters: export.DefaultFilter(),
		},
	}
}
