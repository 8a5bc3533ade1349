package config

import (
	"fmt"
	"time"

	"github.com/irminsul-dev/irminsul/export"
	"github.com/irminsul-dev/irminsul/types"
)

// Config represents an irminsul.yaml configuration file.
// All values are optional and act as defaults for CLI flags.
// CLI flags always override config values.
type Config struct {
	// Refdata is the path to the reference dataset JSON file.
	Refdata string `yaml:"refdata"`
	// Required lists the categories the completion indicator checks.
	// Empty means all categories.
	Required []string      `yaml:"required"`
	Capture  CaptureConfig `yaml:"capture"`
	Export   ExportConfig  `yaml:"export"`
	Storage  StorageConfig `yaml:"storage"`
	Adapter  AdapterConfig `yaml:"adapter"`
}

// CaptureConfig holds capture defaults from the config file.
type CaptureConfig struct {
	// FrameLog is the path raw frames are recorded to. Empty disables
	// recording.
	FrameLog string `yaml:"frame_log"`
}

// ExportConfig holds export defaults from the config file.
type ExportConfig struct {
	// Output is the local path the GOOD payload is written to.
	Output string `yaml:"output"`
	// Filters are the export thresholds.
	Filters export.FilterConfig `yaml:"filters"`
}

// StorageConfig holds archive storage defaults from the config file.
type StorageConfig struct {
	// Backend selects the archive: "fs", "s3", or empty to disable.
	Backend     string `yaml:"backend"`
	Dataset     string `yaml:"dataset"`
	Path        string `yaml:"path"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// AdapterConfig holds adapter defaults from the config file.
type AdapterConfig struct {
	Type    string            `yaml:"type"`
	URL     string            `yaml:"url"`
	Channel string            `yaml:"channel,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
	Retries *int              `yaml:"retries,omitempty"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Validate checks field values that have a closed set of options.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "", "fs", "s3":
	default:
		return fmt.Errorf("unknown storage backend %q (want fs or s3)", c.Storage.Backend)
	}

	switch c.Adapter.Type {
	case "", "redis", "webhook":
	default:
		return fmt.Errorf("unknown adapter type %q (want redis or webhook)", c.Adapter.Type)
	}

	for _, name := range c.Required {
		if !types.Category(name).Valid() {
			return fmt.Errorf("unknown required category %q", name)
		}
	}
	return nil
}

// RequiredCategories converts the configured category names, nil when the
// config names none.
func (c *Config) RequiredCategories() []types.Category {
	if len(c.Required) == 0 {
		return nil
	}
	cats := make([]types.Category, 0, len(c.Required))
	for _, name := range c.Required {
		cats = append(cats, types.Category(name))
	}
	return cats
}
