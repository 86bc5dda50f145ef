// Package config loads the docsite tool configuration (docsite.yaml). It
// controls where documents are read from and what gets emitted; the site
// itself is described by the site and sidebar packages.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docsite/internal/errors"
)

// DefaultPath is the configuration file looked up when -c is not given.
const DefaultPath = "docsite.yaml"

// Output formats for the renderer-facing files.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config represents the tool configuration
type Config struct {
	Content ContentConfig `yaml:"content"`
	Output  OutputConfig  `yaml:"output"`
	Metrics MetricsConfig `yaml:"metrics"`
	Watch   WatchConfig   `yaml:"watch"`
}

// ContentConfig locates the docs directory sidebar ids resolve against.
type ContentConfig struct {
	Dir string `yaml:"dir"`
	// OnBrokenLinks overrides the site's policy when set (throw|warn|ignore).
	OnBrokenLinks string `yaml:"on_broken_links,omitempty"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory string   `yaml:"directory"`
	Formats   []string `yaml:"formats"`
	Hugo      bool     `yaml:"hugo"`  // also write hugo.yaml
	Clean     bool     `yaml:"clean"` // remove stale generated files before writing
}

// MetricsConfig controls the Prometheus textfile written after each run.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	Debounce       time.Duration `yaml:"debounce"`
	RescanInterval time.Duration `yaml:"rescan_interval,omitempty"` // 0 disables periodic rescans
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Content.Dir == "" {
		cfg.Content.Dir = "./docs"
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "./build"
	}
	if len(cfg.Output.Formats) == 0 {
		cfg.Output.Formats = []string{FormatJSON}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
}

// Validate checks field values after defaults have been applied.
func (c *Config) Validate() error {
	for _, f := range c.Output.Formats {
		if f != FormatJSON && f != FormatYAML {
			return derrors.ValidationFailed("output.formats", fmt.Sprintf("unknown format %q", f))
		}
	}
	if len(slices.Compact(slices.Sorted(slices.Values(c.Output.Formats)))) != len(c.Output.Formats) {
		return derrors.ValidationFailed("output.formats", "formats listed twice")
	}
	switch c.Content.OnBrokenLinks {
	case "", "throw", "warn", "ignore":
	default:
		return derrors.ValidationFailed("content.on_broken_links", fmt.Sprintf("unknown policy %q", c.Content.OnBrokenLinks))
	}
	if c.Watch.Debounce < 0 || c.Watch.RescanInterval < 0 {
		return derrors.ValidationFailed("watch", "durations must not be negative")
	}
	if c.Watch.RescanInterval > 0 && c.Watch.RescanInterval < time.Second {
		return derrors.ValidationFailed("watch.rescan_interval", "must be at least 1s")
	}
	return nil
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return nil, derrors.ConfigNotFound(configPath)
	}
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CategoryConfig, derrors.SeverityFatal, "failed to read config file").
			WithContext("path", configPath)
	}
	return Parse(data)
}

// LoadOrDefault loads configPath, falling back to Default when the file does
// not exist and required is false.
func LoadOrDefault(configPath string, required bool) (*Config, error) {
	cfg, err := Load(configPath)
	if err != nil && !required && derrors.IsCategory(err, derrors.CategoryConfig) {
		if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
			return Default(), nil
		}
	}
	return cfg, err
}

// Parse decodes YAML with ${VAR} expansion, then applies defaults and validation.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, derrors.ConfigInvalid(err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return derrors.New(derrors.CategoryConfig, derrors.SeverityFatal, "configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath)
	}

	example := Default()
	example.Output.Formats = []string{FormatJSON, FormatYAML}
	example.Output.Hugo = true
	example.Watch.RescanInterval = 5 * time.Minute

	data, err := yaml.Marshal(example)
	if err != nil {
		return derrors.Wrap(err, derrors.CategoryInternal, derrors.SeverityFatal, "failed to marshal config")
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return derrors.WriteFailed(configPath, err)
	}
	return nil
}
