// Package config provides YAML configuration parsing for manview.
//
// Configuration is opt-in: nothing is read unless a config file path is
// passed explicitly, and every field has a working default. The file exists
// for people who keep a preferred width or a pinned port.
//
// Example configuration:
//
//	width: 100
//	port: 8080
//	open_browser: false
//	poll_interval: 250ms
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultWidth is the man page rendering width applied when the file
	// does not set one.
	DefaultWidth = 120

	// DefaultPollInterval is the source watch cadence applied when the
	// file does not set one.
	DefaultPollInterval = 500 * time.Millisecond

	// minPollInterval is the minimum allowed watch cadence. This prevents
	// a stat busy-loop from an accidental "poll_interval: 1ns".
	minPollInterval = 10 * time.Millisecond
)

// Config is the root configuration structure for manview.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Width is the column width man pages are rendered at. Defaults to 120.
	Width int `yaml:"width"`

	// Port is the HTTP server port. 0 (the default) picks an ephemeral port.
	Port int `yaml:"port"`

	// OpenBrowser controls launching the browser at startup.
	// Left unset it defaults to true; it is a pointer so an explicit
	// "open_browser: false" is distinguishable from an absent key.
	OpenBrowser *bool `yaml:"open_browser"`

	// PollInterval is the time between source file freshness checks.
	// Accepts duration strings like "250ms", "1s". Defaults to 500ms.
	PollInterval Duration `yaml:"poll_interval"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses a YAML configuration file.
//
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Defaults are applied for Width (120) and PollInterval (500ms); Port 0
// means an ephemeral port and needs no defaulting.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Width == 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = Duration(DefaultPollInterval)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate checks field ranges after defaulting.
func (c *Config) validate() error {
	if c.Width < 0 {
		return fmt.Errorf("width cannot be negative, got %d", c.Width)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %d", c.Port)
	}
	if c.PollInterval.Duration() < minPollInterval {
		return fmt.Errorf("poll_interval must be at least %s, got %s", minPollInterval, c.PollInterval.Duration())
	}
	return nil
}
