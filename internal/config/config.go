// Package config provides configuration for responder executables.
// It uses koanf v2 to load a YAML file shared by the whole responder family.
//
// Configuration is loaded from /etc/bastille/responder.yaml by default. The
// file is optional: responders must work on a freshly enrolled host before
// any operator has written a config, so an absent file yields the defaults
// rather than an error.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	goyaml "gopkg.in/yaml.v3"
)

// DefaultConfigPath is the default location of the responder configuration.
const DefaultConfigPath = "/etc/bastille/responder.yaml"

// DefaultLogPath is where the shared active-response log lives unless
// configured otherwise.
const DefaultLogPath = "/var/log/bastille/active-responses.log"

// Config holds the responder configuration. Fields are tagged for both
// koanf (loading) and yaml (rendering via -print-config).
type Config struct {
	// LogPath is the active-response log file written on every
	// invocation. Used only when LogDestination is "file".
	LogPath string `koanf:"log_path" yaml:"log_path"`

	// LogDestination selects where outcome lines go: "file" or "journal".
	// Default: "file".
	LogDestination string `koanf:"log_destination" yaml:"log_destination"`

	// ExecTimeoutMs bounds the runtime of the dispatched utility, in
	// milliseconds. 0 disables the bound; execd already enforces a
	// wall-clock limit on the whole invocation. A child killed by this
	// bound still counts as having run.
	ExecTimeoutMs int64 `koanf:"exec_timeout_ms" yaml:"exec_timeout_ms"`
}

// Validation errors returned by Load.
var (
	ErrInvalidDestination = errors.New("log_destination must be \"file\" or \"journal\"")
	ErrInvalidTimeout     = errors.New("exec_timeout_ms must not be negative")
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from the given YAML file path. A missing file is
// not an error; defaults are returned. Any present file must parse and
// validate.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults sets default values for unset fields.
func (c *Config) applyDefaults() {
	if c.LogPath == "" {
		c.LogPath = DefaultLogPath
	}
	if c.LogDestination == "" {
		c.LogDestination = "file"
	}
}

// validate checks field values after defaults are applied.
func (c *Config) validate() error {
	if c.LogDestination != "file" && c.LogDestination != "journal" {
		return ErrInvalidDestination
	}
	if c.ExecTimeoutMs < 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// ExecTimeout returns the execution bound as a duration, zero when disabled.
func (c *Config) ExecTimeout() time.Duration {
	return time.Duration(c.ExecTimeoutMs) * time.Millisecond
}

// YAML renders the configuration as a YAML document, suitable for seeding
// the config file via -print-config.
func (c *Config) YAML() ([]byte, error) {
	data, err := goyaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
