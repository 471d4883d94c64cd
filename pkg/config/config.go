package config

import (
	"github.com/arthur-debert/fpm/pkg/errors"
	"github.com/arthur-debert/fpm/pkg/pattern"
	"github.com/arthur-debert/fpm/pkg/ui"
)

// Config is the merged configuration.
type Config struct {
	Logging  LoggingConfig  `koanf:"logging"`
	Regex    RegexConfig    `koanf:"regex"`
	Dispatch DispatchConfig `koanf:"dispatch"`
	Output   OutputConfig   `koanf:"output"`

	// Sources lists the files that contributed, in load order.
	Sources []string `koanf:"-"`
}

type LoggingConfig struct {
	Verbosity int `koanf:"verbosity"`
}

type RegexConfig struct {
	Mode string `koanf:"mode"`
}

type DispatchConfig struct {
	Trace bool `koanf:"trace"`
}

type OutputConfig struct {
	Format string `koanf:"format"`
}

// RegexMode returns the parsed regex mode. Validate guarantees it parses.
func (c *Config) RegexMode() pattern.RegexMode {
	mode, _ := pattern.ParseRegexMode(c.Regex.Mode)
	return mode
}

// OutputFormat returns the parsed output format.
func (c *Config) OutputFormat() ui.Format {
	format, _ := ui.ParseFormat(c.Output.Format)
	return format
}

// Validate checks values koanf cannot type-check.
func (c *Config) Validate() error {
	if c.Logging.Verbosity < 0 {
		return errors.Newf(errors.ErrConfigValid, "logging.verbosity must not be negative, got %d", c.Logging.Verbosity)
	}
	if _, err := pattern.ParseRegexMode(c.Regex.Mode); err != nil {
		return errors.Wrapf(err, errors.ErrConfigValid, "invalid regex.mode").
			WithDetail("value", c.Regex.Mode)
	}
	if _, err := ui.ParseFormat(c.Output.Format); err != nil {
		return errors.Wrapf(err, errors.ErrConfigValid, "invalid output.format").
			WithDetail("value", c.Output.Format)
	}
	return nil
}
