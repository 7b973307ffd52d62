// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

// Package config loads hearth configuration from a YAML file and command-line
// flags. Flags override the file; the file overrides built-in defaults.
package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/hearthsim/hearth/internal/actor"
	"github.com/hearthsim/hearth/internal/decision"
	"github.com/hearthsim/hearth/internal/intent"
	"github.com/hearthsim/hearth/internal/logging"
	"github.com/hearthsim/hearth/internal/xdg"
)

// CodeInvalidConfig is the error code for configuration failures.
const CodeInvalidConfig = "CONFIG_INVALID"

// Default values.
const (
	DefaultLogFormat       = "json"
	DefaultLogLevel        = "info"
	DefaultMetricsAddr     = "127.0.0.1:9100"
	DefaultDecisionURL     = "http://127.0.0.1:8000"
	DefaultProximityRadius = 3.0
	DefaultStep            = 50 * time.Millisecond
)

// Decision configures the decision service client.
type Decision struct {
	URL         string        `koanf:"url"`
	Timeout     time.Duration `koanf:"timeout"`
	Model       string        `koanf:"model"`
	Translation bool          `koanf:"translation"`
}

// Config is the complete runtime configuration.
type Config struct {
	LogFormat   string `koanf:"log-format"`
	LogLevel    string `koanf:"log-level"`
	MetricsAddr string `koanf:"metrics-addr"`
	Scenario    string `koanf:"scenario"`
	// Seed makes social rolls reproducible; zero seeds from entropy.
	Seed uint64 `koanf:"seed"`
	// Step is the movement simulation step.
	Step time.Duration `koanf:"step"`
	// ProximityRadius is how close two actors get before a proximity
	// conversation may start.
	ProximityRadius float64 `koanf:"proximity-radius"`
	// FillerPatterns replaces the built-in glob patterns that mark an
	// action summary as filler.
	FillerPatterns []string `koanf:"filler-patterns"`

	Decision Decision     `koanf:"decision"`
	Engine   actor.Config `koanf:"engine"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogFormat:       DefaultLogFormat,
		LogLevel:        DefaultLogLevel,
		MetricsAddr:     DefaultMetricsAddr,
		Step:            DefaultStep,
		ProximityRadius: DefaultProximityRadius,
		Decision: Decision{
			URL:     DefaultDecisionURL,
			Timeout: decision.DefaultRequestTimeout,
		},
		Engine: actor.DefaultConfig(),
	}
}

// flagKeys maps flat flag names to their nested config keys.
var flagKeys = map[string]string{
	"decision-url":         "decision.url",
	"decision-timeout":     "decision.timeout",
	"decision-model":       "decision.model",
	"decision-translation": "decision.translation",
}

// RegisterFlags adds the overridable settings to fs with Default values.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("log-format", d.LogFormat, "log format (json, text)")
	fs.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")
	fs.String("metrics-addr", d.MetricsAddr, "metrics/health HTTP address (empty = disabled)")
	fs.String("scenario", d.Scenario, "scenario file path")
	fs.Uint64("seed", d.Seed, "random seed for social rolls (0 = random)")
	fs.String("decision-url", d.Decision.URL, "decision service base URL")
	fs.Duration("decision-timeout", d.Decision.Timeout, "decision service request timeout")
	fs.String("decision-model", d.Decision.Model, "model requested from the decision service")
	fs.Bool("decision-translation", d.Decision.Translation, "use translated dialogue text when offered")
}

// Load builds the configuration. An empty path reads the XDG config file if
// it exists; an explicit path must exist. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		if p, err := xdg.ConfigFile(); err == nil {
			path = p
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, oops.Code(CodeInvalidConfig).With("path", path).Wrapf(err, "load config file")
			}
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key := f.Name
			if nested, ok := flagKeys[key]; ok {
				key = nested
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, oops.Code(CodeInvalidConfig).Wrapf(err, "load flags")
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code(CodeInvalidConfig).Wrapf(err, "decode config")
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code(CodeInvalidConfig).Errorf("log-format must be 'json' or 'text', got %q", c.LogFormat)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return oops.Code(CodeInvalidConfig).Errorf("log-level: %v", err)
	}
	if c.Scenario == "" {
		return oops.Code(CodeInvalidConfig).Errorf("scenario is required")
	}
	if _, err := os.Stat(c.Scenario); err != nil {
		return oops.Code(CodeInvalidConfig).With("path", c.Scenario).Wrapf(err, "scenario file")
	}
	if c.Decision.URL == "" {
		return oops.Code(CodeInvalidConfig).Errorf("decision.url is required")
	}
	if c.Decision.Timeout <= 0 {
		return oops.Code(CodeInvalidConfig).Errorf("decision.timeout must be positive, got %s", c.Decision.Timeout)
	}
	if c.Step <= 0 {
		return oops.Code(CodeInvalidConfig).Errorf("step must be positive, got %s", c.Step)
	}
	if c.ProximityRadius < 0 {
		return oops.Code(CodeInvalidConfig).Errorf("proximity-radius cannot be negative")
	}
	if len(c.FillerPatterns) > 0 {
		if _, err := intent.NewClassifier(c.FillerPatterns...); err != nil {
			return oops.Code(CodeInvalidConfig).Errorf("filler-patterns: %v", err)
		}
	}
	if p := c.Engine.SocialProbability; p < 0 || p > 1 {
		return oops.Code(CodeInvalidConfig).Errorf("engine.social-probability must be within [0, 1], got %g", p)
	}
	return nil
}
