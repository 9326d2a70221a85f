// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config loads examplemodule configuration from a YAML file and
// command-line flags.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/holomush/examplemodule/internal/command"
	"github.com/holomush/examplemodule/internal/logging"
)

// CodeInvalidConfig marks configuration errors.
const CodeInvalidConfig = "INVALID_CONFIG"

// Default values for top-level keys.
const (
	DefaultLogFormat   = logging.FormatJSON
	DefaultLogLevel    = "info"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultHostVersion = "0.9.0"
)

// Config is the decoded configuration file.
type Config struct {
	LogFormat       string         `koanf:"log-format" json:"log-format,omitempty" jsonschema:"enum=json,enum=text,description=Log output format"`
	LogLevel        string         `koanf:"log-level" json:"log-level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,description=Minimum log level"`
	MetricsAddr     string         `koanf:"metrics-addr" json:"metrics-addr,omitempty" jsonschema:"description=Metrics and health listen address; empty disables"`
	HostVersion     string         `koanf:"host-version" json:"host-version,omitempty" jsonschema:"description=Simulator version modules are checked against"`
	StrictArguments bool           `koanf:"strict-arguments" json:"strict-arguments,omitempty" jsonschema:"description=Reject commands with missing arguments"`
	ExampleModule   *ExampleModule `koanf:"example-module" json:"example-module,omitempty"`
	Regions         []Region       `koanf:"regions" json:"regions,omitempty"`
	Scripts         []Script       `koanf:"scripts" json:"scripts,omitempty"`

	path string
	k    *koanf.Koanf
}

// ExampleModule configures the example region module. Leaving the section
// out disables the module.
type ExampleModule struct {
	Enabled        *bool  `koanf:"enabled" json:"enabled,omitempty"`
	ExampleMessage string `koanf:"example-message" json:"example-message,omitempty" jsonschema:"description=Greeting shown to arriving clients"`
}

// Region names a scene created at startup.
type Region struct {
	Name string `koanf:"name" json:"name" jsonschema:"minLength=1"`
}

// Script binds a Lua file to a console command.
type Script struct {
	Name string           `koanf:"name" json:"name" jsonschema:"minLength=1"`
	File string           `koanf:"file" json:"file" jsonschema:"minLength=1"`
	Help string           `koanf:"help" json:"help,omitempty"`
	Args []ScriptArgument `koanf:"args" json:"args,omitempty"`
}

// ScriptArgument declares one positional argument of a script command.
type ScriptArgument struct {
	Name        string `koanf:"name" json:"name" jsonschema:"minLength=1"`
	Type        string `koanf:"type" json:"type,omitempty" jsonschema:"enum=string,enum=integer,enum=float"`
	Description string `koanf:"description" json:"description,omitempty"`
}

// BindFlags registers the flags that override top-level keys. Flag names
// match config keys.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("log-format", DefaultLogFormat, "log format (json or text)")
	fs.String("log-level", DefaultLogLevel, "log level (debug, info, warn, error)")
	fs.String("metrics-addr", DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	fs.String("host-version", DefaultHostVersion, "simulator version reported to modules")
	fs.Bool("strict-arguments", false, "reject commands with missing arguments")
}

// LoadOptions controls Load.
type LoadOptions struct {
	// Path is the config file. Empty means no file.
	Path string
	// Required makes a missing file an error.
	Required bool
	// Flags, if set, override file values.
	Flags *pflag.FlagSet
}

// Load reads the config file, validates it against the schema, and applies
// flag overrides.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	path := opts.Path
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
		switch {
		case errors.Is(err, fs.ErrNotExist) && !opts.Required:
			path = ""
		case err != nil:
			return nil, oops.Code(CodeInvalidConfig).With("path", path).Wrapf(err, "read config")
		default:
			if err := ValidateSchema(data); err != nil {
				return nil, oops.Code(CodeInvalidConfig).With("path", path).Wrap(err)
			}
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, oops.Code(CodeInvalidConfig).With("path", path).Wrapf(err, "parse config")
			}
		}
	}

	if opts.Flags != nil {
		if err := k.Load(posflag.Provider(opts.Flags, ".", k), nil); err != nil {
			return nil, oops.Code(CodeInvalidConfig).Wrapf(err, "apply flags")
		}
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, oops.Code(CodeInvalidConfig).Wrapf(err, "decode config")
	}
	cfg.applyDefaults()
	cfg.path = path
	cfg.k = k

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.HostVersion == "" {
		c.HostVersion = DefaultHostVersion
	}
}

// Validate checks values the schema cannot express.
func (c *Config) Validate() error {
	if err := logging.ValidateFormat(c.LogFormat); err != nil {
		return err
	}
	if _, err := semver.NewVersion(c.HostVersion); err != nil {
		return oops.Code(CodeInvalidConfig).
			With("host-version", c.HostVersion).
			Wrapf(err, "host-version is not semantic")
	}

	seen := make(map[string]bool, len(c.Regions))
	for i, r := range c.Regions {
		if r.Name == "" {
			return oops.Code(CodeInvalidConfig).With("index", i).Errorf("region name is required")
		}
		if seen[r.Name] {
			return oops.Code(CodeInvalidConfig).With("region", r.Name).Errorf("region %s listed twice", r.Name)
		}
		seen[r.Name] = true
	}

	for _, s := range c.Scripts {
		if err := command.ValidateCommandName(s.Name); err != nil {
			return oops.Code(CodeInvalidConfig).With("script", s.Name).Errorf("invalid script name: %v", err)
		}
		if s.File == "" {
			return oops.Code(CodeInvalidConfig).With("script", s.Name).Errorf("script file is required")
		}
		for _, a := range s.Args {
			switch command.ArgType(a.Type) {
			case "", command.ArgString, command.ArgInteger, command.ArgFloat:
			default:
				return oops.Code(CodeInvalidConfig).
					With("script", s.Name).
					With("arg", a.Name).
					Errorf("unknown argument type %q", a.Type)
			}
		}
	}
	return nil
}

// Koanf returns the merged key/value view, for modules reading their own
// sections.
func (c *Config) Koanf() *koanf.Koanf {
	if c.k == nil {
		c.k = koanf.New(".")
	}
	return c.k
}

// Path returns the config file that was loaded, or "" when none was.
func (c *Config) Path() string {
	return c.path
}

// ResolvePath resolves p against the config file's directory, falling back
// to base when no file was loaded.
func (c *Config) ResolvePath(p, base string) string {
	if filepath.IsAbs(p) {
		return p
	}
	if c.path != "" {
		return filepath.Join(filepath.Dir(c.path), p)
	}
	return filepath.Join(base, p)
}

// ArgumentSpecs converts a script's declared arguments.
func (s Script) ArgumentSpecs() []command.ArgumentSpec {
	specs := make([]command.ArgumentSpec, 0, len(s.Args))
	for _, a := range s.Args {
		specs = append(specs, command.ArgumentSpec{
			Name:        a.Name,
			Description: a.Description,
			Type:        command.ArgType(a.Type),
		})
	}
	return specs
}
