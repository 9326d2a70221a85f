// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/examplemodule/internal/command"
	"github.com/holomush/examplemodule/pkg/errutil"
)

const sampleConfig = `
log-format: text
metrics-addr: ""
host-version: 0.8.1
example-module:
  enabled: true
  example-message: Welcome to the Metaverse!
regions:
  - name: Alpha
  - name: Beta
scripts:
  - name: roll
    file: roll.lua
    help: Roll a die
    args:
      - name: sides
        type: integer
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	cfg, err := Load(LoadOptions{Path: path, Required: true})
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Equal(t, "0.8.1", cfg.HostVersion)
	require.NotNil(t, cfg.ExampleModule)
	assert.Equal(t, "Welcome to the Metaverse!", cfg.ExampleModule.ExampleMessage)
	assert.Equal(t, []Region{{Name: "Alpha"}, {Name: "Beta"}}, cfg.Regions)
	require.Len(t, cfg.Scripts, 1)
	assert.Equal(t, "roll", cfg.Scripts[0].Name)
	assert.Equal(t, path, cfg.Path())

	k := cfg.Koanf()
	assert.True(t, k.Exists("example-module"))
	assert.True(t, k.Bool("example-module.enabled"))
	assert.Equal(t, "Welcome to the Metaverse!", k.String("example-module.example-message"))
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	fs := newFlags(t, "--log-format=json", "--strict-arguments")

	cfg, err := Load(LoadOptions{Path: path, Flags: fs})
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.StrictArguments)
	assert.True(t, cfg.Koanf().Bool("strict-arguments"))
	// Unset flags do not clobber file values.
	assert.Equal(t, "0.8.1", cfg.HostVersion)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoad_FlagDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(LoadOptions{Flags: newFlags(t)})
	require.NoError(t, err)

	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.Equal(t, DefaultMetricsAddr, cfg.MetricsAddr)
	assert.Equal(t, DefaultHostVersion, cfg.HostVersion)
	assert.Nil(t, cfg.ExampleModule)
	assert.False(t, cfg.Koanf().Exists("example-module"))
	assert.Empty(t, cfg.Path())
}

func TestLoad_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := Load(LoadOptions{Path: missing})
	require.NoError(t, err)
	assert.Empty(t, cfg.Path())

	_, err = Load(LoadOptions{Path: missing, Required: true})
	errutil.AssertErrorCode(t, err, CodeInvalidConfig)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "colour: blue\n"},
		{"bad log format", "log-format: xml\n"},
		{"bad host version", "host-version: latest\n"},
		{"duplicate region", "regions:\n  - name: A\n  - name: A\n"},
		{"region without name", "regions:\n  - {}\n"},
		{"bad script name", "scripts:\n  - name: 9roll\n    file: roll.lua\n"},
		{"bad arg type", "scripts:\n  - name: roll\n    file: roll.lua\n    args:\n      - name: n\n        type: dice\n"},
		{"bad yaml", "regions: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(LoadOptions{Path: writeConfig(t, tt.content), Required: true})
			errutil.AssertErrorCode(t, err, CodeInvalidConfig)
		})
	}
}

func TestConfig_ResolvePath(t *testing.T) {
	path := writeConfig(t, "")
	cfg, err := Load(LoadOptions{Path: path})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(path), "roll.lua"), cfg.ResolvePath("roll.lua", "/base"))
	assert.Equal(t, "/abs/roll.lua", cfg.ResolvePath("/abs/roll.lua", "/base"))

	noFile := &Config{}
	assert.Equal(t, "/base/roll.lua", noFile.ResolvePath("roll.lua", "/base"))
}

func TestScript_ArgumentSpecs(t *testing.T) {
	s := Script{Args: []ScriptArgument{{Name: "sides", Type: "integer", Description: "faces"}}}
	assert.Equal(t, []command.ArgumentSpec{{Name: "sides", Type: command.ArgInteger, Description: "faces"}}, s.ArgumentSpecs())
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, SchemaID, schema["$id"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"log-format", "metrics-addr", "host-version", "strict-arguments", "example-module", "regions", "scripts"} {
		assert.Contains(t, props, key)
	}
}

func TestValidateSchema(t *testing.T) {
	assert.NoError(t, ValidateSchema([]byte(sampleConfig)))
	assert.NoError(t, ValidateSchema(nil))

	err := ValidateSchema([]byte("log-format: xml\n"))
	errutil.AssertErrorCode(t, err, CodeInvalidConfig)
	assert.NotContains(t, FormatSchemaError(err), "schema validation failed: ")
	assert.Empty(t, FormatSchemaError(nil))
}
