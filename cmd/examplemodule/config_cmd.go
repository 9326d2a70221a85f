// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/examplemodule/internal/config"
	"github.com/holomush/examplemodule/internal/xdg"
)

// defaultConfigYAML is written by "config init".
const defaultConfigYAML = `# yaml-language-server: $schema=` + config.SchemaID + `
log-format: text
metrics-addr: "127.0.0.1:9100"
host-version: ` + config.DefaultHostVersion + `
strict-arguments: false
example-module:
  enabled: true
  example-message: "Welcome to the Metaverse!"
regions:
  - name: Alpha
`

// NewConfigCmd creates the config subcommand tree.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate configuration",
	}
	cmd.AddCommand(newConfigSchemaCmd())
	cmd.AddCommand(newConfigValidateCmd())
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the config file JSON Schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a config file",
		Long: `Validate a config file against the schema and value rules.
Defaults to --config, then XDG_CONFIG_HOME/examplemodule/config.yaml.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _, err := resolveConfigPath()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				path = args[0]
			}

			cfg, err := config.Load(config.LoadOptions{Path: path, Required: true})
			if err != nil {
				cmd.PrintErrf("%s: %s\n", path, config.FormatSchemaError(err))
				return err
			}
			cmd.Printf("%s: ok (%d regions, %d scripts)\n", path, len(cfg.Regions), len(cfg.Scripts))
			return nil
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _, err := resolveConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return oops.Code("CONFIG_EXISTS").
					With("path", path).
					Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := xdg.EnsureDir(filepath.Dir(path)); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o600); err != nil {
				return oops.With("path", path).Wrapf(err, "write config")
			}
			cmd.Printf("wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
