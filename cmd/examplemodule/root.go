// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/holomush/examplemodule/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the examplemodule CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "examplemodule",
		Short: "examplemodule - an example region module and its console",
		Long: `examplemodule hosts the example region module against a set of
regions and gives the operator a command console for it and its scripts.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/examplemodule/config.yaml)")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewConfigCmd())

	return cmd
}

// resolveConfigPath returns the config path and whether it must exist.
// An explicit --config must exist; the XDG default may be absent.
func resolveConfigPath() (string, bool, error) {
	if configFile != "" {
		return configFile, true, nil
	}
	path, err := xdg.DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	return path, false, nil
}
