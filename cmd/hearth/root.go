// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the hearth CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hearth",
		Short: "Hearth - autonomous household actors",
		Long: `Hearth runs autonomous actors in a shared household. Each actor asks an
external decision service what to do next and carries the answer out as
speech, movement, waiting and conversation.`,
		SilenceUsage: true,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/hearth/config.yaml)")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewSchemaCmd())

	return cmd
}
