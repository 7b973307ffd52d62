// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/hearthsim/hearth/internal/stage"
)

// NewValidateCmd creates the validate subcommand.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario>...",
		Short: "Check scenario files without running them",
		Long: `Validate each scenario file against the scenario schema and check
cross references: unique actor ids and names, bedroom owners, positions
inside the bounds and a supported format version.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateScenarios(cmd, args)
		},
	}
}

func validateScenarios(cmd *cobra.Command, paths []string) error {
	var firstErr error
	for _, path := range paths {
		s, err := stage.Load(path)
		if err != nil {
			cmd.PrintErrf("%s: %v\n", path, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if _, err := s.Registry(); err != nil {
			cmd.PrintErrf("%s: %v\n", path, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		cmd.Printf("%s: ok (%d actors, %d locations)\n", path, len(s.Actors), len(s.Locations))
	}
	return firstErr
}
