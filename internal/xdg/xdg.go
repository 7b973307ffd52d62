// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

// Package xdg provides XDG Base Directory paths for Hearth.
package xdg

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

const (
	appName    = "hearth"
	configFile = "config.yaml"
)

// ConfigDir returns the XDG config directory for hearth.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func ConfigDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home := os.Getenv("HOME")
		if home == "" {
			return "", oops.Code("CONFIG_INVALID").Errorf("neither XDG_CONFIG_HOME nor HOME is set")
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appName), nil
}

// ConfigFile returns the default config file path.
func ConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}
