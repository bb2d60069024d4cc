// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

// Package xdg resolves XDG Base Directory paths for PanicPal.
package xdg

import (
	"errors"
	"os"
	"path/filepath"
)

const appName = "panicpal"

// configFileName is the name of the config file inside ConfigDir.
const configFileName = "config.yaml"

// ConfigDir returns the XDG config directory for panicpal.
// Checks XDG_CONFIG_HOME first, falls back to $HOME/.config.
func ConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appName)
}

// ConfigFile returns the default config file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), configFileName)
}

// DefaultConfigFile returns ConfigFile if it exists, or "" if it does not.
// Any stat error other than non-existence is returned.
func DefaultConfigFile() (string, error) {
	path := ConfigFile()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return path, nil
}
