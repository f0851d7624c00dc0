package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default rule file name.
const DefaultConfigFile = ".pastewatch"

// ErrConfigNotFound is returned when the rule file does not exist.
var ErrConfigNotFound = errors.New("rule file not found")

// LoadConfigFile loads watch rules from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the rule file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	return &f, nil
}

// FindConfigFile searches for the rule file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .pastewatch in the current directory
// 3. Look for .pastewatch in the user's home directory
// 4. Look for .pastewatch in the XDG config directory
//
// Returns the path to the rule file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	// Check XDG config directory
	xdgConfig := filepath.Join(XDGConfigDir(), DefaultConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}
