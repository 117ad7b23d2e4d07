package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const appDir = "spellmask"

var configFilenames = []string{
	"config.yaml",
	"config.yml",
	"config.toml",
	"config.json",
}

// Find locates the configuration file. It returns the path and where it was
// found ("explicit", "xdg" or "home"), or an empty path when there is none.
func Find(explicitPath, xdgHome, home string) (string, string, error) {
	if explicit := strings.TrimSpace(explicitPath); explicit != "" {
		candidate, err := filepath.Abs(explicit)
		if err != nil {
			return "", "", err
		}
		info, err := os.Stat(candidate)
		if err != nil {
			return "", "", err
		}
		if info.IsDir() {
			return "", "", fmt.Errorf("config %q points to a directory", candidate)
		}
		return candidate, "explicit", nil
	}

	homeDir := strings.TrimSpace(home)
	if homeDir == "" {
		if h, err := os.UserHomeDir(); err == nil {
			homeDir = h
		}
	}
	if xdgRoot := strings.TrimSpace(xdgHome); xdgRoot != "" {
		if candidate := firstExisting(filepath.Join(xdgRoot, appDir)); candidate != "" {
			return candidate, "xdg", nil
		}
	}
	if homeDir != "" {
		if candidate := firstExisting(filepath.Join(homeDir, ".config", appDir)); candidate != "" {
			return candidate, "home", nil
		}
	}
	return "", "", nil
}

func firstExisting(dir string) string {
	for _, name := range configFilenames {
		candidate := filepath.Join(dir, name)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
