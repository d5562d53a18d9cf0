package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// ConfigDir returns the XDG-compliant config directory for credstore
// Typically ~/.config/credstore/ on Linux
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, "credstore")
}

// ConfigPath returns the full path to the config file
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json5")
}

// DataDir returns the XDG-compliant data directory for credstore
// Typically ~/.local/share/credstore/ on Linux (file backend, warning marker)
func DataDir() string {
	return filepath.Join(xdg.DataHome, "credstore")
}
