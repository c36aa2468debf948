package uiconfig

import (
	"os"
	"path/filepath"
	"strings"
)

const defaultSettingsFileName = "settings.db"

// ResolveDefaultPath returns the default path for local settings storage.
func ResolveDefaultPath() string {
	base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME"))
	if base == "" {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		if dir, err := os.UserConfigDir(); err == nil && strings.TrimSpace(dir) != "" {
			base = dir
		}
	}
	if base == "" {
		base = "."
	}
	return filepath.Join(base, "compassai", defaultSettingsFileName)
}
