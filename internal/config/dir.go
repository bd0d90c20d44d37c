// Package config resolves gy's configuration locations and the stored
// Anthropic credential.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the gy configuration directory used for the global prompt
// template and env file.
//
// Resolution:
//   - $GY_CONFIG_HOME if set
//   - $XDG_CONFIG_HOME/gy if set
//   - %AppData%/gy on Windows
//   - ~/.config/gy on macOS and Linux
func Dir() string {
	if dir := os.Getenv("GY_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gy")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "gy")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gy")
}

// Path returns the credential file location: $GY_CONFIG if set,
// otherwise ~/.gy_config.json.
func Path() (string, error) {
	if path := os.Getenv("GY_CONFIG"); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fileName), nil
}
