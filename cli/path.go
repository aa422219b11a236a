package cli

import (
	"os"
	"path/filepath"
)

const (
	// configFile is the base name of the YAML configuration file.
	configFile = "config.yaml"

	// historyFile is the base name of the REPL history file in $HOME.
	historyFile = ".lox_history"
)

// userDir returns a per-user directory below the directory reported by
// base, falling back to fallback under $HOME and finally to the working
// directory.
func userDir(base func() (string, error), fallback string) string {
	dir, err := base()
	if err != nil {
		dir, err = os.UserHomeDir()
		if err == nil {
			dir = filepath.Join(dir, fallback)
		} else {
			dir, err = os.Getwd()
			if err != nil {
				dir = "."
			}
		}
	}

	return filepath.Join(dir, Name)
}

// configDir returns the configuration directory path.
func configDir() string {
	return userDir(os.UserConfigDir, ".config")
}

// cacheDir returns the cache directory path used for transient files such
// as profiles.
func cacheDir() string {
	return userDir(os.UserCacheDir, ".cache")
}

// configPath returns the default configuration file path.
func configPath() string {
	return filepath.Join(configDir(), configFile)
}

// historyPath returns the REPL history file, or "" without a home
// directory.
func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}

	return filepath.Join(home, historyFile)
}
