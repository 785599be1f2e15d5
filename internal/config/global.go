package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfig names a config file, overriding the global one.
	EnvConfig = "PUBPAGE_CONFIG"
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "pubpage"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/pubpage/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// Resolve loads the config to use for a run: the explicit path if given,
// then $PUBPAGE_CONFIG, then the global config file if it exists, and
// finally the built-in defaults.
func Resolve(explicit string) (*Config, string, error) {
	path := explicit
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		path = ExpandPath(path)
		cfg, err := Load(path)
		return cfg, path, err
	}

	global := GlobalConfigPath()
	if global != "" {
		if _, err := os.Stat(global); err == nil {
			cfg, err := Load(global)
			return cfg, global, err
		}
	}

	return Default(), "", nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
