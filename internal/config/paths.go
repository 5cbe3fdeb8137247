package config

import (
	"os"
	"path/filepath"
)

const (
	ConfigFileName   = "config.toml"
	GlobalConfigDir  = ".config/trellis"
	DotenvFileName   = ".env"
	ConfigPathEnvVar = "TRELLIS_CONFIG"
)

// ConfigPath returns the path of the config file. TRELLIS_CONFIG overrides
// the default of ~/.config/trellis/config.toml. Returns "" if the home
// directory cannot be determined.
func ConfigPath() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, ConfigFileName)
}

// DotenvPaths returns the .env files consulted for overrides, in priority
// order: the working directory first, then the config directory.
func DotenvPaths(configPath string) []string {
	paths := []string{DotenvFileName}
	if configPath != "" {
		paths = append(paths, filepath.Join(filepath.Dir(configPath), DotenvFileName))
	}
	return paths
}
