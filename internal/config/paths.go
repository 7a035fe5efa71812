package config

import (
	"os"
	"path/filepath"
)

// Environment overrides for the data locations.
const (
	EnvHome = "TAXIS_HOME"
	EnvDB   = "TAXIS_DB"
)

// DataDir returns the directory used to store taxis data.
func DataDir() (string, error) {
	if d := os.Getenv(EnvHome); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taxis"), nil
}

// DBPath returns the full path to the SQLite database file used by serve.
func DBPath() (string, error) {
	if p := os.Getenv(EnvDB); p != "" {
		return p, nil
	}
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "taxis.db"), nil
}

// ConfigPath returns the default location of the YAML config file.
func ConfigPath() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.yaml"), nil
}
