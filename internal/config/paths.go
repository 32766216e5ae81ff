// Package config resolves synthctl's own ambient CLI settings.
package config

import (
	"os"
	"path/filepath"
)

// Paths contains standard filesystem paths for the CLI.
type Paths struct {
	// ConfigFile is the path to the CLI's own ambient config file (~/.synthctl/config.yaml).
	ConfigFile string

	// CacheDir is the path to the cache directory (~/.synthctl/cache).
	// Nothing reads or writes it; the composed master schema is cached in
	// memory only.
	CacheDir string

	// HomeDir is the path to the synthctl home directory (~/.synthctl).
	HomeDir string
}

// DefaultPaths returns the default paths, expanding ~ to the user's home directory.
func DefaultPaths() (*Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	synthctlHome := filepath.Join(homeDir, ".synthctl")
	return &Paths{
		ConfigFile: filepath.Join(synthctlHome, "config.yaml"),
		CacheDir:   filepath.Join(synthctlHome, "cache"),
		HomeDir:    synthctlHome,
	}, nil
}

// PathsFromEnv returns paths considering environment overrides.
func PathsFromEnv() (*Paths, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}

	if configPath := os.Getenv("SYNTHCTL_CONFIG"); configPath != "" {
		paths.ConfigFile = configPath
	}
	if cacheDir := os.Getenv("SYNTHCTL_CACHE_DIR"); cacheDir != "" {
		paths.CacheDir = cacheDir
	}

	return paths, nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}
	if path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if len(path) == 1 {
		return homeDir, nil
	}
	return filepath.Join(homeDir, path[1:]), nil
}

// EnsureDir ensures a directory exists with the given permissions.
func EnsureDir(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}
