package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// FileConfig is the subset of ~/.synthctl/config.yaml keys that feed the
// config-file precedence tier of ResolveString.
type FileConfig struct {
	ConfigDir        string
	EnvironmentsDir  string
	PoliciesDir      string
	LogicalIDMapPath string
	OutputFormat     string
}

// LoadFileConfig reads ~/.synthctl/config.yaml via viper. A missing file is
// not an error: every field of the returned FileConfig stays empty, and
// ResolveString's config-file tier falls through to env/default as if the
// file had never been consulted.
func LoadFileConfig() (FileConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".synthctl"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return FileConfig{}, nil
		}
		return FileConfig{}, err
	}

	return FileConfig{
		ConfigDir:        v.GetString("config-dir"),
		EnvironmentsDir:  v.GetString("environments-dir"),
		PoliciesDir:      v.GetString("policies-dir"),
		LogicalIDMapPath: v.GetString("logical-id-map"),
		OutputFormat:     v.GetString("output-format"),
	}, nil
}
