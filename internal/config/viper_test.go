package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFileConfig_MissingFileReturnsZeroValue(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadFileConfig()
	require.NoError(t, err)
	require.Equal(t, FileConfig{}, cfg)
}

func TestLoadFileConfig_ReadsKnownKeys(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".synthctl")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	contents := "config-dir: /etc/synthctl/config\n" +
		"environments-dir: /etc/synthctl/environments\n" +
		"policies-dir: /etc/synthctl/policies\n" +
		"logical-id-map: /var/lib/synthctl/logical-id-map.json\n" +
		"output-format: json\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(contents), 0o644))

	cfg, err := LoadFileConfig()
	require.NoError(t, err)
	require.Equal(t, FileConfig{
		ConfigDir:        "/etc/synthctl/config",
		EnvironmentsDir:  "/etc/synthctl/environments",
		PoliciesDir:      "/etc/synthctl/policies",
		LogicalIDMapPath: "/var/lib/synthctl/logical-id-map.json",
		OutputFormat:     "json",
	}, cfg)
}
