package identity

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthctl/synthctl/internal/testutil"
)

func TestLoad_MissingFileReturnsNil(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	m, err := Load(filepath.Join(dir, "logical-id-map.json"))
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()
	path := filepath.Join(dir, DefaultMapFilename)

	original := NewLogicalIDMap("checkout", "staging")
	original.Mappings["new-id"] = Mapping{
		OriginalID:           "OriginalDatabaseABC123",
		ResourceType:         "PostgresDatabase",
		ComponentName:        "database",
		PreservationStrategy: StrategyPreserveStatefulResources,
	}

	require.NoError(t, Save(path, original))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "checkout", loaded.StackName)
	assert.Equal(t, "OriginalDatabaseABC123", loaded.Mappings["new-id"].OriginalID)
}

func TestLoad_RejectsNonBijectiveMap(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()
	path := testutil.WriteFile(t, dir, "logical-id-map.json", `{
		"version": 1,
		"stackName": "checkout",
		"environment": "staging",
		"mappings": {
			"new-a": {"originalId": "orig-1"},
			"new-b": {"originalId": "orig-1"}
		}
	}`)

	_, err := Load(path)
	require.Error(t, err)
}
