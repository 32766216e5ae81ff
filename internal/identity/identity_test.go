package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/synthctl/synthctl/internal/core"
)

func TestHash_Deterministic(t *testing.T) {
	path := ConstructPath{"checkout", "database"}
	h1 := Hash(path)
	h2 := Hash(path)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 8)
	assert.Equal(t, h1, strings.ToUpper(h1))
}

func TestHash_DifferentPathsDifferentHashes(t *testing.T) {
	h1 := Hash(ConstructPath{"checkout", "database"})
	h2 := Hash(ConstructPath{"checkout", "queue"})
	assert.NotEqual(t, h1, h2)
}

func TestLogicalIDMap_Validate_RejectsNonBijective(t *testing.T) {
	m := &LogicalIDMap{
		Mappings: map[string]Mapping{
			"new-a": {OriginalID: "orig-1"},
			"new-b": {OriginalID: "orig-1"},
		},
	}
	err := m.Validate()
	require.Error(t, err)
}

func TestLogicalIDMap_Validate_AcceptsBijective(t *testing.T) {
	m := &LogicalIDMap{
		Mappings: map[string]Mapping{
			"new-a": {OriginalID: "orig-1"},
			"new-b": {OriginalID: "orig-2"},
		},
	}
	require.NoError(t, m.Validate())
}

func gvk(kind string) schema.GroupVersionKind {
	return schema.GroupVersionKind{Group: "synthctl.dev", Version: "v1", Kind: kind}
}

func TestResolver_Assign_StatefulUsesPreserveStrategy(t *testing.T) {
	res := core.NewResource(gvk("PostgresDatabase"), "database", "db", "", nil)
	r := NewResolver(nil)
	_, strategy := r.Assign(res, ConstructPath{"checkout", "database"})
	assert.Equal(t, StrategyPreserveStatefulResources, strategy)
}

func TestResolver_Assign_HonorsExistingMapping(t *testing.T) {
	existing := &LogicalIDMap{
		Mappings: map[string]Mapping{
			"new-id": {
				OriginalID:           "OriginalDatabaseABC123",
				ResourceType:         "PostgresDatabase",
				ComponentName:        "database",
				PreservationStrategy: StrategyPreserveStatefulResources,
			},
		},
	}
	res := core.NewResource(gvk("PostgresDatabase"), "database", "db", "", nil)
	r := NewResolver(existing)
	logicalID, strategy := r.Assign(res, ConstructPath{"checkout", "db"})
	assert.Equal(t, "OriginalDatabaseABC123", logicalID)
	assert.Equal(t, StrategyPreserveStatefulResources, strategy)
}

func TestResolver_Assign_HonorsMappingAcrossComponentRename(t *testing.T) {
	existing := &LogicalIDMap{
		Mappings: map[string]Mapping{
			"new-id": {
				OriginalID:           "OriginalDatabaseABC123",
				ResourceType:         "PostgresDatabase",
				ComponentName:        "database",
				PreservationStrategy: StrategyPreserveStatefulResources,
			},
		},
	}
	res := core.NewResource(gvk("PostgresDatabase"), "db", "db", "", nil)
	r := NewResolver(existing)
	logicalID, strategy := r.Assign(res, ConstructPath{"checkout", "db"})
	assert.Equal(t, "OriginalDatabaseABC123", logicalID)
	assert.Equal(t, StrategyPreserveStatefulResources, strategy)
}

func TestResolver_Analyze_NoDriftAcrossComponentRename(t *testing.T) {
	existing := &LogicalIDMap{
		Mappings: map[string]Mapping{
			"new-id": {
				OriginalID:    "OriginalDatabaseABC123",
				ResourceType:  "PostgresDatabase",
				ComponentName: "database",
			},
		},
	}
	res := core.NewResource(gvk("PostgresDatabase"), "db", "db", "", nil)
	r := NewResolver(existing)
	logicalID, _ := r.Assign(res, ConstructPath{"checkout", "db"})
	analysis := r.Analyze([]*core.Resource{res}, map[*core.Resource]string{res: logicalID})

	assert.Empty(t, analysis.Detected)
	assert.Equal(t, SeverityLow, analysis.RiskLevel)
}

func TestResolver_Analyze_StatefulWithoutMappingIsCritical(t *testing.T) {
	res := core.NewResource(gvk("KeyStore"), "vault", "vault", "", nil)
	r := NewResolver(nil)
	logicalID, _ := r.Assign(res, ConstructPath{"checkout", "vault"})
	analysis := r.Analyze([]*core.Resource{res}, map[*core.Resource]string{res: logicalID})

	require.Len(t, analysis.Detected, 1)
	assert.Equal(t, "stateful-without-mapping", analysis.Detected[0].Kind)
	// The individual finding is "high" severity; RiskLevel still escalates
	// to "critical" since that's what the validateBeforePlan abort checks.
	assert.Equal(t, SeverityHigh, analysis.Detected[0].Severity)
	assert.Equal(t, SeverityCritical, analysis.RiskLevel)
}

func TestResolver_Analyze_NoDriftWhenMapped(t *testing.T) {
	existing := &LogicalIDMap{
		Mappings: map[string]Mapping{
			"new-id": {
				OriginalID:    "OriginalDatabaseABC123",
				ResourceType:  "PostgresDatabase",
				ComponentName: "database",
			},
		},
	}
	res := core.NewResource(gvk("PostgresDatabase"), "database", "db", "", nil)
	r := NewResolver(existing)
	logicalID, _ := r.Assign(res, ConstructPath{"checkout", "db"})
	analysis := r.Analyze([]*core.Resource{res}, map[*core.Resource]string{res: logicalID})

	assert.Empty(t, analysis.Detected)
	assert.Equal(t, SeverityLow, analysis.RiskLevel)
}

func TestMax(t *testing.T) {
	assert.Equal(t, SeverityHigh, Max(SeverityLow, SeverityHigh))
	assert.Equal(t, SeverityCritical, Max(SeverityCritical, SeverityMedium))
}
