package context

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthctl/synthctl/internal/core"
)

func testManifest() *core.Manifest {
	return &core.Manifest{
		Service:             "checkout",
		Owner:               "payments-team",
		ComplianceFramework: core.FrameworkFedRAMPHigh,
		Environment:         "production",
		Components: []core.ComponentSpec{
			{Name: "api", Type: "lambda-api"},
			{Name: "database", Type: "postgres-database"},
		},
		Tags: map[string]string{"cost-center": "eng-123"},
	}
}

func TestHydrate_OneContextPerComponent(t *testing.T) {
	ctxs := Hydrate(testManifest(), Options{Region: "us-east-1", AccountID: "123456789012"})
	require.Len(t, ctxs, 2)
	assert.Contains(t, ctxs, "api")
	assert.Contains(t, ctxs, "database")
}

func TestHydrate_PropagatesManifestFields(t *testing.T) {
	ctxs := Hydrate(testManifest(), Options{Region: "us-east-1", AccountID: "123456789012"})
	api := ctxs["api"]
	assert.Equal(t, "checkout", api.ServiceName)
	assert.Equal(t, "payments-team", api.Owner)
	assert.Equal(t, core.FrameworkFedRAMPHigh, api.ComplianceFramework)
	assert.Equal(t, "us-east-1", api.Region)
	assert.Equal(t, "123456789012", api.AccountID)
}

func TestHydrate_ScopeIsNestedUnderService(t *testing.T) {
	ctxs := Hydrate(testManifest(), Options{})
	assert.Equal(t, "checkout/api", ctxs["api"].Scope.Path)
	assert.Equal(t, "checkout/database", ctxs["database"].Scope.Path)
}

func TestHydrate_ServiceLabelsIncludeTags(t *testing.T) {
	ctxs := Hydrate(testManifest(), Options{})
	assert.Equal(t, "eng-123", ctxs["api"].ServiceLabels["cost-center"])
	assert.Equal(t, core.ManagedByValue, ctxs["api"].ServiceLabels[core.LabelManagedBy])
}
