package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthctl/synthctl/internal/capability"
	"github.com/synthctl/synthctl/internal/component"
	"github.com/synthctl/synthctl/internal/core"
)

func testEngine() *Engine {
	return NewEngine(component.DefaultRegistry(), capability.DefaultRegistry())
}

func queueThenAPIManifest() *core.Manifest {
	return &core.Manifest{
		Service:             "orders",
		ComplianceFramework: core.FrameworkCommercial,
		Environment:         "staging",
		Components: []core.ComponentSpec{
			{Name: "api", Type: "lambda-api", Config: map[string]any{"runtime": "go1.x", "handler": "main"}},
			{Name: "q", Type: "sqs-queue", Config: map[string]any{"queueName": "q"}},
		},
		Binds: []core.BindingDirective{
			{From: "api", To: "q", Capability: "queue:sqs", Access: core.AccessConsume},
		},
	}
}

func contextsAndConfigs(m *core.Manifest) (map[string]core.ComponentContext, map[string]*core.EffectiveConfig) {
	contexts := map[string]core.ComponentContext{}
	configs := map[string]*core.EffectiveConfig{}
	for _, c := range m.Components {
		contexts[c.Name] = core.ComponentContext{
			ServiceName:         m.Service,
			Environment:         m.Environment,
			ComplianceFramework: m.ComplianceFramework,
		}
		configs[c.Name] = &core.EffectiveConfig{Values: c.Config, Provenance: map[string]core.ProvenanceLeaf{}}
	}
	return contexts, configs
}

func TestResolve_OrdersDependencyTargetBeforeSource(t *testing.T) {
	e := testEngine()
	m := queueThenAPIManifest()
	contexts, configs := contextsAndConfigs(m)

	result, err := e.Resolve(m, contexts, configs)
	require.NoError(t, err)

	qIdx, apiIdx := -1, -1
	for i, name := range result.Order {
		switch name {
		case "q":
			qIdx = i
		case "api":
			apiIdx = i
		}
	}
	assert.Less(t, qIdx, apiIdx, "sqs-queue (bind target) must synthesize before lambda-api (bind source)")
}

func TestResolve_TieBreaksByDeclarationOrder(t *testing.T) {
	e := testEngine()
	m := &core.Manifest{
		Service:             "orders",
		ComplianceFramework: core.FrameworkCommercial,
		Components: []core.ComponentSpec{
			{Name: "second", Type: "sqs-queue", Config: map[string]any{"queueName": "b"}},
			{Name: "first", Type: "sns-topic", Config: map[string]any{}},
		},
	}
	contexts, configs := contextsAndConfigs(m)

	result, err := e.Resolve(m, contexts, configs)
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, result.Order)
}

func TestResolve_CyclicGraphDetected(t *testing.T) {
	e := testEngine()
	m := &core.Manifest{
		Service: "orders",
		Components: []core.ComponentSpec{
			{Name: "a", Type: "sqs-queue", Config: map[string]any{"queueName": "a"}},
			{Name: "b", Type: "sns-topic", Config: map[string]any{}},
		},
		Binds: []core.BindingDirective{
			{From: "a", To: "b", Capability: "topic:sns", Access: core.AccessUse},
			{From: "b", To: "a", Capability: "queue:sqs", Access: core.AccessConsume},
		},
	}
	contexts, configs := contextsAndConfigs(m)

	_, err := e.Resolve(m, contexts, configs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cyclic")
}

func TestResolve_BindsAfterSynthesisAndRecordsSuccess(t *testing.T) {
	e := testEngine()
	m := queueThenAPIManifest()
	contexts, configs := contextsAndConfigs(m)

	result, err := e.Resolve(m, contexts, configs)
	require.NoError(t, err)
	require.Len(t, result.BindingResults, 1)
	assert.True(t, result.BindingResults[0].Metadata.Success)
	assert.Empty(t, result.Diagnostics)
}

func TestResolve_UnresolvedBindingRecordsDiagnosticNotError(t *testing.T) {
	e := testEngine()
	m := &core.Manifest{
		Service: "orders",
		Components: []core.ComponentSpec{
			{Name: "api", Type: "lambda-api", Config: map[string]any{"runtime": "go1.x", "handler": "main"}},
			{Name: "notify", Type: "sns-topic", Config: map[string]any{}},
		},
		Binds: []core.BindingDirective{
			{From: "api", To: "notify", Capability: "queue:sns", Access: core.AccessForward},
		},
	}
	contexts, configs := contextsAndConfigs(m)

	result, err := e.Resolve(m, contexts, configs)
	require.NoError(t, err)
	require.Len(t, result.BindingResults, 1)
	assert.False(t, result.BindingResults[0].Metadata.Success)
	require.Len(t, result.Diagnostics, 1)
}

func TestResolve_UnknownComponentTypeFails(t *testing.T) {
	e := testEngine()
	m := &core.Manifest{
		Service:    "orders",
		Components: []core.ComponentSpec{{Name: "weird", Type: "quantum-bridge"}},
	}
	contexts, configs := contextsAndConfigs(m)

	_, err := e.Resolve(m, contexts, configs)
	require.Error(t, err)
}
