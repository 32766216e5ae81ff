package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthctl/synthctl/internal/capability"
	"github.com/synthctl/synthctl/internal/component"
	"github.com/synthctl/synthctl/internal/core"
)

func newChecker() *Checker {
	return NewChecker(component.DefaultRegistry(), capability.DefaultRegistry())
}

func manifestWithComponents(env string, comps ...core.ComponentSpec) *core.Manifest {
	return &core.Manifest{
		Service:     "orders",
		Environment: env,
		Components:  comps,
	}
}

func TestCheck_UnresolvedBindFromAndTo(t *testing.T) {
	c := newChecker()
	m := manifestWithComponents("staging", core.ComponentSpec{Name: "api", Type: "lambda-api"})
	m.Binds = []core.BindingDirective{{From: "api", To: "missing", Capability: "queue:sqs", Access: core.AccessConsume}}

	diags := c.Check(m)
	require.Len(t, diags, 1)
	assert.Equal(t, "binds[0].to", diags[0].Path)
}

func TestCheck_SelfLoopBindRejected(t *testing.T) {
	c := newChecker()
	m := manifestWithComponents("staging", core.ComponentSpec{Name: "api", Type: "lambda-api"})
	m.Binds = []core.BindingDirective{{From: "api", To: "api", Capability: "compute:lambda-api", Access: core.AccessInvoke}}

	diags := c.Check(m)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "self-loop")
}

func TestCheck_UnsupportedCapabilitySuggestsBindTargets(t *testing.T) {
	c := newChecker()
	m := manifestWithComponents("staging",
		core.ComponentSpec{Name: "api", Type: "lambda-api"},
		core.ComponentSpec{Name: "notify", Type: "sns-topic"},
	)
	m.Binds = []core.BindingDirective{{From: "api", To: "notify", Capability: "queue:sns", Access: core.AccessForward}}

	diags := c.Check(m)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Suggestion, "queue:sqs")
	assert.Contains(t, diags[0].Suggestion, "db:postgres")
	assert.Contains(t, diags[0].Suggestion, "bucket:s3")
}

func TestCheck_UnsupportedAccessModeRejected(t *testing.T) {
	c := newChecker()
	m := manifestWithComponents("staging",
		core.ComponentSpec{Name: "api", Type: "lambda-api"},
		core.ComponentSpec{Name: "q", Type: "sqs-queue"},
	)
	m.Binds = []core.BindingDirective{{From: "api", To: "q", Capability: "queue:sqs", Access: core.AccessAdmin}}

	diags := c.Check(m)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "access mode")
}

func TestCheck_ValidBindPasses(t *testing.T) {
	c := newChecker()
	m := manifestWithComponents("staging",
		core.ComponentSpec{Name: "api", Type: "lambda-api"},
		core.ComponentSpec{Name: "q", Type: "sqs-queue"},
	)
	m.Binds = []core.BindingDirective{{From: "api", To: "q", Capability: "queue:sqs", Access: core.AccessConsume}}

	assert.Empty(t, c.Check(m))
}

func TestCheck_TriggerUnknownEventRejectedWithSuggestion(t *testing.T) {
	c := newChecker()
	m := manifestWithComponents("staging",
		core.ComponentSpec{Name: "q", Type: "sqs-queue"},
		core.ComponentSpec{Name: "api", Type: "lambda-api"},
	)
	m.Triggers = []core.TriggerDirective{{From: "q", Event: "bogus-event", To: "api", Action: "invoke"}}

	diags := c.Check(m)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Suggestion, "message-available")
}

func TestCheck_TriggerKnownEventPasses(t *testing.T) {
	c := newChecker()
	m := manifestWithComponents("staging",
		core.ComponentSpec{Name: "q", Type: "sqs-queue"},
		core.ComponentSpec{Name: "api", Type: "lambda-api"},
	)
	m.Triggers = []core.TriggerDirective{{From: "q", Event: "message-available", To: "api", Action: "invoke"}}

	assert.Empty(t, c.Check(m))
}

func TestCheck_ProductionRequiresMonitoring(t *testing.T) {
	c := newChecker()
	m := manifestWithComponents("production",
		core.ComponentSpec{Name: "api", Type: "lambda-api", Config: map[string]any{"monitoring": false}},
	)

	diags := c.Check(m)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "disables monitoring")
}

func TestCheck_NonProductionDoesNotRequireMonitoring(t *testing.T) {
	c := newChecker()
	m := manifestWithComponents("staging",
		core.ComponentSpec{Name: "api", Type: "lambda-api", Config: map[string]any{"monitoring": false}},
	)

	assert.Empty(t, c.Check(m))
}
