package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func composedValidator(t *testing.T) *Validator {
	t.Helper()
	base, err := LoadBaseSchema()
	require.NoError(t, err)
	ms := Compose(base, map[string][]byte{
		"sqs-queue":         []byte(sqsSchema),
		"postgres-database": []byte(postgresSchema),
	})
	require.Empty(t, ms.Warnings)
	v, err := NewValidator(ms)
	require.NoError(t, err)
	return v
}

func validManifest() map[string]any {
	return map[string]any{
		"service":             "orders",
		"owner":               "team-orders",
		"complianceFramework": "commercial",
		"environment":         "staging",
		"components": []any{
			map[string]any{
				"name": "queue",
				"type": "sqs-queue",
				"config": map[string]any{
					"queueName": "orders-queue",
				},
			},
		},
	}
}

func TestValidator_AcceptsValidManifest(t *testing.T) {
	v := composedValidator(t)
	diags := v.Validate(validManifest())
	assert.Empty(t, diags)
}

func TestValidator_RejectsMissingRequiredTopLevelField(t *testing.T) {
	v := composedValidator(t)
	doc := validManifest()
	delete(doc, "owner")
	diags := v.Validate(doc)
	require.NotEmpty(t, diags)
}

func TestValidator_RejectsUnknownComplianceFramework(t *testing.T) {
	v := composedValidator(t)
	doc := validManifest()
	doc["complianceFramework"] = "bespoke"
	diags := v.Validate(doc)
	require.NotEmpty(t, diags)
}

func TestValidator_RejectsMissingRequiredComponentConfigField(t *testing.T) {
	v := composedValidator(t)
	doc := validManifest()
	components := doc["components"].([]any)
	comp := components[0].(map[string]any)
	comp["config"] = map[string]any{}
	diags := v.Validate(doc)
	require.NotEmpty(t, diags)
}

func TestValidator_AnnotatesComponentNameInPath(t *testing.T) {
	v := composedValidator(t)
	doc := validManifest()
	components := doc["components"].([]any)
	comp := components[0].(map[string]any)
	comp["config"] = map[string]any{}
	diags := v.Validate(doc)
	require.NotEmpty(t, diags)

	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, "queue") {
			found = true
		}
	}
	assert.True(t, found, "expected at least one diagnostic to name the failing component")
}
