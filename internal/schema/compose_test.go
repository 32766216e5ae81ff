package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sqsSchema = `{
  "type": "object",
  "x-component-type": "sqs-queue",
  "required": ["queueName"],
  "properties": {
    "queueName": { "type": "string" },
    "redrivePolicy": { "$ref": "#/definitions/redrivePolicy" }
  },
  "definitions": {
    "redrivePolicy": {
      "type": "object",
      "properties": { "maxReceiveCount": { "type": "integer" } }
    }
  }
}`

const postgresSchema = `{
  "type": "object",
  "x-component-type": "postgres-database",
  "required": ["engineVersion"],
  "properties": {
    "engineVersion": { "type": "string" },
    "encryption": { "type": "boolean", "default": false }
  }
}`

func TestCompose_RekeysDefinitionsAndRewritesRefs(t *testing.T) {
	base, err := LoadBaseSchema()
	require.NoError(t, err)

	ms := Compose(base, map[string][]byte{
		"sqs-queue": []byte(sqsSchema),
	})
	require.Empty(t, ms.Warnings)
	assert.Equal(t, []string{"sqs-queue"}, ms.Types)

	defs := ms.Document["$defs"].(map[string]any)
	compConfig, ok := defs["component.sqs-queue.config"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, compConfig, "definitions")

	props := compConfig["properties"].(map[string]any)
	redrive := props["redrivePolicy"].(map[string]any)
	assert.Equal(t, "#/$defs/component.sqs-queue.definition.redrivePolicy", redrive["$ref"])

	_, ok = defs["component.sqs-queue.definition.redrivePolicy"]
	assert.True(t, ok)
}

func TestCompose_BuildsAllOfConditionalsAndTypeEnum(t *testing.T) {
	base, err := LoadBaseSchema()
	require.NoError(t, err)

	ms := Compose(base, map[string][]byte{
		"sqs-queue":         []byte(sqsSchema),
		"postgres-database": []byte(postgresSchema),
	})
	require.Empty(t, ms.Warnings)
	assert.Equal(t, []string{"postgres-database", "sqs-queue"}, ms.Types)

	defs := ms.Document["$defs"].(map[string]any)
	comp := defs["component"].(map[string]any)
	props := comp["properties"].(map[string]any)
	typeProp := props["type"].(map[string]any)
	enum := typeProp["enum"].([]any)
	assert.ElementsMatch(t, []any{"postgres-database", "sqs-queue"}, enum)

	allOf := comp["allOf"].([]any)
	assert.Len(t, allOf, 2)
}

func TestCompose_MalformedComponentSchemaProducesWarningAndIsSkipped(t *testing.T) {
	base, err := LoadBaseSchema()
	require.NoError(t, err)

	ms := Compose(base, map[string][]byte{
		"broken": []byte("{not valid json"),
	})
	require.Len(t, ms.Warnings, 1)
	assert.Equal(t, "broken", ms.Warnings[0].ComponentType)
	assert.Empty(t, ms.Types)
}

func TestCompose_SelfRefRewrittenToComponentConfig(t *testing.T) {
	base, err := LoadBaseSchema()
	require.NoError(t, err)

	nested := `{
		"type": "object",
		"properties": {
			"child": { "$ref": "#" }
		}
	}`
	ms := Compose(base, map[string][]byte{"s3-bucket": []byte(nested)})
	require.Empty(t, ms.Warnings)

	defs := ms.Document["$defs"].(map[string]any)
	compConfig := defs["component.s3-bucket.config"].(map[string]any)
	props := compConfig["properties"].(map[string]any)
	child := props["child"].(map[string]any)
	assert.Equal(t, "#/$defs/component.s3-bucket.config", child["$ref"])
}

func TestLoadBaseSchema_IsValidJSON(t *testing.T) {
	base, err := LoadBaseSchema()
	require.NoError(t, err)
	_, err = json.Marshal(base)
	require.NoError(t, err)
	assert.Equal(t, "Manifest", base["title"])
}
