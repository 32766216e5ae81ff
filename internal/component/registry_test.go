package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_HasExpectedTypes(t *testing.T) {
	r := DefaultRegistry()
	want := []string{
		"certificate-manager", "dynamodb-table", "key-store", "lambda-api",
		"postgres-database", "s3-bucket", "secret-manager", "sns-topic", "sqs-queue",
	}
	assert.Equal(t, want, r.Types())
}

func TestDefaultRegistry_StatefulFlags(t *testing.T) {
	r := DefaultRegistry()
	assert.True(t, r.Stateful("postgres-database"))
	assert.True(t, r.Stateful("s3-bucket"))
	assert.True(t, r.Stateful("secret-manager"))
	assert.True(t, r.Stateful("key-store"))
	assert.False(t, r.Stateful("lambda-api"))
	assert.False(t, r.Stateful("sqs-queue"))
}

func TestDefaultRegistry_SchemasEmbedded(t *testing.T) {
	r := DefaultRegistry()
	schemas := r.Schemas()
	require.Contains(t, schemas, "lambda-api")
	assert.Contains(t, string(schemas["lambda-api"]), "x-component-type")
}

func TestRegistry_GetUnknownType(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Get("does-not-exist")
	assert.False(t, ok)
}
