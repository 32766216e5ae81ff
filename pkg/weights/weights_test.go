package weights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

func TestGetWeight(t *testing.T) {
	tests := []struct {
		name string
		gvk  schema.GroupVersionKind
		want int
	}{
		{
			name: "KeyStore",
			gvk:  schema.GroupVersionKind{Group: group, Version: "v1", Kind: "KeyStore"},
			want: WeightKeyStore,
		},
		{
			name: "SecretManager",
			gvk:  schema.GroupVersionKind{Group: group, Version: "v1", Kind: "SecretManager"},
			want: WeightSecretManager,
		},
		{
			name: "S3Bucket",
			gvk:  schema.GroupVersionKind{Group: group, Version: "v1", Kind: "S3Bucket"},
			want: WeightS3Bucket,
		},
		{
			name: "PostgresDatabase",
			gvk:  schema.GroupVersionKind{Group: group, Version: "v1", Kind: "PostgresDatabase"},
			want: WeightPostgres,
		},
		{
			name: "SQSQueue",
			gvk:  schema.GroupVersionKind{Group: group, Version: "v1", Kind: "SQSQueue"},
			want: WeightSQSQueue,
		},
		{
			name: "LambdaAPI",
			gvk:  schema.GroupVersionKind{Group: group, Version: "v1", Kind: "LambdaAPI"},
			want: WeightLambdaAPI,
		},
		{
			name: "kind-only fallback",
			gvk:  schema.GroupVersionKind{Group: "other.group", Version: "v2", Kind: "SNSTopic"},
			want: WeightSNSTopic,
		},
		{
			name: "unknown resource",
			gvk:  schema.GroupVersionKind{Group: "custom.example.com", Version: "v1", Kind: "MyResource"},
			want: WeightDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetWeight(tt.gvk)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWeightOrder(t *testing.T) {
	assert.Less(t, WeightKeyStore, WeightSecretManager, "key material should be provisioned before secrets referencing it")
	assert.Less(t, WeightSecretManager, WeightS3Bucket, "secrets should exist before storage that may reference them")
	assert.Less(t, WeightS3Bucket, WeightPostgres, "storage primitives should come before databases")
	assert.Less(t, WeightPostgres, WeightSNSTopic, "data stores should come before event routing")
	assert.Less(t, WeightSQSQueue, WeightLambdaAPI, "queues should exist before compute that binds to them")
}
