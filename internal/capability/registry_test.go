package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/synthctl/synthctl/internal/core"
)

func TestDefaultRegistry_ValidateKnownCapability(t *testing.T) {
	r := DefaultRegistry()
	result := r.Validate("lambda-api", "queue:sqs", core.AccessConsume)
	assert.True(t, result.Valid)
}

func TestDefaultRegistry_ValidateUnknownCapability(t *testing.T) {
	r := DefaultRegistry()
	result := r.Validate("lambda-api", "queue:sns", core.AccessConsume)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Reason, "queue:sns")
}

func TestDefaultRegistry_ValidateUnsupportedAccess(t *testing.T) {
	r := DefaultRegistry()
	result := r.Validate("lambda-api", "secret:manager", core.AccessAdmin)
	assert.False(t, result.Valid)
}

func TestBind_SQSSuccess(t *testing.T) {
	r := DefaultRegistry()
	ctx := BindContext{
		Directive: core.BindingDirective{
			From: "api", To: "queue", Capability: "queue:sqs", Access: core.AccessConsume,
		},
		SourceComponentType: "lambda-api",
		TargetCapability:    core.Capability{Name: "queue:sqs", Data: map[string]any{"queueName": "checkout-queue"}},
	}
	result := r.Bind(ctx)
	assert.True(t, result.Metadata.Success)
	assert.Equal(t, "checkout-queue", result.EnvironmentVariables["QUEUE_NAME"])
}

func TestBind_UnresolvedCapabilityFails(t *testing.T) {
	r := DefaultRegistry()
	ctx := BindContext{
		Directive: core.BindingDirective{
			From: "api", To: "topic", Capability: "queue:sns", Access: core.AccessConsume,
		},
		SourceComponentType: "lambda-api",
		TargetCapability:    core.Capability{Name: "queue:sns"},
	}
	result := r.Bind(ctx)
	assert.False(t, result.Metadata.Success)
	assert.NotEmpty(t, result.Metadata.Error)
}

func TestBind_S3HonorsPrefixOption(t *testing.T) {
	r := DefaultRegistry()
	ctx := BindContext{
		Directive: core.BindingDirective{
			From: "api", To: "bucket", Capability: "bucket:s3", Access: core.AccessReadWrite,
			Options: map[string]any{"prefix": "uploads"},
		},
		SourceComponentType: "lambda-api",
		TargetCapability:    core.Capability{Name: "bucket:s3", Data: map[string]any{"bucketName": "checkout-bucket"}},
	}
	result := r.Bind(ctx)
	assert.True(t, result.Metadata.Success)
	assert.Contains(t, result.EnvironmentVariables["BUCKET_ARN"], "uploads")
}

func TestBind_AppliesFedRAMPOverlays(t *testing.T) {
	r := DefaultRegistry()
	ctx := BindContext{
		Directive:           core.BindingDirective{Capability: "db:postgres", Access: core.AccessReadWrite},
		SourceComponentType: "lambda-api",
		TargetCapability:    core.Capability{Name: "db:postgres", Data: map[string]any{"databaseName": "checkout-db"}},
		ComplianceFramework: core.FrameworkFedRAMPHigh,
	}
	result := r.Bind(ctx)
	assert.Contains(t, result.Metadata.PolicyOverlays, "deny-without-private-endpoint")
}

func TestBind_RemapsEnvVarNames(t *testing.T) {
	r := DefaultRegistry()
	ctx := BindContext{
		Directive: core.BindingDirective{
			Capability: "queue:sqs", Access: core.AccessConsume,
			Env: map[string]string{"QUEUE_NAME": "MY_QUEUE"},
		},
		SourceComponentType: "lambda-api",
		TargetCapability:    core.Capability{Name: "queue:sqs", Data: map[string]any{"queueName": "checkout-queue"}},
	}
	result := r.Bind(ctx)
	assert.Equal(t, "checkout-queue", result.EnvironmentVariables["MY_QUEUE"])
	assert.NotContains(t, result.EnvironmentVariables, "QUEUE_NAME")
}
