package capability

import (
	"fmt"

	"github.com/synthctl/synthctl/internal/core"
)

// sqsBinder wires a source component to an sqs-queue component.
type sqsBinder struct{}

func (sqsBinder) Descriptor() BinderDescriptor {
	return BinderDescriptor{
		Name:                  "sqs-binder",
		SupportedCapabilities: []string{"queue:sqs"},
		SupportedAccess:       []core.AccessMode{core.AccessRead, core.AccessWrite, core.AccessReadWrite, core.AccessConsume},
	}
}

func (b sqsBinder) Bind(ctx BindContext) BindingResult {
	queueName, _ := ctx.TargetCapability.Data["queueName"].(string)
	actions := grantedActions(ctx.Directive.Access, "sqs")
	overlays := applyComplianceOverlays(ctx.ComplianceFramework)

	env := remapEnv(map[string]string{
		"QUEUE_URL":  fmt.Sprintf("https://sqs.amazonaws.com/%s", queueName),
		"QUEUE_NAME": queueName,
	}, ctx.Directive.Env)

	if dlq, ok := ctx.Directive.Options["deadLetterQueue"].(string); ok && dlq != "" {
		env["DEAD_LETTER_QUEUE"] = dlq
	}

	return successResult(b.Descriptor().Name, env, actions, overlays)
}

// postgresBinder wires a source component to a postgres-database component.
type postgresBinder struct{}

func (postgresBinder) Descriptor() BinderDescriptor {
	return BinderDescriptor{
		Name:                  "postgres-binder",
		SupportedCapabilities: []string{"db:postgres"},
		SupportedAccess:       []core.AccessMode{core.AccessRead, core.AccessWrite, core.AccessReadWrite, core.AccessAdmin},
	}
}

func (b postgresBinder) Bind(ctx BindContext) BindingResult {
	dbName, _ := ctx.TargetCapability.Data["databaseName"].(string)
	actions := grantedActions(ctx.Directive.Access, "rds-db")
	overlays := applyComplianceOverlays(ctx.ComplianceFramework)

	env := remapEnv(map[string]string{
		"DB_HOST": fmt.Sprintf("%s.rds.amazonaws.com", dbName),
		"DB_NAME": dbName,
	}, ctx.Directive.Env)

	if kmsKey, ok := ctx.Directive.Options["kmsKeyRef"].(string); ok && kmsKey != "" {
		env["DB_KMS_KEY_REF"] = kmsKey
	}

	return successResult(b.Descriptor().Name, env, actions, overlays)
}

// s3Binder wires a source component to an s3-bucket component, honoring a
// per-directive object-prefix restriction.
type s3Binder struct{}

func (s3Binder) Descriptor() BinderDescriptor {
	return BinderDescriptor{
		Name:                  "s3-binder",
		SupportedCapabilities: []string{"bucket:s3"},
		SupportedAccess:       []core.AccessMode{core.AccessRead, core.AccessWrite, core.AccessReadWrite, core.AccessAdmin},
	}
}

func (b s3Binder) Bind(ctx BindContext) BindingResult {
	bucketName, _ := ctx.TargetCapability.Data["bucketName"].(string)
	actions := grantedActions(ctx.Directive.Access, "s3")
	overlays := applyComplianceOverlays(ctx.ComplianceFramework)

	resourceARN := fmt.Sprintf("arn:aws:s3:::%s/*", bucketName)
	if prefix, ok := ctx.Directive.Options["prefix"].(string); ok && prefix != "" {
		resourceARN = fmt.Sprintf("arn:aws:s3:::%s/%s/*", bucketName, prefix)
	}

	env := remapEnv(map[string]string{
		"BUCKET_NAME": bucketName,
		"BUCKET_ARN":  resourceARN,
	}, ctx.Directive.Env)

	return successResult(b.Descriptor().Name, env, actions, overlays)
}

// dynamoDBBinder wires a source component to a dynamodb-table component.
type dynamoDBBinder struct{}

func (dynamoDBBinder) Descriptor() BinderDescriptor {
	return BinderDescriptor{
		Name:                  "dynamodb-binder",
		SupportedCapabilities: []string{"db:dynamodb"},
		SupportedAccess:       []core.AccessMode{core.AccessRead, core.AccessWrite, core.AccessReadWrite, core.AccessAdmin},
	}
}

func (b dynamoDBBinder) Bind(ctx BindContext) BindingResult {
	tableName, _ := ctx.TargetCapability.Data["tableName"].(string)
	actions := grantedActions(ctx.Directive.Access, "dynamodb")
	overlays := applyComplianceOverlays(ctx.ComplianceFramework)

	env := remapEnv(map[string]string{
		"TABLE_NAME": tableName,
	}, ctx.Directive.Env)

	return successResult(b.Descriptor().Name, env, actions, overlays)
}

// secretBinder wires a source component to a secret-manager component.
type secretBinder struct{}

func (secretBinder) Descriptor() BinderDescriptor {
	return BinderDescriptor{
		Name:                  "secret-binder",
		SupportedCapabilities: []string{"secret:manager"},
		SupportedAccess:       []core.AccessMode{core.AccessRead, core.AccessUse},
	}
}

func (b secretBinder) Bind(ctx BindContext) BindingResult {
	secretName, _ := ctx.TargetCapability.Data["secretName"].(string)
	actions := grantedActions(ctx.Directive.Access, "secretsmanager")
	overlays := applyComplianceOverlays(ctx.ComplianceFramework)

	env := remapEnv(map[string]string{
		"SECRET_ARN": fmt.Sprintf("arn:aws:secretsmanager:::secret:%s", secretName),
	}, ctx.Directive.Env)

	return successResult(b.Descriptor().Name, env, actions, overlays)
}

// acmBinder wires a source component to a certificate-manager component.
type acmBinder struct{}

func (acmBinder) Descriptor() BinderDescriptor {
	return BinderDescriptor{
		Name:                  "acm-binder",
		SupportedCapabilities: []string{"certificate:acm"},
		SupportedAccess:       []core.AccessMode{core.AccessUse, core.AccessRead},
	}
}

func (b acmBinder) Bind(ctx BindContext) BindingResult {
	domainName, _ := ctx.TargetCapability.Data["domainName"].(string)
	actions := grantedActions(ctx.Directive.Access, "acm")
	overlays := applyComplianceOverlays(ctx.ComplianceFramework)

	env := remapEnv(map[string]string{
		"CERTIFICATE_DOMAIN": domainName,
	}, ctx.Directive.Env)

	return successResult(b.Descriptor().Name, env, actions, overlays)
}
