package component

import (
	"fmt"

	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/synthctl/synthctl/internal/core"
)

const apiGroup = "synthctl.dev"

func gvk(kind string) schema.GroupVersionKind {
	return schema.GroupVersionKind{Group: apiGroup, Version: "v1", Kind: kind}
}

// --- lambda-api ---

type lambdaAPI struct{}

func newLambdaAPI() Component { return lambdaAPI{} }

func (lambdaAPI) Descriptor() Descriptor {
	return Descriptor{
		Type:                 "lambda-api",
		Capability:           "compute:lambda-api",
		ConstructKeys:        []string{"main"},
		Schema:               mustSchema("lambda-api"),
		SupportedBindTargets: []string{"queue:sqs", "db:postgres", "bucket:s3", "secret:manager"},
		SupportedEvents:      []string{"invoke-error"},
	}
}

func (c lambdaAPI) Synth(ctx core.ComponentContext, spec core.ComponentSpec, cfg *core.EffectiveConfig) (*Instance, error) {
	runtime := stringVal(cfg, "runtime", "nodejs20.x")
	handler := stringVal(cfg, "handler", "index.handler")
	funcName := fmt.Sprintf("%s-%s-%s", ctx.ServiceName, spec.Name, "fn")

	res := core.NewResource(gvk("LambdaAPI"), spec.Name, funcName, "", map[string]any{
		"runtime":    runtime,
		"handler":    handler,
		"memorySize": intVal(cfg, "memorySize", 256),
		"timeout":    intVal(cfg, "timeout", 10),
	})

	return &Instance{
		Resources:  []*core.Resource{res},
		Constructs: map[string]core.ConstructHandle{"main": {Key: "main", Ref: res}},
		Capabilities: []core.Capability{
			{Name: c.Descriptor().Capability, Data: map[string]any{"functionName": funcName}},
		},
	}, nil
}

// --- sqs-queue ---

type sqsQueue struct{}

func newSQSQueue() Component { return sqsQueue{} }

func (sqsQueue) Descriptor() Descriptor {
	return Descriptor{
		Type:            "sqs-queue",
		Capability:      "queue:sqs",
		ConstructKeys:   []string{"main"},
		Schema:          mustSchema("sqs-queue"),
		SupportedEvents: []string{"message-available"},
	}
}

func (c sqsQueue) Synth(ctx core.ComponentContext, spec core.ComponentSpec, cfg *core.EffectiveConfig) (*Instance, error) {
	name := fmt.Sprintf("%s-%s", ctx.ServiceName, spec.Name)
	res := core.NewResource(gvk("SQSQueue"), spec.Name, name, "", map[string]any{
		"visibilityTimeout": intVal(cfg, "visibilityTimeout", 30),
		"fifo":              boolVal(cfg, "fifo", false),
	})
	return &Instance{
		Resources:  []*core.Resource{res},
		Constructs: map[string]core.ConstructHandle{"main": {Key: "main", Ref: res}},
		Capabilities: []core.Capability{
			{Name: c.Descriptor().Capability, Data: map[string]any{"queueName": name}},
		},
	}, nil
}

// --- sns-topic ---
//
// Deliberately registers capability "topic:sns", not "queue:sns" — no
// binder in internal/capability supports binding a lambda-api to an
// sns-topic via a queue-shaped capability, which is what exercises the
// unsupported-binding scenario end to end.

type snsTopic struct{}

func newSNSTopic() Component { return snsTopic{} }

func (snsTopic) Descriptor() Descriptor {
	return Descriptor{
		Type:            "sns-topic",
		Capability:      "topic:sns",
		ConstructKeys:   []string{"main"},
		Schema:          mustSchema("sns-topic"),
		SupportedEvents: []string{"message-published"},
	}
}

func (c snsTopic) Synth(ctx core.ComponentContext, spec core.ComponentSpec, cfg *core.EffectiveConfig) (*Instance, error) {
	name := fmt.Sprintf("%s-%s", ctx.ServiceName, spec.Name)
	res := core.NewResource(gvk("SNSTopic"), spec.Name, name, "", map[string]any{
		"displayName": stringVal(cfg, "displayName", name),
		"fifo":        boolVal(cfg, "fifo", false),
	})
	return &Instance{
		Resources:  []*core.Resource{res},
		Constructs: map[string]core.ConstructHandle{"main": {Key: "main", Ref: res}},
		Capabilities: []core.Capability{
			{Name: c.Descriptor().Capability, Data: map[string]any{"topicName": name}},
		},
	}, nil
}

// --- dynamodb-table ---

type dynamoDBTable struct{}

func newDynamoDBTable() Component { return dynamoDBTable{} }

func (dynamoDBTable) Descriptor() Descriptor {
	return Descriptor{
		Type:            "dynamodb-table",
		Capability:      "db:dynamodb",
		ConstructKeys:   []string{"main"},
		Schema:          mustSchema("dynamodb-table"),
		SupportedEvents: []string{"stream-record"},
	}
}

func (c dynamoDBTable) Synth(ctx core.ComponentContext, spec core.ComponentSpec, cfg *core.EffectiveConfig) (*Instance, error) {
	name := fmt.Sprintf("%s-%s", ctx.ServiceName, spec.Name)
	res := core.NewResource(gvk("DynamoDBTable"), spec.Name, name, "", map[string]any{
		"billingMode":  stringVal(cfg, "billingMode", "PAY_PER_REQUEST"),
		"partitionKey": stringVal(cfg, "partitionKey", "id"),
	})
	return &Instance{
		Resources:  []*core.Resource{res},
		Constructs: map[string]core.ConstructHandle{"main": {Key: "main", Ref: res}},
		Capabilities: []core.Capability{
			{Name: c.Descriptor().Capability, Data: map[string]any{"tableName": name}},
		},
	}, nil
}

// --- postgres-database (stateful) ---

type postgresDatabase struct{}

func newPostgresDatabase() Component { return postgresDatabase{} }

func (postgresDatabase) Descriptor() Descriptor {
	return Descriptor{
		Type:          "postgres-database",
		Capability:    "db:postgres",
		ConstructKeys: []string{"main"},
		Stateful:      true,
		Schema:        mustSchema("postgres-database"),
	}
}

func (c postgresDatabase) Synth(ctx core.ComponentContext, spec core.ComponentSpec, cfg *core.EffectiveConfig) (*Instance, error) {
	name := fmt.Sprintf("%s-%s", ctx.ServiceName, spec.Name)
	res := core.NewResource(gvk("PostgresDatabase"), spec.Name, name, "", map[string]any{
		"engine":           stringVal(cfg, "engine", "postgres15"),
		"instanceClass":    stringVal(cfg, "instanceClass", "db.t3.micro"),
		"allocatedStorage": intVal(cfg, "allocatedStorage", 20),
		"multiAZ":          boolVal(cfg, "multiAZ", false),
		"encryption":       boolVal(cfg, "encryption", false),
	})
	return &Instance{
		Resources:  []*core.Resource{res},
		Constructs: map[string]core.ConstructHandle{"main": {Key: "main", Ref: res}},
		Capabilities: []core.Capability{
			{Name: c.Descriptor().Capability, Data: map[string]any{"databaseName": name}},
		},
	}, nil
}

// --- s3-bucket (stateful) ---

type s3Bucket struct{}

func newS3Bucket() Component { return s3Bucket{} }

func (s3Bucket) Descriptor() Descriptor {
	return Descriptor{
		Type:            "s3-bucket",
		Capability:      "bucket:s3",
		ConstructKeys:   []string{"main"},
		Stateful:        true,
		Schema:          mustSchema("s3-bucket"),
		SupportedEvents: []string{"object-created", "object-removed"},
	}
}

func (c s3Bucket) Synth(ctx core.ComponentContext, spec core.ComponentSpec, cfg *core.EffectiveConfig) (*Instance, error) {
	name := fmt.Sprintf("%s-%s", ctx.ServiceName, spec.Name)
	res := core.NewResource(gvk("S3Bucket"), spec.Name, name, "", map[string]any{
		"versioning":        boolVal(cfg, "versioning", false),
		"encryption":        boolVal(cfg, "encryption", false),
		"publicAccessBlock": boolVal(cfg, "publicAccessBlock", true),
	})
	return &Instance{
		Resources:  []*core.Resource{res},
		Constructs: map[string]core.ConstructHandle{"main": {Key: "main", Ref: res}},
		Capabilities: []core.Capability{
			{Name: c.Descriptor().Capability, Data: map[string]any{"bucketName": name}},
		},
	}, nil
}

// --- certificate-manager ---
//
// keyAlgorithm's effective default (RSA_2048 under commercial, EC_secp384r1
// under fedramp-high) is resolved by C6's platform-defaults layer
// (config/fedramp-high.yml), not hardcoded here — Synth only reads whatever
// EffectiveConfig already resolved.

type certificateManager struct{}

func newCertificateManager() Component { return certificateManager{} }

func (certificateManager) Descriptor() Descriptor {
	return Descriptor{
		Type:          "certificate-manager",
		Capability:    "certificate:acm",
		ConstructKeys: []string{"main", "validation"},
		Schema:        mustSchema("certificate-manager"),
	}
}

func (c certificateManager) Synth(ctx core.ComponentContext, spec core.ComponentSpec, cfg *core.EffectiveConfig) (*Instance, error) {
	domain := stringVal(cfg, "domainName", "")
	validation := mapVal(cfg, "validation")

	res := core.NewResource(gvk("CertificateManager"), spec.Name, domain, "", map[string]any{
		"domainName":   domain,
		"keyAlgorithm": stringVal(cfg, "keyAlgorithm", "RSA_2048"),
		"validation":   validation,
	})
	return &Instance{
		Resources: []*core.Resource{res},
		Constructs: map[string]core.ConstructHandle{
			"main":       {Key: "main", Ref: res},
			"validation": {Key: "validation", Ref: validation},
		},
		Capabilities: []core.Capability{
			{Name: c.Descriptor().Capability, Data: map[string]any{"domainName": domain}},
		},
	}, nil
}

// --- secret-manager (stateful) ---

type secretManager struct{}

func newSecretManager() Component { return secretManager{} }

func (secretManager) Descriptor() Descriptor {
	return Descriptor{
		Type:          "secret-manager",
		Capability:    "secret:manager",
		ConstructKeys: []string{"main"},
		Stateful:      true,
		Schema:        mustSchema("secret-manager"),
	}
}

func (c secretManager) Synth(ctx core.ComponentContext, spec core.ComponentSpec, cfg *core.EffectiveConfig) (*Instance, error) {
	name := fmt.Sprintf("%s-%s", ctx.ServiceName, spec.Name)
	res := core.NewResource(gvk("SecretManager"), spec.Name, name, "", map[string]any{
		"rotationEnabled": boolVal(cfg, "rotationEnabled", false),
		"rotationDays":    intVal(cfg, "rotationDays", 30),
	})
	return &Instance{
		Resources:  []*core.Resource{res},
		Constructs: map[string]core.ConstructHandle{"main": {Key: "main", Ref: res}},
		Capabilities: []core.Capability{
			{Name: c.Descriptor().Capability, Data: map[string]any{"secretName": name}},
		},
	}, nil
}

// --- key-store (stateful) ---

type keyStore struct{}

func newKeyStore() Component { return keyStore{} }

func (keyStore) Descriptor() Descriptor {
	return Descriptor{
		Type:          "key-store",
		Capability:    "security:key-store",
		ConstructKeys: []string{"main"},
		Stateful:      true,
		Schema:        mustSchema("key-store"),
	}
}

func (c keyStore) Synth(ctx core.ComponentContext, spec core.ComponentSpec, cfg *core.EffectiveConfig) (*Instance, error) {
	name := fmt.Sprintf("%s-%s", ctx.ServiceName, spec.Name)
	res := core.NewResource(gvk("KeyStore"), spec.Name, name, "", map[string]any{
		"keySpec":         stringVal(cfg, "keySpec", "SYMMETRIC_DEFAULT"),
		"rotationEnabled": boolVal(cfg, "rotationEnabled", true),
	})
	return &Instance{
		Resources:  []*core.Resource{res},
		Constructs: map[string]core.ConstructHandle{"main": {Key: "main", Ref: res}},
		Capabilities: []core.Capability{
			{Name: c.Descriptor().Capability, Data: map[string]any{"keyId": name}},
		},
	}, nil
}
