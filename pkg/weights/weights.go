// Package weights provides resource ordering weights for synthesized
// infrastructure resources. Resources with lower weights are applied first,
// generalizing the donor's Kubernetes-apply-order table to the dependency
// order cloud resources actually need: identity and storage primitives
// before the compute that binds to them, compute before the event-routing
// that wires it up.
package weights

import (
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Default weights for synthesized resource kinds. Lower weights are applied
// first.
const (
	WeightKeyStore      = 0
	WeightSecretManager = 10
	WeightCertificate   = 10
	WeightS3Bucket      = 20
	WeightDynamoDBTable = 20
	WeightPostgres      = 30
	WeightSNSTopic      = 50
	WeightSQSQueue      = 50
	WeightLambdaAPI     = 100
	WeightDefault       = 1000
)

const group = "synthctl.dev"

// gvkWeights maps GVK to weight.
var gvkWeights = map[schema.GroupVersionKind]int{
	{Group: group, Version: "v1", Kind: "KeyStore"}:             WeightKeyStore,
	{Group: group, Version: "v1", Kind: "SecretManager"}:        WeightSecretManager,
	{Group: group, Version: "v1", Kind: "CertificateManager"}:   WeightCertificate,
	{Group: group, Version: "v1", Kind: "S3Bucket"}:              WeightS3Bucket,
	{Group: group, Version: "v1", Kind: "DynamoDBTable"}:         WeightDynamoDBTable,
	{Group: group, Version: "v1", Kind: "PostgresDatabase"}:      WeightPostgres,
	{Group: group, Version: "v1", Kind: "SNSTopic"}:              WeightSNSTopic,
	{Group: group, Version: "v1", Kind: "SQSQueue"}:              WeightSQSQueue,
	{Group: group, Version: "v1", Kind: "LambdaAPI"}:             WeightLambdaAPI,
}

// kindWeights maps Kind to weight, used when a resource's group/version
// doesn't match exactly (e.g. a future apiVersion bump).
var kindWeights = map[string]int{
	"KeyStore":           WeightKeyStore,
	"SecretManager":      WeightSecretManager,
	"CertificateManager": WeightCertificate,
	"S3Bucket":           WeightS3Bucket,
	"DynamoDBTable":      WeightDynamoDBTable,
	"PostgresDatabase":   WeightPostgres,
	"SNSTopic":           WeightSNSTopic,
	"SQSQueue":           WeightSQSQueue,
	"LambdaAPI":          WeightLambdaAPI,
}

// GetWeight returns the weight for a GVK. Lower weights should be applied
// first.
func GetWeight(gvk schema.GroupVersionKind) int {
	if weight, ok := gvkWeights[gvk]; ok {
		return weight
	}
	if weight, ok := kindWeights[gvk.Kind]; ok {
		return weight
	}
	return WeightDefault
}
