package core

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Resource represents a single synthesized, provider-ready declarative
// resource, generalized from the donor's build-time Resource: instead of
// wrapping a rendered Kubernetes object, it wraps whatever declarative tree
// a Component produces for its target cloud provider. Unstructured remains
// a convenient cloud-agnostic container because it round-trips cleanly to
// YAML/JSON and carries a GroupVersionKind-shaped identity that C9's
// logical-ID machinery and pkg/weights's ordering both key on.
type Resource struct {
	Object    *unstructured.Unstructured
	Component string

	// LogicalID is the stable identifier this resource was assigned by
	// internal/identity; empty until C9 has run.
	LogicalID string
}

// GVK returns the GroupVersionKind of the resource.
func (r *Resource) GVK() schema.GroupVersionKind {
	return r.Object.GroupVersionKind()
}

// Kind returns the resource kind (e.g., "DynamoDBTable").
func (r *Resource) Kind() string {
	return r.Object.GetKind()
}

// Name returns the resource name from metadata.
func (r *Resource) Name() string {
	return r.Object.GetName()
}

// Namespace returns the resource namespace from metadata, empty for
// account/region-scoped resources.
func (r *Resource) Namespace() string {
	return r.Object.GetNamespace()
}

// Labels returns the resource labels.
func (r *Resource) Labels() map[string]string {
	return r.Object.GetLabels()
}

// GetObject returns the underlying unstructured object.
func (r *Resource) GetObject() *unstructured.Unstructured {
	return r.Object
}

// GetGVK returns the GroupVersionKind.
func (r *Resource) GetGVK() schema.GroupVersionKind {
	return r.GVK()
}

// GetKind returns the resource kind.
func (r *Resource) GetKind() string {
	return r.Kind()
}

// GetName returns the resource name.
func (r *Resource) GetName() string {
	return r.Name()
}

// GetNamespace returns the resource namespace.
func (r *Resource) GetNamespace() string {
	return r.Namespace()
}

// NewResource builds a Resource from a GVK, name, namespace and spec body.
func NewResource(gvk schema.GroupVersionKind, component, name, namespace string, spec map[string]any) *Resource {
	obj := &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": gvk.GroupVersion().String(),
		"kind":       gvk.Kind,
		"metadata": map[string]any{
			"name": name,
		},
	}}
	if namespace != "" {
		obj.SetNamespace(namespace)
	}
	if spec != nil {
		obj.Object["spec"] = spec
	}
	return &Resource{Object: obj, Component: component}
}
