package component

import (
	"embed"
	"fmt"
	"sort"
	"sync"
)

//go:embed schemas
var schemaFS embed.FS

// Registry holds the process-wide set of registered component
// implementations, mirroring §9's "process-wide init/teardown-owned global
// state" design note: a single Registry is built once at CLI start via
// registerComponent and threaded explicitly through the pipeline rather than
// held in a package-level variable.
type Registry struct {
	mu   sync.RWMutex
	comp map[string]Component
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{comp: make(map[string]Component)}
}

// Register adds a component implementation, keyed by its declared type.
// Re-registering the same type replaces the previous entry (supports test
// doubles and the programmatic registerComponent extension point, §6).
func (r *Registry) Register(c Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comp[c.Descriptor().Type] = c
}

// Get returns the component implementation for a type.
func (r *Registry) Get(componentType string) (Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.comp[componentType]
	return c, ok
}

// Types returns all registered component types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.comp))
	for t := range r.comp {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Stateful reports whether componentType is flagged stateful for C9's
// drift-avoidance purposes.
func (r *Registry) Stateful(componentType string) bool {
	c, ok := r.Get(componentType)
	return ok && c.Descriptor().Stateful
}

// Schemas returns the discovered Config.schema.json bytes for every
// registered type, keyed by type, per C1's discovery contract (§4.1).
func (r *Registry) Schemas() map[string][]byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string][]byte, len(r.comp))
	for t, c := range r.comp {
		out[t] = c.Descriptor().Schema
	}
	return out
}

// mustSchema reads an embedded Config.schema.json, panicking on a missing
// asset — a build-time programming error, not a runtime condition.
func mustSchema(componentType string) []byte {
	data, err := schemaFS.ReadFile(fmt.Sprintf("schemas/%s/Config.schema.json", componentType))
	if err != nil {
		panic(fmt.Sprintf("component %q: embedded schema missing: %v", componentType, err))
	}
	return data
}

// DefaultRegistry builds a Registry pre-populated with the reference
// component catalog (SPEC_FULL.md §4.5a).
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, c := range []Component{
		newLambdaAPI(),
		newSQSQueue(),
		newSNSTopic(),
		newDynamoDBTable(),
		newPostgresDatabase(),
		newS3Bucket(),
		newCertificateManager(),
		newSecretManager(),
		newKeyStore(),
	} {
		r.Register(c)
	}
	return r
}
