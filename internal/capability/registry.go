package capability

import (
	"fmt"
	"sort"
	"sync"

	"github.com/synthctl/synthctl/internal/core"
)

// ValidateResult is the answer to a (sourceType, capability) compatibility
// query (§4.7, "Lookup").
type ValidateResult struct {
	Valid      bool
	Reason     string
	Suggestion string
}

// Registry is the process-wide binder index, keyed by capability name only:
// capability -> strategies[] in registration order. There is no index by
// source type; a strategy's SupportedSourceTypes is checked per query while
// walking the capability's strategies.
type Registry struct {
	mu           sync.RWMutex
	byCapability map[string][]Binder
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byCapability: make(map[string][]Binder)}
}

// Register adds a binder strategy under every capability it declares
// support for.
func (r *Registry) Register(b Binder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cap := range b.Descriptor().SupportedCapabilities {
		r.byCapability[cap] = append(r.byCapability[cap], b)
	}
}

// Strategies returns the binders registered for a capability.
func (r *Registry) Strategies(capabilityName string) []Binder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Binder(nil), r.byCapability[capabilityName]...)
}

// Capabilities returns every capability name with at least one registered
// binder, sorted.
func (r *Registry) Capabilities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byCapability))
	for c := range r.byCapability {
		names = append(names, c)
	}
	sort.Strings(names)
	return names
}

// Validate answers whether sourceType may bind to capabilityName with the
// given access mode, using the same index the bind algorithm uses so a
// rejection and an acceptance can never disagree (§4.7, "Lookup":
// "validate(sourceType, capability) returns {valid, reason?, suggestion?}
// using the same indexes").
func (r *Registry) Validate(sourceType, capabilityName string, access core.AccessMode) ValidateResult {
	strategies := r.Strategies(capabilityName)
	if len(strategies) == 0 {
		return ValidateResult{
			Valid:  false,
			Reason: noBindingStrategyReason(sourceType, capabilityName),
		}
	}

	var accessOK bool
	for _, s := range strategies {
		d := s.Descriptor()
		if len(d.SupportedSourceTypes) > 0 && !containsString(d.SupportedSourceTypes, sourceType) {
			continue
		}
		for _, a := range d.SupportedAccess {
			if a == access {
				accessOK = true
			}
		}
		if len(d.SupportedAccess) == 0 {
			accessOK = true
		}
	}

	if !accessOK {
		return ValidateResult{
			Valid:  false,
			Reason: fmt.Sprintf("no binder for capability %q supports access mode %q", capabilityName, access),
		}
	}

	return ValidateResult{Valid: true}
}

// noBindingStrategyReason renders the rejection reason in the exact form
// spec.md's S3 scenario expects: "No binding strategy for 'lambda-api' ->
// 'queue:sns'".
func noBindingStrategyReason(sourceType, capabilityName string) string {
	return fmt.Sprintf("No binding strategy for '%s' -> '%s'", sourceType, capabilityName)
}

// resolve picks the first binder registered for capabilityName that accepts
// sourceType and access. Order among multiple matching strategies follows
// registration order (first registered wins), mirroring C1's "duplicate
// types ignored first-wins" tie-break philosophy.
func (r *Registry) resolve(sourceType, capabilityName string, access core.AccessMode) (Binder, bool) {
	for _, s := range r.Strategies(capabilityName) {
		if s.Descriptor().Supports(sourceType, capabilityName, access) {
			return s, true
		}
	}
	return nil, false
}

// Bind runs the per-directive bind algorithm (§4.7, "Bind algorithm"):
// resolve a binder for the directive's capability/access, then delegate.
// A directive with no matching binder returns a non-throwing failure
// result — the caller (C8) decides whether that aborts the pipeline.
func (r *Registry) Bind(ctx BindContext) BindingResult {
	binder, ok := r.resolve(ctx.SourceComponentType, ctx.Directive.Capability, ctx.Directive.Access)
	if !ok {
		return failResult("unresolved",
			noBindingStrategyReason(ctx.SourceComponentType, ctx.Directive.Capability),
			map[string]any{
				"capability": ctx.Directive.Capability,
				"access":     string(ctx.Directive.Access),
				"sourceType": ctx.SourceComponentType,
			})
	}
	return binder.Bind(ctx)
}

// DefaultRegistry builds a Registry pre-populated with the reference binder
// catalog (SPEC_FULL.md §4.7a). Note there is deliberately no queue:sns
// binder — the sns-topic component registers topic:sns, and nothing here
// ever supports binding a lambda-api to it as a queue.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, b := range []Binder{
		sqsBinder{},
		postgresBinder{},
		s3Binder{},
		dynamoDBBinder{},
		secretBinder{},
		acmBinder{},
	} {
		r.Register(b)
	}
	return r
}
