// Package context implements C5, the Context Hydrator: it produces a frozen
// core.ComponentContext per component and attaches a stable parent scope
// handle (spec.md §4.5). Components only ever read a ComponentContext —
// nothing in this package or downstream mutates one after Hydrate returns.
package context

import (
	"github.com/synthctl/synthctl/internal/core"
)

// Options carries the caller-supplied ambient values C5 can't derive from
// the manifest alone (region, account ID) — typically sourced from the CLI's
// own flags/environment rather than the manifest document.
type Options struct {
	Region    string
	AccountID string
}

// Hydrate builds one ComponentContext per component in the manifest, each
// scoped under a shared stack-level ScopeHandle rooted at the service name.
func Hydrate(manifest *core.Manifest, opts Options) map[string]core.ComponentContext {
	root := core.ScopeHandle{Path: manifest.Service}
	out := make(map[string]core.ComponentContext, len(manifest.Components))

	for _, spec := range manifest.Components {
		out[spec.Name] = core.ComponentContext{
			ServiceName:         manifest.Service,
			Owner:               manifest.Owner,
			Environment:         manifest.Environment,
			ComplianceFramework: manifest.ComplianceFramework,
			Region:              opts.Region,
			AccountID:           opts.AccountID,
			ServiceLabels:       serviceLabels(manifest),
			Scope:               root.Child(spec.Name),
		}
	}
	return out
}

// serviceLabels builds the stable label set every component context carries,
// mirroring the donor's fixed-key label convention (internal/core/labels.go).
func serviceLabels(manifest *core.Manifest) map[string]string {
	labels := map[string]string{
		core.LabelManagedBy:   core.ManagedByValue,
		core.LabelService:     manifest.Service,
		core.LabelEnvironment: manifest.Environment,
	}
	for k, v := range manifest.Tags {
		labels[k] = v
	}
	return labels
}
