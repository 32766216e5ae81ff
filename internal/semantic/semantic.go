// Package semantic implements C4, the Reference & Semantic Validator: the
// checks that aren't expressible in JSON Schema because they require
// cross-referencing components, the capability/binder registry, and the
// environment, rather than validating one document node in isolation
// (spec.md §4.4).
package semantic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/synthctl/synthctl/internal/capability"
	"github.com/synthctl/synthctl/internal/component"
	"github.com/synthctl/synthctl/internal/core"
	oerrors "github.com/synthctl/synthctl/internal/errors"
)

// Checker validates a manifest's binds/triggers against the component
// catalog and the binder registry.
type Checker struct {
	Components *component.Registry
	Binders    *capability.Registry
}

// NewChecker builds a Checker over the given registries.
func NewChecker(components *component.Registry, binders *capability.Registry) *Checker {
	return &Checker{Components: components, Binders: binders}
}

// Check runs every C4 rule against manifest and returns one Diagnostic per
// violation, each carrying a manifest path and, where applicable, a
// suggestion (§4.4, "All failures carry both the manifest path and a
// suggestion").
func (c *Checker) Check(manifest *core.Manifest) []*oerrors.Diagnostic {
	var diags []*oerrors.Diagnostic

	byName := make(map[string]core.ComponentSpec, len(manifest.Components))
	for _, comp := range manifest.Components {
		byName[comp.Name] = comp
	}

	for i, b := range manifest.Binds {
		diags = append(diags, c.checkBind(i, b, byName)...)
	}
	for i, t := range manifest.Triggers {
		diags = append(diags, c.checkTrigger(i, t, byName)...)
	}
	diags = append(diags, c.checkProductionMonitoring(manifest, byName)...)

	return diags
}

func (c *Checker) checkBind(index int, b core.BindingDirective, byName map[string]core.ComponentSpec) []*oerrors.Diagnostic {
	path := fmt.Sprintf("binds[%d]", index)
	var diags []*oerrors.Diagnostic

	from, fromOK := byName[b.From]
	_, toOK := byName[b.To]

	if !fromOK {
		diags = append(diags, &oerrors.Diagnostic{
			Kind:    oerrors.KindReference,
			Path:    path + ".from",
			Message: fmt.Sprintf("binds[%d].from %q does not resolve to a component", index, b.From),
		})
	}
	if !toOK {
		diags = append(diags, &oerrors.Diagnostic{
			Kind:    oerrors.KindReference,
			Path:    path + ".to",
			Message: fmt.Sprintf("binds[%d].to %q does not resolve to a component", index, b.To),
		})
	}
	if !fromOK || !toOK {
		return diags
	}

	if b.From == b.To {
		diags = append(diags, &oerrors.Diagnostic{
			Kind:    oerrors.KindReference,
			Path:    path,
			Message: fmt.Sprintf("binds[%d] forms a self-loop: %q binds to itself", index, b.From),
		})
		return diags
	}

	result := c.Binders.Validate(from.Type, b.Capability, b.Access)
	if !result.Valid {
		diags = append(diags, &oerrors.Diagnostic{
			Kind:       oerrors.KindReference,
			Path:       path,
			Message:    fmt.Sprintf("binds[%d]: %s", index, result.Reason),
			Suggestion: c.bindSuggestion(from.Type, result),
		})
	}

	return diags
}

// bindSuggestion prefers the registry's own suggestion, falling back to a
// sorted enumeration of the source type's declared supported bind targets
// that actually have a registered binder (with the default catalogs:
// "supported targets for lambda-api: bucket:s3, db:postgres, queue:sqs,
// secret:manager").
func (c *Checker) bindSuggestion(sourceType string, result capability.ValidateResult) string {
	if result.Suggestion != "" {
		return result.Suggestion
	}

	comp, ok := c.Components.Get(sourceType)
	if !ok {
		return ""
	}
	var bindable []string
	for _, target := range comp.Descriptor().SupportedBindTargets {
		if len(c.Binders.Strategies(target)) > 0 {
			bindable = append(bindable, target)
		}
	}
	if len(bindable) == 0 {
		return ""
	}
	sort.Strings(bindable)
	return fmt.Sprintf("supported targets for %s: %s", sourceType, strings.Join(bindable, ", "))
}

func (c *Checker) checkTrigger(index int, t core.TriggerDirective, byName map[string]core.ComponentSpec) []*oerrors.Diagnostic {
	path := fmt.Sprintf("triggers[%d]", index)
	var diags []*oerrors.Diagnostic

	from, fromOK := byName[t.From]
	_, toOK := byName[t.To]

	if !fromOK {
		diags = append(diags, &oerrors.Diagnostic{
			Kind:    oerrors.KindReference,
			Path:    path + ".from",
			Message: fmt.Sprintf("triggers[%d].from %q does not resolve to a component", index, t.From),
		})
	}
	if !toOK {
		diags = append(diags, &oerrors.Diagnostic{
			Kind:    oerrors.KindReference,
			Path:    path + ".to",
			Message: fmt.Sprintf("triggers[%d].to %q does not resolve to a component", index, t.To),
		})
	}
	if !fromOK || !toOK {
		return diags
	}

	if t.From == t.To {
		diags = append(diags, &oerrors.Diagnostic{
			Kind:    oerrors.KindReference,
			Path:    path,
			Message: fmt.Sprintf("triggers[%d] forms a self-loop: %q triggers itself", index, t.From),
		})
	}

	comp, ok := c.Components.Get(from.Type)
	if !ok {
		diags = append(diags, &oerrors.Diagnostic{
			Kind:    oerrors.KindReference,
			Path:    path + ".from",
			Message: fmt.Sprintf("triggers[%d]: component type %q is not registered", index, from.Type),
		})
		return diags
	}

	events := comp.Descriptor().SupportedEvents
	if !containsString(events, t.Event) {
		suggestion := ""
		if len(events) > 0 {
			sorted := append([]string(nil), events...)
			sort.Strings(sorted)
			suggestion = fmt.Sprintf("supported events for %s: %s", from.Type, strings.Join(sorted, ", "))
		}
		diags = append(diags, &oerrors.Diagnostic{
			Kind:       oerrors.KindReference,
			Path:       path + ".event",
			Message:    fmt.Sprintf("triggers[%d]: component type %q does not declare event %q", index, from.Type, t.Event),
			Suggestion: suggestion,
		})
	}

	return diags
}

// checkProductionMonitoring enforces an environment-specific rule: in the
// production environment, any component whose schema declares a
// "monitoring" property must set it true, either directly or through
// resolved configuration (§4.4, "production manifests must enable
// monitoring if the component schema defines it"). Schema-level defaults
// aren't available here — C4 runs on the raw manifest tree before C6 builds
// effective config — so this only flags components that explicitly set
// monitoring to false; an omitted field is left to C6/C3's default
// resolution.
func (c *Checker) checkProductionMonitoring(manifest *core.Manifest, byName map[string]core.ComponentSpec) []*oerrors.Diagnostic {
	if manifest.Environment != "production" {
		return nil
	}

	var diags []*oerrors.Diagnostic
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := byName[name]
		comp, ok := c.Components.Get(spec.Type)
		if !ok || !declaresMonitoring(comp.Descriptor().Schema) {
			continue
		}
		if v, ok := spec.Config["monitoring"]; ok {
			if enabled, ok := v.(bool); ok && !enabled {
				diags = append(diags, &oerrors.Diagnostic{
					Kind:       oerrors.KindReference,
					Path:       fmt.Sprintf("components[%s].config.monitoring", name),
					Message:    fmt.Sprintf("component %q disables monitoring in the production environment", name),
					Suggestion: "set monitoring: true for production manifests",
				})
			}
		}
	}
	return diags
}

func declaresMonitoring(schema []byte) bool {
	return strings.Contains(string(schema), `"monitoring"`)
}

func containsString(items []string, target string) bool {
	for _, v := range items {
		if v == target {
			return true
		}
	}
	return false
}
