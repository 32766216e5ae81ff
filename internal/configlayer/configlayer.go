// Package configlayer implements C6, the Config Builder: for each
// component it layers fallbacks → platform defaults → environment defaults
// → component overrides → policy overrides into one EffectiveConfig,
// tracking per-leaf provenance (spec.md §4.6), grounded on the donor's
// ResolvedValue/flag>env>config>default precedence pattern
// (internal/config/resolver.go) generalized from a single flag/env/config
// precedence chain to a 5-layer, per-component, file-backed chain.
package configlayer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/synthctl/synthctl/internal/core"
	oerrors "github.com/synthctl/synthctl/internal/errors"
)

// Layer identifiers, the canonical values core.ProvenanceLeaf.LayerID is
// populated with (§4.6, "Layers").
const (
	LayerFallback           = "fallback"
	LayerPlatformDefault    = "platform-default"
	LayerEnvironmentDefault = "environment-default"
	LayerComponentOverride  = "component-override"
	LayerPolicyOverride     = "policy-override"
)

var layerLabels = map[string]string{
	LayerFallback:           "hardcoded fallback (schema default)",
	LayerPlatformDefault:    "platform default",
	LayerEnvironmentDefault: "environment default",
	LayerComponentOverride:  "component override (spec.config)",
	LayerPolicyOverride:     "policy override",
}

// Builder resolves EffectiveConfig for components, reading layer files
// relative to three directories (§4.6, "Layers" 2-3-5).
type Builder struct {
	ConfigDir       string // platform defaults: <ConfigDir>/<framework>.yml
	EnvironmentsDir string // environment defaults: <EnvironmentsDir>/<environment>.yml
	PoliciesDir     string // policy overrides: <PoliciesDir>/<framework>.yml
}

// NewBuilder returns a Builder rooted at the given directories.
func NewBuilder(configDir, environmentsDir, policiesDir string) *Builder {
	return &Builder{ConfigDir: configDir, EnvironmentsDir: environmentsDir, PoliciesDir: policiesDir}
}

// Build resolves the EffectiveConfig for one component (§4.6, "Contract").
// schemaDefaults holds the component schema's `default` values (layer 1);
// spec.Config, the raw `config` block from the manifest, is layer 4.
func (b *Builder) Build(spec core.ComponentSpec, ctx core.ComponentContext, schemaDefaults map[string]any) (*core.EffectiveConfig, error) {
	merged := map[string]any{}
	provenance := map[string]core.ProvenanceLeaf{}

	mergeLayer(merged, schemaDefaults, LayerFallback, "", provenance)

	platform, err := b.loadTypedLayer(b.ConfigDir, string(ctx.ComplianceFramework), spec.Type)
	if err != nil {
		return nil, err
	}
	mergeLayer(merged, platform, LayerPlatformDefault, "", provenance)

	environment, err := b.loadTypedLayer(b.EnvironmentsDir, ctx.Environment, spec.Type)
	if err != nil {
		return nil, err
	}
	mergeLayer(merged, environment, LayerEnvironmentDefault, "", provenance)

	mergeLayer(merged, spec.Config, LayerComponentOverride, "", provenance)

	if ctx.ComplianceFramework.IsFedRAMP() {
		policy, err := b.loadTypedLayer(b.PoliciesDir, string(ctx.ComplianceFramework), spec.Type)
		if err != nil {
			return nil, err
		}
		mergeLayer(merged, policy, LayerPolicyOverride, "", provenance)
	}

	return &core.EffectiveConfig{Values: merged, Provenance: provenance}, nil
}

// loadTypedLayer reads <dir>/<name>.yml and returns the sub-map for
// componentType, or an empty map when the file or the type's entry is
// absent — a missing layer file is not an error, since most layers are
// optional overlays (§4.6 does not require any of layers 2/3/5 to exist).
func (b *Builder) loadTypedLayer(dir, name, componentType string) (map[string]any, error) {
	if dir == "" || name == "" {
		return nil, nil
	}
	path := filepath.Join(dir, name+".yml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &oerrors.Diagnostic{
			Kind:    oerrors.KindIO,
			Path:    path,
			Message: fmt.Sprintf("cannot read config layer: %v", err),
			Cause:   err,
		}
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &oerrors.Diagnostic{
			Kind:    oerrors.KindConfig,
			Path:    path,
			Message: fmt.Sprintf("malformed config layer: %v", err),
			Cause:   err,
		}
	}

	sub, ok := doc[componentType].(map[string]any)
	if !ok {
		return nil, nil
	}
	return sub, nil
}

// mergeLayer merges src into dst in place, recording provenance for every
// scalar/array leaf it sets (§4.6, "Merge rules": objects merge
// recursively; arrays and scalars replace wholesale). label overrides the
// default human label for this layer when non-empty; Build passes "" for
// every layer, so each leaf gets its layer's default label.
func mergeLayer(dst map[string]any, src map[string]any, layerID, label string, provenance map[string]core.ProvenanceLeaf) {
	if label == "" {
		label = layerLabels[layerID]
	}
	mergeObject(dst, src, layerID, label, "", provenance)
}

func mergeObject(dst map[string]any, src map[string]any, layerID, label, prefix string, provenance map[string]core.ProvenanceLeaf) {
	for k, v := range src {
		if v == nil {
			continue
		}
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}

		if childSrc, ok := v.(map[string]any); ok {
			childDst, ok := dst[k].(map[string]any)
			if !ok {
				childDst = map[string]any{}
				dst[k] = childDst
			}
			mergeObject(childDst, childSrc, layerID, label, path, provenance)
			continue
		}

		dst[k] = v
		provenance[path] = core.ProvenanceLeaf{Value: v, LayerID: layerID, SourceLabel: label}
	}
}

// PrecedenceChainSummary renders a stable, human-readable explanation of
// which layer won each leaf, used by the orchestrator's explainPrecedence
// entry point (§6).
func PrecedenceChainSummary(ec *core.EffectiveConfig) []string {
	if ec == nil {
		return nil
	}
	paths := make([]string, 0, len(ec.Provenance))
	for p := range ec.Provenance {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	lines := make([]string, 0, len(paths))
	for _, p := range paths {
		leaf := ec.Provenance[p]
		lines = append(lines, fmt.Sprintf("%s = %v (%s)", p, leaf.Value, leaf.SourceLabel))
	}
	return lines
}

// RequiredMissing returns the dotted paths present in required but absent
// from the resolved config. Build does not call it, so Build reports no
// error for a missing required leaf.
func RequiredMissing(ec *core.EffectiveConfig, required []string) []string {
	var missing []string
	for _, path := range required {
		if _, ok := lookup(ec.Values, strings.Split(path, ".")); !ok {
			missing = append(missing, path)
		}
	}
	return missing
}

// PolicyConflicts reports dotted leaf paths where a component override
// explicitly contradicts a policy-mandated value (both set the leaf, with
// different scalar values). Build does not call it: the policy value wins
// in the final merge and no conflict is reported.
func PolicyConflicts(componentOverride map[string]any, policy map[string]any) []string {
	var conflicts []string
	collectConflicts(componentOverride, policy, "", &conflicts)
	sort.Strings(conflicts)
	return conflicts
}

func collectConflicts(override, policy map[string]any, prefix string, conflicts *[]string) {
	for k, policyVal := range policy {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		overrideVal, present := override[k]
		if !present {
			continue
		}
		if childPolicy, ok := policyVal.(map[string]any); ok {
			if childOverride, ok := overrideVal.(map[string]any); ok {
				collectConflicts(childOverride, childPolicy, path, conflicts)
			}
			continue
		}
		if !equalScalar(overrideVal, policyVal) {
			*conflicts = append(*conflicts, path)
		}
	}
}

func equalScalar(a, b any) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func lookup(m map[string]any, path []string) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	v, ok := m[path[0]]
	if !ok {
		return nil, false
	}
	if len(path) == 1 {
		return v, true
	}
	child, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return lookup(child, path[1:])
}
