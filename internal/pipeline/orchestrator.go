package pipeline

import (
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/synthctl/synthctl/internal/capability"
	"github.com/synthctl/synthctl/internal/component"
	"github.com/synthctl/synthctl/internal/configlayer"
	context5 "github.com/synthctl/synthctl/internal/context"
	"github.com/synthctl/synthctl/internal/core"
	oerrors "github.com/synthctl/synthctl/internal/errors"
	"github.com/synthctl/synthctl/internal/identity"
	"github.com/synthctl/synthctl/internal/manifest"
	"github.com/synthctl/synthctl/internal/output"
	"github.com/synthctl/synthctl/internal/resolver"
	"github.com/synthctl/synthctl/internal/schema"
	"github.com/synthctl/synthctl/internal/semantic"
)

// Options carries every caller-supplied value the pipeline needs beyond the
// manifest document itself — the layer-file directories C6 reads from, the
// ambient values C5 hydrates into context, and the drift-avoidance policy
// C9/C10 enforce (§4.6 "Layers", §4.5 "Options", §4.9 "Outputs").
type Options struct {
	ConfigDir       string
	EnvironmentsDir string
	PoliciesDir     string
	Region          string
	AccountID       string

	// LogicalIDMapPath, when non-empty, is read (if present) before
	// synthesis and written after, per §6's "Logical-ID map file" and §3's
	// "Lifecycle: persistence is only for the LogicalIdMap, written at the
	// end to a caller-specified path if requested."
	LogicalIDMapPath string

	// AllowDrift bypasses the validateBeforePlan abort-on-critical-risk
	// check (§4.9, "Outputs"); it has no effect when the logical-id map's
	// own DriftAvoidanceConfig.ValidateBeforePlan is false.
	AllowDrift bool

	// AllowDegradedBindings downgrades binding failures from fatal to
	// plan-level diagnostics (§4.8, "Failure semantics"). Every binding
	// failure is downgraded alike; an access escalation is not singled out.
	AllowDegradedBindings bool
}

// Orchestrator sequences C2 through C9 (§4.10, "Stages") and owns the
// process-wide schema cache (§5, "Shared-resource policy": "init on first
// use, invalidate on explicit reload").
type Orchestrator struct {
	Components *component.Registry
	Binders    *capability.Registry

	schemaOnce sync.Once
	master     *schema.MasterSchema
	validator  *schema.Validator
	schemaErr  error
}

// NewOrchestrator builds an Orchestrator over the given registries.
func NewOrchestrator(components *component.Registry, binders *capability.Registry) *Orchestrator {
	return &Orchestrator{Components: components, Binders: binders}
}

// RegisterComponent adds a component implementation to the orchestrator's
// catalog (§6, "registerComponent(creator) — extension points invoked at
// process start").
func (o *Orchestrator) RegisterComponent(c component.Component) {
	o.Components.Register(c)
	o.InvalidateSchemaCache()
}

// RegisterBinder adds a binder strategy to the orchestrator's registry (§6,
// "registerBinder(strategy)").
func (o *Orchestrator) RegisterBinder(b capability.Binder) {
	o.Binders.Register(b)
}

// InvalidateSchemaCache forces the next call needing the composed schema to
// recompose it, per the composer's "invalidate on explicit reload"
// lifecycle (§5).
func (o *Orchestrator) InvalidateSchemaCache() {
	o.schemaOnce = sync.Once{}
	o.master = nil
	o.validator = nil
	o.schemaErr = nil
}

// ensureSchema composes and compiles the master schema exactly once per
// process (until explicitly invalidated), caching both the MasterSchema and
// its compiled Validator (§4.10, "Compose schema (C1) once per process;
// cached.").
func (o *Orchestrator) ensureSchema() (*schema.MasterSchema, *schema.Validator, error) {
	o.schemaOnce.Do(func() {
		base, err := schema.LoadBaseSchema()
		if err != nil {
			o.schemaErr = fmt.Errorf("base manifest schema: %w", err)
			return
		}
		ms := schema.Compose(base, o.Components.Schemas())
		v, err := schema.NewValidator(ms)
		if err != nil {
			// Composition succeeded but CUE couldn't compile the result —
			// fall back to base-schema-only validation (§4.3, "Fallback").
			output.Warn("master schema failed to compile, falling back to base-schema-only validation", "error", err)
			ms.Degraded = true
			baseOnly := schema.Compose(base, nil)
			v, err = schema.NewValidator(baseOnly)
			if err != nil {
				o.schemaErr = fmt.Errorf("base schema also failed to compile: %w", err)
				return
			}
			ms = baseOnly
		}
		o.master, o.validator = ms, v
	})
	return o.master, o.validator, o.schemaErr
}

// Validate runs stages 1-4 only (parse is assumed already done by the
// caller; C2 itself has no orchestration-level state) — §6's
// "validate(manifest) -> diagnostics (no synthesis)".
func (o *Orchestrator) Validate(tree manifest.Tree) ([]*oerrors.Diagnostic, error) {
	_, diags, err := o.validateStages(tree)
	return diags, err
}

// validateStages runs C3 then C4 and returns the decoded manifest alongside
// any diagnostics. err is non-nil only for conditions that make further
// processing meaningless (a schema that cannot be compiled at all); per-rule
// failures are returned as diagnostics, not errors.
func (o *Orchestrator) validateStages(tree manifest.Tree) (*core.Manifest, []*oerrors.Diagnostic, error) {
	var diags []*oerrors.Diagnostic

	_, validator, err := o.ensureSchema()
	if err != nil {
		return nil, nil, err
	}

	schemaDiags := validator.Validate(tree)
	diags = append(diags, schemaDiags...)
	if hasFatal(schemaDiags) {
		return nil, diags, nil
	}

	m, err := decodeManifest(tree)
	if err != nil {
		diags = append(diags, &oerrors.Diagnostic{Kind: oerrors.KindValidation, Message: err.Error()})
		return nil, diags, nil
	}

	checker := semantic.NewChecker(o.Components, o.Binders)
	refDiags := checker.Check(m)
	diags = append(diags, refDiags...)
	if hasFatal(refDiags) {
		return m, diags, nil
	}

	return m, diags, nil
}

func hasFatal(diags []*oerrors.Diagnostic) bool {
	for _, d := range diags {
		if d.Kind.Fatal() {
			return true
		}
	}
	return false
}

// decodeManifest converts a parsed manifest.Tree into the typed core.Manifest
// C5 onward operate on, round-tripping through YAML since both the tree and
// core.Manifest's struct tags speak the same document shape.
func decodeManifest(tree manifest.Tree) (*core.Manifest, error) {
	raw, err := yaml.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("re-encoding parsed manifest: %w", err)
	}
	var m core.Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest into typed form: %w", err)
	}
	return &m, nil
}

// Synthesize runs the full C2-C9 pipeline and emits a Plan (§4.10, "Entry
// point": "synthesize(manifestSource, options) -> {plan, report}").
func (o *Orchestrator) Synthesize(tree manifest.Tree, opts Options) (*Plan, error) {
	m, diags, err := o.validateStages(tree)
	if err != nil {
		return nil, err
	}
	if hasFatal(diags) {
		return &Plan{Report: Report{Diagnostics: diags}}, nil
	}

	contexts := context5.Hydrate(m, context5.Options{Region: opts.Region, AccountID: opts.AccountID})

	builder := configlayer.NewBuilder(opts.ConfigDir, opts.EnvironmentsDir, opts.PoliciesDir)
	configs := make(map[string]*core.EffectiveConfig, len(m.Components))
	for _, spec := range m.Components {
		comp, ok := o.Components.Get(spec.Type)
		if !ok {
			return nil, &oerrors.Diagnostic{
				Kind:    oerrors.KindReference,
				Path:    fmt.Sprintf("components[%s].type", spec.Name),
				Message: fmt.Sprintf("component type %q is not registered", spec.Type),
			}
		}
		defaults := schemaDefaults(comp.Descriptor().Schema)
		ec, err := builder.Build(spec, contexts[spec.Name], defaults)
		if err != nil {
			return nil, err
		}
		configs[spec.Name] = ec
	}

	engine := resolver.NewEngine(o.Components, o.Binders)
	result, err := engine.Resolve(m, contexts, configs)
	if err != nil {
		return nil, err
	}
	diags = append(diags, result.Diagnostics...)

	// A binding failure is fatal unless the caller explicitly opted into
	// degraded plans (§4.8, "Failure semantics": "binding failure is either
	// fatal ... or degraded ... per policy flag"). C8 never distinguishes
	// the two outcomes itself; it always just records the diagnostic.
	if len(result.Diagnostics) > 0 && !opts.AllowDegradedBindings {
		return &Plan{Report: Report{Diagnostics: diags}}, nil
	}

	resources, resourcePaths := flattenResources(m, result)

	existing, err := loadLogicalIDMap(opts.LogicalIDMapPath)
	if err != nil {
		return nil, err
	}

	idResolver := identity.NewResolver(existing)
	assigned := make(map[*core.Resource]string, len(resources))
	appliedMappings := make(map[string]identity.Mapping, len(resources))
	for _, res := range resources {
		path := resourcePaths[res]
		logicalID, strategy := idResolver.Assign(res, path)
		res.LogicalID = logicalID
		assigned[res] = logicalID
		appliedMappings[logicalID] = identity.Mapping{
			OriginalID:           logicalID,
			ResourceType:         res.Kind(),
			ComponentName:        res.Component,
			PreservationStrategy: strategy,
		}
	}

	driftAnalysis := idResolver.Analyze(resources, assigned)

	validateBeforePlan := existing != nil && existing.DriftAvoidanceConfig.ValidateBeforePlan
	if validateBeforePlan && driftAnalysis.RiskLevel == identity.SeverityCritical && !opts.AllowDrift {
		diags = append(diags, &oerrors.Diagnostic{
			Kind:     oerrors.KindDriftCritical,
			Severity: string(identity.SeverityHigh),
			Path:     "",
			Message:  fmt.Sprintf("aborting: %s", driftAnalysis.Summary),
		})
		return &Plan{Report: Report{DriftAnalysis: driftAnalysis, Diagnostics: diags}}, nil
	}

	precedence := make(map[string][]string, len(configs))
	for name, ec := range configs {
		precedence[name] = configlayer.PrecedenceChainSummary(ec)
	}

	if opts.LogicalIDMapPath != "" {
		toSave := existing
		if toSave == nil {
			toSave = identity.NewLogicalIDMap(m.Service, m.Environment)
		}
		toSave.Mappings = appliedMappings
		if err := identity.Save(opts.LogicalIDMapPath, toSave); err != nil {
			return nil, err
		}
	}

	return &Plan{
		Resources: resources,
		Report: Report{
			AppliedLogicalIDMappings: appliedMappings,
			DriftAnalysis:            driftAnalysis,
			PrecedenceChains:         precedence,
			Diagnostics:              diags,
		},
	}, nil
}

// ExplainPrecedence resolves one component's effective config and returns
// its precedence chain entries (§6, "explainPrecedence(component) ->
// {layer, value, source}[]").
func (o *Orchestrator) ExplainPrecedence(tree manifest.Tree, componentName string, opts Options) ([]PrecedenceEntry, error) {
	m, diags, err := o.validateStages(tree)
	if err != nil {
		return nil, err
	}
	if hasFatal(diags) {
		return nil, fmt.Errorf("manifest has fatal validation diagnostics, cannot explain precedence")
	}

	var spec core.ComponentSpec
	found := false
	for _, c := range m.Components {
		if c.Name == componentName {
			spec, found = c, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("component %q not found in manifest", componentName)
	}

	contexts := context5.Hydrate(m, context5.Options{Region: opts.Region, AccountID: opts.AccountID})
	comp, ok := o.Components.Get(spec.Type)
	if !ok {
		return nil, fmt.Errorf("component type %q is not registered", spec.Type)
	}

	builder := configlayer.NewBuilder(opts.ConfigDir, opts.EnvironmentsDir, opts.PoliciesDir)
	ec, err := builder.Build(spec, contexts[componentName], schemaDefaults(comp.Descriptor().Schema))
	if err != nil {
		return nil, err
	}
	return precedenceEntries(ec), nil
}

func loadLogicalIDMap(path string) (*identity.LogicalIDMap, error) {
	if path == "" {
		return nil, nil
	}
	return identity.Load(path)
}

// flattenResources collects every resource from a resolved synthesis,
// pairing each with the construct path C9's deterministic hash is computed
// over: stack root -> component name -> construct key.
func flattenResources(m *core.Manifest, result *resolver.Result) ([]*core.Resource, map[*core.Resource]identity.ConstructPath) {
	paths := make(map[*core.Resource]identity.ConstructPath)
	var resources []*core.Resource

	for _, name := range result.Order {
		compOutput := result.Outputs[name]
		keys := make([]string, 0, len(compOutput.Constructs))
		for k := range compOutput.Constructs {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			handle := compOutput.Constructs[key]
			if res, ok := handle.Ref.(*core.Resource); ok {
				paths[res] = identity.ConstructPath{m.Service, name, key}
			}
		}
		for _, res := range compOutput.Resources {
			if _, ok := paths[res]; !ok {
				paths[res] = identity.ConstructPath{m.Service, name, res.Kind()}
			}
		}
		resources = append(resources, compOutput.Resources...)
	}
	return resources, paths
}
