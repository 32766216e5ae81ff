// Package resolver implements C8, the Resolver Engine: it orders components
// into a dependency-respecting synthesis sequence, synthesizes each leaf
// first, then wires bindings across the synthesized graph (spec.md §4.8).
package resolver

import (
	"fmt"
	"sort"

	"github.com/synthctl/synthctl/internal/capability"
	"github.com/synthctl/synthctl/internal/component"
	"github.com/synthctl/synthctl/internal/core"
	oerrors "github.com/synthctl/synthctl/internal/errors"
)

// Options controls C8's binding-failure policy (§4.8, "Failure semantics").
type Options struct {
	// AllowDegradedBindings, when true, downgrades a binding failure to a
	// plan-level diagnostic instead of aborting the pipeline. Failures are
	// not told apart: an access escalation is downgraded like any other.
	// Engine does not read this type; the orchestrator applies the policy.
	AllowDegradedBindings bool
}

// Engine runs the dependency graph, synthesis, and binding stages over a
// manifest.
type Engine struct {
	Components *component.Registry
	Binders    *capability.Registry
}

// NewEngine builds an Engine over the given registries.
func NewEngine(components *component.Registry, binders *capability.Registry) *Engine {
	return &Engine{Components: components, Binders: binders}
}

// ComponentOutput is what survives one component's synthesis for downstream
// stages to consume.
type ComponentOutput struct {
	Resources    []*core.Resource
	Constructs   map[string]core.ConstructHandle
	Capabilities []core.Capability
}

// Result is everything C8 produces: synthesis order, every component's
// output, and the outcome of every binding directive.
type Result struct {
	Order          []string
	Outputs        map[string]*ComponentOutput
	BindingResults []capability.BindingResult
	Diagnostics    []*oerrors.Diagnostic
}

// Resolve runs the full C8 pipeline: build the dependency graph, order it
// topologically (ties break by manifest declaration order), synthesize
// leaves first, then invoke the binder registry for every bind directive.
func (e *Engine) Resolve(manifest *core.Manifest, contexts map[string]core.ComponentContext, configs map[string]*core.EffectiveConfig) (*Result, error) {
	order, err := topologicalOrder(manifest)
	if err != nil {
		return nil, err
	}

	specByName := make(map[string]core.ComponentSpec, len(manifest.Components))
	for _, s := range manifest.Components {
		specByName[s.Name] = s
	}

	outputs := make(map[string]*ComponentOutput, len(order))
	for _, name := range order {
		spec := specByName[name]
		comp, ok := e.Components.Get(spec.Type)
		if !ok {
			return nil, &oerrors.Diagnostic{
				Kind:    oerrors.KindReference,
				Path:    fmt.Sprintf("components[%s].type", name),
				Message: fmt.Sprintf("component type %q is not registered", spec.Type),
			}
		}

		ctx := contexts[name]
		cfg := configs[name]
		instance, err := comp.Synth(ctx, spec, cfg)
		if err != nil {
			// A synthesis exception aborts the pipeline immediately
			// (§4.8, "Failure semantics": "infrastructure consistency
			// requires atomic plan emission").
			return nil, fmt.Errorf("synthesizing component %q (%s): %w", name, spec.Type, err)
		}
		if err := instance.Validate(name); err != nil {
			return nil, err
		}

		outputs[name] = &ComponentOutput{
			Resources:    instance.Resources,
			Constructs:   instance.Constructs,
			Capabilities: instance.Capabilities,
		}
	}

	result := &Result{Order: order, Outputs: outputs}

	for i, b := range manifest.Binds {
		result.bindOne(e, manifest, specByName, outputs, i, b)
	}

	return result, nil
}

func (r *Result) bindOne(e *Engine, manifest *core.Manifest, specByName map[string]core.ComponentSpec, outputs map[string]*ComponentOutput, index int, b core.BindingDirective) {
	fromSpec := specByName[b.From]
	fromOutput := outputs[b.From]
	toOutput := outputs[b.To]

	var targetCapability core.Capability
	for _, cap := range toOutput.Capabilities {
		if cap.Name == b.Capability {
			targetCapability = cap
			break
		}
	}

	bindCtx := capability.BindContext{
		Directive:           b,
		SourceComponentType: fromSpec.Type,
		SourceConstructs:    fromOutput.Constructs,
		TargetConstructs:    toOutput.Constructs,
		TargetCapability:    targetCapability,
		ComplianceFramework: manifest.ComplianceFramework,
	}

	bindResult := e.Binders.Bind(bindCtx)
	r.BindingResults = append(r.BindingResults, bindResult)

	if bindResult.Metadata.Success {
		return
	}

	// C8 always records a diagnostic and never aborts here — the pipeline
	// orchestrator (C10) decides whether the diagnostic aborts the run.
	// Every failure gets the same KindBinding diagnostic, so an access
	// escalation is not told apart from other binding failures.
	r.Diagnostics = append(r.Diagnostics, &oerrors.Diagnostic{
		Kind:    oerrors.KindBinding,
		Path:    fmt.Sprintf("binds[%d]", index),
		Message: bindResult.Metadata.Error,
	})
}

// topologicalOrder builds the component dependency graph from binds[] (a
// `from` depends on its bind target `to`, since the binder needs the
// target's capabilities already registered) and returns components in
// dependency order, leaves first. Ties break by manifest declaration order
// (§4.8, "Ordering details").
func topologicalOrder(manifest *core.Manifest) ([]string, error) {
	index := make(map[string]int, len(manifest.Components))
	for i, c := range manifest.Components {
		index[c.Name] = i
	}

	// dependents[to] lists the components unlocked once `to` is ordered.
	dependents := make(map[string][]string)
	indegree := make(map[string]int, len(manifest.Components))
	for _, c := range manifest.Components {
		indegree[c.Name] = 0
	}
	for _, b := range manifest.Binds {
		if _, ok := index[b.From]; !ok {
			continue
		}
		if _, ok := index[b.To]; !ok {
			continue
		}
		if b.From == b.To {
			continue
		}
		dependents[b.To] = append(dependents[b.To], b.From)
		indegree[b.From]++
	}

	var ready []string
	for _, c := range manifest.Components {
		if indegree[c.Name] == 0 {
			ready = append(ready, c.Name)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return index[ready[i]] < index[ready[j]] })

	var order []string
	remaining := indegree
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		unlocked := append([]string(nil), dependents[next]...)
		sort.Slice(unlocked, func(i, j int) bool { return index[unlocked[i]] < index[unlocked[j]] })
		for _, dependent := range unlocked {
			remaining[dependent]--
			if remaining[dependent] == 0 {
				insertSorted(&ready, dependent, index)
			}
		}
	}

	if len(order) != len(manifest.Components) {
		cycle := findCycle(manifest, order)
		return nil, &oerrors.Diagnostic{
			Kind:    oerrors.KindReference,
			Path:    "binds",
			Message: fmt.Sprintf("cyclic dependency graph: %v", cycle),
		}
	}

	return order, nil
}

func insertSorted(ready *[]string, name string, index map[string]int) {
	i := sort.Search(len(*ready), func(i int) bool { return index[(*ready)[i]] >= index[name] })
	*ready = append(*ready, "")
	copy((*ready)[i+1:], (*ready)[i:])
	(*ready)[i] = name
}

// findCycle locates one cycle among the components that never reached zero
// indegree, for inclusion in the CyclicGraph diagnostic.
func findCycle(manifest *core.Manifest, ordered []string) []string {
	done := make(map[string]bool, len(ordered))
	for _, n := range ordered {
		done[n] = true
	}

	adjacency := make(map[string][]string)
	for _, b := range manifest.Binds {
		if done[b.From] || b.From == b.To {
			continue
		}
		adjacency[b.From] = append(adjacency[b.From], b.To)
	}

	visiting := map[string]bool{}
	visited := map[string]bool{}
	var path []string

	var visit func(node string) []string
	visit = func(node string) []string {
		if visiting[node] {
			for i, n := range path {
				if n == node {
					return append(append([]string{}, path[i:]...), node)
				}
			}
		}
		if visited[node] {
			return nil
		}
		visiting[node] = true
		path = append(path, node)
		for _, next := range adjacency[node] {
			if done[next] {
				continue
			}
			if cycle := visit(next); cycle != nil {
				return cycle
			}
		}
		visiting[node] = false
		path = path[:len(path)-1]
		visited[node] = true
		return nil
	}

	for _, c := range manifest.Components {
		if done[c.Name] {
			continue
		}
		if cycle := visit(c.Name); cycle != nil {
			return cycle
		}
	}
	return nil
}
