// Package component is the black-box catalog of component implementations
// behind C7/C8 (spec.md §4.5, "per-component resource materialization ...
// is treated as a black box behind a Component capability set"). It mirrors
// the donor's internal/core/component extraction pattern (Component.Validate,
// IsConcrete), generalized from CUE-value extraction to plain Go structs
// since each component here produces a declarative resource tree directly
// rather than a CUE value extracted from a rendered module.
package component

import (
	"fmt"

	"github.com/synthctl/synthctl/internal/core"
)

// Descriptor is the static metadata C1 and C7 need about a component type,
// independent of any particular manifest instance.
type Descriptor struct {
	Type          string
	Capability    string
	ConstructKeys []string
	Stateful      bool
	Schema        []byte

	// SupportedBindTargets lists the capability names this type may bind to
	// as a `from` source (§4.4, "suggestion e.g. supported targets for
	// lambda-api: queue:sqs, db:postgres, bucket:s3"). Empty for types that
	// are never a binding source.
	SupportedBindTargets []string

	// SupportedEvents lists the event names this type may emit as a
	// trigger's `from` source (§4.4, "Triggers reference event names
	// declared by the source component type"). Empty for types that never
	// originate a trigger.
	SupportedEvents []string
}

// Instance is what a component produces after Synth runs: the resources it
// contributed to the plan, the construct handles it exposes for binders, and
// the capabilities it registers (§3, "Capability (CAP)").
type Instance struct {
	Resources    []*core.Resource
	Constructs   map[string]core.ConstructHandle
	Capabilities []core.Capability
}

// Component is one component implementation. Synth is the only behavior the
// core depends on; everything else about how a component builds its
// resources is the component's own concern (spec.md §1, "Non-goals").
type Component interface {
	Descriptor() Descriptor
	Synth(ctx core.ComponentContext, spec core.ComponentSpec, cfg *core.EffectiveConfig) (*Instance, error)
}

// Validate checks the minimum shape an Instance must have after Synth runs.
func (i *Instance) Validate(componentName string) error {
	if len(i.Resources) == 0 {
		return fmt.Errorf("component %q produced no resources", componentName)
	}
	if len(i.Capabilities) == 0 {
		return fmt.Errorf("component %q registered no capabilities", componentName)
	}
	return nil
}
