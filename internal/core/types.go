// Package core defines the shared domain types threaded through every stage
// of the synthesis pipeline: the authored manifest, the resolved graph
// directives, the per-component context and configuration, and the
// capability/construct vocabulary components and binders communicate
// through.
package core

import "fmt"

// AccessMode is the access level requested by a BindingDirective.
type AccessMode string

const (
	AccessRead      AccessMode = "read"
	AccessWrite     AccessMode = "write"
	AccessReadWrite AccessMode = "readwrite"
	AccessAdmin     AccessMode = "admin"
	AccessUse       AccessMode = "use"
	AccessInvoke    AccessMode = "invoke"
	AccessConsume   AccessMode = "consume"
	AccessForward   AccessMode = "forward"
)

// Valid reports whether the access mode is one of the eight known modes.
func (a AccessMode) Valid() bool {
	switch a {
	case AccessRead, AccessWrite, AccessReadWrite, AccessAdmin,
		AccessUse, AccessInvoke, AccessConsume, AccessForward:
		return true
	default:
		return false
	}
}

// ComplianceFramework selects platform defaults and policy overrides.
type ComplianceFramework string

const (
	FrameworkCommercial      ComplianceFramework = "commercial"
	FrameworkFedRAMPModerate ComplianceFramework = "fedramp-moderate"
	FrameworkFedRAMPHigh     ComplianceFramework = "fedramp-high"
)

// IsFedRAMP reports whether the framework requires the FedRAMP compliance
// overlay (policy-layer application, binder secure-transport/region pinning).
func (f ComplianceFramework) IsFedRAMP() bool {
	return f == FrameworkFedRAMPModerate || f == FrameworkFedRAMPHigh
}

// Manifest is the top-level authored document (§3, Manifest).
type Manifest struct {
	Service             string               `yaml:"service" json:"service"`
	Owner               string               `yaml:"owner" json:"owner"`
	ComplianceFramework ComplianceFramework  `yaml:"complianceFramework" json:"complianceFramework"`
	Environment         string               `yaml:"environment" json:"environment"`
	Components          []ComponentSpec      `yaml:"components" json:"components"`
	Binds               []BindingDirective   `yaml:"binds,omitempty" json:"binds,omitempty"`
	Triggers            []TriggerDirective   `yaml:"triggers,omitempty" json:"triggers,omitempty"`
	Tags                map[string]string    `yaml:"tags,omitempty" json:"tags,omitempty"`
	Extensions          map[string]any       `yaml:"extensions,omitempty" json:"extensions,omitempty"`
}

// ComponentSpec is a single authored component instance (§3, ComponentSpec).
type ComponentSpec struct {
	Name   string         `yaml:"name" json:"name"`
	Type   string         `yaml:"type" json:"type"`
	Config map[string]any `yaml:"config,omitempty" json:"config,omitempty"`
}

// BindingDirective is an authored edge from a source component to a target
// component's capability (§3, BindingDirective).
type BindingDirective struct {
	From       string            `yaml:"from" json:"from"`
	To         string            `yaml:"to" json:"to"`
	Capability string            `yaml:"capability" json:"capability"`
	Access     AccessMode        `yaml:"access" json:"access"`
	Env        map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
	Options    map[string]any    `yaml:"options,omitempty" json:"options,omitempty"`
}

// String renders the directive as "from -> to:capability (access)", used in
// diagnostics and logs.
func (b BindingDirective) String() string {
	return fmt.Sprintf("%s -> %s:%s (%s)", b.From, b.To, b.Capability, b.Access)
}

// TriggerDirective is an authored event wiring, orthogonal to bindings
// (§3, TriggerDirective).
type TriggerDirective struct {
	From          string         `yaml:"from" json:"from"`
	Event         string         `yaml:"event" json:"event"`
	To            string         `yaml:"to" json:"to"`
	Action        string         `yaml:"action" json:"action"`
	Configuration map[string]any `yaml:"configuration,omitempty" json:"configuration,omitempty"`
}

// Capability is a named surface a component registers after synthesizing
// (§3, Capability). Name follows the `category:subtype` grammar.
type Capability struct {
	Name string
	Data map[string]any
}

// ConstructHandle is an opaque reference a component exposes under a string
// key (§3, ConstructHandle). Binders type-assert Ref against the small set
// of payload shapes components are expected to produce: *Resource, a raw
// string identifier (ARN-like), or a nested map for composite handles.
type ConstructHandle struct {
	Key string
	Ref any
}
