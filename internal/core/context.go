package core

// ScopeHandle is the parent allocation handle a component attaches its
// resources to. It carries no behavior of its own; components use it as an
// opaque "under what name does this resource live" anchor when computing
// deterministic logical IDs (see internal/identity).
type ScopeHandle struct {
	Path string
}

// Child returns a new ScopeHandle nested under this one, keyed by name.
func (s ScopeHandle) Child(name string) ScopeHandle {
	if s.Path == "" {
		return ScopeHandle{Path: name}
	}
	return ScopeHandle{Path: s.Path + "/" + name}
}

// ComponentContext is the immutable per-synthesis record attached to every
// component before its config is built (§3, ComponentContext; §4.5 "frozen:
// components read, never write"). It is constructed exactly once per
// component by internal/context.Hydrate and never mutated afterward.
type ComponentContext struct {
	ServiceName         string
	Owner               string
	Environment         string
	ComplianceFramework ComplianceFramework
	Region              string
	AccountID           string
	ServiceLabels       map[string]string
	Scope               ScopeHandle
}
