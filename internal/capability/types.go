// Package capability implements C7, the Capability/Binder Registry: it
// registers per-target-capability binder strategies and answers validity and
// binding queries, generalized from the donor's provider.Match/evaluateMatch
// label-and-trait matching algorithm to capability-name/access-mode
// matching.
package capability

import (
	"github.com/synthctl/synthctl/internal/core"
)

// BinderDescriptor is a binder strategy's static declaration (§4.7, "Binder
// Strategy"). SupportedSourceTypes is empty when the strategy accepts any
// source component type.
type BinderDescriptor struct {
	Name                 string
	SupportedSourceTypes []string
	SupportedCapabilities []string
	SupportedAccess      []core.AccessMode
}

// Supports reports whether this binder can serve the given capability for
// the given source component type and access mode.
func (d BinderDescriptor) Supports(sourceType, capabilityName string, access core.AccessMode) bool {
	if !containsString(d.SupportedCapabilities, capabilityName) {
		return false
	}
	if len(d.SupportedSourceTypes) > 0 && !containsString(d.SupportedSourceTypes, sourceType) {
		return false
	}
	if len(d.SupportedAccess) > 0 {
		matched := false
		for _, a := range d.SupportedAccess {
			if a == access {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// BindContext carries everything a Binder needs to produce a BindingResult
// for one directive.
type BindContext struct {
	Directive           core.BindingDirective
	SourceComponentType string
	SourceConstructs    map[string]core.ConstructHandle
	TargetConstructs    map[string]core.ConstructHandle
	TargetCapability    core.Capability
	ComplianceFramework core.ComplianceFramework
}

// BindingMetadata is the non-environment-variable half of a BindingResult
// (§4.7, "BindingResult").
type BindingMetadata struct {
	Success      bool           `json:"success"`
	BindingType  string         `json:"bindingType"`
	Error        string         `json:"error,omitempty"`
	ErrorDetails map[string]any `json:"errorDetails,omitempty"`

	// GrantedActions is the least-privilege action set computed for the
	// directive's access mode (§4.7, "Apply access-mode-specific capability
	// grants").
	GrantedActions []string `json:"grantedActions,omitempty"`

	// PolicyOverlays lists the compliance overlays applied to this binding
	// (§4.7, "Apply compliance overlays when framework starts with
	// fedramp").
	PolicyOverlays []string `json:"policyOverlays,omitempty"`
}

// BindingResult is what Bind returns — never an error, per §4.7: "Failures
// are caught and returned as a non-throwing BindingResult with
// metadata.success = false".
type BindingResult struct {
	EnvironmentVariables map[string]string `json:"environmentVariables"`
	Metadata             BindingMetadata   `json:"metadata"`
}

// failResult builds a BindingResult describing a bind-time failure.
func failResult(bindingType, errMsg string, details map[string]any) BindingResult {
	return BindingResult{
		EnvironmentVariables: map[string]string{},
		Metadata: BindingMetadata{
			Success:      false,
			BindingType:  bindingType,
			Error:        errMsg,
			ErrorDetails: details,
		},
	}
}

// Binder is one registered binder strategy.
type Binder interface {
	Descriptor() BinderDescriptor
	Bind(ctx BindContext) BindingResult
}
