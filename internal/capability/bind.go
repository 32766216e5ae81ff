package capability

import (
	"fmt"

	"github.com/synthctl/synthctl/internal/core"
)

// actionSets maps access mode to the least-privilege action suffixes
// granted on the target resource (§4.7, step 3). Actual provider-qualified
// action strings (e.g. "dynamodb:GetItem") are composed by each binder from
// its own action vocabulary combined with this mode-to-verb mapping.
var actionSets = map[core.AccessMode][]string{
	core.AccessRead:      {"Get", "Describe", "List"},
	core.AccessWrite:     {"Put", "Update"},
	core.AccessReadWrite: {"Get", "Describe", "List", "Put", "Update"},
	core.AccessAdmin:     {"Get", "Describe", "List", "Put", "Update", "Delete", "CreateTable", "ModifyInstance"},
	core.AccessUse:       {"Describe"},
	core.AccessInvoke:    {"Invoke"},
	core.AccessConsume:   {"ReceiveMessage", "DeleteMessage", "GetQueueAttributes"},
	core.AccessForward:   {"SendMessage"},
}

func grantedActions(access core.AccessMode, prefix string) []string {
	verbs := actionSets[access]
	actions := make([]string, 0, len(verbs))
	for _, v := range verbs {
		actions = append(actions, fmt.Sprintf("%s:%s", prefix, v))
	}
	return actions
}

// applyComplianceOverlays returns the overlay names that apply for the
// given framework (§4.7, step 4). The bind algorithm's actual effect
// (secure-transport conditions, region pinning, private-endpoint deny
// rules) is represented here as recorded overlay names on the
// BindingMetadata rather than as IAM policy JSON, since concrete policy
// documents are a component/provider concern (spec.md §1, Non-goals).
func applyComplianceOverlays(framework core.ComplianceFramework) []string {
	if !framework.IsFedRAMP() {
		return nil
	}
	overlays := []string{"require-secure-transport", "pin-region"}
	if framework == core.FrameworkFedRAMPHigh {
		overlays = append(overlays, "deny-without-private-endpoint")
	}
	return overlays
}

// remapEnv applies the directive's optional env key remapping (§4.7, step
// 6): base maps a binder's natural env var name to a value; directive.Env,
// when set for a given natural name, renames the key the source component
// actually sees.
func remapEnv(base map[string]string, directiveEnv map[string]string) map[string]string {
	out := make(map[string]string, len(base))
	for k, v := range base {
		key := k
		if directiveEnv != nil {
			if renamed, ok := directiveEnv[k]; ok {
				key = renamed
			}
		}
		out[key] = v
	}
	return out
}

func successResult(bindingType string, env map[string]string, actions, overlays []string) BindingResult {
	return BindingResult{
		EnvironmentVariables: env,
		Metadata: BindingMetadata{
			Success:        true,
			BindingType:    bindingType,
			GrantedActions: actions,
			PolicyOverlays: overlays,
		},
	}
}
