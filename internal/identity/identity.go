// Package identity implements C9, the Logical-ID Manager & Drift Avoidance
// Engine: it assigns stable logical identifiers to synthesized resources and
// detects drift against a previously recorded map, adapted from the donor's
// inventory-digest change-tracking machinery to operate on a synthesized
// Plan instead of a Kubernetes apply history.
package identity

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/synthctl/synthctl/internal/core"
)

// constructPathNamespace is the UUIDv5 namespace construct paths are hashed
// under, so two stacks that happen to share a construct path segment never
// collide with an unrelated UUID namespace.
var constructPathNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("synthctl.construct-path"))

// Strategy names a logical-ID preservation strategy, in priority order
// (§4.9, "Strategies").
type Strategy string

const (
	StrategyPreserveStatefulResources  Strategy = "preserve-stateful-resources"
	StrategyDeterministicLambdaNaming  Strategy = "deterministic-lambda-naming"
	StrategyPreserveIdentityRoleNames  Strategy = "preserve-identity-role-names"
)

// Severity is the drift-analysis severity ladder (§4.9, "Drift analysis").
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Max returns the higher-ranked of two severities.
func Max(a, b Severity) Severity {
	if severityRank[b] > severityRank[a] {
		return b
	}
	return a
}

// Mapping is one entry of a LogicalIDMap: the record binding a freshly
// computed logical ID back to the identifier a prior synthesis run assigned
// the same construct (§3, "LogicalIdMap").
type Mapping struct {
	OriginalID            string         `json:"originalId"`
	ResourceType          string         `json:"resourceType"`
	ComponentName         string         `json:"componentName"`
	PreservationStrategy  Strategy       `json:"preservationStrategy"`
	Metadata              map[string]any `json:"metadata,omitempty"`
}

// LogicalIDMap is the persisted identity ledger for one stack (§3,
// "LogicalIdMap (LIM)"), serialized to logical-id-map.json at the repo root.
type LogicalIDMap struct {
	Version             int                `json:"version"`
	StackName           string             `json:"stackName"`
	Environment         string             `json:"environment"`
	Mappings            map[string]Mapping `json:"mappings"`
	DriftAvoidanceConfig DriftAvoidanceConfig `json:"driftAvoidanceConfig"`
}

// DriftAvoidanceConfig controls how strictly C9/C10 treat detected drift.
type DriftAvoidanceConfig struct {
	// ValidateBeforePlan, when set, makes the orchestrator abort on a
	// critical risk level unless AllowDrift is explicitly set (§4.9,
	// "Outputs").
	ValidateBeforePlan bool `json:"validateBeforePlan"`
	AllowDrift         bool `json:"allowDrift,omitempty"`
}

// DriftFinding is a single detected or recommended drift item.
type DriftFinding struct {
	Kind        string   `json:"kind"`
	LogicalID   string   `json:"logicalId"`
	Component   string   `json:"component"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// DriftAnalysis is C9's output artifact (§4.9, "Outputs").
type DriftAnalysis struct {
	Detected    []DriftFinding `json:"detected"`
	Recommended []DriftFinding `json:"recommended"`
	RiskLevel   Severity       `json:"riskLevel"`
	Summary     string         `json:"summary"`
}

// NewLogicalIDMap builds an empty map for a fresh stack (§4.9, "Inputs":
// "When absent, a fresh map is generated.").
func NewLogicalIDMap(stackName, environment string) *LogicalIDMap {
	return &LogicalIDMap{
		Version:     1,
		StackName:   stackName,
		Environment: environment,
		Mappings:    map[string]Mapping{},
	}
}

// Validate checks the structural invariants required before a supplied
// LogicalIDMap may be used: mapping uniqueness and bijection between new
// IDs and original IDs (§4.9, "Inputs"; §8, invariant 7, "Logical-ID
// bijection").
func (m *LogicalIDMap) Validate() error {
	seenOriginal := map[string]string{}
	for newID, mapping := range m.Mappings {
		if existing, ok := seenOriginal[mapping.OriginalID]; ok && existing != newID {
			return fmt.Errorf("logical-id-map.json is not bijective: originalId %q is claimed by both %q and %q",
				mapping.OriginalID, existing, newID)
		}
		seenOriginal[mapping.OriginalID] = newID
	}
	return nil
}

// ConstructPath is the path from stack root to a construct, used as the
// input to the deterministic hash (§4.9, "Deterministic hash").
type ConstructPath []string

func (p ConstructPath) String() string {
	return strings.Join(p, "/")
}

// Hash computes base36(fold32(constructPath)) truncated to 8 upper-case
// characters (§4.9, "Deterministic hash"). The path is first hashed into a
// deterministic UUIDv5 (RFC 4122, SHA-1 based) under constructPathNamespace,
// then fold32 folds the 16-byte UUID down to 32 bits by XOR-ing its four
// big-endian words, giving a compact, stable input to a base36 encoding.
func Hash(path ConstructPath) string {
	id := uuid.NewSHA1(constructPathNamespace, []byte(path.String()))
	var folded uint32
	for i := 0; i+4 <= len(id); i += 4 {
		folded ^= binary.BigEndian.Uint32(id[i : i+4])
	}
	encoded := strings.ToUpper(base36(folded))
	for len(encoded) < 8 {
		encoded = "0" + encoded
	}
	if len(encoded) > 8 {
		encoded = encoded[len(encoded)-8:]
	}
	return encoded
}

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func base36(n uint32) string {
	if n == 0 {
		return "0"
	}
	var b strings.Builder
	digits := make([]byte, 0, 7)
	for n > 0 {
		digits = append(digits, base36Alphabet[n%36])
		n /= 36
	}
	for i := len(digits) - 1; i >= 0; i-- {
		b.WriteByte(digits[i])
	}
	return b.String()
}

// StatefulKinds lists the resource kinds C7's components catalog flags as
// stateful, mirroring SPEC_FULL.md §4.5a's component catalog. Preserved here
// rather than imported from internal/component to avoid a dependency from
// identity back onto the component catalog. The two lists are kept in
// agreement by hand; nothing checks them against each other.
var StatefulKinds = map[string]bool{
	"PostgresDatabase": true,
	"S3Bucket":         true,
	"SecretManager":    true,
	"KeyStore":         true,
}

// Resolver assigns logical IDs to a set of resources and reports drift
// against an existing map. It is the runtime counterpart to LogicalIDMap.
type Resolver struct {
	existing *LogicalIDMap
}

// NewResolver builds a Resolver from a possibly-nil existing map.
func NewResolver(existing *LogicalIDMap) *Resolver {
	return &Resolver{existing: existing}
}

// Assign computes a logical ID for one resource at the given construct path,
// applying the priority-ordered strategies in §4.9.
func (r *Resolver) Assign(res *core.Resource, path ConstructPath) (logicalID string, strategy Strategy) {
	hash := Hash(path)
	stateful := StatefulKinds[res.Kind()]

	if mapping, ok := r.findExisting(res); ok {
		return mapping.OriginalID, mapping.PreservationStrategy
	}

	switch {
	case stateful:
		return fmt.Sprintf("%s-%s-%s", res.Component, res.Kind(), hash), StrategyPreserveStatefulResources
	case res.Kind() == "LambdaAPI":
		return fmt.Sprintf("%s-%s-%s", res.Component, res.Name(), hash), StrategyDeterministicLambdaNaming
	case strings.Contains(strings.ToLower(res.Kind()), "role") || strings.Contains(strings.ToLower(res.Kind()), "identity"):
		return fmt.Sprintf("%s-role-%s", res.Component, hash), StrategyPreserveIdentityRoleNames
	default:
		return fmt.Sprintf("%s-%s", res.Component, hash), StrategyDeterministicLambdaNaming
	}
}

// findExisting looks up res's prior mapping entry. A component/type match is
// preferred, but a manifest can rename a component without losing its
// stateful resource's identity (spec.md §8 scenario S5: "New manifest
// renames the component from `database` to `db`... mapping entry is
// honored"), so a resource type that identifies exactly one recorded mapping
// still matches even when its component name changed.
func (r *Resolver) findExisting(res *core.Resource) (Mapping, bool) {
	if r.existing == nil {
		return Mapping{}, false
	}

	var byType Mapping
	typeMatches := 0
	for _, mapping := range r.existing.Mappings {
		if mapping.ResourceType != res.Kind() {
			continue
		}
		if mapping.ComponentName == res.Component {
			return mapping, true
		}
		byType = mapping
		typeMatches++
	}
	if typeMatches == 1 {
		return byType, true
	}
	return Mapping{}, false
}

// Analyze runs drift detection over a set of freshly assigned resources
// against the existing map (§4.9, "Drift analysis").
func (r *Resolver) Analyze(resources []*core.Resource, assigned map[*core.Resource]string) DriftAnalysis {
	analysis := DriftAnalysis{RiskLevel: SeverityLow}

	existingOriginalIDs := map[string]bool{}
	if r.existing != nil {
		for _, m := range r.existing.Mappings {
			existingOriginalIDs[m.OriginalID] = true
		}
	}

	for _, res := range resources {
		logicalID := assigned[res]
		stateful := StatefulKinds[res.Kind()]

		_, hasMapping := r.findExisting(res)

		if stateful && !hasMapping {
			// The finding itself is reported at "high" (spec.md §3, §8
			// scenario S6); it's the aggregate RiskLevel that escalates to
			// "critical" below, since that's what drives the
			// validateBeforePlan abort in the orchestrator (§4.9).
			finding := DriftFinding{
				Kind:        "stateful-without-mapping",
				LogicalID:   logicalID,
				Component:   res.Component,
				Severity:    SeverityHigh,
				Description: fmt.Sprintf("stateful resource %q (%s) has no entry in the logical-id map and would be replaced", res.Component, res.Kind()),
			}
			analysis.Detected = append(analysis.Detected, finding)
			analysis.RiskLevel = Max(analysis.RiskLevel, SeverityCritical)
			continue
		}

		if existingOriginalIDs[logicalID] && !hasMapping {
			finding := DriftFinding{
				Kind:        "naming-conflict",
				LogicalID:   logicalID,
				Component:   res.Component,
				Severity:    SeverityHigh,
				Description: fmt.Sprintf("computed logical id %q collides with an existing original id", logicalID),
			}
			analysis.Detected = append(analysis.Detected, finding)
			analysis.RiskLevel = Max(analysis.RiskLevel, SeverityHigh)
		}
	}

	sort.Slice(analysis.Detected, func(i, j int) bool {
		return analysis.Detected[i].LogicalID < analysis.Detected[j].LogicalID
	})

	analysis.Summary = fmt.Sprintf("%d drift finding(s), risk=%s", len(analysis.Detected), analysis.RiskLevel)
	return analysis
}
