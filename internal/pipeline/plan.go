// Package pipeline implements C10, the Pipeline Orchestrator: it sequences
// C2 through C9 into the synthesize/validate/explainPrecedence entry points
// spec.md §6 names as the system's programmatic interface, and owns the two
// terminal artifacts those entry points produce, Plan and Report (§3,
// "Plan (P)").
package pipeline

import (
	"sort"

	"github.com/synthctl/synthctl/internal/core"
	oerrors "github.com/synthctl/synthctl/internal/errors"
	"github.com/synthctl/synthctl/internal/identity"
)

// Plan is the terminal artifact of a synthesis run: the resource template
// plus its side-car Report (§3, "Plan (P)").
type Plan struct {
	Resources []*core.Resource
	Report    Report
}

// Report is Plan's side-car diagnostic and provenance record (§3, "Plan
// (P)": "a side-car report {appliedLogicalIdMappings, driftAnalysis,
// precedenceChains, diagnostics}").
type Report struct {
	AppliedLogicalIDMappings map[string]identity.Mapping
	DriftAnalysis            identity.DriftAnalysis
	PrecedenceChains         map[string][]string
	Diagnostics              []*oerrors.Diagnostic
}

// PrecedenceEntry is one line of explainPrecedence's output (§6,
// "explainPrecedence(component) -> {layer, value, source}[]").
type PrecedenceEntry struct {
	Path   string
	Value  any
	Layer  string
	Source string
}

// precedenceEntries converts an EffectiveConfig's provenance map into the
// sorted []PrecedenceEntry explainPrecedence returns, ordered by dotted leaf
// path for a stable report.
func precedenceEntries(ec *core.EffectiveConfig) []PrecedenceEntry {
	if ec == nil {
		return nil
	}
	paths := make([]string, 0, len(ec.Provenance))
	for p := range ec.Provenance {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	entries := make([]PrecedenceEntry, 0, len(paths))
	for _, p := range paths {
		leaf := ec.Provenance[p]
		entries = append(entries, PrecedenceEntry{Path: p, Value: leaf.Value, Layer: leaf.LayerID, Source: leaf.SourceLabel})
	}
	return entries
}
