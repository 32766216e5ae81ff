package core

// ProvenanceLeaf records, for a single resolved configuration leaf, which
// precedence layer set the value and a human label for it (§3,
// EffectiveConfig: "Carries the provenance of each leaf"). LayerID is a
// small string rather than an enum type to keep internal/core free of a
// dependency on internal/configlayer; internal/configlayer defines the
// canonical layer identifiers this field is populated with.
type ProvenanceLeaf struct {
	Value       any
	LayerID     string
	SourceLabel string
}

// EffectiveConfig is the resolved configuration for one component after the
// 5-layer precedence merge (§3, EffectiveConfig; §4.6).
type EffectiveConfig struct {
	// Values is the merged configuration tree.
	Values map[string]any

	// Provenance maps a dotted leaf path (e.g. "encryption" or
	// "validation.method") to the ProvenanceLeaf that won it.
	Provenance map[string]ProvenanceLeaf
}

// Get returns the value at a top-level key and whether it was set.
func (ec *EffectiveConfig) Get(key string) (any, bool) {
	if ec == nil || ec.Values == nil {
		return nil, false
	}
	v, ok := ec.Values[key]
	return v, ok
}

// PrecedenceChain returns the provenance entries for explainPrecedence-style
// reporting, in a stable order determined by the caller.
func (ec *EffectiveConfig) PrecedenceChain() map[string]ProvenanceLeaf {
	if ec == nil {
		return nil
	}
	return ec.Provenance
}
