package core

// Well-known service label keys, mirroring the stable label-key convention
// used throughout the donor codebase. context.Hydrate puts LabelManagedBy,
// LabelService and LabelEnvironment into every ComponentContext's
// ServiceLabels; synthesized resources carry no labels, and LabelComponent
// is not set anywhere.
const (
	LabelManagedBy  = "synthctl.dev/managed-by"
	LabelService    = "synthctl.dev/service"
	LabelComponent  = "synthctl.dev/component"
	LabelEnvironment = "synthctl.dev/environment"
)

// ManagedByValue is the fixed value context.Hydrate gives LabelManagedBy.
const ManagedByValue = "synthctl"
