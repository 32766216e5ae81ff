package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/synthctl/synthctl/internal/core"
	"github.com/synthctl/synthctl/pkg/weights"
)

// Compile-time assertion: *core.Resource satisfies ResourceInfo.
var _ ResourceInfo = (*core.Resource)(nil)

// ManifestOptions controls manifest output formatting.
type ManifestOptions struct {
	// Format specifies output format: "yaml" or "json"
	Format Format
	// Writer is the output destination
	Writer io.Writer
}

// ResourceInfo provides information about a resource for output formatting.
// *core.Resource satisfies it (see the assertion above).
type ResourceInfo interface {
	GetObject() *unstructured.Unstructured
	GetGVK() schema.GroupVersionKind
	GetKind() string
	GetName() string
	GetNamespace() string
}

// WriteManifests writes resources to the writer in the specified format.
// Resources are sorted by weight for consistent output.
func WriteManifests(resources []ResourceInfo, opts ManifestOptions) error {
	if len(resources) == 0 {
		return nil
	}

	// Sort resources by weight then by name for deterministic output
	sortResourceInfos(resources)

	switch opts.Format {
	case FormatJSON:
		return writeJSON(resources, opts.Writer)
	case FormatYAML:
		return writeYAML(resources, opts.Writer)
	case FormatTable, FormatDir:
		return fmt.Errorf("format %s not supported for manifest output", opts.Format)
	}
	return writeYAML(resources, opts.Writer) // Default to YAML
}

// sortResourceInfos sorts resources by weight, then by namespace, then by name.
func sortResourceInfos(resources []ResourceInfo) {
	sort.Slice(resources, func(i, j int) bool {
		// Primary: sort by weight
		wi := weights.GetWeight(resources[i].GetGVK())
		wj := weights.GetWeight(resources[j].GetGVK())
		if wi != wj {
			return wi < wj
		}

		// Secondary: sort by namespace
		nsi := resources[i].GetNamespace()
		nsj := resources[j].GetNamespace()
		if nsi != nsj {
			return nsi < nsj
		}

		// Tertiary: sort by name
		return resources[i].GetName() < resources[j].GetName()
	})
}

// writeYAML writes resources as YAML documents separated by ---. Marshaling
// goes through sigs.k8s.io/yaml (JSON-then-YAML) rather than gopkg.in/yaml.v3
// directly, so map keys come out in the same order a JSON round-trip would
// give them, matching the ordering tools consuming these manifests expect
// from a Kubernetes-style object.
func writeYAML(resources []ResourceInfo, w io.Writer) error {
	for i, res := range resources {
		if i > 0 {
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return err
			}
		}
		out, err := sigsyaml.Marshal(res.GetObject().Object)
		if err != nil {
			return fmt.Errorf("encoding resource %s/%s: %w",
				res.GetKind(), res.GetName(), err)
		}
		if _, err := w.Write(out); err != nil {
			return err
		}
	}
	return nil
}

// writeJSON writes resources as a JSON array.
func writeJSON(resources []ResourceInfo, w io.Writer) error {
	objects := make([]map[string]any, len(resources))
	for i, res := range resources {
		objects[i] = res.GetObject().Object
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(objects); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}
