package pipeline

import "encoding/json"

// schemaDefaults walks a component's raw Config.schema.json and extracts
// every "default" value declared under "properties", recursively, producing
// the fallback layer C6's Builder.Build expects as its schemaDefaults
// argument (§4.6, "Layers": "1. Hardcoded fallback values (from the
// component's own schema defaults)"). A schema that fails to parse, or
// carries no defaults at all, yields an empty map rather than an error —
// the fallback layer is optional by construction.
func schemaDefaults(rawSchema []byte) map[string]any {
	if len(rawSchema) == 0 {
		return nil
	}
	var doc map[string]any
	if err := json.Unmarshal(rawSchema, &doc); err != nil {
		return nil
	}
	return defaultsFromNode(doc)
}

// defaultsFromNode extracts defaults from one schema node's "properties",
// descending into nested "object"-typed properties so that a path like
// certificate-manager's "validation.method" surfaces as a nested map entry
// rather than being flattened.
func defaultsFromNode(node map[string]any) map[string]any {
	properties, ok := node["properties"].(map[string]any)
	if !ok {
		return nil
	}

	out := map[string]any{}
	for name, raw := range properties {
		propSchema, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if nested := defaultsFromNode(propSchema); len(nested) > 0 {
			out[name] = nested
			continue
		}
		if def, ok := propSchema["default"]; ok {
			out[name] = def
		}
	}
	return out
}
