// Package schema implements C1 (Schema Composer) and C3 (Schema Validator):
// it discovers per-component Config.schema.json fragments, stitches them
// into one master JSON Schema keyed by component type (§4.1), then validates
// a parsed manifest tree against that master schema using
// cuelang.org/go/cue's unification engine as the structural-typing backend
// for the composed schema (§4.3).
package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/synthctl/synthctl/internal/output"
)

//go:embed schemas
var baseSchemaFS embed.FS

// BaseManifestSchemaPath is the embedded base schema's logical path,
// exposed for tests and for CLI diagnostics.
const BaseManifestSchemaPath = "schemas/base-manifest.schema.json"

// Warning is a non-fatal composition note (§4.1, "Errors": "Malformed
// schema files are logged and skipped ... Duplicate types are ignored
// (first-wins) with a warning.").
type Warning struct {
	ComponentType string
	Message       string
}

// MasterSchema is the composed JSON Schema document plus the bookkeeping C3
// and C4 need: which component types were loaded, and whether composition
// fell back to the base schema alone.
type MasterSchema struct {
	Document map[string]any
	Types    []string
	Warnings []Warning

	// Degraded is true when composition could not be completed and C3 must
	// fall back to base-schema-only validation (§4.3, "Fallback").
	Degraded bool
}

// LoadBaseSchema reads the embedded base manifest schema.
func LoadBaseSchema() (map[string]any, error) {
	data, err := baseSchemaFS.ReadFile(BaseManifestSchemaPath)
	if err != nil {
		return nil, fmt.Errorf("base manifest schema missing: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("base manifest schema is malformed: %w", err)
	}
	return doc, nil
}

// Compose builds the master schema from the base schema and the discovered
// per-component schemas, keyed by component type (§4.1, "Composition
// algorithm").
func Compose(base map[string]any, componentSchemas map[string][]byte) *MasterSchema {
	master := deepClone(base)
	defs := ensureDefs(master)

	types := make([]string, 0, len(componentSchemas))
	for t := range componentSchemas {
		types = append(types, t)
	}
	sort.Strings(types)

	ms := &MasterSchema{Document: master}
	loaded := map[string]bool{}

	for _, componentType := range types {
		raw := componentSchemas[componentType]
		var compSchema map[string]any
		if err := json.Unmarshal(raw, &compSchema); err != nil {
			ms.Warnings = append(ms.Warnings, Warning{
				ComponentType: componentType,
				Message:       fmt.Sprintf("malformed schema, skipped: %v", err),
			})
			continue
		}

		if loaded[componentType] {
			ms.Warnings = append(ms.Warnings, Warning{
				ComponentType: componentType,
				Message:       "duplicate component type, first registration wins",
			})
			continue
		}

		definitionsKey := findDefinitionsKey(compSchema)
		if definitionsKey != "" {
			if inner, ok := compSchema[definitionsKey].(map[string]any); ok {
				for name, def := range inner {
					defs[fmt.Sprintf("component.%s.definition.%s", componentType, name)] = def
				}
			}
			delete(compSchema, definitionsKey)
		}

		rewriteRefs(compSchema, componentType)
		defs[fmt.Sprintf("component.%s.config", componentType)] = compSchema

		loaded[componentType] = true
		ms.Types = append(ms.Types, componentType)
	}

	sort.Strings(ms.Types)
	constrainComponentDefinition(master, ms.Types)

	for _, w := range ms.Warnings {
		output.Warn("schema composition warning", "component", w.ComponentType, "message", w.Message)
	}

	return ms
}

func ensureDefs(doc map[string]any) map[string]any {
	defs, ok := doc["$defs"].(map[string]any)
	if !ok {
		defs = map[string]any{}
		doc["$defs"] = defs
	}
	return defs
}

// findDefinitionsKey returns "definitions" if present in s (draft-07 style);
// component schemas in this catalog don't currently use nested definitions,
// but composition still honors the convention (§4.1, "Extract definitions
// (if present)").
func findDefinitionsKey(s map[string]any) string {
	if _, ok := s["definitions"]; ok {
		return "definitions"
	}
	return ""
}

// rewriteRefs rewrites every "$ref" string inside schema in place:
// "#/definitions/X" -> "#/$defs/component.T.definition.X"; a bare "#"
// self-reference -> "#/$defs/component.T.config" (§4.1, "Rewrite every
// $ref").
func rewriteRefs(node any, componentType string) {
	switch v := node.(type) {
	case map[string]any:
		if ref, ok := v["$ref"].(string); ok {
			v["$ref"] = rewriteRef(ref, componentType)
		}
		for _, child := range v {
			rewriteRefs(child, componentType)
		}
	case []any:
		for _, child := range v {
			rewriteRefs(child, componentType)
		}
	}
}

func rewriteRef(ref, componentType string) string {
	if ref == "#" {
		return fmt.Sprintf("#/$defs/component.%s.config", componentType)
	}
	if strings.HasPrefix(ref, "#/definitions/") {
		name := strings.TrimPrefix(ref, "#/definitions/")
		return fmt.Sprintf("#/$defs/component.%s.definition.%s", componentType, name)
	}
	return ref
}

// constrainComponentDefinition mutates the base schema's $defs.component
// entry: constrains properties.type to the enum of loaded types and appends
// one allOf conditional per type (§4.1, step 3).
func constrainComponentDefinition(master map[string]any, types []string) {
	defs, ok := master["$defs"].(map[string]any)
	if !ok {
		return
	}
	comp, ok := defs["component"].(map[string]any)
	if !ok {
		return
	}

	if len(types) == 0 {
		return
	}

	props, ok := comp["properties"].(map[string]any)
	if !ok {
		props = map[string]any{}
		comp["properties"] = props
	}
	typeProp, ok := props["type"].(map[string]any)
	if !ok {
		typeProp = map[string]any{"type": "string"}
		props["type"] = typeProp
	}
	enumValues := make([]any, len(types))
	for i, t := range types {
		enumValues[i] = t
	}
	typeProp["enum"] = enumValues

	allOf, _ := comp["allOf"].([]any)
	for _, t := range types {
		allOf = append(allOf, map[string]any{
			"if": map[string]any{
				"properties": map[string]any{
					"type": map[string]any{"const": t},
				},
			},
			"then": map[string]any{
				"properties": map[string]any{
					"config": map[string]any{"$ref": fmt.Sprintf("#/$defs/component.%s.config", t)},
				},
			},
		})
	}
	comp["allOf"] = allOf
}

// deepClone copies a JSON-shaped value via round-tripping through
// encoding/json, a standard idiom for cloning decoded JSON/YAML trees
// without hand-rolling a recursive copy for every node kind.
func deepClone[T any](v T) T {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("schema: cannot clone value: %v", err))
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		panic(fmt.Sprintf("schema: cannot clone value: %v", err))
	}
	return out
}
