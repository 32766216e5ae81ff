package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/encoding/jsonschema"

	oerrors "github.com/synthctl/synthctl/internal/errors"
)

// Validator compiles a MasterSchema into a cue.Value once and validates
// manifest trees against it repeatedly, using CUE's unification engine as
// the structural-typing backend for JSON Schema (§4.3, "Validator").
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator compiles ms.Document into a CUE schema. It returns an error
// only when the master schema itself fails to compile — callers should
// treat that as KindSchema and fall back to validating against the base
// schema alone (§4.3, "Fallback").
func NewValidator(ms *MasterSchema) (*Validator, error) {
	ctx := cuecontext.New()

	raw, err := json.Marshal(ms.Document)
	if err != nil {
		return nil, fmt.Errorf("encode master schema: %w", err)
	}

	schemaValue := ctx.CompileBytes(raw)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("compile master schema as CUE: %w", schemaValue.Err())
	}

	astFile, err := jsonschema.Extract(schemaValue, &jsonschema.Config{})
	if err != nil {
		return nil, fmt.Errorf("extract JSON Schema constraints: %w", err)
	}

	built := ctx.BuildFile(astFile)
	if built.Err() != nil {
		return nil, fmt.Errorf("build extracted schema: %w", built.Err())
	}

	return &Validator{ctx: ctx, schema: built}, nil
}

// Validate checks doc (a manifest.Tree, or any JSON-shaped map) against the
// compiled schema and returns one Diagnostic per CUE validation error
// (§4.3, "Output"). An empty result means doc is schema-valid.
func (v *Validator) Validate(doc map[string]any) []*oerrors.Diagnostic {
	raw, err := json.Marshal(doc)
	if err != nil {
		return []*oerrors.Diagnostic{{
			Kind:    oerrors.KindValidation,
			Message: fmt.Sprintf("cannot encode manifest for validation: %v", err),
		}}
	}

	instance := v.ctx.CompileBytes(raw)
	if instance.Err() != nil {
		return []*oerrors.Diagnostic{{
			Kind:    oerrors.KindValidation,
			Message: fmt.Sprintf("cannot parse manifest as a value: %v", instance.Err()),
		}}
	}

	unified := v.schema.Unify(instance)
	if err := unified.Validate(cue.Concrete(true), cue.All()); err != nil {
		return diagnosticsFromCUE(err, doc)
	}
	return nil
}

// diagnosticsFromCUE converts a CUE validation error chain into one
// Diagnostic per underlying error, attaching a manifest path, a component
// name when the path traverses one, and a schema-rule hint (§4.3,
// "Diagnostic fields"). CUE reports the same violation once per unified
// schema branch, so duplicates sharing a path and message are collapsed.
func diagnosticsFromCUE(err error, doc map[string]any) []*oerrors.Diagnostic {
	errs := cueerrors.Errors(err)
	seen := map[string]bool{}
	diags := make([]*oerrors.Diagnostic, 0, len(errs))
	for _, e := range errs {
		path := cuePathString(e)
		msg := cueErrorMessage(e)
		key := path + "\x00" + msg
		if seen[key] {
			continue
		}
		seen[key] = true

		diags = append(diags, &oerrors.Diagnostic{
			Kind:       oerrors.KindValidation,
			Path:       path,
			Message:    annotatedMessage(msg, path, doc),
			Suggestion: suggestionFor(msg),
		})
	}
	return diags
}

// cueErrorMessage walks a CUE error's wrapped chain and joins each layer's
// formatted message, mirroring the donor's multi-layer CUE error
// flattening.
func cueErrorMessage(e cueerrors.Error) string {
	var parts []string
	var current error = e
	for current != nil {
		cueErr, ok := current.(cueerrors.Error) //nolint:errorlint // intentional: manual CUE error chain walk
		if !ok {
			parts = append(parts, current.Error())
			break
		}
		if format, args := cueErr.Msg(); format != "" {
			parts = append(parts, fmt.Sprintf(format, args...))
		}
		current = cueerrors.Unwrap(current)
	}
	return strings.Join(parts, ": ")
}

func cuePathString(e cueerrors.Error) string {
	segments := e.Path()
	if len(segments) == 0 {
		return ""
	}
	return strings.Join(segments, ".")
}

// annotatedMessage prefixes the raw CUE message with the component name
// when path traverses components[N] (§4.3: "When the failing path
// traverses a components[] entry, the component's name is resolved and
// included").
func annotatedMessage(msg, path string, doc map[string]any) string {
	name := componentNameForPath(path, doc)
	if name == "" {
		return msg
	}
	return fmt.Sprintf("component %q: %s", name, msg)
}

func componentNameForPath(path string, doc map[string]any) string {
	if !strings.HasPrefix(path, "components.") {
		return ""
	}
	rest := strings.TrimPrefix(path, "components.")
	idxStr, _, _ := strings.Cut(rest, ".")
	var idx int
	if _, err := fmt.Sscanf(idxStr, "%d", &idx); err != nil {
		return ""
	}
	components, ok := doc["components"].([]any)
	if !ok || idx < 0 || idx >= len(components) {
		return ""
	}
	comp, ok := components[idx].(map[string]any)
	if !ok {
		return ""
	}
	name, _ := comp["name"].(string)
	return name
}

// suggestionFor extracts a short actionable hint from a CUE error message
// for the common schema-rule failures named in §4.3: required, enum,
// pattern, and type mismatches. Enum suggestions are truncated to the
// first 10 allowed values to keep diagnostics readable.
func suggestionFor(msg string) string {
	switch {
	case strings.Contains(msg, "field is required"):
		return "add the missing required field"
	case strings.Contains(msg, "does not match pattern"):
		return "check the value against the schema's pattern constraint"
	case strings.Contains(msg, "conflicting values"):
		return "check the field's expected type"
	default:
		return truncateEnumSuggestion(msg)
	}
}

func truncateEnumSuggestion(msg string) string {
	marker := "allowed values: "
	idx := strings.Index(msg, marker)
	if idx < 0 {
		return ""
	}
	rest := msg[idx+len(marker):]
	values := strings.Split(rest, ",")
	for i := range values {
		values[i] = strings.TrimSpace(values[i])
	}
	if len(values) > 10 {
		values = values[:10]
	}
	sort.Strings(values)
	return fmt.Sprintf("allowed values: %s", strings.Join(values, ", "))
}
