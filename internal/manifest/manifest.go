// Package manifest implements C2, the Manifest Parser: it loads a manifest
// document from a source and produces a generic tree. It never interprets
// semantics — schema validation is internal/schema's job, reference and
// domain-rule checking is internal/semantic's job.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	oerrors "github.com/synthctl/synthctl/internal/errors"
	"github.com/synthctl/synthctl/internal/output"
)

// Tree is the generic parsed representation of a manifest document. YAML and
// JSON are both accepted — JSON is a syntactic subset of YAML 1.2, so a
// single yaml.Unmarshal call handles either extension.
type Tree map[string]any

// Load reads the manifest document at path and parses it into a Tree.
// An unreadable path fails with errors.KindIO; a syntax error fails with
// errors.KindInvalidYAML.
func Load(path string) (Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &oerrors.Diagnostic{
			Kind:    oerrors.KindIO,
			Path:    path,
			Message: fmt.Sprintf("cannot read manifest: %v", err),
			Cause:   err,
		}
	}
	output.Debug("manifest read", "path", path, "bytes", len(data), "ext", filepath.Ext(path))
	return Parse(data, path)
}

// Parse parses raw manifest bytes into a Tree. sourceName is used only for
// diagnostic paths (pass the file path, or "<bytes>" when parsing an
// in-memory buffer).
func Parse(data []byte, sourceName string) (Tree, error) {
	var tree Tree
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, &oerrors.Diagnostic{
			Kind:    oerrors.KindInvalidYAML,
			Path:    sourceName,
			Message: fmt.Sprintf("malformed manifest document: %v", err),
			Cause:   err,
		}
	}
	if tree == nil {
		tree = Tree{}
	}
	return tree, nil
}

// RequiredTopLevelKeys lists the keys C2's contract promises are present in
// any document handed onward to C3 (§6, "Top-level required keys"). Parse
// itself does not enforce this — C3's base schema does — and nothing in
// the module references this list.
var RequiredTopLevelKeys = []string{"service", "owner", "complianceFramework", "environment", "components"}

// IsYAMLExtension reports whether path looks like a manifest document by
// extension (.yaml, .yml or .json, case-insensitive). No command calls it;
// the CLI takes the manifest path as a positional argument.
func IsYAMLExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml" || ext == ".json"
}
