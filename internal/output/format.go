// Package output provides logging and plan-serialization utilities.
package output

import "strings"

// Format specifies the serialization format for plan output.
type Format string

const (
	// FormatYAML outputs in YAML format.
	FormatYAML Format = "yaml"

	// FormatJSON outputs in JSON format.
	FormatJSON Format = "json"

	// FormatTable outputs a human-readable summary table of the plan's resources.
	FormatTable Format = "table"

	// FormatDir outputs to a directory structure, one file per resource.
	FormatDir Format = "dir"
)

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// Valid reports whether the format is one of the known formats.
func (f Format) Valid() bool {
	switch f {
	case FormatYAML, FormatJSON, FormatTable, FormatDir:
		return true
	default:
		return false
	}
}

// ParseFormat parses a string into a Format. The second return value
// reports whether the input matched a known format.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML, true
	case "json":
		return FormatJSON, true
	case "table":
		return FormatTable, true
	case "dir", "directory":
		return FormatDir, true
	default:
		return Format(s), false
	}
}

// ValidFormats returns the list of valid format strings.
func ValidFormats() []string {
	return []string{"yaml", "json", "table", "dir"}
}
