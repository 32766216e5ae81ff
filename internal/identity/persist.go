package identity

import (
	"encoding/json"
	"fmt"
	"os"

	oerrors "github.com/synthctl/synthctl/internal/errors"
)

// DefaultMapFilename is the filename convention for a persisted LogicalIDMap
// at the repo root (§6, "Logical-ID map file").
const DefaultMapFilename = "logical-id-map.json"

// Load reads and validates a LogicalIDMap from path. A missing file is not
// an error — C9 treats an absent map as "generate fresh" (§4.9, "Inputs")
// and Load returns (nil, nil) in that case.
func Load(path string) (*LogicalIDMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &oerrors.Diagnostic{
			Kind:    oerrors.KindIO,
			Path:    path,
			Message: fmt.Sprintf("cannot read logical-id map: %v", err),
			Cause:   err,
		}
	}

	var m LogicalIDMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &oerrors.Diagnostic{
			Kind:    oerrors.KindConfig,
			Path:    path,
			Message: fmt.Sprintf("malformed logical-id map: %v", err),
			Cause:   err,
		}
	}
	if err := m.Validate(); err != nil {
		return nil, &oerrors.Diagnostic{
			Kind:    oerrors.KindConfig,
			Path:    path,
			Message: err.Error(),
		}
	}
	return &m, nil
}

// Save writes m to path as indented JSON.
func Save(path string, m *LogicalIDMap) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling logical-id map: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &oerrors.Diagnostic{
			Kind:    oerrors.KindIO,
			Path:    path,
			Message: fmt.Sprintf("cannot write logical-id map: %v", err),
			Cause:   err,
		}
	}
	return nil
}
