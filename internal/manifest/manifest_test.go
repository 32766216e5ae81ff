package manifest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/synthctl/synthctl/internal/errors"
	"github.com/synthctl/synthctl/internal/testutil"
)

const validDoc = `
service: checkout
owner: payments-team
complianceFramework: commercial
environment: staging
components:
  - name: api
    type: lambda-api
    config:
      runtime: nodejs20.x
`

func TestParse_Valid(t *testing.T) {
	tree, err := Parse([]byte(validDoc), "<bytes>")
	require.NoError(t, err)
	assert.Equal(t, "checkout", tree["service"])
	assert.Equal(t, "commercial", tree["complianceFramework"])
	comps, ok := tree["components"].([]any)
	require.True(t, ok)
	assert.Len(t, comps, 1)
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("service: [unterminated"), "<bytes>")
	require.Error(t, err)
	var diag *oerrors.Diagnostic
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, oerrors.KindInvalidYAML, diag.Kind)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/does-not-exist.yaml")
	require.Error(t, err)
	var diag *oerrors.Diagnostic
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, oerrors.KindIO, diag.Kind)
}

func TestLoad_ReadsFile(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()
	path := testutil.WriteFile(t, dir, "service.yaml", validDoc)

	tree, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "checkout", tree["service"])
}

func TestIsYAMLExtension(t *testing.T) {
	assert.True(t, IsYAMLExtension("foo.yaml"))
	assert.True(t, IsYAMLExtension("foo.YML"))
	assert.True(t, IsYAMLExtension(filepath.Join("a", "b", "c.json")))
	assert.False(t, IsYAMLExtension("foo.txt"))
}
