package nodejson

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/chemmd-engine/pkg/apperrors"
	"github.com/ekaya-inc/chemmd-engine/pkg/testhelpers"
)

func TestDiscoverDataset(t *testing.T) {
	dir := testhelpers.WriteAlDataset(t)
	testhelpers.WriteJSON(t, dir, "b_node.json", testhelpers.AlNodeDocument(testhelpers.AlDatafile))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	ds, err := DiscoverDataset(dir, "")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "al_node.json"),
		filepath.Join(dir, "b_node.json"),
	}, ds.NodeFiles)
	assert.Equal(t, filepath.Join(dir, "gq.json"), ds.GroupsFile)

	nodes, err := ds.Nodes()
	require.NoError(t, err)
	assert.Len(t, nodes, 2)

	groups, err := ds.Groups()
	require.NoError(t, err)
	assert.Equal(t, []string{"Al Concentration"}, groups.XNames())
}

func TestDiscoverDataset_YAMLGroupsFallback(t *testing.T) {
	dir := t.TempDir()
	testhelpers.WriteJSON(t, dir, "node.json", testhelpers.AlNodeDocument("al.csv"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gq.yaml"), []byte(`
x_groups:
  - column_name: Al Concentration
    factor_filters: [Molar]
    species_filters: [Al]
`), 0o644))

	ds, err := DiscoverDataset(dir, "gq.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "gq.yaml"), ds.GroupsFile)
	assert.Equal(t, []string{filepath.Join(dir, "node.json")}, ds.NodeFiles)
}

func TestDiscoverDataset_Missing(t *testing.T) {
	_, err := DiscoverDataset(filepath.Join(t.TempDir(), "absent"), "")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	dir := t.TempDir()
	testhelpers.WriteJSON(t, dir, "node.json", testhelpers.AlNodeDocument("al.csv"))
	_, err = DiscoverDataset(dir, "")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestReadNodeFile_Errors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))
	testhelpers.WriteJSON(t, dir, "invalid.json", map[string]any{
		"node_factors": []any{map[string]any{"unit_reference": "K"}},
	})

	_, err := ReadNodeFile(filepath.Join(dir, "broken.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrParse))

	_, err = ReadNodeFile(filepath.Join(dir, "invalid.json"))
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.KindParse, appErr.Kind)
	assert.Equal(t, filepath.Join(dir, "invalid.json"), appErr.Path)

	_, err = ReadNodeFile(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	_, err = ReadNodeFile(filepath.Join(dir, "node.toml"))
	assert.True(t, errors.Is(err, apperrors.ErrParse))
}

func TestReadNodeFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "node.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
node_information:
  node_title: YAML node
node_experiments:
  - experiment_name: run
    experiment_factors:
      - factor_type: Temperature
        decimal_value: 300
        unit_reference: K
`), 0o644))

	node, err := ReadNodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, "YAML node", node.Title())
	f := node.Experiments[0].Factors[0]
	require.NotNil(t, f.DecimalValue)
	assert.Equal(t, 300.0, *f.DecimalValue)
}

func TestRegisteredFormats(t *testing.T) {
	assert.Equal(t, []string{"json", "yaml"}, RegisteredFormats())
}
