package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/chemmd-engine/pkg/apperrors"
	"github.com/ekaya-inc/chemmd-engine/pkg/testhelpers"
)

func newDatasetService(basePath string) DatasetService {
	return NewDatasetService(newExportService(), DatasetOptions{BasePath: basePath}, zap.NewNop())
}

func TestDatasetService_Export(t *testing.T) {
	dir := testhelpers.WriteAlDataset(t)
	svc := newDatasetService(filepath.Dir(dir))

	got, err := svc.Export(context.Background(), filepath.Base(dir))
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "al_node.json")}, got.Dataset.NodeFiles)
	assert.Equal(t, []string{"Al Concentration"}, got.Groups.XNames())
	assert.Equal(t, []string{"Al Concentration", "Species"}, got.Result.Data.Columns)
	assert.Equal(t, []float64{1, 2, 3}, numbers(t, got.Result.Data.Data["Al Concentration"]))
	assert.Equal(t, []string{"Al", "Al", "Al"}, texts(got.Result.Data.Data["Species"]))

	assert.Equal(t, []string{"Al Concentration", "Species"}, got.Categories.Columns)
	assert.Equal(t, []string{"Al Concentration"}, got.Categories.Continuous)
	assert.Equal(t, []string{"Al Concentration"}, got.Categories.Quantileable)
	assert.Empty(t, got.Categories.Discrete)
}

func TestDatasetService_Resolve(t *testing.T) {
	svc := newDatasetService("/data")

	dir, err := svc.Resolve("aluminate")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data", "aluminate"), dir)

	for _, name := range []string{"", "  ", "../etc", "a/../../etc", "/etc"} {
		_, err := svc.Resolve(name)
		requireKind(t, err, apperrors.KindParse)
	}
}

func TestDatasetService_MissingDataset(t *testing.T) {
	svc := newDatasetService(t.TempDir())

	got, err := svc.Export(context.Background(), "nope")

	assert.Nil(t, got)
	requireKind(t, err, apperrors.KindNotFound)
}

func TestDatasetService_MissingGroupsFile(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "set")
	require.NoError(t, os.Mkdir(dir, 0o755))
	testhelpers.WriteJSON(t, dir, "node.json", testhelpers.AlNodeDocument(testhelpers.AlDatafile))

	_, err := newDatasetService(base).Export(context.Background(), "set")

	requireKind(t, err, apperrors.KindNotFound)
}

func TestDatasetService_ExportRejectsUnusableDatafile(t *testing.T) {
	tests := []struct {
		name     string
		datafile string
	}{
		{"nan cell", "a,b\n1,2\nNaN,3\n"},
		{"infinite cell", "a,b\n1,2\ninf,3\n"},
		{"header only", "a,b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testhelpers.WriteAlDataset(t)
			require.NoError(t, os.WriteFile(filepath.Join(dir, testhelpers.AlDatafile), []byte(tt.datafile), 0o644))

			_, err := newDatasetService(filepath.Dir(dir)).Export(context.Background(), filepath.Base(dir))
			requireKind(t, err, apperrors.KindCSVAccess)
		})
	}
}
