package services

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/chemmd-engine/pkg/adapters/nodejson"
	"github.com/ekaya-inc/chemmd-engine/pkg/apperrors"
	"github.com/ekaya-inc/chemmd-engine/pkg/datafile"
)

// DatasetOptions configures dataset exports.
type DatasetOptions struct {
	// BasePath is the directory holding dataset directories.
	BasePath string

	// GroupsFile is the groups file name inside each dataset directory.
	GroupsFile string

	ApplyStoichiometry bool
	StoichiometryUnits []string
}

// DatasetExport is the export of one dataset directory.
type DatasetExport struct {
	Dataset    *nodejson.Dataset
	Groups     *nodejson.Groups
	Result     *ExportResult
	Categories *Categories
}

// DatasetService exports dataset directories under a base path.
type DatasetService interface {
	// Resolve maps a dataset name to its directory. Names may not leave the base path.
	Resolve(name string) (string, error)

	// Export reads every node document and the groups file of the dataset,
	// exports them and categorizes the resulting columns. Datafiles are
	// resolved relative to the dataset directory.
	Export(ctx context.Context, name string) (*DatasetExport, error)
}

type datasetService struct {
	exports ExportService
	opts    DatasetOptions
	logger  *zap.Logger
}

var _ DatasetService = (*datasetService)(nil)

// NewDatasetService creates a new DatasetService.
func NewDatasetService(exports ExportService, opts DatasetOptions, logger *zap.Logger) DatasetService {
	if opts.GroupsFile == "" {
		opts.GroupsFile = nodejson.DefaultGroupsFile
	}
	return &datasetService{
		exports: exports,
		opts:    opts,
		logger:  logger.Named("dataset"),
	}
}

func (s *datasetService) Resolve(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", apperrors.NewParseError("dataset name is required")
	}
	if s.opts.BasePath == "" {
		return filepath.Clean(name), nil
	}
	if filepath.IsAbs(name) {
		return "", apperrors.NewParseError("dataset name must be relative")
	}
	dir := filepath.Join(s.opts.BasePath, name)
	rel, err := filepath.Rel(s.opts.BasePath, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", apperrors.NewParseError("dataset name escapes the data directory")
	}
	return dir, nil
}

func (s *datasetService) Export(ctx context.Context, name string) (*DatasetExport, error) {
	dir, err := s.Resolve(name)
	if err != nil {
		return nil, err
	}

	ds, err := nodejson.DiscoverDataset(dir, s.opts.GroupsFile)
	if err != nil {
		return nil, err
	}
	groups, err := ds.Groups()
	if err != nil {
		return nil, err
	}
	nodes, err := ds.Nodes()
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Exporting dataset",
		zap.String("dataset", name),
		zap.Int("node_files", len(ds.NodeFiles)),
		zap.Strings("x_groups", groups.XNames()),
		zap.Strings("y_groups", groups.YNames()))

	result, err := s.exports.Export(ctx, nodes, groups.All(), ExportOptions{
		Files:              datafile.NewLoader(dir, s.logger),
		Derived:            groups.Derived,
		ApplyStoichiometry: s.opts.ApplyStoichiometry,
		StoichiometryUnits: s.opts.StoichiometryUnits,
	})
	if err != nil {
		return nil, err
	}

	return &DatasetExport{
		Dataset:    ds,
		Groups:     groups,
		Result:     result,
		Categories: Categorize(result.Data, groups.XNames(), groups.YNames()),
	}, nil
}
