package services

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/chemmd-engine/pkg/apperrors"
	"github.com/ekaya-inc/chemmd-engine/pkg/datafile"
	"github.com/ekaya-inc/chemmd-engine/pkg/models"
)

// ExportOptions configures a single export.
type ExportOptions struct {
	// Files loads experiment datafiles. Each export wraps it in its own cache.
	Files datafile.ColumnLoader

	// Derived columns are computed after all frames are concatenated.
	Derived []models.DerivedGroup

	// ApplyStoichiometry scales matches whose filters name one of
	// StoichiometryUnits by the matched species' coefficient.
	ApplyStoichiometry bool
	StoichiometryUnits []string
}

// ExportResult is the projection of a set of nodes: the data table, the
// aligned provenance table and the entities the provenance ids refer to.
type ExportResult struct {
	Data     *Table
	Metadata *MetadataTable
	Entities map[string]models.Nodal
}

// EntitySummary is a short description of an exported entity.
type EntitySummary struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// Summaries returns the exported entities sorted by id.
func (r *ExportResult) Summaries() []EntitySummary {
	out := make([]EntitySummary, 0, len(r.Entities))
	for id, n := range r.Entities {
		out = append(out, EntitySummary{ID: id, Kind: n.NodalKind(), Name: n.DisplayName()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ExportService projects nodes into tables.
type ExportService interface {
	// Export maps every experiment of every node, applies groups and
	// concatenates the results. Any failure aborts the whole export and is
	// returned as an *apperrors.Error; no partial result is returned.
	Export(ctx context.Context, nodes []*models.Node, groups []models.QueryGroup, opts ExportOptions) (*ExportResult, error)
}

type exportService struct {
	mapping    MappingService
	projection ProjectionService
	logger     *zap.Logger
}

var _ ExportService = (*exportService)(nil)

// NewExportService creates a new ExportService.
func NewExportService(mapping MappingService, projection ProjectionService, logger *zap.Logger) ExportService {
	return &exportService{
		mapping:    mapping,
		projection: projection,
		logger:     logger.Named("export"),
	}
}

func (s *exportService) Export(ctx context.Context, nodes []*models.Node, groups []models.QueryGroup, opts ExportOptions) (*ExportResult, error) {
	start := time.Now()
	defer func() {
		ExportDuration.Observe(time.Since(start).Seconds())
	}()

	var files *datafile.Cache
	var loader datafile.ColumnLoader
	if opts.Files != nil {
		files = datafile.NewCache(opts.Files)
		loader = files
	}

	result, err := s.export(ctx, nodes, groups, opts, loader)
	if files != nil {
		DatafileReads.Add(float64(files.Reads()))
	}
	if err != nil {
		appErr := apperrors.Classify(err)
		ExportsTotal.WithLabelValues("error").Inc()
		ExportErrors.WithLabelValues(appErr.Kind.String()).Inc()
		s.logger.Error("Export failed",
			zap.String("kind", appErr.Kind.String()),
			zap.String("path", appErr.Path),
			zap.Error(err))
		return nil, appErr
	}

	ExportsTotal.WithLabelValues("success").Inc()
	ExportRows.Observe(float64(result.Data.Rows))
	s.logger.Info("Export complete",
		zap.Int("nodes", len(nodes)),
		zap.Int("groups", len(groups)),
		zap.Int("columns", len(result.Data.Columns)),
		zap.Int("rows", result.Data.Rows),
		zap.Int("entities", len(result.Entities)),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (s *exportService) export(ctx context.Context, nodes []*models.Node, groups []models.QueryGroup, opts ExportOptions, files datafile.ColumnLoader) (*ExportResult, error) {
	for _, g := range groups {
		if err := g.Validate(); err != nil {
			return nil, err
		}
	}

	units := opts.StoichiometryUnits
	if len(units) == 0 {
		units = DefaultStoichiometryUnits
	}

	var frames []*Frame
	entities := make(map[string]models.Nodal)

	for _, node := range nodes {
		if node == nil {
			continue
		}
		for _, exp := range node.Experiments {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			mapping, err := s.mapping.SpeciesFactorMapping(exp, node, files)
			if err != nil {
				return nil, err
			}

			gm := s.projection.MatchGroups(exp, mapping, groups)
			if opts.ApplyStoichiometry {
				ApplyStoichiometry(gm, units, s.logger)
			}

			frame, ents, err := s.projection.BuildTable(gm)
			if err != nil {
				return nil, err
			}
			frames = append(frames, frame)
			for id, n := range ents {
				entities[id] = n
			}
		}
	}

	data, meta := Concat(frames)
	if err := ApplyDerived(data, opts.Derived); err != nil {
		return nil, err
	}

	return &ExportResult{Data: data, Metadata: meta, Entities: entities}, nil
}
