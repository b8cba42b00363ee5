package services

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/chemmd-engine/pkg/apperrors"
	"github.com/ekaya-inc/chemmd-engine/pkg/datafile"
	"github.com/ekaya-inc/chemmd-engine/pkg/models"
)

// MappingKey identifies a mapping entry: the species references of the
// owning Sample or Source, in first-appearance order, and the factor label.
type MappingKey struct {
	Species []string
	Label   models.Label
}

// String returns a stable string form of the key.
func (k MappingKey) String() string {
	return strings.Join(k.Species, "\x1e") + "\x1d" + k.Label.Key()
}

// MappingRecord is a Factor together with everything needed to place its
// values in a table: the owning entities and the resolved series.
type MappingRecord struct {
	Factor     *models.Factor
	SpeciesMap *models.SpeciesMap
	Sample     *models.Sample
	Source     *models.Source // nil for sample-level entries
	Experiment *models.Experiment
	Node       *models.Node
	Data       []models.Value
}

// MappingEntry is a key and its record.
type MappingEntry struct {
	Key    MappingKey
	Record *MappingRecord
}

// Mapping is an insertion-ordered map of MappingKey to MappingRecord.
// Setting an existing key replaces its record and keeps its position.
type Mapping struct {
	order   []string
	entries map[string]MappingEntry
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{entries: make(map[string]MappingEntry)}
}

// Set stores rec under key.
func (m *Mapping) Set(key MappingKey, rec *MappingRecord) {
	k := key.String()
	if _, ok := m.entries[k]; !ok {
		m.order = append(m.order, k)
	}
	m.entries[k] = MappingEntry{Key: key, Record: rec}
}

// Get returns the record stored under key.
func (m *Mapping) Get(key MappingKey) (*MappingRecord, bool) {
	e, ok := m.entries[key.String()]
	return e.Record, ok
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	return len(m.order)
}

// Entries returns the entries in insertion order.
func (m *Mapping) Entries() []MappingEntry {
	out := make([]MappingEntry, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.entries[k])
	}
	return out
}

// Species returns the distinct species references across all keys in
// first-appearance order.
func (m *Mapping) Species() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range m.Entries() {
		for _, s := range e.Key.Species {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// Merge returns a new mapping holding the entries of every argument applied
// in order. A later value overwrites an earlier one with the same key; the
// key keeps the position of its first insertion.
func Merge(mappings ...*Mapping) *Mapping {
	out := NewMapping()
	for _, m := range mappings {
		if m == nil {
			continue
		}
		for _, e := range m.Entries() {
			out.Set(e.Key, e.Record)
		}
	}
	return out
}

// MappingService flattens an Experiment's metadata tree into a Mapping.
type MappingService interface {
	// SpeciesFactorMapping maps every factor reachable from exp, including
	// the factors and samples inherited from node, to its resolved values.
	// Datafiles are read through files.
	SpeciesFactorMapping(exp *models.Experiment, node *models.Node, files datafile.ColumnLoader) (*Mapping, error)
}

type mappingService struct {
	logger *zap.Logger
}

var _ MappingService = (*mappingService)(nil)

// NewMappingService creates a new MappingService.
func NewMappingService(logger *zap.Logger) MappingService {
	return &mappingService{
		logger: logger.Named("mapping"),
	}
}

// SpeciesFactorMapping builds the mapping in two layers. Source-level
// entries are collected first, then sample-level entries (sample factors
// plus the experiment's applied factors) are merged on top, so a sample
// entry always replaces a source entry with the same key. Within a layer,
// later samples replace earlier ones; parental samples come last.
func (s *mappingService) SpeciesFactorMapping(exp *models.Experiment, node *models.Node, files datafile.ColumnLoader) (*Mapping, error) {
	res, err := newResolver(exp, files)
	if err != nil {
		return nil, err
	}

	samples := exp.CombinedSamples()
	applied := exp.CombinedFactors()

	sourceMapping := NewMapping()
	for _, sample := range samples {
		for _, src := range sample.AllSources() {
			speciesMap := models.BuildSpeciesMap(src)
			keys := speciesMap.Keys()
			for _, f := range models.AllFactors(src) {
				data, err := res.resolve(f)
				if err != nil {
					return nil, err
				}
				sourceMapping.Set(MappingKey{Species: keys, Label: f.Label()}, &MappingRecord{
					Factor:     f,
					SpeciesMap: speciesMap,
					Sample:     sample,
					Source:     src,
					Experiment: exp,
					Node:       node,
					Data:       data,
				})
			}
		}
	}

	sampleMapping := NewMapping()
	for _, sample := range samples {
		speciesMap := models.BuildSpeciesMap(sample)
		keys := speciesMap.Keys()
		factors := append(sample.AllFactors(), applied...)
		for _, f := range factors {
			data, err := res.resolve(f)
			if err != nil {
				return nil, err
			}
			sampleMapping.Set(MappingKey{Species: keys, Label: f.Label()}, &MappingRecord{
				Factor:     f,
				SpeciesMap: speciesMap,
				Sample:     sample,
				Experiment: exp,
				Node:       node,
				Data:       data,
			})
		}
	}

	mapping := Merge(sourceMapping, sampleMapping)

	s.logger.Debug("Built species factor mapping",
		zap.String("experiment", exp.Name),
		zap.Int("samples", len(samples)),
		zap.Int("source_entries", sourceMapping.Len()),
		zap.Int("sample_entries", sampleMapping.Len()),
		zap.Int("entries", mapping.Len()),
		zap.Int("rows", res.rows))

	return mapping, nil
}

// resolver turns factors into series for one experiment.
type resolver struct {
	exp     *models.Experiment
	columns datafile.Columns
	rows    int
}

// newResolver loads the experiment's datafile, if any. Scalar factors are
// repeated to the datafile's row count, or once without a datafile.
func newResolver(exp *models.Experiment, files datafile.ColumnLoader) (*resolver, error) {
	r := &resolver{exp: exp, rows: 1}
	if !exp.HasDatafile() {
		return r, nil
	}
	if files == nil {
		return nil, apperrors.NewCSVAccessError(exp.Datafile, "no datafile loader configured", nil)
	}
	cols, err := files.Load(exp.Datafile)
	if err != nil {
		return nil, err
	}
	r.columns = cols
	r.rows = cols.RowCount()
	return r, nil
}

func (r *resolver) resolve(f *models.Factor) ([]models.Value, error) {
	if f.IsCSVIndex() {
		idx := *f.CSVColumnIndex
		if r.columns == nil {
			return nil, apperrors.NewResolutionError(
				"factor %s in experiment %q is bound to datafile column %d but the experiment has no datafile",
				f.Label(), r.exp.Name, idx)
		}
		col, ok := r.columns.Column(idx)
		if !ok {
			return nil, apperrors.NewResolutionError(
				"factor %s in experiment %q is bound to datafile column %d but the datafile has %d columns",
				f.Label(), r.exp.Name, idx, len(r.columns)).WithPath(r.exp.Datafile)
		}
		return models.Numbers(col), nil
	}

	v, ok := f.Value()
	if !ok {
		return nil, apperrors.NewResolutionError(
			"factor %s in experiment %q has neither a datafile column nor a scalar value",
			f.Label(), r.exp.Name)
	}
	return models.Repeat(v, r.rows), nil
}
