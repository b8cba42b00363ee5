package services

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/chemmd-engine/pkg/apperrors"
	"github.com/ekaya-inc/chemmd-engine/pkg/models"
)

// GroupMatch is the mapping entry selected for one QueryGroup.
type GroupMatch struct {
	Group models.QueryGroup

	// Record is the selected entry. Nil for species groups.
	Record *MappingRecord

	// Species holds the key species that satisfied the species filters.
	// For species groups it holds every matching species.
	Species []string

	// Data is the column produced by the match. It starts as the record's
	// series (or the species names) and may be rewritten by transforms.
	Data []models.Value

	// Candidates counts every entry (or species) that satisfied the group.
	// For factor groups more than one means the choice depended on mapping order.
	Candidates int
}

// IsSpeciesColumn reports whether the match lists species names.
func (m *GroupMatch) IsSpeciesColumn() bool {
	return m.Record == nil
}

// GroupMapping holds the matches for one experiment in group order.
// Groups without a match are absent.
type GroupMapping struct {
	Experiment *models.Experiment
	Matches    []*GroupMatch
}

// Match returns the match for a column name.
func (g *GroupMapping) Match(column string) (*GroupMatch, bool) {
	for _, m := range g.Matches {
		if m.Group.ColumnName == column {
			return m, true
		}
	}
	return nil, false
}

// ProjectionService selects mapping entries for query groups and lays them
// out as columns.
type ProjectionService interface {
	// MatchGroups selects at most one entry per group, in group order.
	MatchGroups(exp *models.Experiment, mapping *Mapping, groups []models.QueryGroup) *GroupMapping

	// BuildTable turns matches into aligned data and metadata columns and
	// returns the entities referenced by the metadata, keyed by provenance id.
	BuildTable(gm *GroupMapping) (*Frame, map[string]models.Nodal, error)
}

// SpeciesSeparator joins the species listed in a species group cell.
const SpeciesSeparator = ", "

type projectionService struct {
	logger *zap.Logger
}

var _ ProjectionService = (*projectionService)(nil)

// NewProjectionService creates a new ProjectionService.
func NewProjectionService(logger *zap.Logger) ProjectionService {
	return &projectionService{
		logger: logger.Named("projection"),
	}
}

// MatchGroups applies each group to the mapping.
//
// A species group produces a single cell listing every species (in
// first-appearance order across the mapping keys) that matches its species
// filters, joined by SpeciesSeparator. Any other group takes the first entry, in mapping order, whose key
// species match a species filter and whose factor matches a factor filter.
// Further candidates are reported as ambiguous but never change the result,
// which therefore depends on mapping insertion order.
func (s *projectionService) MatchGroups(exp *models.Experiment, mapping *Mapping, groups []models.QueryGroup) *GroupMapping {
	gm := &GroupMapping{Experiment: exp}

	for _, group := range groups {
		var match *GroupMatch
		if group.IsSpeciesGroup() {
			match = s.matchSpecies(mapping, group)
		} else {
			match = s.matchFactor(mapping, group)
		}
		if match == nil {
			s.logger.Debug("No match for group",
				zap.String("experiment", experimentName(exp)),
				zap.String("column", group.ColumnName))
			continue
		}
		if match.Candidates > 1 && !match.IsSpeciesColumn() {
			s.reportAmbiguity(exp, match)
		}
		gm.Matches = append(gm.Matches, match)
	}
	return gm
}

func (s *projectionService) matchSpecies(mapping *Mapping, group models.QueryGroup) *GroupMatch {
	matching := group.MatchingSpecies(mapping.Species())
	if len(matching) == 0 {
		return nil
	}
	return &GroupMatch{
		Group:      group,
		Species:    matching,
		Data:       []models.Value{models.Text(strings.Join(matching, SpeciesSeparator))},
		Candidates: len(matching),
	}
}

func (s *projectionService) matchFactor(mapping *Mapping, group models.QueryGroup) *GroupMatch {
	var match *GroupMatch
	for _, e := range mapping.Entries() {
		species := group.MatchingSpecies(e.Key.Species)
		if len(species) == 0 || !e.Record.Factor.Query(group.FactorFilters) {
			continue
		}
		if match != nil {
			match.Candidates++
			continue
		}
		match = &GroupMatch{
			Group:      group,
			Record:     e.Record,
			Species:    species,
			Data:       append([]models.Value(nil), e.Record.Data...),
			Candidates: 1,
		}
	}
	return match
}

func (s *projectionService) reportAmbiguity(exp *models.Experiment, m *GroupMatch) {
	QueryAmbiguities.WithLabelValues("factor").Inc()
	s.logger.Warn("Query group matched more than one candidate; using the first",
		zap.String("kind", string(apperrors.KindQueryAmbiguity)),
		zap.String("experiment", experimentName(exp)),
		zap.String("column", m.Group.ColumnName),
		zap.Int("candidates", m.Candidates),
		zap.Strings("species", m.Species),
		zap.Stringer("chosen", m.Record.Factor.Label()))
}

// BuildTable lays out one data and one metadata column per match.
// Columns of length 1 are repeated to the length of the longest column.
// Any other length mismatch is a resolution error.
func (s *projectionService) BuildTable(gm *GroupMapping) (*Frame, map[string]models.Nodal, error) {
	frame := NewFrame()
	entities := make(map[string]models.Nodal)

	expKey := ""
	if gm.Experiment != nil {
		expKey = register(entities, gm.Experiment)
	}

	for _, m := range gm.Matches {
		key := models.ProvenanceKey{Experiment: expKey}
		if rec := m.Record; rec != nil {
			if rec.Experiment != nil {
				key.Experiment = register(entities, rec.Experiment)
			}
			if rec.Sample != nil {
				key.Sample = register(entities, rec.Sample)
			}
			if rec.Source != nil {
				key.Source = register(entities, rec.Source)
			}
		}
		frame.Add(m.Group.ColumnName, m.Data, repeatKey(key, len(m.Data)))
	}

	if err := frame.Broadcast(); err != nil {
		return nil, nil, err
	}
	return frame, entities, nil
}

func register(entities map[string]models.Nodal, n models.Nodal) string {
	id := models.ProvenanceUUID(n)
	entities[id] = n
	return id
}

func repeatKey(k models.ProvenanceKey, n int) []models.ProvenanceKey {
	out := make([]models.ProvenanceKey, n)
	for i := range out {
		out[i] = k
	}
	return out
}

func experimentName(exp *models.Experiment) string {
	if exp == nil {
		return ""
	}
	return exp.Name
}
