package services

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ekaya-inc/chemmd-engine/pkg/apperrors"
	"github.com/ekaya-inc/chemmd-engine/pkg/models"
)

func buildMapping(t *testing.T, exp *models.Experiment) *Mapping {
	t.Helper()
	mapping, err := NewMappingService(zap.NewNop()).SpeciesFactorMapping(exp, nil, nil)
	require.NoError(t, err)
	return mapping
}

func twoSampleExperiment() *models.Experiment {
	return &models.Experiment{
		Name: "conductivity",
		Samples: []*models.Sample{
			{
				SampleName: "NaLi",
				Species:    species("Na+", "Li+"),
				Factors:    []*models.Factor{scalarFactor("Concentration", "Molar", 0.5)},
			},
			{
				SampleName: "NaOH",
				Species:    species("Na+", "OH-"),
				Factors:    []*models.Factor{scalarFactor("Concentration", "Molar", 2)},
			},
		},
	}
}

func TestMatchGroups_SpeciesSentinel(t *testing.T) {
	exp := twoSampleExperiment()
	group := models.QueryGroup{
		ColumnName:     "Cation",
		FactorFilters:  []string{models.SpeciesSentinel},
		SpeciesFilters: []string{"Na"},
	}

	gm := NewProjectionService(zap.NewNop()).MatchGroups(exp, buildMapping(t, exp), []models.QueryGroup{group})

	m, ok := gm.Match("Cation")
	require.True(t, ok)
	assert.True(t, m.IsSpeciesColumn())
	assert.Equal(t, []string{"Na+"}, m.Species)
	assert.Equal(t, []string{"Na+"}, texts(m.Data))
	assert.Equal(t, 1, m.Candidates)
}

func TestMatchGroups_FirstFactorMatchWins(t *testing.T) {
	exp := twoSampleExperiment()
	group := models.QueryGroup{
		ColumnName:     "Na Concentration",
		FactorFilters:  []string{"Molar"},
		SpeciesFilters: []string{"Na"},
	}

	core, logs := observer.New(zapcore.WarnLevel)
	before := testutil.ToFloat64(QueryAmbiguities.WithLabelValues("factor"))

	gm := NewProjectionService(zap.New(core)).MatchGroups(exp, buildMapping(t, exp), []models.QueryGroup{group})

	m, ok := gm.Match("Na Concentration")
	require.True(t, ok)
	assert.Equal(t, "NaLi", m.Record.Sample.SampleName)
	assert.Equal(t, []float64{0.5}, numbers(t, m.Data))
	assert.Equal(t, 2, m.Candidates)

	assert.Equal(t, before+1, testutil.ToFloat64(QueryAmbiguities.WithLabelValues("factor")))
	entries := logs.FilterMessage("Query group matched more than one candidate; using the first").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, string(apperrors.KindQueryAmbiguity), fields["kind"])
	assert.Equal(t, "Na Concentration", fields["column"])
	assert.Equal(t, int64(2), fields["candidates"])
}

func TestMatchGroups_SpeciesGroupRecordsEveryMatch(t *testing.T) {
	exp := twoSampleExperiment()
	group := models.QueryGroup{
		ColumnName:     "Species",
		FactorFilters:  []string{models.SpeciesSentinel},
		SpeciesFilters: []string{"Li", "OH"},
	}

	core, logs := observer.New(zapcore.WarnLevel)
	before := testutil.ToFloat64(QueryAmbiguities.WithLabelValues("species"))

	gm := NewProjectionService(zap.New(core)).MatchGroups(exp, buildMapping(t, exp), []models.QueryGroup{group})

	m, ok := gm.Match("Species")
	require.True(t, ok)
	assert.Equal(t, []string{"Li+, OH-"}, texts(m.Data))
	assert.Equal(t, []string{"Li+", "OH-"}, m.Species)
	assert.Equal(t, 2, m.Candidates)
	assert.Equal(t, before, testutil.ToFloat64(QueryAmbiguities.WithLabelValues("species")))
	assert.Equal(t, 0, logs.Len())
}

func TestMatchGroups_SpeciesGroupKeepsAllFilters(t *testing.T) {
	exp := twoSampleExperiment()
	groups := []models.QueryGroup{
		{ColumnName: "Cations", FactorFilters: []string{models.SpeciesSentinel}, SpeciesFilters: []string{`Na\+`, `Li\+`}},
		{ColumnName: "Na", FactorFilters: []string{"Molar"}, SpeciesFilters: []string{"Na"}},
	}

	mapping := buildMapping(t, exp)
	projection := NewProjectionService(zap.NewNop())
	frame, _, err := projection.BuildTable(projection.MatchGroups(exp, mapping, groups))
	require.NoError(t, err)

	require.Len(t, frame.Data["Cations"], frame.Rows())
	for _, cell := range frame.Data["Cations"] {
		assert.Equal(t, "Na+, Li+", cell.String())
	}
}

func TestMatchGroups_UnmatchedGroupsAreAbsent(t *testing.T) {
	exp := twoSampleExperiment()
	groups := []models.QueryGroup{
		{ColumnName: "Cs", FactorFilters: []string{"Molar"}, SpeciesFilters: []string{"Cs"}},
		{ColumnName: "Temperature", FactorFilters: []string{"Temperature"}, SpeciesFilters: []string{"Na"}},
		{ColumnName: "Cs species", FactorFilters: []string{models.SpeciesSentinel}, SpeciesFilters: []string{"Cs"}},
		{ColumnName: "Li", FactorFilters: []string{"Molar"}, SpeciesFilters: []string{"Li"}},
	}

	gm := NewProjectionService(zap.NewNop()).MatchGroups(exp, buildMapping(t, exp), groups)

	require.Len(t, gm.Matches, 1)
	assert.Equal(t, "Li", gm.Matches[0].Group.ColumnName)
}

func TestMatchGroups_PrefixMatching(t *testing.T) {
	exp := &models.Experiment{
		Name: "exp",
		Samples: []*models.Sample{{
			SampleName: "s",
			Species:    species("Al(OH)4-"),
			Factors:    []*models.Factor{scalarFactor("Concentration", "Molar", 1)},
		}},
	}
	mapping := buildMapping(t, exp)
	svc := NewProjectionService(zap.NewNop())

	hit := svc.MatchGroups(exp, mapping, []models.QueryGroup{
		{ColumnName: "Al", FactorFilters: []string{"Conc"}, SpeciesFilters: []string{"Al"}},
	})
	assert.Len(t, hit.Matches, 1)

	miss := svc.MatchGroups(exp, mapping, []models.QueryGroup{
		{ColumnName: "OH", FactorFilters: []string{"Molar"}, SpeciesFilters: []string{"OH"}},
	})
	assert.Empty(t, miss.Matches)
}

func TestBuildTable_BroadcastsScalarsAndRecordsProvenance(t *testing.T) {
	sample := &models.Sample{SampleName: "s", Species: species("Al")}
	src := &models.Source{SourceName: "stock"}
	exp := &models.Experiment{Name: "exp", Samples: []*models.Sample{sample}}
	rec := &MappingRecord{Sample: sample, Source: src, Experiment: exp}

	gm := &GroupMapping{
		Experiment: exp,
		Matches: []*GroupMatch{
			{
				Group:  models.QueryGroup{ColumnName: "Al Concentration"},
				Record: rec,
				Data:   models.Numbers([]float64{1, 2, 3}),
			},
			{
				Group:   models.QueryGroup{ColumnName: "Species"},
				Species: []string{"Al"},
				Data:    []models.Value{models.Text("Al")},
			},
		},
	}

	frame, entities, err := NewProjectionService(zap.NewNop()).BuildTable(gm)
	require.NoError(t, err)

	assert.Equal(t, []string{"Al Concentration", "Species"}, frame.Columns)
	assert.Equal(t, 3, frame.Rows())
	assert.Equal(t, []string{"Al", "Al", "Al"}, texts(frame.Data["Species"]))

	expID := models.ProvenanceUUID(exp)
	full := models.ProvenanceKey{Experiment: expID, Sample: models.ProvenanceUUID(sample), Source: models.ProvenanceUUID(src)}
	for row := 0; row < 3; row++ {
		assert.Equal(t, full, frame.Metadata["Al Concentration"][row])
		assert.Equal(t, models.ProvenanceKey{Experiment: expID}, frame.Metadata["Species"][row])
	}

	assert.Len(t, entities, 3)
	assert.Same(t, exp, entities[expID])
}

func TestBuildTable_LengthMismatch(t *testing.T) {
	gm := &GroupMapping{
		Matches: []*GroupMatch{
			{Group: models.QueryGroup{ColumnName: "a"}, Data: models.Numbers([]float64{1, 2, 3})},
			{Group: models.QueryGroup{ColumnName: "b"}, Data: models.Numbers([]float64{1, 2})},
		},
	}

	frame, _, err := NewProjectionService(zap.NewNop()).BuildTable(gm)

	assert.Nil(t, frame)
	requireKind(t, err, apperrors.KindResolution)
}
