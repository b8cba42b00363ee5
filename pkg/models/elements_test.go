package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factorTypes(fs []*Factor) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.FactorType
	}
	return out
}

func speciesRefs(ss []*SpeciesFactor) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.SpeciesReference
	}
	return out
}

func TestAllFactors_NoChildrenReturnsDirectList(t *testing.T) {
	containers := []Container{
		&Source{SourceName: "src", Factors: []*Factor{{FactorType: "a"}, {FactorType: "b"}}},
		&Sample{SampleName: "smp", Factors: []*Factor{{FactorType: "a"}, {FactorType: "b"}}},
		&Experiment{Name: "exp", Factors: []*Factor{{FactorType: "a"}, {FactorType: "b"}}},
		&Node{Factors: []*Factor{{FactorType: "a"}, {FactorType: "b"}}},
	}

	for _, c := range containers {
		assert.Equal(t, []string{"a", "b"}, factorTypes(AllFactors(c)))
	}
}

func TestAllFactors_EmptyContainers(t *testing.T) {
	assert.Empty(t, AllFactors(&Sample{SampleName: "s"}))
	assert.Empty(t, AllSpecies(&Node{}))
	assert.Empty(t, AllComments(&Experiment{Name: "e", Samples: []*Sample{{SampleName: "s"}}}))
	assert.Empty(t, AllFactors(nil))
}

func TestAllFactors_DepthFirstOrder(t *testing.T) {
	sample1 := &Sample{
		SampleName: "s1",
		Factors:    []*Factor{{FactorType: "s1"}},
		Sources: []*Source{
			{SourceName: "src1", Factors: []*Factor{{FactorType: "src1"}}},
			{SourceName: "src2", Factors: []*Factor{{FactorType: "src2"}}},
		},
	}
	sample2 := &Sample{SampleName: "s2", Factors: []*Factor{{FactorType: "s2"}}}
	exp := &Experiment{Name: "e", Factors: []*Factor{{FactorType: "exp"}}, Samples: []*Sample{sample1, sample2}}
	node := NewNode(nil, []*Experiment{exp}, []*Factor{{FactorType: "node"}},
		[]*Sample{{SampleName: "ns", Factors: []*Factor{{FactorType: "node-sample"}}}}, nil)

	assert.Equal(t, []string{"s1", "src1", "src2"}, factorTypes(sample1.AllFactors()))
	assert.Equal(t, []string{"exp", "s1", "src1", "src2", "s2"}, factorTypes(AllFactors(exp)))
	assert.Equal(t,
		[]string{"node", "exp", "s1", "src1", "src2", "s2", "node-sample"},
		factorTypes(AllFactors(node)))
}

func TestSample_AllSpeciesAndSources(t *testing.T) {
	s := &Sample{
		SampleName: "s",
		Species:    []*SpeciesFactor{{SpeciesReference: "Al", Stoichiometry: 1}},
		Sources: []*Source{
			{SourceName: "a", Species: []*SpeciesFactor{{SpeciesReference: "Na+", Stoichiometry: 1}}},
			nil,
		},
	}

	assert.Equal(t, []string{"Al", "Na+"}, speciesRefs(s.AllSpecies()))
	require.Len(t, s.AllSources(), 1)
	assert.Equal(t, "a", s.AllSources()[0].SourceName)
}

func TestBuildSpeciesMap_LastWriteWinsFirstPositionKept(t *testing.T) {
	s := &Sample{
		SampleName: "s",
		Species: []*SpeciesFactor{
			{SpeciesReference: "Na+", Stoichiometry: 1},
			{SpeciesReference: "OH-", Stoichiometry: 1},
		},
		Sources: []*Source{
			{SourceName: "a", Species: []*SpeciesFactor{{SpeciesReference: "Na+", Stoichiometry: 2}}},
		},
	}

	m := BuildSpeciesMap(s)
	assert.Equal(t, []string{"Na+", "OH-"}, m.Keys())
	v, ok := m.Get("Na+")
	require.True(t, ok)
	assert.Equal(t, 2.0, v)
	assert.Equal(t, 2, m.Len())

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"Na+":2,"OH-":1}`, string(b))
}

func TestNewNode_PropagatesParentalFields(t *testing.T) {
	exp := &Experiment{Name: "e"}
	nodeFactor := &Factor{FactorType: "Temperature", DecimalValue: floatPtr(298)}
	nodeSample := &Sample{SampleName: "ns"}
	info := map[string]any{"node_title": "Aluminate study"}

	node := NewNode(info, []*Experiment{exp}, []*Factor{nodeFactor}, []*Sample{nodeSample}, nil)

	assert.Equal(t, []*Factor{nodeFactor}, exp.ParentalFactors)
	assert.Equal(t, []*Sample{nodeSample}, exp.ParentalSamples)
	assert.Equal(t, "Aluminate study", exp.ParentalInfo["node_title"])
	assert.Equal(t, "Aluminate study", node.Title())

	// Propagation is a one-time copy of the slice headers.
	node.Factors = append(node.Factors, &Factor{FactorType: "late"})
	assert.Len(t, exp.ParentalFactors, 1)
}

func TestExperiment_CombinedOrder(t *testing.T) {
	exp := &Experiment{
		Name:    "e",
		Factors: []*Factor{{FactorType: "own"}},
		Samples: []*Sample{{SampleName: "own"}},
	}
	NewNode(nil, []*Experiment{exp}, []*Factor{{FactorType: "parent"}}, []*Sample{{SampleName: "parent"}}, nil)

	assert.Equal(t, []string{"own", "parent"}, factorTypes(exp.CombinedFactors()))
	samples := exp.CombinedSamples()
	require.Len(t, samples, 2)
	assert.Equal(t, "own", samples[0].SampleName)
	assert.Equal(t, "parent", samples[1].SampleName)
}
