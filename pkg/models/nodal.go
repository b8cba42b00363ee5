package models

import (
	"strings"

	"github.com/ekaya-inc/chemmd-engine/pkg/apperrors"
)

// Source is a reusable collection of species and factors inside a Sample.
// Sources do not nest.
type Source struct {
	SourceName string           `json:"source_name"`
	Species    []*SpeciesFactor `json:"species"`
	Factors    []*Factor        `json:"factors"`
	Comments   []*Comment       `json:"comments"`
}

// NewSource validates the name and returns a Source.
func NewSource(name string, species []*SpeciesFactor, factors []*Factor, comments []*Comment) (*Source, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewParseError("source_name is required")
	}
	return &Source{SourceName: name, Species: species, Factors: factors, Comments: comments}, nil
}

// ElementFactors returns the factors declared directly on the source.
func (s *Source) ElementFactors() []*Factor { return s.Factors }

// ElementSpecies returns the species declared directly on the source.
func (s *Source) ElementSpecies() []*SpeciesFactor { return s.Species }

// ElementComments returns the comments declared directly on the source.
func (s *Source) ElementComments() []*Comment { return s.Comments }

// Children returns nothing; sources do not nest.
func (s *Source) Children() []Container { return nil }

// Sample is a physical or simulated material: species, factors and the
// Sources it was made from.
type Sample struct {
	SampleName string           `json:"sample_name"`
	Factors    []*Factor        `json:"factors"`
	Species    []*SpeciesFactor `json:"species"`
	Sources    []*Source        `json:"sources"`
	Comments   []*Comment       `json:"comments"`
}

// NewSample validates the name and returns a Sample.
func NewSample(name string, factors []*Factor, species []*SpeciesFactor, sources []*Source, comments []*Comment) (*Sample, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewParseError("sample_name is required")
	}
	return &Sample{SampleName: name, Factors: factors, Species: species, Sources: sources, Comments: comments}, nil
}

// ElementFactors returns the factors declared directly on the sample.
func (s *Sample) ElementFactors() []*Factor { return s.Factors }

// ElementSpecies returns the species declared directly on the sample.
func (s *Sample) ElementSpecies() []*SpeciesFactor { return s.Species }

// ElementComments returns the comments declared directly on the sample.
func (s *Sample) ElementComments() []*Comment { return s.Comments }

// Children returns the sample's sources.
func (s *Sample) Children() []Container {
	out := make([]Container, 0, len(s.Sources))
	for _, src := range s.Sources {
		if src != nil {
			out = append(out, src)
		}
	}
	return out
}

// AllFactors returns the sample's factors followed by those of each Source.
func (s *Sample) AllFactors() []*Factor { return AllFactors(s) }

// AllSpecies returns the sample's species followed by those of each Source.
func (s *Sample) AllSpecies() []*SpeciesFactor { return AllSpecies(s) }

// AllSources returns the sample's Sources. Sources are leaves, so this is
// the direct list.
func (s *Sample) AllSources() []*Source {
	out := make([]*Source, 0, len(s.Sources))
	for _, src := range s.Sources {
		if src != nil {
			out = append(out, src)
		}
	}
	return out
}

// Experiment is a single assay: an optional datafile and the metadata
// describing it. Parental fields are copied from the owning Node by NewNode.
type Experiment struct {
	Name     string     `json:"name"`
	Datafile string     `json:"datafile,omitempty"`
	Factors  []*Factor  `json:"factors"`
	Samples  []*Sample  `json:"samples"`
	Comments []*Comment `json:"comments"`

	ParentalFactors  []*Factor      `json:"parental_factors,omitempty"`
	ParentalSamples  []*Sample      `json:"parental_samples,omitempty"`
	ParentalComments []*Comment     `json:"parental_comments,omitempty"`
	ParentalInfo     map[string]any `json:"parental_info,omitempty"`
}

// NewExperiment validates the name and returns an Experiment without parental data.
func NewExperiment(name, datafile string, factors []*Factor, samples []*Sample, comments []*Comment) (*Experiment, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewParseError("experiment_name is required")
	}
	return &Experiment{Name: name, Datafile: datafile, Factors: factors, Samples: samples, Comments: comments}, nil
}

// ElementFactors returns the factors declared directly on the experiment.
func (e *Experiment) ElementFactors() []*Factor { return e.Factors }

// ElementSpecies returns nothing; experiments own species only through samples.
func (e *Experiment) ElementSpecies() []*SpeciesFactor { return nil }

// ElementComments returns the comments declared directly on the experiment.
func (e *Experiment) ElementComments() []*Comment { return e.Comments }

// Children returns the experiment's own samples. Parental samples are
// reached through CombinedSamples.
func (e *Experiment) Children() []Container {
	out := make([]Container, 0, len(e.Samples))
	for _, s := range e.Samples {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// HasDatafile reports whether the experiment references a datafile.
func (e *Experiment) HasDatafile() bool {
	return strings.TrimSpace(e.Datafile) != ""
}

// CombinedSamples returns own samples followed by parental samples.
func (e *Experiment) CombinedSamples() []*Sample {
	out := make([]*Sample, 0, len(e.Samples)+len(e.ParentalSamples))
	out = append(out, e.Samples...)
	return append(out, e.ParentalSamples...)
}

// CombinedFactors returns own factors followed by parental factors.
func (e *Experiment) CombinedFactors() []*Factor {
	out := make([]*Factor, 0, len(e.Factors)+len(e.ParentalFactors))
	out = append(out, e.Factors...)
	return append(out, e.ParentalFactors...)
}

// Node is the top-level container for one metadata submission.
type Node struct {
	NodeInformation map[string]any `json:"node_information,omitempty"`
	Experiments     []*Experiment  `json:"experiments"`
	Factors         []*Factor      `json:"factors"`
	Samples         []*Sample      `json:"samples"`
	Comments        []*Comment     `json:"comments"`
}

// NewNode builds a Node and assigns every child Experiment's parental fields
// to the node's own factors, samples, comments and information. The
// assignment happens once; later changes to the node are not reflected.
func NewNode(info map[string]any, experiments []*Experiment, factors []*Factor, samples []*Sample, comments []*Comment) *Node {
	n := &Node{
		NodeInformation: info,
		Experiments:     experiments,
		Factors:         factors,
		Samples:         samples,
		Comments:        comments,
	}
	for _, exp := range experiments {
		if exp == nil {
			continue
		}
		exp.ParentalFactors = factors
		exp.ParentalSamples = samples
		exp.ParentalComments = comments
		exp.ParentalInfo = info
	}
	return n
}

// ElementFactors returns the factors declared directly on the node.
func (n *Node) ElementFactors() []*Factor { return n.Factors }

// ElementSpecies returns nothing; nodes own species only through samples.
func (n *Node) ElementSpecies() []*SpeciesFactor { return nil }

// ElementComments returns the comments declared directly on the node.
func (n *Node) ElementComments() []*Comment { return n.Comments }

// Children returns the node's experiments followed by its samples.
func (n *Node) Children() []Container {
	out := make([]Container, 0, len(n.Experiments)+len(n.Samples))
	for _, e := range n.Experiments {
		if e != nil {
			out = append(out, e)
		}
	}
	for _, s := range n.Samples {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Title returns node_title from the node information, if present.
func (n *Node) Title() string {
	if n.NodeInformation == nil {
		return ""
	}
	if t, ok := n.NodeInformation["node_title"].(string); ok {
		return t
	}
	return ""
}
