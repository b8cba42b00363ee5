package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Nodal is an entity that can own a point of exported data: an Experiment,
// a Sample or a Source. Exports reference nodal entities by provenance id.
type Nodal interface {
	NodalKind() string
	DisplayName() string
	Markdown() string
	canonical() string
}

// NodalKind names the entity kind in exports.
func (s *Source) NodalKind() string { return "source" }

// DisplayName returns the source name.
func (s *Source) DisplayName() string { return s.SourceName }

// NodalKind names the entity kind in exports.
func (s *Sample) NodalKind() string { return "sample" }

// DisplayName returns the sample name.
func (s *Sample) DisplayName() string { return s.SampleName }

// NodalKind names the entity kind in exports.
func (e *Experiment) NodalKind() string { return "experiment" }

// DisplayName returns the experiment name.
func (e *Experiment) DisplayName() string { return e.Name }

// ProvenanceUUID returns a name-based (version 3) UUID for the entity.
// Entities with identical content always get the same id.
func ProvenanceUUID(n Nodal) string {
	if n == nil {
		return ""
	}
	return uuid.NewMD5(uuid.NameSpaceDNS, []byte(n.canonical())).String()
}

// ProvenanceKey identifies the Experiment, Sample and Source behind a data
// point. Empty fields mean the point has no owner at that level.
type ProvenanceKey struct {
	Experiment string `json:"experiment"`
	Sample     string `json:"sample"`
	Source     string `json:"source"`
}

// IDs returns the non-empty ids in experiment, sample, source order.
func (k ProvenanceKey) IDs() []string {
	out := make([]string, 0, 3)
	for _, id := range []string{k.Experiment, k.Sample, k.Source} {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

// IsZero reports whether the key references no entity.
func (k ProvenanceKey) IsZero() bool {
	return k == ProvenanceKey{}
}

func (s *Source) canonical() string {
	return fmt.Sprintf("Source(source_name=%q, species=%s, factors=%s, comments=%s)",
		s.SourceName, canonicalList(s.Species), canonicalList(s.Factors), canonicalList(s.Comments))
}

func (s *Sample) canonical() string {
	return fmt.Sprintf("Sample(sample_name=%q, factors=%s, species=%s, sources=%s, comments=%s)",
		s.SampleName, canonicalList(s.Factors), canonicalList(s.Species),
		canonicalList(s.Sources), canonicalList(s.Comments))
}

func (e *Experiment) canonical() string {
	return fmt.Sprintf("Experiment(name=%q, datafile=%q, factors=%s, samples=%s, comments=%s, "+
		"parental_factors=%s, parental_samples=%s, parental_comments=%s, parental_info=%s)",
		e.Name, e.Datafile, canonicalList(e.Factors), canonicalList(e.Samples), canonicalList(e.Comments),
		canonicalList(e.ParentalFactors), canonicalList(e.ParentalSamples),
		canonicalList(e.ParentalComments), canonicalInfo(e.ParentalInfo))
}

type canonicaler interface {
	canonical() string
}

func canonicalList[T canonicaler](items []T) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, it.canonical())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// canonicalInfo encodes free-form information with sorted keys.
func canonicalInfo(info map[string]any) string {
	if len(info) == 0 {
		return "{}"
	}
	b, err := json.Marshal(info)
	if err != nil {
		return fmt.Sprintf("%v", info)
	}
	return string(b)
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func fmtFloatPtr(f *float64) string {
	if f == nil {
		return "nil"
	}
	return fmtFloat(*f)
}

func fmtStrPtr(s *string) string {
	if s == nil {
		return "nil"
	}
	return strconv.Quote(*s)
}

func fmtIntPtr(i *int) string {
	if i == nil {
		return "nil"
	}
	return strconv.Itoa(*i)
}
