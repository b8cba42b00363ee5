package models

import (
	"bytes"
	"encoding/json"
)

// Container is an entity that owns elements and nested containers.
// Node, Experiment, Sample and Source implement it.
type Container interface {
	ElementFactors() []*Factor
	ElementSpecies() []*SpeciesFactor
	ElementComments() []*Comment
	Children() []Container
}

// collect walks c depth first: the container's own elements, then each
// child in declared order. Callers rely on this order for last-wins
// priority, so it must stay deterministic.
func collect[T any](c Container, get func(Container) []*T) []*T {
	if c == nil {
		return nil
	}
	var out []*T
	for _, el := range get(c) {
		if el != nil {
			out = append(out, el)
		}
	}
	for _, child := range c.Children() {
		out = append(out, collect(child, get)...)
	}
	return out
}

// AllFactors returns every Factor on c and its descendants.
func AllFactors(c Container) []*Factor {
	return collect(c, Container.ElementFactors)
}

// AllSpecies returns every SpeciesFactor on c and its descendants.
func AllSpecies(c Container) []*SpeciesFactor {
	return collect(c, Container.ElementSpecies)
}

// AllComments returns every Comment on c and its descendants.
func AllComments(c Container) []*Comment {
	return collect(c, Container.ElementComments)
}

// SpeciesMap is an insertion-ordered species_reference -> stoichiometry map.
type SpeciesMap struct {
	keys   []string
	values map[string]float64
}

// NewSpeciesMap returns an empty map.
func NewSpeciesMap() *SpeciesMap {
	return &SpeciesMap{values: make(map[string]float64)}
}

// BuildSpeciesMap aggregates every species of c. A repeated reference keeps
// its first position and takes the last stoichiometry seen.
func BuildSpeciesMap(c Container) *SpeciesMap {
	m := NewSpeciesMap()
	for _, s := range AllSpecies(c) {
		m.Set(s.SpeciesReference, s.Stoichiometry)
	}
	return m
}

// Set stores a stoichiometry for reference.
func (m *SpeciesMap) Set(reference string, stoichiometry float64) {
	if _, ok := m.values[reference]; !ok {
		m.keys = append(m.keys, reference)
	}
	m.values[reference] = stoichiometry
}

// Get returns the stoichiometry for reference.
func (m *SpeciesMap) Get(reference string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m.values[reference]
	return v, ok
}

// Keys returns the species references in insertion order.
func (m *SpeciesMap) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of species.
func (m *SpeciesMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m *SpeciesMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
