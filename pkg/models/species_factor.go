package models

import (
	"fmt"
	"strings"

	"github.com/ekaya-inc/chemmd-engine/pkg/apperrors"
)

// DefaultStoichiometry is used when a species carries no coefficient.
const DefaultStoichiometry = 1.0

// SpeciesFactor pairs a species with its stoichiometry coefficient.
// Coefficients are only comparable within the same Sample or Source.
type SpeciesFactor struct {
	SpeciesReference string  `json:"species_reference"`
	Stoichiometry    float64 `json:"stoichiometry"`
}

// NewSpeciesFactor validates the species reference. A nil stoichiometry
// defaults to DefaultStoichiometry.
func NewSpeciesFactor(reference string, stoichiometry *float64) (*SpeciesFactor, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, apperrors.NewParseError("species_reference is required")
	}
	s := DefaultStoichiometry
	if stoichiometry != nil {
		s = *stoichiometry
	}
	return &SpeciesFactor{SpeciesReference: reference, Stoichiometry: s}, nil
}

// Query reports whether term matches the start of the species reference.
func (s *SpeciesFactor) Query(term string) bool {
	return MatchTerm(term, s.SpeciesReference)
}

func (s *SpeciesFactor) canonical() string {
	return fmt.Sprintf("SpeciesFactor(species_reference=%q, stoichiometry=%s)",
		s.SpeciesReference, fmtFloat(s.Stoichiometry))
}
