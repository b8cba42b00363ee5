package models

import (
	"strings"

	"github.com/ekaya-inc/chemmd-engine/pkg/apperrors"
)

// SpeciesSentinel is the factor filter marking a group whose column lists
// species names instead of factor values.
const SpeciesSentinel = "Species"

// QueryGroup declares one output column: factors matching FactorFilters
// owned by species matching SpeciesFilters.
type QueryGroup struct {
	ColumnName     string   `json:"column_name" yaml:"column_name"`
	FactorFilters  []string `json:"factor_filters" yaml:"factor_filters"`
	SpeciesFilters []string `json:"species_filters" yaml:"species_filters"`
}

// NewQueryGroup validates the column name and every filter pattern.
func NewQueryGroup(columnName string, factorFilters, speciesFilters []string) (QueryGroup, error) {
	g := QueryGroup{
		ColumnName:     columnName,
		FactorFilters:  append([]string(nil), factorFilters...),
		SpeciesFilters: append([]string(nil), speciesFilters...),
	}
	if err := g.Validate(); err != nil {
		return QueryGroup{}, err
	}
	return g, nil
}

// Validate checks the column name and that all filters compile.
func (g QueryGroup) Validate() error {
	if strings.TrimSpace(g.ColumnName) == "" {
		return apperrors.NewParseError("query group column_name is required")
	}
	for _, f := range g.FactorFilters {
		if err := ValidateTerm(f); err != nil {
			return apperrors.NewParseError("query group %q: invalid factor filter %q: %v", g.ColumnName, f, err)
		}
	}
	for _, f := range g.SpeciesFilters {
		if err := ValidateTerm(f); err != nil {
			return apperrors.NewParseError("query group %q: invalid species filter %q: %v", g.ColumnName, f, err)
		}
	}
	return nil
}

// IsSpeciesGroup reports whether the factor filters are exactly the species sentinel.
func (g QueryGroup) IsSpeciesGroup() bool {
	return len(g.FactorFilters) == 1 && g.FactorFilters[0] == SpeciesSentinel
}

// MatchingSpecies returns the entries of species matching any species filter,
// in the order given.
func (g QueryGroup) MatchingSpecies(species []string) []string {
	var out []string
	for _, s := range species {
		for _, f := range g.SpeciesFilters {
			if MatchTerm(f, s) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// Derived column functions.
const (
	DeriveRatio      = "ratio"
	DeriveProduct    = "product"
	DeriveSum        = "sum"
	DeriveDifference = "difference"
)

// DerivedGroup computes a new column from existing numeric columns.
type DerivedGroup struct {
	ColumnName  string   `json:"column_name" yaml:"column_name"`
	SourceNames []string `json:"source_names" yaml:"source_names"`
	Function    string   `json:"function" yaml:"function"`
}

// Validate checks the function name and source column count.
func (d DerivedGroup) Validate() error {
	if strings.TrimSpace(d.ColumnName) == "" {
		return apperrors.NewParseError("derived group column_name is required")
	}
	switch d.Function {
	case DeriveRatio, DeriveDifference:
		if len(d.SourceNames) != 2 {
			return apperrors.NewParseError("derived group %q: %s needs exactly 2 source columns, got %d", d.ColumnName, d.Function, len(d.SourceNames))
		}
	case DeriveProduct, DeriveSum:
		if len(d.SourceNames) < 1 {
			return apperrors.NewParseError("derived group %q: %s needs at least 1 source column", d.ColumnName, d.Function)
		}
	default:
		return apperrors.NewParseError("derived group %q: unknown function %q", d.ColumnName, d.Function)
	}
	return nil
}
