package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/chemmd-engine/pkg/apperrors"
)

func TestNewQueryGroup(t *testing.T) {
	g, err := NewQueryGroup("Al Concentration", []string{"Molar"}, []string{"Al"})
	require.NoError(t, err)
	assert.False(t, g.IsSpeciesGroup())

	_, err = NewQueryGroup("", []string{"Molar"}, []string{"Al"})
	assert.True(t, errors.Is(err, apperrors.ErrParse))

	_, err = NewQueryGroup("bad", []string{"[unclosed"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrParse))
	assert.Contains(t, err.Error(), "[unclosed")
}

func TestQueryGroup_IsSpeciesGroup(t *testing.T) {
	tests := []struct {
		filters []string
		want    bool
	}{
		{[]string{"Species"}, true},
		{[]string{"Species", "Molar"}, false},
		{[]string{"species"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		g := QueryGroup{ColumnName: "c", FactorFilters: tt.filters}
		assert.Equal(t, tt.want, g.IsSpeciesGroup(), "%v", tt.filters)
	}
}

func TestQueryGroup_MatchingSpecies(t *testing.T) {
	g := QueryGroup{ColumnName: "Cation", FactorFilters: []string{"Species"}, SpeciesFilters: []string{"Na+", "Li+"}}
	assert.Equal(t, []string{"Na+"}, g.MatchingSpecies([]string{"Na+", "OH-"}))
	assert.Empty(t, g.MatchingSpecies([]string{"Al", "OH-"}))
}

func TestDerivedGroup_Validate(t *testing.T) {
	tests := []struct {
		name    string
		group   DerivedGroup
		wantErr bool
	}{
		{"ratio", DerivedGroup{ColumnName: "r", SourceNames: []string{"a", "b"}, Function: DeriveRatio}, false},
		{"sum of three", DerivedGroup{ColumnName: "s", SourceNames: []string{"a", "b", "c"}, Function: DeriveSum}, false},
		{"ratio needs two", DerivedGroup{ColumnName: "r", SourceNames: []string{"a"}, Function: DeriveRatio}, true},
		{"unknown function", DerivedGroup{ColumnName: "r", SourceNames: []string{"a"}, Function: "log"}, true},
		{"missing name", DerivedGroup{SourceNames: []string{"a"}, Function: DeriveSum}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.group.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, apperrors.ErrParse))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
