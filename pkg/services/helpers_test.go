package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/chemmd-engine/pkg/apperrors"
	"github.com/ekaya-inc/chemmd-engine/pkg/datafile"
	"github.com/ekaya-inc/chemmd-engine/pkg/models"
)

// memLoader serves datafile columns from memory.
type memLoader struct {
	files map[string]datafile.Columns
	loads int
}

func (l *memLoader) Load(path string) (datafile.Columns, error) {
	l.loads++
	cols, ok := l.files[path]
	if !ok {
		return nil, apperrors.NewCSVAccessError(path, "datafile not found", nil)
	}
	return cols, nil
}

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func scalarFactor(factorType, unit string, value float64) *models.Factor {
	f := &models.Factor{FactorType: factorType, DecimalValue: &value}
	if unit != "" {
		f.UnitReference = strPtr(unit)
	}
	return f
}

func columnFactor(factorType, unit string, index int) *models.Factor {
	f := &models.Factor{FactorType: factorType, CSVColumnIndex: intPtr(index)}
	if unit != "" {
		f.UnitReference = strPtr(unit)
	}
	return f
}

func species(refs ...string) []*models.SpeciesFactor {
	out := make([]*models.SpeciesFactor, len(refs))
	for i, r := range refs {
		out[i] = &models.SpeciesFactor{SpeciesReference: r, Stoichiometry: models.DefaultStoichiometry}
	}
	return out
}

func numbers(t *testing.T, values []models.Value) []float64 {
	t.Helper()
	out := make([]float64, len(values))
	for i, v := range values {
		require.True(t, v.IsNumber(), "value %d is %s", i, v.Kind)
		out[i] = v.Number
	}
	return out
}

func texts(values []models.Value) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

func requireKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	require.Error(t, err)
	appErr := apperrors.Classify(err)
	require.Equal(t, kind, appErr.Kind, "unexpected error: %v", err)
}
