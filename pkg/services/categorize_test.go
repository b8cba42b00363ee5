package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ekaya-inc/chemmd-engine/pkg/models"
)

func TestCategorize(t *testing.T) {
	many := make([]float64, 12)
	for i := range many {
		many[i] = float64(i)
	}
	few := make([]float64, 12)
	for i := range few {
		few[i] = float64(i % 3)
	}
	mixed := models.Repeat(models.Number(1), 12)
	mixed[4] = models.Text("n/a")
	withNulls := models.Numbers(many)
	withNulls[0] = models.Null()

	table := &Table{
		Columns: []string{"Temperature", "Concentration", "Species", "Shift", "Unused", "Gaps"},
		Rows:    12,
		Data: map[string][]models.Value{
			"Temperature":   models.Numbers(few),
			"Concentration": models.Numbers(many),
			"Species":       mixed,
			"Shift":         models.Numbers(many),
			"Unused":        models.Numbers(many),
			"Gaps":          withNulls,
		},
	}

	got := Categorize(table, []string{"Temperature", "Concentration", "Species", "Gaps", "Missing"}, []string{"Shift"})

	assert.Equal(t, []string{"Concentration", "Gaps", "Shift", "Species", "Temperature"}, got.Columns)
	assert.Equal(t, []string{"Species"}, got.Discrete)
	assert.Equal(t, []string{"Concentration", "Gaps", "Temperature"}, got.Continuous)
	assert.Equal(t, []string{"Temperature"}, got.Quantileable)
}

func TestCategorize_EmptyTable(t *testing.T) {
	got := Categorize(&Table{Data: map[string][]models.Value{}}, []string{"a"}, nil)

	assert.Empty(t, got.Columns)
	assert.NotNil(t, got.Discrete)
	assert.NotNil(t, got.Quantileable)
}
