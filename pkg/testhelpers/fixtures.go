// Package testhelpers provides fixtures for testing chemmd-engine components.
package testhelpers

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ekaya-inc/chemmd-engine/pkg/models"
)

// AlDatafile is the datafile name used by the Al concentration fixtures.
const AlDatafile = "al_nmr.csv"

// WriteCSV writes a datafile with a header and numeric rows under dir and
// returns its file name.
func WriteCSV(t *testing.T, dir, name string, header []string, rows ...[]float64) string {
	t.Helper()

	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		b.WriteString(strings.Join(cells, ","))
		b.WriteByte('\n')
	}

	if err := os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0o644); err != nil {
		t.Fatalf("failed to write csv fixture: %v", err)
	}
	return name
}

// WriteJSON marshals v to dir/name.
func WriteJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal json fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("failed to write json fixture: %v", err)
	}
	return name
}

// WriteAlDatafile writes a three row datafile whose column 0 is [1, 2, 3].
func WriteAlDatafile(t *testing.T, dir string) string {
	t.Helper()
	return WriteCSV(t, dir, AlDatafile, []string{"Al Concentration", "Chemical Shift"},
		[]float64{1, 70.1},
		[]float64{2, 72.4},
		[]float64{3, 75.8},
	)
}

// AlNodeDocument returns the raw document for a node with one experiment
// whose sample holds an Al species and a Molar measurement bound to column 0
// of datafile.
func AlNodeDocument(datafile string) map[string]any {
	return map[string]any{
		"node_information": map[string]any{
			"node_title":       "Aluminate speciation",
			"node_description": "27Al NMR of caustic aluminate solutions",
		},
		"node_experiments": []any{
			map[string]any{
				"experiment_name":     "27Al NMR",
				"experiment_datafile": datafile,
				"experiment_samples": []any{
					map[string]any{
						"sample_name": "NaAl(OH)4 solution",
						"sample_factors": []any{
							map[string]any{
								"factor_type":      "Measurement Condition",
								"unit_reference":   "Molar",
								"csv_column_index": 0,
							},
						},
						"sample_species": []any{
							map[string]any{"species_reference": "Al", "stoichiometry": 1.0},
						},
					},
				},
			},
		},
	}
}

// AlNode builds the node described by AlNodeDocument directly.
func AlNode(datafile string) *models.Node {
	col := 0
	unit := "Molar"
	sample := &models.Sample{
		SampleName: "NaAl(OH)4 solution",
		Factors: []*models.Factor{{
			FactorType:     "Measurement Condition",
			UnitReference:  &unit,
			CSVColumnIndex: &col,
		}},
		Species: []*models.SpeciesFactor{{SpeciesReference: "Al", Stoichiometry: 1}},
	}
	exp := &models.Experiment{Name: "27Al NMR", Datafile: datafile, Samples: []*models.Sample{sample}}
	return models.NewNode(map[string]any{
		"node_title":       "Aluminate speciation",
		"node_description": "27Al NMR of caustic aluminate solutions",
	}, []*models.Experiment{exp}, nil, nil, nil)
}

// AlGroup is the query group selecting the Al concentration column.
func AlGroup() models.QueryGroup {
	return models.QueryGroup{
		ColumnName:     "Al Concentration",
		FactorFilters:  []string{"Molar"},
		SpeciesFilters: []string{"Al"},
	}
}

// WriteAlDataset writes a dataset directory holding the Al node document,
// its datafile and a groups file, and returns the directory.
func WriteAlDataset(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	WriteAlDatafile(t, dir)
	WriteJSON(t, dir, "al_node.json", AlNodeDocument(AlDatafile))
	WriteJSON(t, dir, "gq.json", map[string]any{
		"x_groups": []any{
			map[string]any{
				"column_name":     "Al Concentration",
				"factor_filters":  []string{"Molar"},
				"species_filters": []string{"Al"},
			},
		},
		"y_groups": []any{
			map[string]any{
				"column_name":     "Species",
				"factor_filters":  []string{"Species"},
				"species_filters": []string{"Al"},
			},
		},
	})
	return dir
}
