package services

import (
	"math"

	"github.com/ekaya-inc/chemmd-engine/pkg/apperrors"
	"github.com/ekaya-inc/chemmd-engine/pkg/models"
)

// ApplyDerived adds one column per derived group, computed row by row from
// its source columns. A row with a null or text operand, a zero divisor or
// a result that overflows to infinity yields null. Derived columns carry no
// provenance.
func ApplyDerived(table *Table, derived []models.DerivedGroup) error {
	for _, d := range derived {
		if err := d.Validate(); err != nil {
			return err
		}
		sources := make([][]models.Value, len(d.SourceNames))
		for i, name := range d.SourceNames {
			col, ok := table.Column(name)
			if !ok {
				return apperrors.NewResolutionError("derived column %q references unknown column %q", d.ColumnName, name)
			}
			sources[i] = col
		}

		out := make([]models.Value, table.Rows)
		for row := range out {
			operands := make([]float64, len(sources))
			valid := true
			for i, col := range sources {
				if !col[row].IsNumber() {
					valid = false
					break
				}
				operands[i] = col[row].Number
			}
			if !valid {
				out[row] = models.Null()
				continue
			}
			v := derive(d.Function, operands)
			if v.IsNumber() && (math.IsInf(v.Number, 0) || math.IsNaN(v.Number)) {
				v = models.Null()
			}
			out[row] = v
		}

		if err := table.AddColumn(d.ColumnName, out); err != nil {
			return err
		}
	}
	return nil
}

func derive(function string, operands []float64) models.Value {
	switch function {
	case models.DeriveRatio:
		if operands[1] == 0 {
			return models.Null()
		}
		return models.Number(operands[0] / operands[1])
	case models.DeriveDifference:
		return models.Number(operands[0] - operands[1])
	case models.DeriveProduct:
		p := 1.0
		for _, v := range operands {
			p *= v
		}
		return models.Number(p)
	case models.DeriveSum:
		s := 0.0
		for _, v := range operands {
			s += v
		}
		return models.Number(s)
	}
	return models.Null()
}
