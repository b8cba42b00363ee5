package services

import (
	"go.uber.org/zap"

	"github.com/ekaya-inc/chemmd-engine/pkg/models"
)

// DefaultStoichiometryUnits are the factor filters whose values scale with
// species stoichiometry.
var DefaultStoichiometryUnits = []string{"Molar"}

// ApplyStoichiometry multiplies the numeric values of every factor match
// whose group filters name one of units by the stoichiometry of the first
// matched species. Species columns and text values are left unchanged.
func ApplyStoichiometry(gm *GroupMapping, units []string, logger *zap.Logger) {
	for _, m := range gm.Matches {
		if m.IsSpeciesColumn() || len(m.Species) == 0 || !filtersName(m.Group.FactorFilters, units) {
			continue
		}
		coeff, ok := m.Record.SpeciesMap.Get(m.Species[0])
		if !ok || coeff == 1 {
			continue
		}
		scaled := make([]models.Value, len(m.Data))
		for i, v := range m.Data {
			if v.IsNumber() {
				v = models.Number(v.Number * coeff)
			}
			scaled[i] = v
		}
		m.Data = scaled
		logger.Debug("Applied stoichiometry",
			zap.String("column", m.Group.ColumnName),
			zap.String("species", m.Species[0]),
			zap.Float64("coefficient", coeff))
	}
}

func filtersName(filters, units []string) bool {
	for _, f := range filters {
		for _, u := range units {
			if f == u {
				return true
			}
		}
	}
	return false
}
