package services

import (
	"sort"

	"github.com/ekaya-inc/chemmd-engine/pkg/models"
)

// quantileLimit is the unique-value count below which a continuous column
// can be binned.
const quantileLimit = 10

// Categories sorts the requested columns by how they can be visualized.
type Categories struct {
	Columns      []string `json:"columns"`
	Discrete     []string `json:"discrete"`
	Continuous   []string `json:"continuous"`
	Quantileable []string `json:"quantileable"`
}

// Categorize classifies the table columns named by the X and Y groups.
// Only X columns are categorized: a column holding any text is discrete,
// otherwise continuous, and continuous columns with fewer than ten distinct
// values are also quantileable.
func Categorize(table *Table, xNames, yNames []string) *Categories {
	requested := make(map[string]bool)
	isX := make(map[string]bool)
	for _, n := range xNames {
		requested[n] = true
		isX[n] = true
	}
	for _, n := range yNames {
		requested[n] = true
	}

	c := &Categories{
		Columns:      []string{},
		Discrete:     []string{},
		Continuous:   []string{},
		Quantileable: []string{},
	}
	for _, name := range table.Columns {
		if requested[name] {
			c.Columns = append(c.Columns, name)
		}
	}
	sort.Strings(c.Columns)

	for _, name := range c.Columns {
		if !isX[name] {
			continue
		}
		col := table.Data[name]
		if hasText(col) {
			c.Discrete = append(c.Discrete, name)
			continue
		}
		c.Continuous = append(c.Continuous, name)
		if distinctNumbers(col) < quantileLimit {
			c.Quantileable = append(c.Quantileable, name)
		}
	}
	return c
}

func hasText(col []models.Value) bool {
	for _, v := range col {
		if !v.IsNull() && !v.IsNumber() {
			return true
		}
	}
	return false
}

func distinctNumbers(col []models.Value) int {
	seen := make(map[float64]bool)
	for _, v := range col {
		if v.IsNumber() {
			seen[v.Number] = true
		}
	}
	return len(seen)
}
