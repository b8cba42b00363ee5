package nodejson

import (
	"github.com/ekaya-inc/chemmd-engine/pkg/apperrors"
	"github.com/ekaya-inc/chemmd-engine/pkg/jsonutil"
	"github.com/ekaya-inc/chemmd-engine/pkg/models"
)

// Groups is the content of a groups file. X groups are candidate axis and
// table columns, Y groups the measured values plotted against them.
type Groups struct {
	X       []models.QueryGroup   `json:"x_groups"`
	Y       []models.QueryGroup   `json:"y_groups"`
	Derived []models.DerivedGroup `json:"derived_groups,omitempty"`
}

// All returns the X groups followed by the Y groups.
func (g *Groups) All() []models.QueryGroup {
	out := make([]models.QueryGroup, 0, len(g.X)+len(g.Y))
	out = append(out, g.X...)
	return append(out, g.Y...)
}

// XNames returns the column names of the X groups.
func (g *Groups) XNames() []string {
	return columnNames(g.X)
}

// YNames returns the column names of the Y groups.
func (g *Groups) YNames() []string {
	return columnNames(g.Y)
}

func columnNames(groups []models.QueryGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.ColumnName
	}
	return out
}

// ReadGroups reads a groups file (JSON or YAML).
func ReadGroups(path string) (*Groups, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}
	groups, err := ParseGroups(doc)
	if err != nil {
		if appErr := apperrors.Classify(err); appErr.Kind == apperrors.KindParse {
			return nil, appErr.WithPath(path)
		}
		return nil, err
	}
	return groups, nil
}

// ParseGroups converts a decoded groups document. Each group is either an
// object with column_name, factor_filters and species_filters, or a
// [column_name, factor_filters, species_filters] triple. A filter given as a
// single string is treated as a one-element list.
func ParseGroups(doc map[string]any) (*Groups, error) {
	x, err := parseGroupList(doc, "x_groups")
	if err != nil {
		return nil, err
	}
	y, err := parseGroupList(doc, "y_groups")
	if err != nil {
		return nil, err
	}
	derived, err := parseDerivedList(doc, "derived_groups")
	if err != nil {
		return nil, err
	}
	return &Groups{X: x, Y: y, Derived: derived}, nil
}

func parseGroupList(doc map[string]any, key string) ([]models.QueryGroup, error) {
	raw, ok := doc[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, apperrors.NewParseError("%s: expected a list, got %T", key, raw)
	}

	out := make([]models.QueryGroup, 0, len(items))
	for i, item := range items {
		at := index(key, i)
		g, err := parseGroup(item, at)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func parseGroup(item any, at string) (models.QueryGroup, error) {
	var name, factors, species any
	switch v := item.(type) {
	case map[string]any:
		name, factors, species = v["column_name"], v["factor_filters"], v["species_filters"]
	case []any:
		if len(v) != 3 {
			return models.QueryGroup{}, apperrors.NewParseError("%s: expected [column_name, factor_filters, species_filters], got %d entries", at, len(v))
		}
		name, factors, species = v[0], v[1], v[2]
	default:
		return models.QueryGroup{}, apperrors.NewParseError("%s: expected an object or a triple, got %T", at, item)
	}

	columnName, _ := jsonutil.FlexibleString(name)
	ff, err := stringList(factors, at+".factor_filters")
	if err != nil {
		return models.QueryGroup{}, err
	}
	sf, err := stringList(species, at+".species_filters")
	if err != nil {
		return models.QueryGroup{}, err
	}

	g, err := models.NewQueryGroup(columnName, ff, sf)
	if err != nil {
		return models.QueryGroup{}, located(at, err)
	}
	return g, nil
}

func parseDerivedList(doc map[string]any, key string) ([]models.DerivedGroup, error) {
	items, err := list(doc, key, key)
	if err != nil {
		return nil, err
	}
	out := make([]models.DerivedGroup, 0, len(items))
	for i, item := range items {
		at := index(key, i)
		columnName, _ := jsonutil.FlexibleString(item["column_name"])
		function, _ := jsonutil.FlexibleString(item["function"])
		sources, err := stringList(item["source_names"], at+".source_names")
		if err != nil {
			return nil, err
		}
		d := models.DerivedGroup{ColumnName: columnName, SourceNames: sources, Function: function}
		if err := d.Validate(); err != nil {
			return nil, located(at, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func stringList(raw any, at string) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := jsonutil.FlexibleString(item)
			if !ok {
				return nil, apperrors.NewParseError("%s: null entry", index(at, i))
			}
			out = append(out, s)
		}
		return out, nil
	default:
		s, _ := jsonutil.FlexibleString(v)
		return []string{s}, nil
	}
}
