// Package nodejson builds metadata Nodes from decoded node documents and
// reads the files of a dataset directory.
//
// A node document is a nested map with node_*, experiment_*, sample_* and
// source_* keys. Optional lists default to empty. Any malformed entry fails
// the whole document with a parse error naming the offending location, so no
// partial Node is ever returned.
package nodejson

import (
	"errors"
	"fmt"

	"github.com/ekaya-inc/chemmd-engine/pkg/apperrors"
	"github.com/ekaya-inc/chemmd-engine/pkg/jsonutil"
	"github.com/ekaya-inc/chemmd-engine/pkg/models"
)

// ParseNode converts a decoded node document into a Node. Experiments
// receive the node's factors, samples, comments and information as parental data.
func ParseNode(doc map[string]any) (*models.Node, error) {
	if doc == nil {
		return nil, apperrors.NewParseError("node document is empty")
	}

	info, err := optionalMap(doc, "node_information", "node_information")
	if err != nil {
		return nil, err
	}
	factors, err := parseFactors(doc, "node_factors", "node_factors")
	if err != nil {
		return nil, err
	}
	comments, err := parseComments(doc, "node_comments", "node_comments")
	if err != nil {
		return nil, err
	}

	sampleDocs, err := list(doc, "node_samples", "node_samples")
	if err != nil {
		return nil, err
	}
	samples := make([]*models.Sample, 0, len(sampleDocs))
	for i, sd := range sampleDocs {
		s, err := parseSample(sd, index("node_samples", i))
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}

	expDocs, err := list(doc, "node_experiments", "node_experiments")
	if err != nil {
		return nil, err
	}
	experiments := make([]*models.Experiment, 0, len(expDocs))
	for i, ed := range expDocs {
		e, err := parseExperiment(ed, index("node_experiments", i))
		if err != nil {
			return nil, err
		}
		experiments = append(experiments, e)
	}

	return models.NewNode(info, experiments, factors, samples, comments), nil
}

func parseExperiment(doc map[string]any, at string) (*models.Experiment, error) {
	name, err := requiredString(doc, "experiment_name", at)
	if err != nil {
		return nil, err
	}
	datafile, _, err := optionalString(doc, "experiment_datafile", at)
	if err != nil {
		return nil, err
	}
	factors, err := parseFactors(doc, "experiment_factors", at+".experiment_factors")
	if err != nil {
		return nil, err
	}
	comments, err := parseComments(doc, "experiment_comments", at+".experiment_comments")
	if err != nil {
		return nil, err
	}

	sampleDocs, err := list(doc, "experiment_samples", at+".experiment_samples")
	if err != nil {
		return nil, err
	}
	samples := make([]*models.Sample, 0, len(sampleDocs))
	for i, sd := range sampleDocs {
		s, err := parseSample(sd, index(at+".experiment_samples", i))
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}

	exp, err := models.NewExperiment(name, datafile, factors, samples, comments)
	if err != nil {
		return nil, located(at, err)
	}
	return exp, nil
}

func parseSample(doc map[string]any, at string) (*models.Sample, error) {
	name, err := requiredString(doc, "sample_name", at)
	if err != nil {
		return nil, err
	}
	factors, err := parseFactors(doc, "sample_factors", at+".sample_factors")
	if err != nil {
		return nil, err
	}
	species, err := parseSpecies(doc, "sample_species", at+".sample_species")
	if err != nil {
		return nil, err
	}
	comments, err := parseComments(doc, "sample_comments", at+".sample_comments")
	if err != nil {
		return nil, err
	}

	sourceDocs, err := list(doc, "sample_sources", at+".sample_sources")
	if err != nil {
		return nil, err
	}
	sources := make([]*models.Source, 0, len(sourceDocs))
	for i, sd := range sourceDocs {
		src, err := parseSource(sd, index(at+".sample_sources", i))
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	sample, err := models.NewSample(name, factors, species, sources, comments)
	if err != nil {
		return nil, located(at, err)
	}
	return sample, nil
}

func parseSource(doc map[string]any, at string) (*models.Source, error) {
	name, err := requiredString(doc, "source_name", at)
	if err != nil {
		return nil, err
	}
	species, err := parseSpecies(doc, "source_species", at+".source_species")
	if err != nil {
		return nil, err
	}
	factors, err := parseFactors(doc, "source_factors", at+".source_factors")
	if err != nil {
		return nil, err
	}
	comments, err := parseComments(doc, "source_comments", at+".source_comments")
	if err != nil {
		return nil, err
	}

	src, err := models.NewSource(name, species, factors, comments)
	if err != nil {
		return nil, located(at, err)
	}
	return src, nil
}

func parseFactors(doc map[string]any, key, at string) ([]*models.Factor, error) {
	docs, err := list(doc, key, at)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Factor, 0, len(docs))
	for i, fd := range docs {
		f, err := parseFactor(fd, index(at, i))
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func parseFactor(doc map[string]any, at string) (*models.Factor, error) {
	var p models.FactorParams
	var err error

	if p.FactorType, err = requiredString(doc, "factor_type", at); err != nil {
		return nil, err
	}
	if p.DecimalValue, err = optionalFloat(doc, "decimal_value", at); err != nil {
		return nil, err
	}
	if p.StringValue, err = optionalStringPtr(doc, "string_value", at); err != nil {
		return nil, err
	}
	if p.ReferenceValue, err = optionalStringPtr(doc, "reference_value", at); err != nil {
		return nil, err
	}
	if p.UnitReference, err = optionalStringPtr(doc, "unit_reference", at); err != nil {
		return nil, err
	}
	if p.CSVColumnIndex, err = optionalInt(doc, "csv_column_index", at); err != nil {
		return nil, err
	}

	f, err := models.NewFactor(p)
	if err != nil {
		return nil, located(at, err)
	}
	return f, nil
}

func parseSpecies(doc map[string]any, key, at string) ([]*models.SpeciesFactor, error) {
	docs, err := list(doc, key, at)
	if err != nil {
		return nil, err
	}
	out := make([]*models.SpeciesFactor, 0, len(docs))
	for i, sd := range docs {
		here := index(at, i)
		ref, err := requiredString(sd, "species_reference", here)
		if err != nil {
			return nil, err
		}
		stoich, err := optionalFloat(sd, "stoichiometry", here)
		if err != nil {
			return nil, err
		}
		s, err := models.NewSpeciesFactor(ref, stoich)
		if err != nil {
			return nil, located(here, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func parseComments(doc map[string]any, key, at string) ([]*models.Comment, error) {
	docs, err := list(doc, key, at)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Comment, 0, len(docs))
	for i, cd := range docs {
		here := index(at, i)
		title, err := requiredString(cd, "comment_title", here)
		if err != nil {
			return nil, err
		}
		body, err := optionalStringPtr(cd, "comment_body", here)
		if err != nil {
			return nil, err
		}
		c, err := models.NewComment(title, body)
		if err != nil {
			return nil, located(here, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// list returns doc[key] as a list of maps. Missing and null keys are empty.
func list(doc map[string]any, key, at string) ([]map[string]any, error) {
	raw, ok := doc[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, apperrors.NewParseError("%s: expected a list, got %T", at, raw)
	}
	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, apperrors.NewParseError("%s: expected an object, got %T", index(at, i), item)
		}
		out = append(out, m)
	}
	return out, nil
}

func optionalMap(doc map[string]any, key, at string) (map[string]any, error) {
	raw, ok := doc[key]
	if !ok || raw == nil {
		return nil, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, apperrors.NewParseError("%s: expected an object, got %T", at, raw)
	}
	return m, nil
}

func requiredString(doc map[string]any, key, at string) (string, error) {
	s, ok, err := optionalString(doc, key, at)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperrors.NewParseError("%s: %s is required", at, key)
	}
	return s, nil
}

func optionalString(doc map[string]any, key, at string) (string, bool, error) {
	raw := doc[key]
	switch raw.(type) {
	case map[string]any, []any:
		return "", false, apperrors.NewParseError("%s.%s: expected a scalar, got %T", at, key, raw)
	}
	s, ok := jsonutil.FlexibleString(raw)
	return s, ok, nil
}

func optionalStringPtr(doc map[string]any, key, at string) (*string, error) {
	s, ok, err := optionalString(doc, key, at)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

func optionalFloat(doc map[string]any, key, at string) (*float64, error) {
	f, ok, err := jsonutil.FlexibleFloat(doc[key])
	if err != nil {
		return nil, apperrors.NewParseError("%s.%s: %v", at, key, err)
	}
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func optionalInt(doc map[string]any, key, at string) (*int, error) {
	n, ok, err := jsonutil.FlexibleInt(doc[key])
	if err != nil {
		return nil, apperrors.NewParseError("%s.%s: %v", at, key, err)
	}
	if !ok {
		return nil, nil
	}
	return &n, nil
}

func index(at string, i int) string {
	return fmt.Sprintf("%s[%d]", at, i)
}

// located prefixes a constructor error with the document location.
func located(at string, err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return apperrors.NewParseError("%s: %s", at, appErr.Message)
	}
	return apperrors.NewParseError("%s: %v", at, err)
}
