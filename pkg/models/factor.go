// Package models contains the metadata entities for chemmd-engine.
//
// Entities form a strict ownership tree: a Node owns Experiments, an
// Experiment owns Samples, a Sample owns Sources. Factor, SpeciesFactor and
// Comment are the leaves. Everything is built once per request by the
// deserializer and only read afterwards.
package models

import (
	"fmt"
	"strings"

	"github.com/ekaya-inc/chemmd-engine/pkg/apperrors"
)

// FactorParams carries the raw fields of a Factor before validation.
type FactorParams struct {
	FactorType     string
	DecimalValue   *float64
	StringValue    *string
	ReferenceValue *string
	UnitReference  *string
	CSVColumnIndex *int
}

// Factor is the fundamental storage model for an observation.
// It either holds a scalar (decimal, string or reference value) or points
// at a column of the owning Experiment's datafile.
type Factor struct {
	FactorType     string   `json:"factor_type"`
	DecimalValue   *float64 `json:"decimal_value,omitempty"`
	StringValue    *string  `json:"string_value,omitempty"`
	ReferenceValue *string  `json:"reference_value,omitempty"`
	UnitReference  *string  `json:"unit_reference,omitempty"`
	CSVColumnIndex *int     `json:"csv_column_index,omitempty"`
}

// NewFactor validates params and returns a Factor.
func NewFactor(p FactorParams) (*Factor, error) {
	if strings.TrimSpace(p.FactorType) == "" {
		return nil, apperrors.NewParseError("factor_type is required")
	}
	if p.CSVColumnIndex != nil && *p.CSVColumnIndex < 0 {
		return nil, apperrors.NewParseError("csv_column_index must be non-negative, got %d", *p.CSVColumnIndex)
	}
	return &Factor{
		FactorType:     p.FactorType,
		DecimalValue:   p.DecimalValue,
		StringValue:    p.StringValue,
		ReferenceValue: p.ReferenceValue,
		UnitReference:  p.UnitReference,
		CSVColumnIndex: p.CSVColumnIndex,
	}, nil
}

// Label identifies the kind of observation a Factor describes:
// (factor_type, unit_reference, reference_value) with unset entries elided.
type Label []string

// Key returns a string form of the label usable as a map key.
func (l Label) Key() string {
	return strings.Join(l, "\x1f")
}

// String formats the label as a parenthesized tuple.
func (l Label) String() string {
	return "(" + strings.Join(l, ", ") + ")"
}

// Label returns the observation label of this factor.
func (f *Factor) Label() Label {
	label := Label{f.FactorType}
	if s := deref(f.UnitReference); s != "" {
		label = append(label, s)
	}
	if s := deref(f.ReferenceValue); s != "" {
		label = append(label, s)
	}
	return label
}

// IsCSVIndex reports whether the factor describes a datafile column.
func (f *Factor) IsCSVIndex() bool {
	return f.CSVColumnIndex != nil
}

// Value returns the scalar value of this factor.
// Priority is decimal, then string, then reference. The second result is
// false when none of them is set.
func (f *Factor) Value() (Value, bool) {
	switch {
	case f.DecimalValue != nil:
		return Number(*f.DecimalValue), true
	case f.StringValue != nil:
		return Text(*f.StringValue), true
	case f.ReferenceValue != nil:
		return Text(*f.ReferenceValue), true
	}
	return Null(), false
}

// Query reports whether any of terms matches any of the factor's string
// properties (factor type, reference value, unit reference, string value).
// Unset properties are skipped.
func (f *Factor) Query(terms []string) bool {
	props := make([]string, 0, 4)
	props = append(props, f.FactorType)
	for _, p := range []*string{f.ReferenceValue, f.UnitReference, f.StringValue} {
		if p != nil {
			props = append(props, *p)
		}
	}
	return MatchAny(terms, props...)
}

// canonical returns the deterministic string form used for provenance ids.
func (f *Factor) canonical() string {
	return fmt.Sprintf("Factor(factor_type=%q, decimal_value=%s, string_value=%s, reference_value=%s, unit_reference=%s, csv_column_index=%s)",
		f.FactorType, fmtFloatPtr(f.DecimalValue), fmtStrPtr(f.StringValue),
		fmtStrPtr(f.ReferenceValue), fmtStrPtr(f.UnitReference), fmtIntPtr(f.CSVColumnIndex))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
