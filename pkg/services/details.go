package services

import (
	"strings"

	"github.com/ekaya-inc/chemmd-engine/pkg/apperrors"
)

// EntityDetail is the rendered description of one entity.
type EntityDetail struct {
	EntitySummary
	Markdown string `json:"markdown"`
}

// RowDetails describes the entities behind a selection of rows.
type RowDetails struct {
	Rows     []int          `json:"rows"`
	Entities []EntityDetail `json:"entities"`
	Markdown string         `json:"markdown"`
}

// DescribeRows renders every distinct entity referenced by the selected
// rows, in row order. Row numbers outside the table are a parse error.
func DescribeRows(result *ExportResult, rows []int) (*RowDetails, error) {
	details := &RowDetails{Rows: rows, Entities: []EntityDetail{}}
	seen := make(map[string]bool)

	for _, row := range rows {
		if row < 0 || row >= result.Metadata.Rows {
			return nil, apperrors.NewParseError("row %d is outside the table (%d rows)", row, result.Metadata.Rows)
		}
		for _, id := range result.Metadata.RowIDs(row) {
			if seen[id] {
				continue
			}
			seen[id] = true
			n, ok := result.Entities[id]
			if !ok {
				continue
			}
			details.Entities = append(details.Entities, EntityDetail{
				EntitySummary: EntitySummary{ID: id, Kind: n.NodalKind(), Name: n.DisplayName()},
				Markdown:      n.Markdown(),
			})
		}
	}

	parts := make([]string, len(details.Entities))
	for i, e := range details.Entities {
		parts[i] = e.Markdown
	}
	details.Markdown = strings.Join(parts, "\n---\n\n")
	return details, nil
}
