package services

import (
	"encoding/csv"
	"encoding/json"
	"io"
)

// WriteCSV writes the data table as CSV with a header row. Null cells are empty.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for row := 0; row < t.Rows; row++ {
		for i, c := range t.Columns {
			record[i] = t.Data[c][row].String()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportDocument is the JSON form of an export.
type ExportDocument struct {
	Data       *Table          `json:"data"`
	Metadata   *MetadataTable  `json:"metadata"`
	Entities   []EntitySummary `json:"entities"`
	Categories *Categories     `json:"categories,omitempty"`
}

// Document returns the JSON form of the result.
func (r *ExportResult) Document(categories *Categories) *ExportDocument {
	return &ExportDocument{
		Data:       r.Data,
		Metadata:   r.Metadata,
		Entities:   r.Summaries(),
		Categories: categories,
	}
}

// WriteJSON writes the export document as indented JSON.
func WriteJSON(w io.Writer, doc *ExportDocument) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
