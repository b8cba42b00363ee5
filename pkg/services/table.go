package services

import (
	"github.com/ekaya-inc/chemmd-engine/pkg/apperrors"
	"github.com/ekaya-inc/chemmd-engine/pkg/models"
)

// Frame is the table produced for one experiment: a data column and a
// metadata column per matched group.
type Frame struct {
	Columns  []string
	Data     map[string][]models.Value
	Metadata map[string][]models.ProvenanceKey
}

// NewFrame returns an empty frame.
func NewFrame() *Frame {
	return &Frame{
		Data:     make(map[string][]models.Value),
		Metadata: make(map[string][]models.ProvenanceKey),
	}
}

// Add stores a column pair. Re-adding a column replaces it in place.
func (f *Frame) Add(column string, data []models.Value, metadata []models.ProvenanceKey) {
	if _, ok := f.Data[column]; !ok {
		f.Columns = append(f.Columns, column)
	}
	f.Data[column] = data
	f.Metadata[column] = metadata
}

// Rows returns the length of the longest column.
func (f *Frame) Rows() int {
	n := 0
	for _, c := range f.Columns {
		if len(f.Data[c]) > n {
			n = len(f.Data[c])
		}
	}
	return n
}

// Broadcast repeats length-1 columns to the frame's row count. Columns of
// any other length must already have it.
func (f *Frame) Broadcast() error {
	n := f.Rows()
	for _, c := range f.Columns {
		data := f.Data[c]
		switch {
		case len(data) == n:
		case len(data) == 1:
			f.Data[c] = models.Repeat(data[0], n)
			f.Metadata[c] = repeatKey(f.Metadata[c][0], n)
		default:
			return apperrors.NewResolutionError("column %q has %d rows but the table has %d", c, len(data), n)
		}
	}
	return nil
}

// Table is the data half of an export: named columns of equal length.
type Table struct {
	Columns []string                  `json:"columns"`
	Rows    int                       `json:"rows"`
	Data    map[string][]models.Value `json:"data"`
}

// Column returns the values of a column.
func (t *Table) Column(name string) ([]models.Value, bool) {
	col, ok := t.Data[name]
	return col, ok
}

// AddColumn appends or replaces a column. The series must have Rows entries.
func (t *Table) AddColumn(name string, values []models.Value) error {
	if len(values) != t.Rows {
		return apperrors.NewResolutionError("column %q has %d rows but the table has %d", name, len(values), t.Rows)
	}
	if _, ok := t.Data[name]; !ok {
		t.Columns = append(t.Columns, name)
	}
	t.Data[name] = values
	return nil
}

// MetadataTable is the provenance half of an export, aligned row for row
// with Table.
type MetadataTable struct {
	Columns []string                          `json:"columns"`
	Rows    int                               `json:"rows"`
	Data    map[string][]models.ProvenanceKey `json:"data"`
}

// RowIDs returns the distinct provenance ids referenced by a row, in column
// order and then experiment, sample, source order.
func (m *MetadataTable) RowIDs(row int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range m.Columns {
		col := m.Data[c]
		if row < 0 || row >= len(col) {
			continue
		}
		for _, id := range col[row].IDs() {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// Concat stacks frames row-wise. Columns are the union of all frame columns
// in first-seen order; cells a frame does not have are null. Row numbers
// restart at zero.
func Concat(frames []*Frame) (*Table, *MetadataTable) {
	data := &Table{Data: make(map[string][]models.Value)}
	meta := &MetadataTable{Data: make(map[string][]models.ProvenanceKey)}

	for _, f := range frames {
		for _, c := range f.Columns {
			if _, ok := data.Data[c]; !ok {
				data.Columns = append(data.Columns, c)
				data.Data[c] = nil
			}
		}
	}
	meta.Columns = append([]string(nil), data.Columns...)

	for _, f := range frames {
		n := f.Rows()
		for _, c := range data.Columns {
			if col, ok := f.Data[c]; ok {
				data.Data[c] = append(data.Data[c], col...)
				meta.Data[c] = append(meta.Data[c], f.Metadata[c]...)
				continue
			}
			data.Data[c] = append(data.Data[c], models.Repeat(models.Null(), n)...)
			meta.Data[c] = append(meta.Data[c], make([]models.ProvenanceKey, n)...)
		}
		data.Rows += n
	}
	meta.Rows = data.Rows

	for _, c := range data.Columns {
		if data.Data[c] == nil {
			data.Data[c] = []models.Value{}
			meta.Data[c] = []models.ProvenanceKey{}
		}
	}
	return data, meta
}
