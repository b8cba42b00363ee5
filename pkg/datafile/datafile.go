// Package datafile loads experiment datafiles: CSV files whose columns hold
// per-point measurements referenced by Factor csv_column_index.
package datafile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/chemmd-engine/pkg/apperrors"
)

// Columns maps a zero-based column index string ("0", "1", ...) to its values.
type Columns map[string][]float64

// RowCount returns the length of the longest column.
func (c Columns) RowCount() int {
	n := 0
	for _, col := range c {
		if len(col) > n {
			n = len(col)
		}
	}
	return n
}

// Column returns the column at index.
func (c Columns) Column(index int) ([]float64, bool) {
	col, ok := c[strconv.Itoa(index)]
	return col, ok
}

// ColumnLoader loads the columns of a datafile.
type ColumnLoader interface {
	Load(path string) (Columns, error)
}

// Loader reads CSV datafiles relative to a base directory.
type Loader struct {
	basePath string
	logger   *zap.Logger
}

var _ ColumnLoader = (*Loader)(nil)

// NewLoader creates a loader rooted at basePath. An empty basePath resolves
// paths against the working directory.
func NewLoader(basePath string, logger *zap.Logger) *Loader {
	return &Loader{
		basePath: basePath,
		logger:   logger.Named("datafile"),
	}
}

// BasePath returns the directory datafile paths are resolved against.
func (l *Loader) BasePath() string {
	return l.basePath
}

// Load reads the datafile at path. The header row is skipped and every
// remaining cell must parse as a float.
func (l *Loader) Load(path string) (Columns, error) {
	full, err := l.resolve(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, apperrors.NewCSVAccessError(path, "failed to open datafile", err)
	}
	defer f.Close()

	cols, err := Parse(f)
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr.WithPath(path)
		}
		return nil, apperrors.NewCSVAccessError(path, "failed to read datafile", err)
	}

	l.logger.Debug("Loaded datafile",
		zap.String("path", path),
		zap.Int("columns", len(cols)),
		zap.Int("rows", cols.RowCount()))
	return cols, nil
}

// resolve joins path onto the base directory and rejects paths that leave it.
func (l *Loader) resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", apperrors.NewCSVAccessError(path, "datafile path is empty", nil)
	}
	if l.basePath == "" {
		return filepath.Clean(path), nil
	}
	full := filepath.Join(l.basePath, path)
	rel, err := filepath.Rel(l.basePath, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", apperrors.NewCSVAccessError(path, "datafile path escapes the data directory", err)
	}
	return full, nil
}

// Parse reads CSV content from r. The first record is treated as a header
// and only determines the column count. Every cell after it must be a finite
// number, and at least one data row is required.
func Parse(r io.Reader) (Columns, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewCSVAccessError("", "datafile has no header row", nil)
	}
	if err != nil {
		return nil, apperrors.NewCSVAccessError("", "malformed datafile", err)
	}

	cols := make(Columns, len(header))
	keys := make([]string, len(header))
	for i := range header {
		keys[i] = strconv.Itoa(i)
		cols[keys[i]] = []float64{}
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewCSVAccessError("", "malformed datafile", err)
		}
		for i, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, apperrors.NewCSVAccessError("",
					fmt.Sprintf("non-numeric value %q at line %d, column %s", cell, line, keys[i]), err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, apperrors.NewCSVAccessError("",
					fmt.Sprintf("non-finite value %q at line %d, column %s", cell, line, keys[i]), nil)
			}
			cols[keys[i]] = append(cols[keys[i]], v)
		}
	}
	if cols.RowCount() == 0 {
		return nil, apperrors.NewCSVAccessError("", "datafile has no data rows", nil)
	}
	return cols, nil
}
