package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ParseRows extracts the comma-separated row numbers from the rows query
// parameter. Returns the rows and true on success, or nil and false on error
// (after writing an error response).
// Expects query parameter: rows
func ParseRows(w http.ResponseWriter, r *http.Request, logger *zap.Logger) ([]int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("rows"))
	if raw == "" {
		writeParamError(w, "missing_rows", "rows parameter is required", logger)
		return nil, false
	}

	parts := strings.Split(raw, ",")
	rows := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		row, err := strconv.Atoi(p)
		if err != nil || row < 0 {
			writeParamError(w, "invalid_rows", "rows must be non-negative integers", logger)
			return nil, false
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		writeParamError(w, "missing_rows", "rows parameter is required", logger)
		return nil, false
	}
	return rows, true
}

// ParseFormat returns the requested output format: the format query
// parameter if it is one of allowed, or allowed[0] when absent.
func ParseFormat(w http.ResponseWriter, r *http.Request, logger *zap.Logger, allowed ...string) (string, bool) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		return allowed[0], true
	}
	for _, a := range allowed {
		if format == a {
			return format, true
		}
	}
	writeParamError(w, "invalid_format", "format must be one of "+strings.Join(allowed, ", "), logger)
	return "", false
}

func writeParamError(w http.ResponseWriter, errorCode, errorMessage string, logger *zap.Logger) {
	if err := ErrorResponse(w, http.StatusBadRequest, errorCode, errorMessage); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}
