package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/chemmd-engine/pkg/config"
	"github.com/ekaya-inc/chemmd-engine/pkg/middleware"
	"github.com/ekaya-inc/chemmd-engine/pkg/services"
)

// ExportResponse is the JSON body of GET /api/export.
type ExportResponse struct {
	Dataset string `json:"dataset"`
	*services.ExportDocument
}

// DetailsResponse is the JSON body of GET /api/export/details.
type DetailsResponse struct {
	Dataset string `json:"dataset"`
	*services.RowDetails
}

// ExportHandler serves dataset exports and row details.
type ExportHandler struct {
	datasets services.DatasetService
	sessions *SessionStore
	cfg      *config.Config
	logger   *zap.Logger
}

// NewExportHandler creates a new ExportHandler. sessions may be nil, in
// which case every request must name its dataset.
func NewExportHandler(datasets services.DatasetService, sessions *SessionStore, cfg *config.Config, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		datasets: datasets,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
	}
}

// RegisterRoutes registers the export routes on the given mux.
func (h *ExportHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /api/export", middleware.Metrics("/api/export")(http.HandlerFunc(h.Export)))
	mux.Handle("GET /api/export/details", middleware.Metrics("/api/export/details")(http.HandlerFunc(h.Details)))
}

// Export handles GET /api/export?dataset=<name>&format=json|csv.
// JSON responses carry the data table, the provenance table, the entity
// list and the column categories; CSV responses carry the data table only.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, ok := ParseFormat(w, r, h.logger, "json", "csv")
	if !ok {
		return
	}
	name, ok := h.dataset(w, r)
	if !ok {
		return
	}

	export, err := h.datasets.Export(r.Context(), name)
	if err != nil {
		WriteAppError(w, err, h.cfg.BasePath, h.logger)
		return
	}
	h.remember(w, r, name)

	if format == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+exportFileName(name)+`.csv"`)
		if err := services.WriteCSV(w, export.Result.Data); err != nil {
			h.logger.Error("Failed to write csv export", zap.Error(err))
		}
		return
	}

	response := ExportResponse{
		Dataset:        name,
		ExportDocument: export.Result.Document(export.Categories),
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode export response", zap.Error(err))
	}
}

// Details handles GET /api/export/details?dataset=<name>&rows=0,3&format=json|markdown.
// The dataset may be omitted when the session remembers one.
func (h *ExportHandler) Details(w http.ResponseWriter, r *http.Request) {
	format, ok := ParseFormat(w, r, h.logger, "json", "markdown")
	if !ok {
		return
	}
	rows, ok := ParseRows(w, r, h.logger)
	if !ok {
		return
	}
	name, ok := h.dataset(w, r)
	if !ok {
		return
	}

	export, err := h.datasets.Export(r.Context(), name)
	if err != nil {
		WriteAppError(w, err, h.cfg.BasePath, h.logger)
		return
	}
	details, err := services.DescribeRows(export.Result, rows)
	if err != nil {
		WriteAppError(w, err, h.cfg.BasePath, h.logger)
		return
	}
	h.remember(w, r, name)

	if format == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(details.Markdown))
		return
	}

	if err := WriteJSON(w, http.StatusOK, DetailsResponse{Dataset: name, RowDetails: details}); err != nil {
		h.logger.Error("Failed to encode details response", zap.Error(err))
	}
}

// dataset returns the dataset named by the request, falling back to the
// session. Writes a 400 response when neither names one.
func (h *ExportHandler) dataset(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := strings.TrimSpace(r.URL.Query().Get(h.cfg.DatasetQueryParam))
	if name == "" && h.sessions != nil {
		name = h.sessions.Dataset(r)
	}
	if name == "" {
		writeParamError(w, "missing_dataset", h.cfg.DatasetQueryParam+" parameter is required", h.logger)
		return "", false
	}
	return name, true
}

func (h *ExportHandler) remember(w http.ResponseWriter, r *http.Request, name string) {
	if h.sessions == nil {
		return
	}
	if err := h.sessions.RememberDataset(w, r, name); err != nil {
		h.logger.Warn("Failed to save session", zap.Error(err))
	}
}

// exportFileName turns a dataset name into a safe download file name.
func exportFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
