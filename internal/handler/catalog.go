package handler

import (
	"log/slog"
	"net/http"

	"github.com/bazzingacoder/webaide-server/internal/service"
)

// CatalogHandler serves the current dataset through the API.
type CatalogHandler struct {
	catalog *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// HandleList returns the dataset as currently stored on trunk.
//
// HTTP: GET /api/resources
//
// Every request reads through to the hosting API; at catalog scale a cache
// is not worth the staleness questions it raises.
func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.Error("failed to fetch catalog", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}
