package stats

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Handler provides the /api/stats endpoint.
type Handler struct {
	agg    *Aggregator
	logger *zap.Logger
}

// NewHandler creates a stats Handler.
func NewHandler(agg *Aggregator, logger *zap.Logger) *Handler {
	return &Handler{agg: agg, logger: logger}
}

// RegisterRoutes registers the stats route on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/stats", h.handleStats)
}

// handleStats returns the merged inventory statistics.
//
//	@Summary		Inventory statistics
//	@Description	Returns total count, total inventory value, per-genre counts, and the most recent books.
//	@Tags			stats
//	@Produce		json
//	@Success		200 {object} Stats
//	@Failure		500 {object} map[string]string
//	@Router			/stats [get]
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	s, err := h.agg.Collect(r.Context())
	if err != nil {
		h.logger.Warn("failed to collect stats", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to compute statistics."})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(s)
}
