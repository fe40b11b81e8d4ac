package handlers

import (
	"net/http"
	"strconv"

	"github.com/zatekoja/matchsafe/internal/domain/repositories"
	"github.com/zatekoja/matchsafe/internal/infrastructure/observability"
)

// AnalyticsHandler serves match analytics queries.
type AnalyticsHandler struct {
	events repositories.MatchEventRepository
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(events repositories.MatchEventRepository) *AnalyticsHandler {
	return &AnalyticsHandler{events: events}
}

// GetEmptyResultRequests handles GET /api/analytics/empty-result-requests.
// These are requests where the pipeline produced no recommendations, which
// usually means the candidate pool or safety rules need attention.
func (h *AnalyticsHandler) GetEmptyResultRequests(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	events, err := h.events.GetEmptyResultRequests(r.Context(), limit)
	if err != nil {
		logger := observability.LoggerFromContext(r.Context())
		logger.Error().Err(err).Msg("failed to load empty-result requests")
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(events),
		"events": events,
	})
}
