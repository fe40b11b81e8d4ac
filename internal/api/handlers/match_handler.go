package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/zatekoja/matchsafe/internal/application/services"
	"github.com/zatekoja/matchsafe/internal/domain/entities"
	"github.com/zatekoja/matchsafe/internal/infrastructure/observability"
)

// Recommender defines the matching operations used by the handler.
type Recommender interface {
	Recommend(ctx context.Context, requesterID string, opts services.MatchOptions) (*entities.RecommendationSet, error)
}

// MatchHandler serves recommendation requests.
type MatchHandler struct {
	service Recommender
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(service Recommender) *MatchHandler {
	return &MatchHandler{service: service}
}

// GetMatches handles GET /api/users/{id}/matches
func (h *MatchHandler) GetMatches(w http.ResponseWriter, r *http.Request) {
	requesterID := r.PathValue("id")
	if requesterID == "" {
		respondWithError(w, http.StatusBadRequest, "user id is required")
		return
	}

	opts := services.MatchOptions{}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		opts.Limit = limit
	}

	opts.IncludeAudit = r.URL.Query().Get("debug") == "true"

	result, err := h.service.Recommend(r.Context(), requesterID, opts)
	if err != nil {
		logger := observability.LoggerFromContext(r.Context())
		logger.Error().Err(err).Str("requester_id", requesterID).Msg("recommendation request failed")
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
