package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/zatekoja/matchsafe/internal/domain/entities"
	"github.com/zatekoja/matchsafe/internal/domain/repositories"
)

// ProfileIndexer pushes a profile's searchable facets into the recall index.
type ProfileIndexer interface {
	Index(ctx context.Context, profile *entities.Profile) error
}

// ProfileHandler serves profile reads and upserts.
type ProfileHandler struct {
	repo    repositories.ProfileRepository
	indexer ProfileIndexer
}

// NewProfileHandler creates a new profile handler. indexer may be nil when
// search is not wired.
func NewProfileHandler(repo repositories.ProfileRepository, indexer ProfileIndexer) *ProfileHandler {
	return &ProfileHandler{repo: repo, indexer: indexer}
}

// GetProfile handles GET /api/profiles/{id}
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "profile id is required")
		return
	}

	profile, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// CreateProfile handles POST /api/profiles
func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var profile entities.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if profile.ID == "" {
		respondWithError(w, http.StatusBadRequest, "profile id is required")
		return
	}
	for name, value := range profile.Flags {
		if name == "" {
			respondWithError(w, http.StatusBadRequest, "flag names must not be empty")
			return
		}
		if value.Severity < 0 || value.Severity > 1 {
			respondWithError(w, http.StatusBadRequest, "flag severity must be within [0, 1]")
			return
		}
	}

	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	if err := h.repo.Create(r.Context(), &profile); err != nil {
		respondWithAppError(w, err)
		return
	}

	if h.indexer != nil && profile.IsActive {
		if err := h.indexer.Index(r.Context(), &profile); err != nil {
			// The store is authoritative; a stale index heals on reindex.
			respondWithJSON(w, http.StatusCreated, map[string]string{
				"id":     profile.ID,
				"status": "created_pending_index",
			})
			return
		}
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{
		"id":     profile.ID,
		"status": "created",
	})
}
