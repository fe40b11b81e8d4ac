package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/matchsafe/internal/domain/entities"
	"github.com/zatekoja/matchsafe/internal/domain/providers"
	"github.com/zatekoja/matchsafe/internal/domain/repositories"
	"github.com/zatekoja/matchsafe/internal/infrastructure/observability"
)

// CachedProfileAdapter wraps a ProfileRepository with read-through caching.
// Writes invalidate the cached entry.
type CachedProfileAdapter struct {
	adapter repositories.ProfileRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedProfileAdapter creates a new cached profile adapter. metrics may
// be nil when observability is not wired.
func NewCachedProfileAdapter(adapter repositories.ProfileRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.ProfileRepository {
	return &CachedProfileAdapter{
		adapter: adapter,
		cache:   cache,
		metrics: metrics,
	}
}

// Cache TTL (in seconds); profiles change rarely within a session.
const profileByIDTTL = 300

func profileCacheKey(id string) string {
	return fmt.Sprintf("profile:%s", id)
}

// Create creates a profile, bypassing the cache
func (a *CachedProfileAdapter) Create(ctx context.Context, profile *entities.Profile) error {
	return a.adapter.Create(ctx, profile)
}

// GetByID retrieves a profile by ID with caching
func (a *CachedProfileAdapter) GetByID(ctx context.Context, id string) (*entities.Profile, error) {
	cacheKey := profileCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var profile entities.Profile
		if err := json.Unmarshal(cached, &profile); err == nil {
			if a.metrics != nil {
				observability.RecordCacheHit(ctx, a.metrics, cacheKey)
			}
			return &profile, nil
		}
		log.Warn().Str("profile_id", id).Msg("failed to unmarshal cached profile, refetching")
	}

	if a.metrics != nil {
		observability.RecordCacheMiss(ctx, a.metrics, cacheKey)
	}

	profile, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(profile); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, profileByIDTTL); err != nil {
				log.Warn().Err(err).Str("profile_id", id).Msg("failed to cache profile")
			}
		}
	}()

	return profile, nil
}

// GetByIDs retrieves multiple profiles, delegating straight to the store.
// Candidate pools are large and short-lived; caching them buys little.
func (a *CachedProfileAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Profile, error) {
	return a.adapter.GetByIDs(ctx, ids)
}

// Update updates a profile and invalidates its cached entry
func (a *CachedProfileAdapter) Update(ctx context.Context, profile *entities.Profile) error {
	if err := a.adapter.Update(ctx, profile); err != nil {
		return err
	}

	if err := a.cache.Delete(ctx, profileCacheKey(profile.ID)); err != nil {
		log.Warn().Err(err).Str("profile_id", profile.ID).Msg("failed to invalidate cached profile")
	}
	return nil
}

// List lists profiles, bypassing the cache
func (a *CachedProfileAdapter) List(ctx context.Context, filter repositories.ProfileFilter) ([]*entities.Profile, error) {
	return a.adapter.List(ctx, filter)
}
