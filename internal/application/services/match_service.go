package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/matchsafe/internal/domain/entities"
	"github.com/zatekoja/matchsafe/internal/domain/repositories"
	"github.com/zatekoja/matchsafe/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/matchsafe/pkg/errors"
)

// MatchService runs the matching pipeline for one request:
// candidate retrieval -> safeguard filter -> diversity selection.
// Each call is a single stateless pass; nothing is cached between requests.
type MatchService struct {
	profiles   repositories.ProfileRepository
	candidates repositories.CandidateSource
	safeguard  *SafeguardService
	diversity  *DiversityService
	analytics  *MatchAnalyticsService
	flags      *FeatureFlags
	metrics    *observability.Metrics

	defaultLimit int
	poolSize     int
}

// NewMatchService creates a new match service. analytics may be nil when
// event logging is not wired.
func NewMatchService(
	profiles repositories.ProfileRepository,
	candidates repositories.CandidateSource,
	safeguard *SafeguardService,
	diversity *DiversityService,
	analytics *MatchAnalyticsService,
	flags *FeatureFlags,
	defaultLimit int,
	poolSize int,
) *MatchService {
	return &MatchService{
		profiles:     profiles,
		candidates:   candidates,
		safeguard:    safeguard,
		diversity:    diversity,
		analytics:    analytics,
		flags:        flags,
		defaultLimit: defaultLimit,
		poolSize:     poolSize,
	}
}

// SetMetrics attaches pipeline instrumentation. May be left unset when
// observability is not wired.
func (s *MatchService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// MatchOptions customizes one recommendation request.
type MatchOptions struct {
	// Limit caps the recommendation list; 0 falls back to the configured
	// default. Negative values are a configuration error.
	Limit int
	// IncludeAudit attaches exclusion records to the result.
	IncludeAudit bool
}

// Recommend produces a recommendation set for the requester. The returned
// set may be empty; an empty candidate pool is not an error.
func (s *MatchService) Recommend(ctx context.Context, requesterID string, opts MatchOptions) (*entities.RecommendationSet, error) {
	ctx, span := observability.StartSpan(ctx, "match.recommend")
	defer span.End()

	limit := opts.Limit
	if limit == 0 {
		limit = s.defaultLimit
	}
	if limit <= 0 {
		return nil, apperrors.NewConfigurationError("recommendation limit must be positive")
	}

	start := time.Now()

	requester, err := s.profiles.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	pool, err := s.candidates.Retrieve(ctx, repositories.CandidateParams{
		RequesterID: requester.ID,
		Interests:   requester.Features.Interests,
		Limit:       s.poolSize,
	})
	if err != nil {
		return nil, apperrors.NewExternalError("candidate retrieval failed", err)
	}

	safe, exclusions, err := s.safeguard.FilterSafe(requester, pool)
	if err != nil {
		return nil, err
	}

	selectOpts := []SelectOption{}
	if scored(safe) {
		selectOpts = append(selectOpts, WithRelevance(func(p *entities.Profile) float64 {
			return p.Relevance
		}))
	}

	recommended, err := s.diversity.SelectDiverse(safe, limit, selectOpts...)
	if err != nil {
		return nil, err
	}

	if s.flags != nil && s.flags.DiversityShadowMode() {
		// Shadow mode: serve the undiversified head of the safe list and
		// only log what the selector would have returned.
		s.logShadowSelection(requester.ID, safe, recommended, limit)
		recommended = head(safe, limit)
	}

	result := &entities.RecommendationSet{
		RequesterID: requester.ID,
		Profiles:    recommended,
	}
	if opts.IncludeAudit {
		result.Exclusions = exclusions
	}

	if s.metrics != nil {
		observability.RecordPipelineMetric(ctx, s.metrics, len(exclusions), time.Since(start))
	}

	if s.analytics != nil {
		eventType := entities.MatchEventTypeRecommended
		if len(recommended) == 0 && len(exclusions) > 0 {
			eventType = entities.MatchEventTypeExcluded
		}
		event := entities.NewMatchEvent(eventType, requester.ID)
		event.CandidateCount = len(pool)
		event.RecommendedIDs = profileIDs(recommended)
		event.Exclusions = exclusions
		event.LatencyMs = int(time.Since(start).Milliseconds())
		s.analytics.TrackMatch(ctx, event)
	}

	return result, nil
}

func (s *MatchService) logShadowSelection(requesterID string, safe, diversified []*entities.Profile, limit int) {
	log.Info().
		Str("requester_id", requesterID).
		Strs("served_ids", profileIDs(head(safe, limit))).
		Strs("diversified_ids", profileIDs(diversified)).
		Msg("diversity shadow mode comparison")
}

// scored reports whether retrieval attached relevance scores to the pool.
func scored(profiles []*entities.Profile) bool {
	for _, p := range profiles {
		if p.Relevance != 0 {
			return true
		}
	}
	return false
}

func head(profiles []*entities.Profile, limit int) []*entities.Profile {
	if len(profiles) > limit {
		return profiles[:limit]
	}
	return profiles
}

func profileIDs(profiles []*entities.Profile) []string {
	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}
	return ids
}
