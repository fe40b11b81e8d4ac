package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/matchsafe/internal/domain/entities"
	"github.com/zatekoja/matchsafe/internal/domain/providers"
	"github.com/zatekoja/matchsafe/internal/domain/repositories"
)

// MatchAnalyticsService records match events without blocking the request.
type MatchAnalyticsService struct {
	repo repositories.MatchEventRepository
	bus  providers.EventBus
}

func NewMatchAnalyticsService(repo repositories.MatchEventRepository) *MatchAnalyticsService {
	return &MatchAnalyticsService{repo: repo}
}

// SetEventBus enables real-time event publishing for subscribers.
func (s *MatchAnalyticsService) SetEventBus(bus providers.EventBus) {
	s.bus = bus
}

// TrackMatch logs the event in the background.
func (s *MatchAnalyticsService) TrackMatch(ctx context.Context, event *entities.MatchEvent) {
	go func() {
		// Fresh context: the request context may already be cancelled.
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.repo.LogEvent(bgCtx, event); err != nil {
			log.Warn().Err(err).Str("requester_id", event.RequesterID).Msg("failed to log match event")
		}

		if s.bus != nil {
			if err := s.bus.Publish(bgCtx, providers.EventChannelMatchUpdates, event); err != nil {
				log.Warn().Err(err).Str("requester_id", event.RequesterID).Msg("failed to publish match event")
			}
			channel := providers.GetRequesterChannel(event.RequesterID)
			if err := s.bus.Publish(bgCtx, channel, event); err != nil {
				log.Warn().Err(err).Str("requester_id", event.RequesterID).Msg("failed to publish requester match event")
			}
		}
	}()
}

// GetEmptyResultRequests returns recent requests that produced no
// recommendations, for recall tuning.
func (s *MatchAnalyticsService) GetEmptyResultRequests(ctx context.Context, limit int) ([]*entities.MatchEvent, error) {
	return s.repo.GetEmptyResultRequests(ctx, limit)
}
