package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/zatekoja/matchsafe/internal/domain/entities"
	"github.com/zatekoja/matchsafe/internal/domain/repositories"
	"github.com/zatekoja/matchsafe/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/matchsafe/pkg/errors"
)

type MatchEventAdapter struct {
	client *postgres.Client
}

func NewMatchEventAdapter(client *postgres.Client) repositories.MatchEventRepository {
	return &MatchEventAdapter{client: client}
}

func (a *MatchEventAdapter) LogEvent(ctx context.Context, event *entities.MatchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	exclusions, err := json.Marshal(event.Exclusions)
	if err != nil {
		return apperrors.NewInternalError("failed to encode exclusions", err)
	}

	query := `
		INSERT INTO match_analytics
		(id, event_type, requester_id, candidate_count, recommended_ids, exclusions, latency_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = a.client.DB().ExecContext(ctx, query,
		event.ID,
		string(event.EventType),
		event.RequesterID,
		event.CandidateCount,
		pq.Array(event.RecommendedIDs),
		exclusions,
		event.LatencyMs,
		event.CreatedAt,
	)

	if err != nil {
		return apperrors.NewInternalError("failed to log match event", err)
	}

	return nil
}

func (a *MatchEventAdapter) GetEmptyResultRequests(ctx context.Context, limit int) ([]*entities.MatchEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, event_type, requester_id, candidate_count, recommended_ids, exclusions, latency_ms, created_at
		FROM match_analytics
		WHERE cardinality(recommended_ids) = 0
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := a.client.DB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get empty result requests", err)
	}
	defer rows.Close()

	var events []*entities.MatchEvent
	for rows.Next() {
		e := &entities.MatchEvent{}
		var eventType string
		var recommended pq.StringArray
		var exclusions []byte

		err := rows.Scan(
			&e.ID,
			&eventType,
			&e.RequesterID,
			&e.CandidateCount,
			&recommended,
			&exclusions,
			&e.LatencyMs,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan match event", err)
		}

		e.EventType = entities.MatchEventType(eventType)
		e.RecommendedIDs = recommended
		if len(exclusions) > 0 {
			if err := json.Unmarshal(exclusions, &e.Exclusions); err != nil {
				return nil, apperrors.NewInternalError("failed to decode exclusions", err)
			}
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate match events", err)
	}

	return events, nil
}
