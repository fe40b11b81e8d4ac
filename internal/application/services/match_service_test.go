package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/matchsafe/internal/domain/entities"
	"github.com/zatekoja/matchsafe/internal/domain/repositories"
	"github.com/zatekoja/matchsafe/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/matchsafe/pkg/errors"
)

type stubProfileRepo struct {
	profiles map[string]*entities.Profile
}

func (r *stubProfileRepo) Create(ctx context.Context, p *entities.Profile) error { return nil }
func (r *stubProfileRepo) Update(ctx context.Context, p *entities.Profile) error { return nil }

func (r *stubProfileRepo) GetByID(ctx context.Context, id string) (*entities.Profile, error) {
	if p, ok := r.profiles[id]; ok {
		return p, nil
	}
	return nil, apperrors.NewNotFoundError("profile not found")
}

func (r *stubProfileRepo) GetByIDs(ctx context.Context, ids []string) ([]*entities.Profile, error) {
	out := make([]*entities.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProfileRepo) List(ctx context.Context, filter repositories.ProfileFilter) ([]*entities.Profile, error) {
	return nil, nil
}

type stubCandidateSource struct {
	pool   []*entities.Profile
	params repositories.CandidateParams
}

func (s *stubCandidateSource) Retrieve(ctx context.Context, params repositories.CandidateParams) ([]*entities.Profile, error) {
	s.params = params
	return s.pool, nil
}

func newTestMatchService(requester *entities.Profile, pool []*entities.Profile) (*MatchService, *stubCandidateSource) {
	repo := &stubProfileRepo{profiles: map[string]*entities.Profile{requester.ID: requester}}
	source := &stubCandidateSource{pool: pool}
	svc := NewMatchService(repo, source, NewSafeguardService(nil), NewDiversityService(), nil, nil, 10, 100)
	return svc, source
}

func TestRecommend_FullPipeline(t *testing.T) {
	requester := &entities.Profile{
		ID:    "u1",
		Flags: entities.FlagSet{"gambling": entities.BoolFlag(true)},
		Features: entities.Features{
			Interests: []string{"hiking"},
		},
	}
	pool := []*entities.Profile{
		flaggedProfile("risky", "gambling"),
		interestProfile("a", "hiking"),
		interestProfile("b", "chess"),
	}

	svc, source := newTestMatchService(requester, pool)

	result, err := svc.Recommend(context.Background(), "u1", MatchOptions{Limit: 5, IncludeAudit: true})

	require.NoError(t, err)
	assert.Equal(t, "u1", result.RequesterID)
	assert.Equal(t, []string{"a", "b"}, ids(result.Profiles))
	require.Len(t, result.Exclusions, 1)
	assert.Equal(t, "risky", result.Exclusions[0].CandidateID)

	// Retrieval is biased by the requester's interests and never includes them.
	assert.Equal(t, "u1", source.params.RequesterID)
	assert.Equal(t, []string{"hiking"}, source.params.Interests)
}

func TestRecommend_BoundsResultSize(t *testing.T) {
	requester := &entities.Profile{ID: "u1"}
	pool := []*entities.Profile{
		interestProfile("a", "hiking"),
		interestProfile("b", "chess"),
		interestProfile("c", "opera"),
		interestProfile("d", "sailing"),
	}

	svc, _ := newTestMatchService(requester, pool)

	result, err := svc.Recommend(context.Background(), "u1", MatchOptions{Limit: 2})

	require.NoError(t, err)
	assert.Len(t, result.Profiles, 2)
}

func TestRecommend_EmptyPoolYieldsEmptySet(t *testing.T) {
	requester := &entities.Profile{ID: "u1"}
	svc, _ := newTestMatchService(requester, nil)

	result, err := svc.Recommend(context.Background(), "u1", MatchOptions{})

	require.NoError(t, err)
	assert.Empty(t, result.Profiles)
}

func TestRecommend_NegativeLimitIsConfigurationError(t *testing.T) {
	requester := &entities.Profile{ID: "u1"}
	svc, _ := newTestMatchService(requester, nil)

	_, err := svc.Recommend(context.Background(), "u1", MatchOptions{Limit: -1})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConfiguration))
}

func TestRecommend_UnknownRequester(t *testing.T) {
	requester := &entities.Profile{ID: "u1"}
	svc, _ := newTestMatchService(requester, nil)

	_, err := svc.Recommend(context.Background(), "missing", MatchOptions{})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestRecommend_AuditOmittedByDefault(t *testing.T) {
	requester := &entities.Profile{
		ID:    "u1",
		Flags: entities.FlagSet{"suicidal": entities.BoolFlag(true)},
	}
	pool := []*entities.Profile{flaggedProfile("risky", "suicidal")}

	svc, _ := newTestMatchService(requester, pool)

	result, err := svc.Recommend(context.Background(), "u1", MatchOptions{})

	require.NoError(t, err)
	assert.Empty(t, result.Profiles)
	assert.Empty(t, result.Exclusions)
}

func TestRecommend_UsesRetrievalScoresForSeeding(t *testing.T) {
	requester := &entities.Profile{ID: "u1"}
	pool := []*entities.Profile{
		{ID: "low", Relevance: 0.2, Features: entities.Features{Interests: []string{"hiking"}}},
		{ID: "high", Relevance: 0.9, Features: entities.Features{Interests: []string{"chess"}}},
		{ID: "mid", Relevance: 0.4, Features: entities.Features{Interests: []string{"opera"}}},
	}

	svc, _ := newTestMatchService(requester, pool)

	result, err := svc.Recommend(context.Background(), "u1", MatchOptions{Limit: 2})

	require.NoError(t, err)
	assert.Equal(t, "high", result.Profiles[0].ID)
}

type recordingEventRepo struct {
	events chan *entities.MatchEvent
}

func (r *recordingEventRepo) LogEvent(ctx context.Context, event *entities.MatchEvent) error {
	r.events <- event
	return nil
}

func (r *recordingEventRepo) GetEmptyResultRequests(ctx context.Context, limit int) ([]*entities.MatchEvent, error) {
	return nil, nil
}

func TestRecommend_AllExcludedEmitsExcludedEvent(t *testing.T) {
	requester := flaggedProfile("u1", "gambling")
	pool := []*entities.Profile{flaggedProfile("c1", "gambling")}
	repo := &stubProfileRepo{profiles: map[string]*entities.Profile{"u1": requester}}
	source := &stubCandidateSource{pool: pool}
	events := &recordingEventRepo{events: make(chan *entities.MatchEvent, 1)}
	svc := NewMatchService(
		repo,
		source,
		NewSafeguardService(DefaultRiskRules(0.5)),
		NewDiversityService(),
		NewMatchAnalyticsService(events),
		nil,
		10,
		100,
	)

	result, err := svc.Recommend(context.Background(), "u1", MatchOptions{})

	require.NoError(t, err)
	assert.Empty(t, result.Profiles)

	select {
	case event := <-events.events:
		assert.Equal(t, entities.MatchEventTypeExcluded, event.EventType)
		assert.Equal(t, 1, event.CandidateCount)
		assert.Empty(t, event.RecommendedIDs)
	case <-time.After(time.Second):
		t.Fatal("match event was not logged")
	}
}

func TestRecommend_WithMetricsAttached(t *testing.T) {
	requester := &entities.Profile{ID: "u1"}
	pool := []*entities.Profile{interestProfile("a", "hiking")}
	svc, _ := newTestMatchService(requester, pool)

	metrics, err := observability.InitMetrics()
	require.NoError(t, err)
	svc.SetMetrics(metrics)

	result, err := svc.Recommend(context.Background(), "u1", MatchOptions{})

	require.NoError(t, err)
	assert.Len(t, result.Profiles, 1)
}
