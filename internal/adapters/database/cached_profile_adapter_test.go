package database

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/matchsafe/internal/domain/entities"
	"github.com/zatekoja/matchsafe/internal/domain/repositories"
	"github.com/zatekoja/matchsafe/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/matchsafe/pkg/errors"
)

type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, apperrors.NewNotFoundError("cache miss")
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.data[key]
	return ok, nil
}

type countingProfileRepo struct {
	profile *entities.Profile
	getByID int
}

func (r *countingProfileRepo) Create(ctx context.Context, p *entities.Profile) error { return nil }
func (r *countingProfileRepo) Update(ctx context.Context, p *entities.Profile) error { return nil }

func (r *countingProfileRepo) GetByID(ctx context.Context, id string) (*entities.Profile, error) {
	r.getByID++
	if r.profile != nil && r.profile.ID == id {
		return r.profile, nil
	}
	return nil, apperrors.NewNotFoundError("profile not found")
}

func (r *countingProfileRepo) GetByIDs(ctx context.Context, ids []string) ([]*entities.Profile, error) {
	return nil, nil
}

func (r *countingProfileRepo) List(ctx context.Context, filter repositories.ProfileFilter) ([]*entities.Profile, error) {
	return nil, nil
}

func TestCachedGetByID_HitSkipsStore(t *testing.T) {
	cache := newFakeCache()
	data, err := json.Marshal(&entities.Profile{ID: "u1"})
	require.NoError(t, err)
	cache.data[profileCacheKey("u1")] = data

	store := &countingProfileRepo{}
	metrics, err := observability.InitMetrics()
	require.NoError(t, err)
	adapter := NewCachedProfileAdapter(store, cache, metrics)

	profile, err := adapter.GetByID(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "u1", profile.ID)
	assert.Zero(t, store.getByID, "cache hit must not reach the store")
}

func TestCachedGetByID_MissFetchesAndCaches(t *testing.T) {
	cache := newFakeCache()
	store := &countingProfileRepo{profile: &entities.Profile{ID: "u1"}}
	adapter := NewCachedProfileAdapter(store, cache, nil)

	profile, err := adapter.GetByID(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "u1", profile.ID)
	assert.Equal(t, 1, store.getByID)

	// The cache write is asynchronous.
	assert.Eventually(t, func() bool {
		ok, _ := cache.Exists(context.Background(), profileCacheKey("u1"))
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestCachedUpdate_InvalidatesEntry(t *testing.T) {
	cache := newFakeCache()
	data, err := json.Marshal(&entities.Profile{ID: "u1"})
	require.NoError(t, err)
	cache.data[profileCacheKey("u1")] = data

	store := &countingProfileRepo{profile: &entities.Profile{ID: "u1"}}
	adapter := NewCachedProfileAdapter(store, cache, nil)

	require.NoError(t, adapter.Update(context.Background(), &entities.Profile{ID: "u1"}))

	ok, err := cache.Exists(context.Background(), profileCacheKey("u1"))
	require.NoError(t, err)
	assert.False(t, ok)
}
