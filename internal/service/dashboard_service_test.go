package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
	appErrors "github.com/Gustavo-rs/gerenciamento-alocacao/pkg/errors"
)

type memoryCacheRepo struct {
	items   map[string][]byte
	deleted []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{items: make(map[string][]byte)}
}

func (r *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := r.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (r *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.items[key] = raw
	return nil
}

func (r *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	r.deleted = append(r.deleted, pattern)
	n := len(r.items)
	r.items = make(map[string][]byte)
	return n, nil
}

type dashboardRepoStub struct {
	calls int
}

func (s *dashboardRepoStub) Stats(ctx context.Context) (*models.DashboardStats, error) {
	s.calls++
	return &models.DashboardStats{TotalSalas: 4, SalasAtivas: 3, TotalTurmas: 9, TotalAlunos: 250}, nil
}

func TestDashboardServiceCachesStats(t *testing.T) {
	repo := &dashboardRepoStub{}
	cacheRepo := newMemoryCacheRepo()
	cache := NewCacheService(cacheRepo, NewMetricsService(), time.Minute, nil, true)
	svc := NewDashboardService(repo, cache, nil, DashboardServiceConfig{})
	ctx := context.Background()

	stats, hit, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 250, stats.TotalAlunos)
	assert.False(t, stats.GeneratedAt.IsZero())

	stats, hit, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 3, stats.SalasAtivas)
	assert.Equal(t, 1, repo.calls)

	svc.InvalidateStats(ctx)
	assert.Equal(t, []string{dashboardCachePattern}, cacheRepo.deleted)

	_, hit, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, repo.calls)
}

func TestDashboardServiceWithoutCache(t *testing.T) {
	repo := &dashboardRepoStub{}
	svc := NewDashboardService(repo, nil, nil, DashboardServiceConfig{})

	_, hit, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	svc.InvalidateStats(context.Background())

	_, _, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, nil, 0, nil, false)

	require.NoError(t, cache.Set(context.Background(), "k", 1, 0))
	var v int
	hit, err := cache.Get(context.Background(), "k", &v)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, repo.items)
}
