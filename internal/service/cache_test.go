package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/pastry-scaler/backend/internal/metrics"
	"github.com/pageza/pastry-scaler/backend/internal/testhelpers"
	"github.com/pageza/pastry-scaler/backend/internal/types"
)

func TestNewSuggestionCacheWithoutRedis(t *testing.T) {
	cache := NewSuggestionCache(nil, time.Minute, nil, zap.NewNop())
	assert.IsType(t, NoopSuggestionCache{}, cache)

	ctx := context.Background()
	_, version, _ := cache.Get(ctx, 4)
	cache.Set(ctx, version, 4, []types.PanSuggestion{{PanName: "cercle"}})
	_, _, ok := cache.Get(ctx, 4)
	assert.False(t, ok)
}

func TestRedisSuggestionCache(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	m := metrics.New()
	cache := NewSuggestionCache(client, time.Minute, m, zap.NewNop())
	ctx := context.Background()

	_, version, ok := cache.Get(ctx, 8)
	assert.False(t, ok)

	want := []types.PanSuggestion{{
		ID:                        uuid.New(),
		PanName:                   "cercle 20",
		VolumeCM3Cache:            1570.8,
		EstimatedServingsStandard: 10,
		EstimatedServingsMin:      9,
		EstimatedServingsMax:      11,
		MatchType:                 "close",
	}}
	cache.Set(ctx, version, 8, want)

	got, _, ok := cache.Get(ctx, 8)
	require.True(t, ok)
	assert.Equal(t, want, got)

	cache.Invalidate(ctx)
	_, _, ok = cache.Get(ctx, 8)
	assert.False(t, ok)

	reg := m.Registry()
	count, err := testutil.GatherAndCount(reg, "pastry_suggestion_cache_lookups_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRedisSuggestionCacheDropsListsFromOlderVersion(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	cache := NewSuggestionCache(client, time.Minute, nil, zap.NewNop())
	ctx := context.Background()

	_, version, ok := cache.Get(ctx, 6)
	require.False(t, ok)

	// A pan write lands after the list was built.
	cache.Invalidate(ctx)
	cache.Set(ctx, version, 6, []types.PanSuggestion{{PanName: "cercle 18"}})

	_, _, ok = cache.Get(ctx, 6)
	assert.False(t, ok)
}

func TestRedisSuggestionCacheSkipsUnknownVersion(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	cache := NewSuggestionCache(client, time.Minute, nil, zap.NewNop())
	ctx := context.Background()

	cache.Set(ctx, -1, 6, []types.PanSuggestion{{PanName: "cercle 18"}})
	n, err := client.Exists(ctx, "pastry:suggestions:v-1:6").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}
