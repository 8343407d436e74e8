package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/pastry-scaler/backend/internal/metrics"
	"github.com/pageza/pastry-scaler/backend/internal/types"
)

const (
	panVersionKey     = "pastry:pans:version"
	suggestionKeyTmpl = "pastry:suggestions:v%d:%d"
)

// SuggestionCache stores pan suggestion lists per target serving count.
// Implementations never fail the caller: a broken cache is a miss.
type SuggestionCache interface {
	// Get also returns the catalogue version the lookup ran against. A list
	// computed after a miss is stored with Set under that same version, so a
	// pan write landing in between leaves it unreachable.
	Get(ctx context.Context, targetServings int) (suggestions []types.PanSuggestion, version int64, ok bool)
	Set(ctx context.Context, version int64, targetServings int, suggestions []types.PanSuggestion)
	// Invalidate drops every cached list. Called after any pan write.
	Invalidate(ctx context.Context)
}

// NoopSuggestionCache is used when Redis is disabled.
type NoopSuggestionCache struct{}

func (NoopSuggestionCache) Get(context.Context, int) ([]types.PanSuggestion, int64, bool) {
	return nil, 0, false
}
func (NoopSuggestionCache) Set(context.Context, int64, int, []types.PanSuggestion) {}
func (NoopSuggestionCache) Invalidate(context.Context) {}

// RedisSuggestionCache keys entries by a pan catalogue version. Invalidation
// bumps the version; stale entries expire with their TTL.
type RedisSuggestionCache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewSuggestionCache returns a Redis-backed cache, or a no-op cache when
// client is nil.
func NewSuggestionCache(client *redis.Client, ttl time.Duration, m *metrics.Metrics, log *zap.Logger) SuggestionCache {
	if client == nil {
		return NoopSuggestionCache{}
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisSuggestionCache{client: client, ttl: ttl, metrics: m, log: log}
}

func (c *RedisSuggestionCache) version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, panVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func suggestionKey(version int64, target int) string {
	return fmt.Sprintf(suggestionKeyTmpl, version, target)
}

// Get returns version -1 when the catalogue version cannot be read; Set
// ignores it.
func (c *RedisSuggestionCache) Get(ctx context.Context, target int) ([]types.PanSuggestion, int64, bool) {
	v, err := c.version(ctx)
	if err != nil {
		c.fail("read pan version", err)
		return nil, -1, false
	}
	raw, err := c.client.Get(ctx, suggestionKey(v, target)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.metrics.CacheResult("miss")
		return nil, v, false
	}
	if err != nil {
		c.fail("read suggestions", err)
		return nil, v, false
	}

	var suggestions []types.PanSuggestion
	if err := json.Unmarshal(raw, &suggestions); err != nil {
		c.fail("decode suggestions", err)
		return nil, v, false
	}
	c.metrics.CacheResult("hit")
	return suggestions, v, true
}

func (c *RedisSuggestionCache) Set(ctx context.Context, version int64, target int, suggestions []types.PanSuggestion) {
	if version < 0 {
		return
	}
	raw, err := json.Marshal(suggestions)
	if err != nil {
		c.fail("encode suggestions", err)
		return
	}
	if err := c.client.Set(ctx, suggestionKey(version, target), raw, c.ttl).Err(); err != nil {
		c.fail("write suggestions", err)
	}
}

func (c *RedisSuggestionCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, panVersionKey).Err(); err != nil {
		c.fail("bump pan version", err)
	}
}

func (c *RedisSuggestionCache) fail(action string, err error) {
	c.metrics.CacheResult("error")
	c.log.Warn("suggestion cache error", zap.String("action", action), zap.Error(err))
}
