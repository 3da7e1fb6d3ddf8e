// Package cache keeps computed dashboard metrics in redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tair/retail-pos/internal/inventory/domain"
	"github.com/tair/retail-pos/pkg/logger"
)

const (
	keyPrefix = "pos:metrics:"
	genPrefix = "pos:metrics:gen:"
)

// DefaultTTL bounds how long a snapshot may serve reads without an invalidation
const DefaultTTL = 5 * time.Minute

// setIfCurrent writes the snapshot only while the owner's generation equals ARGV[1]
var setIfCurrent = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[2]) or "0")
if current ~= tonumber(ARGV[1]) then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

type entry struct {
	Day     string                  `json:"day"`
	Gen     int64                   `json:"gen"`
	Metrics domain.DashboardMetrics `json:"metrics"`
}

// RedisMetricsCache stores one snapshot per owner, tagged with the day and generation it was
// computed for. A snapshot from another day or generation counts as a miss, so metrics roll
// over at midnight and never outlive a mutation.
type RedisMetricsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisMetricsCache creates a metrics cache; a non-positive ttl uses DefaultTTL
func NewRedisMetricsCache(client *redis.Client, ttl time.Duration) *RedisMetricsCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisMetricsCache{client: client, ttl: ttl}
}

func key(ownerID uuid.UUID) string {
	return keyPrefix + ownerID.String()
}

func genKey(ownerID uuid.UUID) string {
	return genPrefix + ownerID.String()
}

// Get returns the snapshot for day (nil on a miss) and the owner's current generation
func (c *RedisMetricsCache) Get(ctx context.Context, ownerID uuid.UUID, day string) (*domain.DashboardMetrics, int64, error) {
	values, err := c.client.MGet(ctx, key(ownerID), genKey(ownerID)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read metrics cache: %w", err)
	}

	var gen int64
	if raw, ok := values[1].(string); ok {
		if gen, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, 0, fmt.Errorf("failed to parse metrics generation: %w", err)
		}
	}

	raw, ok := values[0].(string)
	if !ok {
		logger.Debug(ctx).Str("owner_id", ownerID.String()).Msg("Metrics cache miss")
		return nil, gen, nil
	}

	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil, gen, fmt.Errorf("failed to decode cached metrics: %w", err)
	}
	if e.Day != day || e.Gen != gen {
		logger.Debug(ctx).
			Str("owner_id", ownerID.String()).
			Str("cached_day", e.Day).
			Int64("cached_gen", e.Gen).
			Int64("gen", gen).
			Msg("Metrics cache stale")
		return nil, gen, nil
	}

	logger.Debug(ctx).Str("owner_id", ownerID.String()).Msg("Metrics cache hit")
	return &e.Metrics, gen, nil
}

// Set stores the snapshot computed for day unless a mutation moved the generation past gen
func (c *RedisMetricsCache) Set(ctx context.Context, ownerID uuid.UUID, day string, gen int64, metrics domain.DashboardMetrics) (bool, error) {
	raw, err := json.Marshal(entry{Day: day, Gen: gen, Metrics: metrics})
	if err != nil {
		return false, fmt.Errorf("failed to encode metrics: %w", err)
	}

	stored, err := setIfCurrent.Run(ctx, c.client,
		[]string{key(ownerID), genKey(ownerID)},
		gen, string(raw), c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to write metrics cache: %w", err)
	}
	if stored == 0 {
		logger.Debug(ctx).
			Str("owner_id", ownerID.String()).
			Int64("gen", gen).
			Msg("Metrics snapshot outdated, not cached")
	}
	return stored == 1, nil
}

// Invalidate bumps the owner's generation and drops the snapshot
func (c *RedisMetricsCache) Invalidate(ctx context.Context, ownerID uuid.UUID) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(ownerID))
		pipe.Del(ctx, key(ownerID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate metrics cache: %w", err)
	}
	return nil
}
