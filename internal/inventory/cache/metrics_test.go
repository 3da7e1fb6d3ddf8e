package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/retail-pos/internal/inventory/domain"
)

func newCache(t *testing.T) (*RedisMetricsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisMetricsCache(client, time.Minute), mr
}

func sampleMetrics() domain.DashboardMetrics {
	return domain.DashboardMetrics{
		TotalInventoryValue: decimal.RequireFromString("12500.50"),
		TodaysSales:         decimal.NewFromInt(1200),
		TodaysItemsSold:     1,
		TodaysProfit:        decimal.NewFromInt(400),
		LowStockItems:       2,
		TotalProducts:       9,
		CategoryBreakdown: map[domain.ProductType]domain.CategoryStat{
			domain.ProductTypeShoes: {Items: 3, Value: decimal.NewFromInt(9000)},
		},
		ProfitMargin: decimal.RequireFromString("33.33"),
	}
}

func TestMetricsCache_RoundTrip(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	owner := uuid.New()

	got, gen, err := c.Get(ctx, owner, "2024-01-15")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, gen)

	stored, err := c.Set(ctx, owner, "2024-01-15", gen, sampleMetrics())
	require.NoError(t, err)
	assert.True(t, stored)
	assert.Equal(t, time.Minute, mr.TTL(key(owner)))

	got, _, err = c.Get(ctx, owner, "2024-01-15")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.TotalInventoryValue.Equal(decimal.RequireFromString("12500.50")))
	assert.True(t, got.ProfitMargin.Equal(decimal.RequireFromString("33.33")))
	assert.Equal(t, 9, got.TotalProducts)
	assert.Equal(t, 3, got.CategoryBreakdown[domain.ProductTypeShoes].Items)
}

func TestMetricsCache_OtherDayIsMiss(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	owner := uuid.New()
	_, err := c.Set(ctx, owner, "2024-01-14", 0, sampleMetrics())
	require.NoError(t, err)

	got, _, err := c.Get(ctx, owner, "2024-01-15")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMetricsCache_InvalidateIsPerOwner(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()
	_, err := c.Set(ctx, owner, "2024-01-15", 0, sampleMetrics())
	require.NoError(t, err)
	_, err = c.Set(ctx, other, "2024-01-15", 0, sampleMetrics())
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(ctx, owner))

	assert.False(t, mr.Exists(key(owner)))
	assert.True(t, mr.Exists(key(other)))

	_, gen, err := c.Get(ctx, owner, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
	_, gen, err = c.Get(ctx, other, "2024-01-15")
	require.NoError(t, err)
	assert.Zero(t, gen)
}

func TestMetricsCache_SetAfterInvalidateIsRejected(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	owner := uuid.New()

	_, gen, err := c.Get(ctx, owner, "2024-01-15")
	require.NoError(t, err)

	// a sale commits while the snapshot is being computed
	require.NoError(t, c.Invalidate(ctx, owner))

	stored, err := c.Set(ctx, owner, "2024-01-15", gen, sampleMetrics())
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists(key(owner)))

	_, gen, err = c.Get(ctx, owner, "2024-01-15")
	require.NoError(t, err)
	stored, err = c.Set(ctx, owner, "2024-01-15", gen, sampleMetrics())
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestMetricsCache_OlderGenerationIsMiss(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	owner := uuid.New()
	_, err := c.Set(ctx, owner, "2024-01-15", 0, sampleMetrics())
	require.NoError(t, err)

	// generation moved without the snapshot being dropped
	mr.Incr(genKey(owner), 1)

	got, gen, err := c.Get(ctx, owner, "2024-01-15")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, int64(1), gen)
}

func TestMetricsCache_ExpiresAfterTTL(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	owner := uuid.New()
	_, err := c.Set(ctx, owner, "2024-01-15", 0, sampleMetrics())
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	got, _, err := c.Get(ctx, owner, "2024-01-15")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMetricsCache_ServerDown(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()

	_, _, err := c.Get(context.Background(), uuid.New(), "2024-01-15")
	assert.Error(t, err)
	_, err = c.Set(context.Background(), uuid.New(), "2024-01-15", 0, sampleMetrics())
	assert.Error(t, err)
}

func TestNewRedisMetricsCache_DefaultTTL(t *testing.T) {
	c := NewRedisMetricsCache(nil, 0)
	assert.Equal(t, DefaultTTL, c.ttl)
}
