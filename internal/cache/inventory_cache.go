package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/voltaware/phantomwatt/internal/models"
)

// inventoryCacheEntry is the serialized cache payload with metadata.
type inventoryCacheEntry struct {
	Appliances []models.Appliance `json:"appliances"`
	CachedAt   time.Time          `json:"cached_at"`
	ExpiresAt  time.Time          `json:"expires_at"`
}

// InventoryCacheStats tracks cache performance metrics.
type InventoryCacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
	mu     sync.RWMutex
}

// RedisInventoryCache caches per-user appliance inventories in Redis.
// Detection results are never cached: they are request-scoped by contract.
// Only the read-only inventory lookups are worth saving a round trip on.
type RedisInventoryCache struct {
	redis  *redis.Client
	ttl    time.Duration
	stats  *InventoryCacheStats
	prefix string
}

// NewRedisInventoryCache creates a Redis-backed inventory cache.
func NewRedisInventoryCache(redisClient *redis.Client, ttl time.Duration) *RedisInventoryCache {
	return &RedisInventoryCache{
		redis:  redisClient,
		ttl:    ttl,
		stats:  &InventoryCacheStats{},
		prefix: "inventory_cache:",
	}
}

// Get retrieves a user's cached appliance inventory.
func (c *RedisInventoryCache) Get(ctx context.Context, userID string) ([]models.Appliance, bool) {
	cacheKey := c.prefix + userID

	data, err := c.redis.Get(ctx, cacheKey).Result()
	if err == redis.Nil {
		c.miss()
		return nil, false
	}
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Redis error getting inventory")
		c.miss()
		return nil, false
	}

	var entry inventoryCacheEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Error deserializing cached inventory")
		c.miss()
		return nil, false
	}

	c.stats.mu.Lock()
	c.stats.Hits++
	c.stats.mu.Unlock()

	return entry.Appliances, true
}

// Set stores a user's appliance inventory with the cache TTL.
func (c *RedisInventoryCache) Set(ctx context.Context, userID string, appliances []models.Appliance) {
	cacheKey := c.prefix + userID

	now := time.Now()
	entry := inventoryCacheEntry{
		Appliances: appliances,
		CachedAt:   now,
		ExpiresAt:  now.Add(c.ttl),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Error serializing inventory for cache")
		return
	}

	if err := c.redis.Set(ctx, cacheKey, data, c.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Redis error caching inventory")
		return
	}

	c.stats.mu.Lock()
	c.stats.Sets++
	c.stats.mu.Unlock()
}

// Invalidate drops a user's cached inventory.
func (c *RedisInventoryCache) Invalidate(ctx context.Context, userID string) {
	if err := c.redis.Del(ctx, c.prefix+userID).Err(); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Redis error invalidating inventory")
	}
}

// GetStats returns a snapshot of cache performance counters.
func (c *RedisInventoryCache) GetStats() InventoryCacheStats {
	c.stats.mu.RLock()
	defer c.stats.mu.RUnlock()
	return InventoryCacheStats{
		Hits:   c.stats.Hits,
		Misses: c.stats.Misses,
		Sets:   c.stats.Sets,
	}
}

func (c *RedisInventoryCache) miss() {
	c.stats.mu.Lock()
	c.stats.Misses++
	c.stats.mu.Unlock()
}
