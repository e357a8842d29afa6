package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"social/storage/models"
)

// TimelinesCache keeps the first page of each user's feed in a redis sorted
// set scored by post creation time. A missing key means the timeline has to
// be rebuilt from the database.
type TimelinesCache struct {
	redisClient *redis.Client
	expiration  time.Duration
}

func NewTimelinesCache(redisClient *redis.Client, expiration time.Duration) TimelinesCache {
	return TimelinesCache{
		redisClient: redisClient,
		expiration:  expiration,
	}
}

func (c *TimelinesCache) AddPost(ctx context.Context, userID int64, entry models.FeedEntry) {
	key := c.getRedisKey(userID)
	if c.redisClient.Exists(ctx, key).Val() == 0 {
		// Timeline not cached: next read rebuilds it anyway
		return
	}
	bytes, err := json.Marshal(entry)
	if err != nil {
		return
	}
	c.redisClient.ZAdd(
		ctx,
		key,
		redis.Z{
			Score:  float64(entry.CreatedAt.UnixMicro()),
			Member: bytes,
		},
	)
	c.redisClient.Expire(ctx, key, c.expiration)
}

func (c *TimelinesCache) GetTimeline(ctx context.Context, userID int64) ([]models.FeedEntry, bool) {
	key := c.getRedisKey(userID)
	if c.redisClient.Exists(ctx, key).Val() == 0 {
		return nil, false
	}
	members, err := c.redisClient.ZRevRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, false
	}
	entries := make([]models.FeedEntry, 0, len(members))
	for _, member := range members {
		var entry models.FeedEntry
		if err := json.Unmarshal([]byte(member), &entry); err != nil {
			log.Errorf("Error unmarshalling timeline entry: %v", err)
			return nil, false
		}
		entries = append(entries, entry)
	}
	return entries, true
}

func (c *TimelinesCache) SetTimeline(ctx context.Context, userID int64, entries []models.FeedEntry) {
	key := c.getRedisKey(userID)
	c.redisClient.Del(ctx, key)

	if len(entries) == 0 {
		// An empty sorted set has no key, so empty feeds stay uncached
		return
	}

	zs := make([]redis.Z, 0, len(entries))
	for _, entry := range entries {
		bytes, err := json.Marshal(entry)
		if err != nil {
			continue
		}
		zs = append(zs, redis.Z{
			Score:  float64(entry.CreatedAt.UnixMicro()),
			Member: bytes,
		})
	}
	c.redisClient.ZAdd(ctx, key, zs...)
	c.redisClient.Expire(ctx, key, c.expiration)
}

func (c *TimelinesCache) Invalidate(ctx context.Context, userID int64) {
	c.redisClient.Del(ctx, c.getRedisKey(userID))
}

func (c *TimelinesCache) getRedisKey(userID int64) string {
	return fmt.Sprintf("feed__%d", userID)
}
