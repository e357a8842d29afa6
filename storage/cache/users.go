package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"social/storage/models"
)

const UsersFollowersCountRedisKey = "users_followers_count"
const UsersFollowsCountRedisKey = "users_follows_count"
const UsersPostsCountRedisKey = "users_posts_count"

// UsersCache holds per-user counters (followers, follows, posts) in redis
// hashes. Counters are loaded on first read and adjusted by deltas on
// mutations; per-field expiration bounds staleness.
type UsersCache struct {
	redisClient *redis.Client
	expiration  time.Duration
}

func NewUsersCache(redisClient *redis.Client, expiration time.Duration) UsersCache {
	return UsersCache{
		redisClient: redisClient,
		expiration:  expiration,
	}
}

func (c *UsersCache) GetUserStatistics(ctx context.Context, id int64) (models.UserStatistics, bool) {
	idStr := strconv.FormatInt(id, 10)

	followersCount, err := c.redisClient.HGet(ctx, UsersFollowersCountRedisKey, idStr).Int64()
	if err != nil {
		return models.UserStatistics{}, false
	}
	followsCount, _ := c.redisClient.HGet(ctx, UsersFollowsCountRedisKey, idStr).Int64()
	postsCount, _ := c.redisClient.HGet(ctx, UsersPostsCountRedisKey, idStr).Int64()

	return models.UserStatistics{
		ID:             id,
		FollowersCount: followersCount,
		FollowsCount:   followsCount,
		PostsCount:     postsCount,
	}, true
}

func (c *UsersCache) SetUserStatistics(ctx context.Context, stats models.UserStatistics) {
	idStr := strconv.FormatInt(stats.ID, 10)
	c.hSetWithExpiration(ctx, UsersFollowersCountRedisKey, idStr, strconv.FormatInt(stats.FollowersCount, 10))
	c.hSetWithExpiration(ctx, UsersFollowsCountRedisKey, idStr, strconv.FormatInt(stats.FollowsCount, 10))
	c.hSetWithExpiration(ctx, UsersPostsCountRedisKey, idStr, strconv.FormatInt(stats.PostsCount, 10))
}

func (c *UsersCache) UpdateUserStatistics(
	ctx context.Context,
	id int64,
	followsDelta int64,
	followersDelta int64,
	postsDelta int64,
) {
	idStr := strconv.FormatInt(id, 10)

	for redisKey, delta := range map[string]int64{
		UsersFollowersCountRedisKey: followersDelta,
		UsersFollowsCountRedisKey:   followsDelta,
		UsersPostsCountRedisKey:     postsDelta,
	} {
		if delta != 0 && c.redisClient.HExists(ctx, redisKey, idStr).Val() {
			c.redisClient.HIncrBy(ctx, redisKey, idStr, delta)
			c.redisClient.HExpire(ctx, redisKey, c.expiration, idStr)
		}
	}
}

func (c *UsersCache) DeleteUser(ctx context.Context, id int64) {
	idStr := strconv.FormatInt(id, 10)
	c.redisClient.HDel(ctx, UsersFollowersCountRedisKey, idStr)
	c.redisClient.HDel(ctx, UsersFollowsCountRedisKey, idStr)
	c.redisClient.HDel(ctx, UsersPostsCountRedisKey, idStr)
}

func (c *UsersCache) hSetWithExpiration(ctx context.Context, redisKey, key, value string) {
	c.redisClient.HSet(ctx, redisKey, key, value)
	c.redisClient.HExpire(ctx, redisKey, c.expiration, key)
}
