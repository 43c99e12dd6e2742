// Package redis wraps the go-redis client for the read-side caches:
// per-user friend-id sets and unread notification counters.
package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"vega_social_server/internal/config"
	"vega_social_server/pkg/errorx"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

var ctx = context.Background()

// Init connects the client and starts the async cache worker pool.
func Init() {
	conf := config.GetConfig()
	addr := conf.RedisConfig.Host + ":" + strconv.Itoa(conf.RedisConfig.Port)

	redisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: conf.RedisConfig.Password,
		DB:       conf.RedisConfig.Db,

		PoolSize:     50,
		MinIdleConns: 15,
	})

	InitCacheWorker(15, 3000)
}

// SetKeyEx sets a key with a TTL.
func SetKeyEx(key string, value string, timeout time.Duration) error {
	if err := redisClient.Set(ctx, key, value, timeout).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis set key %s", key)
	}
	return nil
}

// GetKey reads a key. A missing key returns "" without an error.
func GetKey(key string) (string, error) {
	value, err := redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", errorx.Wrapf(err, errorx.CodeCacheError, "redis get key %s", key)
	}
	return value, nil
}

// DelKey removes a key; deleting a missing key is not an error.
func DelKey(key string) error {
	if err := redisClient.Del(ctx, key).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis delete key %s", key)
	}
	return nil
}

// SAdd adds members to a set.
func SAdd(key string, members ...interface{}) error {
	if err := redisClient.SAdd(ctx, key, members...).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis sadd key %s", key)
	}
	return nil
}

// SRem removes members from a set.
func SRem(key string, members ...interface{}) error {
	if err := redisClient.SRem(ctx, key, members...).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis srem key %s", key)
	}
	return nil
}

// SMembers reads all members of a set.
func SMembers(key string) ([]string, error) {
	members, err := redisClient.SMembers(ctx, key).Result()
	if err != nil {
		return nil, errorx.Wrapf(err, errorx.CodeCacheError, "redis smembers key %s", key)
	}
	return members, nil
}

// IncrKey increments an integer key and returns the new value.
func IncrKey(key string) (int64, error) {
	value, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		return 0, errorx.Wrapf(err, errorx.CodeCacheError, "redis incr key %s", key)
	}
	return value, nil
}
