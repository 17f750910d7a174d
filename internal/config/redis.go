package config

// Redis backs the submission rate limiter and the form-config response
// cache.  Both features degrade gracefully: when the connection cannot
// be established at startup this constructor returns nil and the
// middleware run as no-ops.

import (
    "context"
    "strconv"
    "time"

    "github.com/redis/go-redis/v9"
)

// NewRedisClient instantiates a Redis client from REDIS_HOST,
// REDIS_PORT, REDIS_PASSWORD and REDIS_DB.  The returned client may be
// nil if the server cannot be reached.
func NewRedisClient() *redis.Client {
    addr := getenv("REDIS_HOST", "localhost") + ":" + getenv("REDIS_PORT", "6379")
    dbNum := 0
    if n, err := strconv.Atoi(getenv("REDIS_DB", "0")); err == nil {
        dbNum = n
    }
    client := redis.NewClient(&redis.Options{
        Addr:     addr,
        Password: getenv("REDIS_PASSWORD", ""),
        DB:       dbNum,
    })
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        return nil
    }
    return client
}
