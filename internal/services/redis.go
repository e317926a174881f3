package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

const rankedFeedTTL = 5 * time.Minute

// RedisRankingCache stores per-user ranked discovery feeds with a short TTL.
type RedisRankingCache struct{}

func (RedisRankingCache) GetRankedFeed(ctx context.Context, userID uint) ([]byte, error) {
	key := fmt.Sprintf("discovery:feed:%d", userID)
	data, err := RedisClient.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (RedisRankingCache) SetRankedFeed(ctx context.Context, userID uint, payload []byte) error {
	key := fmt.Sprintf("discovery:feed:%d", userID)
	return RedisClient.Set(ctx, key, payload, rankedFeedTTL).Err()
}

// InvalidateRankedFeed drops a user's cached feed after preference changes.
func InvalidateRankedFeed(ctx context.Context, userID uint) error {
	key := fmt.Sprintf("discovery:feed:%d", userID)
	return RedisClient.Del(ctx, key).Err()
}

// IncrementExperienceViews bumps the rolling view counter for an experience.
func IncrementExperienceViews(ctx context.Context, experienceID uint) error {
	key := fmt.Sprintf("experience:views:%d", experienceID)
	pipe := RedisClient.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 24*time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}

// GetExperienceViews reads the rolling view counter for an experience.
func GetExperienceViews(ctx context.Context, experienceID uint) (int64, error) {
	key := fmt.Sprintf("experience:views:%d", experienceID)
	views, err := RedisClient.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return views, err
}
