// Package cache holds recently computed analysis results so repeat reads
// skip the file store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/learnpath/backend/internal/models"
)

// ResultCache stores analysis results per (user, subject). Get returns
// (nil, nil) on a miss.
type ResultCache interface {
	Get(ctx context.Context, userID, subject string) (*models.AnalysisResult, error)
	Set(ctx context.Context, result *models.AnalysisResult) error
	Delete(ctx context.Context, userID, subject string) error
}

type RedisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisResultCache(client *redis.Client, ttl time.Duration) *RedisResultCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisResultCache{client: client, ttl: ttl}
}

func resultKey(userID, subject string) string {
	return fmt.Sprintf("learnpath:results:%s:%s", userID, subject)
}

func (c *RedisResultCache) Get(ctx context.Context, userID, subject string) (*models.AnalysisResult, error) {
	data, err := c.client.Get(ctx, resultKey(userID, subject)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *RedisResultCache) Set(ctx context.Context, result *models.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, resultKey(result.UserID, result.Subject), data, c.ttl).Err()
}

func (c *RedisResultCache) Delete(ctx context.Context, userID, subject string) error {
	return c.client.Del(ctx, resultKey(userID, subject)).Err()
}

// NoopCache is used when no redis address is configured.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string, string) (*models.AnalysisResult, error) {
	return nil, nil
}

func (NoopCache) Set(context.Context, *models.AnalysisResult) error { return nil }

func (NoopCache) Delete(context.Context, string, string) error { return nil }
