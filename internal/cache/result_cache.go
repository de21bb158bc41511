package cache

import (
	"context"
	"encoding/json"
	"quizarena/internal/model"
	"time"

	"github.com/redis/go-redis/v9"
)

const resultTTL = 24 * time.Hour

// ResultCache keeps recent session results for fast lookup by the REST layer
type ResultCache interface {
	Set(ctx context.Context, result *model.SessionResult) error
	Get(ctx context.Context, sessionID string) (*model.SessionResult, error)
	Delete(ctx context.Context, sessionID string) error
}

type resultCache struct {
	client *redis.Client
}

func NewResultCache(client *redis.Client) ResultCache {
	return &resultCache{
		client: client,
	}
}

func resultKey(sessionID string) string {
	return "arena:result:" + sessionID
}

func (c *resultCache) Set(ctx context.Context, result *model.SessionResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, resultKey(result.SessionID), data, resultTTL).Err()
}

func (c *resultCache) Get(ctx context.Context, sessionID string) (*model.SessionResult, error) {
	data, err := c.client.Get(ctx, resultKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result model.SessionResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *resultCache) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, resultKey(sessionID)).Err()
}
