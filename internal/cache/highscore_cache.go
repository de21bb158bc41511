package cache

import (
	"context"
	"encoding/json"
	"log"
	"quizarena/internal/model"

	"github.com/redis/go-redis/v9"
)

const highScoreKey = "arena:highscores"

// HighScoreCache keeps the shared ranked high-score list in a Redis ZSET
type HighScoreCache interface {
	Add(ctx context.Context, entry model.HighScore, keep int) error
	Top(ctx context.Context, limit int) ([]model.HighScore, error)
}

type highScoreCache struct {
	client *redis.Client
}

// NewHighScoreCache creates a new high-score cache
func NewHighScoreCache(client *redis.Client) HighScoreCache {
	return &highScoreCache{
		client: client,
	}
}

// Add inserts an entry and trims the set to the best keep entries
func (c *highScoreCache) Add(ctx context.Context, entry model.HighScore, keep int) error {
	member, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	pipe := c.client.TxPipeline()
	pipe.ZAdd(ctx, highScoreKey, redis.Z{
		Score:  float64(entry.Score),
		Member: string(member),
	})
	if keep > 0 {
		pipe.ZRemRangeByRank(ctx, highScoreKey, 0, int64(-keep-1))
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Top returns the best entries, skipping members that no longer decode
func (c *highScoreCache) Top(ctx context.Context, limit int) ([]model.HighScore, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, highScoreKey, 0, int64(limit-1)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	entries := make([]model.HighScore, 0, len(results))
	for _, z := range results {
		raw, ok := z.Member.(string)
		if !ok {
			continue
		}
		var hs model.HighScore
		if err := json.Unmarshal([]byte(raw), &hs); err != nil {
			log.Printf("[HighScores] Skipping corrupt entry: %v", err)
			continue
		}
		hs.Score = int(z.Score)
		entries = append(entries, hs)
	}
	return entries, nil
}
