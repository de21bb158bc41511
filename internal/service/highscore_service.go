package service

import (
	"context"
	"log"
	"quizarena/internal/model"
	"sort"
	"strings"
	"time"
)

// MaxHighScores is the length of the ranked list
const MaxHighScores = 10

// HighScoreStore is a ranked list backend (Redis ZSET or SQLite)
type HighScoreStore interface {
	Add(ctx context.Context, entry model.HighScore, keep int) error
	Top(ctx context.Context, limit int) ([]model.HighScore, error)
}

// HighScoreService is the best-effort high-score list. Reads never fail:
// a missing or broken store reads as an empty list.
type HighScoreService struct {
	store   HighScoreStore
	timeout time.Duration
}

// NewHighScoreService creates a new high-score service; store may be nil
func NewHighScoreService(store HighScoreStore) *HighScoreService {
	return &HighScoreService{
		store:   store,
		timeout: 3 * time.Second,
	}
}

// TopScores returns the ranked list, or an empty list when the store is unavailable
func (s *HighScoreService) TopScores(ctx context.Context) ([]model.HighScore, error) {
	if s.store == nil {
		return []model.HighScore{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	entries, err := s.store.Top(ctx, MaxHighScores)
	if err != nil {
		log.Printf("[HighScores] Read failed, serving empty list: %v", err)
		return []model.HighScore{}, nil
	}

	out := make([]model.HighScore, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" || e.Score < 0 || !e.Tier.Valid() {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > MaxHighScores {
		out = out[:MaxHighScores]
	}
	return out, nil
}

// RecordScore writes a terminal score to the list
func (s *HighScoreService) RecordScore(ctx context.Context, entry model.HighScore) error {
	if s.store == nil {
		return nil
	}
	entry.Name = strings.TrimSpace(entry.Name)
	if entry.Name == "" {
		entry.Name = "anonymous"
	}
	if entry.AchievedAt.IsZero() {
		entry.AchievedAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.Add(ctx, entry, MaxHighScores)
}
