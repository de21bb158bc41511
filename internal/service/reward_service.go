package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"quizarena/internal/cache"
	"quizarena/internal/model"
	"quizarena/internal/repository"
	"time"
)

// RewardService records terminal results and reports them to the external
// economy/grading service. Every step is single-attempt; failures are logged.
type RewardService struct {
	resultRepo  repository.ResultRepo // optional
	resultCache cache.ResultCache     // optional
	rewardURL   string
	client      *http.Client
	timeout     time.Duration
}

// NewRewardService creates a new reward service. Any collaborator may be nil/empty.
func NewRewardService(resultRepo repository.ResultRepo, resultCache cache.ResultCache, rewardURL string) *RewardService {
	return &RewardService{
		resultRepo:  resultRepo,
		resultCache: resultCache,
		rewardURL:   rewardURL,
		client:      &http.Client{Timeout: 5 * time.Second},
		timeout:     5 * time.Second,
	}
}

// SubmitResult persists the result and posts the reward report. Practice runs
// are persisted but never reported.
func (s *RewardService) SubmitResult(ctx context.Context, result model.SessionResult) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if s.resultRepo != nil {
		if err := s.resultRepo.Save(ctx, &result); err != nil {
			log.Printf("[Reward] Failed to save result %s: %v", result.SessionID, err)
		}
	}
	if s.resultCache != nil {
		if err := s.resultCache.Set(ctx, &result); err != nil {
			log.Printf("[Reward] Failed to cache result %s: %v", result.SessionID, err)
		}
	}

	if s.rewardURL == "" || result.Practice {
		return
	}
	report := model.RewardReport{
		SessionID:       result.SessionID,
		FinalScore:      result.FinalScore,
		AccuracyPercent: result.AccuracyPercent,
		Passed:          result.Passed,
	}
	if err := s.postReport(ctx, report); err != nil {
		log.Printf("[Reward] Failed to report %s: %v", result.SessionID, err)
		return
	}
	log.Printf("[Reward] Reported %s: score=%d accuracy=%s passed=%v", result.SessionID, result.FinalScore, result.AccuracyPercent, result.Passed)
}

func (s *RewardService) postReport(ctx context.Context, report model.RewardReport) error {
	body, err := json.Marshal(report)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.rewardURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("reward service returned %d", resp.StatusCode)
	}
	return nil
}

// GetResult looks a result up in the cache, then in the repository
func (s *RewardService) GetResult(ctx context.Context, sessionID string) (*model.SessionResult, error) {
	if s.resultCache != nil {
		if r, err := s.resultCache.Get(ctx, sessionID); err == nil && r != nil {
			return r, nil
		}
	}
	if s.resultRepo != nil {
		return s.resultRepo.Get(ctx, sessionID)
	}
	return nil, nil
}

// RecentResults lists a player's latest results, newest first
func (s *RewardService) RecentResults(ctx context.Context, playerName string, limit int64) ([]model.SessionResult, error) {
	if s.resultRepo == nil {
		return []model.SessionResult{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	results, err := s.resultRepo.ListByPlayer(ctx, playerName, limit)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []model.SessionResult{}
	}
	return results, nil
}
