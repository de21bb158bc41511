package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"quizarena/internal/model"
	"sync/atomic"
	"testing"
)

type memoryResults struct {
	saved map[string]*model.SessionResult
	err   error
}

func (m *memoryResults) Save(ctx context.Context, r *model.SessionResult) error {
	if m.err != nil {
		return m.err
	}
	if m.saved == nil {
		m.saved = make(map[string]*model.SessionResult)
	}
	m.saved[r.SessionID] = r
	return nil
}

func (m *memoryResults) Get(ctx context.Context, id string) (*model.SessionResult, error) {
	return m.saved[id], nil
}

func (m *memoryResults) ListByPlayer(ctx context.Context, name string, limit int64) ([]model.SessionResult, error) {
	var out []model.SessionResult
	for _, r := range m.saved {
		if r.PlayerName == name {
			out = append(out, *r)
		}
	}
	return out, nil
}

func TestSubmitResultReports(t *testing.T) {
	var calls atomic.Int32
	var got model.RewardReport
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	repo := &memoryResults{}
	svc := NewRewardService(repo, nil, srv.URL)
	result := model.SessionResult{SessionID: "s-1", PlayerName: "ana", FinalScore: 1200, AccuracyPercent: "70.00", Passed: true}

	svc.SubmitResult(context.Background(), result)

	if calls.Load() != 1 {
		t.Fatalf("reward calls = %d, want 1", calls.Load())
	}
	if got.SessionID != "s-1" || got.FinalScore != 1200 || got.AccuracyPercent != "70.00" || !got.Passed {
		t.Fatalf("report = %+v", got)
	}
	if stored, _ := svc.GetResult(context.Background(), "s-1"); stored == nil || stored.FinalScore != 1200 {
		t.Fatalf("stored result = %+v", stored)
	}
}

func TestSubmitResultPracticeSkipsReport(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	repo := &memoryResults{}
	NewRewardService(repo, nil, srv.URL).SubmitResult(context.Background(), model.SessionResult{SessionID: "p", Practice: true})

	if calls.Load() != 0 {
		t.Fatal("practice run was reported")
	}
	if repo.saved["p"] == nil {
		t.Fatal("practice run was not persisted")
	}
}

func TestSubmitResultFailuresAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewRewardService(&memoryResults{err: errors.New("mongo down")}, nil, srv.URL)
	svc.SubmitResult(context.Background(), model.SessionResult{SessionID: "s-2"})

	if calls.Load() != 1 {
		t.Fatalf("reward calls = %d, want exactly 1", calls.Load())
	}
}

func TestRecentResults(t *testing.T) {
	repo := &memoryResults{}
	svc := NewRewardService(repo, nil, "")
	svc.SubmitResult(context.Background(), model.SessionResult{SessionID: "a", PlayerName: "ana"})
	svc.SubmitResult(context.Background(), model.SessionResult{SessionID: "b", PlayerName: "bo"})

	got, err := svc.RecentResults(context.Background(), "ana", 0)
	if err != nil || len(got) != 1 || got[0].SessionID != "a" {
		t.Fatalf("RecentResults = %+v, %v", got, err)
	}

	none, err := NewRewardService(nil, nil, "").RecentResults(context.Background(), "ana", 5)
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("without a repo = %+v, %v", none, err)
	}
}
