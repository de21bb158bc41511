package service

import (
	"context"
	"errors"
	"fmt"
	"quizarena/internal/model"
	"quizarena/internal/questiongen"
	"sync"
	"testing"
	"time"
)

// fakeFetcher answers with "<topic> q<round>" and records every request
type fakeFetcher struct {
	mu       sync.Mutex
	requests []model.QuestionRequest
	fail     map[int]error
	gate     map[int]chan struct{}
	bad      bool
}

func (f *fakeFetcher) FetchQuestion(ctx context.Context, req model.QuestionRequest) (*model.Question, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	gate := f.gate[req.RoundIndex]
	err := f.fail[req.RoundIndex]
	bad := f.bad
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	q := &model.Question{
		Text:         fmt.Sprintf("%s q%d", req.Topic, req.RoundIndex),
		Options:      []string{"a", "b", "c", "d"},
		CorrectIndex: 1,
	}
	if bad {
		q.Options = q.Options[:3]
	}
	return q, nil
}

func (f *fakeFetcher) rounds() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []int
	for _, r := range f.requests {
		out = append(out, r.RoundIndex)
	}
	return out
}

func countRound(rounds []int, round int) int {
	n := 0
	for _, r := range rounds {
		if r == round {
			n++
		}
	}
	return n
}

func newTestSupply(f QuestionFetcher) *QuestionSupply {
	s := NewQuestionSupply(f, questiongen.New("test"), time.Second)
	s.Reset("session-1", "physics", model.TierMedium, 0)
	return s
}

func TestSupplyUsesPrefetchedQuestion(t *testing.T) {
	f := &fakeFetcher{}
	s := newTestSupply(f)
	ctx := context.Background()

	q0 := s.RequestQuestion(ctx, 0)
	if q0.Text != "physics q0" || q0.Source != model.SourceRemote {
		t.Fatalf("round 0 = %+v", q0)
	}
	s.Wait()
	if s.cache == nil || s.cache.round != 1 {
		t.Fatalf("prefetch slot = %+v, want round 1", s.cache)
	}

	ch := s.Request(ctx, 1)
	select {
	case q1 := <-ch:
		if q1.Text != "physics q1" || q1.Source != model.SourcePrefetch {
			t.Fatalf("round 1 = %+v", q1)
		}
	default:
		t.Fatal("cache hit was not delivered immediately")
	}
	s.Wait()

	rounds := f.rounds()
	if countRound(rounds, 1) != 1 {
		t.Fatalf("round 1 fetched %d times, want only the prefetch: %v", countRound(rounds, 1), rounds)
	}
	if countRound(rounds, 2) != 1 {
		t.Fatalf("round 2 was not prefetched after the cache hit: %v", rounds)
	}
}

func TestSupplySendsHistory(t *testing.T) {
	f := &fakeFetcher{}
	s := newTestSupply(f)
	ctx := context.Background()

	s.RequestQuestion(ctx, 0)
	s.Wait()
	s.RequestQuestion(ctx, 1)
	s.Wait()

	f.mu.Lock()
	last := f.requests[len(f.requests)-1]
	f.mu.Unlock()
	if last.RoundIndex != 2 {
		t.Fatalf("last request for round %d, want 2", last.RoundIndex)
	}
	want := []string{"physics q0", "physics q1"}
	if fmt.Sprint(last.PreviousQuestions) != fmt.Sprint(want) {
		t.Fatalf("history = %v, want %v", last.PreviousQuestions, want)
	}
	if last.DifficultyTier != model.TierMedium || last.Topic != "physics" {
		t.Fatalf("request = %+v", last)
	}
}

func TestSupplyFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		fetcher QuestionFetcher
	}{
		{name: "transport error", fetcher: &fakeFetcher{fail: map[int]error{0: errors.New("connection refused")}}},
		{name: "malformed payload", fetcher: &fakeFetcher{bad: true}},
		{name: "offline", fetcher: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSupply(tt.fetcher)
			q := s.RequestQuestion(context.Background(), 0)
			s.Wait()
			if q.Source != model.SourceProcedural {
				t.Fatalf("source = %s, want procedural", q.Source)
			}
			if err := q.Validate(); err != nil {
				t.Fatalf("fallback question invalid: %v", err)
			}
			want := questiongen.New("test").Generate(model.TierMedium, questiongen.SeedFor("session-1", 0))
			if q.Text != want.Text {
				t.Fatalf("fallback = %q, want %q", q.Text, want.Text)
			}
		})
	}
}

func TestSupplyFetchTimeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	f := &fakeFetcher{gate: map[int]chan struct{}{0: block}}
	s := NewQuestionSupply(f, nil, 50*time.Millisecond)
	s.Reset("slow", "history", model.TierEasy, 0)

	start := time.Now()
	q := s.RequestQuestion(context.Background(), 0)
	if q.Source != model.SourceProcedural {
		t.Fatalf("source = %s, want procedural after timeout", q.Source)
	}
	if time.Since(start) > time.Second {
		t.Fatal("request blocked past the fetch timeout")
	}
}

func TestSupplyDiscardsStalePrefetch(t *testing.T) {
	release := make(chan struct{})
	f := &fakeFetcher{gate: map[int]chan struct{}{1: release}}
	s := NewQuestionSupply(f, nil, 5*time.Second)
	s.Reset("old", "old-topic", model.TierEasy, 0)

	s.RequestQuestion(context.Background(), 0)
	// prefetch of round 1 is now blocked inside the fetcher
	s.Reset("new", "new-topic", model.TierHard, 0)
	close(release)
	s.Wait()

	s.mu.Lock()
	cache := s.cache
	s.mu.Unlock()
	if cache != nil {
		t.Fatalf("stale prefetch populated the new session's cache: %+v", cache)
	}

	q := s.RequestQuestion(context.Background(), 1)
	if q.Text != "new-topic q1" {
		t.Fatalf("round 1 after reset = %q, want a fresh fetch", q.Text)
	}
	s.Wait()
}

func TestSupplyPrefetchFailureIsSwallowed(t *testing.T) {
	f := &fakeFetcher{fail: map[int]error{1: errors.New("boom")}}
	s := newTestSupply(f)

	s.RequestQuestion(context.Background(), 0)
	s.Wait()
	if s.cache != nil {
		t.Fatal("failed prefetch left an entry in the cache")
	}
	q := s.RequestQuestion(context.Background(), 1)
	s.Wait()
	if q.Source != model.SourceProcedural {
		t.Fatalf("source = %s, want procedural", q.Source)
	}
}

func TestSupplyStopsPrefetchingAfterLastRound(t *testing.T) {
	f := &fakeFetcher{}
	s := NewQuestionSupply(f, questiongen.New("test"), time.Second)
	s.Reset("short", "chemistry", model.TierEasy, 3)
	ctx := context.Background()

	for round := 0; round < 3; round++ {
		s.RequestQuestion(ctx, round)
		s.Wait()
	}

	rounds := f.rounds()
	if n := countRound(rounds, 3); n != 0 {
		t.Fatalf("fetched round 3 of a 3-round run %d times (requests %v)", n, rounds)
	}
	if len(rounds) != 3 {
		t.Fatalf("remote requests = %v, want one per round", rounds)
	}
}
