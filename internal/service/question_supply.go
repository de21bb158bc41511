package service

import (
	"context"
	"fmt"
	"log"
	"quizarena/internal/model"
	"quizarena/internal/questiongen"
	"sync"
	"sync/atomic"
	"time"
)

const defaultFetchTimeout = 4 * time.Second

// prefetched is the single look-ahead slot, tagged with the generation and
// round it was fetched for
type prefetched struct {
	generation uint64
	round      int
	question   model.Question
}

// QuestionSupply resolves one question per round: prefetch slot first, then
// one remote fetch, then the offline generator. It never fails.
type QuestionSupply struct {
	fetcher   QuestionFetcher // nil means offline only
	generator *questiongen.Generator
	timeout   time.Duration

	mu         sync.Mutex
	generation uint64
	sessionID  string
	topic      string
	tier       model.Tier
	rounds     int // rounds in the run, 0 when unbounded
	history    []string
	issued     int // highest round handed out, -1 before the first
	cache      *prefetched
	ctx        context.Context
	cancel     context.CancelFunc

	wg      sync.WaitGroup
	fetches atomic.Int64
}

// NewQuestionSupply creates a supply. fetcher may be nil.
func NewQuestionSupply(fetcher QuestionFetcher, generator *questiongen.Generator, timeout time.Duration) *QuestionSupply {
	if generator == nil {
		generator = questiongen.New("")
	}
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &QuestionSupply{
		fetcher:   fetcher,
		generator: generator,
		timeout:   timeout,
		issued:    -1,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Reset starts a new generation: in-flight prefetches are cancelled and their
// results discarded, the cache and history are cleared. No round at or past
// totalRounds is ever prefetched.
func (s *QuestionSupply) Reset(sessionID, topic string, tier model.Tier, totalRounds int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancel()
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.generation++
	s.sessionID = sessionID
	s.topic = topic
	s.tier = tier
	s.rounds = totalRounds
	s.history = nil
	s.issued = -1
	s.cache = nil
}

// Request resolves the question for roundIndex asynchronously. The channel
// receives exactly one valid question; a cache hit is already on it.
func (s *QuestionSupply) Request(ctx context.Context, roundIndex int) <-chan model.Question {
	out := make(chan model.Question, 1)

	s.mu.Lock()
	gen := s.generation
	if roundIndex > s.issued {
		s.issued = roundIndex
	}
	if c := s.cache; c != nil && c.generation == gen && c.round == roundIndex {
		s.cache = nil
		q := c.question
		q.Source = model.SourcePrefetch
		s.history = append(s.history, q.Text)
		s.mu.Unlock()

		out <- q
		s.prefetch(gen, roundIndex+1)
		return out
	}
	req := s.requestLocked(roundIndex)
	sessionID := s.sessionID
	tier := s.tier
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		q, err := s.fetch(ctx, req)
		if err != nil {
			if s.fetcher != nil {
				log.Printf("[Supply] Round %d of %s: remote fetch failed, using generator: %v", roundIndex, sessionID, err)
			}
			q = s.procedural(sessionID, tier, roundIndex)
		}
		s.record(gen, q.Text)
		out <- *q
		s.prefetch(gen, roundIndex+1)
	}()
	return out
}

// RequestQuestion is the blocking form of Request
func (s *QuestionSupply) RequestQuestion(ctx context.Context, roundIndex int) model.Question {
	return <-s.Request(ctx, roundIndex)
}

// Wait blocks until all background work has finished
func (s *QuestionSupply) Wait() {
	s.wg.Wait()
}

// Close cancels in-flight prefetches
func (s *QuestionSupply) Close() {
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()
}

// Fetches is the number of remote fetches attempted so far
func (s *QuestionSupply) Fetches() int64 {
	return s.fetches.Load()
}

func (s *QuestionSupply) requestLocked(roundIndex int) model.QuestionRequest {
	return model.QuestionRequest{
		Topic:             s.topic,
		DifficultyTier:    s.tier,
		RoundIndex:        roundIndex,
		PreviousQuestions: append([]string(nil), s.history...),
	}
}

func (s *QuestionSupply) record(gen uint64, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.generation {
		s.history = append(s.history, text)
	}
}

func (s *QuestionSupply) procedural(sessionID string, tier model.Tier, roundIndex int) *model.Question {
	q := s.generator.Generate(tier, questiongen.SeedFor(sessionID, roundIndex))
	return &q
}

// prefetch fires an unawaited fetch for roundIndex; success fills the slot
// unless the generation moved on or the round was already handed out
func (s *QuestionSupply) prefetch(gen uint64, roundIndex int) {
	if s.fetcher == nil {
		return
	}
	s.mu.Lock()
	if gen != s.generation || (s.rounds > 0 && roundIndex >= s.rounds) {
		s.mu.Unlock()
		return
	}
	req := s.requestLocked(roundIndex)
	ctx := s.ctx
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		q, err := s.fetch(ctx, req)
		if err != nil {
			log.Printf("[Supply] Prefetch of round %d failed: %v", roundIndex, err)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.generation || roundIndex <= s.issued {
			return
		}
		s.cache = &prefetched{generation: gen, round: roundIndex, question: *q}
	}()
}

// fetch makes one remote attempt bounded by the fetch timeout, even when the
// fetcher ignores its context
func (s *QuestionSupply) fetch(ctx context.Context, req model.QuestionRequest) (*model.Question, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("no remote question source")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		q   *model.Question
		err error
	}
	done := make(chan result, 1)
	s.fetches.Add(1)
	go func() {
		q, err := s.fetcher.FetchQuestion(ctx, req)
		done <- result{q, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		if r.q == nil {
			return nil, fmt.Errorf("%w: empty response", model.ErrMalformedQuestion)
		}
		if err := r.q.Validate(); err != nil {
			return nil, err
		}
		q := *r.q
		q.Source = model.SourceRemote
		return &q, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
