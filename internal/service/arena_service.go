package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"quizarena/internal/game"
	"quizarena/internal/model"
	"quizarena/internal/questiongen"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidTier     = errors.New("invalid difficulty tier")
	ErrInvalidRounds   = errors.New("totalRounds must be between 1 and 50")
	ErrIntentDropped   = errors.New("session inbox is full")
)

const maxTotalRounds = 50

// ResultLookup finds stored results of sessions that are no longer hosted
type ResultLookup interface {
	GetResult(ctx context.Context, sessionID string) (*model.SessionResult, error)
}

// ArenaConfig holds the hosting parameters of the arena. TickHz is the
// wall-clock tick rate and defaults to game.TickHz; every per-tick rate in the
// game is calibrated to that value, so anything else fast-forwards or slows
// the whole simulation.
type ArenaConfig struct {
	TickHz             int
	BroadcastEvery     int
	DefaultTotalRounds int
	FetchTimeout       time.Duration
	GeneratorKey       string
	IdleTimeout        time.Duration
}

// ArenaService creates and hosts game sessions, one runner goroutine each
type ArenaService struct {
	cfg         ArenaConfig
	fetcher     QuestionFetcher
	results     game.ResultSink
	scores      game.ScoreBoard
	tokens      *TokenService
	broadcaster Broadcaster
	lookup      ResultLookup

	mu      sync.RWMutex
	runners map[string]*Runner
}

// NewArenaService creates a new arena service. fetcher, results and scores may be nil.
func NewArenaService(cfg ArenaConfig, fetcher QuestionFetcher, results game.ResultSink, scores game.ScoreBoard, tokens *TokenService) *ArenaService {
	if cfg.DefaultTotalRounds <= 0 {
		cfg.DefaultTotalRounds = game.DefaultTotalRounds
	}
	return &ArenaService{
		cfg:     cfg,
		fetcher: fetcher,
		results: results,
		scores:  scores,
		tokens:  tokens,
		runners: make(map[string]*Runner),
	}
}

// SetBroadcaster sets the broadcaster for WebSocket notifications
func (s *ArenaService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetResultLookup sets where finished results are read from once a session is gone
func (s *ArenaService) SetResultLookup(l ResultLookup) {
	s.lookup = l
}

// Create validates the request, starts a session runner and issues its token
func (s *ArenaService) Create(ctx context.Context, req model.StartSessionRequest) (*model.StartSessionResponse, error) {
	cfg, err := s.sessionConfig(req)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	token, err := s.tokens.GenerateSessionToken(id, cfg.PlayerName)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	runs := 0
	supply := NewQuestionSupply(s.fetcher, questiongen.New(s.cfg.GeneratorKey), s.cfg.FetchTimeout)
	engine := game.NewEngine(game.Deps{
		Supply:  supply,
		Results: s.results,
		Scores:  s.scores,
		Seed:    seed,
		NewID: func() string {
			runs++
			if runs == 1 {
				return id
			}
			return fmt.Sprintf("%s-%d", id, runs)
		},
	})
	if err := engine.Start(cfg); err != nil {
		return nil, err
	}

	r := newRunner(id, engine, supply, cfg, s.cfg.TickHz, s.cfg.BroadcastEvery, s.broadcaster)
	s.mu.Lock()
	s.runners[id] = r
	s.mu.Unlock()
	go r.Run()

	log.Printf("[Arena] Session %s started: player=%q topic=%q tier=%s rounds=%d practice=%v",
		id, cfg.PlayerName, cfg.Topic, cfg.Tier, cfg.TotalRounds, cfg.Practice)
	return &model.StartSessionResponse{SessionID: id, Token: token}, nil
}

func (s *ArenaService) sessionConfig(req model.StartSessionRequest) (game.Config, error) {
	if !req.Tier.Valid() {
		return game.Config{}, ErrInvalidTier
	}
	rounds := req.TotalRounds
	if rounds == 0 {
		rounds = s.cfg.DefaultTotalRounds
	}
	if rounds < 1 || rounds > maxTotalRounds {
		return game.Config{}, ErrInvalidRounds
	}
	name := strings.TrimSpace(req.PlayerName)
	if name == "" {
		name = "player"
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		topic = "general knowledge"
	}
	return game.Config{
		PlayerName:  name,
		Topic:       topic,
		Tier:        req.Tier,
		TotalRounds: rounds,
		Practice:    req.Practice,
	}, nil
}

// Get returns the runner for a session
func (s *ArenaService) Get(id string) (*Runner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runners[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return r, nil
}

func (s *ArenaService) Snapshot(id string) (game.Snapshot, error) {
	r, err := s.Get(id)
	if err != nil {
		return game.Snapshot{}, err
	}
	return r.Snapshot(), nil
}

func (s *ArenaService) SendIntent(id string, in game.Intent) error {
	r, err := s.Get(id)
	if err != nil {
		return err
	}
	if !r.SendIntent(in) {
		return ErrIntentDropped
	}
	return nil
}

// Start begins a new run of an existing session (from MENU or after it ended)
func (s *ArenaService) Start(id string) error {
	r, err := s.Get(id)
	if err != nil {
		return err
	}
	return r.Start()
}

// Stop ends a session and releases its runner
func (s *ArenaService) Stop(id string) error {
	s.mu.Lock()
	r, ok := s.runners[id]
	delete(s.runners, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	r.Stop()
	if s.broadcaster != nil {
		s.broadcaster.DisconnectSession(id)
	}
	log.Printf("[Arena] Session %s stopped", id)
	return nil
}

// Result returns the last finished run of a live session, or the stored result
func (s *ArenaService) Result(ctx context.Context, id string) (*model.SessionResult, error) {
	if r, err := s.Get(id); err == nil {
		if res := r.Result(); res != nil {
			return res, nil
		}
	}
	if s.lookup == nil {
		return nil, nil
	}
	return s.lookup.GetResult(ctx, id)
}

// SweepIdle stops sessions that have seen no activity for the idle timeout
func (s *ArenaService) SweepIdle(now time.Time) int {
	if s.cfg.IdleTimeout <= 0 {
		return 0
	}
	s.mu.RLock()
	var idle []string
	for id, r := range s.runners {
		if r.idleSince(now) > s.cfg.IdleTimeout {
			idle = append(idle, id)
		}
	}
	s.mu.RUnlock()

	for _, id := range idle {
		s.Stop(id)
	}
	return len(idle)
}

// RunSweeper sweeps idle sessions every minute until ctx is done
func (s *ArenaService) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.SweepIdle(now); n > 0 {
				log.Printf("[Arena] Swept %d idle sessions", n)
			}
		}
	}
}

// Shutdown stops every session
func (s *ArenaService) Shutdown() {
	s.mu.RLock()
	ids := make([]string, 0, len(s.runners))
	for id := range s.runners {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	for _, id := range ids {
		s.Stop(id)
	}
}
