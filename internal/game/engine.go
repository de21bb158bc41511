package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"quizarena/internal/model"
	"time"
)

// State is the top-level controller state
type State uint8

const (
	StateMenu State = iota
	StateCountdown
	StatePlaying
	StateVictory
	StateGameOver
)

var stateNames = [...]string{"MENU", "COUNTDOWN", "PLAYING", "VICTORY", "GAMEOVER"}

func (s State) String() string {
	if int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", uint8(s))
	}
	return stateNames[s]
}

// Terminal reports whether the state ends a session
func (s State) Terminal() bool {
	return s == StateVictory || s == StateGameOver
}

// QuestionSource supplies one question per round. The returned channel yields
// exactly one valid question; it never reports an error.
type QuestionSource interface {
	Reset(sessionID, topic string, tier model.Tier, totalRounds int)
	Request(ctx context.Context, roundIndex int) <-chan model.Question
}

// ResultSink receives the terminal report of a session
type ResultSink interface {
	SubmitResult(ctx context.Context, result model.SessionResult)
}

// ScoreBoard is the best-effort high-score list
type ScoreBoard interface {
	TopScores(ctx context.Context) ([]model.HighScore, error)
	RecordScore(ctx context.Context, score model.HighScore) error
}

// Deps are the engine's collaborators. Results and Scores are optional.
type Deps struct {
	Supply  QuestionSource
	Results ResultSink
	Scores  ScoreBoard
	Seed    int64
	NewID   func() string
	Context context.Context
}

var ErrNotInMenu = errors.New("game: session can only start from MENU")

// Engine is the round/session state machine. It is not safe for concurrent use;
// the host serializes calls to Start and Tick.
type Engine struct {
	deps  Deps
	ctx   context.Context
	rng   *rand.Rand
	state State

	session   *Session
	countdown int
	paused    bool
	ticks     uint64
	nextID    int

	lastConfig Config
	lastResult *model.SessionResult

	highScores []model.HighScore
	scoresCh   chan []model.HighScore
}

func NewEngine(deps Deps) *Engine {
	ctx := deps.Context
	if ctx == nil {
		ctx = context.Background()
	}
	e := &Engine{
		deps:     deps,
		ctx:      ctx,
		rng:      rand.New(rand.NewSource(deps.Seed)),
		state:    StateMenu,
		scoresCh: make(chan []model.HighScore, 1),
	}
	e.loadHighScores()
	return e
}

func (e *Engine) State() State { return e.state }

// Session returns the active session, nil in MENU
func (e *Engine) Session() *Session { return e.session }

// Result returns the report of the last finished session
func (e *Engine) Result() *model.SessionResult { return e.lastResult }

// Start begins a new session: MENU → COUNTDOWN
func (e *Engine) Start(cfg Config) error {
	if e.state != StateMenu {
		return ErrNotInMenu
	}
	e.begin(cfg)
	return nil
}

func (e *Engine) begin(cfg Config) {
	if e.session != nil {
		e.session.close()
	}
	s := newSession(e.ctx, e.newID(), cfg)
	e.session = s
	e.lastConfig = s.Config
	e.lastResult = nil
	e.paused = false
	e.countdown = CountdownSeconds * TickHz
	e.state = StateCountdown

	e.deps.Supply.Reset(s.ID, s.Config.Topic, s.Config.Tier, s.Config.TotalRounds)
	e.requestRound(0)
}

func (e *Engine) newID() string {
	if e.deps.NewID != nil {
		return e.deps.NewID()
	}
	e.nextID++
	return fmt.Sprintf("session-%d", e.nextID)
}

func (e *Engine) requestRound(round int) {
	s := e.session
	s.pendingRound = round
	s.pending = e.deps.Supply.Request(s.ctx, round)
}

// Tick advances the simulation by one frame and returns the resulting snapshot
func (e *Engine) Tick(in Intent) Snapshot {
	e.drainHighScores()
	e.ticks++

	switch e.state {
	case StateCountdown:
		if in.Exit {
			e.exitToMenu()
			break
		}
		e.countdown--
		if e.countdown <= 0 {
			e.state = StatePlaying
		}
	case StatePlaying:
		e.stepPlaying(in)
	case StateVictory, StateGameOver:
		if in.Restart {
			e.begin(e.lastConfig)
		} else if in.Exit {
			e.exitToMenu()
		}
	}
	return e.Snapshot()
}

func (e *Engine) stepPlaying(in Intent) {
	s := e.session
	if in.Exit {
		e.exitToMenu()
		return
	}
	if in.Pause {
		e.paused = !e.paused
	}
	if e.paused {
		return
	}

	if s.Loading() {
		select {
		case q := <-s.pending:
			s.pending = nil
			s.spawnRound(q, e.rng)
		default:
			s.movePlayer(in)
			s.TickShield(in.Shield)
		}
		s.Regen()
		return
	}

	// 1. intents
	s.movePlayer(in)
	s.TickShield(in.Shield)
	if in.Fire {
		s.fire()
	}

	// 2. physics
	StepAnswers(s.Answers, s.Difficulty, e.rng)
	s.Projectiles = StepProjectiles(s.Projectiles)
	s.Bombs = StepBombs(s.Bombs, s.PlayerX)
	s.Bombs = append(s.Bombs, SpawnBombs(s.Answers, s.Difficulty, s.PlayerX, e.rng)...)

	// 3. collisions
	outcome := s.resolveShots()
	if s.resolveBombs() {
		outcome = OutcomeHealthDepleted
	}
	if outcome == OutcomeNone && s.Ammo == 0 && !s.shotsInFlight() {
		outcome = OutcomeAmmoDepleted
	}

	// 4. resource deltas
	if outcome != OutcomeHealthDepleted {
		outcome = s.applyOutcome(outcome)
	}
	if outcome != OutcomeHealthDepleted {
		s.Regen()
	}
	if outcome != OutcomeNone {
		s.LastOutcome = outcome
	}

	// 5/6. round boundary and terminal transitions
	switch {
	case outcome == OutcomeHealthDepleted:
		e.finish(StateGameOver)
	case outcome.advancesRound():
		s.RoundIndex++
		s.endRound()
		if s.RoundIndex >= s.Config.TotalRounds {
			if s.RoundsCorrect >= s.PassThreshold {
				e.finish(StateVictory)
			} else {
				e.finish(StateGameOver)
			}
			return
		}
		e.requestRound(s.RoundIndex)
	}
}

// finish enters a terminal state and fires the result and high-score writes
// without waiting for them.
func (e *Engine) finish(state State) {
	s := e.session
	e.state = state
	s.pending = nil
	s.cancel()

	result := BuildResult(s, state == StateVictory, time.Now().UTC())
	e.lastResult = &result

	if e.deps.Results != nil {
		go e.deps.Results.SubmitResult(e.ctx, result)
	}
	if e.deps.Scores != nil && !s.Config.Practice {
		hs := model.HighScore{
			Name:       s.Config.PlayerName,
			Score:      s.Score,
			Tier:       s.Config.Tier,
			AchievedAt: result.EndedAt,
		}
		go func() {
			if err := e.deps.Scores.RecordScore(e.ctx, hs); err != nil {
				log.Printf("[Arena] Failed to record high score for %s: %v", result.SessionID, err)
			}
		}()
	}
}

func (e *Engine) exitToMenu() {
	if e.session != nil {
		e.session.close()
		e.session = nil
	}
	e.paused = false
	e.countdown = 0
	e.state = StateMenu
	e.loadHighScores()
}

// loadHighScores reads the list in the background; the next tick picks it up
func (e *Engine) loadHighScores() {
	if e.deps.Scores == nil {
		return
	}
	go func() {
		scores, err := e.deps.Scores.TopScores(e.ctx)
		if err != nil {
			log.Printf("[Arena] Failed to load high scores: %v", err)
			scores = nil
		}
		select {
		case e.scoresCh <- scores:
		default:
		}
	}()
}

func (e *Engine) drainHighScores() {
	select {
	case scores := <-e.scoresCh:
		e.highScores = scores
	default:
	}
}

// Shutdown cancels the active session's in-flight work
func (e *Engine) Shutdown() {
	if e.session != nil {
		e.session.close()
	}
}
