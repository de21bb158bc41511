package game

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"quizarena/internal/model"
)

// Outcome is how a round ended
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeCorrect
	OutcomeWrong
	OutcomeAmmoDepleted
	OutcomeHealthDepleted
)

var outcomeNames = [...]string{"NONE", "CORRECT", "WRONG", "AMMO_DEPLETED", "HEALTH_DEPLETED"}

func (o Outcome) String() string {
	if int(o) >= len(outcomeNames) {
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
	return outcomeNames[o]
}

// advancesRound reports whether the outcome moves play on to the next round
func (o Outcome) advancesRound() bool {
	return o == OutcomeCorrect || o == OutcomeWrong || o == OutcomeAmmoDepleted
}

// Config describes one assessment run
type Config struct {
	PlayerName  string
	Topic       string
	Tier        model.Tier
	TotalRounds int
	Practice    bool
}

func (c Config) withDefaults() Config {
	if c.TotalRounds <= 0 {
		c.TotalRounds = DefaultTotalRounds
	}
	if !c.Tier.Valid() {
		c.Tier = model.TierEasy
	}
	return c
}

// PassThreshold returns ceil(total × PassRatio)
func PassThreshold(totalRounds int) int {
	return int(math.Ceil(float64(totalRounds)*PassRatio - 1e-9))
}

// Session is one full assessment run. All fields are owned by the engine's tick loop.
type Session struct {
	ID            string
	Config        Config
	Difficulty    Difficulty
	PassThreshold int
	RoundIndex    int
	RoundsCorrect int
	Resources

	PlayerX     float64
	Question    *model.Question
	Answers     []AnswerEntity
	Projectiles []Projectile
	Bombs       []Bomb
	LastOutcome Outcome

	// next question, resolved asynchronously by the supply
	pending      <-chan model.Question
	pendingRound int

	ctx    context.Context
	cancel context.CancelFunc
}

func newSession(parent context.Context, id string, cfg Config) *Session {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(parent)
	return &Session{
		ID:            id,
		Config:        cfg,
		Difficulty:    DifficultyFor(cfg.Tier),
		PassThreshold: PassThreshold(cfg.TotalRounds),
		Resources:     NewResources(),
		PlayerX:       ArenaWidth / 2,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Loading reports whether the session is waiting for the current round's question
func (s *Session) Loading() bool {
	return s.pending != nil
}

func (s *Session) close() {
	s.pending = nil
	s.cancel()
}

// spawnRound resets round-local state and lays the options out as answer bodies
func (s *Session) spawnRound(q model.Question, rng *rand.Rand) {
	s.Question = &q
	s.Projectiles = s.Projectiles[:0]
	s.Bombs = nil
	s.RefillAmmo()

	s.Answers = make([]AnswerEntity, len(q.Options))
	cols := float64(len(q.Options))
	slot := ArenaWidth / cols
	midY := SafeMarginTop + (ArenaHeight-SafeMarginTop-SafeMarginBottom-AnswerHeight)/2
	for i, opt := range q.Options {
		angle := rng.Float64() * 2 * math.Pi
		s.Answers[i] = AnswerEntity{
			X:           slot*float64(i) + (slot-AnswerWidth)/2,
			Y:           midY + (rng.Float64()*2-1)*40,
			VX:          math.Cos(angle) * AnswerSpawnSpeed,
			VY:          math.Sin(angle) * AnswerSpawnSpeed,
			W:           AnswerWidth,
			H:           AnswerHeight,
			OptionIndex: i,
			Text:        opt,
			IsCorrect:   i == q.CorrectIndex,
			Active:      true,
		}
		bounce(&s.Answers[i])
	}
	mustOneCorrect(s.Answers)
}

// mustOneCorrect panics unless exactly one answer body carries the correct option
func mustOneCorrect(ents []AnswerEntity) {
	n := 0
	for _, e := range ents {
		if e.IsCorrect {
			n++
		}
	}
	if n != 1 {
		panic(fmt.Sprintf("game: round spawned with %d correct answers", n))
	}
}

func (s *Session) movePlayer(in Intent) {
	if in.Left {
		s.PlayerX -= PlayerSpeed
	}
	if in.Right {
		s.PlayerX += PlayerSpeed
	}
	s.PlayerX = math.Max(PlayerWidth/2, math.Min(ArenaWidth-PlayerWidth/2, s.PlayerX))
}

func (s *Session) fire() {
	if !s.Fire() {
		return
	}
	s.Projectiles = append(s.Projectiles, Projectile{
		X:      s.PlayerX,
		Y:      PlayerY - PlayerHeight/2,
		VY:     -ProjectileSpeed,
		Active: true,
	})
}

// resolveShots checks player shots against answer bodies. The first hit ends the round.
func (s *Session) resolveShots() Outcome {
	for pi := range s.Projectiles {
		p := &s.Projectiles[pi]
		if !p.Active {
			continue
		}
		for ai := range s.Answers {
			a := &s.Answers[ai]
			if !a.Active || !a.Contains(p.X, p.Y) {
				continue
			}
			p.Active = false
			a.Active = false
			if a.IsCorrect {
				return OutcomeCorrect
			}
			return OutcomeWrong
		}
	}
	return OutcomeNone
}

// resolveBombs absorbs bombs with the shield or applies their damage.
// Returns true when the player ran out of health.
func (s *Session) resolveBombs() bool {
	shield := s.ShieldActive()
	for i := range s.Bombs {
		b := &s.Bombs[i]
		if !b.Active {
			continue
		}
		if shield && !b.Type.ShieldImmune() && math.Hypot(b.X-s.PlayerX, b.Y-PlayerY) <= ShieldRadius {
			b.Active = false
			continue
		}
		if math.Abs(b.X-s.PlayerX) > PlayerWidth/2+BombRadius || math.Abs(b.Y-PlayerY) > PlayerHeight/2+BombRadius {
			continue
		}
		b.Active = false
		s.Penalize(s.Difficulty.ScaledPenalty(BombHitScorePenalty))
		if s.Damage(s.Difficulty.BombDamageFor(b.Type)) {
			return true
		}
	}
	return false
}

func (s *Session) shotsInFlight() bool {
	for _, p := range s.Projectiles {
		if p.Active {
			return true
		}
	}
	return false
}

// CorrectPoints is the award for a correct hit on the current question
func (s *Session) CorrectPoints() int {
	if s.Config.Practice || s.Question == nil {
		return 0
	}
	return int(math.Round(BasePoints * s.Difficulty.ScoreMultiplier * s.Config.Tier.Complexity()))
}

// applyOutcome turns a round outcome into resource deltas. Health depletion
// caused by the penalty overrides the outcome.
func (s *Session) applyOutcome(o Outcome) Outcome {
	switch o {
	case OutcomeCorrect:
		s.AddScore(s.CorrectPoints())
		s.RoundsCorrect++
	case OutcomeWrong:
		s.Penalize(s.Difficulty.ScaledPenalty(WrongHitScorePenalty))
		if s.Damage(WrongHitDamage) {
			return OutcomeHealthDepleted
		}
	case OutcomeAmmoDepleted:
		s.Penalize(s.Difficulty.ScaledPenalty(AmmoDepletedScorePenalty))
		if s.Damage(AmmoDepletedDamage) {
			return OutcomeHealthDepleted
		}
	}
	return o
}

// endRound clears round-local entities
func (s *Session) endRound() {
	s.Question = nil
	s.Answers = nil
	s.Projectiles = s.Projectiles[:0]
	s.Bombs = nil
}

// RoundsPlayed counts resolved rounds, including one cut short by health depletion
func (s *Session) RoundsPlayed() int {
	n := s.RoundIndex
	if s.LastOutcome == OutcomeHealthDepleted && n < s.Config.TotalRounds {
		n++
	}
	return n
}
