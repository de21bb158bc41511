package game

import "quizarena/internal/model"

// AnswerView is the render view of an answer body; correctness is not exposed
type AnswerView struct {
	X           float64 `json:"x" msgpack:"x"`
	Y           float64 `json:"y" msgpack:"y"`
	W           float64 `json:"w" msgpack:"w"`
	H           float64 `json:"h" msgpack:"h"`
	OptionIndex int     `json:"optionIndex" msgpack:"o"`
	Text        string  `json:"text" msgpack:"t"`
}

type ProjectileView struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

type BombView struct {
	X    float64 `json:"x" msgpack:"x"`
	Y    float64 `json:"y" msgpack:"y"`
	Type string  `json:"type" msgpack:"k"`
}

// Snapshot is the read-only per-tick view handed to renderers
type Snapshot struct {
	Tick          uint64            `json:"tick" msgpack:"tick"`
	State         string            `json:"state" msgpack:"state"`
	SessionID     string            `json:"sessionId,omitempty" msgpack:"sid,omitempty"`
	Countdown     int               `json:"countdownTicks,omitempty" msgpack:"cd,omitempty"`
	Paused        bool              `json:"paused,omitempty" msgpack:"paused,omitempty"`
	Loading       bool              `json:"loading,omitempty" msgpack:"loading,omitempty"`
	Tier          string            `json:"difficultyTier,omitempty" msgpack:"tier,omitempty"`
	RoundIndex    int               `json:"currentRoundIndex" msgpack:"round"`
	TotalRounds   int               `json:"totalRounds" msgpack:"total"`
	RoundsCorrect int               `json:"roundsCorrect" msgpack:"correct"`
	PassThreshold int               `json:"passThreshold" msgpack:"pass"`
	Question      string            `json:"currentQuestionText,omitempty" msgpack:"q,omitempty"`
	LastOutcome   string            `json:"lastOutcome,omitempty" msgpack:"last,omitempty"`
	PlayerX       float64           `json:"playerX" msgpack:"px"`
	Health        float64           `json:"health" msgpack:"hp"`
	Shield        float64           `json:"shield" msgpack:"sh"`
	ShieldActive  bool              `json:"shieldActive,omitempty" msgpack:"sa,omitempty"`
	ShieldFizzle  bool              `json:"shieldFizzle,omitempty" msgpack:"sf,omitempty"`
	Ammo          int               `json:"ammo" msgpack:"ammo"`
	Score         int               `json:"score" msgpack:"score"`
	Answers       []AnswerView      `json:"entities" msgpack:"ents"`
	Projectiles   []ProjectileView  `json:"projectiles" msgpack:"proj"`
	Bombs         []BombView        `json:"bombs" msgpack:"bombs"`
	HighScores    []model.HighScore `json:"highScores,omitempty" msgpack:"hs,omitempty"`
}

// Snapshot copies the current state; the result shares no memory with the engine
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:   e.ticks,
		State:  e.state.String(),
		Paused: e.paused,
	}
	if e.state == StateMenu {
		snap.HighScores = append([]model.HighScore(nil), e.highScores...)
	}
	s := e.session
	if s == nil {
		return snap
	}
	if e.state == StateCountdown {
		snap.Countdown = e.countdown
	}
	snap.SessionID = s.ID
	snap.Loading = e.state == StatePlaying && s.Loading()
	snap.Tier = s.Config.Tier.String()
	snap.RoundIndex = s.RoundIndex
	snap.TotalRounds = s.Config.TotalRounds
	snap.RoundsCorrect = s.RoundsCorrect
	snap.PassThreshold = s.PassThreshold
	if s.Question != nil {
		snap.Question = s.Question.Text
	}
	if s.LastOutcome != OutcomeNone {
		snap.LastOutcome = s.LastOutcome.String()
	}
	snap.PlayerX = s.PlayerX
	snap.Health = s.Health
	snap.Shield = s.Shield
	snap.ShieldActive = s.ShieldActive()
	snap.ShieldFizzle = s.Fizzle()
	snap.Ammo = s.Ammo
	snap.Score = s.Score

	snap.Answers = make([]AnswerView, 0, len(s.Answers))
	for _, a := range s.Answers {
		if a.Active {
			snap.Answers = append(snap.Answers, AnswerView{X: a.X, Y: a.Y, W: a.W, H: a.H, OptionIndex: a.OptionIndex, Text: a.Text})
		}
	}
	snap.Projectiles = make([]ProjectileView, 0, len(s.Projectiles))
	for _, p := range s.Projectiles {
		if p.Active {
			snap.Projectiles = append(snap.Projectiles, ProjectileView{X: p.X, Y: p.Y})
		}
	}
	snap.Bombs = make([]BombView, 0, len(s.Bombs))
	for _, b := range s.Bombs {
		if b.Active {
			snap.Bombs = append(snap.Bombs, BombView{X: b.X, Y: b.Y, Type: b.Type.String()})
		}
	}
	return snap
}
