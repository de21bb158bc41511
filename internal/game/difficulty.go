package game

import "quizarena/internal/model"

// Difficulty holds the per-tier tuning that scales scoring and enemy aggression
type Difficulty struct {
	Tier                 model.Tier
	ScoreMultiplier      float64
	EnemyBaseSpeed       float64 // bomb speed in px/tick
	MaxAnswerSpeed       float64 // answer body speed ceiling in px/tick
	BombRate             float64 // spawn probability per answer body per tick
	BombDamageMultiplier float64
	BombTypes            []BombType
}

var difficulties = [model.TierCount]Difficulty{
	model.TierEasy: {
		Tier:                 model.TierEasy,
		ScoreMultiplier:      1.0,
		EnemyBaseSpeed:       2.5,
		MaxAnswerSpeed:       2.0,
		BombRate:             0.0015,
		BombDamageMultiplier: 1.0,
		BombTypes:            []BombType{BombStraight, BombSine},
	},
	model.TierMedium: {
		Tier:                 model.TierMedium,
		ScoreMultiplier:      1.5,
		EnemyBaseSpeed:       3.0,
		MaxAnswerSpeed:       3.0,
		BombRate:             0.003,
		BombDamageMultiplier: 1.0,
		BombTypes:            []BombType{BombStraight, BombSine, BombTracking},
	},
	model.TierHard: {
		Tier:                 model.TierHard,
		ScoreMultiplier:      2.0,
		EnemyBaseSpeed:       3.5,
		MaxAnswerSpeed:       4.0,
		BombRate:             0.005,
		BombDamageMultiplier: 1.0,
		BombTypes:            []BombType{BombStraight, BombSine, BombTracking, BombPiercing, BombCluster},
	},
	model.TierStreamer: {
		Tier:                 model.TierStreamer,
		ScoreMultiplier:      3.0,
		EnemyBaseSpeed:       4.5,
		MaxAnswerSpeed:       5.5,
		BombRate:             0.008,
		BombDamageMultiplier: 1.5,
		BombTypes:            []BombType{BombStraight, BombSine, BombTracking, BombPiercing, BombCluster},
	},
}

// DifficultyFor returns the tuning for a tier; unknown tiers fall back to EASY
func DifficultyFor(t model.Tier) Difficulty {
	if !t.Valid() {
		return difficulties[model.TierEasy]
	}
	return difficulties[t]
}

// BombDamageFor returns the health cost of a bomb of type t hitting the player
func (d Difficulty) BombDamageFor(t BombType) float64 {
	base := BombDamage
	switch t {
	case BombPiercing:
		base = PiercingDamage
	case BombClusterFrag:
		base = FragDamage
	}
	return base * d.BombDamageMultiplier
}

// ScaledPenalty applies the score multiplier to a fixed penalty
func (d Difficulty) ScaledPenalty(points int) int {
	return int(float64(points)*d.ScoreMultiplier + 0.5)
}
