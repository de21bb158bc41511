package game

import (
	"quizarena/internal/model"
	"time"

	"github.com/shopspring/decimal"
)

// AccuracyPercent returns correct/played as a percentage with two decimals
func AccuracyPercent(correct, played int) decimal.Decimal {
	if played <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(correct)).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(played)), 2)
}

// BuildResult produces the terminal report of a session
func BuildResult(s *Session, passed bool, endedAt time.Time) model.SessionResult {
	played := s.RoundsPlayed()
	return model.SessionResult{
		SessionID:       s.ID,
		PlayerName:      s.Config.PlayerName,
		Topic:           s.Config.Topic,
		Tier:            s.Config.Tier,
		FinalScore:      s.Score,
		RoundsCorrect:   s.RoundsCorrect,
		RoundsPlayed:    played,
		TotalRounds:     s.Config.TotalRounds,
		PassThreshold:   s.PassThreshold,
		Passed:          passed,
		Practice:        s.Config.Practice,
		AccuracyPercent: AccuracyPercent(s.RoundsCorrect, played).StringFixed(2),
		EndedAt:         endedAt,
	}
}
