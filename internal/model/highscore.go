package model

import "time"

// HighScore is one entry of the ranked high-score list
type HighScore struct {
	Name       string    `json:"name"`
	Score      int       `json:"score"`
	Tier       Tier      `json:"difficultyTier"`
	AchievedAt time.Time `json:"achievedAt"`
}
