package model

import "time"

// SessionResult is the terminal report of one assessment run
type SessionResult struct {
	SessionID       string    `json:"sessionId" bson:"sessionId"`
	PlayerName      string    `json:"playerName" bson:"playerName"`
	Topic           string    `json:"topic" bson:"topic"`
	Tier            Tier      `json:"difficultyTier" bson:"difficultyTier"`
	FinalScore      int       `json:"finalScore" bson:"finalScore"`
	RoundsCorrect   int       `json:"roundsCorrect" bson:"roundsCorrect"`
	RoundsPlayed    int       `json:"roundsPlayed" bson:"roundsPlayed"`
	TotalRounds     int       `json:"totalRounds" bson:"totalRounds"`
	PassThreshold   int       `json:"passThreshold" bson:"passThreshold"`
	Passed          bool      `json:"passed" bson:"passed"`
	Practice        bool      `json:"practice" bson:"practice"`
	AccuracyPercent string    `json:"accuracyPercent" bson:"accuracyPercent"` // fixed two decimals, e.g. "70.00"
	EndedAt         time.Time `json:"endedAt" bson:"endedAt"`
}

// RewardReport is the payload sent to the external economy/grading service
type RewardReport struct {
	SessionID       string `json:"sessionId"`
	FinalScore      int    `json:"finalScore"`
	AccuracyPercent string `json:"accuracyPercent"`
	Passed          bool   `json:"passed"`
}
