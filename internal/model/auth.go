package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are JWT claims for a session-scoped play token
type SessionClaims struct {
	SessionID  string `json:"sessionId"`
	PlayerName string `json:"playerName"`
	jwt.RegisteredClaims
}
