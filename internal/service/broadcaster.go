package service

import "quizarena/internal/game"

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastSnapshot(sessionID string, snap game.Snapshot)
	DisconnectSession(sessionID string)
}
