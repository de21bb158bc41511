package model

// StartSessionRequest is the request body for starting a session
type StartSessionRequest struct {
	PlayerName  string `json:"playerName"`
	Topic       string `json:"topic"`
	Tier        Tier   `json:"difficultyTier"`
	TotalRounds int    `json:"totalRounds,omitempty"`
	Practice    bool   `json:"practice,omitempty"`
	Seed        int64  `json:"seed,omitempty"`
}

// StartSessionResponse is returned when a session is created
type StartSessionResponse struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
}

// IntentMessage is the wire form of one frame of player input.
// Left, Right and Shield are held states; the rest are edges.
type IntentMessage struct {
	Left    bool `json:"left,omitempty" msgpack:"left,omitempty"`
	Right   bool `json:"right,omitempty" msgpack:"right,omitempty"`
	Fire    bool `json:"fire,omitempty" msgpack:"fire,omitempty"`
	Shield  bool `json:"shield,omitempty" msgpack:"shield,omitempty"`
	Restart bool `json:"restart,omitempty" msgpack:"restart,omitempty"`
	Pause   bool `json:"pause,omitempty" msgpack:"pause,omitempty"`
	Exit    bool `json:"exit,omitempty" msgpack:"exit,omitempty"`
}
