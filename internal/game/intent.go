package game

import "quizarena/internal/model"

// Intent is the normalized input for one tick. Left, Right and Shield are held
// states; Fire, Restart, Pause and Exit are edges consumed by a single tick.
type Intent struct {
	Left    bool
	Right   bool
	Fire    bool
	Shield  bool
	Restart bool
	Pause   bool
	Exit    bool
}

func IntentFromMessage(m model.IntentMessage) Intent {
	return Intent{
		Left:    m.Left,
		Right:   m.Right,
		Fire:    m.Fire,
		Shield:  m.Shield,
		Restart: m.Restart,
		Pause:   m.Pause,
		Exit:    m.Exit,
	}
}

// Merge folds a newer input into a pending one: held states take the newer
// value, edges stay set until a tick consumes them.
func (in Intent) Merge(next Intent) Intent {
	return Intent{
		Left:    next.Left,
		Right:   next.Right,
		Shield:  next.Shield,
		Fire:    in.Fire || next.Fire,
		Restart: in.Restart || next.Restart,
		Pause:   in.Pause || next.Pause,
		Exit:    in.Exit || next.Exit,
	}
}

// Held drops the edges, keeping only the held states
func (in Intent) Held() Intent {
	return Intent{Left: in.Left, Right: in.Right, Shield: in.Shield}
}
