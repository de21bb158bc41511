package service

import (
	"errors"
	"quizarena/internal/game"
	"quizarena/internal/model"
	"sync"
	"sync/atomic"
	"time"
)

var ErrSessionRunning = errors.New("session is already running")

// runner inbox commands
type (
	intentCmd struct {
		intent game.Intent
	}
	startCmd struct {
		reply chan error
	}
)

// Runner owns one engine and ticks it at a fixed rate. All engine access
// happens on the Run goroutine; other goroutines talk to it through Inbox.
type Runner struct {
	ID     string
	Inbox  chan any
	engine *game.Engine
	supply *QuestionSupply
	config game.Config

	tickHz         int
	broadcastEvery int
	broadcaster    Broadcaster

	// intents latched since the last tick
	pending   game.Intent
	lastState string

	mu     sync.RWMutex
	latest game.Snapshot
	result *model.SessionResult

	lastActive atomic.Int64
	quit       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
}

func newRunner(id string, engine *game.Engine, supply *QuestionSupply, cfg game.Config, tickHz, broadcastEvery int, b Broadcaster) *Runner {
	if tickHz <= 0 {
		tickHz = game.TickHz
	}
	if broadcastEvery <= 0 {
		broadcastEvery = 1
	}
	r := &Runner{
		ID:             id,
		Inbox:          make(chan any, 256),
		engine:         engine,
		supply:         supply,
		config:         cfg,
		tickHz:         tickHz,
		broadcastEvery: broadcastEvery,
		broadcaster:    b,
		latest:         engine.Snapshot(),
		quit:           make(chan struct{}),
		done:           make(chan struct{}),
	}
	r.touch()
	return r
}

// Run blocks until Stop is called
func (r *Runner) Run() {
	defer close(r.done)
	ticker := time.NewTicker(time.Second / time.Duration(r.tickHz))
	defer ticker.Stop()

	for {
		select {
		case <-r.quit:
			r.engine.Shutdown()
			r.supply.Close()
			return
		case cmd := <-r.Inbox:
			r.handleCommand(cmd)
		case <-ticker.C:
			r.step()
		}
	}
}

func (r *Runner) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case intentCmd:
		r.pending = r.pending.Merge(c.intent)
	case startCmd:
		c.reply <- r.start()
	}
}

func (r *Runner) start() error {
	switch st := r.engine.State(); {
	case st == game.StateMenu:
		return r.engine.Start(r.config)
	case st.Terminal():
		r.pending.Restart = true
		return nil
	default:
		return ErrSessionRunning
	}
}

func (r *Runner) step() {
	in := r.pending
	r.pending = in.Held()

	snap := r.engine.Tick(in)
	r.mu.Lock()
	r.latest = snap
	if res := r.engine.Result(); res != nil {
		copied := *res
		r.result = &copied
	}
	r.mu.Unlock()

	changed := snap.State != r.lastState
	r.lastState = snap.State
	if r.broadcaster != nil && (changed || snap.Tick%uint64(r.broadcastEvery) == 0) {
		r.broadcaster.BroadcastSnapshot(r.ID, snap)
	}
}

// Stop ends the run loop and waits for it to exit
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
	<-r.done
}

// SendIntent queues input for the next tick without blocking the caller
func (r *Runner) SendIntent(in game.Intent) bool {
	r.touch()
	select {
	case r.Inbox <- intentCmd{intent: in}:
		return true
	case <-r.quit:
		return false
	default:
		return false
	}
}

// Start begins a new run with the session's configuration
func (r *Runner) Start() error {
	r.touch()
	reply := make(chan error, 1)
	select {
	case r.Inbox <- startCmd{reply: reply}:
	case <-r.quit:
		return ErrSessionNotFound
	}
	select {
	case err := <-reply:
		return err
	case <-r.done:
		return ErrSessionNotFound
	}
}

// Snapshot returns the most recent tick's snapshot
func (r *Runner) Snapshot() game.Snapshot {
	r.touch()
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

// Result returns the last finished run's report, nil while none has finished
func (r *Runner) Result() *model.SessionResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.result
}

func (r *Runner) touch() {
	r.lastActive.Store(time.Now().UnixNano())
}

func (r *Runner) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, r.lastActive.Load()))
}
