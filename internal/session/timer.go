package session

import (
	"sync"
	"time"
)

// Timer reports how long the session has been running.
type Timer interface {
	ElapsedSeconds() int
}

// Stopwatch is a Timer that starts running when created.
type Stopwatch struct {
	mu      sync.Mutex
	started time.Time
	now     func() time.Time
}

// NewStopwatch returns a running stopwatch. now may be nil to use time.Now.
func NewStopwatch(now func() time.Time) *Stopwatch {
	if now == nil {
		now = time.Now
	}
	return &Stopwatch{started: now(), now: now}
}

// ElapsedSeconds returns whole seconds since the last start.
func (w *Stopwatch) ElapsedSeconds() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return int(w.now().Sub(w.started) / time.Second)
}

// Restart sets the elapsed time back to zero.
func (w *Stopwatch) Restart() {
	w.mu.Lock()
	w.started = w.now()
	w.mu.Unlock()
}
