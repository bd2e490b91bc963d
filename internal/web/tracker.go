package web

import (
	"sync"

	"github.com/kevinmichaelchen/portfolio-feed/internal/pipeline"
)

// Tracker orders overlapping loads. Each load takes a token from Begin;
// Complete accepts a result only if no newer load has completed already.
type Tracker struct {
	mu       sync.Mutex
	issued   uint64
	accepted uint64
	latest   pipeline.Result
}

func (t *Tracker) Begin() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.issued++
	return t.issued
}

// Complete records res for token and reports whether it was kept. A false
// return means res is stale and Latest holds a newer result.
func (t *Tracker) Complete(token uint64, res pipeline.Result) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if token <= t.accepted {
		return false
	}
	t.accepted = token
	t.latest = res
	return true
}

// Latest returns the most recently accepted result. ok is false before the
// first load completes.
func (t *Tracker) Latest() (res pipeline.Result, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest, t.accepted > 0
}
