package ratelimiter

import (
	"sync"
	"time"
)

// FixedWindow counts requests per client in fixed time windows. A client's
// first request opens its window; once the count hits the limit, further
// requests are denied until the window ends. Retry-After is the time left
// in the client's current window, not a full window.
type FixedWindow struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string]*clientWindow

	now func() time.Time // replaced in tests
}

type clientWindow struct {
	started time.Time
	count   int
}

func NewFixedWindowLimiter(limit int, window time.Duration) *FixedWindow {
	rl := &FixedWindow{
		limit:   limit,
		window:  window,
		clients: make(map[string]*clientWindow),
		now:     time.Now,
	}
	go rl.sweep()
	return rl
}

func (rl *FixedWindow) Allow(client string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	cw, ok := rl.clients[client]
	if !ok || now.Sub(cw.started) >= rl.window {
		rl.clients[client] = &clientWindow{started: now, count: 1}
		return true, 0
	}

	if cw.count < rl.limit {
		cw.count++
		return true, 0
	}

	return false, rl.window - now.Sub(cw.started)
}

// sweep drops expired windows so idle clients don't accumulate.
func (rl *FixedWindow) sweep() {
	ticker := time.NewTicker(rl.window)
	for range ticker.C {
		now := rl.now()
		rl.mu.Lock()
		for client, cw := range rl.clients {
			if now.Sub(cw.started) >= rl.window {
				delete(rl.clients, client)
			}
		}
		rl.mu.Unlock()
	}
}
