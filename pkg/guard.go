package pkg

import "sync/atomic"

// Guard is a single-permit access guard. The zero value is open.
//
// Acquire never blocks or queues: a caller that loses the race gets
// ErrAlreadyOpen immediately.
type Guard struct {
	held atomic.Int32
}

// Acquire takes the permit, or returns ErrAlreadyOpen if it is held.
func (g *Guard) Acquire() error {
	if g.held.Add(1) != 1 {
		g.held.Add(-1)
		return ErrAlreadyOpen
	}
	return nil
}

// Release returns the permit. It must be called once per successful Acquire.
func (g *Guard) Release() {
	g.held.Add(-1)
}

// Held reports whether the permit is taken.
func (g *Guard) Held() bool {
	return g.held.Load() > 0
}
