package engine

import (
	"sync"
	"time"

	"github.com/ardnew/softdma/dma/hal"
	"github.com/ardnew/softdma/pkg"
)

// completion is a single-shot latch bridging a channel callback to a
// blocked caller. A signal that arrives before wait is called is kept.
type completion struct {
	done   chan struct{}
	once   sync.Once
	cookie hal.Cookie
	status pkg.TransferStatus
}

func newCompletion() *completion {
	return &completion{done: make(chan struct{})}
}

// complete records the result and wakes the waiter. Calls after the first
// are ignored. It never blocks, so it is safe on the notification goroutine.
func (c *completion) complete(cookie hal.Cookie, status pkg.TransferStatus) {
	c.once.Do(func() {
		c.cookie = cookie
		c.status = status
		close(c.done)
	})
}

// wait blocks until complete is called. A positive timeout bounds the wait;
// ok is false if it expired first.
func (c *completion) wait(timeout time.Duration) (status pkg.TransferStatus, ok bool) {
	if timeout <= 0 {
		<-c.done
		return c.status, true
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-c.done:
		return c.status, true
	case <-timer.C:
		return c.poll()
	}
}

// poll returns the result without blocking.
func (c *completion) poll() (pkg.TransferStatus, bool) {
	select {
	case <-c.done:
		return c.status, true
	default:
		return pkg.TransferStatusError, false
	}
}
