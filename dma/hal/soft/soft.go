package soft

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ardnew/softdma/dma/hal"
	"github.com/ardnew/softdma/pkg"
)

// DefaultChannelCount is the number of channels created by NewController
// when no specs are given.
const DefaultChannelCount = 32

// Errors.
var (
	ErrNotOwned          = errors.New("channel not owned")
	ErrNotConfigured     = errors.New("channel not configured")
	ErrConfigFixed       = errors.New("channel configuration is fixed")
	ErrDescriptorLengths = errors.New("descriptor length mismatch")
)

// ChannelSpec describes one simulated channel.
type ChannelSpec struct {
	Caps     hal.Capability
	Priority hal.Priority

	// Latency delays each transaction before its copy runs.
	Latency time.Duration

	// Fault, if set, is consulted before each copy. A status other than
	// success skips the copy and is reported to the callback.
	Fault func(n int) pkg.TransferStatus
}

// DefaultChannels returns n channel specs. Channel 0 is reserved (no
// general-purpose capability); the rest are general-purpose memcpy/slave
// channels at high priority.
func DefaultChannels(n int) []ChannelSpec {
	specs := make([]ChannelSpec, n)
	for i := range specs {
		specs[i] = ChannelSpec{
			Caps:     hal.CapMemcpy | hal.CapSlave | hal.CapGeneralPurpose,
			Priority: hal.PriorityHigh,
		}
	}
	if n > 0 {
		specs[0].Caps = hal.CapSlave
	}
	return specs
}

// Controller is a software DMA controller.
type Controller struct {
	mu       sync.Mutex
	channels []*Channel
}

// NewController creates a controller with one channel per spec. With no
// specs it uses DefaultChannels(DefaultChannelCount).
func NewController(specs ...ChannelSpec) *Controller {
	if len(specs) == 0 {
		specs = DefaultChannels(DefaultChannelCount)
	}
	c := &Controller{channels: make([]*Channel, len(specs))}
	for i, s := range specs {
		c.channels[i] = &Channel{
			ctrl: c,
			spec: s,
			info: hal.ChannelInfo{
				Name:     fmt.Sprintf("soft%d", i),
				Index:    i,
				Caps:     s.Caps,
				Priority: s.Priority,
			},
		}
	}
	return c
}

// Channels describes every channel of the controller.
func (c *Controller) Channels() []hal.ChannelInfo {
	infos := make([]hal.ChannelInfo, len(c.channels))
	for i, ch := range c.channels {
		infos[i] = ch.info
	}
	return infos
}

// Owned returns the number of channels currently owned.
func (c *Controller) Owned() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, ch := range c.channels {
		if ch.owned.Load() {
			n++
		}
	}
	return n
}

// RequestChannel grants exclusive use of the first free channel matching req.
func (c *Controller) RequestChannel(req hal.Request) (hal.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ch := range c.channels {
		if ch.owned.Load() || !req.Matches(ch.info) {
			continue
		}
		ch.start()
		pkg.LogInfo(pkg.ComponentChannel, "channel acquired",
			"channel", ch.info.Name,
			"caps", ch.info.Caps.String(),
			"priority", ch.info.Priority.String())
		return ch, nil
	}

	pkg.LogWarn(pkg.ComponentChannel, "no channel matches request",
		"caps", req.Caps.String(),
		"priority", req.Priority.String())
	return nil, pkg.ErrNoChannelAvailable
}

// Close releases every owned channel.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.channels {
		if ch.owned.Load() {
			ch.stopLocked()
		}
	}
	return nil
}

// job is an issued transaction tagged with the termination epoch it was
// issued under.
type job struct {
	tx    *hal.Tx
	epoch uint64
}

// Channel is a software copy-engine channel.
type Channel struct {
	ctrl *Controller
	spec ChannelSpec
	info hal.ChannelInfo

	// owned is only written with ctrl.mu held.
	owned atomic.Bool

	mu         sync.Mutex
	cfg        hal.SlaveConfig
	configured bool
	nextCookie hal.Cookie
	pending    []job
	issued     []job
	wake       chan struct{}
	stop       chan struct{}
	wg         sync.WaitGroup

	// epoch increments on Terminate and Release; work issued under an older
	// epoch is dropped.
	epoch atomic.Uint64

	// busy is held while a copy and its callback run.
	busy sync.Mutex

	completed atomic.Uint64
}

// start marks the channel owned and launches its worker. ctrl.mu must be held.
func (ch *Channel) start() {
	ch.mu.Lock()
	ch.cfg = hal.SlaveConfig{}
	ch.configured = false
	ch.pending = nil
	ch.issued = nil
	ch.wake = make(chan struct{}, 1)
	ch.stop = make(chan struct{})
	wake, stop := ch.wake, ch.stop
	ch.mu.Unlock()

	ch.owned.Store(true)
	ch.wg.Add(1)
	go ch.run(wake, stop)
}

// stopLocked stops the worker and returns the channel to the free pool.
// ctrl.mu must be held.
func (ch *Channel) stopLocked() {
	ch.epoch.Add(1)

	ch.mu.Lock()
	ch.pending = nil
	ch.issued = nil
	stop := ch.stop
	ch.mu.Unlock()

	close(stop)
	ch.wg.Wait()
	ch.owned.Store(false)

	pkg.LogInfo(pkg.ComponentChannel, "channel released", "channel", ch.info.Name)
}

// Info describes the channel.
func (ch *Channel) Info() hal.ChannelInfo {
	return ch.info
}

// Completed returns the number of copies the channel has performed.
func (ch *Channel) Completed() uint64 {
	return ch.completed.Load()
}

// Configure applies cfg. A channel keeps its first configuration until it is
// released; reapplying the same configuration is allowed.
func (ch *Channel) Configure(cfg hal.SlaveConfig) error {
	if !ch.owned.Load() {
		return ErrNotOwned
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()

	if ch.configured && ch.cfg != cfg {
		return ErrConfigFixed
	}
	ch.cfg = cfg
	ch.configured = true

	pkg.LogDebug(pkg.ComponentChannel, "channel configured",
		"channel", ch.info.Name,
		"direction", cfg.Direction.String(),
		"width", cfg.DstWidth.Bits())
	return nil
}

// Width returns the configured destination width.
func (ch *Channel) Width() hal.BusWidth {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.cfg.DstWidth
}

// Prepare binds src and dst into a transaction.
func (ch *Channel) Prepare(src, dst hal.Descriptor, cb hal.Callback) (*hal.Tx, error) {
	if !ch.owned.Load() {
		return nil, ErrNotOwned
	}
	if cb == nil {
		return nil, pkg.ErrInvalidParameter
	}

	ch.mu.Lock()
	configured := ch.configured
	ch.mu.Unlock()
	if !configured {
		return nil, ErrNotConfigured
	}

	if src.Len() != dst.Len() {
		return nil, fmt.Errorf("%w: src %d, dst %d", ErrDescriptorLengths, src.Len(), dst.Len())
	}

	return &hal.Tx{Src: src, Dst: dst, Callback: cb}, nil
}

// Submit assigns a cookie and queues tx until the next IssuePending.
func (ch *Channel) Submit(tx *hal.Tx) (hal.Cookie, error) {
	if tx == nil || tx.Callback == nil {
		return 0, pkg.ErrInvalidParameter
	}
	if !ch.owned.Load() {
		return 0, ErrNotOwned
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()

	ch.nextCookie++
	if ch.nextCookie <= 0 {
		ch.nextCookie = 1
	}
	tx.Cookie = ch.nextCookie
	ch.pending = append(ch.pending, job{tx: tx})
	return tx.Cookie, nil
}

// IssuePending hands every submitted transaction to the worker.
func (ch *Channel) IssuePending() {
	ch.mu.Lock()
	if len(ch.pending) == 0 || ch.wake == nil {
		ch.mu.Unlock()
		return
	}
	epoch := ch.epoch.Load()
	for _, j := range ch.pending {
		j.epoch = epoch
		ch.issued = append(ch.issued, j)
	}
	ch.pending = ch.pending[:0]
	wake := ch.wake
	ch.mu.Unlock()

	select {
	case wake <- struct{}{}:
	default:
	}
}

// Terminate drops queued work and waits for a copy in progress.
func (ch *Channel) Terminate() error {
	if !ch.owned.Load() {
		return ErrNotOwned
	}

	ch.epoch.Add(1)

	ch.mu.Lock()
	dropped := len(ch.pending) + len(ch.issued)
	ch.pending = nil
	ch.issued = nil
	ch.mu.Unlock()

	// Wait out a copy that passed its epoch check before the increment.
	ch.busy.Lock()
	ch.busy.Unlock()

	pkg.LogDebug(pkg.ComponentChannel, "channel terminated",
		"channel", ch.info.Name,
		"dropped", dropped)
	return nil
}

// Release returns the channel to the controller.
func (ch *Channel) Release() error {
	ch.ctrl.mu.Lock()
	defer ch.ctrl.mu.Unlock()

	if !ch.owned.Load() {
		return ErrNotOwned
	}
	ch.stopLocked()
	return nil
}

// run is the channel's notification goroutine.
func (ch *Channel) run(wake, stop <-chan struct{}) {
	defer ch.wg.Done()

	for {
		select {
		case <-stop:
			return
		case <-wake:
		}

		for {
			j, ok := ch.dequeue()
			if !ok {
				break
			}
			if !ch.process(j, stop) {
				return
			}
		}
	}
}

func (ch *Channel) dequeue() (job, bool) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if len(ch.issued) == 0 {
		return job{}, false
	}
	j := ch.issued[0]
	ch.issued = ch.issued[1:]
	return j, true
}

// process performs one transaction. It returns false if the channel stopped.
func (ch *Channel) process(j job, stop <-chan struct{}) bool {
	if d := ch.spec.Latency; d > 0 {
		timer := time.NewTimer(d)
		select {
		case <-stop:
			timer.Stop()
			return false
		case <-timer.C:
		}
	}

	ch.busy.Lock()
	defer ch.busy.Unlock()

	if j.epoch != ch.epoch.Load() {
		pkg.LogDebug(pkg.ComponentChannel, "dropping terminated transaction",
			"channel", ch.info.Name,
			"cookie", j.tx.Cookie)
		return true
	}

	n := j.tx.Len()
	status := pkg.TransferStatusSuccess
	if ch.spec.Fault != nil {
		status = ch.spec.Fault(n)
	}
	if status == pkg.TransferStatusSuccess {
		copyUnits(j.tx.Dst.Bytes(), j.tx.Src.Bytes(), int(ch.Width()))
		ch.completed.Add(1)
	}

	j.tx.Callback(j.tx.Cookie, status)
	return true
}

// copyUnits copies src into dst one bus-width unit at a time. A trailing
// partial unit is copied as-is.
func copyUnits(dst, src []byte, width int) {
	if width < 1 {
		width = 1
	}
	for off := 0; off < len(src); off += width {
		end := min(off+width, len(src))
		copy(dst[off:end], src[off:end])
	}
}

// Ensure the software engine implements the HAL interfaces.
var (
	_ hal.Controller = (*Controller)(nil)
	_ hal.Channel    = (*Channel)(nil)
)
