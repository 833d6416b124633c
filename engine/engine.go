package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ardnew/softdma/dma/hal"
	"github.com/ardnew/softdma/pkg"
	"github.com/ardnew/softdma/ring"
)

// ChannelState is the ownership state of the engine's channel.
type ChannelState uint8

// Channel states.
const (
	ChannelUnacquired ChannelState = iota
	ChannelAcquired
	ChannelReleased
)

// String returns a human-readable state name.
func (s ChannelState) String() string {
	switch s {
	case ChannelUnacquired:
		return "unacquired"
	case ChannelAcquired:
		return "acquired"
	case ChannelReleased:
		return "released"
	default:
		return "unknown"
	}
}

// Engine moves staged blocks into a ring through an exclusively owned
// copy-engine channel.
type Engine struct {
	cfg     Config
	ch      hal.Channel
	staging *ring.Staging
	ring    *ring.Ring
	session pkg.Guard

	// busy is held by Stage, Transfer and Close for their duration. Close
	// never gives it back.
	busy   atomic.Bool
	closed atomic.Bool

	mu     sync.Mutex
	state  ChannelState
	cursor int

	transfers atomic.Uint64
}

// New acquires a channel from ctrl, configures it for memory-to-memory
// transfers and allocates the staging buffer and ring. Resources acquired
// before a failure are released in reverse order.
func New(ctrl hal.Controller, cfg Config) (*Engine, error) {
	if ctrl == nil {
		return nil, fmt.Errorf("%w: nil controller", pkg.ErrInvalidParameter)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var undo undoStack
	fail := func(step string, err error) (*Engine, error) {
		undo.unwind()
		pkg.LogError(pkg.ComponentEngine, "engine startup failed",
			"name", cfg.Name,
			"step", step,
			"error", err)
		if errors.Is(err, pkg.ErrResourceUnavailable) {
			return nil, fmt.Errorf("%s: %w", step, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", pkg.ErrResourceUnavailable, step, err)
	}

	ch, err := ctrl.RequestChannel(cfg.Request)
	if err != nil {
		return fail("request channel", err)
	}
	undo.push("channel", ch.Release)

	err = ch.Configure(hal.SlaveConfig{
		Direction: hal.DirMemToMem,
		SrcWidth:  cfg.Width,
		DstWidth:  cfg.Width,
	})
	if err != nil {
		return fail("configure channel", err)
	}

	staging, err := ring.NewStaging(cfg.Name+"-staging", cfg.SlotSize, cfg.MemoryLock)
	if err != nil {
		return fail("allocate staging buffer", err)
	}
	undo.push("staging buffer", staging.Close)

	r, err := ring.New(cfg.Name, cfg.SlotSize, cfg.SlotCount, cfg.MemoryLock)
	if err != nil {
		return fail("allocate ring", err)
	}

	e := &Engine{
		cfg:     cfg,
		ch:      ch,
		staging: staging,
		ring:    r,
		state:   ChannelAcquired,
	}

	info := ch.Info()
	pkg.LogInfo(pkg.ComponentEngine, "engine started",
		"name", cfg.Name,
		"channel", info.Name,
		"slots", cfg.SlotCount,
		"slotSize", cfg.SlotSize,
		"width", cfg.Width.Bits(),
		"locked", r.Locked())
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// ChannelInfo describes the owned channel.
func (e *Engine) ChannelInfo() hal.ChannelInfo {
	return e.ch.Info()
}

// ChannelState returns the channel ownership state.
func (e *Engine) ChannelState() ChannelState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Cursor returns the index of the slot the next transfer writes.
func (e *Engine) Cursor() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// Generation returns how many transfers have completed into slot i.
func (e *Engine) Generation(i int) uint64 {
	return e.ring.Generation(i)
}

// Transfers returns the number of completed transfers.
func (e *Engine) Transfers() uint64 {
	return e.transfers.Load()
}

// Close releases the ring, the staging buffer and the channel, in that
// order. It fails with ErrBusy while a transfer is outstanding. Mappings
// returned by Export remain readable until they are closed.
func (e *Engine) Close() error {
	if err := e.enter(); err != nil {
		return err
	}
	e.closed.Store(true)

	var errs []error
	if err := e.ring.Close(); err != nil {
		errs = append(errs, fmt.Errorf("ring: %w", err))
	}
	if err := e.staging.Close(); err != nil {
		errs = append(errs, fmt.Errorf("staging buffer: %w", err))
	}
	if err := e.ch.Terminate(); err != nil {
		errs = append(errs, fmt.Errorf("terminate channel: %w", err))
	}
	if err := e.ch.Release(); err != nil {
		errs = append(errs, fmt.Errorf("release channel: %w", err))
	}

	e.mu.Lock()
	e.state = ChannelReleased
	e.mu.Unlock()

	pkg.LogInfo(pkg.ComponentEngine, "engine closed",
		"name", e.cfg.Name,
		"transfers", e.transfers.Load())
	return errors.Join(errs...)
}

// enter takes the busy flag, failing with ErrClosed or ErrBusy.
func (e *Engine) enter() error {
	if e.closed.Load() {
		return pkg.ErrClosed
	}
	if !e.busy.CompareAndSwap(false, true) {
		if e.closed.Load() {
			return pkg.ErrClosed
		}
		return pkg.ErrBusy
	}
	return nil
}

func (e *Engine) leave() {
	e.busy.Store(false)
}
