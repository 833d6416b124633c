package eim

import (
	"fmt"
	"sync"

	"github.com/ardnew/softdma/pkg"
)

// Bus is a Service backed by a chip-select register bank. The download mode
// is held by the bus itself; the other parameters live in register fields.
type Bus struct {
	mu    sync.Mutex
	regs  Registers
	dmode int

	// OnMultiplex, if set, is called with the new value whenever the
	// multiplex mode is set, so pad routing can follow it.
	OnMultiplex func(mux int)
}

// NewBus returns a bus over regs in parameters download mode.
func NewBus(regs Registers) *Bus {
	return &Bus{regs: regs, dmode: DownloadParameters}
}

// Get returns the current value of p.
func (b *Bus) Get(p Param) (int, error) {
	if !p.valid() {
		return 0, fmt.Errorf("%w: bus parameter %d", pkg.ErrInvalidParameter, p)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if p == ParamDownloadMode {
		return b.dmode, nil
	}
	return fields[p].get(b.regs), nil
}

// Set clamps v to the range of p and applies it.
func (b *Bus) Set(p Param, v int) error {
	if !p.valid() {
		return fmt.Errorf("%w: bus parameter %d", pkg.ErrInvalidParameter, p)
	}
	c := p.Clamp(v)

	b.mu.Lock()
	if p == ParamDownloadMode {
		b.dmode = c
	} else {
		fields[p].set(b.regs, c)
	}
	hook := b.OnMultiplex
	b.mu.Unlock()

	if p == ParamMultiplex && hook != nil {
		hook(c)
	}

	pkg.LogDebug(pkg.ComponentEIM, "bus parameter set",
		"param", p.String(),
		"requested", v,
		"value", c)
	return nil
}

var _ Service = (*Bus)(nil)
