package engine

import (
	"sync/atomic"

	"github.com/ardnew/softdma/pkg"
	"github.com/ardnew/softdma/ring"
)

// Handle is an open session on an engine, with the surface of a device
// file. Only one handle is open at a time.
type Handle struct {
	e      *Engine
	closed atomic.Bool
}

// Open acquires the engine session. It fails with ErrAlreadyOpen if another
// handle is open.
func (e *Engine) Open() (*Handle, error) {
	if e.closed.Load() {
		return nil, pkg.ErrClosed
	}
	if err := e.session.Acquire(); err != nil {
		pkg.LogWarn(pkg.ComponentSession, "session busy", "name", e.cfg.Name)
		return nil, err
	}
	pkg.LogDebug(pkg.ComponentSession, "session opened", "name", e.cfg.Name)
	return &Handle{e: e}, nil
}

// Close releases the session. Calls after the first return ErrClosed.
func (h *Handle) Close() error {
	if !h.closed.CompareAndSwap(false, true) {
		return pkg.ErrClosed
	}
	h.e.session.Release()
	pkg.LogDebug(pkg.ComponentSession, "session closed", "name", h.e.cfg.Name)
	return nil
}

// Write stages min(len(p), slot size) bytes of p and returns the number of
// bytes staged.
func (h *Handle) Write(p []byte) (int, error) {
	if h.closed.Load() {
		return 0, pkg.ErrClosed
	}
	n := min(len(p), h.e.cfg.SlotSize)
	if err := h.e.Stage(p, n); err != nil {
		return 0, err
	}
	return n, nil
}

// Read transfers min(len(p), slot size) staged bytes into the next ring
// slot. p is not filled and the count returned is always zero; the data is
// read through the mapping from Mmap. Read does not follow io.Reader
// semantics.
func (h *Handle) Read(p []byte) (int, error) {
	if h.closed.Load() {
		return 0, pkg.ErrClosed
	}
	return 0, h.e.Transfer(min(len(p), h.e.cfg.SlotSize))
}

// Trigger transfers n staged bytes into the next ring slot.
func (h *Handle) Trigger(n int) error {
	if h.closed.Load() {
		return pkg.ErrClosed
	}
	return h.e.Transfer(n)
}

// Mmap maps the ring read-only. size must equal the ring size.
func (h *Handle) Mmap(size int) (*ring.Mapping, error) {
	if h.closed.Load() {
		return nil, pkg.ErrClosed
	}
	return h.e.Export(size)
}
