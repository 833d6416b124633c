// Package engine implements a memory-to-memory ring-buffer transfer engine.
//
// An [Engine] owns one copy-engine channel, a single-slot staging buffer and
// a ring of equally sized slots. Each call to [Engine.Transfer] moves the
// staged block into the next ring slot through the channel, blocks until the
// channel reports completion, and then advances the ring cursor. A consumer
// reads completed slots through a read-only mapping of the ring obtained from
// [Engine.Export]; no data is copied on the way out.
//
// # Lifecycle
//
//	ctrl := soft.NewController()
//	e, err := engine.New(ctrl, engine.DefaultConfig())
//	if err != nil {
//	    // pkg.ErrResourceUnavailable
//	}
//	defer e.Close()
//
// [New] acquires the channel, the staging buffer and the ring in that order.
// If any step fails, the steps already taken are undone in reverse order and
// New returns an error wrapping [pkg.ErrResourceUnavailable].
//
// # Sessions
//
// [Engine.Open] returns a [Handle] with a device-file style surface. Only one
// handle may be open at a time; a second Open fails with
// [pkg.ErrAlreadyOpen] until the first handle is closed.
//
//	h, err := e.Open()
//	m, err := h.Mmap(e.Config().RingSize())
//	h.Write(block)      // stage
//	h.Read(buf)         // transfer; buf is not filled
//	slot := m.Slot(0)   // the block, read through the mapping
//
// [Handle.Read] triggers a transfer of min(len(p), slot size) bytes and
// always returns zero bytes read. It does not implement [io.Reader]
// semantics; [Handle.Trigger] is the explicit form.
//
// # Slot Validity
//
// Slots carry no validity flag. When Transfer returns nil, the slot the
// cursor addressed before the call holds the staged bytes. Each completed
// transfer also bumps the slot's generation counter, readable through
// [ring.Mapping.Generation].
//
// # Waiting
//
// By default Transfer waits for completion without a bound. When
// [Config.TransferTimeout] is positive the wait is bounded; on expiry the
// channel's queued work is terminated, the cursor is left unchanged and
// Transfer returns [pkg.ErrTransferTimedOut].
package engine
