package engine

import (
	"fmt"
	"io"

	"github.com/ardnew/softdma/dma/hal"
	"github.com/ardnew/softdma/pkg"
	"github.com/ardnew/softdma/ring"
)

// Stage copies the first length bytes of data into the staging buffer,
// replacing its previous content. No transfer is started.
func (e *Engine) Stage(data []byte, length int) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()

	if err := e.staging.Stage(data, length); err != nil {
		pkg.LogDebug(pkg.ComponentEngine, "stage rejected",
			"length", length,
			"error", err)
		return err
	}
	return nil
}

// StageFrom reads exactly length bytes from r into the staging buffer.
func (e *Engine) StageFrom(r io.Reader, length int) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()

	return e.staging.StageFrom(r, length)
}

// Transfer copies the first length bytes of the staging buffer into the
// slot at the cursor and blocks until the channel reports completion. On
// success the cursor advances by one slot.
//
// Setup failures return ErrTransferSetupFailed, an error completion returns
// ErrTransferFailed, and an expired TransferTimeout returns
// ErrTransferTimedOut. The cursor is unchanged in every failure case.
func (e *Engine) Transfer(length int) error {
	if length < 0 || length > e.cfg.SlotSize {
		return fmt.Errorf("%w: %d exceeds slot size %d", pkg.ErrInvalidLength, length, e.cfg.SlotSize)
	}
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()

	slot := e.Cursor()
	src := hal.NewDescriptor(e.staging.Bytes(length))
	dst := hal.NewDescriptor(e.ring.Slot(slot)[:length])

	done := newCompletion()
	tx, err := e.ch.Prepare(src, dst, done.complete)
	if err != nil {
		pkg.LogError(pkg.ComponentEngine, "prepare failed",
			"slot", slot,
			"length", length,
			"error", err)
		return fmt.Errorf("%w: prepare: %w", pkg.ErrTransferSetupFailed, err)
	}
	defer tx.Release()

	cookie, err := e.ch.Submit(tx)
	if err != nil {
		pkg.LogError(pkg.ComponentEngine, "submit failed",
			"slot", slot,
			"error", err)
		return fmt.Errorf("%w: submit: %w", pkg.ErrTransferSetupFailed, err)
	}
	e.ch.IssuePending()

	status, ok := done.wait(e.cfg.TransferTimeout)
	if !ok {
		if err := e.ch.Terminate(); err != nil {
			pkg.LogWarn(pkg.ComponentEngine, "terminate failed", "error", err)
		}
		// The completion may have landed before the channel stopped.
		status, ok = done.poll()
	}
	if !ok {
		pkg.LogError(pkg.ComponentEngine, "transfer timed out",
			"slot", slot,
			"cookie", cookie,
			"timeout", e.cfg.TransferTimeout)
		return fmt.Errorf("%w: slot %d after %s", pkg.ErrTransferTimedOut, slot, e.cfg.TransferTimeout)
	}
	if err := status.Error(); err != nil {
		pkg.LogError(pkg.ComponentEngine, "transfer failed",
			"slot", slot,
			"cookie", cookie,
			"status", status.String())
		return fmt.Errorf("%w: slot %d", err, slot)
	}

	e.ring.Publish(slot)
	e.transfers.Add(1)

	e.mu.Lock()
	e.cursor = (slot + 1) % e.cfg.SlotCount
	e.mu.Unlock()

	pkg.LogDebug(pkg.ComponentEngine, "transfer complete",
		"slot", slot,
		"length", length,
		"cookie", cookie)
	return nil
}

// Export maps the ring read-only for a consumer. size must equal the ring
// size.
func (e *Engine) Export(size int) (*ring.Mapping, error) {
	if e.closed.Load() {
		return nil, pkg.ErrClosed
	}
	return e.ring.Export(size)
}
