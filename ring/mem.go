package ring

import (
	"fmt"

	"github.com/ardnew/softdma/pkg"
)

// LockPolicy controls whether buffer pages are locked into physical memory.
type LockPolicy uint8

// Lock policies.
const (
	// LockBestEffort locks pages and logs a warning if the lock fails.
	LockBestEffort LockPolicy = iota
	// LockRequired fails the allocation if the pages cannot be locked.
	LockRequired
	// LockNone leaves pages swappable.
	LockNone
)

// String returns the policy name.
func (p LockPolicy) String() string {
	switch p {
	case LockBestEffort:
		return "best-effort"
	case LockRequired:
		return "required"
	case LockNone:
		return "none"
	default:
		return "unknown"
	}
}

// region is a page-aligned block of memory usable as a DMA source or
// destination.
type region struct {
	name   string
	fd     int // memory file, or -1 for private memory
	buf    []byte
	locked bool
}

// lock applies policy to r. On a required lock failure r is left intact and
// the caller frees it.
func (r *region) lock(policy LockPolicy) error {
	if policy == LockNone {
		return nil
	}
	if err := lockMemory(r.buf); err != nil {
		if policy == LockRequired {
			return fmt.Errorf("%w: lock %s: %w", pkg.ErrResourceUnavailable, r.name, err)
		}
		pkg.LogWarn(pkg.ComponentRing, "memory not locked",
			"region", r.name,
			"size", len(r.buf),
			"error", err)
		return nil
	}
	r.locked = true
	return nil
}
