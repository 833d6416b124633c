package ring

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ardnew/softdma/pkg"
)

// Compatibility defaults.
const (
	DefaultSlotSize  = 1024                               // Bytes per slot
	DefaultSlotCount = 16                                 // Slots per ring
	DefaultRingSize  = DefaultSlotSize * DefaultSlotCount // 16 KiB
)

// Ring is a fixed array of equally sized slots in DMA-visible memory.
type Ring struct {
	slotSize  int
	slotCount int
	mem       *region
	gen       []atomic.Uint64

	mu     sync.Mutex
	closed bool
}

// New allocates a ring of slotCount slots of slotSize bytes each. The
// memory is zeroed.
func New(name string, slotSize, slotCount int, policy LockPolicy) (*Ring, error) {
	if slotSize <= 0 || slotCount <= 0 {
		return nil, fmt.Errorf("%w: %d slots of %d bytes", pkg.ErrInvalidParameter, slotCount, slotSize)
	}

	mem, err := allocShared(name, slotSize*slotCount, policy)
	if err != nil {
		return nil, err
	}

	pkg.LogDebug(pkg.ComponentRing, "ring allocated",
		"name", name,
		"slots", slotCount,
		"slotSize", slotSize,
		"locked", mem.locked)

	return &Ring{
		slotSize:  slotSize,
		slotCount: slotCount,
		mem:       mem,
		gen:       make([]atomic.Uint64, slotCount),
	}, nil
}

// SlotSize returns the size of one slot in bytes.
func (r *Ring) SlotSize() int {
	return r.slotSize
}

// SlotCount returns the number of slots.
func (r *Ring) SlotCount() int {
	return r.slotCount
}

// Size returns the total ring size in bytes.
func (r *Ring) Size() int {
	return r.slotSize * r.slotCount
}

// Locked reports whether the ring pages are locked in memory.
func (r *Ring) Locked() bool {
	return r.mem != nil && r.mem.locked
}

// Slot returns the writable engine-side view of slot i. It panics if i is
// out of range.
func (r *Ring) Slot(i int) []byte {
	off := i * r.slotSize
	return r.mem.buf[off : off+r.slotSize : off+r.slotSize]
}

// Publish records that slot i has been filled.
func (r *Ring) Publish(i int) {
	r.gen[i].Add(1)
}

// Generation returns how many times slot i has been published.
func (r *Ring) Generation(i int) uint64 {
	if i < 0 || i >= len(r.gen) {
		return 0
	}
	return r.gen[i].Load()
}

// Export maps the ring read-only for a consumer. size must equal Size().
func (r *Ring) Export(size int) (*Mapping, error) {
	if size != r.Size() {
		pkg.LogWarn(pkg.ComponentExport, "mapping size mismatch",
			"requested", size,
			"ring", r.Size())
		return nil, fmt.Errorf("%w: requested %d, ring is %d", pkg.ErrSizeMismatch, size, r.Size())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, pkg.ErrClosed
	}

	data, err := r.mem.mapReadOnly()
	if err != nil {
		pkg.LogError(pkg.ComponentExport, "export failed", "error", err)
		return nil, err
	}

	pkg.LogInfo(pkg.ComponentExport, "ring exported", "size", size)
	return &Mapping{
		ring:      r,
		data:      data,
		slotSize:  r.slotSize,
		slotCount: r.slotCount,
	}, nil
}

// Close frees the ring memory. Mappings obtained from Export stay readable
// until they are closed.
func (r *Ring) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return pkg.ErrClosed
	}
	r.closed = true
	return r.mem.free()
}
