package ring

import (
	"sync"

	"github.com/ardnew/softdma/pkg"
)

// Mapping is a consumer's read-only view of a ring.
//
// The mapping is established once and stays valid while the engine runs;
// there is no notification when a slot changes. After a transfer returns,
// the slot it targeted holds the staged bytes.
type Mapping struct {
	ring      *Ring
	data      []byte
	slotSize  int
	slotCount int

	once sync.Once
	err  error
}

// Bytes returns the whole mapped ring. The memory is read-only; writing to
// it faults.
func (m *Mapping) Bytes() []byte {
	return m.data
}

// Len returns the mapped size in bytes.
func (m *Mapping) Len() int {
	return len(m.data)
}

// Slot returns the read-only view of slot i, or nil if i is out of range.
func (m *Mapping) Slot(i int) []byte {
	if i < 0 || i >= m.slotCount || m.data == nil {
		return nil
	}
	off := i * m.slotSize
	return m.data[off : off+m.slotSize : off+m.slotSize]
}

// Generation returns how many times slot i has been published.
func (m *Mapping) Generation(i int) uint64 {
	return m.ring.Generation(i)
}

// Close unmaps the view.
func (m *Mapping) Close() error {
	m.once.Do(func() {
		m.err = unmap(m.data)
		m.data = nil
		pkg.LogDebug(pkg.ComponentExport, "mapping closed")
	})
	return m.err
}
