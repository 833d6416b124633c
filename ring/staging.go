package ring

import (
	"fmt"
	"io"

	"github.com/ardnew/softdma/pkg"
)

// Staging is a single-slot mailbox holding the next block to transfer. Each
// Stage overwrites the previous content.
type Staging struct {
	mem *region
	cap int
}

// NewStaging allocates a staging buffer of capacity bytes.
func NewStaging(name string, capacity int, policy LockPolicy) (*Staging, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: staging capacity %d", pkg.ErrInvalidParameter, capacity)
	}
	mem, err := allocPrivate(name, capacity, policy)
	if err != nil {
		return nil, err
	}
	return &Staging{mem: mem, cap: capacity}, nil
}

// Cap returns the capacity in bytes.
func (s *Staging) Cap() int {
	return s.cap
}

// Stage copies the first length bytes of data into the mailbox.
func (s *Staging) Stage(data []byte, length int) error {
	if length < 0 || length > s.cap {
		return fmt.Errorf("%w: %d exceeds staging capacity %d", pkg.ErrInvalidLength, length, s.cap)
	}
	if len(data) < length {
		return fmt.Errorf("%w: source holds %d of %d bytes", pkg.ErrCopyFault, len(data), length)
	}
	copy(s.mem.buf, data[:length])
	return nil
}

// StageFrom reads exactly length bytes from r into the mailbox.
func (s *Staging) StageFrom(r io.Reader, length int) error {
	if length < 0 || length > s.cap {
		return fmt.Errorf("%w: %d exceeds staging capacity %d", pkg.ErrInvalidLength, length, s.cap)
	}
	if _, err := io.ReadFull(r, s.mem.buf[:length]); err != nil {
		return fmt.Errorf("%w: %w", pkg.ErrCopyFault, err)
	}
	return nil
}

// Bytes returns the first n bytes of the mailbox as a DMA source.
func (s *Staging) Bytes(n int) []byte {
	return s.mem.buf[:n:n]
}

// Close frees the mailbox memory.
func (s *Staging) Close() error {
	return s.mem.free()
}
