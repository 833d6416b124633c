package engine

import (
	"fmt"
	"time"

	"github.com/ardnew/softdma/dma/hal"
	"github.com/ardnew/softdma/pkg"
	"github.com/ardnew/softdma/ring"
)

// DefaultName is the device name used by DefaultConfig.
const DefaultName = "sdma_m2m"

// Config holds engine configuration.
type Config struct {
	// Name labels the engine's memory regions and log records.
	Name string

	// SlotSize is the size of the staging buffer and of each ring slot.
	SlotSize int

	// SlotCount is the number of ring slots.
	SlotCount int

	// Width is the channel transfer width, fixed for the channel lifetime.
	Width hal.BusWidth

	// Request selects the channel.
	Request hal.Request

	// TransferTimeout bounds the wait for a completion. Zero waits forever.
	TransferTimeout time.Duration

	// MemoryLock controls locking of the staging and ring pages.
	MemoryLock ring.LockPolicy
}

// DefaultConfig returns the default engine configuration: 16 slots of 1024
// bytes, 16-bit transfers on a general-purpose high-priority channel, no
// completion timeout.
func DefaultConfig() Config {
	return Config{
		Name:      DefaultName,
		SlotSize:  ring.DefaultSlotSize,
		SlotCount: ring.DefaultSlotCount,
		Width:     hal.BusWidth2Bytes,
		Request: hal.Request{
			Caps:     hal.CapSlave,
			Priority: hal.PriorityHigh,
			Filter:   hal.GeneralPurpose,
		},
		MemoryLock: ring.LockBestEffort,
	}
}

// RingSize returns the ring size in bytes, the only size Export accepts.
func (c Config) RingSize() int {
	return c.SlotSize * c.SlotCount
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: empty name", pkg.ErrInvalidParameter)
	}
	if c.SlotSize <= 0 {
		return fmt.Errorf("%w: slot size %d", pkg.ErrInvalidParameter, c.SlotSize)
	}
	if c.SlotCount <= 0 {
		return fmt.Errorf("%w: slot count %d", pkg.ErrInvalidParameter, c.SlotCount)
	}
	if !c.Width.Valid() {
		return fmt.Errorf("%w: bus width %d", pkg.ErrInvalidParameter, c.Width)
	}
	if c.TransferTimeout < 0 {
		return fmt.Errorf("%w: negative transfer timeout", pkg.ErrInvalidParameter)
	}
	return nil
}
