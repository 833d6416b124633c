package hal

import (
	"fmt"
	"strings"

	"github.com/ardnew/softdma/pkg"
)

// Capability is a bit set of channel features.
type Capability uint8

// Channel capabilities.
const (
	CapMemcpy         Capability = 1 << iota // Plain memory copy
	CapSlave                                 // Slave (scatter-gather) transfers
	CapGeneralPurpose                        // Not reserved for a peripheral
)

// Has reports whether c includes every capability in want.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

// String returns a "|"-separated list of capability names.
func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	var names []string
	if c.Has(CapMemcpy) {
		names = append(names, "memcpy")
	}
	if c.Has(CapSlave) {
		names = append(names, "slave")
	}
	if c.Has(CapGeneralPurpose) {
		names = append(names, "general")
	}
	return strings.Join(names, "|")
}

// Priority is the arbitration priority of a channel.
type Priority uint8

// Channel priorities.
const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Direction is the transfer direction of a channel.
type Direction uint8

// Transfer directions.
const (
	DirMemToMem Direction = iota // Memory to memory
	DirMemToDev                  // Memory to peripheral
	DirDevToMem                  // Peripheral to memory
)

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case DirMemToMem:
		return "mem-to-mem"
	case DirMemToDev:
		return "mem-to-dev"
	case DirDevToMem:
		return "dev-to-mem"
	default:
		return "unknown"
	}
}

// BusWidth is the transfer width in bytes.
type BusWidth uint8

// Supported bus widths.
const (
	BusWidth1Byte  BusWidth = 1
	BusWidth2Bytes BusWidth = 2
	BusWidth4Bytes BusWidth = 4
	BusWidth8Bytes BusWidth = 8
)

// Valid reports whether w is a supported width.
func (w BusWidth) Valid() bool {
	switch w {
	case BusWidth1Byte, BusWidth2Bytes, BusWidth4Bytes, BusWidth8Bytes:
		return true
	}
	return false
}

// Bits returns the width in bits.
func (w BusWidth) Bits() int {
	return int(w) * 8
}

// ChannelInfo describes a channel offered by a controller.
type ChannelInfo struct {
	Name     string     // Controller-assigned name
	Index    int        // Position within the controller
	Caps     Capability // Supported features
	Priority Priority   // Arbitration priority
}

// Filter is an extra predicate applied to candidate channels.
type Filter func(ChannelInfo) bool

// Request selects a channel by capability and priority.
type Request struct {
	Caps     Capability // Required capabilities
	Priority Priority   // Minimum priority
	Filter   Filter     // Optional extra predicate
}

// Matches reports whether info satisfies the request.
func (r Request) Matches(info ChannelInfo) bool {
	if !info.Caps.Has(r.Caps) {
		return false
	}
	if info.Priority < r.Priority {
		return false
	}
	if r.Filter != nil && !r.Filter(info) {
		return false
	}
	return true
}

// GeneralPurpose is a Filter accepting only channels not reserved for a
// peripheral.
func GeneralPurpose(info ChannelInfo) bool {
	return info.Caps.Has(CapGeneralPurpose)
}

// SlaveConfig is the runtime configuration of a channel. It is fixed for the
// lifetime of the channel once applied.
type SlaveConfig struct {
	Direction Direction
	SrcWidth  BusWidth
	DstWidth  BusWidth
}

// Validate checks the configuration.
func (c SlaveConfig) Validate() error {
	if c.Direction != DirMemToMem {
		return fmt.Errorf("%w: direction %s", pkg.ErrNotSupported, c.Direction)
	}
	if !c.SrcWidth.Valid() {
		return fmt.Errorf("%w: source width %d", pkg.ErrInvalidParameter, c.SrcWidth)
	}
	if !c.DstWidth.Valid() {
		return fmt.Errorf("%w: destination width %d", pkg.ErrInvalidParameter, c.DstWidth)
	}
	return nil
}

// Descriptor is a single-entry scatter-gather list over a byte range.
type Descriptor struct {
	buf []byte
}

// NewDescriptor returns a descriptor bound to buf.
func NewDescriptor(buf []byte) Descriptor {
	return Descriptor{buf: buf}
}

// Bytes returns the bound memory.
func (d Descriptor) Bytes() []byte {
	return d.buf
}

// Len returns the number of bytes described.
func (d Descriptor) Len() int {
	return len(d.buf)
}

// Cookie identifies a submitted transaction.
type Cookie int32

// Callback is invoked exactly once when a submitted transaction completes.
// It runs on the channel's notification goroutine and must not block.
type Callback func(Cookie, pkg.TransferStatus)

// Tx is a prepared descriptor pair awaiting submission.
type Tx struct {
	Src      Descriptor
	Dst      Descriptor
	Callback Callback
	Cookie   Cookie
}

// Len returns the number of bytes the transaction moves.
func (t *Tx) Len() int {
	return t.Src.Len()
}

// Release drops the descriptor bindings. The Tx must not be resubmitted.
func (t *Tx) Release() {
	t.Src = Descriptor{}
	t.Dst = Descriptor{}
	t.Callback = nil
}

// Channel is an exclusively owned copy-engine channel.
type Channel interface {
	// Info describes the channel.
	Info() ChannelInfo

	// Configure applies the slave configuration. It must be called once
	// before the first Prepare.
	Configure(cfg SlaveConfig) error

	// Width returns the configured destination width.
	Width() BusWidth

	// Prepare registers a source and destination descriptor of equal length
	// and attaches cb as the completion callback.
	Prepare(src, dst Descriptor, cb Callback) (*Tx, error)

	// Submit places a prepared transaction on the pending queue.
	Submit(tx *Tx) (Cookie, error)

	// IssuePending starts processing of all submitted transactions.
	IssuePending()

	// Terminate drops all queued work and waits for any copy in progress to
	// finish. Callbacks for dropped work never fire.
	Terminate() error

	// Release returns the channel to its controller.
	Release() error
}

// Controller hands out channels.
type Controller interface {
	// RequestChannel returns exclusive use of the first free channel that
	// matches req, or pkg.ErrNoChannelAvailable.
	RequestChannel(req Request) (Channel, error)
}
