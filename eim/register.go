package eim

import "sync"

// Chip-select 1 register offsets.
const (
	RegCS1GCR1 = 0x18 // General configuration 1
	RegCS1GCR2 = 0x1C // General configuration 2
	RegCS1RCR1 = 0x20 // Read configuration 1
	RegCS1RCR2 = 0x24 // Read configuration 2
	RegCS1WCR1 = 0x28 // Write configuration 1
	RegCS1WCR2 = 0x2C // Write configuration 2
)

// Registers is a bank of 32-bit registers addressed by byte offset.
type Registers interface {
	Read32(off uint32) uint32
	Write32(off uint32, v uint32)
}

// bitfield places the low bits of v at shift.
func bitfield(shift, bits uint, v uint32) uint32 {
	return (v & (1<<bits - 1)) << shift
}

// field locates a parameter inside a register.
type field struct {
	reg   uint32
	shift uint
	bits  uint
}

var fields = map[Param]field{
	ParamMultiplex:         {reg: RegCS1GCR1, shift: 3, bits: 1},
	ParamBurstClockDivisor: {reg: RegCS1GCR1, shift: 12, bits: 2},
	ParamWriteWaitStates:   {reg: RegCS1WCR1, shift: 24, bits: 6},
}

func (f field) get(r Registers) int {
	return int(r.Read32(f.reg) & bitfield(f.shift, f.bits, ^uint32(0)) >> f.shift)
}

func (f field) set(r Registers, v int) {
	mask := bitfield(f.shift, f.bits, ^uint32(0))
	r.Write32(f.reg, r.Read32(f.reg)&^mask|bitfield(f.shift, f.bits, uint32(v)))
}

// RegisterBank is an in-memory register bank.
type RegisterBank struct {
	mu   sync.Mutex
	regs map[uint32]uint32
}

// NewRegisterBank returns a bank holding the power-on chip-select 1
// configuration: 16-bit synchronous multiplexed port, 33 MHz burst clock,
// 32-word bursts, one write wait state.
func NewRegisterBank() *RegisterBank {
	b := &RegisterBank{regs: make(map[uint32]uint32)}
	for off, v := range defaultRegisters() {
		b.regs[off] = v
	}
	return b
}

// Read32 returns the register at off. Unknown offsets read as zero.
func (b *RegisterBank) Read32(off uint32) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.regs[off]
}

// Write32 stores v at off.
func (b *RegisterBank) Write32(off uint32, v uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.regs[off] = v
}

// defaultRegisters returns the chip-select 1 reset configuration. CS1GCR1
// sets GBC, CSREC, DSZ, BCS, BCD, BL, RFL, WFL, MUM, SRD, SWR and CSEN;
// CS1GCR2 sets M16BG; CS1RCR1 sets RWSC; CS1RCR2 sets PAT; CS1WCR1 sets WWSC.
func defaultRegisters() map[uint32]uint32 {
	gcr1 := bitfield(24, 3, 1) |
		bitfield(20, 3, 1) |
		bitfield(16, 3, 1) |
		bitfield(14, 2, 1) |
		bitfield(12, 2, BurstClock33MHz) |
		bitfield(8, 3, 3) |
		bitfield(5, 1, 1) |
		bitfield(4, 1, 1) |
		bitfield(3, 1, Mux) |
		bitfield(2, 1, 1) |
		bitfield(1, 1, 1) |
		bitfield(0, 1, 1)

	return map[uint32]uint32{
		RegCS1GCR1: gcr1,
		RegCS1GCR2: bitfield(12, 1, 1),
		RegCS1RCR1: bitfield(24, 6, 3),
		RegCS1RCR2: bitfield(12, 3, 7),
		RegCS1WCR1: bitfield(24, 6, WriteWait5Clocks),
		RegCS1WCR2: 0,
	}
}
