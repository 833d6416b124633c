package fpp

import (
	"sync"

	"periph.io/x/conn/v3/gpio"
)

// SimTarget is a simulated device. After an nCONFIG pulse, nSTATUS reads
// low once and high afterwards. Data bytes are captured on DCLK rising
// edges, and CONF_DONE goes high once Expected bytes have arrived.
type SimTarget struct {
	mu sync.Mutex

	// Expected is the bitstream length that completes configuration.
	// Zero accepts any non-empty bitstream.
	Expected int

	// StatusStuckHigh keeps nSTATUS high after the nCONFIG pulse.
	StatusStuckHigh bool

	// StatusStuckLow keeps nSTATUS low after the nCONFIG pulse.
	StatusStuckLow bool

	nconfig     gpio.Level
	dclk        gpio.Level
	data        byte
	reset       bool
	statusReads int
	received    []byte
	resets      int
}

// NewSimTarget returns a target expecting a bitstream of expected bytes.
func NewSimTarget(expected int) *SimTarget {
	return &SimTarget{Expected: expected, nconfig: gpio.High}
}

// Pins returns the target's interface lines.
func (s *SimTarget) Pins() Pins {
	return Pins{
		NConfig:  simOut(s.setNConfig),
		DCLK:     simOut(s.setDCLK),
		NStatus:  simIn(s.nStatus),
		ConfDone: simIn(s.confDone),
		Data:     s,
	}
}

// Drive latches b onto the data lines.
func (s *SimTarget) Drive(b byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = b
	return nil
}

// Received returns a copy of the bytes captured since the last reset.
func (s *SimTarget) Received() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.received...)
}

// Resets returns the number of nCONFIG pulses seen.
func (s *SimTarget) Resets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resets
}

func (s *SimTarget) setNConfig(l gpio.Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nconfig == gpio.Low && l == gpio.High {
		s.reset = true
		s.statusReads = 0
		s.received = s.received[:0]
		s.resets++
	}
	s.nconfig = l
	return nil
}

func (s *SimTarget) setDCLK(l gpio.Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dclk == gpio.Low && l == gpio.High && s.reset && s.statusReads > 1 {
		s.received = append(s.received, s.data)
	}
	s.dclk = l
	return nil
}

func (s *SimTarget) nStatus() gpio.Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.reset {
		return gpio.High
	}
	s.statusReads++
	switch {
	case s.StatusStuckHigh:
		return gpio.High
	case s.StatusStuckLow:
		return gpio.Low
	case s.statusReads == 1:
		return gpio.Low
	default:
		return gpio.High
	}
}

func (s *SimTarget) confDone() gpio.Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.received)
	if n == 0 {
		return gpio.Low
	}
	return gpio.Level(s.Expected == 0 || n >= s.Expected)
}

type simOut func(gpio.Level) error

func (f simOut) Out(l gpio.Level) error { return f(l) }

type simIn func() gpio.Level

func (f simIn) Read() gpio.Level { return f() }
