package fpp

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/ardnew/softdma/pkg"
)

// Handshake errors.
var (
	ErrStatusStuckHigh = errors.New("nSTATUS did not go low after nCONFIG pulse")
	ErrStatusStuckLow  = errors.New("nSTATUS did not return high")
	ErrConfDoneLow     = errors.New("CONF_DONE low after configuration data")
	ErrPin             = errors.New("pin access failed")
)

// OutputPin is a pin the loader drives. gpio.PinOut satisfies it.
type OutputPin interface {
	Out(l gpio.Level) error
}

// InputPin is a pin the loader samples. gpio.PinIn satisfies it.
type InputPin interface {
	Read() gpio.Level
}

// DataBus drives one byte onto the 8-bit configuration data lines.
type DataBus interface {
	Drive(b byte) error
}

// PinBus is a DataBus over eight output pins; element i carries bit i.
type PinBus [8]OutputPin

// Drive sets each pin to the matching bit of b.
func (p PinBus) Drive(b byte) error {
	for i, pin := range p {
		if err := pin.Out(gpio.Level(b&(1<<i) != 0)); err != nil {
			return fmt.Errorf("%w: DATA%d: %w", ErrPin, i, err)
		}
	}
	return nil
}

// Pins are the interface lines.
type Pins struct {
	NConfig  OutputPin
	DCLK     OutputPin
	NStatus  InputPin
	ConfDone InputPin
	Data     DataBus
}

func (p Pins) validate() error {
	if p.NConfig == nil || p.DCLK == nil || p.NStatus == nil || p.ConfDone == nil || p.Data == nil {
		return fmt.Errorf("%w: missing fpp pin", pkg.ErrInvalidParameter)
	}
	return nil
}

// Timing holds the handshake delays.
type Timing struct {
	ConfigPulse time.Duration // nCONFIG low time
	StatusDelay time.Duration // Wait for nSTATUS to return high
	SetupDelay  time.Duration // Wait before the first data byte
}

// DefaultTiming returns the minimum handshake delays.
func DefaultTiming() Timing {
	return Timing{
		ConfigPulse: 500 * time.Nanosecond,
		StatusDelay: 230 * time.Microsecond,
		SetupDelay:  2 * time.Microsecond,
	}
}

// Configurator loads a configuration bitstream into a device.
type Configurator interface {
	Configure(blob []byte) error
}

// Loader runs the passive parallel handshake.
type Loader struct {
	pins   Pins
	timing Timing
	sleep  func(time.Duration)
	guard  pkg.Guard
}

// Option configures a Loader.
type Option func(*Loader)

// WithTiming replaces the default handshake delays.
func WithTiming(t Timing) Option {
	return func(l *Loader) {
		l.timing = t
	}
}

// WithSleep replaces time.Sleep for the handshake delays.
func WithSleep(sleep func(time.Duration)) Option {
	return func(l *Loader) {
		l.sleep = sleep
	}
}

// NewLoader creates a loader over pins.
func NewLoader(pins Pins, opts ...Option) (*Loader, error) {
	if err := pins.validate(); err != nil {
		return nil, err
	}
	l := &Loader{
		pins:   pins,
		timing: DefaultTiming(),
		sleep:  time.Sleep,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Session is an open loader. Only one session exists at a time.
type Session struct {
	l      *Loader
	closed bool
}

// Open starts a session, or fails with pkg.ErrAlreadyOpen.
func (l *Loader) Open() (*Session, error) {
	if err := l.guard.Acquire(); err != nil {
		pkg.LogWarn(pkg.ComponentFPP, "loader busy")
		return nil, err
	}
	return &Session{l: l}, nil
}

// Write runs the handshake and clocks p into the device. It returns len(p)
// on success.
func (s *Session) Write(p []byte) (int, error) {
	if s.closed {
		return 0, pkg.ErrClosed
	}
	if err := s.l.load(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close ends the session. Calls after the first return pkg.ErrClosed.
func (s *Session) Close() error {
	if s.closed {
		return pkg.ErrClosed
	}
	s.closed = true
	s.l.guard.Release()
	return nil
}

// Configure opens a session, loads blob and closes the session.
func (l *Loader) Configure(blob []byte) error {
	s, err := l.Open()
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = s.Write(blob)
	return err
}

func (l *Loader) load(blob []byte) error {
	pins := l.pins

	if err := pins.NConfig.Out(gpio.Low); err != nil {
		return fmt.Errorf("%w: nCONFIG: %w", ErrPin, err)
	}
	l.sleep(l.timing.ConfigPulse)
	if err := pins.NConfig.Out(gpio.High); err != nil {
		return fmt.Errorf("%w: nCONFIG: %w", ErrPin, err)
	}

	if pins.NStatus.Read() == gpio.High {
		pkg.LogError(pkg.ComponentFPP, "nSTATUS still high")
		return ErrStatusStuckHigh
	}
	l.sleep(l.timing.StatusDelay)
	if pins.NStatus.Read() == gpio.Low {
		pkg.LogError(pkg.ComponentFPP, "nSTATUS still low")
		return ErrStatusStuckLow
	}
	l.sleep(l.timing.SetupDelay)

	// Data is latched on the rising edge of DCLK.
	for i, b := range blob {
		if err := pins.Data.Drive(b); err != nil {
			return fmt.Errorf("byte %d: %w", i, err)
		}
		if err := pins.DCLK.Out(gpio.High); err != nil {
			return fmt.Errorf("%w: DCLK: %w", ErrPin, err)
		}
		if err := pins.DCLK.Out(gpio.Low); err != nil {
			return fmt.Errorf("%w: DCLK: %w", ErrPin, err)
		}
	}

	if pins.ConfDone.Read() == gpio.Low {
		pkg.LogError(pkg.ComponentFPP, "CONF_DONE still low", "bytes", len(blob))
		return ErrConfDoneLow
	}

	pkg.LogInfo(pkg.ComponentFPP, "device configured", "bytes", len(blob))
	return nil
}

var _ Configurator = (*Loader)(nil)
