package eim

import (
	"fmt"
	"strings"

	"github.com/ardnew/softdma/pkg"
)

// Param identifies a bus-timing parameter.
type Param uint8

// Bus-timing parameters.
const (
	ParamDownloadMode      Param = iota // dmode
	ParamMultiplex                      // MUM
	ParamBurstClockDivisor              // BCD
	ParamWriteWaitStates                // WWSC
)

// Params lists every parameter.
var Params = []Param{
	ParamDownloadMode,
	ParamMultiplex,
	ParamBurstClockDivisor,
	ParamWriteWaitStates,
}

// Download modes.
const (
	DownloadProgram    = 1 // Configure the device from a bitstream
	DownloadParameters = 2 // Write front-end parameters
)

// Multiplex modes.
const (
	NoMux = 0 // Separate address and data lines
	Mux   = 1 // Multiplexed address/data
)

// Burst clock divisors.
const (
	BurstClock132MHz = 0
	BurstClock66MHz  = 1
	BurstClock44MHz  = 2
	BurstClock33MHz  = 3
)

// Write wait states.
const (
	WriteWait4Clocks = 0
	WriteWait5Clocks = 1
)

// String returns the parameter's attribute name.
func (p Param) String() string {
	switch p {
	case ParamDownloadMode:
		return "dmode"
	case ParamMultiplex:
		return "MUM"
	case ParamBurstClockDivisor:
		return "BCD"
	case ParamWriteWaitStates:
		return "WWSC"
	default:
		return "unknown"
	}
}

// ParseParam returns the parameter with the given attribute name. Matching
// ignores case.
func ParseParam(name string) (Param, error) {
	for _, p := range Params {
		if strings.EqualFold(name, p.String()) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown bus parameter %q", pkg.ErrInvalidParameter, name)
}

// Range returns the inclusive bounds of p.
func (p Param) Range() (lo, hi int) {
	switch p {
	case ParamDownloadMode:
		return DownloadProgram, DownloadParameters
	case ParamMultiplex:
		return NoMux, Mux
	case ParamBurstClockDivisor:
		return BurstClock132MHz, BurstClock33MHz
	case ParamWriteWaitStates:
		return 0, 63
	default:
		return 0, 0
	}
}

// Clamp limits v to the range of p.
func (p Param) Clamp(v int) int {
	lo, hi := p.Range()
	return max(lo, min(v, hi))
}

func (p Param) valid() bool {
	return p <= ParamWriteWaitStates
}

// Service reads and writes bus-timing parameters.
type Service interface {
	// Get returns the current value of p.
	Get(p Param) (int, error)

	// Set clamps v to the range of p and applies it.
	Set(p Param, v int) error
}

// Profile is a set of parameter values suited to one kind of download.
type Profile struct {
	DownloadMode    int
	Multiplex       int
	WriteWaitStates int
}

// Standard profiles.
var (
	// ProgramProfile loads a configuration bitstream over a non-multiplexed
	// bus with four write clocks.
	ProgramProfile = Profile{
		DownloadMode:    DownloadProgram,
		Multiplex:       NoMux,
		WriteWaitStates: WriteWait4Clocks,
	}

	// ParametersProfile writes front-end parameters over a multiplexed bus
	// with five write clocks.
	ParametersProfile = Profile{
		DownloadMode:    DownloadParameters,
		Multiplex:       Mux,
		WriteWaitStates: WriteWait5Clocks,
	}
)

// Apply sets each parameter of prof that differs from its current value.
func Apply(svc Service, prof Profile) error {
	want := []struct {
		p Param
		v int
	}{
		{ParamDownloadMode, prof.DownloadMode},
		{ParamMultiplex, prof.Multiplex},
		{ParamWriteWaitStates, prof.WriteWaitStates},
	}
	for _, w := range want {
		cur, err := svc.Get(w.p)
		if err != nil {
			return fmt.Errorf("get %s: %w", w.p, err)
		}
		if cur == w.v {
			continue
		}
		if err := svc.Set(w.p, w.v); err != nil {
			return fmt.Errorf("set %s: %w", w.p, err)
		}
	}
	return nil
}
