//go:build profile

package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"
)

// Enabled reports whether profiling is compiled in.
const Enabled = true

// ErrActive indicates another session is running.
var ErrActive = errors.New("profiling session already active")

var (
	activeMu sync.Mutex
	active   bool
)

// Options selects the profiles to capture. Empty paths are skipped.
type Options struct {
	CPU   string // CPU profile, recorded for the whole session
	Heap  string // Heap snapshot, written on Stop
	Block string // Blocking profile, sampled every event, written on Stop
	Mutex string // Mutex contention profile, written on Stop
}

// Session is a running profile capture.
type Session struct {
	opts    Options
	cpu     *os.File
	prevMux int
	stopped bool
}

// Start begins a session. Only one session may run at a time.
func Start(opts Options) (*Session, error) {
	activeMu.Lock()
	defer activeMu.Unlock()
	if active {
		return nil, ErrActive
	}

	s := &Session{opts: opts}
	if opts.CPU != "" {
		f, err := os.Create(opts.CPU)
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, err
		}
		s.cpu = f
	}
	if opts.Block != "" {
		runtime.SetBlockProfileRate(1)
	}
	if opts.Mutex != "" {
		s.prevMux = runtime.SetMutexProfileFraction(1)
	}

	active = true
	return s, nil
}

// Stop ends CPU profiling and writes the snapshot profiles. Calls after the
// first do nothing.
func (s *Session) Stop() error {
	activeMu.Lock()
	defer activeMu.Unlock()
	if s.stopped {
		return nil
	}
	s.stopped = true
	active = false

	var errs []error
	if s.cpu != nil {
		pprof.StopCPUProfile()
		errs = append(errs, s.cpu.Close())
	}
	if s.opts.Heap != "" {
		runtime.GC()
		errs = append(errs, writeProfile("heap", s.opts.Heap))
	}
	if s.opts.Block != "" {
		errs = append(errs, writeProfile("block", s.opts.Block))
		runtime.SetBlockProfileRate(0)
	}
	if s.opts.Mutex != "" {
		errs = append(errs, writeProfile("mutex", s.opts.Mutex))
		runtime.SetMutexProfileFraction(s.prevMux)
	}
	return errors.Join(errs...)
}

func writeProfile(name, path string) error {
	p := pprof.Lookup(name)
	if p == nil {
		return fmt.Errorf("unknown profile %q", name)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := p.WriteTo(f, 0); err != nil {
		f.Close()
		return fmt.Errorf("write %s profile: %w", name, err)
	}
	return f.Close()
}
