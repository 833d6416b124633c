//go:build !profile

package prof

// Enabled reports whether profiling is compiled in.
const Enabled = false

// ErrActive is never returned without the "profile" tag.
var ErrActive error

// Options selects the profiles to capture. It is ignored without the
// "profile" tag.
type Options struct {
	CPU   string
	Heap  string
	Block string
	Mutex string
}

// Session records nothing without the "profile" tag.
type Session struct{}

// Start returns an inert session.
func Start(Options) (*Session, error) {
	return &Session{}, nil
}

// Stop does nothing.
func (*Session) Stop() error {
	return nil
}
