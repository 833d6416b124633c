package engine

import "github.com/ardnew/softdma/pkg"

// undoStack records release steps for resources acquired so far and runs
// them newest first.
type undoStack struct {
	steps []undoStep
}

type undoStep struct {
	name string
	fn   func() error
}

func (u *undoStack) push(name string, fn func() error) {
	u.steps = append(u.steps, undoStep{name: name, fn: fn})
}

// unwind runs every step in reverse order and empties the stack. Failures
// are logged; unwinding continues.
func (u *undoStack) unwind() {
	for i := len(u.steps) - 1; i >= 0; i-- {
		s := u.steps[i]
		if err := s.fn(); err != nil {
			pkg.LogWarn(pkg.ComponentEngine, "release failed",
				"resource", s.name,
				"error", err)
		}
	}
	u.steps = nil
}
