//go:build !linux

package ring

import (
	"fmt"

	"github.com/ardnew/softdma/pkg"
)

func allocShared(name string, _ int, _ LockPolicy) (*region, error) {
	return nil, fmt.Errorf("%w: %w: memory file %s", pkg.ErrResourceUnavailable, pkg.ErrNotSupported, name)
}

func allocPrivate(name string, _ int, _ LockPolicy) (*region, error) {
	return nil, fmt.Errorf("%w: %w: mapping %s", pkg.ErrResourceUnavailable, pkg.ErrNotSupported, name)
}

func (r *region) mapReadOnly() ([]byte, error) {
	return nil, fmt.Errorf("%w: %w", pkg.ErrMapFailed, pkg.ErrNotSupported)
}

func (r *region) free() error {
	return nil
}

func lockMemory(_ []byte) error {
	return pkg.ErrNotSupported
}

func unmap(_ []byte) error {
	return nil
}
