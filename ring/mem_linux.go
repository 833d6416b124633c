//go:build linux

package ring

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/ardnew/softdma/pkg"
)

// allocShared creates a memory file of size bytes and maps it read-write.
func allocShared(name string, size int, policy LockPolicy) (*region, error) {
	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("%w: memfd %s: %w", pkg.ErrResourceUnavailable, name, err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: truncate %s: %w", pkg.ErrResourceUnavailable, name, err)
	}

	buf, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: mmap %s: %w", pkg.ErrResourceUnavailable, name, err)
	}

	r := &region{name: name, fd: fd, buf: buf}
	if err := r.lock(policy); err != nil {
		r.free()
		return nil, err
	}
	return r, nil
}

// allocPrivate maps size bytes of anonymous private memory.
func allocPrivate(name string, size int, policy LockPolicy) (*region, error) {
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %s: %w", pkg.ErrResourceUnavailable, name, err)
	}

	r := &region{name: name, fd: -1, buf: buf}
	if err := r.lock(policy); err != nil {
		r.free()
		return nil, err
	}
	return r, nil
}

// mapReadOnly maps the memory file behind r a second time, read-only.
func (r *region) mapReadOnly() ([]byte, error) {
	if r.fd < 0 {
		return nil, fmt.Errorf("%w: %s has no backing file", pkg.ErrMapFailed, r.name)
	}
	buf, err := unix.Mmap(r.fd, 0, len(r.buf), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pkg.ErrMapFailed, err)
	}
	return buf, nil
}

// free unlocks, unmaps and closes r.
func (r *region) free() error {
	var errs []error
	if r.locked {
		if err := unix.Munlock(r.buf); err != nil {
			errs = append(errs, fmt.Errorf("munlock %s: %w", r.name, err))
		}
		r.locked = false
	}
	if r.buf != nil {
		if err := unix.Munmap(r.buf); err != nil {
			errs = append(errs, fmt.Errorf("munmap %s: %w", r.name, err))
		}
		r.buf = nil
	}
	if r.fd >= 0 {
		if err := unix.Close(r.fd); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", r.name, err))
		}
		r.fd = -1
	}
	return errors.Join(errs...)
}

func lockMemory(buf []byte) error {
	return unix.Mlock(buf)
}

func unmap(buf []byte) error {
	return unix.Munmap(buf)
}
