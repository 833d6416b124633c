package eim

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ardnew/softdma/pkg"
)

// DefaultSysfsDir is the attribute directory of the bus driver.
const DefaultSysfsDir = "/sys/class/eim/eim"

// SysfsService is a Service backed by one attribute file per parameter.
type SysfsService struct {
	dir string
}

// NewSysfsService returns a service over the attribute files in dir. An
// empty dir selects DefaultSysfsDir.
func NewSysfsService(dir string) *SysfsService {
	if dir == "" {
		dir = DefaultSysfsDir
	}
	return &SysfsService{dir: dir}
}

// Dir returns the attribute directory.
func (s *SysfsService) Dir() string {
	return s.dir
}

func (s *SysfsService) path(p Param) string {
	return filepath.Join(s.dir, p.String())
}

// Get reads the attribute for p.
func (s *SysfsService) Get(p Param) (int, error) {
	if !p.valid() {
		return 0, fmt.Errorf("%w: bus parameter %d", pkg.ErrInvalidParameter, p)
	}
	v, err := readSysfsInt(s.path(p))
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", p, err)
	}
	return v, nil
}

// Set clamps v and writes it to the attribute for p.
func (s *SysfsService) Set(p Param, v int) error {
	if !p.valid() {
		return fmt.Errorf("%w: bus parameter %d", pkg.ErrInvalidParameter, p)
	}
	c := p.Clamp(v)
	if err := writeSysfsInt(s.path(p), c); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	pkg.LogDebug(pkg.ComponentEIM, "sysfs attribute written",
		"path", s.path(p),
		"value", c)
	return nil
}

// readSysfsInt reads a signed decimal integer from a sysfs attribute file.
func readSysfsInt(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// writeSysfsInt writes a decimal integer to an existing sysfs attribute
// file.
func writeSysfsInt(path string, v int) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(strconv.Itoa(v) + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var _ Service = (*SysfsService)(nil)
