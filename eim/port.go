package eim

import (
	"fmt"
	"io"

	"github.com/ardnew/softdma/fpp"
	"github.com/ardnew/softdma/pkg"
)

// Port routes downloads by the current download mode. In program mode a
// download is a configuration bitstream handed to Program; in parameters
// mode it is written to Window.
type Port struct {
	Params  Service
	Program fpp.Configurator
	Window  io.Writer

	// Limit caps the bytes taken from one download. Zero means no limit.
	Limit int
}

// Write downloads p and returns the number of bytes taken.
func (pt *Port) Write(p []byte) (int, error) {
	mode, err := pt.Params.Get(ParamDownloadMode)
	if err != nil {
		return 0, err
	}

	n := len(p)
	if pt.Limit > 0 {
		n = min(n, pt.Limit)
	}

	switch mode {
	case DownloadProgram:
		if pt.Program == nil {
			return 0, fmt.Errorf("%w: no configuration loader", pkg.ErrNotSupported)
		}
		if err := pt.Program.Configure(p[:n]); err != nil {
			pkg.LogError(pkg.ComponentEIM, "program download failed",
				"bytes", n,
				"error", err)
			return 0, err
		}
		pkg.LogInfo(pkg.ComponentEIM, "program downloaded", "bytes", n)
		return n, nil

	case DownloadParameters:
		if pt.Window == nil {
			return 0, fmt.Errorf("%w: no parameter window", pkg.ErrNotSupported)
		}
		return pt.Window.Write(p[:n])

	default:
		return 0, fmt.Errorf("%w: download mode %d", pkg.ErrInvalidParameter, mode)
	}
}
