package pkg

import "errors"

// Engine errors.
var (
	// ErrResourceUnavailable indicates the channel or buffer memory could not
	// be acquired at startup. The engine does not start.
	ErrResourceUnavailable = errors.New("resource unavailable")

	// ErrNoChannelAvailable indicates no copy-engine channel matched the
	// request, or every matching channel is already owned.
	ErrNoChannelAvailable = errors.New("no channel available")

	// ErrAlreadyOpen indicates the session is held by another caller.
	ErrAlreadyOpen = errors.New("device already open")

	// ErrInvalidLength indicates a length exceeding buffer or slot capacity.
	ErrInvalidLength = errors.New("invalid length")

	// ErrCopyFault indicates the staging source could not be read.
	ErrCopyFault = errors.New("copy fault")

	// ErrTransferSetupFailed indicates descriptor preparation failed before
	// anything was submitted.
	ErrTransferSetupFailed = errors.New("transfer setup failed")

	// ErrTransferTimedOut indicates the bounded completion wait expired.
	ErrTransferTimedOut = errors.New("transfer timed out")

	// ErrTransferFailed indicates the channel completed a transfer with an
	// error status.
	ErrTransferFailed = errors.New("transfer failed")

	// ErrAborted indicates queued work was terminated before it completed.
	ErrAborted = errors.New("transfer aborted")

	// ErrMapFailed indicates the platform mapping operation failed.
	ErrMapFailed = errors.New("map failed")

	// ErrSizeMismatch indicates a mapping request not equal to the ring size.
	ErrSizeMismatch = errors.New("mapping size mismatch")

	// ErrBusy indicates a transfer is already outstanding.
	ErrBusy = errors.New("resource busy")

	// ErrClosed indicates use of an engine or handle after Close.
	ErrClosed = errors.New("closed")

	// ErrInvalidParameter indicates an invalid parameter was provided.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNotSupported indicates an unsupported operation or platform.
	ErrNotSupported = errors.New("not supported")
)

// TransferStatus represents the completion status reported by a channel.
type TransferStatus int

// Transfer status values.
const (
	TransferStatusSuccess TransferStatus = iota // Copy landed
	TransferStatusError                         // Channel reported an error
	TransferStatusAborted                       // Work was terminated before completion
)

// String returns a string representation of the transfer status.
func (s TransferStatus) String() string {
	switch s {
	case TransferStatusSuccess:
		return "success"
	case TransferStatusError:
		return "error"
	case TransferStatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Error returns the corresponding error for the transfer status.
func (s TransferStatus) Error() error {
	switch s {
	case TransferStatusSuccess:
		return nil
	case TransferStatusAborted:
		return ErrAborted
	default:
		return ErrTransferFailed
	}
}
