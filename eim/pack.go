package eim

import (
	"encoding/binary"
	"fmt"

	"github.com/ardnew/softdma/pkg"
)

// Widen16 stores each byte of src in its own 16-bit word of dst, in the
// given byte order, with the other byte zero. dst must hold 2*len(src)
// bytes. It returns the number of bytes written.
func Widen16(dst, src []byte, order binary.ByteOrder) (int, error) {
	if len(dst) < 2*len(src) {
		return 0, fmt.Errorf("%w: %d bytes cannot hold %d words", pkg.ErrInvalidLength, len(dst), len(src))
	}
	for i, b := range src {
		order.PutUint16(dst[2*i:], uint16(b))
	}
	return 2 * len(src), nil
}

// Narrow8 is the inverse of Widen16: it takes the low byte of each 16-bit
// word of src. It returns the number of bytes written to dst.
func Narrow8(dst, src []byte, order binary.ByteOrder) (int, error) {
	words := len(src) / 2
	if len(dst) < words {
		return 0, fmt.Errorf("%w: %d bytes cannot hold %d words", pkg.ErrInvalidLength, len(dst), words)
	}
	for i := range words {
		dst[i] = byte(order.Uint16(src[2*i:]))
	}
	return words, nil
}
