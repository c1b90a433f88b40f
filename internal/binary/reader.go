// Package binary provides bounds-checked binary primitives: byte-order
// decoding, MSB-first bit field codecs and a fixed-capacity stream buffer.
package binary

import (
	"github.com/simonhull/mpegscan/internal/types"
)

// Reader provides sequential decoding over a byte slice with automatic
// offset tracking.
type Reader struct {
	p      []byte
	offset int
	endian Endianness
}

// NewReader creates a new Reader over p starting at the given offset.
func NewReader(p []byte, offset int, endian Endianness) *Reader {
	return &Reader{
		p:      p,
		offset: offset,
		endian: endian,
	}
}

// ReadValue reads a numeric value and advances the offset.
func ReadValue[T Unsigned](r *Reader, what string) (T, error) {
	val, err := Decode[T](r.p, r.offset, r.endian, what)
	if err != nil {
		var zero T
		return zero, err
	}

	r.offset += SizeOf[T]()
	return val, nil
}

// ReadBytes returns the next n bytes without copying and advances the offset.
func (r *Reader) ReadBytes(n int, what string) ([]byte, error) {
	if n < 0 || r.offset < 0 || r.offset+n > len(r.p) {
		return nil, &types.LengthError{What: what, Offset: r.offset, Need: n, Have: max(len(r.p)-r.offset, 0)}
	}

	b := r.p[r.offset : r.offset+n : r.offset+n]
	r.offset += n
	return b, nil
}

// Offset returns the current offset.
func (r *Reader) Offset() int {
	return r.offset
}

// ChainReader allows chaining multiple reads with deferred error checking.
// This avoids repetitive "if err != nil" checks.
type ChainReader struct {
	*Reader
	err error
}

// NewChainReader creates a new ChainReader.
func NewChainReader(r *Reader) *ChainReader {
	return &ChainReader{Reader: r}
}

// ReadChained reads a value with deferred error checking.
// If a previous read failed, returns zero value without attempting read.
func ReadChained[T Unsigned](cr *ChainReader, what string) T {
	if cr.err != nil {
		var zero T
		return zero
	}

	val, err := ReadValue[T](cr.Reader, what)
	if err != nil {
		cr.err = err
		var zero T
		return zero
	}

	return val
}

// Bytes reads n bytes, accumulating any error.
func (cr *ChainReader) Bytes(n int, what string) []byte {
	if cr.err != nil {
		return nil
	}

	b, err := cr.Reader.ReadBytes(n, what)
	if err != nil {
		cr.err = err
		return nil
	}

	return b
}

// Error returns the accumulated error, if any.
func (cr *ChainReader) Error() error {
	return cr.err
}
