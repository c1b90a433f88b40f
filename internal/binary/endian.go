package binary

import (
	"encoding/binary"

	"github.com/simonhull/mpegscan/internal/types"
)

// Endianness represents byte order for multi-byte values.
type Endianness int

const (
	// BigEndian uses big-endian byte order.
	// Used by: MPEG CRC words, Xing/Info headers.
	BigEndian Endianness = iota

	// LittleEndian uses little-endian byte order.
	// Used by: RIFF chunk sizes, APE tag headers.
	LittleEndian
)

// Unsigned is the set of integer types the decoding helpers support.
type Unsigned interface {
	uint8 | uint16 | uint32 | uint64
}

func (e Endianness) byteOrder() binary.ByteOrder {
	if e == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// SizeOf returns the encoded size of T in bytes.
func SizeOf[T Unsigned]() int {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

// Decode reads a value of type T at the given offset of p with the specified
// byte order.
//
// The read is bounds checked; what names the value in error messages.
//
// Example:
//
//	size, err := binary.Decode[uint32](chunk, 4, binary.LittleEndian, "fmt chunk size")
func Decode[T Unsigned](p []byte, off int, endian Endianness, what string) (T, error) {
	var zero T
	size := SizeOf[T]()
	if off < 0 || off+size > len(p) {
		return zero, &types.LengthError{What: what, Offset: off, Need: size, Have: max(len(p)-max(off, 0), 0)}
	}

	b := p[off : off+size]
	order := endian.byteOrder()

	var val T
	switch any(zero).(type) {
	case uint8:
		val = T(b[0])
	case uint16:
		val = T(order.Uint16(b))
	case uint32:
		val = T(order.Uint32(b))
	case uint64:
		val = T(order.Uint64(b))
	}

	return val, nil
}

// DecodeBE reads a big-endian value of type T at the given offset.
//
// This is a convenience wrapper for Decode with BigEndian.
func DecodeBE[T Unsigned](p []byte, off int, what string) (T, error) {
	return Decode[T](p, off, BigEndian, what)
}

// Encode writes val at the given offset of p with the specified byte order.
func Encode[T Unsigned](p []byte, off int, endian Endianness, val T, what string) error {
	size := SizeOf[T]()
	if off < 0 || off+size > len(p) {
		return &types.LengthError{What: what, Offset: off, Need: size, Have: max(len(p)-max(off, 0), 0)}
	}

	b := p[off : off+size]
	order := endian.byteOrder()

	switch v := any(val).(type) {
	case uint8:
		b[0] = v
	case uint16:
		order.PutUint16(b, v)
	case uint32:
		order.PutUint32(b, v)
	case uint64:
		order.PutUint64(b, v)
	}

	return nil
}
