package binary

import (
	"fmt"

	"github.com/simonhull/mpegscan/internal/types"
)

// Pack writes values into dst according to f, most significant bit first.
//
// Integer values are masked to their field width; Boolean values are
// coerced to 0 or 1. Bits of dst beyond the format are left untouched.
func Pack(f *Format, dst []byte, values []uint32) error {
	if len(dst) < f.size {
		return &types.LengthError{What: "bit pack", Need: f.size, Have: len(dst)}
	}
	if len(values) != len(f.fields) {
		return fmt.Errorf("bit pack: got %d values for %d fields", len(values), len(f.fields))
	}

	bit := 0
	for i, fd := range f.fields {
		v := values[i]
		if fd.Kind == Boolean && v != 0 {
			v = 1
		}
		writeBits(dst, bit, fd.Width, v&widthMask(fd.Width))
		bit += fd.Width
	}

	return nil
}

// Unpack decodes src according to f.
//
// A field declaring an expected constant that decodes to anything else
// fails with a *types.UnexpectedValueError naming the field.
func Unpack(f *Format, src []byte) ([]uint32, error) {
	if len(src) < f.size {
		return nil, &types.LengthError{What: "bit unpack", Need: f.size, Have: len(src)}
	}

	values := make([]uint32, len(f.fields))
	bit := 0
	for i, fd := range f.fields {
		v := readBits(src, bit, fd.Width)
		bit += fd.Width

		if fd.Expected != nil && v != *fd.Expected {
			return nil, &types.UnexpectedValueError{Field: fd.Name, Got: v, Want: *fd.Expected}
		}
		values[i] = v
	}

	return values, nil
}

func widthMask(width int) uint32 {
	return uint32(uint64(1)<<width - 1)
}

func readBits(p []byte, bit, width int) uint32 {
	var v uint32
	for width > 0 {
		used := bit & 7
		n := min(8-used, width)
		shift := 8 - used - n

		chunk := uint32(p[bit>>3]>>shift) & widthMask(n)
		v = v<<n | chunk

		bit += n
		width -= n
	}
	return v
}

func writeBits(p []byte, bit, width int, v uint32) {
	for width > 0 {
		used := bit & 7
		n := min(8-used, width)
		shift := 8 - used - n

		chunk := byte((v >> (width - n)) & widthMask(n))
		mask := byte(widthMask(n)) << shift
		p[bit>>3] = p[bit>>3]&^mask | chunk<<shift

		bit += n
		width -= n
	}
}
