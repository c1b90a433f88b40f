package binary

import (
	"bytes"
	"errors"
	"io"

	"github.com/simonhull/mpegscan/internal/types"
)

// DefaultBufferSize is the capacity of a Buffer created with a non-positive
// size.
const DefaultBufferSize = 8192

// maxConsecutiveEmptyReads bounds the number of (0, nil) reads Fill tolerates
// before giving up with io.ErrNoProgress.
const maxConsecutiveEmptyReads = 100

// Buffer is a fixed-capacity sliding window over bytes pulled from a
// blocking source.
//
// The window [pos, end) holds the bytes that have been read but not yet
// consumed. Views returned by View alias the window and are only valid
// until the next call to Fill, Take or Discard.
type Buffer struct {
	src    io.Reader
	buf    []byte
	pos    int
	end    int
	offset int64 // stream offset of buf[pos]
	eof    bool
}

// NewBuffer creates a Buffer reading from src with the given capacity.
func NewBuffer(src io.Reader, capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	return &Buffer{
		src: src,
		buf: make([]byte, capacity),
	}
}

// Len returns the number of buffered, unconsumed bytes.
func (b *Buffer) Len() int {
	return b.end - b.pos
}

// Cap returns the fixed capacity of the buffer.
func (b *Buffer) Cap() int {
	return len(b.buf)
}

// Offset returns the stream offset of the first buffered byte, which is the
// number of bytes consumed so far.
func (b *Buffer) Offset() int64 {
	return b.offset
}

// EOF reports whether the source has signalled end of stream.
func (b *Buffer) EOF() bool {
	return b.eof
}

// Fill reads from the source into the free capacity of the buffer.
//
// If atLeast is positive and the window already holds that many bytes, Fill
// returns immediately. Otherwise the window is compacted to the front and
// the source is read until the window holds atLeast bytes; a non-positive
// atLeast performs a single read. Fill returns types.ErrEndOfStream when the
// source is exhausted first, and a *types.LengthError when atLeast exceeds
// the capacity.
func (b *Buffer) Fill(atLeast int) error {
	if atLeast > len(b.buf) {
		return &types.LengthError{What: "buffer fill", Need: atLeast, Have: len(b.buf)}
	}
	if atLeast > 0 && b.Len() >= atLeast {
		return nil
	}

	b.compact()

	empty := 0
	for {
		if !b.eof && b.end < len(b.buf) {
			n, err := b.src.Read(b.buf[b.end:])
			b.end += n

			switch {
			case errors.Is(err, io.EOF):
				b.eof = true
			case err != nil:
				return err
			case n == 0:
				empty++
				if empty >= maxConsecutiveEmptyReads {
					return io.ErrNoProgress
				}
			default:
				empty = 0
			}
		}

		if atLeast <= 0 || b.Len() >= atLeast {
			return nil
		}
		if b.eof {
			return types.ErrEndOfStream
		}
	}
}

// compact shifts the window to the front of the backing array.
func (b *Buffer) compact() {
	if b.pos == 0 {
		return
	}
	n := copy(b.buf, b.buf[b.pos:b.end])
	b.pos = 0
	b.end = n
}

// View returns the n bytes at off without copying. A negative n selects
// everything from off to the end of the window.
func (b *Buffer) View(off, n int) ([]byte, error) {
	if off < 0 || off > b.Len() {
		return nil, &types.LengthError{What: "buffer view", Offset: off, Need: max(n, 0), Have: max(b.Len()-max(off, 0), 0)}
	}
	if n < 0 {
		n = b.Len() - off
	}
	if off+n > b.Len() {
		return nil, &types.LengthError{What: "buffer view", Offset: off, Need: n, Have: b.Len() - off}
	}

	start := b.pos + off
	return b.buf[start : start+n : start+n], nil
}

// Bytes returns the whole window without copying.
func (b *Buffer) Bytes() []byte {
	return b.buf[b.pos:b.end:b.end]
}

// Consume discards up to n bytes from the front of the window.
func (b *Buffer) Consume(n int) {
	n = min(max(n, 0), b.Len())
	b.pos += n
	b.offset += int64(n)

	if b.pos == b.end {
		b.pos, b.end = 0, 0
	}
}

// HasPrefix reports whether the window holds prefix at off.
func (b *Buffer) HasPrefix(prefix []byte, off int) bool {
	if off < 0 || off > b.Len() {
		return false
	}
	return bytes.HasPrefix(b.buf[b.pos+off:b.end], prefix)
}

// Replace overwrites the window at off with p.
func (b *Buffer) Replace(off int, p []byte) error {
	dst, err := b.View(off, len(p))
	if err != nil {
		return err
	}
	copy(dst, p)
	return nil
}

// UnpackBits decodes the bit fields of f at off.
func (b *Buffer) UnpackBits(f *Format, off int) ([]uint32, error) {
	p, err := b.View(off, f.Len())
	if err != nil {
		return nil, err
	}
	return Unpack(f, p)
}

// PackBits encodes values according to f into the window at off.
func (b *Buffer) PackBits(f *Format, off int, values []uint32) error {
	p, err := b.View(off, f.Len())
	if err != nil {
		return err
	}
	return Pack(f, p, values)
}

// UnpackAt decodes a value of type T at off of the window.
func UnpackAt[T Unsigned](b *Buffer, off int, endian Endianness) (T, error) {
	return Decode[T](b.Bytes(), off, endian, "buffer unpack")
}

// PackAt encodes val at off of the window.
func PackAt[T Unsigned](b *Buffer, off int, endian Endianness, val T) error {
	return Encode(b.Bytes(), off, endian, val, "buffer pack")
}

// Take copies the next n bytes out of the stream and consumes them,
// refilling the window as needed. n may exceed the capacity.
//
// When the source ends early Take returns the bytes it could read together
// with types.ErrEndOfStream. n comes from untrusted length fields, so the
// result only grows past the capacity with bytes actually read.
func (b *Buffer) Take(n int) ([]byte, error) {
	out := make([]byte, 0, min(n, len(b.buf)))
	err := b.drain(n, func(p []byte) {
		out = append(out, p...)
	})
	return out, err
}

// Discard consumes the next n bytes of the stream without copying them,
// refilling the window as needed. It returns the number of bytes discarded.
func (b *Buffer) Discard(n int) (int, error) {
	var discarded int
	err := b.drain(n, func(p []byte) {
		discarded += len(p)
	})
	return discarded, err
}

func (b *Buffer) drain(n int, sink func([]byte)) error {
	for n > 0 {
		if b.Len() == 0 {
			if err := b.Fill(1); err != nil {
				return err
			}
		}

		k := min(n, b.Len())
		sink(b.buf[b.pos : b.pos+k])
		b.Consume(k)
		n -= k
	}
	return nil
}
