package binary

import (
	"io"
)

// SafeWriter wraps io.Writer with position tracking.
type SafeWriter struct {
	w      io.Writer
	offset int64
}

// NewSafeWriter creates a new SafeWriter.
func NewSafeWriter(w io.Writer) *SafeWriter {
	return &SafeWriter{w: w}
}

// Offset returns the current position (number of bytes written).
func (sw *SafeWriter) Offset() int64 {
	return sw.offset
}

// WriteBytes writes raw bytes to the underlying writer.
func (sw *SafeWriter) WriteBytes(b []byte) error {
	n, err := sw.w.Write(b)
	sw.offset += int64(n)
	return err
}

// Write writes a value of type T in the given byte order.
func Write[T Unsigned](sw *SafeWriter, endian Endianness, val T) error {
	buf := make([]byte, SizeOf[T]())
	if err := Encode(buf, 0, endian, val, "write"); err != nil {
		return err
	}
	return sw.WriteBytes(buf)
}
