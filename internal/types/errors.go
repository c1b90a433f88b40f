package types

import (
	"errors"
	"fmt"
)

// ErrEndOfStream is returned when the source is exhausted before a required
// number of bytes could be buffered.
var ErrEndOfStream = errors.New("unexpected end of stream")

// ErrCRCMismatch is returned by Header.Verify when a protected header's
// stored checksum does not match the computed one.
var ErrCRCMismatch = errors.New("crc mismatch")

// FormatError is returned when a bit format declaration is malformed.
type FormatError struct {
	Field  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("bit format: %s", e.Reason)
	}
	return fmt.Sprintf("bit format: field %q: %s", e.Field, e.Reason)
}

// LengthError is returned when an operation would read or write outside of
// the available bytes.
type LengthError struct {
	What   string
	Offset int
	Need   int
	Have   int
}

func (e *LengthError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("%s: negative offset %d", e.What, e.Offset)
	}
	return fmt.Sprintf("%s: need %d bytes at offset %d, have %d", e.What, e.Need, e.Offset, e.Have)
}

// UnexpectedValueError is returned when a bit field declaring an expected
// constant decodes to a different value.
type UnexpectedValueError struct {
	Field string
	Got   uint32
	Want  uint32
}

func (e *UnexpectedValueError) Error() string {
	return fmt.Sprintf("field %q: got 0x%X, want 0x%X", e.Field, e.Got, e.Want)
}

// MalformedHeaderError is returned when an MPEG header decodes structurally
// but one of its fields holds a reserved or invalid code.
type MalformedHeaderError struct {
	Field  string
	Code   uint32
	Reason string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("malformed header: %s (code %d): %s", e.Field, e.Code, e.Reason)
}

// UnsupportedFormatError is returned when a container wraps audio that
// cannot be parsed as MPEG frames.
type UnsupportedFormatError struct {
	Reason string
	Offset int64
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format at offset %d: %s", e.Offset, e.Reason)
}

// InvalidDataError is returned when strict parsing is enabled and the stream
// holds bytes that do not belong to any recognizable frame.
type InvalidDataError struct {
	Err    error
	Reason string
	Offset int64
}

func (e *InvalidDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid data at offset %d: %s: %v", e.Offset, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid data at offset %d: %s", e.Offset, e.Reason)
}

func (e *InvalidDataError) Unwrap() error {
	return e.Err
}

// Warning represents a non-fatal issue encountered while reading a stream.
//
// The reader records one warning for every region of unrecognizable bytes it
// skips while resynchronizing. Examples include:
//   - Garbage between two frames
//   - A frame whose header was damaged in transit
//   - Trailing bytes too short to hold any frame
type Warning struct {
	// Stage where the warning occurred
	Stage string // "sync", "tags", "xing"

	// Warning message
	Message string

	// Stream offset where the issue occurred
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
