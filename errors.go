package mpegscan

import (
	"github.com/simonhull/mpegscan/internal/types"
)

// ErrEndOfStream is returned when a stream ends before a required number of
// bytes could be read. It is wrapped by InvalidDataError when a frame is cut
// short under strict parsing.
var ErrEndOfStream = types.ErrEndOfStream

// ErrCRCMismatch is wrapped by Header.Verify when a protected frame fails
// its checksum.
var ErrCRCMismatch = types.ErrCRCMismatch

// FormatError is an alias to types.FormatError.
// Re-exporting from internal/types to maintain public API.
type FormatError = types.FormatError

// LengthError is an alias to types.LengthError.
// Re-exporting from internal/types to maintain public API.
type LengthError = types.LengthError

// UnexpectedValueError is an alias to types.UnexpectedValueError.
// Re-exporting from internal/types to maintain public API.
type UnexpectedValueError = types.UnexpectedValueError

// MalformedHeaderError is an alias to types.MalformedHeaderError.
// Re-exporting from internal/types to maintain public API.
type MalformedHeaderError = types.MalformedHeaderError

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
// Re-exporting from internal/types to maintain public API.
type UnsupportedFormatError = types.UnsupportedFormatError

// InvalidDataError is an alias to types.InvalidDataError.
// Re-exporting from internal/types to maintain public API.
type InvalidDataError = types.InvalidDataError

// Warning is an alias to types.Warning.
// Re-exporting from internal/types to maintain public API.
type Warning = types.Warning
