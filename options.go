package mpegscan

import binutil "github.com/simonhull/mpegscan/internal/binary"

// Default tuning values for the Reader.
const (
	// DefaultBufferSize is the capacity of the look-ahead buffer.
	DefaultBufferSize = binutil.DefaultBufferSize

	// DefaultResyncMargin is the number of bytes past a resync candidate
	// that must be buffered before the following frame is checked.
	DefaultResyncMargin = 12

	// DefaultLowWaterMark is the buffered byte count below which the Reader
	// refills from its source.
	DefaultLowWaterMark = 12
)

// Option configures a Reader.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	r := mpegscan.NewReader(f,
//	    mpegscan.WithStrictParsing(),
//	    mpegscan.WithMetaFrames(false),
//	)
type Option func(*readerOptions)

// readerOptions holds configuration for reading streams.
type readerOptions struct {
	skipInvalidData bool // Resynchronize over garbage instead of failing
	riffFrames      bool // Yield RIFF container frames
	id3Frames       bool // Yield ID3 tags
	apeFrames       bool // Yield APE tags
	ignoreWarnings  bool // Do not collect warnings
	bufferSize      int
	resyncMargin    int
	lowWaterMark    int
}

// defaultOptions returns the default configuration.
func defaultOptions() *readerOptions {
	return &readerOptions{
		skipInvalidData: true,
		riffFrames:      true,
		id3Frames:       true,
		apeFrames:       true,
		ignoreWarnings:  false,
		bufferSize:      DefaultBufferSize,
		resyncMargin:    DefaultResyncMargin,
		lowWaterMark:    DefaultLowWaterMark,
	}
}

// normalize replaces out-of-range values with usable ones.
func (o *readerOptions) normalize() {
	if o.bufferSize <= 0 {
		o.bufferSize = DefaultBufferSize
	}
	if o.resyncMargin < 0 {
		o.resyncMargin = DefaultResyncMargin
	}
	if o.lowWaterMark <= 0 {
		o.lowWaterMark = DefaultLowWaterMark
	}
	o.lowWaterMark = min(o.lowWaterMark, o.bufferSize)
}

// emits reports whether frames of kind k are yielded.
func (o *readerOptions) emits(k Kind) bool {
	switch {
	case k.IsRIFF():
		return o.riffFrames
	case k.IsID3():
		return o.id3Frames
	case k.IsAPE():
		return o.apeFrames
	default:
		return true
	}
}

// WithSkipInvalidData controls what happens when the Reader meets bytes that
// do not start a recognizable frame.
//
// By default (true) the Reader skips them one byte at a time until it finds
// a frame followed by another valid frame, records a Warning and carries on.
// With false, the first such byte ends the read with an *InvalidDataError
// carrying its stream offset.
func WithSkipInvalidData(skip bool) Option {
	return func(o *readerOptions) {
		o.skipInvalidData = skip
	}
}

// WithStrictParsing fails on invalid data instead of resynchronizing.
//
// It is shorthand for WithSkipInvalidData(false). A frame truncated by the
// end of the stream and trailing bytes too short to hold a frame are
// reported as *InvalidDataError as well.
//
// Example:
//
//	r := mpegscan.NewReader(f, mpegscan.WithStrictParsing())
//	for r.Next() {
//	    // ...
//	}
//	var invalid *mpegscan.InvalidDataError
//	if errors.As(r.Err(), &invalid) {
//	    log.Printf("garbage at offset %d", invalid.Offset)
//	}
func WithStrictParsing() Option {
	return WithSkipInvalidData(false)
}

// WithRIFFFrames controls whether the RIFF/WAVE header and chunk frames are
// yielded. They are always parsed. Default is true.
func WithRIFFFrames(emit bool) Option {
	return func(o *readerOptions) {
		o.riffFrames = emit
	}
}

// WithID3Frames controls whether ID3v1 and ID3v2 tags are yielded. Skipped
// tags are not copied out of the stream. Default is true.
func WithID3Frames(emit bool) Option {
	return func(o *readerOptions) {
		o.id3Frames = emit
	}
}

// WithAPEFrames controls whether APE tags are yielded. Default is true.
func WithAPEFrames(emit bool) Option {
	return func(o *readerOptions) {
		o.apeFrames = emit
	}
}

// WithMetaFrames sets both WithID3Frames and WithAPEFrames.
//
// Example:
//
//	// Audio frames only
//	r := mpegscan.NewReader(f,
//	    mpegscan.WithMetaFrames(false),
//	    mpegscan.WithRIFFFrames(false),
//	)
func WithMetaFrames(emit bool) Option {
	return func(o *readerOptions) {
		o.id3Frames = emit
		o.apeFrames = emit
	}
}

// WithBufferSize sets the capacity of the look-ahead buffer in bytes.
//
// Frames larger than the buffer are still read, but a frame found while
// resynchronizing is only accepted if it and the resync margin fit. Once
// sync is lost, a stream whose frames are larger than the buffer minus the
// margin never regains it. The default fits every MPEG-1 frame; MPEG-2 and
// MPEG-2.5 Layer I frames reach 30736 bytes, and ID3v2 tags following
// damaged data can be larger still, so such streams need a larger buffer.
// Default is 8192.
func WithBufferSize(n int) Option {
	return func(o *readerOptions) {
		o.bufferSize = n
	}
}

// WithResyncMargin sets how many bytes past a resync candidate must be
// buffered before the frame following it is checked. Default is 12.
func WithResyncMargin(n int) Option {
	return func(o *readerOptions) {
		o.resyncMargin = n
	}
}

// WithLowWaterMark sets the buffered byte count below which the Reader
// refills from its source. Default is 12.
func WithLowWaterMark(n int) Option {
	return func(o *readerOptions) {
		o.lowWaterMark = n
	}
}

// WithIgnoreWarnings suppresses all warnings.
//
// By default, every skipped region of invalid data is recorded as a
// Warning. This option discards them; Stats still counts them.
func WithIgnoreWarnings() Option {
	return func(o *readerOptions) {
		o.ignoreWarnings = true
	}
}
