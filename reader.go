package mpegscan

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/coreos/pkg/capnslog"

	binutil "github.com/simonhull/mpegscan/internal/binary"
	"github.com/simonhull/mpegscan/internal/mp3"
)

var plog = capnslog.NewPackageLogger("github.com/simonhull/mpegscan", "reader")

// minFrameBytes is the size of the smallest header any frame variant is
// recognized from. The stream ends once no more than this many bytes remain.
const minFrameBytes = 4

type syncState int

const (
	inSync syncState = iota
	lostSync
)

func (s syncState) String() string {
	if s == lostSync {
		return "lost sync"
	}
	return "in sync"
}

// Stats counts what a Reader has done so far.
type Stats struct {
	// Frames is the number of frames yielded.
	Frames int
	// Suppressed is the number of frames recognized but not yielded because
	// their kind was disabled.
	Suppressed int
	// Resyncs is the number of times synchronization was lost.
	Resyncs int
	// SkippedBytes is the number of bytes that belonged to no frame.
	SkippedBytes int64
}

// Reader extracts frames from an MPEG audio stream.
//
// Reader pulls bytes from its source into a fixed-size look-ahead buffer
// and recognizes one frame at a time: MPEG audio frames, Xing/Info VBR
// frames, ID3 and APE tags and RIFF/WAVE chunks. When the bytes at the
// current position start no frame, the Reader has lost sync. It then skips
// one byte at a time until it finds a frame that is followed by another
// valid frame.
//
// The source is read strictly forward and never seeked.
//
// Example:
//
//	r := mpegscan.NewReader(f)
//	for r.Next() {
//	    fmt.Println(r.Offset(), r.Frame().Kind(), r.Frame().Len())
//	}
//	if err := r.Err(); err != nil {
//	    return err
//	}
//
// A Reader is not safe for concurrent use.
type Reader struct {
	opts    *readerOptions
	buf     *binutil.Buffer
	session mp3.Session
	state   syncState

	frame  Frame
	offset int64
	err    error
	done   bool

	skipStart int64
	stats     Stats
	warnings  []Warning
}

// NewReader returns a Reader that extracts frames from src.
func NewReader(src io.Reader, opts ...Option) *Reader {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	options.normalize()

	return &Reader{
		opts: options,
		buf:  binutil.NewBuffer(src, options.bufferSize),
	}
}

// Next advances to the next enabled frame. It returns false when the stream
// ends or an error occurs; Err tells the two apart.
func (r *Reader) Next() bool {
	if r.done {
		return false
	}
	r.frame = nil

	for {
		if err := r.topUp(); err != nil {
			return r.stop(err)
		}

		if r.buf.Len() <= minFrameBytes {
			if r.buf.EOF() {
				return r.stop(r.residue())
			}
			if err := r.buf.Fill(r.buf.Len() + 1); err != nil && !errors.Is(err, ErrEndOfStream) {
				return r.stop(err)
			}
			continue
		}

		if err := r.lookAhead(); err != nil {
			return r.stop(err)
		}

		f, err := mp3.Detect(r.buf, &r.session, 0, r.state == inSync)
		if err != nil {
			return r.stop(err)
		}

		if f != nil && r.state == lostSync {
			ok, err := r.confirm(f)
			if err != nil {
				return r.stop(err)
			}
			if ok {
				r.regainSync()
			} else {
				f = nil
			}
		}

		if f == nil {
			if err := r.skip(); err != nil {
				return r.stop(err)
			}
			continue
		}

		emitted, err := r.accept(f)
		if err != nil {
			return r.stop(err)
		}
		if emitted {
			return true
		}
	}
}

// topUp refills the buffer once it drops below the low-water mark.
func (r *Reader) topUp() error {
	if r.buf.Len() >= r.opts.lowWaterMark || r.buf.EOF() {
		return nil
	}
	err := r.buf.Fill(r.opts.lowWaterMark)
	if errors.Is(err, ErrEndOfStream) {
		return nil
	}
	return err
}

// lookAhead buffers enough bytes to recognize a Xing/Info tag until the
// first audio frame has been examined for one. Short reads would otherwise
// make the tag look absent.
func (r *Reader) lookAhead() error {
	if r.session.Xing != mp3.XingUnknown || r.buf.EOF() {
		return nil
	}
	err := r.buf.Fill(min(r.buf.Cap(), mp3.XingLookahead))
	if errors.Is(err, ErrEndOfStream) {
		return nil
	}
	return err
}

// confirm reports whether another frame starts right after the candidate f.
func (r *Reader) confirm(f Frame) (bool, error) {
	need := f.Len() + r.opts.resyncMargin
	if need > r.buf.Cap() {
		plog.Tracef("%s candidate of %d bytes at offset %d does not fit the buffer", f.Kind(), f.Len(), r.buf.Offset())
		return false, nil
	}

	if err := r.buf.Fill(need); err != nil {
		if errors.Is(err, ErrEndOfStream) {
			return false, nil
		}
		return false, err
	}

	next, err := mp3.Detect(r.buf, &r.session, f.Len(), true)
	if err != nil {
		return false, err
	}
	if next == nil {
		plog.Tracef("%s candidate at offset %d not followed by a frame", f.Kind(), r.buf.Offset())
		return false, nil
	}
	return true, nil
}

// accept consumes the frame f from the front of the buffer. It reports
// whether f was assembled and becomes the current frame.
func (r *Reader) accept(f Frame) (bool, error) {
	off := r.buf.Offset()
	r.session.Observe(f)

	if f.Kind() == KindRIFFHeader {
		plog.Infof("RIFF/WAVE container at offset %d", off)
	}

	if !r.opts.emits(f.Kind()) {
		if _, err := r.buf.Discard(f.Len()); err != nil {
			return false, r.truncated(f, off, err)
		}
		r.stats.Suppressed++
		return false, nil
	}

	p, err := r.buf.Take(f.Len())
	if err != nil {
		return false, r.truncated(f, off, err)
	}
	mp3.Assemble(f, p)

	r.frame = f
	r.offset = off
	r.stats.Frames++
	return true, nil
}

// truncated handles the stream ending inside a frame.
func (r *Reader) truncated(f Frame, off int64, err error) error {
	if !errors.Is(err, ErrEndOfStream) {
		return err
	}
	if r.opts.skipInvalidData {
		r.stats.SkippedBytes += r.buf.Offset() - off
		r.warn(off, fmt.Sprintf("%s frame of %d bytes truncated by end of stream", f.Kind(), f.Len()))
		return errStreamEnd
	}
	return &InvalidDataError{
		Err:    err,
		Reason: fmt.Sprintf("%s frame of %d bytes truncated", f.Kind(), f.Len()),
		Offset: off,
	}
}

// skip drops the byte at the front of the buffer after no frame was
// recognized there.
func (r *Reader) skip() error {
	off := r.buf.Offset()

	if !r.opts.skipInvalidData {
		return &InvalidDataError{Reason: "no frame recognized", Offset: off}
	}

	if r.state == inSync {
		r.state = lostSync
		r.skipStart = off
		r.stats.Resyncs++
		plog.Debugf("lost sync at offset %d", off)
	}

	r.buf.Consume(1)
	r.stats.SkippedBytes++
	return nil
}

func (r *Reader) regainSync() {
	off := r.buf.Offset()
	r.state = inSync
	plog.Debugf("regained sync at offset %d after %d bytes", off, off-r.skipStart)
	r.warn(r.skipStart, fmt.Sprintf("skipped %d bytes of invalid data", off-r.skipStart))
}

// residue handles the bytes left once the source is exhausted.
func (r *Reader) residue() error {
	off := r.buf.Offset()
	n := r.buf.Len()

	if r.state == lostSync {
		r.warn(r.skipStart, fmt.Sprintf("skipped %d bytes of invalid data before end of stream", off+int64(n)-r.skipStart))
	}
	if n == 0 {
		return nil
	}

	if !r.opts.skipInvalidData {
		return &InvalidDataError{
			Err:    ErrEndOfStream,
			Reason: fmt.Sprintf("%d trailing bytes", n),
			Offset: off,
		}
	}
	if r.state == inSync {
		r.warn(off, fmt.Sprintf("%d trailing bytes", n))
	}
	r.buf.Consume(n)
	r.stats.SkippedBytes += int64(n)
	return nil
}

// errStreamEnd ends the frame sequence without an error.
var errStreamEnd = errors.New("end of frame stream")

func (r *Reader) stop(err error) bool {
	if errors.Is(err, errStreamEnd) {
		err = nil
	}
	r.err = err
	r.done = true
	r.frame = nil
	if err != nil {
		plog.Debugf("stopped at offset %d: %v", r.buf.Offset(), err)
	}
	return false
}

func (r *Reader) warn(off int64, msg string) {
	if r.opts.ignoreWarnings {
		return
	}
	r.warnings = append(r.warnings, Warning{Stage: "sync", Message: msg, Offset: off})
}

// Frame returns the current frame, or nil before the first call to Next and
// after Next has returned false. The frame owns its bytes.
func (r *Reader) Frame() Frame {
	return r.frame
}

// Offset returns the stream offset of the current frame.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Err returns the error that stopped the Reader, or nil if the stream ended
// normally.
func (r *Reader) Err() error {
	return r.err
}

// Frames returns an iterator over the remaining frames. A final non-nil
// error is yielded with a nil frame.
//
// Example:
//
//	for f, err := range mpegscan.NewReader(src).Frames() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(f.Kind())
//	}
func (r *Reader) Frames() iter.Seq2[Frame, error] {
	return func(yield func(Frame, error) bool) {
		for r.Next() {
			if !yield(r.frame, nil) {
				return
			}
		}
		if r.err != nil {
			yield(nil, r.err)
		}
	}
}

// Stats returns the counters accumulated so far.
func (r *Reader) Stats() Stats {
	return r.stats
}

// Warnings returns one warning per region of skipped bytes.
func (r *Reader) Warnings() []Warning {
	return r.warnings
}

// HasRIFF reports whether the stream started with a RIFF/WAVE header.
func (r *Reader) HasRIFF() bool {
	return r.session.HasRIFF
}
