package mp3

import (
	"errors"

	binutil "github.com/simonhull/mpegscan/internal/binary"
)

type detector func(buf *binutil.Buffer, s *Session, off int, strict bool) (Frame, error)

// variants lists the frame detectors in the order they are tried. Xing comes
// before MPEG because every Xing frame is also a valid MPEG frame.
var variants = []detector{
	newXingFrame,
	newMPEGFrame,
	newRIFFFrame,
	newID3Frame,
	newAPEFrame,
}

// Detect identifies the frame starting at off of the buffered window.
//
// It returns the first variant that matches, or nil when none does. strict
// rejects audio frames whose version or layer differ from those recorded in
// s. The returned frame is not assembled; its length may exceed the bytes
// currently buffered. A non-nil error, such as *types.UnsupportedFormatError
// for a RIFF file wrapping PCM audio, is not recoverable.
func Detect(buf *binutil.Buffer, s *Session, off int, strict bool) (Frame, error) {
	for _, detect := range variants {
		f, err := detect(buf, s, off, strict)
		switch {
		case err == nil:
			return f, nil
		case errors.Is(err, errNotThisVariant):
			continue
		default:
			return nil, err
		}
	}
	return nil, nil
}
