// Package mp3 detects and assembles the frames of an MPEG audio stream:
// audio frames, Xing/Info VBR headers, ID3 and APE tags, and the chunks of
// a RIFF/WAVE container wrapping MPEG audio.
package mp3

import (
	"errors"

	"github.com/simonhull/mpegscan/internal/types"
)

// errNotThisVariant reports that the bytes at an offset do not start a frame
// of the variant being tried.
var errNotThisVariant = errors.New("not this frame variant")

// Frame is one unit extracted from a stream.
//
// The set of implementations is closed: *ID3Frame, *APEFrame, *RIFFFrame,
// *MPEGFrame and *XingFrame.
type Frame interface {
	// Kind returns the frame variant.
	Kind() types.Kind
	// Len returns the total length of the frame in bytes.
	Len() int
	// Bytes returns the frame contents once assembled, or nil.
	Bytes() []byte

	assemble(p []byte)
}

// AudioFrame is a frame carrying an MPEG audio header.
type AudioFrame interface {
	Frame
	Header() *Header
}

// Assemble hands a detected frame its Len() bytes. The frame takes
// ownership of p.
func Assemble(f Frame, p []byte) {
	f.assemble(p)
}

type baseFrame struct {
	data   []byte
	length int
}

func (f *baseFrame) Len() int {
	return f.length
}

func (f *baseFrame) Bytes() []byte {
	return f.data
}

func (f *baseFrame) assemble(p []byte) {
	f.data = p
}
