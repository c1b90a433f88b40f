package mp3

import (
	binutil "github.com/simonhull/mpegscan/internal/binary"
	"github.com/simonhull/mpegscan/internal/types"
)

// MPEGFrame is a single MPEG audio frame.
type MPEGFrame struct {
	baseFrame
	header *Header
}

// Kind returns KindMPEG.
func (f *MPEGFrame) Kind() types.Kind {
	return types.KindMPEG
}

// Header returns the decoded frame header.
func (f *MPEGFrame) Header() *Header {
	return f.header
}

func (f *MPEGFrame) assemble(p []byte) {
	f.data = p
	f.header.Update(p)
}

// CommitHeader writes the header, including a recomputed CRC for protected
// frames, back into the frame bytes. Use it after changing header flags.
func (f *MPEGFrame) CommitHeader() error {
	enc := f.header.Encode(true)
	if len(f.data) < len(enc) {
		return &types.LengthError{What: "commit header", Need: len(enc), Have: len(f.data)}
	}
	copy(f.data, enc)
	return nil
}

func newMPEGFrame(buf *binutil.Buffer, s *Session, off int, strict bool) (Frame, error) {
	f, err := detectMPEG(buf, s, off, strict)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func detectMPEG(buf *binutil.Buffer, s *Session, off int, strict bool) (*MPEGFrame, error) {
	p, err := buf.View(off, -1)
	if err != nil {
		return nil, errNotThisVariant
	}

	h, err := ParseHeader(p)
	if err != nil {
		return nil, errNotThisVariant
	}
	if strict && !s.consistent(h) {
		return nil, errNotThisVariant
	}

	return &MPEGFrame{
		baseFrame: baseFrame{length: h.FrameLength()},
		header:    h,
	}, nil
}
