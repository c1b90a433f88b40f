package mp3

import (
	"fmt"

	"github.com/go-audio/riff"

	binutil "github.com/simonhull/mpegscan/internal/binary"
	"github.com/simonhull/mpegscan/internal/types"
)

const (
	riffHeaderLength  = 12
	chunkHeaderLength = 8

	// formatMPEGLayer3 is the WAVE format tag for MPEG-1 Layer III audio.
	formatMPEGLayer3 = 0x55
)

var factID = [4]byte{'f', 'a', 'c', 't'}

// RIFFFrame is the RIFF/WAVE header or one of the fmt, fact and data chunk
// headers of a WAVE file wrapping MPEG audio. The data chunk frame holds
// only its 8-byte header; the audio frames follow it in the stream.
type RIFFFrame struct {
	baseFrame
	kind      types.Kind
	chunk     [4]byte
	formatTag uint16
}

// Kind returns one of the RIFF kinds.
func (f *RIFFFrame) Kind() types.Kind {
	return f.kind
}

// Chunk returns the four character code, "RIFF" for the container header.
func (f *RIFFFrame) Chunk() string {
	return string(f.chunk[:])
}

// FormatTag returns the WAVE format tag of a fmt chunk, 0 otherwise.
func (f *RIFFFrame) FormatTag() uint16 {
	return f.formatTag
}

func newRIFFFrame(buf *binutil.Buffer, s *Session, off int, _ bool) (Frame, error) {
	if buf.HasPrefix(riff.RiffID[:], off) && buf.HasPrefix(riff.WavFormatID[:], off+8) &&
		buf.Offset()+int64(off) == 0 {
		s.HasRIFF = true
		return &RIFFFrame{
			baseFrame: baseFrame{length: riffHeaderLength},
			kind:      types.KindRIFFHeader,
			chunk:     riff.RiffID,
		}, nil
	}

	if !s.HasRIFF {
		return nil, errNotThisVariant
	}

	switch {
	case buf.HasPrefix(riff.DataFormatID[:], off):
		return &RIFFFrame{
			baseFrame: baseFrame{length: chunkHeaderLength},
			kind:      types.KindRIFFData,
			chunk:     riff.DataFormatID,
		}, nil

	case buf.HasPrefix(riff.FmtID[:], off):
		size, err := binutil.UnpackAt[uint32](buf, off+4, binutil.LittleEndian)
		if err != nil {
			return nil, errNotThisVariant
		}
		tag, err := binutil.UnpackAt[uint16](buf, off+8, binutil.LittleEndian)
		if err != nil {
			return nil, errNotThisVariant
		}
		if tag != formatMPEGLayer3 {
			return nil, &types.UnsupportedFormatError{
				Reason: fmt.Sprintf("RIFF file with non MPEG-1 Layer III data, format = 0x%x", tag),
				Offset: buf.Offset() + int64(off),
			}
		}
		return &RIFFFrame{
			baseFrame: baseFrame{length: int(size) + chunkHeaderLength},
			kind:      types.KindRIFFFmt,
			chunk:     riff.FmtID,
			formatTag: tag,
		}, nil

	case buf.HasPrefix(factID[:], off):
		size, err := binutil.UnpackAt[uint32](buf, off+4, binutil.LittleEndian)
		if err != nil {
			return nil, errNotThisVariant
		}
		return &RIFFFrame{
			baseFrame: baseFrame{length: int(size) + chunkHeaderLength},
			kind:      types.KindRIFFFact,
			chunk:     factID,
		}, nil

	default:
		return nil, errNotThisVariant
	}
}
