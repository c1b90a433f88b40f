package mp3

import (
	binutil "github.com/simonhull/mpegscan/internal/binary"
	"github.com/simonhull/mpegscan/internal/types"
)

const (
	id3v1Length       = 128
	id3v2HeaderLength = 10
	apeHeaderLength   = 32

	apeVersion1 = 1000
	apeVersion2 = 2000
)

var (
	id3v1Magic = []byte("TAG")
	id3v2Magic = []byte("ID3")
	apeMagic   = []byte("APETAGEX")
)

// ID3Frame is an ID3v1 or ID3v2 tag.
type ID3Frame struct {
	baseFrame
	version int
}

// Kind returns KindID3v1 or KindID3v2.
func (f *ID3Frame) Kind() types.Kind {
	if f.version == 1 {
		return types.KindID3v1
	}
	return types.KindID3v2
}

// Version returns 1 or 2.
func (f *ID3Frame) Version() int {
	return f.version
}

func newID3Frame(buf *binutil.Buffer, _ *Session, off int, _ bool) (Frame, error) {
	switch {
	case buf.HasPrefix(id3v1Magic, off):
		return &ID3Frame{baseFrame: baseFrame{length: id3v1Length}, version: 1}, nil

	case buf.HasPrefix(id3v2Magic, off):
		header, err := buf.View(off, id3v2HeaderLength)
		if err != nil {
			return nil, errNotThisVariant
		}
		size := synchsafe(header[6:10])
		return &ID3Frame{baseFrame: baseFrame{length: size + id3v2HeaderLength}, version: 2}, nil

	default:
		return nil, errNotThisVariant
	}
}

// synchsafe decodes a 4-byte synchsafe integer, 7 significant bits per byte.
func synchsafe(p []byte) int {
	return int(p[0]&0x7F)<<21 | int(p[1]&0x7F)<<14 | int(p[2]&0x7F)<<7 | int(p[3]&0x7F)
}

// APEFrame is an APEv1 or APEv2 tag.
type APEFrame struct {
	baseFrame
	version int
}

// Kind returns KindAPEv1 or KindAPEv2.
func (f *APEFrame) Kind() types.Kind {
	if f.version == 1 {
		return types.KindAPEv1
	}
	return types.KindAPEv2
}

// Version returns 1 or 2.
func (f *APEFrame) Version() int {
	return f.version
}

func newAPEFrame(buf *binutil.Buffer, _ *Session, off int, _ bool) (Frame, error) {
	if !buf.HasPrefix(apeMagic, off) {
		return nil, errNotThisVariant
	}

	version, err := binutil.UnpackAt[uint32](buf, off+8, binutil.LittleEndian)
	if err != nil {
		return nil, errNotThisVariant
	}
	length, err := binutil.UnpackAt[uint32](buf, off+12, binutil.LittleEndian)
	if err != nil {
		return nil, errNotThisVariant
	}

	f := &APEFrame{baseFrame: baseFrame{length: int(length) + apeHeaderLength}}
	switch version {
	case apeVersion1:
		f.version = 1
	case apeVersion2:
		f.version = 2
	default:
		return nil, errNotThisVariant
	}

	return f, nil
}
