package mp3

import (
	"math"

	binutil "github.com/simonhull/mpegscan/internal/binary"
	"github.com/simonhull/mpegscan/internal/types"
)

// Xing header flags, stored in the low bits of the byte at tag+7.
const (
	xingFlagFrames  = 1 << 0
	xingFlagSize    = 1 << 1
	xingFlagTOC     = 1 << 2
	xingFlagQuality = 1 << 3
)

const (
	xingTagLength = 8 // magic and flags
	tocEntries    = 100
)

// XingLookahead is the number of bytes from a frame start that decide
// whether the frame carries a Xing/Info tag: header, CRC, the largest side
// information, the alternative CRC position and the tag itself.
const XingLookahead = headerSize + crcSize + 32 + crcSize + xingTagLength

var (
	xingMagic = []byte("Xing")
	infoMagic = []byte("Info")
)

// XingFrame is the first audio frame of a stream when it carries a Xing
// (VBR) or Info (CBR) header instead of audio.
type XingFrame struct {
	MPEGFrame
	tag         string
	tagOffset   int // relative to the frame start
	flags       byte
	totalFrames uint32
	totalSize   uint32
	quality     uint32
	toc         [tocEntries]byte
}

// Kind returns KindXing.
func (f *XingFrame) Kind() types.Kind {
	return types.KindXing
}

// Tag returns "Xing" or "Info".
func (f *XingFrame) Tag() string {
	return f.tag
}

// TotalFrames returns the number of audio frames in the stream.
func (f *XingFrame) TotalFrames() (uint32, bool) {
	return f.totalFrames, f.flags&xingFlagFrames != 0
}

// TotalSize returns the size of the audio data in bytes.
func (f *XingFrame) TotalSize() (uint32, bool) {
	return f.totalSize, f.flags&xingFlagSize != 0
}

// Quality returns the encoder's VBR quality indicator.
func (f *XingFrame) Quality() (uint32, bool) {
	return f.quality, f.flags&xingFlagQuality != 0
}

// TOC returns the 100-entry seek table.
func (f *XingFrame) TOC() ([tocEntries]byte, bool) {
	return f.toc, f.flags&xingFlagTOC != 0
}

// SeekPoint returns the byte offset at which playback of percent (0..100,
// clamped) of the stream begins, interpolated from the seek table. A
// non-positive fileSize selects the total size from the header. It reports
// false when the frame has no seek table.
func (f *XingFrame) SeekPoint(percent float64, fileSize int64) (int64, bool) {
	if f.flags&xingFlagTOC == 0 {
		return 0, false
	}
	if fileSize <= 0 {
		fileSize = int64(f.totalSize)
	}

	percent = min(max(percent, 0), 100)
	index := min(int(math.Floor(percent)), tocEntries-1)

	fa := float64(f.toc[index])
	fb := 256.0
	if index < tocEntries-1 {
		fb = float64(f.toc[index+1])
	}

	factor := fa + (fb-fa)*(percent-float64(index))
	return int64(factor / 256 * float64(fileSize)), true
}

func (f *XingFrame) assemble(p []byte) {
	f.MPEGFrame.assemble(p)

	r := binutil.NewChainReader(binutil.NewReader(p, f.tagOffset+xingTagLength, binutil.BigEndian))
	if f.flags&xingFlagFrames != 0 {
		f.totalFrames = binutil.ReadChained[uint32](r, "xing frames")
	}
	if f.flags&xingFlagSize != 0 {
		f.totalSize = binutil.ReadChained[uint32](r, "xing size")
	}
	if f.flags&xingFlagTOC != 0 {
		copy(f.toc[:], r.Bytes(tocEntries, "xing toc"))
	}
	if f.flags&xingFlagQuality != 0 {
		f.quality = binutil.ReadChained[uint32](r, "xing quality")
	}
}

func newXingFrame(buf *binutil.Buffer, s *Session, off int, strict bool) (Frame, error) {
	if s.Xing == XingAbsent {
		return nil, errNotThisVariant
	}

	m, err := detectMPEG(buf, s, off, strict)
	if err != nil {
		return nil, err
	}
	h := m.header

	// Some encoders put the tag after the CRC of protected frames and some
	// do not; look in both places.
	pos := off + h.Length(true)
	candidates := []int{pos}
	if h.Protected() {
		candidates = append(candidates, pos+crcSize)
	}
	if buf.Len() < candidates[len(candidates)-1]+xingTagLength {
		return nil, errNotThisVariant
	}

	tagPos := -1
	for _, c := range candidates {
		if buf.HasPrefix(xingMagic, c) || buf.HasPrefix(infoMagic, c) {
			tagPos = c
			break
		}
	}
	if tagPos < 0 {
		s.Xing = XingAbsent
		return nil, errNotThisVariant
	}

	tag, _ := buf.View(tagPos, xingTagLength)
	flags, _ := binutil.DecodeBE[uint32](tag, 4, "xing flags")
	f := &XingFrame{
		MPEGFrame: *m,
		tag:       string(tag[:4]),
		tagOffset: tagPos - off,
		flags:     byte(flags & 0x0F),
	}

	if err := f.checkSpan(); err != nil {
		s.Xing = XingAbsent
		return nil, errNotThisVariant
	}

	s.Xing = XingPresent
	return f, nil
}

// span returns the number of bytes from the frame start to the end of the
// Xing metadata.
func (f *XingFrame) span() int {
	n := f.tagOffset + xingTagLength
	if f.flags&xingFlagFrames != 0 {
		n += 4
	}
	if f.flags&xingFlagSize != 0 {
		n += 4
	}
	if f.flags&xingFlagTOC != 0 {
		n += tocEntries
	}
	if f.flags&xingFlagQuality != 0 {
		n += 4
	}
	return n
}

func (f *XingFrame) checkSpan() error {
	if span := f.span(); span > f.length {
		return &types.MalformedHeaderError{
			Field:  "xing",
			Code:   uint32(f.flags),
			Reason: "metadata extends past the end of the frame",
		}
	}
	return nil
}
