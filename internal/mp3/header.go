package mp3

import (
	"errors"
	"fmt"
	"slices"
	"time"

	binutil "github.com/simonhull/mpegscan/internal/binary"
	"github.com/simonhull/mpegscan/internal/types"
)

// headerFormat is the 32-bit MPEG audio frame header.
var headerFormat = binutil.MustParseFormat("sync:i:11=0x7FF,version:i:2,layer:i:2,crc:b,bitrate:i:4," +
	"samplingrate:i:2,padding:b,private:b,channelmode:i:2,modeextension:i:2,copyright:b,original:b,emphasis:i:2")

// Field positions within headerFormat.
const (
	fieldSync = iota
	fieldVersion
	fieldLayer
	fieldCRC
	fieldBitrate
	fieldSamplingRate
	fieldPadding
	fieldPrivate
	fieldChannelMode
	fieldModeExtension
	fieldCopyright
	fieldOriginal
	fieldEmphasis
	numHeaderFields
)

const (
	headerSize = 4
	crcSize    = 2
)

// Version is the MPEG audio version.
type Version int

const (
	VersionUnknown Version = iota
	Version1
	Version2
	Version25
)

func (v Version) String() string {
	switch v {
	case Version1:
		return "1"
	case Version2:
		return "2"
	case Version25:
		return "2.5"
	default:
		return "unknown"
	}
}

// class returns 0 for MPEG-1 and 1 for MPEG-2 and MPEG-2.5.
func (v Version) class() int {
	if v == Version1 {
		return 0
	}
	return 1
}

// Layer is the MPEG audio layer, 1 to 3.
type Layer int

const (
	LayerUnknown Layer = iota
	Layer1
	Layer2
	Layer3
)

func (l Layer) String() string {
	switch l {
	case Layer1:
		return "I"
	case Layer2:
		return "II"
	case Layer3:
		return "III"
	default:
		return "unknown"
	}
}

// ChannelMode is the channel layout code of a frame.
type ChannelMode int

const (
	Stereo ChannelMode = iota
	JointStereo
	DualChannel
	Mono
)

func (m ChannelMode) String() string {
	switch m {
	case Stereo:
		return "stereo"
	case JointStereo:
		return "joint stereo"
	case DualChannel:
		return "dual channel"
	default:
		return "mono"
	}
}

// Header is a decoded MPEG audio frame header together with the stored CRC
// and side information that follow it, once those have been seen.
//
// All field codes are validated by ParseHeader, so the derived accessors
// never fail.
type Header struct {
	fields   [numHeaderFields]uint32
	sideInfo []byte
	crc      uint16
	hasCRC   bool
}

// ParseHeader decodes the 4-byte frame header at the start of p.
//
// Any further bytes of p are used to capture the stored CRC and side
// information (see Update). A header with a reserved or invalid field code
// fails with a *types.MalformedHeaderError; fewer than 4 bytes fail with a
// *types.LengthError.
func ParseHeader(p []byte) (*Header, error) {
	values, err := binutil.Unpack(headerFormat, p)
	if err != nil {
		var uerr *types.UnexpectedValueError
		if errors.As(err, &uerr) {
			return nil, &types.MalformedHeaderError{Field: "sync", Code: uerr.Got, Reason: "frame sync not found"}
		}
		return nil, err
	}

	h := &Header{}
	copy(h.fields[:], values)

	if err := h.validate(); err != nil {
		return nil, err
	}

	h.Update(p)
	return h, nil
}

func (h *Header) validate() error {
	if code := h.fields[fieldVersion]; code == 1 {
		return &types.MalformedHeaderError{Field: "version", Code: code, Reason: "reserved MPEG version"}
	}
	if code := h.fields[fieldLayer]; code == 0 {
		return &types.MalformedHeaderError{Field: "layer", Code: code, Reason: "reserved layer"}
	}
	if code := h.fields[fieldBitrate]; code == 0 || code == 0xF {
		return &types.MalformedHeaderError{Field: "bitrate", Code: code, Reason: "free or bad bitrate"}
	}
	if code := h.fields[fieldSamplingRate]; code == 3 {
		return &types.MalformedHeaderError{Field: "samplingrate", Code: code, Reason: "reserved sampling rate"}
	}
	return nil
}

// Update captures the stored CRC and side information from p, which must
// start with the 4 header bytes. Values already captured are kept, so
// Update may be called repeatedly with growing data.
func (h *Header) Update(p []byte) {
	off := headerSize

	if h.Protected() {
		if !h.hasCRC && len(p) >= off+crcSize {
			h.crc = uint16(p[off])<<8 | uint16(p[off+1])
			h.hasCRC = true
		}
		off += crcSize
	}

	if n := h.SideInfoSize(); h.sideInfo == nil && len(p) >= off+n {
		h.sideInfo = slices.Clone(p[off : off+n])
	}
}

// Version returns the MPEG version.
func (h *Header) Version() Version {
	switch h.fields[fieldVersion] {
	case 0:
		return Version25
	case 2:
		return Version2
	default:
		return Version1
	}
}

// Layer returns the MPEG layer.
func (h *Header) Layer() Layer {
	return Layer(4 - h.fields[fieldLayer])
}

// Protected reports whether the frame carries a CRC. The header bit is
// stored inverted.
func (h *Header) Protected() bool {
	return h.fields[fieldCRC] == 0
}

// Bitrate returns the bitrate in kbps.
func (h *Header) Bitrate() int {
	return bitrates[h.Version().class()][h.Layer()-1][h.fields[fieldBitrate]-1]
}

// SampleRate returns the sampling rate in Hz.
func (h *Header) SampleRate() int {
	v := h.Version()
	rate := sampleRates[v.class()][h.fields[fieldSamplingRate]]
	if v == Version25 {
		rate /= 2
	}
	return rate
}

// Padding reports whether the frame carries one extra slot.
func (h *Header) Padding() bool {
	return h.fields[fieldPadding] != 0
}

func (h *Header) Private() bool {
	return h.fields[fieldPrivate] != 0
}

func (h *Header) Copyright() bool {
	return h.fields[fieldCopyright] != 0
}

func (h *Header) Original() bool {
	return h.fields[fieldOriginal] != 0
}

func (h *Header) ModeExtension() int {
	return int(h.fields[fieldModeExtension])
}

func (h *Header) Emphasis() int {
	return int(h.fields[fieldEmphasis])
}

func (h *Header) ChannelMode() ChannelMode {
	return ChannelMode(h.fields[fieldChannelMode])
}

// Channels returns 1 for mono frames and 2 otherwise.
func (h *Header) Channels() int {
	if h.ChannelMode() == Mono {
		return 1
	}
	return 2
}

// SetProtected toggles the CRC flag. A previously captured CRC is kept and
// Encode recomputes it.
func (h *Header) SetProtected(v bool) {
	h.fields[fieldCRC] = boolCode(!v)
}

func (h *Header) SetPrivate(v bool) {
	h.fields[fieldPrivate] = boolCode(v)
}

func (h *Header) SetCopyright(v bool) {
	h.fields[fieldCopyright] = boolCode(v)
}

func (h *Header) SetOriginal(v bool) {
	h.fields[fieldOriginal] = boolCode(v)
}

func boolCode(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}

// SideInfoSize returns the size of the side information block.
func (h *Header) SideInfoSize() int {
	mono := 0
	if h.ChannelMode() == Mono {
		mono = 1
	}
	return sideInfoSizes[h.Version().class()][mono]
}

// SideInfo returns the captured side information, or nil.
func (h *Header) SideInfo() []byte {
	return h.sideInfo
}

// Length returns the size of the header, the CRC (when includeCRC is set
// and the frame is protected) and the side information.
func (h *Header) Length(includeCRC bool) int {
	n := headerSize + h.SideInfoSize()
	if includeCRC && h.Protected() {
		n += crcSize
	}
	return n
}

// FrameLength returns the total length of the frame in bytes.
func (h *Header) FrameLength() int {
	layer := 1
	if h.Layer() == Layer1 {
		layer = 0
	}
	factors := frameLengthFactors[h.Version().class()][layer]
	mul, slot := factors[0], factors[1]

	pad := 0
	if h.Padding() {
		pad = 1
	}

	return (mul*h.Bitrate()*1000/h.SampleRate() + pad*slot) * slot
}

// SamplesPerFrame returns the number of PCM samples per channel the frame
// decodes to.
func (h *Header) SamplesPerFrame() int {
	switch h.Layer() {
	case Layer1:
		return 384
	case Layer2:
		return 1152
	default:
		if h.Version() == Version1 {
			return 1152
		}
		return 576
	}
}

// Duration returns the playing time of one frame.
func (h *Header) Duration() time.Duration {
	return time.Duration(h.SamplesPerFrame()) * time.Second / time.Duration(h.SampleRate())
}

// Encode serializes the header followed by the captured side information.
// When includeCRC is set and the frame is protected, a freshly computed CRC
// is inserted between the two.
func (h *Header) Encode(includeCRC bool) []byte {
	p := make([]byte, headerSize, h.Length(true))
	// Cannot fail: p has room for the format and fields holds one value per field.
	_ = binutil.Pack(headerFormat, p, h.fields[:])

	p = append(p, h.sideInfo...)

	if includeCRC && h.Protected() {
		crc := checksum(p[2:])
		p = slices.Insert(p, headerSize, byte(crc>>8), byte(crc))
	}

	return p
}

// CRC computes the checksum over the last two header bytes and the side
// information.
func (h *Header) CRC() uint16 {
	return checksum(h.Encode(false)[2:])
}

// StoredCRC returns the CRC read from the stream, if one was captured.
func (h *Header) StoredCRC() (uint16, bool) {
	return h.crc, h.hasCRC
}

// Valid reports whether the frame is unprotected or its stored CRC matches
// the computed one. A protected header whose CRC or side information has
// not been captured is not valid.
func (h *Header) Valid() bool {
	return h.Verify() == nil
}

// Verify is like Valid but explains a failure. Mismatches wrap
// types.ErrCRCMismatch.
func (h *Header) Verify() error {
	if !h.Protected() {
		return nil
	}
	if !h.hasCRC || h.sideInfo == nil {
		return fmt.Errorf("%w: crc or side information not captured", types.ErrCRCMismatch)
	}
	if crc := h.CRC(); crc != h.crc {
		return fmt.Errorf("%w: stored 0x%04X, computed 0x%04X", types.ErrCRCMismatch, h.crc, crc)
	}
	return nil
}

// Codec returns a name such as "MPEG-1 Layer III".
func (h *Header) Codec() string {
	return fmt.Sprintf("MPEG-%s Layer %s", h.Version(), h.Layer())
}

func (h *Header) String() string {
	s := fmt.Sprintf("%s %dkbps %dHz %s", h.Codec(), h.Bitrate(), h.SampleRate(), h.ChannelMode())
	if h.Protected() {
		s += " crc"
	}
	if h.Padding() {
		s += " padded"
	}
	return s
}
