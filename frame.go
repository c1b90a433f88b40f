package mpegscan

import (
	"github.com/simonhull/mpegscan/internal/mp3"
	"github.com/simonhull/mpegscan/internal/types"
)

// Frame is one unit extracted from a stream: an audio frame, a tag or a
// container chunk. Use a type switch on the concrete frame types, or Kind,
// to tell them apart:
//
//	switch f := f.(type) {
//	case *mpegscan.XingFrame:
//	    fmt.Println("VBR frames:", f.TotalFrames())
//	case *mpegscan.MPEGFrame:
//	    fmt.Println(f.Header())
//	}
type Frame = mp3.Frame

// AudioFrame is implemented by *MPEGFrame and *XingFrame.
type AudioFrame = mp3.AudioFrame

// MPEGFrame is a single MPEG audio frame.
type MPEGFrame = mp3.MPEGFrame

// XingFrame is an MPEG audio frame carrying a Xing or Info VBR header.
type XingFrame = mp3.XingFrame

// ID3Frame is an ID3v1 or ID3v2 tag.
type ID3Frame = mp3.ID3Frame

// APEFrame is an APEv1 or APEv2 tag.
type APEFrame = mp3.APEFrame

// RIFFFrame is the RIFF/WAVE header or one of its fmt, fact and data chunks.
type RIFFFrame = mp3.RIFFFrame

// Header is a decoded MPEG audio frame header.
type Header = mp3.Header

// MPEGVersion is the MPEG audio version of a frame header.
type MPEGVersion = mp3.Version

// Layer is the MPEG audio layer of a frame header.
type Layer = mp3.Layer

// ChannelMode is the channel layout of a frame header.
type ChannelMode = mp3.ChannelMode

// MPEG versions.
const (
	MPEG1  = mp3.Version1
	MPEG2  = mp3.Version2
	MPEG25 = mp3.Version25
)

// MPEG layers.
const (
	Layer1 = mp3.Layer1
	Layer2 = mp3.Layer2
	Layer3 = mp3.Layer3
)

// Channel modes.
const (
	Stereo      = mp3.Stereo
	JointStereo = mp3.JointStereo
	DualChannel = mp3.DualChannel
	Mono        = mp3.Mono
)

// Kind is an alias to types.Kind.
// Re-exporting from internal/types to maintain public API.
type Kind = types.Kind

// Frame kinds.
const (
	KindUnknown    = types.KindUnknown
	KindMPEG       = types.KindMPEG
	KindXing       = types.KindXing
	KindID3v1      = types.KindID3v1
	KindID3v2      = types.KindID3v2
	KindAPEv1      = types.KindAPEv1
	KindAPEv2      = types.KindAPEv2
	KindRIFFHeader = types.KindRIFFHeader
	KindRIFFFmt    = types.KindRIFFFmt
	KindRIFFFact   = types.KindRIFFFact
	KindRIFFData   = types.KindRIFFData
)

// ParseHeader decodes the 4-byte MPEG audio frame header at the start of p.
// Bytes past the header are used to capture the stored CRC and side
// information.
//
// Reserved or invalid field codes fail with *MalformedHeaderError.
//
// Example:
//
//	h, err := mpegscan.ParseHeader(frame.Bytes())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(h.FrameLength(), h.Valid())
func ParseHeader(p []byte) (*Header, error) {
	return mp3.ParseHeader(p)
}
