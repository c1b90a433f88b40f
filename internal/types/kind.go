package types

// Kind identifies the variant of a frame extracted from a stream.
type Kind int

const (
	// KindUnknown is the zero value and never produced by the reader.
	KindUnknown Kind = iota // Unknown
	// KindMPEG is a plain MPEG audio frame.
	KindMPEG // MPEG
	// KindXing is an MPEG audio frame carrying a Xing or Info VBR header.
	KindXing // Xing
	// KindID3v1 is a 128-byte ID3v1 tag.
	KindID3v1 // ID3v1
	// KindID3v2 is an ID3v2 tag including its 10-byte header.
	KindID3v2 // ID3v2
	// KindAPEv1 is an APE tag version 1.
	KindAPEv1 // APEv1
	// KindAPEv2 is an APE tag version 2.
	KindAPEv2 // APEv2
	// KindRIFFHeader is the 12-byte RIFF/WAVE container header.
	KindRIFFHeader // RIFF
	// KindRIFFFmt is the RIFF "fmt " chunk.
	KindRIFFFmt // RIFF fmt
	// KindRIFFFact is the RIFF "fact" chunk.
	KindRIFFFact // RIFF fact
	// KindRIFFData is the 8-byte header of the RIFF "data" chunk.
	KindRIFFData // RIFF data
)

var kindNames = [...]string{
	KindUnknown:    "Unknown",
	KindMPEG:       "MPEG",
	KindXing:       "Xing",
	KindID3v1:      "ID3v1",
	KindID3v2:      "ID3v2",
	KindAPEv1:      "APEv1",
	KindAPEv2:      "APEv2",
	KindRIFFHeader: "RIFF",
	KindRIFFFmt:    "RIFF fmt",
	KindRIFFFact:   "RIFF fact",
	KindRIFFData:   "RIFF data",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// IsAudio reports whether frames of this kind carry MPEG audio.
func (k Kind) IsAudio() bool {
	return k == KindMPEG || k == KindXing
}

// IsID3 reports whether k is one of the ID3 tag kinds.
func (k Kind) IsID3() bool {
	return k == KindID3v1 || k == KindID3v2
}

// IsAPE reports whether k is one of the APE tag kinds.
func (k Kind) IsAPE() bool {
	return k == KindAPEv1 || k == KindAPEv2
}

// IsMeta reports whether k is a metadata tag (ID3 or APE).
func (k Kind) IsMeta() bool {
	return k.IsID3() || k.IsAPE()
}

// IsRIFF reports whether k is part of a RIFF/WAVE container.
func (k Kind) IsRIFF() bool {
	switch k {
	case KindRIFFHeader, KindRIFFFmt, KindRIFFFact, KindRIFFData:
		return true
	default:
		return false
	}
}
